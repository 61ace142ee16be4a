package complaint

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbizreg/service-directory-go/internal/complaint/entity"
	"github.com/openbizreg/service-directory-go/internal/complaint/repo"
)

type stubStore struct {
	inserted *entity.Complaint
	err      error
}

func (s *stubStore) Insert(_ context.Context, c *entity.Complaint) error {
	if s.err != nil {
		return s.err
	}
	s.inserted = c
	return nil
}

func strPtr(s string) *string { return &s }

func validRequest() SubmitRequest {
	return SubmitRequest{
		Type:        "fraud",
		Description: "They charged me twice and refused to refund the duplicate payment.",
		Username:    strPtr("jkamara"),
		Source:      "web",
	}
}

func TestSubmit_OK(t *testing.T) {
	store := &stubStore{}
	svc := NewService(store)

	ref, err := svc.Submit(context.Background(), "biz-1", validRequest())
	require.NoError(t, err)

	require.NotNil(t, store.inserted)
	c := store.inserted
	assert.Equal(t, "biz-1", c.BusinessID)
	assert.Equal(t, "fraud", c.Type)
	assert.Equal(t, "pending", c.Status)
	assert.Equal(t, "web", c.Source)
	assert.Equal(t, "jkamara", *c.Username)
	assert.NotEmpty(t, c.ID)
	assert.False(t, c.CreatedAt.IsZero())

	// reference is derived from the stored row id
	assert.Equal(t, Reference(c.ID), ref)
	assert.True(t, strings.HasPrefix(ref, "CMP-"))
}

func TestSubmit_AnonymousOverridesUsername(t *testing.T) {
	store := &stubStore{}
	svc := NewService(store)

	req := validRequest()
	req.Anonymous = true
	_, err := svc.Submit(context.Background(), "biz-1", req)
	require.NoError(t, err)

	require.NotNil(t, store.inserted.Username)
	assert.Equal(t, entity.AnonymousUsername, *store.inserted.Username)
}

func TestSubmit_ValidationErrors(t *testing.T) {
	svc := NewService(&stubStore{})

	tests := []struct {
		name   string
		mutate func(*SubmitRequest)
		field  string
	}{
		{name: "missing type", mutate: func(r *SubmitRequest) { r.Type = "" }, field: "type"},
		{name: "type too short", mutate: func(r *SubmitRequest) { r.Type = "ab" }, field: "type"},
		{name: "description too short", mutate: func(r *SubmitRequest) { r.Description = "too short" }, field: "description"},
		{name: "description too long", mutate: func(r *SubmitRequest) { r.Description = strings.Repeat("x", 2001) }, field: "description"},
		{name: "bad source", mutate: func(r *SubmitRequest) { r.Source = "email" }, field: "source"},
		{name: "bad evidence url", mutate: func(r *SubmitRequest) { r.EvidenceURL = strPtr("not a url") }, field: "evidenceUrl"},
		{name: "phone too long", mutate: func(r *SubmitRequest) { r.UserPhone = strPtr(strings.Repeat("1", 40)) }, field: "userPhone"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)
			_, err := svc.Submit(context.Background(), "biz-1", req)
			require.Error(t, err)

			var verrs ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Contains(t, verrs, tt.field)
		})
	}
}

func TestSubmit_ConstraintTranslation(t *testing.T) {
	svc := NewService(&stubStore{err: repo.ErrBusinessMissing})
	_, err := svc.Submit(context.Background(), "ghost", validRequest())
	assert.ErrorIs(t, err, ErrBusinessNotFound)

	svc = NewService(&stubStore{err: repo.ErrDuplicate})
	_, err = svc.Submit(context.Background(), "biz-1", validRequest())
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestReference(t *testing.T) {
	assert.Equal(t, "CMP-NOPQRSTU", Reference("abcdefghijklmnopqrstu"))
	assert.Equal(t, "CMP-ABC", Reference("abc"))
}
