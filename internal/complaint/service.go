package complaint

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/openbizreg/service-directory-go/internal/complaint/entity"
	"github.com/openbizreg/service-directory-go/internal/complaint/repo"
	"github.com/openbizreg/service-directory-go/pkg/utilities"
)

var (
	ErrBusinessNotFound = errors.New("business not found")
	ErrDuplicate        = errors.New("duplicate complaint")
)

// ValidationErrors maps a payload field to what is wrong with it.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for k, msg := range v {
		parts = append(parts, k+": "+msg)
	}
	return strings.Join(parts, "; ")
}

// SubmitRequest is the complaint submission payload.
type SubmitRequest struct {
	Type        string  `json:"type" validate:"required,min=3,max=100"`
	Description string  `json:"description" validate:"required,min=10,max=2000"`
	Username    *string `json:"username" validate:"omitempty,max=100"`
	UserPhone   *string `json:"userPhone" validate:"omitempty,max=32"`
	EvidenceURL *string `json:"evidenceUrl" validate:"omitempty,url"`
	Source      string  `json:"source" validate:"required,oneof=web whatsapp"`
	Anonymous   bool    `json:"anonymous"`
}

// Store is the storage surface the service needs.
type Store interface {
	Insert(ctx context.Context, c *entity.Complaint) error
}

// Service handles complaint submission: validate, normalize attribution,
// insert.
type Service struct {
	store    Store
	validate *validator.Validate
	Timeout  time.Duration
}

func NewService(store Store) *Service {
	v := validator.New()
	// report field errors under their json names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &Service{store: store, validate: v, Timeout: 10 * time.Second}
}

// Submit validates and stores a complaint against the given business and
// returns the caller-facing reference derived from the new row's id.
func (s *Service) Submit(ctx context.Context, businessID string, req SubmitRequest) (string, error) {
	if verrs := s.validateRequest(req); len(verrs) > 0 {
		return "", verrs
	}

	username := req.Username
	if req.Anonymous {
		anon := entity.AnonymousUsername
		username = &anon
	}

	c := &entity.Complaint{
		ID:          utilities.NewKSUID(),
		BusinessID:  businessID,
		Type:        strings.TrimSpace(req.Type),
		Description: strings.TrimSpace(req.Description),
		Username:    username,
		UserPhone:   req.UserPhone,
		EvidenceURL: req.EvidenceURL,
		Source:      req.Source,
		Status:      "pending",
		CreatedAt:   time.Now().UTC(),
	}

	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()
	if err := s.store.Insert(ctx, c); err != nil {
		switch {
		case errors.Is(err, repo.ErrBusinessMissing):
			return "", ErrBusinessNotFound
		case errors.Is(err, repo.ErrDuplicate):
			return "", ErrDuplicate
		default:
			return "", err
		}
	}
	return Reference(c.ID), nil
}

func (s *Service) validateRequest(req SubmitRequest) ValidationErrors {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}
	verrs := ValidationErrors{}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			verrs[fe.Field()] = describeRule(fe)
		}
		return verrs
	}
	verrs["payload"] = "invalid payload"
	return verrs
}

func describeRule(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "url":
		return "must be a valid URL"
	default:
		return "is invalid"
	}
}

// Reference derives the caller-facing complaint reference from a row id.
func Reference(id string) string {
	tail := id
	if len(tail) > 8 {
		tail = tail[len(tail)-8:]
	}
	return "CMP-" + strings.ToUpper(tail)
}
