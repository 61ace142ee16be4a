package business

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseListParams_Defaults(t *testing.T) {
	p, errs := ParseListParams(url.Values{})
	require.Nil(t, errs)

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.Limit)
	assert.Equal(t, "name", p.SortBy)
	assert.Equal(t, "asc", p.SortOrder)
	assert.Empty(t, p.Tags)
	assert.Nil(t, p.MinRating)
	assert.Nil(t, p.MaxCompliance)
}

func TestParseListParams_LimitBounds(t *testing.T) {
	tests := []struct {
		name    string
		limit   string
		wantErr bool
		want    int
	}{
		{name: "upper bound accepted", limit: "100", want: 100},
		{name: "above upper bound rejected not clamped", limit: "101", wantErr: true},
		{name: "zero rejected", limit: "0", wantErr: true},
		{name: "negative rejected", limit: "-5", wantErr: true},
		{name: "non-numeric rejected", limit: "abc", wantErr: true},
		{name: "lower bound accepted", limit: "1", want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, errs := ParseListParams(url.Values{"limit": {tt.limit}})
			if tt.wantErr {
				require.NotNil(t, errs)
				assert.Contains(t, errs, "limit")
				return
			}
			require.Nil(t, errs)
			assert.Equal(t, tt.want, p.Limit)
		})
	}
}

func TestParseListParams_Page(t *testing.T) {
	_, errs := ParseListParams(url.Values{"page": {"0"}})
	require.NotNil(t, errs)
	assert.Contains(t, errs, "page")

	p, errs := ParseListParams(url.Values{"page": {"7"}})
	require.Nil(t, errs)
	assert.Equal(t, 7, p.Page)
}

func TestParseListParams_Enums(t *testing.T) {
	tests := []struct {
		key  string
		good string
		bad  string
	}{
		{key: "status", good: "active", bad: "open"},
		{key: "industry", good: "telecommunications", bad: "telecom"},
		{key: "businessType", good: "limited_liability", bad: "llc"},
		{key: "ownership", good: "joint_venture", bad: "shared"},
		{key: "verificationLevel", good: "verified", bad: "gold"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			_, errs := ParseListParams(url.Values{tt.key: {tt.bad}})
			require.NotNil(t, errs)
			assert.Contains(t, errs, tt.key)

			_, errs = ParseListParams(url.Values{tt.key: {tt.good}})
			assert.Nil(t, errs)
		})
	}
}

func TestParseListParams_AllInvalidFieldsReported(t *testing.T) {
	_, errs := ParseListParams(url.Values{
		"limit":  {"500"},
		"status": {"open"},
		"sortBy": {"size"},
	})
	require.NotNil(t, errs)
	assert.Len(t, errs, 3)
	assert.Contains(t, errs, "limit")
	assert.Contains(t, errs, "status")
	assert.Contains(t, errs, "sortBy")
}

func TestParseListParams_RatingRange(t *testing.T) {
	_, errs := ParseListParams(url.Values{"minRating": {"5.5"}})
	require.NotNil(t, errs)
	assert.Contains(t, errs, "minRating")

	_, errs = ParseListParams(url.Values{"maxRating": {"-1"}})
	require.NotNil(t, errs)

	// inverted range is a validation error, not an empty result
	_, errs = ParseListParams(url.Values{"minRating": {"4"}, "maxRating": {"3"}})
	require.NotNil(t, errs)
	assert.Contains(t, errs, "minRating")

	p, errs := ParseListParams(url.Values{"minRating": {"3"}, "maxRating": {"3"}})
	require.Nil(t, errs)
	assert.Equal(t, 3.0, *p.MinRating)
	assert.Equal(t, 3.0, *p.MaxRating)
}

func TestParseListParams_ComplianceRange(t *testing.T) {
	_, errs := ParseListParams(url.Values{"minCompliance": {"101"}})
	require.NotNil(t, errs)

	_, errs = ParseListParams(url.Values{"minCompliance": {"90"}, "maxCompliance": {"10"}})
	require.NotNil(t, errs)
	assert.Contains(t, errs, "minCompliance")

	p, errs := ParseListParams(url.Values{"minCompliance": {"50"}, "maxCompliance": {"80"}})
	require.Nil(t, errs)
	assert.Equal(t, 50, *p.MinCompliance)
	assert.Equal(t, 80, *p.MaxCompliance)
}

func TestParseListParams_Tags(t *testing.T) {
	p, errs := ParseListParams(url.Values{"tags": {"Telecom, Mobile,,  ,Data"}})
	require.Nil(t, errs)
	assert.Equal(t, []string{"Telecom", "Mobile", "Data"}, p.Tags)
}

func TestParseListParams_TextTrimAndBound(t *testing.T) {
	p, errs := ParseListParams(url.Values{"search": {"  africell  "}})
	require.Nil(t, errs)
	assert.Equal(t, "africell", p.Search)

	_, errs = ParseListParams(url.Values{"city": {strings.Repeat("x", 201)}})
	require.NotNil(t, errs)
	assert.Contains(t, errs, "city")
}

func TestParseListParams_SortKeys(t *testing.T) {
	for _, key := range []string{"name", "rating", "complianceScore", "createdAt", "foundedYear", "revenue"} {
		p, errs := ParseListParams(url.Values{"sortBy": {key}, "sortOrder": {"desc"}})
		require.Nil(t, errs, key)
		assert.Equal(t, key, p.SortBy)
		assert.Equal(t, "desc", p.SortOrder)
	}
	_, errs := ParseListParams(url.Values{"sortOrder": {"down"}})
	require.NotNil(t, errs)
}

func TestNormalizedEchoRoundTrip(t *testing.T) {
	in := url.Values{
		"search":    {"africell"},
		"industry":  {"telecommunications"},
		"minRating": {"4.5"},
		"tags":      {"Telecom,Mobile"},
		"sortBy":    {"rating"},
		"sortOrder": {"desc"},
		"limit":     {"50"},
	}
	p1, errs := ParseListParams(in)
	require.Nil(t, errs)

	// re-submitting the normalized echo must parse to the same spec
	p2, errs := ParseListParams(p1.Normalized().Values())
	require.Nil(t, errs)
	assert.Equal(t, p1, p2)
}
