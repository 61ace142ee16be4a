package repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbizreg/service-directory-go/internal/business"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestBuildPredicate_MatchAll(t *testing.T) {
	b := buildPredicate(business.ListParams{})
	assert.Empty(t, b.where())
	assert.Empty(t, b.args)
}

func TestBuildPredicate_Search(t *testing.T) {
	b := buildPredicate(business.ListParams{Search: "africell"})
	where := b.where()

	require.Len(t, b.args, 1)
	assert.Equal(t, "%africell%", b.args[0])
	for _, col := range []string{"name", "trading_name", "description", "location", "registration_number"} {
		assert.Contains(t, where, col+" ILIKE $1")
	}
	assert.Contains(t, where, " OR ")
}

func TestBuildPredicate_WhitespaceSearchIgnored(t *testing.T) {
	b := buildPredicate(business.ListParams{Search: "   "})
	assert.Empty(t, b.where())
}

func TestBuildPredicate_EscapesLikeMetacharacters(t *testing.T) {
	b := buildPredicate(business.ListParams{Search: "50%_off"})
	require.Len(t, b.args, 1)
	assert.Equal(t, `%50\%\_off%`, b.args[0])
}

func TestBuildPredicate_ExactAndSubstringFilters(t *testing.T) {
	b := buildPredicate(business.ListParams{
		Status:            "active",
		Industry:          "telecommunications",
		BusinessType:      "limited_liability",
		Ownership:         "local",
		VerificationLevel: "verified",
		Location:          "Freetown",
		City:              "Freetown",
		Province:          "Western",
	})
	where := b.where()

	assert.Contains(t, where, "status = $1")
	assert.Contains(t, where, "industry = $2")
	assert.Contains(t, where, "business_type = $3")
	assert.Contains(t, where, "ownership = $4")
	assert.Contains(t, where, "verification_level = $5")
	assert.Contains(t, where, "location ILIKE $6")
	assert.Contains(t, where, "city ILIKE $7")
	assert.Contains(t, where, "province ILIKE $8")
	assert.Equal(t, "%Freetown%", b.args[5])
}

func TestBuildPredicate_RatingRangeDomainDefaults(t *testing.T) {
	// a lone lower bound still closes the range at the domain maximum
	b := buildPredicate(business.ListParams{MinRating: floatPtr(4.5)})
	assert.Contains(t, b.where(), "rating >= $1 AND rating <= $2")
	assert.Equal(t, []any{4.5, 5.0}, b.args)

	b = buildPredicate(business.ListParams{MaxRating: floatPtr(2.0)})
	assert.Equal(t, []any{0.0, 2.0}, b.args)

	// equal bounds express an inclusive point query
	b = buildPredicate(business.ListParams{MinRating: floatPtr(3.0), MaxRating: floatPtr(3.0)})
	assert.Equal(t, []any{3.0, 3.0}, b.args)
}

func TestBuildPredicate_ComplianceRangeDomainDefaults(t *testing.T) {
	b := buildPredicate(business.ListParams{MinCompliance: intPtr(70)})
	assert.Contains(t, b.where(), "compliance_score >= $1 AND compliance_score <= $2")
	assert.Equal(t, []any{70, 100}, b.args)
}

func TestBuildPredicate_TagsContainment(t *testing.T) {
	b := buildPredicate(business.ListParams{Tags: []string{"Telecom", "Mobile"}})
	assert.Contains(t, b.where(), "tags @> $1::jsonb")
	assert.Equal(t, `["Telecom","Mobile"]`, b.args[0])
}

func TestBuildPredicate_SamePredicateForCountAndPage(t *testing.T) {
	p := business.ListParams{
		Search:    "africell",
		Status:    "active",
		MinRating: floatPtr(4.0),
		Tags:      []string{"Telecom"},
	}
	// Count and List each call buildPredicate with the same params; the
	// rendered predicate must be identical so total and rows cannot drift.
	a := buildPredicate(p)
	b := buildPredicate(p)
	assert.Equal(t, a.where(), b.where())
	assert.Equal(t, a.args, b.args)
}

func TestOrderClause(t *testing.T) {
	tests := []struct {
		sortBy    string
		sortOrder string
		want      string
	}{
		{sortBy: "name", sortOrder: "asc", want: " ORDER BY name ASC, id ASC"},
		{sortBy: "rating", sortOrder: "desc", want: " ORDER BY rating DESC, id ASC"},
		{sortBy: "complianceScore", sortOrder: "asc", want: " ORDER BY compliance_score ASC, id ASC"},
		{sortBy: "createdAt", sortOrder: "desc", want: " ORDER BY created_at DESC, id ASC"},
		{sortBy: "foundedYear", sortOrder: "asc", want: " ORDER BY founded_year ASC, id ASC"},
		// revenue sorts on the derived numeric midpoint, never the band string
		{sortBy: "revenue", sortOrder: "desc", want: " ORDER BY revenue_midpoint DESC, id ASC"},
		// defensive fallback for out-of-contract input
		{sortBy: "bogus", sortOrder: "desc", want: " ORDER BY name ASC, id ASC"},
	}
	for _, tt := range tests {
		t.Run(tt.sortBy+"_"+tt.sortOrder, func(t *testing.T) {
			assert.Equal(t, tt.want, orderClause(tt.sortBy, tt.sortOrder))
		})
	}
}
