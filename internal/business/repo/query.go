package repo

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openbizreg/service-directory-go/internal/business"
)

// predicateBuilder accumulates AND-composed SQL clauses with positional
// placeholders. The zero value is the universal match-all predicate.
type predicateBuilder struct {
	clauses []string
	args    []any
}

// next reserves the next placeholder for v and returns its "$n" form.
func (b *predicateBuilder) next(v any) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}

func (b *predicateBuilder) add(clause string) {
	b.clauses = append(b.clauses, clause)
}

// where renders the accumulated predicate as a WHERE clause, or an empty
// string when no filter is active.
func (b *predicateBuilder) where() string {
	if len(b.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.clauses, " AND ")
}

// escapeLike neutralizes LIKE metacharacters so user input always matches as
// a literal substring. Postgres treats backslash as the default escape.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// searchColumns are the text fields the free search term is matched against.
var searchColumns = []string{"name", "trading_name", "description", "location", "registration_number"}

// buildPredicate converts validated list params into one composite predicate.
// Count and page queries must both be produced from the same builder call so
// they can never disagree on which rows qualify.
func buildPredicate(p business.ListParams) *predicateBuilder {
	b := &predicateBuilder{}

	if term := strings.TrimSpace(p.Search); term != "" {
		needle := "%" + escapeLike(term) + "%"
		ph := b.next(needle)
		ors := make([]string, 0, len(searchColumns))
		for _, col := range searchColumns {
			ors = append(ors, col+" ILIKE "+ph)
		}
		b.add("(" + strings.Join(ors, " OR ") + ")")
	}

	exact := []struct{ col, val string }{
		{"status", p.Status},
		{"industry", p.Industry},
		{"business_type", p.BusinessType},
		{"ownership", p.Ownership},
		{"verification_level", p.VerificationLevel},
	}
	for _, f := range exact {
		if f.val != "" {
			b.add(f.col + " = " + b.next(f.val))
		}
	}

	substr := []struct{ col, val string }{
		{"location", p.Location},
		{"city", p.City},
		{"province", p.Province},
	}
	for _, f := range substr {
		if f.val != "" {
			b.add(f.col + " ILIKE " + b.next("%"+escapeLike(f.val)+"%"))
		}
	}

	// a lone bound still produces a full range clause, closed at the domain
	// limit on the missing side
	if p.MinRating != nil || p.MaxRating != nil {
		lo, hi := 0.0, 5.0
		if p.MinRating != nil {
			lo = *p.MinRating
		}
		if p.MaxRating != nil {
			hi = *p.MaxRating
		}
		b.add("rating >= " + b.next(lo) + " AND rating <= " + b.next(hi))
	}
	if p.MinCompliance != nil || p.MaxCompliance != nil {
		lo, hi := 0, 100
		if p.MinCompliance != nil {
			lo = *p.MinCompliance
		}
		if p.MaxCompliance != nil {
			hi = *p.MaxCompliance
		}
		b.add("compliance_score >= " + b.next(lo) + " AND compliance_score <= " + b.next(hi))
	}

	if len(p.Tags) > 0 {
		// containment: the row's tag set must include every requested tag
		raw, _ := json.Marshal(p.Tags)
		b.add("tags @> " + b.next(string(raw)) + "::jsonb")
	}

	return b
}

// sortColumns maps the validated sortBy keys to their sortable columns.
// revenue sorts on the derived numeric midpoint, not the display band; the
// raw band string is lexicographic and would order "$1M-5M" after "$100M+".
var sortColumns = map[string]string{
	"name":            "name",
	"rating":          "rating",
	"complianceScore": "compliance_score",
	"createdAt":       "created_at",
	"foundedYear":     "founded_year",
	"revenue":         "revenue_midpoint",
}

// orderClause resolves sortBy/sortOrder to a concrete ORDER BY. Validation
// closes both enums upstream; out-of-contract input falls back to name
// ascending. A stable id tiebreaker keeps pagination deterministic.
func orderClause(sortBy, sortOrder string) string {
	col, ok := sortColumns[sortBy]
	if !ok {
		col = "name"
		sortOrder = "asc"
	}
	dir := "ASC"
	if sortOrder == "desc" {
		dir = "DESC"
	}
	return " ORDER BY " + col + " " + dir + ", id ASC"
}
