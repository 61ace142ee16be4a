package business

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/openbizreg/service-directory-go/internal/business/entity"
)

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100

	// free-text filters are bounded so an ILIKE predicate can't be fed
	// arbitrarily long needles
	maxTextFilterLen = 200

	defaultSortBy    = "name"
	defaultSortOrder = "asc"
)

var sortKeys = []string{"name", "rating", "complianceScore", "createdAt", "foundedYear", "revenue"}

// ListParams is the normalized, default-filled query spec for the list
// endpoint. Empty string means the filter is absent; nil pointer means the
// bound is absent.
type ListParams struct {
	Page  int
	Limit int

	Search   string
	Location string
	City     string
	Province string

	Status            string
	Industry          string
	BusinessType      string
	Ownership         string
	VerificationLevel string

	MinRating     *float64
	MaxRating     *float64
	MinCompliance *int
	MaxCompliance *int

	SortBy    string
	SortOrder string

	Tags []string
}

// ValidationErrors maps a query parameter name to what is wrong with it.
// Every invalid field is reported, not just the first.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "no validation errors"
	}
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+v[k])
	}
	return strings.Join(parts, "; ")
}

// ParseListParams validates raw query values into a ListParams. On any
// failure it returns a non-empty ValidationErrors and the request must be
// rejected whole; no field is partially applied.
func ParseListParams(values url.Values) (ListParams, ValidationErrors) {
	errs := ValidationErrors{}
	p := ListParams{
		Page:      defaultPage,
		Limit:     defaultLimit,
		SortBy:    defaultSortBy,
		SortOrder: defaultSortOrder,
		Tags:      []string{},
	}

	if raw := values.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			errs["page"] = "must be an integer >= 1"
		} else {
			p.Page = n
		}
	}
	if raw := values.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			errs["limit"] = "must be an integer"
		case n < 1 || n > maxLimit:
			// out-of-range limits are rejected, never clamped
			errs["limit"] = "must be between 1 and 100"
		default:
			p.Limit = n
		}
	}

	p.Status = parseEnum(values, errs, "status", entity.Statuses)
	p.Industry = parseEnum(values, errs, "industry", entity.Industries)
	p.BusinessType = parseEnum(values, errs, "businessType", entity.BusinessTypes)
	p.Ownership = parseEnum(values, errs, "ownership", entity.Ownerships)
	p.VerificationLevel = parseEnum(values, errs, "verificationLevel", entity.VerificationLevels)

	p.MinRating = parseFloatInRange(values, errs, "minRating", 0, 5)
	p.MaxRating = parseFloatInRange(values, errs, "maxRating", 0, 5)
	if p.MinRating != nil && p.MaxRating != nil && *p.MinRating > *p.MaxRating {
		errs["minRating"] = "must not exceed maxRating"
	}

	p.MinCompliance = parseIntInRange(values, errs, "minCompliance", 0, 100)
	p.MaxCompliance = parseIntInRange(values, errs, "maxCompliance", 0, 100)
	if p.MinCompliance != nil && p.MaxCompliance != nil && *p.MinCompliance > *p.MaxCompliance {
		errs["minCompliance"] = "must not exceed maxCompliance"
	}

	if raw := values.Get("sortBy"); raw != "" {
		if entity.IsValidEnum(raw, sortKeys) {
			p.SortBy = raw
		} else {
			errs["sortBy"] = "must be one of " + strings.Join(sortKeys, ", ")
		}
	}
	if raw := values.Get("sortOrder"); raw != "" {
		if raw == "asc" || raw == "desc" {
			p.SortOrder = raw
		} else {
			errs["sortOrder"] = "must be asc or desc"
		}
	}

	p.Search = parseText(values, errs, "search")
	p.Location = parseText(values, errs, "location")
	p.City = parseText(values, errs, "city")
	p.Province = parseText(values, errs, "province")

	if raw := values.Get("tags"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			t = strings.TrimSpace(t)
			if t != "" {
				p.Tags = append(p.Tags, t)
			}
		}
	}

	if len(errs) > 0 {
		return ListParams{}, errs
	}
	return p, nil
}

func parseEnum(values url.Values, errs ValidationErrors, key string, members []string) string {
	raw := values.Get(key)
	if raw == "" {
		return ""
	}
	if !entity.IsValidEnum(raw, members) {
		errs[key] = "must be one of " + strings.Join(members, ", ")
		return ""
	}
	return raw
}

func parseFloatInRange(values url.Values, errs ValidationErrors, key string, lo, hi float64) *float64 {
	raw := values.Get(key)
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f < lo || f > hi {
		errs[key] = "must be a number between " + strconv.FormatFloat(lo, 'f', -1, 64) + " and " + strconv.FormatFloat(hi, 'f', -1, 64)
		return nil
	}
	return &f
}

func parseIntInRange(values url.Values, errs ValidationErrors, key string, lo, hi int) *int {
	raw := values.Get(key)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < lo || n > hi {
		errs[key] = "must be an integer between " + strconv.Itoa(lo) + " and " + strconv.Itoa(hi)
		return nil
	}
	return &n
}

func parseText(values url.Values, errs ValidationErrors, key string) string {
	raw := strings.TrimSpace(values.Get(key))
	if len(raw) > maxTextFilterLen {
		errs[key] = "must be at most " + strconv.Itoa(maxTextFilterLen) + " characters"
		return ""
	}
	return raw
}

// CurrentFilters is the normalized echo returned to callers so they can see
// exactly which defaults were applied.
type CurrentFilters struct {
	Page              int      `json:"page"`
	Limit             int      `json:"limit"`
	Search            string   `json:"search,omitempty"`
	Status            string   `json:"status,omitempty"`
	Industry          string   `json:"industry,omitempty"`
	BusinessType      string   `json:"businessType,omitempty"`
	Ownership         string   `json:"ownership,omitempty"`
	VerificationLevel string   `json:"verificationLevel,omitempty"`
	Location          string   `json:"location,omitempty"`
	City              string   `json:"city,omitempty"`
	Province          string   `json:"province,omitempty"`
	MinRating         *float64 `json:"minRating,omitempty"`
	MaxRating         *float64 `json:"maxRating,omitempty"`
	MinCompliance     *int     `json:"minCompliance,omitempty"`
	MaxCompliance     *int     `json:"maxCompliance,omitempty"`
	SortBy            string   `json:"sortBy"`
	SortOrder         string   `json:"sortOrder"`
	Tags              []string `json:"tags"`
}

// Normalized reports the post-validation filter set for the response echo.
func (p ListParams) Normalized() CurrentFilters {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return CurrentFilters{
		Page:              p.Page,
		Limit:             p.Limit,
		Search:            p.Search,
		Status:            p.Status,
		Industry:          p.Industry,
		BusinessType:      p.BusinessType,
		Ownership:         p.Ownership,
		VerificationLevel: p.VerificationLevel,
		Location:          p.Location,
		City:              p.City,
		Province:          p.Province,
		MinRating:         p.MinRating,
		MaxRating:         p.MaxRating,
		MinCompliance:     p.MinCompliance,
		MaxCompliance:     p.MaxCompliance,
		SortBy:            p.SortBy,
		SortOrder:         p.SortOrder,
		Tags:              tags,
	}
}

// Values renders the normalized filter set back into a query string form.
// Re-submitting these values parses to an identical ListParams.
func (f CurrentFilters) Values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(f.Page))
	v.Set("limit", strconv.Itoa(f.Limit))
	setIf := func(key, val string) {
		if val != "" {
			v.Set(key, val)
		}
	}
	setIf("search", f.Search)
	setIf("status", f.Status)
	setIf("industry", f.Industry)
	setIf("businessType", f.BusinessType)
	setIf("ownership", f.Ownership)
	setIf("verificationLevel", f.VerificationLevel)
	setIf("location", f.Location)
	setIf("city", f.City)
	setIf("province", f.Province)
	if f.MinRating != nil {
		v.Set("minRating", strconv.FormatFloat(*f.MinRating, 'f', -1, 64))
	}
	if f.MaxRating != nil {
		v.Set("maxRating", strconv.FormatFloat(*f.MaxRating, 'f', -1, 64))
	}
	if f.MinCompliance != nil {
		v.Set("minCompliance", strconv.Itoa(*f.MinCompliance))
	}
	if f.MaxCompliance != nil {
		v.Set("maxCompliance", strconv.Itoa(*f.MaxCompliance))
	}
	v.Set("sortBy", f.SortBy)
	v.Set("sortOrder", f.SortOrder)
	if len(f.Tags) > 0 {
		v.Set("tags", strings.Join(f.Tags, ","))
	}
	return v
}
