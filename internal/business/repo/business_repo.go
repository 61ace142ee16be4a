package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/openbizreg/service-directory-go/internal/business"
	"github.com/openbizreg/service-directory-go/internal/business/entity"
	"github.com/openbizreg/service-directory-go/pkg/utilities"
)

// Repo provides data access for the businesses table using sqlx.
type Repo struct {
	db *sqlx.DB
}

func NewRepo(db *sqlx.DB) *Repo { return &Repo{db: db} }

// EnsureTable creates the businesses table and its indexes if absent
// (idempotent). Owned sub-record collections live in JSONB columns that
// default to empty, never null.
func (r *Repo) EnsureTable(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS businesses (
  id varchar(32) PRIMARY KEY,
  registration_number TEXT NOT NULL UNIQUE,
  tax_id TEXT,
  status TEXT NOT NULL DEFAULT 'pending',
  verification_level TEXT NOT NULL DEFAULT 'unverified',
  industry TEXT NOT NULL DEFAULT '',
  business_type TEXT NOT NULL DEFAULT '',
  ownership TEXT NOT NULL DEFAULT '',
  name TEXT NOT NULL,
  trading_name TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT '',
  location TEXT NOT NULL DEFAULT '',
  city TEXT NOT NULL DEFAULT '',
  district TEXT NOT NULL DEFAULT '',
  province TEXT NOT NULL DEFAULT '',
  country TEXT NOT NULL DEFAULT '',
  website TEXT,
  rating NUMERIC(3,2) NOT NULL DEFAULT 0 CHECK (rating >= 0 AND rating <= 5),
  compliance_score INT NOT NULL DEFAULT 0 CHECK (compliance_score >= 0 AND compliance_score <= 100),
  trust_score NUMERIC(5,2) NOT NULL DEFAULT 0,
  founded_year INT NOT NULL DEFAULT 0,
  revenue TEXT NOT NULL DEFAULT '',
  revenue_midpoint NUMERIC NOT NULL DEFAULT 0,
  tags JSONB NOT NULL DEFAULT '[]'::jsonb,
  services JSONB NOT NULL DEFAULT '[]'::jsonb,
  certifications JSONB NOT NULL DEFAULT '[]'::jsonb,
  directors JSONB NOT NULL DEFAULT '[]'::jsonb,
  compliance_records JSONB NOT NULL DEFAULT '[]'::jsonb,
  revenue_growth JSONB NOT NULL DEFAULT '[]'::jsonb,
  market_coverage JSONB NOT NULL DEFAULT '[]'::jsonb,
  awards JSONB NOT NULL DEFAULT '[]'::jsonb,
  social_media JSONB NOT NULL DEFAULT '{}'::jsonb,
  regulatory_filings JSONB NOT NULL DEFAULT '[]'::jsonb,
  esg_scores JSONB NOT NULL DEFAULT '{}'::jsonb,
  risk_assessment JSONB NOT NULL DEFAULT '{}'::jsonb,
  audit_info JSONB,
  bank_details JSONB,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  last_updated TIMESTAMPTZ,
  last_verified_at TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_businesses_status ON businesses (status);
CREATE INDEX IF NOT EXISTS idx_businesses_industry ON businesses (industry);
CREATE INDEX IF NOT EXISTS idx_businesses_business_type ON businesses (business_type);
CREATE INDEX IF NOT EXISTS idx_businesses_ownership ON businesses (ownership);
CREATE INDEX IF NOT EXISTS idx_businesses_verification ON businesses (verification_level);
CREATE INDEX IF NOT EXISTS idx_businesses_name ON businesses (name);
CREATE INDEX IF NOT EXISTS idx_businesses_tags ON businesses USING GIN (tags);
`
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

const selectColumns = `id, registration_number, tax_id, status, verification_level,
  industry, business_type, ownership, name, trading_name, description,
  location, city, district, province, country, website, rating,
  compliance_score, trust_score, founded_year, revenue, revenue_midpoint,
  tags, services, certifications, directors, compliance_records,
  revenue_growth, market_coverage, awards, social_media, regulatory_filings,
  esg_scores, risk_assessment, audit_info, bank_details,
  created_at, updated_at, last_updated, last_verified_at`

// businessRow mirrors the table layout; JSONB columns arrive as raw bytes
// and are unmarshalled into typed collections by toEntity.
type businessRow struct {
	ID                 string     `db:"id"`
	RegistrationNumber string     `db:"registration_number"`
	TaxID              *string    `db:"tax_id"`
	Status             string     `db:"status"`
	VerificationLevel  string     `db:"verification_level"`
	Industry           string     `db:"industry"`
	BusinessType       string     `db:"business_type"`
	Ownership          string     `db:"ownership"`
	Name               string     `db:"name"`
	TradingName        string     `db:"trading_name"`
	Description        string     `db:"description"`
	Location           string     `db:"location"`
	City               string     `db:"city"`
	District           string     `db:"district"`
	Province           string     `db:"province"`
	Country            string     `db:"country"`
	Website            *string    `db:"website"`
	Rating             float64    `db:"rating"`
	ComplianceScore    int        `db:"compliance_score"`
	TrustScore         float64    `db:"trust_score"`
	FoundedYear        int        `db:"founded_year"`
	Revenue            string     `db:"revenue"`
	RevenueMidpoint    float64    `db:"revenue_midpoint"`
	Tags               []byte     `db:"tags"`
	Services           []byte     `db:"services"`
	Certifications     []byte     `db:"certifications"`
	Directors          []byte     `db:"directors"`
	ComplianceRecords  []byte     `db:"compliance_records"`
	RevenueGrowth      []byte     `db:"revenue_growth"`
	MarketCoverage     []byte     `db:"market_coverage"`
	Awards             []byte     `db:"awards"`
	SocialMedia        []byte     `db:"social_media"`
	RegulatoryFilings  []byte     `db:"regulatory_filings"`
	ESGScores          []byte     `db:"esg_scores"`
	RiskAssessment     []byte     `db:"risk_assessment"`
	AuditInfo          []byte     `db:"audit_info"`
	BankDetails        []byte     `db:"bank_details"`
	CreatedAt          time.Time  `db:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at"`
	LastUpdated        *time.Time `db:"last_updated"`
	LastVerifiedAt     *time.Time `db:"last_verified_at"`
}

func (row *businessRow) toEntity() (*entity.Business, error) {
	b := &entity.Business{
		ID:                 row.ID,
		RegistrationNumber: row.RegistrationNumber,
		TaxID:              row.TaxID,
		Status:             row.Status,
		VerificationLevel:  row.VerificationLevel,
		Industry:           row.Industry,
		BusinessType:       row.BusinessType,
		Ownership:          row.Ownership,
		Name:               row.Name,
		TradingName:        row.TradingName,
		Description:        row.Description,
		Location:           row.Location,
		City:               row.City,
		District:           row.District,
		Province:           row.Province,
		Country:            row.Country,
		Website:            row.Website,
		Rating:             row.Rating,
		ComplianceScore:    row.ComplianceScore,
		TrustScore:         row.TrustScore,
		FoundedYear:        row.FoundedYear,
		Revenue:            row.Revenue,
		RevenueMidpointUSD: row.RevenueMidpoint,
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
		LastUpdated:        row.LastUpdated,
		LastVerifiedAt:     row.LastVerifiedAt,
	}
	jsonCols := []struct {
		raw []byte
		dst any
	}{
		{row.Tags, &b.Tags},
		{row.Services, &b.Services},
		{row.Certifications, &b.Certifications},
		{row.Directors, &b.Directors},
		{row.ComplianceRecords, &b.ComplianceRecords},
		{row.RevenueGrowth, &b.RevenueGrowth},
		{row.MarketCoverage, &b.MarketCoverage},
		{row.Awards, &b.Awards},
		{row.SocialMedia, &b.SocialMedia},
		{row.RegulatoryFilings, &b.RegulatoryFilings},
		{row.ESGScores, &b.ESG},
		{row.RiskAssessment, &b.Risk},
	}
	for _, c := range jsonCols {
		if len(c.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(c.raw, c.dst); err != nil {
			return nil, fmt.Errorf("decode business %s: %w", b.ID, err)
		}
	}
	if len(row.AuditInfo) > 0 {
		b.Audit = &entity.AuditInfo{}
		if err := json.Unmarshal(row.AuditInfo, b.Audit); err != nil {
			return nil, fmt.Errorf("decode business %s audit_info: %w", b.ID, err)
		}
	}
	if len(row.BankDetails) > 0 {
		b.Bank = &entity.BankDetails{}
		if err := json.Unmarshal(row.BankDetails, b.Bank); err != nil {
			return nil, fmt.Errorf("decode business %s bank_details: %w", b.ID, err)
		}
	}
	b.EnsureDefaults()
	return b, nil
}

// Create inserts a business row. Assigns a snowflake id when absent and
// derives revenue_midpoint from the display band so sorting by revenue is
// magnitude-correct. Used by bulk loaders and tests; there is no public
// create endpoint.
func (r *Repo) Create(ctx context.Context, b *entity.Business) error {
	if b.ID == "" {
		b.ID = utilities.NewSnowflakeID()
	}
	now := time.Now().UTC()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
	b.EnsureDefaults()
	b.RevenueMidpointUSD = entity.RevenueMidpoint(b.Revenue)

	params := map[string]any{
		"id":                  b.ID,
		"registration_number": b.RegistrationNumber,
		"tax_id":              b.TaxID,
		"status":              b.Status,
		"verification_level":  b.VerificationLevel,
		"industry":            b.Industry,
		"business_type":       b.BusinessType,
		"ownership":           b.Ownership,
		"name":                b.Name,
		"trading_name":        b.TradingName,
		"description":         b.Description,
		"location":            b.Location,
		"city":                b.City,
		"district":            b.District,
		"province":            b.Province,
		"country":             b.Country,
		"website":             b.Website,
		"rating":              b.Rating,
		"compliance_score":    b.ComplianceScore,
		"trust_score":         b.TrustScore,
		"founded_year":        b.FoundedYear,
		"revenue":             b.Revenue,
		"revenue_midpoint":    b.RevenueMidpointUSD,
		"tags":                mustJSON(b.Tags),
		"services":            mustJSON(b.Services),
		"certifications":      mustJSON(b.Certifications),
		"directors":           mustJSON(b.Directors),
		"compliance_records":  mustJSON(b.ComplianceRecords),
		"revenue_growth":      mustJSON(b.RevenueGrowth),
		"market_coverage":     mustJSON(b.MarketCoverage),
		"awards":              mustJSON(b.Awards),
		"social_media":        mustJSON(b.SocialMedia),
		"regulatory_filings":  mustJSON(b.RegulatoryFilings),
		"esg_scores":          mustJSON(b.ESG),
		"risk_assessment":     mustJSON(b.Risk),
		"audit_info":          nullableJSON(b.Audit),
		"bank_details":        nullableJSON(b.Bank),
		"created_at":          b.CreatedAt,
		"updated_at":          b.UpdatedAt,
		"last_updated":        b.LastUpdated,
		"last_verified_at":    b.LastVerifiedAt,
	}
	const q = `INSERT INTO businesses (
  id, registration_number, tax_id, status, verification_level, industry,
  business_type, ownership, name, trading_name, description, location, city,
  district, province, country, website, rating, compliance_score, trust_score,
  founded_year, revenue, revenue_midpoint, tags, services, certifications,
  directors, compliance_records, revenue_growth, market_coverage, awards,
  social_media, regulatory_filings, esg_scores, risk_assessment, audit_info,
  bank_details, created_at, updated_at, last_updated, last_verified_at
) VALUES (
  :id, :registration_number, :tax_id, :status, :verification_level, :industry,
  :business_type, :ownership, :name, :trading_name, :description, :location, :city,
  :district, :province, :country, :website, :rating, :compliance_score, :trust_score,
  :founded_year, :revenue, :revenue_midpoint, :tags, :services, :certifications,
  :directors, :compliance_records, :revenue_growth, :market_coverage, :awards,
  :social_media, :regulatory_filings, :esg_scores, :risk_assessment, :audit_info,
  :bank_details, :created_at, :updated_at, :last_updated, :last_verified_at
)`
	if _, err := r.db.NamedExecContext(ctx, q, params); err != nil {
		return fmt.Errorf("insert business: %w", err)
	}
	return nil
}

// mustJSON renders v as a JSON string; lib/pq sends strings verbatim, which
// casts cleanly to jsonb, where []byte would be treated as bytea.
func mustJSON(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(raw)
}

func nullableJSON(v any) any {
	switch t := v.(type) {
	case *entity.AuditInfo:
		if t == nil {
			return nil
		}
	case *entity.BankDetails:
		if t == nil {
			return nil
		}
	}
	return mustJSON(v)
}

// Count returns the number of rows matching the filter predicate.
func (r *Repo) Count(ctx context.Context, p business.ListParams) (int64, error) {
	b := buildPredicate(p)
	var total int64
	q := "SELECT COUNT(*) FROM businesses" + b.where()
	if err := r.db.GetContext(ctx, &total, q, b.args...); err != nil {
		return 0, fmt.Errorf("count businesses: %w", err)
	}
	return total, nil
}

// List returns one page of rows matching the filter predicate in the
// requested order. The predicate is built by the same buildPredicate used by
// Count, so the two queries always agree on which rows qualify.
func (r *Repo) List(ctx context.Context, p business.ListParams) ([]*entity.Business, error) {
	b := buildPredicate(p)
	q := "SELECT " + selectColumns + " FROM businesses" + b.where() +
		orderClause(p.SortBy, p.SortOrder) +
		fmt.Sprintf(" LIMIT %d OFFSET %d", p.Limit, business.Offset(p.Page, p.Limit))

	var rows []businessRow
	if err := r.db.SelectContext(ctx, &rows, q, b.args...); err != nil {
		return nil, fmt.Errorf("list businesses: %w", err)
	}
	out := make([]*entity.Business, 0, len(rows))
	for i := range rows {
		e, err := rows[i].toEntity()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// GetByID fetches a full business row; sql.ErrNoRows passes through for the
// service to translate.
func (r *Repo) GetByID(ctx context.Context, id string) (*entity.Business, error) {
	var row businessRow
	q := "SELECT " + selectColumns + " FROM businesses WHERE id=$1"
	if err := r.db.GetContext(ctx, &row, q, id); err != nil {
		return nil, err
	}
	return row.toEntity()
}

// StatusFacets counts rows per status over the whole table, independent of
// any active filters. The stable-facet contract is deliberate; see DESIGN.md.
func (r *Repo) StatusFacets(ctx context.Context) (map[string]int64, error) {
	const q = `SELECT status, COUNT(*) AS count FROM businesses GROUP BY status`
	var rows []struct {
		Status string `db:"status"`
		Count  int64  `db:"count"`
	}
	if err := r.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, fmt.Errorf("status facets: %w", err)
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Count
	}
	return out, nil
}

// TopIndustries returns the ten most common industries over the whole table,
// count descending with industry name as tiebreak.
func (r *Repo) TopIndustries(ctx context.Context) ([]business.IndustryCount, error) {
	const q = `SELECT industry, COUNT(*) AS count FROM businesses
  GROUP BY industry ORDER BY count DESC, industry ASC LIMIT 10`
	var rows []struct {
		Industry string `db:"industry"`
		Count    int64  `db:"count"`
	}
	if err := r.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, fmt.Errorf("industry facets: %w", err)
	}
	out := make([]business.IndustryCount, 0, len(rows))
	for _, row := range rows {
		out = append(out, business.IndustryCount{Industry: row.Industry, Count: row.Count})
	}
	return out, nil
}
