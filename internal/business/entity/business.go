package entity

import (
	"strconv"
	"strings"
	"time"
)

// Closed enumerations for the classification fields. Query validation and
// the storage CHECK-free schema both rely on these lists.
var (
	Statuses           = []string{"active", "pending", "suspended", "inactive"}
	VerificationLevels = []string{"verified", "pending", "unverified"}
	Ownerships         = []string{"local", "foreign", "joint_venture", "government", "mixed"}

	Industries = []string{
		"telecommunications", "agriculture", "mining", "manufacturing",
		"construction", "retail", "wholesale", "financial_services",
		"insurance", "transportation", "logistics", "energy", "tourism",
		"healthcare", "education", "media", "real_estate", "technology",
		"fisheries",
	}

	BusinessTypes = []string{
		"sole_proprietorship", "partnership", "limited_liability",
		"public_limited", "cooperative", "ngo", "branch_office",
	}
)

// Director is an individual listed on the business registration.
type Director struct {
	Name        string  `json:"name"`
	Position    string  `json:"position"`
	Nationality string  `json:"nationality,omitempty"`
	SharePct    float64 `json:"sharePct,omitempty"`
}

// ComplianceRecord is one regulatory compliance check outcome.
type ComplianceRecord struct {
	Type      string     `json:"type"`
	Status    string     `json:"status"`
	Score     int        `json:"score"`
	IssuedAt  *time.Time `json:"issuedAt,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// RevenueGrowthEntry is one year of reported growth, kept chronological.
type RevenueGrowthEntry struct {
	Year   int     `json:"year"`
	Growth float64 `json:"growth"`
	Amount string  `json:"amount,omitempty"`
}

// Award is a recognition granted to the business.
type Award struct {
	Title  string `json:"title"`
	Issuer string `json:"issuer,omitempty"`
	Year   int    `json:"year,omitempty"`
}

// ESGScores is a fixed-shape environmental/social/governance scorecard.
type ESGScores struct {
	Environmental float64 `json:"environmental"`
	Social        float64 `json:"social"`
	Governance    float64 `json:"governance"`
	Overall       float64 `json:"overall"`
}

// RiskAssessment is a fixed-shape risk scorecard.
type RiskAssessment struct {
	Financial   float64 `json:"financial"`
	Operational float64 `json:"operational"`
	Compliance  float64 `json:"compliance"`
	Overall     float64 `json:"overall"`
}

// AuditInfo carries the latest audit outcome; every member is optional.
type AuditInfo struct {
	Auditor     string     `json:"auditor,omitempty"`
	Opinion     string     `json:"opinion,omitempty"`
	LastAuditAt *time.Time `json:"lastAuditAt,omitempty"`
}

// BankDetails is optional banking information; absent entirely for most rows.
type BankDetails struct {
	BankName      string `json:"bankName,omitempty"`
	AccountNumber string `json:"accountNumber,omitempty"`
	Branch        string `json:"branch,omitempty"`
}

// RegulatoryFiling is one filing lodged with the registry.
type RegulatoryFiling struct {
	Type    string     `json:"type"`
	Status  string     `json:"status,omitempty"`
	FiledAt *time.Time `json:"filedAt,omitempty"`
}

// Business is the central registry entity. Owned sub-record collections have
// no identity or lifecycle outside the business row and are always non-nil
// after EnsureDefaults.
type Business struct {
	ID                 string  `json:"id"`
	RegistrationNumber string  `json:"registrationNumber"`
	TaxID              *string `json:"taxId,omitempty"`

	Status            string `json:"status"`
	VerificationLevel string `json:"verificationLevel"`
	Industry          string `json:"industry"`
	BusinessType      string `json:"businessType"`
	Ownership         string `json:"ownership"`

	Name        string  `json:"name"`
	TradingName string  `json:"tradingName,omitempty"`
	Description string  `json:"description,omitempty"`
	Location    string  `json:"location,omitempty"`
	City        string  `json:"city,omitempty"`
	District    string  `json:"district,omitempty"`
	Province    string  `json:"province,omitempty"`
	Country     string  `json:"country,omitempty"`
	Website     *string `json:"website,omitempty"`

	Rating          float64 `json:"rating"`
	ComplianceScore int     `json:"complianceScore"`
	TrustScore      float64 `json:"trustScore"`
	FoundedYear     int     `json:"foundedYear"`

	// Revenue is the display band (e.g. "$1M-5M"); RevenueMidpointUSD is the
	// derived sortable value and never surfaces to API consumers.
	Revenue            string  `json:"revenue,omitempty"`
	RevenueMidpointUSD float64 `json:"-"`

	Tags              []string             `json:"tags"`
	Services          []string             `json:"services"`
	Certifications    []string             `json:"certifications"`
	Directors         []Director           `json:"directors"`
	ComplianceRecords []ComplianceRecord   `json:"complianceRecords"`
	RevenueGrowth     []RevenueGrowthEntry `json:"revenueGrowth"`
	MarketCoverage    []string             `json:"marketCoverage"`
	Awards            []Award              `json:"awards"`
	SocialMedia       map[string]string    `json:"socialMedia"`
	RegulatoryFilings []RegulatoryFiling   `json:"regulatoryFilings"`
	ESG               ESGScores            `json:"esgScores"`
	Risk              RiskAssessment       `json:"riskAssessment"`
	Audit             *AuditInfo           `json:"auditInfo,omitempty"`
	Bank              *BankDetails         `json:"bankDetails,omitempty"`

	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
	LastUpdated    *time.Time `json:"lastUpdated,omitempty"`
	LastVerifiedAt *time.Time `json:"lastVerifiedAt,omitempty"`
}

// EnsureDefaults initializes every owned collection so consumers can iterate
// unconditionally; JSON output then carries [] / {} instead of null.
func (b *Business) EnsureDefaults() {
	if b.Tags == nil {
		b.Tags = []string{}
	}
	if b.Services == nil {
		b.Services = []string{}
	}
	if b.Certifications == nil {
		b.Certifications = []string{}
	}
	if b.Directors == nil {
		b.Directors = []Director{}
	}
	if b.ComplianceRecords == nil {
		b.ComplianceRecords = []ComplianceRecord{}
	}
	if b.RevenueGrowth == nil {
		b.RevenueGrowth = []RevenueGrowthEntry{}
	}
	if b.MarketCoverage == nil {
		b.MarketCoverage = []string{}
	}
	if b.Awards == nil {
		b.Awards = []Award{}
	}
	if b.SocialMedia == nil {
		b.SocialMedia = map[string]string{}
	}
	if b.RegulatoryFilings == nil {
		b.RegulatoryFilings = []RegulatoryFiling{}
	}
}

// YearsOperating derives the operating age from the founding year at the
// given reference time. It is computed per response and never persisted.
func (b *Business) YearsOperating(now time.Time) int {
	if b.FoundedYear <= 0 {
		return 0
	}
	y := now.Year() - b.FoundedYear
	if y < 0 {
		return 0
	}
	return y
}

// IsValidEnum reports membership of v in the given closed enumeration.
func IsValidEnum(v string, members []string) bool {
	for _, m := range members {
		if v == m {
			return true
		}
	}
	return false
}

// RevenueMidpoint converts a display revenue band into a numeric midpoint in
// USD for ordering. Supported forms: "$500K", "$1M-5M", "$250K-1M",
// "$100M+". An open-ended band maps to its lower bound. Unparseable input
// maps to 0, which orders those rows together at the low end.
func RevenueMidpoint(band string) float64 {
	s := strings.ToUpper(strings.TrimSpace(band))
	s = strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
	if s == "" {
		return 0
	}
	if strings.HasSuffix(s, "+") {
		return parseAmount(strings.TrimSuffix(s, "+"))
	}
	if lo, hi, ok := strings.Cut(s, "-"); ok {
		l := parseAmount(lo)
		h := parseAmount(hi)
		if l == 0 || h == 0 {
			return 0
		}
		return (l + h) / 2
	}
	return parseAmount(s)
}

func parseAmount(s string) float64 {
	if s == "" {
		return 0
	}
	mult := 1.0
	switch s[len(s)-1] {
	case 'K':
		mult = 1e3
		s = s[:len(s)-1]
	case 'M':
		mult = 1e6
		s = s[:len(s)-1]
	case 'B':
		mult = 1e9
		s = s[:len(s)-1]
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v * mult
}
