package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDefaults(t *testing.T) {
	b := &Business{}
	b.EnsureDefaults()

	assert.NotNil(t, b.Tags)
	assert.NotNil(t, b.Services)
	assert.NotNil(t, b.Certifications)
	assert.NotNil(t, b.Directors)
	assert.NotNil(t, b.ComplianceRecords)
	assert.NotNil(t, b.RevenueGrowth)
	assert.NotNil(t, b.MarketCoverage)
	assert.NotNil(t, b.Awards)
	assert.NotNil(t, b.SocialMedia)
	assert.NotNil(t, b.RegulatoryFilings)

	// collections serialize as [] / {}, never null
	raw, err := json.Marshal(b)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"tags":[]`)
	assert.Contains(t, string(raw), `"socialMedia":{}`)
	assert.NotContains(t, string(raw), `"tags":null`)
}

func TestEnsureDefaultsKeepsExisting(t *testing.T) {
	b := &Business{Tags: []string{"Telecom"}}
	b.EnsureDefaults()
	assert.Equal(t, []string{"Telecom"}, b.Tags)
}

func TestYearsOperating(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	b := &Business{FoundedYear: 2005}
	assert.Equal(t, 21, b.YearsOperating(now))

	// founding year unknown
	b = &Business{}
	assert.Equal(t, 0, b.YearsOperating(now))

	// future founding year never yields a negative age
	b = &Business{FoundedYear: 2030}
	assert.Equal(t, 0, b.YearsOperating(now))
}

func TestRevenueMidpoint(t *testing.T) {
	tests := []struct {
		band string
		want float64
	}{
		{band: "$1M-5M", want: 3_000_000},
		{band: "$100M+", want: 100_000_000},
		{band: "$500K", want: 500_000},
		{band: "$250K-1M", want: 625_000},
		{band: "$1B+", want: 1_000_000_000},
		{band: "$10,000", want: 10_000},
		{band: " $2m - 4m ", want: 3_000_000},
		{band: "", want: 0},
		{band: "undisclosed", want: 0},
		{band: "N/A", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.band, func(t *testing.T) {
			assert.Equal(t, tt.want, RevenueMidpoint(tt.band))
		})
	}
}

func TestRevenueMidpointOrdersBandsByMagnitude(t *testing.T) {
	// lexicographic order of the raw strings would put $100M+ before $1M-5M
	assert.Greater(t, RevenueMidpoint("$100M+"), RevenueMidpoint("$1M-5M"))
	assert.Greater(t, RevenueMidpoint("$1M-5M"), RevenueMidpoint("$500K"))
}

func TestIsValidEnum(t *testing.T) {
	assert.True(t, IsValidEnum("active", Statuses))
	assert.False(t, IsValidEnum("Active", Statuses))
	assert.False(t, IsValidEnum("", Statuses))
	assert.Len(t, Industries, 19)
}
