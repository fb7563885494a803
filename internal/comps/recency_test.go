package comps

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSaleDate_Layouts(t *testing.T) {
	for _, s := range []string{"March-15-2025", "2025-03-15", "3/15/2025"} {
		parsed := ParseSaleDate(s)
		require.NotNil(t, parsed, s)
		assert.Equal(t, 2025, parsed.Year())
		assert.Equal(t, time.March, parsed.Month())
		assert.Equal(t, 15, parsed.Day())
	}
}

func TestParseSaleDate_Garbage(t *testing.T) {
	assert.Nil(t, ParseSaleDate("soon"))
	assert.Nil(t, ParseSaleDate(""))
	assert.Nil(t, ParseSaleDate("  "))
}

func TestRecencyWeight_Ladder(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		date string
		want float64
	}{
		{"2026-04-01", 1.0},  // 2 months ago
		{"2025-09-01", 0.85}, // 9 months ago
		{"2025-02-01", 0.65}, // 16 months ago
		{"2024-08-01", 0.50}, // 22 months ago
		{"2023-12-01", 0.35}, // 30 months ago
		{"2021-06-01", 0.20}, // 5 years ago
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, RecencyWeight(tc.date, now), tc.date)
	}
}

func TestRecencyWeight_Unparseable(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 0.5, RecencyWeight("unknown", now))
	assert.Equal(t, 0.5, RecencyWeight("", now))
}
