package btr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yardsworth/dealfinder/internal/model"
)

func intp(v int) *int { return &v }
func fp(v float64) *float64 { return &v }
func bp(v bool) *bool { return &v }

// candidateListing is a large flat Valley lot priced as land.
func candidateListing() *model.Listing {
	return &model.Listing{
		Lat:     34.20,
		Lng:     -118.45,
		Price:   2_000_000,
		LotSqft: intp(15_000),
		Zone:    model.ZoneLand,
	}
}

func TestEvaluate_OutsideFocusArea(t *testing.T) {
	l := candidateListing()
	l.Lat = 34.50 // north of the focus envelope

	res := Evaluate(DefaultConfig(), l, intp(500), fp(3000))
	assert.False(t, res.Eligible)
	assert.Equal(t, ScreenBounds, res.FailedScreen)
}

func TestEvaluate_LotTooSmall(t *testing.T) {
	l := candidateListing()
	l.LotSqft = intp(8000)

	res := Evaluate(DefaultConfig(), l, intp(500), fp(3000))
	assert.Equal(t, ScreenLot, res.FailedScreen)
}

func TestEvaluate_MissingLotFailsScreen(t *testing.T) {
	l := candidateListing()
	l.LotSqft = nil

	res := Evaluate(DefaultConfig(), l, intp(500), fp(3000))
	assert.Equal(t, ScreenLot, res.FailedScreen)
}

func TestEvaluate_SlopeTooSteep(t *testing.T) {
	l := candidateListing()
	l.SlopePct = fp(14.5)

	res := Evaluate(DefaultConfig(), l, intp(500), fp(3000))
	assert.Equal(t, ScreenSlope, res.FailedScreen)
}

func TestEvaluate_FireZone(t *testing.T) {
	l := candidateListing()
	l.InVHFHSZ = bp(true)

	res := Evaluate(DefaultConfig(), l, intp(500), fp(3000))
	assert.Equal(t, ScreenFireZone, res.FailedScreen)
}

func TestEvaluate_ForSalePencils(t *testing.T) {
	// Exit at $700/SF clears the $650 threshold: sell, don't hold.
	res := Evaluate(DefaultConfig(), candidateListing(), intp(700), fp(3000))
	assert.Equal(t, ScreenForSale, res.FailedScreen)
}

func TestEvaluate_NoRentData(t *testing.T) {
	res := Evaluate(DefaultConfig(), candidateListing(), intp(500), nil)
	assert.Equal(t, ScreenNoRent, res.FailedScreen)
}

func TestEvaluate_EligibleBaseCase(t *testing.T) {
	res := Evaluate(DefaultConfig(), candidateListing(), intp(500), fp(4000))

	require.True(t, res.Eligible)
	assert.Empty(t, res.FailedScreen)

	// hard = 1750 * 10 * 350 = 6,125,000; soft = 15% = 918,750
	assert.Equal(t, 6_125_000, res.HardCost)
	assert.Equal(t, 918_750, res.SoftCost)
	assert.Equal(t, 2_000_000, res.LandCost)
	assert.Equal(t, 9_043_750, res.TotalCost)

	require.NotNil(t, res.Base)
	// base rent = 4000 * 1.25 = 5000
	assert.Equal(t, 5000, res.Base.Rent)
	// NOI = 5000 * 10 * 12 * 0.95 * 0.70 = 399,000
	assert.Equal(t, 399_000, res.Base.NOI)
	// YoC = 399,000 / 9,043,750 = 0.0441, above the 4% target
	assert.InDelta(t, 0.0441, res.Base.YoC, 1e-9)

	require.NotNil(t, res.Conservative)
	assert.Equal(t, 4000, res.Conservative.Rent)
	require.NotNil(t, res.Aggressive)
	// aggressive rent = 4000 * 1.25 * 1.10 = 5500
	assert.Equal(t, 5500, res.Aggressive.Rent)

	// stabilized = base NOI / 5% cap
	assert.Equal(t, res.Base.NOI*20, res.StabilizedValue)
	// exit 500 sits 150 below the 650 for-sale line
	assert.Equal(t, -150, res.SalePPSFGap)
}

func TestEvaluate_BelowTargetYield(t *testing.T) {
	res := Evaluate(DefaultConfig(), candidateListing(), intp(500), fp(2500))

	assert.False(t, res.Eligible)
	assert.Equal(t, ScreenYield, res.FailedScreen)
	// scenarios are still reported for review
	require.NotNil(t, res.Base)
	assert.Zero(t, res.StabilizedValue)
}

func TestEvaluate_NilExitSkipsForSaleScreen(t *testing.T) {
	res := Evaluate(DefaultConfig(), candidateListing(), nil, fp(4000))
	assert.True(t, res.Eligible)
	assert.Zero(t, res.SalePPSFGap)
}

func TestEvaluate_LandCostFromExitWhenUnpriced(t *testing.T) {
	l := candidateListing()
	l.Price = 0

	res := Evaluate(DefaultConfig(), l, intp(500), fp(3500))
	// 500 $/SF * 15,000 SF lot
	assert.Equal(t, 7_500_000, res.LandCost)
}
