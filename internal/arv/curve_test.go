package arv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yardsworth/dealfinder/internal/model"
)

func lineComp(sqft int, slope float64, tier model.ConditionTier) *model.Comp {
	price := int(slope * float64(sqft))
	return &model.Comp{
		Sqft:          sqft,
		Price:         price,
		PPSF:          int(slope),
		Tier:          tier,
		RecencyWeight: 1.0,
	}
}

func TestFitSizeCurve_ExactLine(t *testing.T) {
	cfg := DefaultConfig()
	cc := []*model.Comp{
		lineComp(1000, 500, model.TierExisting),
		lineComp(2000, 500, model.TierExisting),
		lineComp(3000, 500, model.TierExisting),
	}

	fit := FitSizeCurve(cfg, cc, 1750)
	require.NotNil(t, fit)

	// slope 500, intercept 0: predicted = 500 * 1750
	assert.Equal(t, 500, fit.PSFAtTarget)
	assert.Equal(t, 875_000, fit.PriceAtTarget)
	assert.Equal(t, 0, fit.StdevPSF)
}

func TestFitSizeCurve_TooFewComps(t *testing.T) {
	cfg := DefaultConfig()
	cc := []*model.Comp{
		lineComp(1000, 500, model.TierExisting),
		lineComp(2000, 500, model.TierExisting),
	}
	assert.Nil(t, FitSizeCurve(cfg, cc, 1750))
}

func TestFitSizeCurve_OutOfBandExcluded(t *testing.T) {
	cfg := DefaultConfig()
	// Band is [1000, 3500]: the 500 and 5000 sqft comps do not count
	// toward the three-comp floor.
	cc := []*model.Comp{
		lineComp(500, 500, model.TierExisting),
		lineComp(5000, 500, model.TierExisting),
		lineComp(1000, 500, model.TierExisting),
		lineComp(2000, 500, model.TierExisting),
	}
	assert.Nil(t, FitSizeCurve(cfg, cc, 1750))
}

func TestFitSizeCurve_SlopeSanityLow(t *testing.T) {
	cfg := DefaultConfig()
	// slope 100 $/SF is below the 200 floor
	cc := []*model.Comp{
		lineComp(1000, 100, model.TierExisting),
		lineComp(2000, 100, model.TierExisting),
		lineComp(3000, 100, model.TierExisting),
	}
	assert.Nil(t, FitSizeCurve(cfg, cc, 1750))
}

func TestFitSizeCurve_SlopeSanityHigh(t *testing.T) {
	cfg := DefaultConfig()
	// slope 2000 $/SF exceeds the 1500 cap
	cc := []*model.Comp{
		lineComp(1000, 2000, model.TierExisting),
		lineComp(2000, 2000, model.TierExisting),
		lineComp(3000, 2000, model.TierExisting),
	}
	assert.Nil(t, FitSizeCurve(cfg, cc, 1750))
}

func TestFitSizeCurve_DegenerateSameSqft(t *testing.T) {
	cfg := DefaultConfig()
	cc := []*model.Comp{
		lineComp(1500, 500, model.TierExisting),
		lineComp(1500, 600, model.TierExisting),
		lineComp(1500, 700, model.TierExisting),
	}
	assert.Nil(t, FitSizeCurve(cfg, cc, 1750))
}

func TestFitSizeCurve_ZeroWeightTreatedAsNeutral(t *testing.T) {
	cfg := DefaultConfig()
	cc := []*model.Comp{
		lineComp(1000, 500, model.TierExisting),
		lineComp(2000, 500, model.TierExisting),
		lineComp(3000, 500, model.TierExisting),
	}
	for _, c := range cc {
		c.RecencyWeight = 0
	}

	fit := FitSizeCurve(cfg, cc, 1750)
	require.NotNil(t, fit)
	assert.Equal(t, 500, fit.PSFAtTarget)
}
