package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarketBySlug(t *testing.T) {
	la, err := MarketBySlug("la")
	require.NoError(t, err)
	assert.Equal(t, "Los Angeles", la.Name)
	assert.True(t, la.Bounds.Contains(34.05, -118.25))
	assert.False(t, la.Bounds.Contains(32.72, -117.16))

	sd, err := MarketBySlug("sd")
	require.NoError(t, err)
	assert.True(t, sd.Bounds.Contains(32.72, -117.16))
}

func TestMarketBySlug_EmptyDefaultsToLA(t *testing.T) {
	m, err := MarketBySlug("")
	require.NoError(t, err)
	assert.Equal(t, "la", m.Slug)
}

func TestMarketBySlug_Unknown(t *testing.T) {
	_, err := MarketBySlug("sf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown market")
}

func TestMarketSlugs(t *testing.T) {
	assert.Equal(t, []string{"la", "sd"}, MarketSlugs())
}

func TestMarketBTRConfig(t *testing.T) {
	la, err := MarketBySlug("la")
	require.NoError(t, err)
	cfg := la.BTRConfig()

	assert.Equal(t, 350, cfg.HardCostPSF)
	assert.InDelta(t, 0.15, cfg.SoftCostMult, 1e-9)
	// LA underwriting is focused on the lower San Fernando Valley, not
	// the whole market envelope.
	assert.True(t, cfg.Focus.Contains(34.20, -118.45))
	assert.False(t, cfg.Focus.Contains(34.50, -118.45))

	sd, err := MarketBySlug("sd")
	require.NoError(t, err)
	sdCfg := sd.BTRConfig()

	// San Diego has no narrower focus; its envelope is the market bounds.
	assert.Equal(t, sd.Bounds, sdCfg.Focus)
	assert.True(t, sdCfg.Focus.Contains(32.72, -117.16))
}
