package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealsmith/v1/internal/domain/planner"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "Mealsmith", cfg.App.Name)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.True(t, cfg.Monitoring.EnableMetrics)
	assert.Equal(t, 200, cfg.Catalog.SeedRecipes)

	assert.InDelta(t, 0.20, cfg.Engine.Weights.Food, 1e-9)
	assert.InDelta(t, 0.05, cfg.Engine.Weights.Feedback, 1e-9)
	assert.Equal(t, "linear", cfg.Engine.TimePenaltyCurve)
	assert.Equal(t, 720*time.Hour, cfg.Engine.FeedbackCooldown)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("MEALSMITH_SERVER_PORT", "9999")
	t.Setenv("MEALSMITH_ENGINE_EXPLORATION_CHANCE", "0.5")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.InDelta(t, 0.5, cfg.Engine.ExplorationChance, 1e-9)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	cfg.Server.Port = 0
	assert.Error(t, cfg.Validate())

	cfg, err = Load("")
	require.NoError(t, err)
	cfg.Engine.ExplorationChance = 1.5
	assert.Error(t, cfg.Validate())

	cfg, err = Load("")
	require.NoError(t, err)
	cfg.Engine.TimePenaltyCurve = "quadratic"
	assert.Error(t, cfg.Validate())
}

func TestToPlannerConfig(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	engineCfg := cfg.Engine.ToPlannerConfig()
	assert.Equal(t, planner.DefaultConfig().Weights, engineCfg.Weights)
	assert.Equal(t, planner.CurveLinear, engineCfg.TimePenaltyCurve)
	assert.Equal(t, 10, engineCfg.MaxRefineIterations)

	// Zero-valued sections keep the engine defaults
	empty := EngineConfig{}
	assert.Equal(t, planner.DefaultConfig(), empty.ToPlannerConfig())
}
