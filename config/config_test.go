package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbeddedDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 200, cfg.World.Width)
	assert.Equal(t, 3, cfg.Colony.Count)
	assert.Equal(t, uint8(7), cfg.Water.MaxDepth)
	assert.Equal(t, float32(0.02), cfg.Pheromone.DecayFood)
	assert.Equal(t, uint64(5), cfg.Combat.Interval)
	assert.Equal(t, uint32(50000), cfg.Lifecycle.QueenLifespan)
}

func TestUserFileOverridesOnlySetFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.yaml")
	require.NoError(t, os.WriteFile(path, []byte("world:\n  width: 64\n  height: 64\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 64, cfg.World.Width)
	assert.Equal(t, 64, cfg.World.Height)
	assert.Equal(t, 3, cfg.Colony.Count, "untouched fields keep defaults")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}

func TestValidateRejections(t *testing.T) {
	base := func() *Config {
		cfg, err := Load("")
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.World.Width = 0 }},
		{"negative height", func(c *Config) { c.World.Height = -5 }},
		{"zero cell size", func(c *Config) { c.World.SpatialCellSize = 0 }},
		{"no colonies", func(c *Config) { c.Colony.Count = 0 }},
		{"too many colonies", func(c *Config) { c.Colony.Count = 9 }},
		{"inverted rain intensity", func(c *Config) { c.Water.RainIntensityMin = 5; c.Water.RainIntensityMax = 2 }},
		{"inverted rain duration", func(c *Config) { c.Water.RainDurationMin = 100; c.Water.RainDurationMax = 100 }},
		{"inverted rain coverage", func(c *Config) { c.Water.RainCoverageMin = 0.9; c.Water.RainCoverageMax = 0.1 }},
		{"zero rain chance", func(c *Config) { c.Water.RainChance = 0 }},
		{"zero water depth", func(c *Config) { c.Water.MaxDepth = 0 }},
		{"zero combat interval", func(c *Config) { c.Combat.Interval = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, cfg.WriteYAML(path))

	back, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.World, back.World)
	assert.Equal(t, cfg.Lifecycle, back.Lifecycle)
}
