package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "spookbox.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 1.3, cfg.Sensors.ShakeThreshold)
	assert.Equal(t, 1.0, cfg.Sensors.ScaleFactor)
	assert.Equal(t, 60000, cfg.Timing.StartupGraceMs)
	assert.Equal(t, 3000, cfg.Timing.WarmupMs)
	assert.Equal(t, 1000, cfg.Timing.IntervalMinMs)
	assert.Equal(t, 300000, cfg.Timing.IntervalMaxMs)
	assert.Equal(t, 500, cfg.Timing.PollIntervalMs)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Bind)
	assert.False(t, cfg.Demo.Enabled)
	assert.Empty(t, cfg.Clips.Extensions, "extension filter ships disabled")

	// Defaults must pass their own validation.
	assert.NoError(t, validate(cfg))
}

func TestLoadLayersOverDefaults(t *testing.T) {
	path := writeConfig(t, `
[clips]
random_dir = "/media/usb/random"

[sensors]
shake_threshold = 2.5

[timing]
startup_grace_ms = 100
interval_max_ms = 5000
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/media/usb/random", cfg.Clips.RandomDir)
	assert.Equal(t, 2.5, cfg.Sensors.ShakeThreshold)
	assert.Equal(t, 100, cfg.Timing.StartupGraceMs)
	assert.Equal(t, 5000, cfg.Timing.IntervalMaxMs)
	// Untouched fields keep their defaults.
	assert.Equal(t, "/var/lib/spookbox/trigger.mp3", cfg.Clips.Trigger)
	assert.Equal(t, 3000, cfg.Timing.WarmupMs)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestLoadBadTOML(t *testing.T) {
	path := writeConfig(t, "[clips\nready = ")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty trigger clip", func(c *Config) { c.Clips.Trigger = "" }},
		{"empty random dir", func(c *Config) { c.Clips.RandomDir = "" }},
		{"volume above 1", func(c *Config) { c.Audio.VolumeLeft = 1.5 }},
		{"negative volume", func(c *Config) { c.Audio.VolumeRight = -0.1 }},
		{"zero sample rate", func(c *Config) { c.Audio.SampleRate = 0 }},
		{"zero threshold", func(c *Config) { c.Sensors.ShakeThreshold = 0 }},
		{"zero scale", func(c *Config) { c.Sensors.ScaleFactor = 0 }},
		{"negative grace", func(c *Config) { c.Timing.StartupGraceMs = -1 }},
		{"max below min", func(c *Config) { c.Timing.IntervalMaxMs = 500 }},
		{"zero poll interval", func(c *Config) { c.Timing.PollIntervalMs = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, validate(cfg))
		})
	}
}

func TestTimingDurations(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 60*time.Second, cfg.Timing.StartupGrace())
	assert.Equal(t, 3*time.Second, cfg.Timing.Warmup())
	assert.Equal(t, time.Second, cfg.Timing.IntervalMin())
	assert.Equal(t, 5*time.Minute, cfg.Timing.IntervalMax())
	assert.Equal(t, 500*time.Millisecond, cfg.Timing.PollInterval())
}
