// Package config handles loading, defaulting, and validation of the spookbox
// TOML configuration file. Every section maps to a typed struct so the rest
// of the codebase gets strong typing without manual key lookups.
package config

import (
	"errors"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config is the top-level configuration, mirroring the TOML sections.
type Config struct {
	Clips   ClipsConfig   `toml:"clips"   json:"clips"`
	Audio   AudioConfig   `toml:"audio"   json:"audio"`
	Sensors SensorsConfig `toml:"sensors" json:"sensors"`
	Timing  TimingConfig  `toml:"timing"  json:"timing"`
	Server  ServerConfig  `toml:"server"  json:"server"`
	Demo    DemoConfig    `toml:"demo"    json:"demo"`
}

// ClipsConfig names the fixed clips and the directory of random ambience.
type ClipsConfig struct {
	Ready      string   `toml:"ready"      json:"ready"`
	Shake      string   `toml:"shake"      json:"shake"`
	Trigger    string   `toml:"trigger"    json:"trigger"`
	RandomDir  string   `toml:"random_dir" json:"random_dir"`
	Extensions []string `toml:"extensions" json:"extensions"` // empty = accept everything
}

type AudioConfig struct {
	VolumeLeft  float64 `toml:"volume_left"  json:"volume_left"`
	VolumeRight float64 `toml:"volume_right" json:"volume_right"`
	SampleRate  int     `toml:"sample_rate"  json:"sample_rate"`
}

type SensorsConfig struct {
	ShakeThreshold float64 `toml:"shake_threshold" json:"shake_threshold"`
	ScaleFactor    float64 `toml:"scale_factor"    json:"scale_factor"`
	AccelDevice    string  `toml:"accel_device"    json:"accel_device"` // IIO sysfs directory
	LidPin         string  `toml:"lid_pin"         json:"lid_pin"`      // GPIO value file
}

// TimingConfig holds every delay the scheduler applies, in milliseconds so
// the TOML stays readable and demo configs can shrink them uniformly.
type TimingConfig struct {
	StartupGraceMs int `toml:"startup_grace_ms" json:"startup_grace_ms"`
	WarmupMs       int `toml:"warmup_ms"        json:"warmup_ms"`
	IntervalMinMs  int `toml:"interval_min_ms"  json:"interval_min_ms"`
	IntervalMaxMs  int `toml:"interval_max_ms"  json:"interval_max_ms"`
	PollIntervalMs int `toml:"poll_interval_ms" json:"poll_interval_ms"`
}

type ServerConfig struct {
	Bind string `toml:"bind" json:"bind"`
}

// DemoConfig scripts the simulated hardware when no sensors are attached.
type DemoConfig struct {
	Enabled     bool `toml:"enabled"       json:"enabled"`
	ShakeAfterS int  `toml:"shake_after_s" json:"shake_after_s"`
	LidAfterS   int  `toml:"lid_after_s"   json:"lid_after_s"`
}

// Default returns a Config populated with sane defaults. Values here are
// used whenever the TOML file omits a field. The timing defaults match the
// shipped device behavior: 60 s setup grace, 3 s post-trigger warmup, and
// random ambience every 1 s – 5 min.
func Default() Config {
	return Config{
		Clips: ClipsConfig{
			Ready:     "/var/lib/spookbox/ready.mp3",
			Shake:     "/var/lib/spookbox/shake.mp3",
			Trigger:   "/var/lib/spookbox/trigger.mp3",
			RandomDir: "/var/lib/spookbox/random",
		},
		Audio: AudioConfig{
			VolumeLeft:  0.8,
			VolumeRight: 0.8,
			SampleRate:  44100,
		},
		Sensors: SensorsConfig{
			ShakeThreshold: 1.3,
			ScaleFactor:    1.0,
			AccelDevice:    "/sys/bus/iio/devices/iio:device0",
			LidPin:         "/sys/class/gpio/gpio17/value",
		},
		Timing: TimingConfig{
			StartupGraceMs: 60000,
			WarmupMs:       3000,
			IntervalMinMs:  1000,
			IntervalMaxMs:  300000,
			PollIntervalMs: 500,
		},
		Server: ServerConfig{
			Bind: "0.0.0.0:8080",
		},
		Demo: DemoConfig{
			Enabled:     false,
			ShakeAfterS: 3,
			LidAfterS:   10,
		},
	}
}

// Load reads the TOML file at path, layers it on top of the defaults, and
// validates the result. An error is returned if the file can't be read,
// parsed, or if any constraint is violated.
func Load(path string) (Config, error) {
	cfg := Default()

	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := toml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}

	if err := validate(cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func validate(cfg Config) error {
	if cfg.Clips.Ready == "" || cfg.Clips.Shake == "" || cfg.Clips.Trigger == "" {
		return errors.New("clips.ready, clips.shake, and clips.trigger must not be empty")
	}
	if cfg.Clips.RandomDir == "" {
		return errors.New("clips.random_dir must not be empty")
	}
	if cfg.Audio.VolumeLeft < 0 || cfg.Audio.VolumeLeft > 1 ||
		cfg.Audio.VolumeRight < 0 || cfg.Audio.VolumeRight > 1 {
		return errors.New("audio volumes must be between 0 and 1")
	}
	if cfg.Audio.SampleRate <= 0 {
		return errors.New("audio.sample_rate must be > 0")
	}
	if cfg.Sensors.ShakeThreshold <= 0 {
		return errors.New("sensors.shake_threshold must be > 0")
	}
	if cfg.Sensors.ScaleFactor <= 0 {
		return errors.New("sensors.scale_factor must be > 0")
	}
	if cfg.Timing.StartupGraceMs < 0 || cfg.Timing.WarmupMs < 0 {
		return errors.New("timing delays must be >= 0")
	}
	if cfg.Timing.IntervalMinMs < 0 {
		return errors.New("timing.interval_min_ms must be >= 0")
	}
	if cfg.Timing.IntervalMaxMs < cfg.Timing.IntervalMinMs {
		return errors.New("timing.interval_max_ms must be >= timing.interval_min_ms")
	}
	if cfg.Timing.PollIntervalMs <= 0 {
		return errors.New("timing.poll_interval_ms must be > 0")
	}
	return nil
}

// Durations exposed as time.Duration for the scheduler.

func (t TimingConfig) StartupGrace() time.Duration { return msDur(t.StartupGraceMs) }
func (t TimingConfig) Warmup() time.Duration       { return msDur(t.WarmupMs) }
func (t TimingConfig) IntervalMin() time.Duration  { return msDur(t.IntervalMinMs) }
func (t TimingConfig) IntervalMax() time.Duration  { return msDur(t.IntervalMaxMs) }
func (t TimingConfig) PollInterval() time.Duration { return msDur(t.PollIntervalMs) }

func msDur(ms int) time.Duration { return time.Duration(ms) * time.Millisecond }
