package ctl

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Config fetches and displays the daemon's running configuration.
func Config(baseURL string, jsonOutput bool) error {
	baseURL = strings.TrimRight(baseURL, "/")

	// Decode into a generic map to preserve all fields for both display modes.
	var raw json.RawMessage
	if err := getJSON(baseURL, "/api/config", &raw); err != nil {
		return err
	}

	if jsonOutput {
		var v any
		_ = json.Unmarshal(raw, &v)
		return printJSON(v)
	}

	// Decode into ordered sections for human-readable output.
	var cfg struct {
		Clips struct {
			Ready      string   `json:"ready"`
			Shake      string   `json:"shake"`
			Trigger    string   `json:"trigger"`
			RandomDir  string   `json:"random_dir"`
			Extensions []string `json:"extensions"`
		} `json:"clips"`
		Audio struct {
			VolumeLeft  float64 `json:"volume_left"`
			VolumeRight float64 `json:"volume_right"`
			SampleRate  int     `json:"sample_rate"`
		} `json:"audio"`
		Sensors struct {
			ShakeThreshold float64 `json:"shake_threshold"`
			ScaleFactor    float64 `json:"scale_factor"`
			AccelDevice    string  `json:"accel_device"`
			LidPin         string  `json:"lid_pin"`
		} `json:"sensors"`
		Timing struct {
			StartupGraceMs int `json:"startup_grace_ms"`
			WarmupMs       int `json:"warmup_ms"`
			IntervalMinMs  int `json:"interval_min_ms"`
			IntervalMaxMs  int `json:"interval_max_ms"`
			PollIntervalMs int `json:"poll_interval_ms"`
		} `json:"timing"`
		Server struct {
			Bind string `json:"bind"`
		} `json:"server"`
		Demo struct {
			Enabled     bool `json:"enabled"`
			ShakeAfterS int  `json:"shake_after_s"`
			LidAfterS   int  `json:"lid_after_s"`
		} `json:"demo"`
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(header("  DAEMON CONFIGURATION"))
	fmt.Println(colorize(dim, "  "+strings.Repeat("─", 50)))

	section := func(name string) {
		fmt.Printf("\n  %s\n", colorize(bold, "["+name+"]"))
	}
	field := func(key string, val any) {
		fmt.Printf("    %-20s %v\n", colorize(dim, key+":"), val)
	}

	section("clips")
	field("ready", cfg.Clips.Ready)
	field("shake", cfg.Clips.Shake)
	field("trigger", cfg.Clips.Trigger)
	field("random_dir", cfg.Clips.RandomDir)
	field("extensions", strings.Join(cfg.Clips.Extensions, ", "))

	section("audio")
	field("volume_left", cfg.Audio.VolumeLeft)
	field("volume_right", cfg.Audio.VolumeRight)
	field("sample_rate", cfg.Audio.SampleRate)

	section("sensors")
	field("shake_threshold", cfg.Sensors.ShakeThreshold)
	field("scale_factor", cfg.Sensors.ScaleFactor)
	field("accel_device", cfg.Sensors.AccelDevice)
	field("lid_pin", cfg.Sensors.LidPin)

	section("timing")
	field("startup_grace_ms", cfg.Timing.StartupGraceMs)
	field("warmup_ms", cfg.Timing.WarmupMs)
	field("interval_min_ms", cfg.Timing.IntervalMinMs)
	field("interval_max_ms", cfg.Timing.IntervalMaxMs)
	field("poll_interval_ms", cfg.Timing.PollIntervalMs)

	section("server")
	field("bind", cfg.Server.Bind)

	section("demo")
	field("enabled", cfg.Demo.Enabled)
	field("shake_after_s", cfg.Demo.ShakeAfterS)
	field("lid_after_s", cfg.Demo.LidAfterS)

	fmt.Println()

	return nil
}
