package ctl

import (
	"fmt"
	"sort"
	"strings"
)

// Stats shows aggregate play and sensor counters from the daemon.
func Stats(baseURL string, jsonOutput bool) error {
	baseURL = strings.TrimRight(baseURL, "/")

	var resp struct {
		ClipsByPhase map[string]int64 `json:"clips_by_phase"`
		SensorEvents map[string]int64 `json:"sensor_events"`
		LastClipPath string           `json:"last_clip_path"`
		LastClipAt   string           `json:"last_clip_at"`
	}
	if err := getJSON(baseURL, "/api/stats", &resp); err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(resp)
	}

	fmt.Println()
	fmt.Println(header("  PLAYBACK STATISTICS"))
	fmt.Println("  " + strings.Repeat("─", 42))

	if resp.LastClipPath != "" {
		fmt.Printf("  Last clip:   %s\n", resp.LastClipPath)
		fmt.Printf("  Played at:   %s\n", resp.LastClipAt)
	} else {
		fmt.Println("  No clips played yet.")
	}

	if len(resp.ClipsByPhase) > 0 {
		fmt.Println()
		fmt.Println(header("  BY PHASE"))
		for _, phase := range sortedKeys(resp.ClipsByPhase) {
			fmt.Printf("    %-12s %d\n", phase, resp.ClipsByPhase[phase])
		}
	}

	if len(resp.SensorEvents) > 0 {
		fmt.Println()
		fmt.Println(header("  SENSOR EVENTS"))
		for _, signal := range sortedKeys(resp.SensorEvents) {
			fmt.Printf("    %-12s %d\n", signal, resp.SensorEvents[signal])
		}
	}

	fmt.Println()
	return nil
}

func sortedKeys(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
