package app

import (
	"sync"
	"time"
)

// stats accumulates play and sensor counters for the /api/stats endpoint.
// Counters reset with the process; nothing is persisted.
type stats struct {
	mu           sync.Mutex
	clipsByPhase map[string]int64
	sensorEvents map[string]int64
	lastClipPath string
	lastClipAt   time.Time
}

func newStats() *stats {
	return &stats{
		clipsByPhase: make(map[string]int64),
		sensorEvents: make(map[string]int64),
	}
}

// clipPlayed is wired as the controller's clip callback.
func (s *stats) clipPlayed(phase, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clipsByPhase[phase]++
	s.lastClipPath = path
	s.lastClipAt = time.Now()
}

// observe counts sensor events passing through the emitter.
func (s *stats) observe(payload map[string]any) {
	if payload["type"] != "sensor" {
		return
	}
	signal, _ := payload["signal"].(string)
	if signal == "" {
		return
	}
	s.mu.Lock()
	s.sensorEvents[signal]++
	s.mu.Unlock()
}

// snapshot copies the counters for serialization.
func (s *stats) snapshot() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	clips := make(map[string]int64, len(s.clipsByPhase))
	for k, v := range s.clipsByPhase {
		clips[k] = v
	}
	sensors := make(map[string]int64, len(s.sensorEvents))
	for k, v := range s.sensorEvents {
		sensors[k] = v
	}

	out := map[string]any{
		"clips_by_phase": clips,
		"sensor_events":  sensors,
	}
	if !s.lastClipAt.IsZero() {
		out["last_clip_path"] = s.lastClipPath
		out["last_clip_at"] = s.lastClipAt.UTC().Format(time.RFC3339)
	}
	return out
}
