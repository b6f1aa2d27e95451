package app

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"
)

func (a *App) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (a *App) handleStatus(w http.ResponseWriter, _ *http.Request) {
	resp := map[string]any{
		"name":           "spookbox",
		"state":          a.state.Load().(string),
		"uptime_seconds": int64(time.Since(a.startedAt).Seconds()),
		"demo_enabled":   a.cfg.Demo.Enabled,
		"ws_clients":     a.wsHub.ClientCount(),
	}

	if a.cfg.Demo.Enabled {
		resp["mode"] = "demo"
	} else {
		resp["mode"] = "live"
	}

	if a.lib != nil {
		resp["clip_count"] = a.lib.Count()
		resp["clip_dir"] = a.cfg.Clips.RandomDir
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (a *App) handleVersion(w http.ResponseWriter, _ *http.Request) {
	resp := map[string]any{
		"version":    Version,
		"go_version": GoVersion,
		"built_at":   BuiltAt,
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (a *App) handleConfig(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(a.cfg)
}

func (a *App) handleClips(w http.ResponseWriter, _ *http.Request) {
	var names []string
	if a.lib != nil {
		names = a.lib.Names()
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"count": len(names),
		"clips": names,
	})
}

func (a *App) handleStats(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(a.stats.snapshot())
}

func (a *App) handleLogs(w http.ResponseWriter, r *http.Request) {
	events := a.ring.snapshot()

	// Optional filters: ?type=clip and ?limit=50 (most recent first wins).
	if typ := r.URL.Query().Get("type"); typ != "" {
		filtered := events[:0]
		for _, ev := range events {
			if ev["type"] == typ {
				filtered = append(filtered, ev)
			}
		}
		events = filtered
	}
	if limStr := r.URL.Query().Get("limit"); limStr != "" {
		if lim, err := strconv.Atoi(limStr); err == nil && lim > 0 && lim < len(events) {
			events = events[len(events)-lim:]
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"count":  len(events),
		"events": events,
	})
}
