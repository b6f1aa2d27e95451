// Package telemetry defines the typed event structs that flow over the
// diagnostic WebSocket between spookboxd and its clients. These types
// document the event schema; most internal code broadcasts events as
// map[string]any for flexibility.
package telemetry

import "time"

// EventType identifies the kind of WebSocket event.
type EventType string

const (
	EventHeartbeat EventType = "heartbeat"
	EventState     EventType = "state"
	EventSensor    EventType = "sensor"
	EventClip      EventType = "clip"
	EventLog       EventType = "log"
)

// Event is the base envelope shared by every event type.
type Event struct {
	Type      EventType `json:"type"`
	TS        string    `json:"ts"`
	Component string    `json:"component,omitempty"`
}

// NowTS returns the current UTC time as an RFC 3339 nano string, matching
// the timestamp format used across all events.
func NowTS() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// Heartbeat is sent periodically so clients can detect connectivity and
// monitor daemon uptime.
type Heartbeat struct {
	Event
	State         string `json:"state"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// StateTransition is emitted whenever the controller moves between playback
// states (e.g. IDLE -> TRIGGERED).
type StateTransition struct {
	Event
	From string `json:"from"`
	To   string `json:"to"`
}

// SensorEvent reports a detection: a shake above threshold or a lid-open
// edge, with the raw magnitude that produced it.
type SensorEvent struct {
	Event
	Signal    string  `json:"signal"` // "shake" or "lid_open"
	Magnitude float64 `json:"magnitude,omitempty"`
}

// ClipEvent reports a play command issued to the audio device.
type ClipEvent struct {
	Event
	Path     string `json:"path"`
	Phase    string `json:"phase"`    // "ready", "shake", "trigger", "ambient"
	Blocking bool   `json:"blocking"` // play-to-completion vs start-and-return
}

// LogLine carries a human-readable log message at a severity level.
type LogLine struct {
	Event
	Level   string `json:"level"`
	Message string `json:"message"`
}
