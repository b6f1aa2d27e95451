package ctl

import (
	"fmt"
	"strings"
	"time"
)

// LogsOptions configures the logs command.
type LogsOptions struct {
	Type  string
	Limit int
	Tail  bool
	JSON  bool
}

// Logs shows recent daemon events, or streams them live with --tail.
func Logs(baseURL string, opts LogsOptions) error {
	baseURL = strings.TrimRight(baseURL, "/")

	// --tail mode: use WebSocket watch with the same filter.
	if opts.Tail {
		var filter []string
		if opts.Type != "" {
			filter = []string{opts.Type}
		}
		return Watch(baseURL, WatchOptions{Filter: filter, JSON: opts.JSON})
	}

	// Query the event buffer.
	path := "/api/logs"
	var params []string
	if opts.Type != "" {
		params = append(params, "type="+opts.Type)
	}
	if opts.Limit > 0 {
		params = append(params, fmt.Sprintf("limit=%d", opts.Limit))
	}
	if len(params) > 0 {
		path += "?" + strings.Join(params, "&")
	}

	var resp struct {
		Count  int              `json:"count"`
		Events []map[string]any `json:"events"`
	}
	if err := getJSON(baseURL, path, &resp); err != nil {
		return err
	}

	if opts.JSON {
		return printJSON(resp)
	}

	fmt.Println()
	fmt.Println(header("  RECENT EVENTS"))
	fmt.Println(colorize(dim, "  "+strings.Repeat("─", 60)))

	if len(resp.Events) == 0 {
		fmt.Println("  No events recorded.")
	}
	for _, ev := range resp.Events {
		renderEventLine(ev)
	}

	fmt.Println()
	return nil
}

// renderEventLine prints one stored event compactly.
func renderEventLine(ev map[string]any) {
	ts := formatEventTime(ev)
	evType, _ := ev["type"].(string)

	switch evType {
	case "state":
		from, _ := ev["from"].(string)
		to, _ := ev["to"].(string)
		fmt.Printf("  %s %s  %s %s %s\n",
			colorize(dim, ts), colorize(bold, "STATE"),
			colorize(stateColor(from), from), colorize(dim, "->"),
			colorize(stateColor(to), to))
	case "clip":
		phase, _ := ev["phase"].(string)
		path, _ := ev["path"].(string)
		fmt.Printf("  %s %s  %s %s\n",
			colorize(dim, ts), colorize(cyan, "CLIP "),
			padRight(phase, 8), colorize(dim, path))
	case "sensor":
		signal, _ := ev["signal"].(string)
		mag, _ := ev["magnitude"].(float64)
		fmt.Printf("  %s %s  %s (%.2fg)\n",
			colorize(dim, ts), colorize(yellow, "SENSE"), signal, mag)
	case "log":
		level, _ := ev["level"].(string)
		message, _ := ev["message"].(string)
		fmt.Printf("  %s %s  %s\n", colorize(dim, ts), formatLogLevel(level), message)
	default:
		fmt.Printf("  %s %v\n", colorize(dim, ts), ev)
	}
}

// formatEventTime extracts and shortens the timestamp from an event.
func formatEventTime(ev map[string]any) string {
	tsRaw, ok := ev["ts"].(string)
	if !ok {
		return "        "
	}
	t, err := time.Parse(time.RFC3339Nano, tsRaw)
	if err != nil {
		if len(tsRaw) > 10 {
			return tsRaw[:10]
		}
		return tsRaw
	}
	return t.Local().Format("15:04:05")
}

// formatLogLevel returns a colored, fixed-width log level label.
func formatLogLevel(level string) string {
	switch level {
	case "info":
		return colorize(green, "INFO ")
	case "warn":
		return colorize(yellow, "WARN ")
	case "error":
		return colorize(red, "ERROR")
	default:
		return padRight(level, 5)
	}
}
