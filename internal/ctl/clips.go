package ctl

import (
	"fmt"
	"strings"
)

// Clips lists the ambience clips currently known to the daemon.
func Clips(baseURL string, jsonOutput bool) error {
	baseURL = strings.TrimRight(baseURL, "/")

	var resp struct {
		Count int      `json:"count"`
		Clips []string `json:"clips"`
	}
	if err := getJSON(baseURL, "/api/clips", &resp); err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(resp)
	}

	fmt.Println()
	fmt.Println(header(fmt.Sprintf("  AMBIENCE CLIPS (%d)", resp.Count)))
	fmt.Println(colorize(dim, "  "+strings.Repeat("─", 38)))

	if resp.Count == 0 {
		fmt.Println("  No clips found.")
	}
	for i, name := range resp.Clips {
		fmt.Printf("  %s %s\n", colorize(dim, fmt.Sprintf("%3d", i+1)), name)
	}
	fmt.Println()

	return nil
}
