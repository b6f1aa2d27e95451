// Spookctl is the command-line client for observing a running spookboxd
// instance. It connects over HTTP and WebSocket to query status and stream
// live events from the daemon. The box itself is operated by its physical
// sensors; spookctl is diagnostics only.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/wrenfield/spookbox/internal/ctl"
)

func main() {
	var (
		host    = pflag.StringP("host", "H", "http://127.0.0.1:8080", "Spookbox daemon URL (e.g. http://192.168.8.1:8080)")
		jsonOut = pflag.Bool("json", false, "Output raw JSON instead of formatted text")
		filter  = pflag.StringSlice("filter", nil, "Event types to show in watch (e.g. --filter state,clip)")
	)

	// Stop parsing global flags at the first non-flag argument (the command
	// name), so subcommand-specific flags like --limit are not rejected.
	pflag.CommandLine.SetInterspersed(false)
	pflag.Parse()

	if pflag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	cmd := pflag.Arg(0)
	subArgs := pflag.Args()[1:]

	var err error
	switch cmd {
	case "status":
		err = ctl.Status(*host, *jsonOut)

	case "health":
		err = ctl.Health(*host, *jsonOut)

	case "version":
		err = ctl.VersionInfo(*host, *jsonOut)

	case "config":
		err = ctl.Config(*host, *jsonOut)

	case "clips":
		err = ctl.Clips(*host, *jsonOut)

	case "stats":
		err = ctl.Stats(*host, *jsonOut)

	case "logs":
		opts := ctl.LogsOptions{JSON: *jsonOut}
		logFlags := pflag.NewFlagSet("logs", pflag.ContinueOnError)
		logFlags.StringVar(&opts.Type, "type", "", "Filter by event type (state, clip, sensor, log)")
		logFlags.IntVar(&opts.Limit, "limit", 0, "Limit number of events shown")
		logFlags.BoolVar(&opts.Tail, "tail", false, "Stream live events (like watch)")
		_ = logFlags.Parse(subArgs)
		err = ctl.Logs(*host, opts)

	case "watch":
		err = ctl.Watch(*host, ctl.WatchOptions{
			Filter: *filter,
			JSON:   *jsonOut,
		})

	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Print(`
  spookctl — spookbox diagnostics CLI

  USAGE
    spookctl [flags] <command> [command-flags]

  COMMANDS
    status          Show daemon state, uptime, and clip library size
    health          Check daemon liveness
    version         Show CLI and daemon version information
    config          Show the daemon's running configuration
    clips           List the ambience clips the daemon knows about
    stats           Show play and sensor event counters
    logs            Show recent daemon events
    watch           Stream live events from the daemon (Ctrl-C to stop)

  GLOBAL FLAGS
    -H, --host URL      Daemon base URL (default: http://127.0.0.1:8080)
        --json          Output raw JSON instead of formatted text
        --filter TYPE   Event types to show in watch (comma-separated)

  COMMAND FLAGS
    logs:
        --type TYPE     Filter by event type (state, clip, sensor, log)
        --limit N       Limit number of events shown
        --tail          Stream live events

  EXAMPLES
    spookctl status
    spookctl --json status
    spookctl --host http://192.168.8.1:8080 watch
    spookctl clips
    spookctl stats
    spookctl logs --type clip --limit 20
    spookctl logs --tail
    spookctl watch --filter state,clip

`)
}
