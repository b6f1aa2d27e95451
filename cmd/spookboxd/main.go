// Spookboxd is the main daemon for the spookbox prank speaker.
//
// It loads configuration, opens the audio device and sensors (or their
// simulations in demo mode), starts the diagnostics HTTP/WebSocket server,
// and runs the sensor-driven playback loop. Shutdown is handled gracefully
// on SIGINT or SIGTERM.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/wrenfield/spookbox/internal/app"
	"github.com/wrenfield/spookbox/internal/config"
)

func main() {
	var (
		configPath = pflag.StringP("config", "c", "/etc/spookbox/spookbox.toml", "Path to config TOML")
		bind       = pflag.String("bind", "", "HTTP bind address (overrides config)")
		demo       = pflag.Bool("demo", false, "Force demo mode (simulated sensors, silent audio)")
	)
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if *demo {
		cfg.Demo.Enabled = true
	}

	logger := log.New(os.Stdout, "spookboxd ", log.LstdFlags|log.Lmicroseconds)

	a := app.New(app.Options{
		Logger: logger,
		Cfg:    cfg,
		Bind:   *bind,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("spookboxd failed: %v", err)
	}

	// Brief pause so in-flight log writes can flush before exit.
	time.Sleep(50 * time.Millisecond)
}
