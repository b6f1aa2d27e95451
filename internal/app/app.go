// Package app wires together the audio device, sensors, media library,
// playback controller, and the diagnostics HTTP/WebSocket server. It owns
// the daemon's lifecycle and is the single source of truth for the current
// operating state. The HTTP surface is observation only — the box is
// controlled exclusively by its physical sensors.
package app

import (
	"context"
	"fmt"
	"log"
	"math/rand/v2"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/wrenfield/spookbox/internal/config"
	"github.com/wrenfield/spookbox/internal/controller"
	"github.com/wrenfield/spookbox/internal/hw"
	"github.com/wrenfield/spookbox/internal/library"
	"github.com/wrenfield/spookbox/internal/player"
	"github.com/wrenfield/spookbox/internal/scheduler"
	"github.com/wrenfield/spookbox/internal/sensors"
	"github.com/wrenfield/spookbox/internal/sim"
	"github.com/wrenfield/spookbox/internal/ws"
)

// Options holds everything the App needs from the caller.
type Options struct {
	Logger *log.Logger
	Cfg    config.Config
	Bind   string
}

// App is the top-level daemon process.
type App struct {
	log    *log.Logger
	cfg    config.Config
	bind   string
	server *http.Server

	startedAt time.Time
	state     atomic.Value // current controller state string

	wsHub *ws.Hub
	ring  *eventRing
	stats *stats

	lib *library.Library
}

// New creates an App in the BOOTING state. Call Run to start it.
func New(opts Options) *App {
	a := &App{
		log:       opts.Logger,
		cfg:       opts.Cfg,
		bind:      opts.Bind,
		startedAt: time.Now(),
		wsHub:     ws.NewHub(),
		ring:      newEventRing(256),
		stats:     newStats(),
	}
	a.state.Store(string(controller.StateBooting))
	return a
}

// Run brings up the hardware (or its simulation), starts the controller and
// the diagnostics server, and blocks until ctx is cancelled or the server
// fails. Hardware or storage failures during bring-up are fatal: the error
// is returned and the run never starts.
func (a *App) Run(ctx context.Context) error {
	dev, accel, lid, err := a.bringUp()
	if err != nil {
		return err
	}
	dev.SetVolume(a.cfg.Audio.VolumeLeft, a.cfg.Audio.VolumeRight)

	// Seed clip selection from sensor noise, once per run.
	s1, s2 := sensors.NoiseSeed(accel, 32)
	rng := rand.New(rand.NewPCG(s1, s2))

	a.lib, err = library.Open(a.cfg.Clips.RandomDir,
		library.WithExtensions(a.cfg.Clips.Extensions),
		library.WithRand(rng),
	)
	if err != nil {
		return fmt.Errorf("storage unusable: %w", err)
	}
	a.log.Printf("library: %d clips in %s", a.lib.Count(), a.cfg.Clips.RandomDir)

	sampler := sensors.NewSampler(accel, lid,
		a.cfg.Sensors.ShakeThreshold, a.cfg.Sensors.ScaleFactor, a.log)

	ctrl := controller.New(controller.Options{
		Library:   a.lib,
		Scheduler: scheduler.New(a.cfg.Timing, rng),
		Device:    dev,
		Sampler:   sampler,
		Clips:     a.cfg.Clips,
		Logger:    a.log,
		Emitter:   a,
	})
	ctrl.SetClipCallback(a.stats.clipPlayed)

	bind := a.bind
	if bind == "" && a.cfg.Server.Bind != "" {
		bind = a.cfg.Server.Bind
	}
	if bind == "" {
		bind = "0.0.0.0:8080"
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", a.handleHealthz)
	mux.HandleFunc("/api/status", a.handleStatus)
	mux.HandleFunc("/api/version", a.handleVersion)
	mux.HandleFunc("/api/config", a.handleConfig)
	mux.HandleFunc("/api/clips", a.handleClips)
	mux.HandleFunc("/api/stats", a.handleStats)
	mux.HandleFunc("/api/logs", a.handleLogs)
	mux.Handle("/ws", a.wsHub.Handler())

	a.server = &http.Server{
		Addr:              bind,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", bind)
	if err != nil {
		return err
	}

	a.log.Printf("diagnostics on http://%s", bind)

	go a.wsHub.Run(ctx)
	go a.heartbeatLoop(ctx)
	go ctrl.Run(ctx, a.transition)

	go func() {
		<-ctx.Done()
		a.log.Printf("shutdown requested")
		_ = a.server.Shutdown(context.Background())
	}()

	return a.server.Serve(ln)
}

// bringUp selects real or simulated hardware per the demo config.
func (a *App) bringUp() (player.Device, sensors.Accelerometer, sensors.Pin, error) {
	if a.cfg.Demo.Enabled {
		a.log.Printf("demo mode active — simulated sensors and silent audio")
		dev := sim.NewDevice(2*time.Second, a.log)
		accel := sim.NewAccel(time.Duration(a.cfg.Demo.ShakeAfterS) * time.Second)
		lid := sim.NewLidPin(time.Duration(a.cfg.Demo.LidAfterS) * time.Second)
		return dev, accel, lid, nil
	}

	dev, err := player.NewSpeaker(a.cfg.Audio.SampleRate, a.log)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("audio device not usable: %w", err)
	}
	accel, err := hw.NewIIOAccel(a.cfg.Sensors.AccelDevice)
	if err != nil {
		return nil, nil, nil, err
	}
	lid, err := hw.NewGPIOPin(a.cfg.Sensors.LidPin)
	if err != nil {
		return nil, nil, nil, err
	}
	return dev, accel, lid, nil
}

// transition records a controller state change and broadcasts it.
func (a *App) transition(newState controller.State) {
	old := a.state.Load().(string)
	if old == string(newState) {
		return
	}
	a.state.Store(string(newState))
	a.Emit("spookboxd", map[string]any{
		"type": "state",
		"from": old,
		"to":   string(newState),
	})
}

// Emit stamps an event, stores it in the diagnostics ring, feeds the stats
// counters, and broadcasts it to WebSocket clients. It satisfies
// controller.Emitter.
func (a *App) Emit(component string, payload map[string]any) {
	a.stats.observe(payload)
	a.wsHub.Emit(component, payload)
	a.ring.append(payload)
}

// heartbeatLoop sends a periodic heartbeat event so clients can detect
// connectivity and track uptime without polling.
func (a *App) heartbeatLoop(ctx context.Context) {
	t := time.NewTicker(10 * time.Second)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			a.wsHub.Emit("spookboxd", map[string]any{
				"type":           "heartbeat",
				"uptime_seconds": int64(time.Since(a.startedAt).Seconds()),
				"state":          a.state.Load().(string),
			})
		}
	}
}
