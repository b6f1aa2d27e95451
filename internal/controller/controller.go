// Package controller implements the playback state machine that turns sensor
// signals into audio. It polls the sampler once per cycle while idle, plays
// the shake clip non-blocking so polling continues underneath it, and on a
// lid-open edge commits the run to the randomized ambient phase for good.
package controller

import (
	"context"
	"log"

	"github.com/wrenfield/spookbox/internal/config"
	"github.com/wrenfield/spookbox/internal/library"
	"github.com/wrenfield/spookbox/internal/player"
	"github.com/wrenfield/spookbox/internal/scheduler"
	"github.com/wrenfield/spookbox/internal/sensors"
)

// State names the controller's position in the playback lifecycle. Exactly
// one state is active at a time and only the controller mutates it.
type State string

const (
	StateBooting       State = "BOOTING"
	StateGracePeriod   State = "GRACE_PERIOD"
	StateReadyTone     State = "READY_TONE"
	StateIdle          State = "IDLE"
	StateShakePlaying  State = "SHAKE_PLAYING"
	StateTriggered     State = "TRIGGERED"
	StateRandomAmbient State = "RANDOM_AMBIENT"
)

// Sampler is the sensor capability the controller polls each cycle.
type Sampler interface {
	Sample() sensors.Signals
	LastReading() sensors.Reading
}

// Emitter receives diagnostic events; the WebSocket hub satisfies it.
type Emitter interface {
	Emit(component string, payload map[string]any)
}

// Options holds everything the Controller needs from the caller.
type Options struct {
	Library   *library.Library
	Scheduler *scheduler.Scheduler
	Device    player.Device
	Sampler   Sampler
	Clips     config.ClipsConfig
	Logger    *log.Logger
	Emitter   Emitter // optional
}

// Controller owns the run state and the single audio output channel.
type Controller struct {
	lib   *library.Library
	sched *scheduler.Scheduler
	dev   player.Device
	samp  Sampler
	clips config.ClipsConfig
	log   *log.Logger
	emit  Emitter

	clipFn func(phase, path string)
}

// New creates a Controller. Call Run to start it.
func New(opts Options) *Controller {
	return &Controller{
		lib:   opts.Library,
		sched: opts.Scheduler,
		dev:   opts.Device,
		samp:  opts.Sampler,
		clips: opts.Clips,
		log:   opts.Logger,
		emit:  opts.Emitter,
	}
}

// SetClipCallback registers a function called after every play command, with
// the lifecycle phase ("ready", "shake", "trigger", "ambient") and clip path.
func (c *Controller) SetClipCallback(fn func(phase, path string)) {
	c.clipFn = fn
}

// Run drives the full device lifecycle. Lifecycle:
//
//  1. Startup grace period (GRACE_PERIOD) — sensing disabled
//  2. Ready tone to completion (READY_TONE)
//  3. Poll loop (IDLE / SHAKE_PLAYING): shake starts the shake clip
//     non-blocking; a lid-open edge stops playback and triggers
//  4. Trigger clip to completion (TRIGGERED)
//  5. Warmup, then random clips forever (RANDOM_AMBIENT) — terminal
//
// Run blocks until ctx is cancelled. setState is invoked on every
// transition so the app layer can observe and broadcast it.
func (c *Controller) Run(ctx context.Context, setState func(State)) {
	c.logf("startup grace period: %s", c.sched.StartupGrace())
	setState(StateGracePeriod)
	if !c.sched.Wait(ctx, c.sched.StartupGrace()) {
		return
	}

	setState(StateReadyTone)
	c.playBlocking(ctx, c.clips.Ready, "ready")
	if ctx.Err() != nil {
		return
	}

	setState(StateIdle)
	c.pollLoop(ctx, setState)
}

// pollLoop samples the sensors once per cycle with a fixed inter-iteration
// delay. It returns when ctx is cancelled or the lid opens (after which the
// ambient phase runs until cancellation).
func (c *Controller) pollLoop(ctx context.Context, setState func(State)) {
	cur := StateIdle
	for {
		if ctx.Err() != nil {
			return
		}

		sig := c.samp.Sample()

		if sig.LidOpen {
			c.emitSensor("lid_open")
			c.triggered(ctx, setState)
			return
		}

		if sig.Shake {
			c.emitSensor("shake")
			// One play command at a time: a shake while the device is
			// still sounding issues nothing.
			if c.dev.IsStopped() {
				if err := c.dev.Start(c.clips.Shake); err != nil {
					c.logf("shake clip failed: %v", err)
					c.emitLog("error", "shake clip failed: "+err.Error())
				} else {
					cur = StateShakePlaying
					setState(cur)
					c.notifyClip("shake", c.clips.Shake, false)
				}
			}
		}

		// The shake clip finished on its own; fall back to idle.
		if cur == StateShakePlaying && c.dev.IsStopped() {
			cur = StateIdle
			setState(cur)
		}

		if !c.sched.Wait(ctx, c.sched.PollInterval()) {
			return
		}
	}
}

// triggered handles the lid-open transition: stop whatever is sounding,
// play the trigger clip to completion, then hand the run to the ambient
// loop. There is no path back to the poll loop.
func (c *Controller) triggered(ctx context.Context, setState func(State)) {
	setState(StateTriggered)

	// Stop before start; the reset clears the output channel so the
	// blocking play is accepted cleanly.
	c.dev.Stop()
	c.dev.Reset()

	c.playBlocking(ctx, c.clips.Trigger, "trigger")
	if ctx.Err() != nil {
		return
	}

	setState(StateRandomAmbient)
	c.logf("entering random ambient phase (warmup %s)", c.sched.Warmup())

	if !c.sched.Wait(ctx, c.sched.Warmup()) {
		return
	}
	c.playRandom(ctx)

	for {
		interval := c.sched.InterClipInterval()
		c.logf("next ambient clip in %s", interval)
		if !c.sched.Wait(ctx, interval) {
			return
		}
		c.playRandom(ctx)
	}
}

// playRandom draws one clip from the library and plays it to completion.
// An empty library or a failed play is logged and the loop moves on to the
// next scheduled event.
func (c *Controller) playRandom(ctx context.Context) {
	name, err := c.lib.Random()
	if err != nil {
		c.logf("random draw failed: %v", err)
		c.emitLog("error", "random draw failed: "+err.Error())
		return
	}
	c.playBlocking(ctx, c.lib.Path(name), "ambient")
}

// playBlocking plays one clip to completion. Failures are non-fatal: the
// device stays usable and the caller proceeds to its next event.
func (c *Controller) playBlocking(ctx context.Context, path, phase string) {
	c.notifyClip(phase, path, true)
	if err := c.dev.PlayFull(ctx, path); err != nil {
		if ctx.Err() != nil {
			return
		}
		c.logf("%s clip failed: %v", phase, err)
		c.emitLog("error", phase+" clip failed: "+err.Error())
	}
}

func (c *Controller) notifyClip(phase, path string, blocking bool) {
	c.logf("playing %s clip: %s", phase, path)
	if c.emit != nil {
		c.emit.Emit("controller", map[string]any{
			"type":     "clip",
			"phase":    phase,
			"path":     path,
			"blocking": blocking,
		})
	}
	if c.clipFn != nil {
		c.clipFn(phase, path)
	}
}

func (c *Controller) emitSensor(signal string) {
	if c.emit == nil {
		return
	}
	c.emit.Emit("sensors", map[string]any{
		"type":      "sensor",
		"signal":    signal,
		"magnitude": c.samp.LastReading().Magnitude,
	})
}

func (c *Controller) emitLog(level, msg string) {
	if c.emit == nil {
		return
	}
	c.emit.Emit("controller", map[string]any{
		"type":    "log",
		"level":   level,
		"message": msg,
	})
}

func (c *Controller) logf(format string, args ...any) {
	if c.log != nil {
		c.log.Printf(format, args...)
	}
}
