// Package sim provides simulated hardware so the full daemon lifecycle —
// grace period, shake, lid trigger, random ambience — can be exercised
// end-to-end on a workstation with no sensors or speaker attached. The
// simulated readings look plausible enough that the event stream matches a
// real run.
package sim

import (
	"context"
	"log"
	"math/rand/v2"
	"sync"
	"time"
)

// Accel simulates an accelerometer at rest (gravity on z plus thermal
// noise), with a scripted shake burst some time after start.
type Accel struct {
	start      time.Time
	shakeAfter time.Duration
	shakeFor   time.Duration
}

// NewAccel schedules a shake burst shakeAfter from now, lasting one second.
// A non-positive shakeAfter disables the burst.
func NewAccel(shakeAfter time.Duration) *Accel {
	return &Accel{
		start:      time.Now(),
		shakeAfter: shakeAfter,
		shakeFor:   time.Second,
	}
}

func (a *Accel) Read() (x, y, z float64, err error) {
	x = jitter(0.002)
	y = jitter(0.002)
	z = 1.0 + jitter(0.002)

	if a.shakeAfter > 0 {
		since := time.Since(a.start)
		if since >= a.shakeAfter && since < a.shakeAfter+a.shakeFor {
			x += 1.5 + jitter(0.5)
			y += 1.5 + jitter(0.5)
		}
	}
	return x, y, z, nil
}

func jitter(amp float64) float64 {
	return (rand.Float64()*2 - 1) * amp
}

// LidPin simulates the reed switch: low while the magnet is seated, going
// high (lid open) openAfter from start and staying high. A non-positive
// openAfter keeps the lid shut forever.
type LidPin struct {
	start     time.Time
	openAfter time.Duration
}

func NewLidPin(openAfter time.Duration) *LidPin {
	return &LidPin{start: time.Now(), openAfter: openAfter}
}

func (p *LidPin) Read() (bool, error) {
	return p.openAfter > 0 && time.Since(p.start) >= p.openAfter, nil
}

// Device is a silent audio output: it logs every command and "plays" clips
// for a fixed simulated duration. Implements player.Device.
type Device struct {
	ClipDuration time.Duration

	log *log.Logger

	mu      sync.Mutex
	playing bool
	stop    chan struct{}
}

// NewDevice creates a silent device; clips take clipDuration to "play".
func NewDevice(clipDuration time.Duration, logger *log.Logger) *Device {
	if clipDuration <= 0 {
		clipDuration = 2 * time.Second
	}
	return &Device{ClipDuration: clipDuration, log: logger}
}

func (d *Device) SetVolume(left, right float64) {
	d.logf("sim: volume %.2f/%.2f", left, right)
}

// Start begins a simulated clip and returns immediately; the clip drains in
// the background after ClipDuration.
func (d *Device) Start(path string) error {
	d.mu.Lock()
	d.playing = true
	stop := make(chan struct{})
	d.stop = stop
	d.mu.Unlock()

	d.logf("sim: start %s", path)
	go func() {
		t := time.NewTimer(d.ClipDuration)
		defer t.Stop()
		select {
		case <-stop:
		case <-t.C:
		}
		d.mu.Lock()
		if d.stop == stop {
			d.playing = false
			d.stop = nil
		}
		d.mu.Unlock()
	}()
	return nil
}

// PlayFull blocks for the simulated clip duration, or until Stop or ctx.
func (d *Device) PlayFull(ctx context.Context, path string) error {
	d.mu.Lock()
	d.playing = true
	stop := make(chan struct{})
	d.stop = stop
	d.mu.Unlock()

	d.logf("sim: play %s", path)
	t := time.NewTimer(d.ClipDuration)
	defer t.Stop()

	var err error
	select {
	case <-stop:
	case <-t.C:
	case <-ctx.Done():
		err = ctx.Err()
	}

	d.mu.Lock()
	if d.stop == stop {
		d.playing = false
		d.stop = nil
	}
	d.mu.Unlock()
	return err
}

func (d *Device) Stop() {
	d.mu.Lock()
	if d.stop != nil {
		close(d.stop)
		d.stop = nil
	}
	d.playing = false
	d.mu.Unlock()
	d.logf("sim: stop")
}

func (d *Device) IsStopped() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return !d.playing
}

func (d *Device) Reset() {
	d.Stop()
}

func (d *Device) logf(format string, args ...any) {
	if d.log != nil {
		d.log.Printf(format, args...)
	}
}
