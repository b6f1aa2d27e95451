package controller

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wrenfield/spookbox/internal/config"
	"github.com/wrenfield/spookbox/internal/library"
	"github.com/wrenfield/spookbox/internal/scheduler"
	"github.com/wrenfield/spookbox/internal/sensors"
)

// fakeDevice records every command issued to the audio output in order.
type fakeDevice struct {
	mu       sync.Mutex
	calls    []string
	playing  bool
	startErr error
	playErr  error
}

func (d *fakeDevice) record(call string) {
	d.mu.Lock()
	d.calls = append(d.calls, call)
	d.mu.Unlock()
}

func (d *fakeDevice) SetVolume(left, right float64) {}

func (d *fakeDevice) Start(path string) error {
	d.record("start:" + path)
	if d.startErr != nil {
		return d.startErr
	}
	d.mu.Lock()
	d.playing = true
	d.mu.Unlock()
	return nil
}

func (d *fakeDevice) PlayFull(ctx context.Context, path string) error {
	d.record("playfull:" + path)
	if err := ctx.Err(); err != nil {
		return err
	}
	return d.playErr
}

func (d *fakeDevice) Stop() {
	d.record("stop")
	d.mu.Lock()
	d.playing = false
	d.mu.Unlock()
}

func (d *fakeDevice) Reset() { d.record("reset") }

func (d *fakeDevice) IsStopped() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return !d.playing
}

// finish simulates the non-blocking clip draining on its own.
func (d *fakeDevice) finish() {
	d.mu.Lock()
	d.playing = false
	d.mu.Unlock()
}

func (d *fakeDevice) commandLog() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.calls...)
}

// fakeSampler replays a scripted signal sequence, then reports no events.
type fakeSampler struct {
	mu     sync.Mutex
	script []sensors.Signals
	pos    int
}

func (s *fakeSampler) Sample() sensors.Signals {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pos >= len(s.script) {
		return sensors.Signals{}
	}
	sig := s.script[s.pos]
	s.pos++
	return sig
}

func (s *fakeSampler) LastReading() sensors.Reading {
	return sensors.Reading{Magnitude: 2.0}
}

// stateLog collects transitions from Run.
type stateLog struct {
	mu     sync.Mutex
	states []State
}

func (l *stateLog) set(s State) {
	l.mu.Lock()
	l.states = append(l.states, s)
	l.mu.Unlock()
}

func (l *stateLog) all() []State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]State(nil), l.states...)
}

type memOpener struct {
	names []string
}

func (o *memOpener) open(string) (library.Cursor, error) {
	return &memCursor{names: o.names}, nil
}

type memCursor struct {
	names []string
	pos   int
}

func (c *memCursor) Next() (library.Entry, bool, error) {
	if c.pos >= len(c.names) {
		return library.Entry{}, false, nil
	}
	e := library.Entry{Name: c.names[c.pos]}
	c.pos++
	return e, true, nil
}

func (c *memCursor) Rewind() error { c.pos = 0; return nil }
func (c *memCursor) Close() error  { return nil }

func fastTiming() config.TimingConfig {
	return config.TimingConfig{
		StartupGraceMs: 0,
		WarmupMs:       1,
		IntervalMinMs:  1,
		IntervalMaxMs:  2,
		PollIntervalMs: 1,
	}
}

func testClips() config.ClipsConfig {
	return config.ClipsConfig{
		Ready:     "/clips/ready.mp3",
		Shake:     "/clips/shake.mp3",
		Trigger:   "/clips/trigger.mp3",
		RandomDir: "/clips/random",
	}
}

// runFor drives the controller for the given wall time and returns the
// recorded state transitions.
func runFor(t *testing.T, c *Controller, d time.Duration) []State {
	t.Helper()
	log := &stateLog{}
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Run(ctx, log.set)
	}()

	select {
	case <-done:
	case <-time.After(d + 2*time.Second):
		t.Fatal("controller did not stop after context cancellation")
	}
	return log.all()
}

func newController(t *testing.T, dev *fakeDevice, samp *fakeSampler, clipNames ...string) *Controller {
	t.Helper()
	lib, err := library.Open("/clips/random",
		library.WithOpener((&memOpener{names: clipNames}).open))
	require.NoError(t, err)

	return New(Options{
		Library:   lib,
		Scheduler: scheduler.New(fastTiming(), nil),
		Device:    dev,
		Sampler:   samp,
		Clips:     testClips(),
	})
}

func countPrefix(calls []string, prefix string) int {
	n := 0
	for _, c := range calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func TestBootSequence(t *testing.T) {
	dev := &fakeDevice{}
	c := newController(t, dev, &fakeSampler{}, "a.mp3")

	states := runFor(t, c, 50*time.Millisecond)

	require.GreaterOrEqual(t, len(states), 3)
	assert.Equal(t, StateGracePeriod, states[0])
	assert.Equal(t, StateReadyTone, states[1])
	assert.Equal(t, StateIdle, states[2])

	calls := dev.commandLog()
	require.NotEmpty(t, calls)
	assert.Equal(t, "playfull:/clips/ready.mp3", calls[0],
		"ready tone plays to completion before polling starts")
}

func TestShakeIssuesOneCommandWhilePlaying(t *testing.T) {
	dev := &fakeDevice{}
	samp := &fakeSampler{script: []sensors.Signals{
		{Shake: true},
		{Shake: true},
		{Shake: true},
		{Shake: true},
	}}
	c := newController(t, dev, samp, "a.mp3")

	runFor(t, c, 50*time.Millisecond)

	// The clip never finishes (the fake stays playing), so repeated shakes
	// must not issue new commands.
	assert.Equal(t, 1, countPrefix(dev.commandLog(), "start:"),
		"commands: %v", dev.commandLog())
}

func TestShakeClipFinishReturnsToIdle(t *testing.T) {
	dev := &fakeDevice{}
	samp := &fakeSampler{script: []sensors.Signals{{Shake: true}}}
	c := newController(t, dev, samp, "a.mp3")

	go func() {
		time.Sleep(15 * time.Millisecond)
		dev.finish()
	}()
	states := runFor(t, c, 60*time.Millisecond)

	var afterShake []State
	for i, s := range states {
		if s == StateShakePlaying {
			afterShake = states[i+1:]
			break
		}
	}
	assert.Contains(t, afterShake, StateIdle,
		"controller must fall back to idle once the shake clip drains: %v", states)
}

// Lid-open while the shake clip is sounding: the device must be stopped and
// reset before the trigger clip, then warmup, then the first random clip.
func TestLidInterruptsShakePlayback(t *testing.T) {
	dev := &fakeDevice{}
	samp := &fakeSampler{script: []sensors.Signals{
		{Shake: true},
		{LidOpen: true},
	}}
	c := newController(t, dev, samp, "a.mp3")

	states := runFor(t, c, 80*time.Millisecond)

	calls := dev.commandLog()
	want := []string{
		"playfull:/clips/ready.mp3",
		"start:/clips/shake.mp3",
		"stop",
		"reset",
		"playfull:/clips/trigger.mp3",
		"playfull:/clips/random/a.mp3",
	}
	require.GreaterOrEqual(t, len(calls), len(want), "commands: %v", calls)
	assert.Equal(t, want, calls[:len(want)])

	assert.Contains(t, states, StateTriggered)
	assert.Contains(t, states, StateRandomAmbient)
}

func TestLidStopsPlaybackFromIdleToo(t *testing.T) {
	dev := &fakeDevice{}
	samp := &fakeSampler{script: []sensors.Signals{{LidOpen: true}}}
	c := newController(t, dev, samp, "a.mp3")

	runFor(t, c, 50*time.Millisecond)

	calls := dev.commandLog()
	// Stop precedes the trigger clip unconditionally, playing or not.
	stopIdx, trigIdx := -1, -1
	for i, call := range calls {
		if call == "stop" && stopIdx == -1 {
			stopIdx = i
		}
		if call == "playfull:/clips/trigger.mp3" {
			trigIdx = i
		}
	}
	require.NotEqual(t, -1, stopIdx, "commands: %v", calls)
	require.NotEqual(t, -1, trigIdx, "commands: %v", calls)
	assert.Less(t, stopIdx, trigIdx)
}

func TestRandomAmbientIsTerminal(t *testing.T) {
	dev := &fakeDevice{}
	samp := &fakeSampler{script: []sensors.Signals{{LidOpen: true}}}
	c := newController(t, dev, samp, "a.mp3", "b.mp3")

	states := runFor(t, c, 120*time.Millisecond)

	ambientAt := -1
	for i, s := range states {
		if s == StateRandomAmbient {
			ambientAt = i
			break
		}
	}
	require.NotEqual(t, -1, ambientAt, "never reached ambient: %v", states)
	for _, s := range states[ambientAt+1:] {
		assert.NotEqual(t, StateIdle, s, "returned to idle after ambient: %v", states)
		assert.NotEqual(t, StateShakePlaying, s)
	}

	// With a 1–2 ms interval the loop must have drawn several clips.
	ambient := countPrefix(dev.commandLog(), "playfull:/clips/random/")
	assert.Greater(t, ambient, 3, "commands: %v", dev.commandLog())
}

func TestEmptyLibraryKeepsLooping(t *testing.T) {
	dev := &fakeDevice{}
	samp := &fakeSampler{script: []sensors.Signals{{LidOpen: true}}}
	c := newController(t, dev, samp) // no clips at all

	states := runFor(t, c, 80*time.Millisecond)

	assert.Contains(t, states, StateRandomAmbient)
	// The draw fails every cycle; only ready + trigger ever play.
	assert.Equal(t, 0, countPrefix(dev.commandLog(), "playfull:/clips/random/"))
	assert.Equal(t, 2, countPrefix(dev.commandLog(), "playfull:"))
}

func TestFailedPlayIsNonFatal(t *testing.T) {
	dev := &fakeDevice{playErr: errors.New("file open failed")}
	samp := &fakeSampler{script: []sensors.Signals{{LidOpen: true}}}
	c := newController(t, dev, samp, "a.mp3")

	states := runFor(t, c, 80*time.Millisecond)

	// Every play fails, yet the run proceeds through the whole lifecycle
	// and keeps scheduling ambient clips.
	assert.Contains(t, states, StateRandomAmbient)
	assert.Greater(t, countPrefix(dev.commandLog(), "playfull:/clips/random/"), 1)
}

func TestFailedShakeStartStaysIdle(t *testing.T) {
	dev := &fakeDevice{startErr: errors.New("codec busy")}
	samp := &fakeSampler{script: []sensors.Signals{{Shake: true}}}
	c := newController(t, dev, samp, "a.mp3")

	states := runFor(t, c, 50*time.Millisecond)

	assert.NotContains(t, states, StateShakePlaying)
}

func TestClipCallbackSeesPhases(t *testing.T) {
	dev := &fakeDevice{}
	samp := &fakeSampler{script: []sensors.Signals{
		{Shake: true},
		{LidOpen: true},
	}}
	c := newController(t, dev, samp, "a.mp3")

	var mu sync.Mutex
	phases := map[string]int{}
	c.SetClipCallback(func(phase, path string) {
		mu.Lock()
		phases[phase]++
		mu.Unlock()
	})

	runFor(t, c, 80*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, phases["ready"])
	assert.Equal(t, 1, phases["shake"])
	assert.Equal(t, 1, phases["trigger"])
	assert.GreaterOrEqual(t, phases["ambient"], 1)
}
