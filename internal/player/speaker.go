package player

import (
	"context"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"
)

// Speaker plays clips through the system audio output via faiface/beep.
// It implements Device. All clips are resampled to the configured device
// rate so mixed-rate media directories play correctly.
type Speaker struct {
	sr  beep.SampleRate
	log *log.Logger

	mu      sync.Mutex
	gainDB  float64 // log2 gain applied to the next clip
	silent  bool
	playing bool
	gen     uint64      // increments per clip; guards stale callbacks
	finish  func()      // idempotent finisher for the current clip
}

// NewSpeaker initializes the audio output at the given sample rate.
// Initialization failure means no audio hardware is usable, which is fatal
// for the device.
func NewSpeaker(sampleRate int, logger *log.Logger) (*Speaker, error) {
	sr := beep.SampleRate(sampleRate)
	if err := speaker.Init(sr, sr.N(100*time.Millisecond)); err != nil {
		return nil, fmt.Errorf("player: speaker init: %w", err)
	}
	return &Speaker{sr: sr, log: logger}, nil
}

// SetVolume maps the two channel levels onto a single logarithmic gain.
// beep mixes per-streamer, not per-channel, so the levels are averaged.
func (s *Speaker) SetVolume(left, right float64) {
	avg := (clamp01(left) + clamp01(right)) / 2

	s.mu.Lock()
	defer s.mu.Unlock()
	if avg <= 0 {
		s.silent = true
		s.gainDB = 0
		return
	}
	s.silent = false
	s.gainDB = math.Log2(avg)
}

// Start begins playback and returns immediately.
func (s *Speaker) Start(path string) error {
	_, err := s.start(path)
	return err
}

// PlayFull plays the clip to completion. A concurrent Stop or context
// cancellation ends the wait early; cancellation also stops the clip.
func (s *Speaker) PlayFull(ctx context.Context, path string) error {
	done, err := s.start(path)
	if err != nil {
		return err
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		s.Stop()
		return ctx.Err()
	}
}

// start decodes the clip, wires the gain and control stages, and hands the
// sequence to the speaker. It returns a channel closed when the clip ends,
// whether by finishing or by Stop.
func (s *Speaker) start(path string) (<-chan struct{}, error) {
	streamer, format, err := decodeClip(path)
	if err != nil {
		return nil, err
	}

	done := make(chan struct{})
	var once sync.Once
	finish := func() {
		once.Do(func() {
			streamer.Close()
			close(done)
		})
	}

	s.mu.Lock()
	if s.playing {
		// Exclusive ownership: the caller must stop before starting.
		s.mu.Unlock()
		finish()
		return nil, fmt.Errorf("player: clip already playing, stop first")
	}
	s.gen++
	gen := s.gen
	s.playing = true
	s.finish = finish
	vol := &effects.Volume{
		Streamer: beep.Resample(4, format.SampleRate, s.sr, streamer),
		Base:     2,
		Volume:   s.gainDB,
		Silent:   s.silent,
	}
	s.mu.Unlock()

	speaker.Play(beep.Seq(vol, beep.Callback(func() {
		s.clipEnded(gen)
		finish()
	})))
	return done, nil
}

// clipEnded marks the speaker idle when the clip of generation gen drains.
// A stale callback from an already-stopped clip is ignored.
func (s *Speaker) clipEnded(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen || !s.playing {
		return
	}
	s.playing = false
	s.finish = nil
}

// Stop cancels the current clip. Safe to call when nothing is playing.
func (s *Speaker) Stop() {
	s.mu.Lock()
	if !s.playing {
		s.mu.Unlock()
		return
	}
	s.playing = false
	finish := s.finish
	s.finish = nil
	s.mu.Unlock()

	// Drop the streamer from the mixer first, then release the clip. The
	// order matters: finish closes the decoder the mixer may still be
	// pulling from.
	speaker.Clear()
	if finish != nil {
		finish()
	}
}

// IsStopped reports whether the output channel is idle.
func (s *Speaker) IsStopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.playing
}

// Reset clears the output channel unconditionally.
func (s *Speaker) Reset() {
	s.Stop()
	speaker.Clear()
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
