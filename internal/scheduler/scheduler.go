// Package scheduler owns the timing policy between playback events: the
// one-time startup grace period, the post-trigger warmup, and the randomized
// interval between ambient clips. Waits are deadline based and cancellable
// by context rather than busy loops.
package scheduler

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/wrenfield/spookbox/internal/config"
)

// Scheduler computes wait durations and performs the corresponding waits.
type Scheduler struct {
	timing config.TimingConfig
	rng    *rand.Rand
}

// New builds a Scheduler from the timing config. rng may be nil, in which
// case the shared random source is used.
func New(timing config.TimingConfig, rng *rand.Rand) *Scheduler {
	return &Scheduler{timing: timing, rng: rng}
}

// StartupGrace is the fixed wait before sensing starts, giving whoever is
// planting the box time to close it up and walk away.
func (s *Scheduler) StartupGrace() time.Duration {
	return s.timing.StartupGrace()
}

// Warmup is the fixed wait between the trigger clip and the first random clip.
func (s *Scheduler) Warmup() time.Duration {
	return s.timing.Warmup()
}

// PollInterval is the delay between sensor polls while idle.
func (s *Scheduler) PollInterval() time.Duration {
	return s.timing.PollInterval()
}

// InterClipInterval draws a fresh uniform duration in
// [interval_min, interval_max], inclusive at both ends, at millisecond
// granularity. Called before every ambient clip after the first.
func (s *Scheduler) InterClipInterval() time.Duration {
	lo := s.timing.IntervalMin()
	hi := s.timing.IntervalMax()
	if hi <= lo {
		return lo
	}
	steps := int64((hi-lo)/time.Millisecond) + 1
	return lo + time.Duration(s.int64N(steps))*time.Millisecond
}

// Wait blocks for d or until ctx is cancelled. Returns true if the full
// duration elapsed.
func (s *Scheduler) Wait(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (s *Scheduler) int64N(n int64) int64 {
	if s.rng != nil {
		return s.rng.Int64N(n)
	}
	return rand.Int64N(n)
}
