// Package sensors derives the two device signals — "shake detected" and
// "lid opened" — from raw accelerometer axes and a magnetic proximity pin.
package sensors

import (
	"log"
	"math"
)

// Accelerometer reads three orthogonal acceleration components in
// normalized units (1.0 = 1 g).
type Accelerometer interface {
	Read() (x, y, z float64, err error)
}

// Pin reads a digital level. For the lid sensor, high means the magnet has
// been withdrawn, i.e. the lid is open.
type Pin interface {
	Read() (bool, error)
}

// Reading is the most recent raw sample. It is recomputed on every poll and
// never persisted.
type Reading struct {
	X, Y, Z   float64
	Magnitude float64
}

// Signals is the per-cycle result of a sensor poll.
type Signals struct {
	Shake   bool // magnitude strictly above threshold this cycle
	LidOpen bool // rising edge: lid just transitioned closed -> open
}

// Sampler polls both sensors and applies the detection policy: a strict
// magnitude threshold for shake (no debouncing) and a one-shot rising edge
// for the lid. Read errors are logged and reported as "no event"; there is
// no separate sensor-fault channel.
type Sampler struct {
	accel     Accelerometer
	lid       Pin
	threshold float64
	scale     float64
	log       *log.Logger

	last    Reading
	lidHigh bool // level seen on the previous poll
}

// NewSampler builds a Sampler. threshold and scale follow the config;
// the reference threshold is 1.3 in normalized units.
func NewSampler(accel Accelerometer, lid Pin, threshold, scale float64, logger *log.Logger) *Sampler {
	return &Sampler{
		accel:     accel,
		lid:       lid,
		threshold: threshold,
		scale:     scale,
		log:       logger,
	}
}

// Sample takes one instantaneous reading of both sensors.
func (s *Sampler) Sample() Signals {
	var sig Signals

	x, y, z, err := s.accel.Read()
	if err != nil {
		s.logf("accel read failed: %v", err)
	} else {
		m := Magnitude(x, y, z, s.scale)
		s.last = Reading{X: x, Y: y, Z: z, Magnitude: m}
		sig.Shake = ShakeDetected(m, s.threshold)
	}

	high, err := s.lid.Read()
	if err != nil {
		s.logf("lid read failed: %v", err)
		return sig
	}
	sig.LidOpen = high && !s.lidHigh
	s.lidHigh = high
	return sig
}

// LastReading returns the most recent accelerometer sample.
func (s *Sampler) LastReading() Reading {
	return s.last
}

func (s *Sampler) logf(format string, args ...any) {
	if s.log != nil {
		s.log.Printf(format, args...)
	}
}

// Magnitude computes the scaled magnitude of an acceleration vector.
func Magnitude(x, y, z, scale float64) float64 {
	return math.Sqrt(x*x+y*y+z*z) * scale
}

// ShakeDetected applies the strict threshold policy: a magnitude exactly at
// the threshold is not a shake.
func ShakeDetected(magnitude, threshold float64) bool {
	return magnitude > threshold
}
