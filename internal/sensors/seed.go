package sensors

import (
	"math"
	"time"
)

// NoiseSeed derives two 64-bit seeds for the clip-selection RNG from
// ambient accelerometer noise. The low-order mantissa bits of consecutive
// samples are thermal noise on any real part, which is enough entropy for
// prank-grade randomness. If the sensor fails, the current time seeds the
// generator instead so the daemon still comes up.
func NoiseSeed(a Accelerometer, samples int) (uint64, uint64) {
	if samples < 1 {
		samples = 16
	}

	var s1, s2 uint64
	ok := false
	for i := 0; i < samples; i++ {
		x, y, z, err := a.Read()
		if err != nil {
			continue
		}
		ok = true
		s1 = s1*6364136223846793005 + math.Float64bits(x) ^ math.Float64bits(z)<<21
		s2 = s2*1442695040888963407 + math.Float64bits(y) ^ math.Float64bits(x)>>7
	}

	if !ok {
		now := uint64(time.Now().UnixNano())
		return now, now ^ 0x9e3779b97f4a7c15
	}
	return s1, s2
}
