package sim

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wrenfield/spookbox/internal/sensors"
)

func TestAccelAtRest(t *testing.T) {
	a := NewAccel(0) // no shake scripted

	for i := 0; i < 20; i++ {
		x, y, z, err := a.Read()
		require.NoError(t, err)
		m := sensors.Magnitude(x, y, z, 1.0)
		assert.Less(t, m, 1.3, "resting magnitude crossed the shake threshold")
	}
}

func TestAccelScriptedShake(t *testing.T) {
	a := NewAccel(time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	x, y, z, err := a.Read()
	require.NoError(t, err)
	m := sensors.Magnitude(x, y, z, 1.0)
	assert.Greater(t, m, 1.3, "scripted burst should exceed the threshold")
}

func TestLidPinOpensOnce(t *testing.T) {
	p := NewLidPin(10 * time.Millisecond)

	high, err := p.Read()
	require.NoError(t, err)
	assert.False(t, high)

	time.Sleep(15 * time.Millisecond)
	high, err = p.Read()
	require.NoError(t, err)
	assert.True(t, high)
}

func TestLidPinDisabled(t *testing.T) {
	p := NewLidPin(0)
	time.Sleep(time.Millisecond)
	high, err := p.Read()
	require.NoError(t, err)
	assert.False(t, high)
}

func TestDevicePlayFullRunsToCompletion(t *testing.T) {
	d := NewDevice(10*time.Millisecond, nil)

	start := time.Now()
	require.NoError(t, d.PlayFull(context.Background(), "clip.mp3"))
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
	assert.True(t, d.IsStopped())
}

func TestDeviceStopInterruptsPlayFull(t *testing.T) {
	d := NewDevice(time.Hour, nil)

	done := make(chan error, 1)
	go func() { done <- d.PlayFull(context.Background(), "clip.mp3") }()

	time.Sleep(10 * time.Millisecond)
	assert.False(t, d.IsStopped())
	d.Stop()

	select {
	case err := <-done:
		assert.NoError(t, err, "a stopped clip is not an error")
	case <-time.After(time.Second):
		t.Fatal("PlayFull did not return after Stop")
	}
	assert.True(t, d.IsStopped())
}

func TestDeviceStartIsNonBlocking(t *testing.T) {
	d := NewDevice(20*time.Millisecond, nil)

	start := time.Now()
	require.NoError(t, d.Start("clip.mp3"))
	assert.Less(t, time.Since(start), 10*time.Millisecond)
	assert.False(t, d.IsStopped())

	// Drains on its own.
	deadline := time.Now().Add(time.Second)
	for !d.IsStopped() {
		if time.Now().After(deadline) {
			t.Fatal("simulated clip never drained")
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func TestDeviceContextCancellation(t *testing.T) {
	d := NewDevice(time.Hour, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- d.PlayFull(ctx, "clip.mp3") }()
	time.Sleep(5 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("PlayFull did not honor cancellation")
	}
}
