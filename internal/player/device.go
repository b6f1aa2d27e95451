// Package player drives audio clip playback. Device is the capability the
// controller consumes; Speaker is the real implementation on top of
// faiface/beep. Clips are identified by path; mp3 and wav are supported.
package player

import "context"

// Device is the audio output channel. Ownership is exclusive: callers must
// stop the current clip before starting another.
type Device interface {
	// SetVolume sets the left/right output levels in [0, 1]. Takes effect
	// from the next play command.
	SetVolume(left, right float64)

	// Start begins playback of the clip at path and returns immediately.
	Start(path string) error

	// PlayFull plays the clip at path to completion. It returns early only
	// if the clip is stopped or ctx is cancelled.
	PlayFull(ctx context.Context, path string) error

	// Stop cancels the current clip, if any.
	Stop()

	// IsStopped reports whether no clip is currently playing.
	IsStopped() bool

	// Reset clears the output channel after a stop sequence so a subsequent
	// Start is accepted cleanly.
	Reset()
}
