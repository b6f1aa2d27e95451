// Package library enumerates the directory of random ambience clips and
// selects entries by ordinal position or uniform random draw.
//
// A scan walks the directory cursor once and snapshots the entry names in
// enumeration order; selections index the snapshot directly instead of
// re-walking the cursor per draw. The cursor is rewound before and after
// every scan so a later Rescan always starts from position zero.
package library

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"strings"
	"sync"
)

var (
	// ErrEmptyLibrary is returned by Random when the directory holds no clips.
	ErrEmptyLibrary = errors.New("library: no clips in directory")
	// ErrOutOfRange is returned by ByOrdinal for ordinals outside [1, n].
	ErrOutOfRange = errors.New("library: ordinal out of range")
)

// Library is a snapshot view over a directory of playable clips.
// It is safe for concurrent use.
type Library struct {
	dir  string
	open OpenFunc
	exts map[string]struct{} // lowercase extensions to accept; empty = accept all
	rng  *rand.Rand

	mu    sync.RWMutex
	names []string
}

// Option configures a Library.
type Option func(*Library)

// WithOpener substitutes the directory opener; used by tests and simulation.
func WithOpener(open OpenFunc) Option {
	return func(l *Library) { l.open = open }
}

// WithExtensions restricts the scan to the given extensions (e.g. ".mp3").
// The shipped config leaves this empty, accepting mixed file types.
func WithExtensions(exts []string) Option {
	return func(l *Library) {
		if len(exts) == 0 {
			return
		}
		l.exts = make(map[string]struct{}, len(exts))
		for _, e := range exts {
			l.exts[strings.ToLower(e)] = struct{}{}
		}
	}
}

// WithRand sets the random source used by Random. The daemon seeds this
// once at startup from accelerometer noise.
func WithRand(rng *rand.Rand) Option {
	return func(l *Library) { l.rng = rng }
}

// Open creates a Library for dir and performs the initial scan. An error
// here means the storage directory is unusable and the run cannot proceed.
func Open(dir string, opts ...Option) (*Library, error) {
	l := &Library{dir: dir, open: OpenDir}
	for _, opt := range opts {
		opt(l)
	}
	if err := l.Rescan(); err != nil {
		return nil, err
	}
	return l, nil
}

// Rescan re-enumerates the directory and replaces the snapshot.
// Subdirectories are skipped; the extension filter applies only when set.
func (l *Library) Rescan() error {
	cur, err := l.open(l.dir)
	if err != nil {
		return fmt.Errorf("library: open %s: %w", l.dir, err)
	}
	defer cur.Close()

	if err := cur.Rewind(); err != nil {
		return fmt.Errorf("library: rewind %s: %w", l.dir, err)
	}

	var names []string
	for {
		e, ok, err := cur.Next()
		if err != nil {
			return fmt.Errorf("library: scan %s: %w", l.dir, err)
		}
		if !ok {
			break
		}
		if e.Dir || !l.accepts(e.Name) {
			continue
		}
		names = append(names, e.Name)
	}

	// Leave the cursor at position zero for whoever scans next.
	if err := cur.Rewind(); err != nil {
		return fmt.Errorf("library: rewind %s: %w", l.dir, err)
	}

	l.mu.Lock()
	l.names = names
	l.mu.Unlock()
	return nil
}

func (l *Library) accepts(name string) bool {
	if len(l.exts) == 0 {
		return true
	}
	_, ok := l.exts[strings.ToLower(filepath.Ext(name))]
	return ok
}

// Count returns the number of clips in the current snapshot.
func (l *Library) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.names)
}

// Names returns a copy of the current snapshot in enumeration order.
func (l *Library) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]string(nil), l.names...)
}

// ByOrdinal returns the k-th clip (1-based) in enumeration order.
func (l *Library) ByOrdinal(k int) (string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if k < 1 || k > len(l.names) {
		return "", fmt.Errorf("%w: %d of %d", ErrOutOfRange, k, len(l.names))
	}
	return l.names[k-1], nil
}

// Random draws a uniformly distributed ordinal in [1, n] and returns that
// clip. An empty library is an explicit error, never a degenerate draw.
func (l *Library) Random() (string, error) {
	l.mu.RLock()
	n := len(l.names)
	l.mu.RUnlock()

	if n == 0 {
		return "", ErrEmptyLibrary
	}
	return l.ByOrdinal(l.intN(n) + 1)
}

// Path assembles the full clip path from the library directory and an
// entry name returned by ByOrdinal or Random.
func (l *Library) Path(name string) string {
	return filepath.Join(l.dir, name)
}

func (l *Library) intN(n int) int {
	if l.rng != nil {
		return l.rng.IntN(n)
	}
	return rand.IntN(n)
}
