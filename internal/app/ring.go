package app

import "sync"

// eventRing keeps the most recent events for the /api/logs endpoint. Old
// entries fall off the front once the capacity is hit.
type eventRing struct {
	mu   sync.Mutex
	buf  []map[string]any
	next int
	full bool
}

func newEventRing(capacity int) *eventRing {
	return &eventRing{buf: make([]map[string]any, capacity)}
}

func (r *eventRing) append(ev map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buf[r.next] = ev
	r.next = (r.next + 1) % len(r.buf)
	if r.next == 0 {
		r.full = true
	}
}

// snapshot returns the stored events oldest first.
func (r *eventRing) snapshot() []map[string]any {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []map[string]any
	if r.full {
		out = append(out, r.buf[r.next:]...)
	}
	out = append(out, r.buf[:r.next]...)
	return out
}
