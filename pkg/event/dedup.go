package event

import "sync"

// Deduplicator remembers the IDs of recently processed events in a bounded
// FIFO window so consumers can skip duplicate deliveries under at-least-once
// semantics. Consumers check Seen before handling an event and call Mark only
// after handling succeeded, so a failed event stays eligible for redelivery.
type Deduplicator struct {
	mu   sync.Mutex
	seen map[string]struct{}
	ring []string
	next int
}

func NewDeduplicator(size int) *Deduplicator {
	if size <= 0 {
		size = 1024
	}
	return &Deduplicator{
		seen: make(map[string]struct{}, size),
		ring: make([]string, size),
	}
}

// Seen reports whether id was already processed. Events without an ID bypass
// deduplication.
func (d *Deduplicator) Seen(id string) bool {
	if id == "" {
		return false
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	_, ok := d.seen[id]
	return ok
}

// Mark records id as processed, evicting the oldest ID once the window is
// full.
func (d *Deduplicator) Mark(id string) {
	if id == "" {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; ok {
		return
	}

	if evicted := d.ring[d.next]; evicted != "" {
		delete(d.seen, evicted)
	}
	d.ring[d.next] = id
	d.next = (d.next + 1) % len(d.ring)
	d.seen[id] = struct{}{}
}
