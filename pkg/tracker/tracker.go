// Package tracker counts recorded navigation events per type.
package tracker

import (
	"sync"
	"sync/atomic"
)

// Tracker tracks recording outcomes per key (usually an event type).
type Tracker struct {
	mu    sync.RWMutex
	stats map[string]*Stats
}

// Stats holds the counters for one key. Fields are accessed atomically.
type Stats struct {
	Recorded int64
	Failed   int64
}

// New creates a new Tracker.
func New() *Tracker {
	return &Tracker{
		stats: make(map[string]*Stats),
	}
}

// getStats returns the stats object for a key, creating it if needed.
func (t *Tracker) getStats(key string) *Stats {
	t.mu.RLock()
	s, ok := t.stats[key]
	t.mu.RUnlock()
	if ok {
		return s
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	// Double check
	if s, ok = t.stats[key]; ok {
		return s
	}
	s = &Stats{}
	t.stats[key] = s
	return s
}

// TrackRecorded counts a successfully persisted event.
func (t *Tracker) TrackRecorded(key string) {
	atomic.AddInt64(&t.getStats(key).Recorded, 1)
}

// TrackFailed counts an event that could not be persisted.
func (t *Tracker) TrackFailed(key string) {
	atomic.AddInt64(&t.getStats(key).Failed, 1)
}

// Reset zeroes all counters but keeps the keys.
func (t *Tracker) Reset() {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, s := range t.stats {
		atomic.StoreInt64(&s.Recorded, 0)
		atomic.StoreInt64(&s.Failed, 0)
	}
}

// Snapshot returns a copy of the current stats.
func (t *Tracker) Snapshot() map[string]Stats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	result := make(map[string]Stats, len(t.stats))
	for k, v := range t.stats {
		result[k] = Stats{
			Recorded: atomic.LoadInt64(&v.Recorded),
			Failed:   atomic.LoadInt64(&v.Failed),
		}
	}
	return result
}
