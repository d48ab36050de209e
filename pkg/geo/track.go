package geo

import "sync"

// TrackBuffer maintains a rolling window of coordinates and calculates the average ground track.
type TrackBuffer struct {
	mu         sync.RWMutex
	samples    []Point
	windowSize int
}

// NewTrackBuffer creates a new buffer with the specified sample window size.
func NewTrackBuffer(windowSize int) *TrackBuffer {
	if windowSize < 2 {
		windowSize = 2
	}
	return &TrackBuffer{
		windowSize: windowSize,
	}
}

// Push adds a new point and returns the ground track from the oldest to the newest sample.
// Until two distinct samples are available it returns fallback.
func (b *TrackBuffer) Push(p Point, fallback float64) float64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.samples = append(b.samples, p)
	if len(b.samples) > b.windowSize {
		b.samples = b.samples[1:]
	}

	first, last := b.samples[0], b.samples[len(b.samples)-1]
	if len(b.samples) < 2 || first == last {
		return fallback
	}
	return Bearing(first, last)
}

// Len returns the number of buffered samples.
func (b *TrackBuffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.samples)
}

// Reset clears the buffer history.
func (b *TrackBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.samples = nil
}
