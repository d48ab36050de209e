package tracker

import (
	"sync"
	"testing"
)

func TestTracker(t *testing.T) {
	tr := New()
	key := "beam_captured"

	// Test Initial State
	stats := tr.Snapshot()
	if len(stats) != 0 {
		t.Errorf("Expected empty stats, got %d", len(stats))
	}

	tr.TrackRecorded(key)
	tr.TrackRecorded(key)
	tr.TrackFailed(key)

	stats = tr.Snapshot()
	s, ok := stats[key]
	if !ok {
		t.Fatalf("Expected stats for %s", key)
	}
	if s.Recorded != 2 {
		t.Errorf("Expected 2 Recorded, got %d", s.Recorded)
	}
	if s.Failed != 1 {
		t.Errorf("Expected 1 Failed, got %d", s.Failed)
	}
}

func TestResetKeepsKeys(t *testing.T) {
	tr := New()
	tr.TrackRecorded("touchdown")

	tr.Reset()

	stats := tr.Snapshot()
	s, ok := stats["touchdown"]
	if !ok {
		t.Fatal("Post-Reset: key should still exist in map")
	}
	if s.Recorded != 0 {
		t.Errorf("Post-Reset: Recorded should be 0, got %d", s.Recorded)
	}
}

func TestTracker_Concurrent(t *testing.T) {
	tr := New()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				tr.TrackRecorded("destination")
			}
		}()
	}
	wg.Wait()

	if got := tr.Snapshot()["destination"].Recorded; got != 800 {
		t.Errorf("Expected 800, got %d", got)
	}
}
