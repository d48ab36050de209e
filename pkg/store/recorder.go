package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"nanonav/pkg/logging"
	"nanonav/pkg/model"
	"nanonav/pkg/tracker"
)

// Recorder stamps navigation events with an id, the session and the time,
// persists them and appends them to the event log.
type Recorder struct {
	store   NavEventStore
	session string
	now     func() time.Time
	tracker *tracker.Tracker
}

// NewRecorder creates a recorder for a new session. A nil store only logs.
func NewRecorder(s NavEventStore) *Recorder {
	return &Recorder{
		store:   s,
		session: uuid.NewString(),
		now:     time.Now,
	}
}

// WithTracker counts recorded and failed events per type in t.
func (r *Recorder) WithTracker(t *tracker.Tracker) *Recorder {
	r.tracker = t
	return r
}

// SessionID identifies this run of the application.
func (r *Recorder) SessionID() string {
	return r.session
}

// Record completes and stores e. The event is logged even if persisting fails.
func (r *Recorder) Record(ctx context.Context, e *model.NavEvent) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.SessionID = r.session
	if e.Timestamp.IsZero() {
		e.Timestamp = r.now()
	}

	slog.Info("Navigation event", "type", e.Type, "airfield", e.Airfield, "runway", e.Runway)
	logging.LogEvent(e)

	var err error
	if r.store != nil {
		err = r.store.SaveNavEvent(ctx, e)
	}
	if r.tracker != nil {
		if err != nil {
			r.tracker.TrackFailed(string(e.Type))
		} else {
			r.tracker.TrackRecorded(string(e.Type))
		}
	}
	return err
}
