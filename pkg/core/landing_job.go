package core

import (
	"context"
	"log/slog"
	"time"

	"nanonav/pkg/model"
	"nanonav/pkg/nav"
	"nanonav/pkg/sim"
)

const (
	// landingSpeed is the ground speed (m/s) below which a landed vessel counts as stopped.
	landingSpeed    = 5.0
	landingCooldown = 5 * time.Minute
)

// LandingJob detects when the vessel lands while a destination is set and records a touchdown.
type LandingJob struct {
	BaseJob
	view        nav.View
	rec         EventRecorder
	wasAirborne bool
	cooldown    time.Time
	now         func() time.Time
	pending     eventQueue
}

// NewLandingJob creates a new LandingJob.
func NewLandingJob(view nav.View, rec EventRecorder) *LandingJob {
	return &LandingJob{
		BaseJob: NewBaseJob("LandingJob"),
		view:    view,
		rec:     rec,
		now:     time.Now,
	}
}

func (j *LandingJob) ShouldFire(t *sim.Telemetry) bool {
	// If recently fired, wait
	if j.now().Before(j.cooldown) {
		return false
	}

	if !t.IsOnGround {
		if !j.wasAirborne {
			slog.Debug("LandingJob: Vessel is airborne")
			j.wasAirborne = true
		}
		return false
	}

	// Just rolling around or started on the ground
	if !j.wasAirborne {
		return false
	}

	// rolling out
	if t.GroundSpeed > landingSpeed {
		return false
	}

	j.wasAirborne = false
	s := j.view.Snapshot()
	if !s.HasDestination() {
		slog.Debug("LandingJob: Landed without a destination")
		return false
	}

	j.cooldown = j.now().Add(landingCooldown)
	j.pending.push(snapshotEvent(model.EventTouchdown, s, t))
	return true
}

func (j *LandingJob) Run(ctx context.Context, t *sim.Telemetry) {
	if !j.TryLock() {
		return
	}
	defer j.Unlock()

	events := j.pending.drain()
	if len(events) > 0 {
		slog.Info("LandingJob: Landing detected", "airfield", events[0].Airfield, "runway", events[0].Runway)
	}
	recordAll(ctx, j.Name(), j.rec, events)
}
