package core

import (
	"context"
	"math"

	"nanonav/pkg/model"
	"nanonav/pkg/nav"
	"nanonav/pkg/sim"
)

// BeamJob records when the vessel enters or leaves the approach beam.
type BeamJob struct {
	BaseJob
	view    nav.View
	rec     EventRecorder
	last    nav.Snapshot
	pending eventQueue
}

// NewBeamJob creates a BeamJob watching the navigator output.
func NewBeamJob(view nav.View, rec EventRecorder) *BeamJob {
	return &BeamJob{
		BaseJob: NewBaseJob("BeamJob"),
		view:    view,
		rec:     rec,
	}
}

func (j *BeamJob) ShouldFire(t *sim.Telemetry) bool {
	s := j.view.Snapshot()
	prev := j.last
	j.last = s

	sameRunway := prev.Airfield == s.Airfield && prev.Runway == s.Runway
	if prev.InBeam && (!s.InBeam || !sameRunway) {
		j.pending.push(snapshotEvent(model.EventBeamLost, prev, t))
	}
	if s.InBeam && (!prev.InBeam || !sameRunway) {
		j.pending.push(snapshotEvent(model.EventBeamCaptured, s, t))
	}

	return j.pending.len() > 0 && !j.isRunning()
}

func (j *BeamJob) Run(ctx context.Context, t *sim.Telemetry) {
	if !j.TryLock() {
		return
	}
	defer j.Unlock()

	recordAll(ctx, j.Name(), j.rec, j.pending.drain())
}

// snapshotEvent builds an event from the snapshot it was detected in.
func snapshotEvent(typ model.NavEventType, s nav.Snapshot, t *sim.Telemetry) *model.NavEvent {
	e := &model.NavEvent{
		Type:                typ,
		Airfield:            s.Airfield,
		Runway:              s.Runway,
		HorizontalDeviation: s.HorizontalDeviation,
		VerticalDeviation:   s.VerticalDeviation,
	}
	if !math.IsInf(s.DistanceToRunway, 0) {
		d := s.DistanceToRunway
		e.DistanceToRunway = &d
	}
	if t != nil {
		e.Lat = t.Latitude
		e.Lon = t.Longitude
		e.AltitudeMSL = t.AltitudeMSL
		e.GroundSpeed = t.GroundSpeed
	}
	return e
}

// DestinationEvent builds the event recorded when the pilot changes the destination.
func DestinationEvent(s nav.Snapshot, t *sim.Telemetry) *model.NavEvent {
	return snapshotEvent(model.EventDestination, s, t)
}
