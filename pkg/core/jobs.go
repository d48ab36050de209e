package core

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"nanonav/pkg/geo"
	"nanonav/pkg/model"
	"nanonav/pkg/sim"
)

// Job defines a scheduled task.
type Job interface {
	Name() string
	// ShouldFire is called synchronously on every active tick.
	ShouldFire(t *sim.Telemetry) bool
	// Run is started in its own goroutine when ShouldFire returned true.
	Run(ctx context.Context, t *sim.Telemetry)
}

// BaseJob provides atomic running state to prevent re-entry.
type BaseJob struct {
	name    string
	running int32 // 1 if running, 0 otherwise
}

func NewBaseJob(name string) BaseJob {
	return BaseJob{name: name}
}

func (b *BaseJob) Name() string {
	return b.name
}

// TryLock attempts to set running to 1. Returns true if successful.
func (b *BaseJob) TryLock() bool {
	return atomic.CompareAndSwapInt32(&b.running, 0, 1)
}

func (b *BaseJob) Unlock() {
	atomic.StoreInt32(&b.running, 0)
}

func (b *BaseJob) isRunning() bool {
	return atomic.LoadInt32(&b.running) == 1
}

// eventQueue hands events detected in ShouldFire over to Run.
type eventQueue struct {
	mu     sync.Mutex
	events []*model.NavEvent
}

func (q *eventQueue) push(e *model.NavEvent) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.events = append(q.events, e)
}

func (q *eventQueue) drain() []*model.NavEvent {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.events
	q.events = nil
	return out
}

func (q *eventQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

// recordAll passes queued events to the recorder, logging failures.
func recordAll(ctx context.Context, job string, rec EventRecorder, events []*model.NavEvent) {
	for _, e := range events {
		if err := rec.Record(ctx, e); err != nil {
			logJobError(job, "failed to record event", err)
		}
	}
}

// DistanceJob fires when distance traveled exceeds threshold.
// The reference position is advanced in ShouldFire, so a tick that fires
// is never counted twice while Run is still being scheduled.
type DistanceJob struct {
	BaseJob
	body      geo.Body
	threshold float64 // meters
	action    func(context.Context, sim.Telemetry)

	mu       sync.Mutex
	lastPos  geo.Point
	firstRun bool
}

func NewDistanceJob(name string, thresholdMeters float64, action func(context.Context, sim.Telemetry)) *DistanceJob {
	return &DistanceJob{
		BaseJob:   NewBaseJob(name),
		body:      geo.Kerbin,
		threshold: thresholdMeters,
		action:    action,
		firstRun:  true,
	}
}

// WithBody measures distances on b instead of Kerbin.
func (j *DistanceJob) WithBody(b geo.Body) *DistanceJob {
	j.body = b
	return j
}

func (j *DistanceJob) ShouldFire(t *sim.Telemetry) bool {
	if j.isRunning() {
		return false
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if !j.firstRun && j.body.Distance(j.lastPos, t.Position()) < j.threshold {
		return false
	}
	j.lastPos = t.Position()
	j.firstRun = false
	return true
}

func (j *DistanceJob) Run(ctx context.Context, t *sim.Telemetry) {
	if !j.TryLock() {
		return
	}
	defer j.Unlock()

	j.action(ctx, *t)
}

// TimeJob fires when time elapsed exceeds threshold.
// Like DistanceJob, it claims the interval in ShouldFire.
type TimeJob struct {
	BaseJob
	threshold time.Duration
	action    func(context.Context, sim.Telemetry)

	mu       sync.Mutex
	lastTime time.Time
	firstRun bool
}

func NewTimeJob(name string, threshold time.Duration, action func(context.Context, sim.Telemetry)) *TimeJob {
	return &TimeJob{
		BaseJob:   NewBaseJob(name),
		threshold: threshold,
		action:    action,
		firstRun:  true,
	}
}

func (j *TimeJob) ShouldFire(t *sim.Telemetry) bool {
	if j.isRunning() {
		return false
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if !j.firstRun && time.Since(j.lastTime) < j.threshold {
		return false
	}
	j.lastTime = time.Now()
	j.firstRun = false
	return true
}

func (j *TimeJob) Run(ctx context.Context, t *sim.Telemetry) {
	if !j.TryLock() {
		return
	}
	defer j.Unlock()

	j.action(ctx, *t)
}
