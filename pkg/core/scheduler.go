package core

import (
	"context"
	"log/slog"
	"time"

	"nanonav/pkg/config"
	"nanonav/pkg/sim"
)

// Scheduler manages the central heartbeat and scheduled jobs.
type Scheduler struct {
	cfg   *config.Config
	sim   sim.Client
	sinks []TelemetrySink
	jobs  []Job
}

// NewScheduler creates a new Scheduler. Sinks are fed in order on every tick,
// so the navigator should come first and consumers of its output after it.
func NewScheduler(cfg *config.Config, simClient sim.Client, sinks ...TelemetrySink) *Scheduler {
	return &Scheduler{
		cfg:   cfg,
		sim:   simClient,
		sinks: sinks,
		jobs:  []Job{},
	}
}

// AddJob registers a job.
func (s *Scheduler) AddJob(j Job) {
	s.jobs = append(s.jobs, j)
}

// Start runs the main loop. It blocks until context is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	interval := time.Duration(s.cfg.Ticker.TelemetryLoop)
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("Scheduler started", "interval", interval, "jobs", len(s.jobs))

	for {
		select {
		case <-ctx.Done():
			slog.Info("Scheduler stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	// 0. Get and broadcast SimState
	simState := s.sim.GetState()
	for _, sink := range s.sinks {
		if ss, ok := sink.(StateSink); ok {
			ss.UpdateState(simState)
		}
	}

	// Skip telemetry processing if not active
	if !simState.IsActive() {
		return
	}

	// 1. Fetch Telemetry
	tel, err := s.sim.GetTelemetry(ctx)
	if err != nil {
		slog.Debug("failed to read telemetry", "error", err)
		return
	}

	// 2. Feed sinks synchronously
	for _, sink := range s.sinks {
		sink.Update(&tel)
	}

	// 3. Evaluate Jobs
	for _, job := range s.jobs {
		if job.ShouldFire(&tel) {
			t := tel
			go job.Run(ctx, &t)
		}
	}
}
