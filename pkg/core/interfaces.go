package core

import (
	"context"
	"log/slog"

	"nanonav/pkg/model"
	"nanonav/pkg/sim"
)

// TelemetrySink is a consumer of the high-frequency telemetry stream.
type TelemetrySink interface {
	Update(t *sim.Telemetry)
}

// StateSink is implemented by sinks that also track the simulator state.
type StateSink interface {
	UpdateState(s sim.State)
}

// EventRecorder persists navigation events.
type EventRecorder interface {
	Record(ctx context.Context, e *model.NavEvent) error
}

func logJobError(job, msg string, err error) {
	slog.Error(job+": "+msg, "error", err)
}
