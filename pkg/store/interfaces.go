package store

import (
	"context"

	"nanonav/pkg/model"
)

// NavEventStore handles navigation event persistence.
type NavEventStore interface {
	SaveNavEvent(ctx context.Context, e *model.NavEvent) error
	// RecentNavEvents returns up to limit events, newest first.
	RecentNavEvents(ctx context.Context, limit int) ([]*model.NavEvent, error)
}
