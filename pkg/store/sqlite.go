package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"nanonav/pkg/db"
	"nanonav/pkg/model"
)

// DefaultEventLimit caps RecentNavEvents when no positive limit is given.
const DefaultEventLimit = 50

// Store composes all sub-interfaces for full store access.
// Consumers should depend on specific sub-interfaces when possible.
type Store interface {
	NavEventStore

	// Close closes the store connection.
	Close() error
}

// SQLiteStore implements Store.
type SQLiteStore struct {
	db *db.DB
}

// NewSQLiteStore creates a new store.
func NewSQLiteStore(db *db.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// --- Navigation events ---

func (s *SQLiteStore) SaveNavEvent(ctx context.Context, e *model.NavEvent) error {
	if e.ID == "" {
		return errors.New("nav event has no id")
	}
	var dist sql.NullFloat64
	if e.DistanceToRunway != nil && !math.IsInf(*e.DistanceToRunway, 0) && !math.IsNaN(*e.DistanceToRunway) {
		dist = sql.NullFloat64{Float64: *e.DistanceToRunway, Valid: true}
	}

	query := `INSERT OR REPLACE INTO nav_event
		(id, session_id, ts, type, airfield, runway, lat, lon, altitude_msl, ground_speed, distance_to_runway, horizontal_deviation, vertical_deviation)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		e.ID, e.SessionID, e.Timestamp.UTC(), string(e.Type), e.Airfield, e.Runway,
		e.Lat, e.Lon, e.AltitudeMSL, e.GroundSpeed, dist,
		e.HorizontalDeviation, e.VerticalDeviation,
	)
	if err != nil {
		return fmt.Errorf("failed to save nav event: %w", err)
	}
	return nil
}

func (s *SQLiteStore) RecentNavEvents(ctx context.Context, limit int) ([]*model.NavEvent, error) {
	if limit <= 0 {
		limit = DefaultEventLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, ts, type, airfield, runway, lat, lon, altitude_msl, ground_speed, distance_to_runway, horizontal_deviation, vertical_deviation
		 FROM nav_event ORDER BY ts DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []*model.NavEvent{}
	for rows.Next() {
		var e model.NavEvent
		var typ string
		var ts time.Time
		var dist sql.NullFloat64
		if err := rows.Scan(
			&e.ID, &e.SessionID, &ts, &typ, &e.Airfield, &e.Runway,
			&e.Lat, &e.Lon, &e.AltitudeMSL, &e.GroundSpeed, &dist,
			&e.HorizontalDeviation, &e.VerticalDeviation,
		); err != nil {
			return nil, err
		}
		e.Type = model.NavEventType(typ)
		e.Timestamp = ts
		if dist.Valid {
			d := dist.Float64
			e.DistanceToRunway = &d
		}
		events = append(events, &e)
	}
	return events, rows.Err()
}
