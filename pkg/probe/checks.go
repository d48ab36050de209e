package probe

import (
	"context"
	"errors"

	"nanonav/pkg/sim"
	"nanonav/pkg/site"
)

var (
	// ErrEmptyCatalog means no destination can be selected.
	ErrEmptyCatalog = errors.New("airfield catalog is empty")
	// ErrNoILS means no runway can ever report the vessel in the beam.
	ErrNoILS = errors.New("no runway in the catalog has an ILS")
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Database checks that the event store answers.
func Database(p Pinger) Probe {
	return Probe{
		Name:     "Database",
		Check:    p.PingContext,
		Critical: true,
	}
}

// Catalog warns about catalogs the navigator cannot do much with.
func Catalog(c *site.Catalog) Probe {
	return Probe{
		Name: "Airfield Catalog",
		Check: func(ctx context.Context) error {
			if c.Len() == 0 {
				return ErrEmptyCatalog
			}
			for _, af := range c.Airfields() {
				for _, r := range af.Runways() {
					if r.HasILS() {
						return nil
					}
				}
			}
			return ErrNoILS
		},
	}
}

// Simulator warns when no simulator is reachable. The API still serves
// destination changes in that case.
func Simulator(c sim.Client) Probe {
	return Probe{
		Name: "Simulator",
		Check: func(ctx context.Context) error {
			if c.GetState() == sim.StateDisconnected {
				return sim.ErrNotConnected
			}
			return nil
		},
	}
}
