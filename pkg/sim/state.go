// Package sim provides simulator client interfaces and types.
package sim

// State represents the connection and activity state of the simulator.
type State string

const (
	// StateDisconnected indicates no connection to the simulator.
	StateDisconnected State = "disconnected"
	// StateInactive indicates connected but no vessel in flight (menu, pause, map view).
	StateInactive State = "inactive"
	// StateActive indicates connected and a vessel is in flight.
	StateActive State = "active"
)

// IsActive reports whether telemetry should be processed.
func (s State) IsActive() bool {
	return s == StateActive
}
