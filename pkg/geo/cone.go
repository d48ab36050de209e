package geo

import "math"

// InsideCone reports whether angle lies within halfAngle degrees of reference,
// measured circularly. Non-finite inputs and negative widths are never inside.
func InsideCone(angle, reference, halfAngle float64) bool {
	if !isFinite(angle) || !isFinite(reference) || math.IsNaN(halfAngle) || halfAngle < 0 {
		return false
	}
	return HeadingDifference(angle, reference) <= halfAngle
}
