package policy

import "math"

// maxEdgeLength is the largest value a uint16 edge length can hold.
// spec.md §4.6 allows Euclidean length to be clamped to this range.
const maxEdgeLength = math.MaxUint16

// Euclidean is the Policy spec.md §4.6 describes as an option: "implementations
// MAY compute the Euclidean length in decimeters as hypot(Δx, Δy) clamped
// to u16 range". Routability is unchanged from the default.
type Euclidean struct{ Default }

// EdgeLength implements Policy.
func (Euclidean) EdgeLength(dxDecimeters, dyDecimeters int32) uint16 {
	d := math.Hypot(float64(dxDecimeters), float64(dyDecimeters))
	if d > maxEdgeLength {
		return maxEdgeLength
	}
	if d < 1 {
		return 1
	}
	return uint16(d)
}
