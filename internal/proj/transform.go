// Package proj projects OSM lat/lon (nanodegrees) to the decimeter (x, y)
// plane the road graph's vertex and coordinate tables store. Projection is
// a pluggable policy, per spec.md §9's design note that the cosine-latitude
// equirectangular projection distorts near the poles and an implementation
// may want to swap it out.
package proj

import "math"

// DecPerDeg is the degrees-to-plane scale factor of the equirectangular
// projection: 1111111.1 * 10, i.e. 11,111,111 plane units per degree.
const DecPerDeg = 1111111.1 * 10

// NanoToDeg converts OSM's nanodegree integer coordinates to float degrees.
const NanoToDeg = 1e-9

// Projector converts a lat/lon pair in nanodegrees to (x, y) decimeters.
type Projector interface {
	Project(latNano, lonNano int64) (x, y int32)
}

// Equirectangular is the projection spec.md §3 specifies:
//
//	y = lat · DecPerDeg
//	x = lon · cos(lat_radians) · DecPerDeg
//
// It is locally accurate but distorts near the poles, which is acceptable
// for a road network (no roads at the poles) but not mandated to stay this
// way — any Projector can be substituted.
type Equirectangular struct{}

// Project implements Projector.
func (Equirectangular) Project(latNano, lonNano int64) (x, y int32) {
	lat := float64(latNano) * NanoToDeg
	lon := float64(lonNano) * NanoToDeg
	latRad := lat * math.Pi / 180.0

	y = clampInt32(lat * DecPerDeg)
	x = clampInt32(lon * math.Cos(latRad) * DecPerDeg)
	return
}

func clampInt32(v float64) int32 {
	switch {
	case v > math.MaxInt32:
		return math.MaxInt32
	case v < math.MinInt32:
		return math.MinInt32
	default:
		return int32(v)
	}
}
