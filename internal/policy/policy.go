// Package policy resolves the two Open Questions spec.md §9 leaves to "an
// implementation": whether a way beyond the literal "highway" tag should
// ever be treated as routable, and whether an edge's length should stay
// the provisional unit cost of 1 or carry geometric distance. Both are
// exposed as a small hook surface rather than hardcoded, with a default
// that reproduces the spec's literal behavior exactly.
package policy

// Policy is consulted by the road graph engine at two points: widening
// spec.md §6's exact "highway" byte-comparison routability check, and
// computing an edge's stored length from its endpoints' coordinate delta.
type Policy interface {
	// Routable is consulted for every way with its tag keys and the
	// result of spec.md §6's exact "highway" byte comparison. A Policy
	// may only widen defaultRoutable (turn false into true), never
	// narrow it, so the byte-compare contract stays a floor.
	Routable(wayID int64, tagKeys []string, defaultRoutable bool) bool

	// EdgeLength computes the stored length for an edge given the
	// decimeter delta between its endpoints. The default Policy returns
	// 1, matching spec.md §4.6's provisional unit cost.
	EdgeLength(dxDecimeters, dyDecimeters int32) uint16
}

// Default reproduces the spec's literal behavior: no routability
// exceptions, and a constant unit edge length.
type Default struct{}

// Routable implements Policy.
func (Default) Routable(_ int64, _ []string, defaultRoutable bool) bool {
	return defaultRoutable
}

// EdgeLength implements Policy.
func (Default) EdgeLength(_, _ int32) uint16 {
	return 1
}
