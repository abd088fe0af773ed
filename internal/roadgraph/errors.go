package roadgraph

import "errors"

// Sentinel errors for the refusal conditions spec.md §7 names. A failed
// pass invalidates the entire build; the engine never retries or
// partially recovers.
var (
	// ErrIntersectionOverflow is returned if the number of distinct
	// intersections would exceed the 32-bit dense index space.
	ErrIntersectionOverflow = errors.New("roadgraph: intersection count exceeds 2^32")

	// ErrDegreeOverflow is returned if any vertex's outgoing edge count
	// would exceed the 8-bit tally's range (255). spec.md §7 calls this a
	// "deliberate compactness choice" the build must refuse against
	// rather than silently truncate.
	ErrDegreeOverflow = errors.New("roadgraph: vertex outgoing edge count exceeds 255")
)
