package roadgraph

import (
	"context"
	"math"

	"github.com/openroad/roadgraph/internal/densemap"
	"github.com/openroad/roadgraph/internal/policy"
	"github.com/openroad/roadgraph/internal/proj"
)

// CoordTable stores (x, y) decimeter coordinates indexed by highway dense
// id. Both the plain in-memory slice and internal/densemap.CoordStore
// (mmap-backed) satisfy this.
type CoordTable interface {
	Put(idx uint32, x, y int32)
	Get(idx uint32) (x, y int32)
	Len() int
}

// sliceCoords is the default, in-memory CoordTable.
type sliceCoords struct {
	xs, ys []int32
}

func newSliceCoords(n int) *sliceCoords {
	return &sliceCoords{xs: make([]int32, n), ys: make([]int32, n)}
}

func (s *sliceCoords) Put(idx uint32, x, y int32) { s.xs[idx] = x; s.ys[idx] = y }
func (s *sliceCoords) Get(idx uint32) (x, y int32) { return s.xs[idx], s.ys[idx] }
func (s *sliceCoords) Len() int                    { return len(s.xs) }

// buildContext is the "single build-context value passed through
// handlers" spec.md §9's Design Notes call for, in place of the source's
// module-level mutable state. One is created per Build call and discarded
// when it returns.
type buildContext struct {
	ctx    context.Context
	cancel context.CancelFunc
	err    error

	projector proj.Projector
	policy    policy.Policy

	// P1
	nTotal int64

	// P2
	highwayIndex       *densemap.Map
	intersectionIndex  *densemap.Map
	nextHighwayID      uint32
	nextIntersectionID uint32
	// intersectionNodeIDs[i] is the OSM node id assigned intersection
	// dense id i, in assignment order — needed to go from an
	// intersection dense id back to a coordinate once the coords table
	// (keyed by highway dense id) is populated in P3.
	intersectionNodeIDs []int64

	// P3
	coords  CoordTable
	tally   []uint8
	minX    int32
	minY    int32
	haveMin bool

	totalEdgeCount int64

	// Between P3 and P4
	vertices []Vertex
	edges    []Edge
}

func newBuildContext(projector proj.Projector, pol policy.Policy) *buildContext {
	ctx, cancel := context.WithCancel(context.Background())
	return &buildContext{
		ctx:       ctx,
		cancel:    cancel,
		projector: projector,
		policy:    pol,
		minX:      math.MaxInt32,
		minY:      math.MaxInt32,
	}
}

func (c *buildContext) fail(err error) {
	if c.err == nil {
		c.err = err
	}
	c.cancel()
}
