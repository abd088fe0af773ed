package roadgraph

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/openroad/roadgraph/internal/densemap"
	"github.com/openroad/roadgraph/internal/pbf"
	"github.com/openroad/roadgraph/internal/policy"
	"github.com/openroad/roadgraph/internal/proj"
)

// Options configures a Build call. The zero Options builds with
// spec.md's literal defaults: unit edge length, no routability exceptions,
// an in-memory coordinate table, and the equirectangular projection.
type Options struct {
	// Projector overrides the coordinate projection. Nil selects
	// proj.Equirectangular.
	Projector proj.Projector

	// Policy overrides routability widening and edge length. Nil selects
	// policy.Default.
	Policy policy.Policy

	// IntersectionSizeFraction sizes the intersection dense map as this
	// fraction of the P1 node count, before P2 has counted intersections
	// directly. spec.md §4.1 calls 0.5 "a safe starting point".
	IntersectionSizeFraction float64

	// DecodeWorkers is passed to pbf.NewPBFReader.
	DecodeWorkers int

	// MmapCoordsDir, if non-empty, backs P3's coordinate table with a
	// densemap.CoordStore file created in this directory instead of an
	// in-memory slice.
	MmapCoordsDir string

	// MetricsInterval, if positive, runs a progress ticker alongside each
	// pass that logs a Debug "pass in progress" line every interval.
	// Logger must be set for this to have an effect.
	MetricsInterval time.Duration
	Logger          *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.Projector == nil {
		o.Projector = proj.Equirectangular{}
	}
	if o.Policy == nil {
		o.Policy = policy.Default{}
	}
	if o.IntersectionSizeFraction <= 0 {
		o.IntersectionSizeFraction = 0.5
	}
	if o.DecodeWorkers < 1 {
		o.DecodeWorkers = 1
	}
	return o
}

// Build runs the four-pass algorithm over the PBF file at path and returns
// the finished graph. It never retries or partially recovers: any pass
// failure (spec.md §7's refusal conditions, or a wrapped I/O/decode error)
// discards all progress and returns an error.
func Build(ctx context.Context, path string, opts Options) (*Graph, error) {
	opts = opts.withDefaults()
	reader := pbf.NewPBFReader(path, opts.DecodeWorkers)
	return build(ctx, reader, opts)
}

// build is Build's implementation, taking a pbf.Reader directly so tests
// can drive the engine from literal in-memory fixtures instead of a real
// PBF file.
func build(ctx context.Context, reader pbf.Reader, opts Options) (*Graph, error) {
	opts = opts.withDefaults()

	c := newBuildContext(opts.Projector, opts.Policy)
	defer c.cancel()

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := runPass(ctx, logger, "count", opts.MetricsInterval, func(ctx context.Context) error {
		return reader.Run(ctx, pbf.Handlers{OnNode: c.countNode})
	}); err != nil {
		return nil, err
	}
	logger.Info("pass 1 complete", zap.Int64("nodes", c.nTotal))

	// Highway ids can reach one per node in the pathological all-highway
	// case; intersections are sized as a fraction of that, per spec.md
	// §4.1's guidance, and grown automatically by densemap if the guess
	// undershoots.
	intersectionHint := int(float64(c.nTotal) * opts.IntersectionSizeFraction)
	c.highwayIndex = densemap.New(int(c.nTotal))
	c.intersectionIndex = densemap.New(intersectionHint)
	c.intersectionNodeIDs = make([]int64, 0, intersectionHint)

	if err := runPass(ctx, logger, "classify", opts.MetricsInterval, func(ctx context.Context) error {
		return reader.Run(ctx, pbf.Handlers{OnWay: c.classifyWay})
	}); err != nil && c.err == nil {
		return nil, err
	}
	if c.err != nil {
		return nil, c.err
	}
	logger.Info("pass 2 complete",
		zap.Uint32("highway_nodes", c.nextHighwayID),
		zap.Uint32("intersections", c.nextIntersectionID))

	if opts.MmapCoordsDir != "" {
		store, err := densemap.NewCoordStore(
			filepath.Join(opts.MmapCoordsDir, "roadgraph-coords.tmp"),
			int(c.nextHighwayID))
		if err != nil {
			return nil, err
		}
		defer store.Close()
		c.coords = store
	} else {
		c.coords = newSliceCoords(int(c.nextHighwayID))
	}
	c.tally = make([]uint8, c.nextIntersectionID)

	if err := runPass(ctx, logger, "materialize", opts.MetricsInterval, func(ctx context.Context) error {
		return reader.Run(ctx, pbf.Handlers{
			OnNode: c.materializeNode,
			OnWay:  c.tallyWay,
		})
	}); err != nil && c.err == nil {
		return nil, err
	}
	if c.err != nil {
		return nil, c.err
	}
	logger.Info("pass 3 complete", zap.Int64("edges", c.totalEdgeCount))

	if err := c.layout(); err != nil {
		return nil, err
	}

	if err := runPass(ctx, logger, "emit", opts.MetricsInterval, func(ctx context.Context) error {
		return reader.Run(ctx, pbf.Handlers{OnWay: c.emitWay})
	}); err != nil && c.err == nil {
		return nil, err
	}
	if c.err != nil {
		return nil, c.err
	}
	logger.Info("pass 4 complete", zap.Int("edges_written", len(c.edges)))

	return &Graph{Vertices: c.vertices, Edges: c.edges}, nil
}

// layout allocates the vertex and edge arrays between P3 and P4: a
// prefix-sum over the per-vertex tally fixes each vertex's FirstEdge
// offset, resolves each vertex's coordinate through the intersection ->
// highway index chain, and appends the V+1 sentinel vertex spec.md §3
// describes.
func (c *buildContext) layout() error {
	n := int(c.nextIntersectionID)
	c.vertices = make([]Vertex, n+1)

	var offset uint32
	for v := 0; v < n; v++ {
		nodeID := c.intersectionNodeIDs[v]
		hidx := c.highwayIndex.Get(nodeID)
		if hidx == densemap.Absent {
			return fmt.Errorf("roadgraph: intersection node %d missing from highway index", nodeID)
		}
		x, y := c.coords.Get(hidx)
		c.vertices[v] = Vertex{X: x, Y: y, FirstEdge: offset}
		offset += uint32(c.tally[v])
	}
	c.vertices[n] = Vertex{FirstEdge: offset}

	c.edges = make([]Edge, offset)
	return nil
}

// runPass runs one pass's Reader.Run alongside an optional metrics
// ticker, using errgroup the way the reference importer's pipeline
// coordinator runs a decode goroutine alongside a progress goroutine.
func runPass(ctx context.Context, logger *zap.Logger, name string, metricsInterval time.Duration, run func(context.Context) error) error {
	passCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(passCtx)

	if metricsInterval > 0 {
		g.Go(func() error {
			ticker := pbf.NewProgressTicker(gctx, metricsInterval, func() {
				logger.Debug("pass in progress", zap.String("pass", name))
			})
			ticker.Run()
			return nil
		})
	}

	g.Go(func() error {
		defer cancel()
		return run(gctx)
	})

	return g.Wait()
}
