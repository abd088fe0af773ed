// Package pbf is the boundary between the road graph engine and the raw
// PBF bytes. Block framing, zlib inflation, protobuf demarshalling, and
// string-table resolution are spec.md §1's explicit "out of scope,
// external collaborator" — here that collaborator is
// github.com/paulmach/osm's osmpbf scanner. This package adapts its
// decoded objects into the small node/way/relation handler-triple contract
// spec.md §6 describes, and nothing more: the engine in internal/roadgraph
// never imports paulmach/osm directly.
package pbf

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
)

// NodeRecord is the decoded form of an OSM node delivered to a NodeHandler.
type NodeRecord struct {
	ID      int64
	LatNano int64
	LonNano int64
}

// WayRecord is the decoded form of an OSM way delivered to a WayHandler.
// Refs are absolute node ids, already de-delta'd by the underlying decoder
// by the time they reach this layer (see DESIGN.md for why the engine's
// own de-delta step, required by spec.md §6, is still exercised directly
// against literal delta arrays in roadgraph's tests rather than redone
// here against an already-absolute sequence).
type WayRecord struct {
	ID       int64
	Refs     []int64
	Routable bool
	TagKeys  []string
}

// RelationRecord is the decoded form of an OSM relation. The engine never
// registers a RelationHandler (spec.md §1's Non-goals exclude relation
// processing), but the handler slot exists so the Reader contract has a
// uniform three-handler shape per spec.md §6.
type RelationRecord struct {
	ID int64
}

// NodeHandler, WayHandler, and RelationHandler are the optional callbacks a
// pass registers. A nil handler means that pass is inactive for that
// record kind, matching spec.md §4.2's "way and relation handlers
// inactive" for P1.
type (
	NodeHandler     func(NodeRecord)
	WayHandler      func(WayRecord)
	RelationHandler func(RelationRecord)
)

// Handlers is the handler triple spec.md §9's Design Notes describe as "a
// struct of three optional closures". The pipeline driver builds a fresh
// Handlers value for each pass.
type Handlers struct {
	OnNode     NodeHandler
	OnWay      WayHandler
	OnRelation RelationHandler
}

// Reader drives one sequential pass over a PBF file, delivering records to
// the given Handlers in file order. Handlers run to completion before the
// next record is delivered (spec.md §5).
type Reader interface {
	Run(ctx context.Context, h Handlers) error
}

// PBFReader is the production Reader, backed by paulmach/osm/osmpbf.
type PBFReader struct {
	path          string
	decodeWorkers int
}

// NewPBFReader constructs a Reader over the file at path. decodeWorkers
// controls how many goroutines the underlying scanner uses to decode PBF
// blobs concurrently; it does not affect handler delivery order or
// concurrency — Scan/Object still yields one record at a time in file
// order, which is what lets the engine stay single-threaded per spec.md §5.
func NewPBFReader(path string, decodeWorkers int) *PBFReader {
	if decodeWorkers < 1 {
		decodeWorkers = 1
	}
	return &PBFReader{path: path, decodeWorkers: decodeWorkers}
}

// Run opens the file fresh and scans it to completion, calling the
// registered handlers. Each pass gets its own Run call and its own file
// handle; spec.md §5 assumes OS page-cache buffering across the repeated
// sequential rereads this implies.
func (r *PBFReader) Run(ctx context.Context, h Handlers) error {
	f, err := os.Open(r.path)
	if err != nil {
		return fmt.Errorf("pbf: open %s: %w", r.path, err)
	}
	defer f.Close()

	scanner := osmpbf.New(ctx, f, r.decodeWorkers)
	defer scanner.Close()

	for scanner.Scan() {
		switch o := scanner.Object().(type) {
		case *osm.Node:
			if h.OnNode != nil {
				h.OnNode(NodeRecord{
					ID:      int64(o.ID),
					LatNano: int64(o.Lat * 1e9),
					LonNano: int64(o.Lon * 1e9),
				})
			}
		case *osm.Way:
			if h.OnWay != nil {
				refs := make([]int64, len(o.Nodes))
				for i, n := range o.Nodes {
					refs[i] = int64(n.ID)
				}
				keys := make([]string, len(o.Tags))
				for i, t := range o.Tags {
					keys[i] = t.Key
				}
				h.OnWay(WayRecord{
					ID:       int64(o.ID),
					Refs:     refs,
					Routable: IsRoutable(o.Tags),
					TagKeys:  keys,
				})
			}
		case *osm.Relation:
			if h.OnRelation != nil {
				h.OnRelation(RelationRecord{ID: int64(o.ID)})
			}
		}
	}

	if err := scanner.Err(); err != nil && err != io.EOF {
		return fmt.Errorf("pbf: decode %s: %w", r.path, err)
	}
	return nil
}
