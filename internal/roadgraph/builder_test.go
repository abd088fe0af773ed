package roadgraph

import (
	"context"
	"sort"
	"testing"

	"github.com/openroad/roadgraph/internal/pbf"
)

// fakeWay is a literal test fixture: a way's refs and whether it should be
// treated as routable, bypassing the real "highway" tag comparison so
// scenarios can express routability directly.
type fakeWay struct {
	id       int64
	refs     []int64
	routable bool
}

// fakeReader replays a fixed set of nodes and ways in OSM PBF's usual
// file order (all nodes, then all ways) on every Run call, the way a real
// PBF file replays identically across the engine's repeated sequential
// passes.
type fakeReader struct {
	nodes map[int64][2]int64 // id -> (latNano, lonNano)
	ways  []fakeWay
}

func (f *fakeReader) Run(ctx context.Context, h pbf.Handlers) error {
	ids := make([]int64, 0, len(f.nodes))
	for id := range f.nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	if h.OnNode != nil {
		for _, id := range ids {
			ll := f.nodes[id]
			h.OnNode(pbf.NodeRecord{ID: id, LatNano: ll[0], LonNano: ll[1]})
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}
	}
	if h.OnWay != nil {
		for _, w := range f.ways {
			h.OnWay(pbf.WayRecord{ID: w.id, Refs: w.refs, Routable: w.routable})
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}
	}
	return nil
}

// newFixture builds a fakeReader whose nodes sit at distinct coordinates;
// exact placement doesn't matter to the structural assertions below.
func newFixture(ids []int64, ways []fakeWay) *fakeReader {
	nodes := make(map[int64][2]int64, len(ids))
	for _, id := range ids {
		nodes[id] = [2]int64{id * 1000, id * 2000}
	}
	return &fakeReader{nodes: nodes, ways: ways}
}

func countOccupied(g *Graph) int {
	n := 0
	for _, e := range g.Edges {
		if e.Occupied() {
			n++
		}
	}
	return n
}

func runFixture(t *testing.T, r *fakeReader) *Graph {
	t.Helper()
	g, err := build(context.Background(), r, Options{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return g
}

// assertEdge checks a symmetric edge exists between two vertex indices,
// assigned per spec.md §4.3's first-encounter classification order (each
// scenario's comments give how its node ids map to indices).
func assertEdge(t *testing.T, g *Graph, a, b uint32) {
	t.Helper()
	found := false
	for _, e := range g.EdgesOf(a) {
		if e.Target == b {
			found = true
		}
	}
	if !found {
		t.Errorf("missing edge %d->%d", a, b)
	}
	found = false
	for _, e := range g.EdgesOf(b) {
		if e.Target == a {
			found = true
		}
	}
	if !found {
		t.Errorf("missing edge %d->%d", b, a)
	}
}

func TestScenarioA_SingleWay(t *testing.T) {
	// refs [10,20,30]: 10 (endpoint) -> vertex 0, 20 interior-only stays
	// highway-only, 30 (endpoint) -> vertex 1.
	r := newFixture([]int64{10, 20, 30}, []fakeWay{
		{id: 1, refs: []int64{10, 20, 30}, routable: true},
	})
	g := runFixture(t, r)

	if got := g.NumVertices(); got != 2 {
		t.Fatalf("NumVertices() = %d, want 2", got)
	}
	if got := countOccupied(g); got != 2 {
		t.Fatalf("occupied edges = %d, want 2", got)
	}
	assertEdge(t, g, 0, 1)
}

func TestScenarioB_SharedInteriorNode(t *testing.T) {
	// way1 [1,2,3]: 1->v0, 2 highway-only (not yet intersection), 3->v1.
	// way2 [4,2,5]: 4->v2, 2 re-seen mid-way -> promoted to v3, 5->v4.
	r := newFixture([]int64{1, 2, 3, 4, 5}, []fakeWay{
		{id: 1, refs: []int64{1, 2, 3}, routable: true},
		{id: 2, refs: []int64{4, 2, 5}, routable: true},
	})
	g := runFixture(t, r)

	if got := g.NumVertices(); got != 5 {
		t.Fatalf("NumVertices() = %d, want 5", got)
	}
	if got := countOccupied(g); got != 8 {
		t.Fatalf("occupied edges = %d, want 8", got)
	}
	assertEdge(t, g, 0, 3) // 1<->2
	assertEdge(t, g, 3, 1) // 2<->3
	assertEdge(t, g, 2, 3) // 4<->2
	assertEdge(t, g, 3, 4) // 2<->5
	if got := len(g.EdgesOf(3)); got != 4 {
		t.Fatalf("vertex 2 (index 3) has %d outgoing edges, want 4", got)
	}
}

func TestScenarioC_NonHighwayWay(t *testing.T) {
	r := newFixture([]int64{1, 2, 3}, []fakeWay{
		{id: 1, refs: []int64{1, 2, 3}, routable: false},
	})
	g := runFixture(t, r)

	if got := g.NumVertices(); got != 0 {
		t.Fatalf("NumVertices() = %d, want 0", got)
	}
	if got := countOccupied(g); got != 0 {
		t.Fatalf("occupied edges = %d, want 0", got)
	}
}

func TestScenarioD_DeadEndOffThroughStreet(t *testing.T) {
	// way1 [1,2,3,4,5]: 1->v0, 2/3/4 highway-only so far, 5->v1.
	// way2 [3,6]: 3 re-seen -> promoted to v2, 6 endpoint -> v3.
	r := newFixture([]int64{1, 2, 3, 4, 5, 6}, []fakeWay{
		{id: 1, refs: []int64{1, 2, 3, 4, 5}, routable: true},
		{id: 2, refs: []int64{3, 6}, routable: true},
	})
	g := runFixture(t, r)

	if got := g.NumVertices(); got != 4 {
		t.Fatalf("NumVertices() = %d, want 4", got)
	}
	if got := countOccupied(g); got != 6 {
		t.Fatalf("occupied edges = %d, want 6", got)
	}
	assertEdge(t, g, 0, 2) // 1<->3
	assertEdge(t, g, 2, 1) // 3<->5
	assertEdge(t, g, 2, 3) // 3<->6
	if got := len(g.EdgesOf(2)); got != 3 {
		t.Fatalf("vertex 3 (index 2) has %d outgoing edges, want 3", got)
	}
}

// TestScenarioE_DeltaDecoding exercises the delta-decode step spec.md §6
// requires directly, since the production pbf.Reader boundary already
// receives absolute ids from paulmach/osm (see DESIGN.md). decodeDeltas
// lives in delta.go, not the production handler path.
func TestScenarioE_DeltaDecoding(t *testing.T) {
	deltas := []int64{100, -30, 50}
	got := decodeDeltas(deltas)
	want := []int64{100, 70, 120}
	if len(got) != len(want) {
		t.Fatalf("decodeDeltas length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("decodeDeltas[%d] = %d, want %d", i, got[i], want[i])
		}
	}

	// The resulting graph must be identical whether built from the
	// decoded absolute ids or an already-absolute stream.
	fromDeltas := newFixture(got, []fakeWay{{id: 1, refs: got, routable: true}})
	fromAbsolute := newFixture(want, []fakeWay{{id: 1, refs: want, routable: true}})

	g1 := runFixture(t, fromDeltas)
	g2 := runFixture(t, fromAbsolute)

	if len(g1.Vertices) != len(g2.Vertices) || len(g1.Edges) != len(g2.Edges) {
		t.Fatalf("graphs differ in shape: %d/%d vs %d/%d",
			len(g1.Vertices), len(g1.Edges), len(g2.Vertices), len(g2.Edges))
	}
}

// TestScenarioF_Determinism runs the same fixture twice and requires
// byte-identical vertex and edge contents.
func TestScenarioF_Determinism(t *testing.T) {
	build := func() *Graph {
		r := newFixture([]int64{1, 2, 3, 4, 5, 6}, []fakeWay{
			{id: 1, refs: []int64{1, 2, 3, 4, 5}, routable: true},
			{id: 2, refs: []int64{3, 6}, routable: true},
		})
		return runFixture(t, r)
	}
	g1, g2 := build(), build()

	if len(g1.Vertices) != len(g2.Vertices) {
		t.Fatalf("vertex count differs: %d vs %d", len(g1.Vertices), len(g2.Vertices))
	}
	for i := range g1.Vertices {
		if g1.Vertices[i] != g2.Vertices[i] {
			t.Fatalf("vertex %d differs: %+v vs %+v", i, g1.Vertices[i], g2.Vertices[i])
		}
	}
	if len(g1.Edges) != len(g2.Edges) {
		t.Fatalf("edge count differs: %d vs %d", len(g1.Edges), len(g2.Edges))
	}
	for i := range g1.Edges {
		if g1.Edges[i] != g2.Edges[i] {
			t.Fatalf("edge %d differs: %+v vs %+v", i, g1.Edges[i], g2.Edges[i])
		}
	}
}
