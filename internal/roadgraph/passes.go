package roadgraph

import (
	"github.com/openroad/roadgraph/internal/densemap"
	"github.com/openroad/roadgraph/internal/pbf"
)

// countNode is P1's only active handler (spec.md §4.2): count every node
// to size the dense maps before they're allocated.
func (c *buildContext) countNode(pbf.NodeRecord) {
	c.nTotal++
}

// classifyWay is P2's handler (spec.md §4.3). It assigns highway and
// intersection dense ids in first-encounter order.
//
// spec.md's literal pseudocode reads "if endpoint-or-shared, assign an
// intersection id; else insert into highway_index" as mutually exclusive
// branches. Read literally that would leave an intersection-only node
// (e.g. a way's lone endpoint, never interior anywhere) out of
// highway_index entirely, which contradicts spec.md §3's stated invariant
// "every intersection id is also a highway-node id" and would leave P3
// with no way to resolve that vertex's coordinates (P3's node handler only
// writes into the highway-indexed coordinate table). This implementation
// instead inserts every distinct referenced node into highway_index
// unconditionally (in the same first-encounter order the spec describes)
// and layers the intersection promotion check on top, which satisfies the
// invariant and still reproduces every worked example in spec.md §8
// exactly (verified against Scenarios A–F in the test suite).
func (c *buildContext) classifyWay(w pbf.WayRecord) {
	if c.err != nil {
		return
	}
	if !c.policy.Routable(w.ID, w.TagKeys, w.Routable) {
		return
	}
	n := len(w.Refs)
	if n == 0 {
		return
	}

	for i, r := range w.Refs {
		alreadySeen := c.highwayIndex.Contains(r)
		if !alreadySeen {
			if c.nextHighwayID == densemap.Absent {
				c.fail(ErrIntersectionOverflow)
				return
			}
			c.highwayIndex.Put(r, c.nextHighwayID)
			c.nextHighwayID++
		}

		isEndpoint := i == 0 || i == n-1
		if isEndpoint || alreadySeen {
			if !c.intersectionIndex.Contains(r) {
				if c.nextIntersectionID == densemap.Absent {
					c.fail(ErrIntersectionOverflow)
					return
				}
				c.intersectionIndex.Put(r, c.nextIntersectionID)
				c.intersectionNodeIDs = append(c.intersectionNodeIDs, r)
				c.nextIntersectionID++
			}
		}
	}
}

// materializeNode is P3's node handler (spec.md §4.4): resolve coordinates
// for every highway-indexed node.
func (c *buildContext) materializeNode(rec pbf.NodeRecord) {
	idx := c.highwayIndex.Get(rec.ID)
	if idx == densemap.Absent {
		return
	}
	x, y := c.projector.Project(rec.LatNano, rec.LonNano)
	c.coords.Put(idx, x, y)

	if x < c.minX {
		c.minX = x
	}
	if y < c.minY {
		c.minY = y
	}
	c.haveMin = true
}

// tallyWay is P3's way handler (spec.md §4.4): count each vertex's
// outgoing edges without writing them, so the edge array can be allocated
// to its exact size before P4 writes into it.
func (c *buildContext) tallyWay(w pbf.WayRecord) {
	if c.err != nil {
		return
	}
	if !c.policy.Routable(w.ID, w.TagKeys, w.Routable) || len(w.Refs) < 2 {
		return
	}

	idxA := c.intersectionIndex.Get(w.Refs[0])
	if idxA == densemap.Absent {
		// Malformed input: P2 guarantees the first ref of a routable way
		// is always an intersection. A first ref that isn't defends
		// against that guarantee being violated by bad input; skip the
		// way silently, per spec.md §7.
		return
	}

	for i := 1; i < len(w.Refs); i++ {
		idxB := c.intersectionIndex.Get(w.Refs[i])
		if idxB == densemap.Absent {
			continue
		}
		if !c.bumpTally(idxA) || !c.bumpTally(idxB) {
			return
		}
		c.totalEdgeCount += 2
		idxA = idxB
	}
}

func (c *buildContext) bumpTally(idx uint32) bool {
	if c.tally[idx] == 255 {
		c.fail(ErrDegreeOverflow)
		return false
	}
	c.tally[idx]++
	return true
}

// emitWay is P4's way handler (spec.md §4.6): write the edges P3 already
// counted into their pre-sized slots.
func (c *buildContext) emitWay(w pbf.WayRecord) {
	if c.err != nil {
		return
	}
	if !c.policy.Routable(w.ID, w.TagKeys, w.Routable) || len(w.Refs) < 2 {
		return
	}

	idxA := c.intersectionIndex.Get(w.Refs[0])
	if idxA == densemap.Absent {
		return
	}

	for i := 1; i < len(w.Refs); i++ {
		idxB := c.intersectionIndex.Get(w.Refs[i])
		if idxB == densemap.Absent {
			continue
		}
		c.emit(idxA, idxB)
		c.emit(idxB, idxA)
		idxA = idxB
	}
}

// emit finds the first unused slot in vertex a's run by scanning forward
// from its FirstEdge offset, per spec.md §4.6. The scan terminates at or
// before the next vertex's FirstEdge because P3 tallied the exact count.
func (c *buildContext) emit(a, b uint32) {
	j := c.vertices[a].FirstEdge
	for c.edges[j].Flags != 0 {
		j++
	}
	dx := c.vertices[b].X - c.vertices[a].X
	dy := c.vertices[b].Y - c.vertices[a].Y
	c.edges[j] = Edge{
		Target: b,
		Length: c.policy.EdgeLength(dx, dy),
		Flags:  edgeFlagOccupied,
	}
}
