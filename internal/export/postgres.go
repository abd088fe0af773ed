package export

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openroad/roadgraph/internal/roadgraph"
)

// PostgresSink bulk-loads a finished Graph into two tables via COPY, the
// way the reference importer's internal/loader.Loader COPYs Parquet rows
// through a temp table — except here there is no geometry conversion step,
// so rows go straight into their destination tables.
type PostgresSink struct {
	pool *pgxpool.Pool
}

// NewPostgresSink connects to dsn and returns a sink ready for Load.
func NewPostgresSink(ctx context.Context, dsn string) (*PostgresSink, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("export: connect postgres: %w", err)
	}
	return &PostgresSink{pool: pool}, nil
}

// Close releases the connection pool.
func (s *PostgresSink) Close() {
	s.pool.Close()
}

// Load creates roadgraph_vertices/roadgraph_edges (dropping any prior
// contents) and COPYs g's vertices and edges into them.
func (s *PostgresSink) Load(ctx context.Context, g *roadgraph.Graph) error {
	if _, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS roadgraph_vertices (
			vertex_id INTEGER PRIMARY KEY,
			x_decimeters INTEGER NOT NULL,
			y_decimeters INTEGER NOT NULL
		)`); err != nil {
		return fmt.Errorf("export: create vertices table: %w", err)
	}
	if _, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS roadgraph_edges (
			source_vertex_id INTEGER NOT NULL,
			target_vertex_id INTEGER NOT NULL,
			length_decimeters INTEGER NOT NULL
		)`); err != nil {
		return fmt.Errorf("export: create edges table: %w", err)
	}
	if _, err := s.pool.Exec(ctx, `TRUNCATE roadgraph_vertices, roadgraph_edges`); err != nil {
		return fmt.Errorf("export: truncate tables: %w", err)
	}

	n := g.NumVertices()

	if _, err := s.pool.CopyFrom(ctx,
		pgx.Identifier{"roadgraph_vertices"},
		[]string{"vertex_id", "x_decimeters", "y_decimeters"},
		&vertexSource{g: g, n: n},
	); err != nil {
		return fmt.Errorf("export: copy vertices: %w", err)
	}

	if _, err := s.pool.CopyFrom(ctx,
		pgx.Identifier{"roadgraph_edges"},
		[]string{"source_vertex_id", "target_vertex_id", "length_decimeters"},
		&edgeSource{g: g, n: n},
	); err != nil {
		return fmt.Errorf("export: copy edges: %w", err)
	}

	return nil
}

// vertexSource implements pgx.CopyFromSource over a Graph's real vertices.
type vertexSource struct {
	g   *roadgraph.Graph
	n   int
	cur int
}

func (v *vertexSource) Next() bool {
	v.cur++
	return v.cur <= v.n
}

func (v *vertexSource) Values() ([]interface{}, error) {
	i := v.cur - 1
	vert := v.g.Vertices[i]
	return []interface{}{i, vert.X, vert.Y}, nil
}

func (v *vertexSource) Err() error { return nil }

// edgeSource implements pgx.CopyFromSource by flattening EdgesOf across
// every vertex, skipping unoccupied slots.
type edgeSource struct {
	g       *roadgraph.Graph
	n       int
	vertex  int
	edges   []roadgraph.Edge
	edgeIdx int
	cur     [3]interface{}
}

func (e *edgeSource) Next() bool {
	for {
		if e.edgeIdx < len(e.edges) {
			edge := e.edges[e.edgeIdx]
			e.edgeIdx++
			if !edge.Occupied() {
				continue
			}
			e.cur = [3]interface{}{e.vertex - 1, int(edge.Target), int(edge.Length)}
			return true
		}
		if e.vertex >= e.n {
			return false
		}
		e.edges = e.g.EdgesOf(uint32(e.vertex))
		e.edgeIdx = 0
		e.vertex++
	}
}

func (e *edgeSource) Values() ([]interface{}, error) {
	return e.cur[:], nil
}

func (e *edgeSource) Err() error { return nil }
