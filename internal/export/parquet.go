// Package export writes a finished internal/roadgraph.Graph to the
// optional persistence sinks spec.md §9's Design Notes raise as an open
// question ("should the engine persist the graph?") without answering.
// Both writers here are adapted from the reference importer's
// internal/parquet.NodeWriter/WKBGeometryWriter batching pattern.
package export

import (
	"fmt"
	"os"

	"github.com/apache/arrow/go/v14/arrow"
	"github.com/apache/arrow/go/v14/arrow/array"
	"github.com/apache/arrow/go/v14/arrow/memory"
	"github.com/apache/arrow/go/v14/parquet"
	"github.com/apache/arrow/go/v14/parquet/compress"
	"github.com/apache/arrow/go/v14/parquet/pqarrow"

	"github.com/openroad/roadgraph/internal/roadgraph"
)

// vertexBatchSize and edgeBatchSize bound how many rows accumulate in an
// arrow.RecordBuilder before a batch is flushed to the Parquet file.
const (
	vertexBatchSize = 100_000
	edgeBatchSize   = 100_000
)

var vertexSchema = arrow.NewSchema([]arrow.Field{
	{Name: "vertex_id", Type: arrow.PrimitiveTypes.Uint32, Nullable: false},
	{Name: "x_decimeters", Type: arrow.PrimitiveTypes.Int32, Nullable: false},
	{Name: "y_decimeters", Type: arrow.PrimitiveTypes.Int32, Nullable: false},
}, nil)

var edgeSchema = arrow.NewSchema([]arrow.Field{
	{Name: "source_vertex_id", Type: arrow.PrimitiveTypes.Uint32, Nullable: false},
	{Name: "target_vertex_id", Type: arrow.PrimitiveTypes.Uint32, Nullable: false},
	{Name: "length_decimeters", Type: arrow.PrimitiveTypes.Uint16, Nullable: false},
}, nil)

// WriteParquet writes g's vertices and edges to two sibling Parquet files,
// "<pathPrefix>.vertices.parquet" and "<pathPrefix>.edges.parquet". The
// sentinel vertex is not written; edge rows carry the source vertex id
// explicitly since edge order alone no longer implies it once written flat.
func WriteParquet(g *roadgraph.Graph, pathPrefix string) error {
	if err := writeVertices(g, pathPrefix+".vertices.parquet"); err != nil {
		return fmt.Errorf("export: write vertices: %w", err)
	}
	if err := writeEdges(g, pathPrefix+".edges.parquet"); err != nil {
		return fmt.Errorf("export: write edges: %w", err)
	}
	return nil
}

func writerProperties() *parquet.WriterProperties {
	return parquet.NewWriterProperties(
		parquet.WithCompression(compress.Codecs.Zstd),
		parquet.WithDictionaryDefault(false),
	)
}

func writeVertices(g *roadgraph.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	writer, err := pqarrow.NewFileWriter(vertexSchema, f, writerProperties(), pqarrow.DefaultWriterProps())
	if err != nil {
		return err
	}
	defer writer.Close()

	builder := array.NewRecordBuilder(memory.DefaultAllocator, vertexSchema)
	defer builder.Release()

	n := g.NumVertices()
	count := 0
	for v := 0; v < n; v++ {
		vert := g.Vertices[v]
		builder.Field(0).(*array.Uint32Builder).Append(uint32(v))
		builder.Field(1).(*array.Int32Builder).Append(vert.X)
		builder.Field(2).(*array.Int32Builder).Append(vert.Y)
		count++
		if count >= vertexBatchSize {
			if err := flush(writer, builder); err != nil {
				return err
			}
			count = 0
		}
	}
	return flush(writer, builder)
}

func writeEdges(g *roadgraph.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	writer, err := pqarrow.NewFileWriter(edgeSchema, f, writerProperties(), pqarrow.DefaultWriterProps())
	if err != nil {
		return err
	}
	defer writer.Close()

	builder := array.NewRecordBuilder(memory.DefaultAllocator, edgeSchema)
	defer builder.Release()

	n := g.NumVertices()
	count := 0
	for v := 0; v < n; v++ {
		for _, e := range g.EdgesOf(uint32(v)) {
			if !e.Occupied() {
				continue
			}
			builder.Field(0).(*array.Uint32Builder).Append(uint32(v))
			builder.Field(1).(*array.Uint32Builder).Append(e.Target)
			builder.Field(2).(*array.Uint16Builder).Append(e.Length)
			count++
			if count >= edgeBatchSize {
				if err := flush(writer, builder); err != nil {
					return err
				}
				count = 0
			}
		}
	}
	return flush(writer, builder)
}

func flush(writer *pqarrow.FileWriter, builder *array.RecordBuilder) error {
	rec := builder.NewRecord()
	defer rec.Release()
	if rec.NumRows() == 0 {
		return nil
	}
	return writer.Write(rec)
}
