package densemap

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"
)

// entrySize is the on-disk/in-mmap footprint of one coordinate pair: two
// int32 decimeter values.
const entrySize = 8

// CoordStore is a fixed-size, dense-index-addressed table of (x, y)
// decimeter coordinates. It is adapted from the reference importer's
// internal/nodeindex.MmapIndex, which mapped a file by raw OSM node id and
// drove the mapping itself through syscall.Mmap directly, leaving the
// edsrzf/mmap-go dependency in its go.mod unused. This version is indexed
// by dense highway-node index (0..H), not by raw node id, matching
// spec.md §3's "Node coordinate record... Indexed by highway dense id",
// and drives the mapping through that library instead of raw syscalls.
type CoordStore struct {
	file   *os.File
	region mmap.MMap
	count  int
}

// NewCoordStore creates an mmap-backed coordinate store sized for exactly
// count dense indices, backed by a temp file at path. Every entry starts
// zeroed, matching spec.md §3's "zero-initialized... at the origin"
// invariant.
func NewCoordStore(path string, count int) (*CoordStore, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("densemap: create coord store: %w", err)
	}
	size := int64(count) * entrySize
	if size == 0 {
		size = entrySize
	}
	if err := f.Truncate(size); err != nil {
		f.Close()
		return nil, fmt.Errorf("densemap: size coord store: %w", err)
	}
	region, err := mmap.Map(f, mmap.RDWR, 0)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("densemap: mmap coord store: %w", err)
	}
	return &CoordStore{file: f, region: region, count: count}, nil
}

// Put stores (x, y) decimeters at dense index idx.
func (c *CoordStore) Put(idx uint32, x, y int32) {
	off := int(idx) * entrySize
	binary.LittleEndian.PutUint32(c.region[off:], uint32(x))
	binary.LittleEndian.PutUint32(c.region[off+4:], uint32(y))
}

// Get returns the (x, y) decimeters stored at dense index idx.
func (c *CoordStore) Get(idx uint32) (x, y int32) {
	off := int(idx) * entrySize
	x = int32(binary.LittleEndian.Uint32(c.region[off:]))
	y = int32(binary.LittleEndian.Uint32(c.region[off+4:]))
	return
}

// Len returns the number of dense indices the store was sized for.
func (c *CoordStore) Len() int {
	return c.count
}

// Close unmaps the region, closes, and removes the backing file — the
// store exists only for the lifetime of a single build.
func (c *CoordStore) Close() error {
	if err := c.region.Unmap(); err != nil {
		c.file.Close()
		return fmt.Errorf("densemap: unmap coord store: %w", err)
	}
	path := c.file.Name()
	if err := c.file.Close(); err != nil {
		return err
	}
	return os.Remove(path)
}
