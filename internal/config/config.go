// Package config holds the graph builder's command-line-derived settings,
// in the same flat-struct-plus-DefaultConfig style the reference importer
// uses for its own Config.
package config

import (
	"fmt"
	"runtime"
	"time"
)

// Config holds the settings for one Build invocation.
type Config struct {
	// InputFile is the PBF file to read.
	InputFile string

	// PolicyFile, if set, points at a YAML policy config (see
	// internal/policy.LoadConfig). Empty means internal/policy.Default.
	PolicyFile string

	// LuaPolicyFile, if set, selects a scripted policy (see
	// internal/policy.NewLuaPolicy) instead of PolicyFile. Validate
	// rejects a Config with both PolicyFile and LuaPolicyFile set.
	LuaPolicyFile string

	// DecodeWorkers controls the underlying PBF decoder's concurrency
	// (internal/pbf.PBFReader). It does not change the engine's
	// single-threaded handler semantics.
	DecodeWorkers int

	// MmapCoords names the mmap-backed coordinate table
	// (internal/densemap.CoordStore) as an option. The build command does
	// not read it: it selects that table from its --mmap-coords-dir flag
	// through roadgraph.Options.MmapCoordsDir.
	MmapCoords bool

	// MmapDir is a directory for the mmap-backed coordinate file. The
	// build command does not read it either; an empty
	// roadgraph.Options.MmapCoordsDir selects the in-memory table.
	MmapDir string

	// Export settings. The build command does not read these; it takes
	// the export targets from its --export-parquet and --export-postgres
	// flags.
	ExportParquetPath string
	ExportPostgresDSN string

	// Logging and metrics
	LogFile         string        // Path to log file (empty = no file logging)
	Verbose         bool          // Debug-level console logging
	MetricsInterval time.Duration // Interval for system metrics logging
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		DecodeWorkers:   runtime.NumCPU(),
		MetricsInterval: 30 * time.Second,
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.InputFile == "" {
		return fmt.Errorf("input file is required")
	}
	if c.DecodeWorkers < 1 {
		return fmt.Errorf("decode workers must be at least 1")
	}
	if c.PolicyFile != "" && c.LuaPolicyFile != "" {
		return fmt.Errorf("policy-file and lua-policy-file are mutually exclusive")
	}
	return nil
}
