package cmd

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spf13/cobra"

	"github.com/openroad/roadgraph/internal/export"
	"github.com/openroad/roadgraph/internal/logger"
	"github.com/openroad/roadgraph/internal/metrics"
	"github.com/openroad/roadgraph/internal/policy"
	"github.com/openroad/roadgraph/internal/roadgraph"
)

var (
	policyFile               string
	luaPolicyFile            string
	intersectionSizeFraction float64
	mmapCoordsDir            string
	exportParquetPrefix      string
	exportPostgresDSN        string
)

var buildCmd = &cobra.Command{
	Use:   "build <input.osm.pbf>",
	Short: "Build a routable road graph from a PBF file",
	Long: `Run the four-pass build over an OSM PBF file and report the resulting
graph's vertex and edge counts. Optionally export the finished graph to
Parquet files and/or a PostgreSQL database.`,
	Args: cobra.ExactArgs(1),
	Run:  runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVar(&policyFile, "policy-file", "", "YAML policy config (see internal/policy.Config)")
	buildCmd.Flags().StringVar(&luaPolicyFile, "lua-policy-file", "", "Lua policy script defining is_routable/edge_length")
	buildCmd.Flags().Float64Var(&intersectionSizeFraction, "intersection-size-fraction", 0.5, "Fraction of node count used to size the intersection dense map")
	buildCmd.Flags().StringVar(&mmapCoordsDir, "mmap-coords-dir", "", "Directory for an mmap-backed coordinate table instead of an in-memory one")
	buildCmd.Flags().StringVar(&exportParquetPrefix, "export-parquet", "", "Write <prefix>.vertices.parquet and <prefix>.edges.parquet")
	buildCmd.Flags().StringVar(&exportPostgresDSN, "export-postgres", "", "COPY the graph into roadgraph_vertices/roadgraph_edges at this DSN")
}

func runBuild(cmd *cobra.Command, args []string) {
	cfg.InputFile = args[0]
	cfg.PolicyFile = policyFile
	cfg.LuaPolicyFile = luaPolicyFile
	log := logger.Get()

	if err := cfg.Validate(); err != nil {
		exitWithError("invalid configuration", err)
	}

	pol, closePolicy, err := resolvePolicy(cfg.PolicyFile, cfg.LuaPolicyFile)
	if err != nil {
		exitWithError("failed to load policy", err)
	}
	if closePolicy != nil {
		defer closePolicy()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	collector := metrics.NewCollector(cfg.MetricsInterval, log)
	go collector.Start(ctx)

	log.Info("starting build",
		zap.String("input", cfg.InputFile),
		zap.Int("decode_workers", cfg.DecodeWorkers),
	)

	start := time.Now()

	g, err := roadgraph.Build(ctx, cfg.InputFile, roadgraph.Options{
		Policy:                   pol,
		IntersectionSizeFraction: intersectionSizeFraction,
		DecodeWorkers:            cfg.DecodeWorkers,
		MmapCoordsDir:            mmapCoordsDir,
		MetricsInterval:          cfg.MetricsInterval,
		Logger:                   log,
	})
	if err != nil {
		exitWithError("build failed", err)
	}

	elapsed := time.Since(start)
	log.Info("build complete",
		zap.Duration("duration", elapsed.Round(time.Second)),
		zap.Int("vertices", g.NumVertices()),
		zap.Int("edges", len(g.Edges)),
	)

	if exportParquetPrefix != "" {
		if err := export.WriteParquet(g, exportParquetPrefix); err != nil {
			exitWithError("parquet export failed", err)
		}
		log.Info("wrote parquet export", zap.String("prefix", exportParquetPrefix))
	}

	if exportPostgresDSN != "" {
		sink, err := export.NewPostgresSink(ctx, exportPostgresDSN)
		if err != nil {
			exitWithError("postgres export failed", err)
		}
		defer sink.Close()
		if err := sink.Load(ctx, g); err != nil {
			exitWithError("postgres export failed", err)
		}
		log.Info("loaded graph into postgres")
	}
}

func resolvePolicy(policyFile, luaFile string) (policy.Policy, func(), error) {
	if luaFile != "" {
		p, err := policy.NewLuaPolicy(luaFile)
		if err != nil {
			return nil, nil, err
		}
		return p, p.Close, nil
	}
	if policyFile != "" {
		cfg, err := policy.LoadConfig(policyFile)
		if err != nil {
			return nil, nil, err
		}
		if cfg.LuaScript != "" {
			p, err := policy.NewLuaPolicy(cfg.LuaScript)
			if err != nil {
				return nil, nil, err
			}
			return p, p.Close, nil
		}
		return policy.FromConfig(cfg), nil, nil
	}
	return policy.Default{}, nil, nil
}
