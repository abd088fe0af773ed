package cmd

import (
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/spf13/cobra"
	"github.com/openroad/roadgraph/internal/config"
	"github.com/openroad/roadgraph/internal/logger"
)

var (
	cfg             = config.DefaultConfig()
	verbose         bool
	logFile         string
	metricsInterval time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "roadgraph",
	Short: "Builds a compact routable road graph from an OSM PBF file",
	Long: `roadgraph reads an OpenStreetMap PBF extract and produces a compact,
in-memory routable road graph: a dense vertex array of intersections and
dead-ends, and a packed adjacency array of directed edges.

The build runs four sequential passes over the input, each a single
forward scan: counting nodes, classifying highway and intersection nodes,
materializing coordinates and tallying edge counts, and finally emitting
edges into their pre-sized slots.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg.Verbose = verbose
		cfg.LogFile = logFile
		cfg.MetricsInterval = metricsInterval

		if logFile != "" {
			logger.InitWithFile(verbose, logFile)
		} else {
			logger.Init(verbose)
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().IntVarP(&cfg.DecodeWorkers, "decode-workers", "j", cfg.DecodeWorkers, "PBF decode worker goroutines")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Path to log file for persistent logging (JSON format)")
	rootCmd.PersistentFlags().DurationVar(&metricsInterval, "metrics-interval", 30*time.Second, "Interval for system metrics logging (e.g., 10s, 1m)")
}

func exitWithError(msg string, err error) {
	log := logger.Get()
	if err != nil {
		log.Error(msg, zap.Error(err))
	} else {
		log.Error(msg)
	}
	os.Exit(1)
}
