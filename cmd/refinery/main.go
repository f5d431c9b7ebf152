package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"refinery/internal/config"
	"refinery/internal/logging"
)

var (
	// Global flags
	verbose    bool
	configPath string
	debugLogs  bool
	logsDir    string

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "refinery",
	Short: "refinery - staged dialogue refinement pipeline",
	Long: `refinery moves a batch of textual dialogue records through ordered
phases: extraction, role scoring, resonance validation, accelerated
refinement, governance filtering, purification and live micro-refinement,
producing a structured success/failure report with full audit logs.

All scoring is deterministic keyword heuristics; there is no model
inference and no randomness anywhere in the pipeline.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		if debugLogs {
			return logging.Configure(logging.Options{
				Dir:       logsDir,
				DebugMode: true,
				Level:     "debug",
			})
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
}

// versionCmd prints the build version
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the refinery version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(config.Default().Version)
	},
}

func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	return config.Load(configPath)
}

func main() {
	start := time.Now()
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug console logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to YAML config (defaults apply when omitted)")
	rootCmd.PersistentFlags().BoolVar(&debugLogs, "debug-logs", false, "write categorized debug logs to --logs-dir")
	rootCmd.PersistentFlags().StringVar(&logsDir, "logs-dir", "logs", "directory for categorized debug logs")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v (after %v)\n", err, time.Since(start).Round(time.Millisecond))
		os.Exit(1)
	}
}
