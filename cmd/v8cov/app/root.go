package app

import (
	"github.com/spf13/cobra"

	"github.com/zjy-dev/v8cov/internal/logger"
)

// NewV8covCommand creates the root command for the v8cov tool.
func NewV8covCommand() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   "v8cov",
		Short: "Convert V8 profiler coverage into Istanbul coverage reports.",
		Long: `v8cov converts the offset-range coverage snapshots written by the V8
profiler (NODE_V8_COVERAGE, Profiler.takePreciseCoverage) into the
source-location-keyed Istanbul report format consumed by standard
coverage tooling.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init(logLevel)
			logger.SetLevel(logLevel)
		},
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(NewConvertCommand())
	cmd.AddCommand(NewMergeCommand())
	cmd.AddCommand(NewSummaryCommand())

	return cmd
}
