package app

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zjy-dev/v8cov/internal/logger"
	"github.com/zjy-dev/v8cov/internal/v8"
)

// NewMergeCommand creates the "merge" subcommand.
func NewMergeCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "merge <coverage files...>",
		Short: "Merge several V8 coverage snapshot files into one.",
		Long: `This command folds several V8 snapshot files into a single synthetic
snapshot file: scripts are grouped by URL and, within a script, the hit
counts of identical function ranges are summed. Converting the merged
file yields the same report as converting the inputs together.

Example:
  v8cov merge run1.json run2.json -o merged.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			covs := make([][]v8.ScriptCov, 0, len(args))
			for _, path := range args {
				scripts, err := v8.LoadFile(path)
				if err != nil {
					return err
				}
				covs = append(covs, scripts)
			}

			merged := v8.MergeProcessCov(covs...)
			data, err := json.MarshalIndent(v8.ProcessCov{Result: merged}, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal merged coverage: %w", err)
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return fmt.Errorf("failed to write merged coverage: %w", err)
			}

			logger.Info("[Merge] Merged %d files (%d scripts) into %s", len(args), len(merged), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "merged.json", "Output snapshot file")

	return cmd
}
