package app

import (
	"fmt"
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/zjy-dev/v8cov/internal/istanbul"
)

// NewSummaryCommand creates the "summary" subcommand.
func NewSummaryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary <report file>",
		Short: "Print a per-file coverage table for an Istanbul report.",
		Long: `This command reads an Istanbul coverage map (as written by "v8cov
convert") and prints statement and function coverage per file.

Example:
  v8cov summary coverage-final.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cm, err := istanbul.LoadFile(args[0])
			if err != nil {
				return err
			}

			paths := make([]string, 0, len(cm))
			for path := range cm {
				paths = append(paths, path)
			}
			sort.Strings(paths)

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"File", "Stmts", "Stmt %", "Funcs", "Func %"})
			table.SetBorder(false)
			table.SetCenterSeparator("")
			table.SetColumnAlignment([]int{
				tablewriter.ALIGN_LEFT,
				tablewriter.ALIGN_RIGHT,
				tablewriter.ALIGN_RIGHT,
				tablewriter.ALIGN_RIGHT,
				tablewriter.ALIGN_RIGHT,
			})

			var totals []istanbul.FileTotals
			for _, path := range paths {
				t := istanbul.Totals(cm[path])
				totals = append(totals, t)
				table.Append([]string{
					path,
					fmt.Sprintf("%d/%d", t.CoveredStatements, t.Statements),
					fmt.Sprintf("%.2f", t.StatementPct()),
					fmt.Sprintf("%d/%d", t.CoveredFunctions, t.Functions),
					fmt.Sprintf("%.2f", t.FunctionPct()),
				})
			}

			grand := istanbul.Sum(totals...)
			table.SetFooter([]string{
				fmt.Sprintf("Total files %d", len(paths)),
				fmt.Sprintf("%d/%d", grand.CoveredStatements, grand.Statements),
				fmt.Sprintf("%.2f", grand.StatementPct()),
				fmt.Sprintf("%d/%d", grand.CoveredFunctions, grand.Functions),
				fmt.Sprintf("%.2f", grand.FunctionPct()),
			})
			table.Render()

			return nil
		},
	}

	return cmd
}
