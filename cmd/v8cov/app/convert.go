package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/zjy-dev/v8cov/internal/config"
	"github.com/zjy-dev/v8cov/internal/cover"
	"github.com/zjy-dev/v8cov/internal/istanbul"
	"github.com/zjy-dev/v8cov/internal/js"
	"github.com/zjy-dev/v8cov/internal/logger"
	"github.com/zjy-dev/v8cov/internal/v8"
)

// NewConvertCommand creates the "convert" subcommand.
func NewConvertCommand() *cobra.Command {
	var (
		coverageDir   string
		output        string
		sourceType    string
		sourceRoot    string
		wrapperPrefix int
		wrapperSuffix int
	)

	cmd := &cobra.Command{
		Use:   "convert [coverage files...]",
		Short: "Convert V8 coverage snapshot files into an Istanbul report.",
		Long: `This command reads one or more V8 coverage snapshot files (or a whole
NODE_V8_COVERAGE directory), groups the snapshots by script URL, matches
each script's offset ranges onto a fresh parse of its source text, and
writes the accumulated counts as an Istanbul coverage-final.json map.

Snapshots for the same script are merged: repeated runs add up, and a
run that never invoked a function leaves that function's counts alone.
Scripts without on-disk sources (node: internals, eval'd code) are
skipped.

Examples:
  # Convert every snapshot in a NODE_V8_COVERAGE directory
  v8cov convert --dir .v8-coverage -o coverage-final.json

  # Convert explicit snapshot files of ES modules
  v8cov convert --source-type module run1.json run2.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			applyConvertConfig(cmd, cfg, &sourceType, &output, &wrapperPrefix, &wrapperSuffix)

			if len(args) == 0 && coverageDir == "" {
				return fmt.Errorf("no coverage input: pass snapshot files or --dir")
			}

			var scripts []v8.ScriptCov
			if coverageDir != "" {
				loaded, err := v8.LoadDir(coverageDir)
				if err != nil {
					return err
				}
				scripts = append(scripts, loaded...)
			}
			for _, path := range args {
				loaded, err := v8.LoadFile(path)
				if err != nil {
					return err
				}
				scripts = append(scripts, loaded...)
			}
			logger.Info("[Convert] Loaded %d script snapshots", len(scripts))

			// Group snapshots by URL, keeping first-appearance order.
			var urls []string
			byURL := make(map[string][]v8.ScriptCov)
			for _, sc := range scripts {
				if !v8.IsFileScript(sc.URL) {
					logger.Debug("[Convert] Skipping non-file script %q", sc.URL)
					continue
				}
				if _, ok := byURL[sc.URL]; !ok {
					urls = append(urls, sc.URL)
				}
				byURL[sc.URL] = append(byURL[sc.URL], sc)
			}

			// Accumulators are independent per script, so scripts
			// convert in parallel.
			var (
				mu sync.Mutex
				cm = make(istanbul.CoverageMap)
			)
			g, ctx := errgroup.WithContext(cmd.Context())
			for _, url := range urls {
				url := url
				snapshots := byURL[url]
				g.Go(func() error {
					fc, err := convertScript(ctx, url, snapshots, convertOptions{
						sourceType:    js.SourceType(sourceType),
						sourceRoot:    sourceRoot,
						wrapperPrefix: wrapperPrefix,
						wrapperSuffix: wrapperSuffix,
					})
					if err != nil {
						return fmt.Errorf("failed to convert %s: %w", url, err)
					}
					mu.Lock()
					cm[fc.Path] = fc
					mu.Unlock()
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			if err := cm.WriteFile(output); err != nil {
				return err
			}
			logger.Info("[Convert] Wrote report for %d files to %s", len(cm), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&coverageDir, "dir", "d", "", "Directory of V8 coverage snapshot files")
	cmd.Flags().StringVarP(&output, "output", "o", "coverage-final.json", "Output report file")
	cmd.Flags().StringVar(&sourceType, "source-type", "script", "How sources were evaluated: script or module")
	cmd.Flags().StringVar(&sourceRoot, "source-root", "", "Directory to resolve relative script URLs against")
	cmd.Flags().IntVar(&wrapperPrefix, "wrapper-prefix", 0, "Byte length of an engine module wrapper prefix to strip")
	cmd.Flags().IntVar(&wrapperSuffix, "wrapper-suffix", 0, "Byte length of an engine module wrapper suffix to strip")

	return cmd
}

// applyConvertConfig backfills flag values from the config file for
// flags the user did not set explicitly.
func applyConvertConfig(cmd *cobra.Command, cfg *config.Config, sourceType, output *string, wrapperPrefix, wrapperSuffix *int) {
	if !cmd.Flags().Changed("source-type") && cfg.SourceType != "" {
		*sourceType = cfg.SourceType
	}
	if !cmd.Flags().Changed("output") && cfg.Output != "" {
		*output = cfg.Output
	}
	if !cmd.Flags().Changed("wrapper-prefix") {
		*wrapperPrefix = cfg.WrapperPrefix
	}
	if !cmd.Flags().Changed("wrapper-suffix") {
		*wrapperSuffix = cfg.WrapperSuffix
	}
}

type convertOptions struct {
	sourceType    js.SourceType
	sourceRoot    string
	wrapperPrefix int
	wrapperSuffix int
}

// convertScript builds one accumulator for a script and folds every
// snapshot of it into the per-file report.
func convertScript(ctx context.Context, url string, snapshots []v8.ScriptCov, opts convertOptions) (*istanbul.FileCoverage, error) {
	path, err := v8.URLToPath(url)
	if err != nil {
		return nil, err
	}
	if opts.sourceRoot != "" && !filepath.IsAbs(path) {
		path = filepath.Join(opts.sourceRoot, path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read source: %w", err)
	}
	source := string(raw)

	// Strip the engine's module wrapper before anything reaches the
	// matching core: the text is unwrapped once, then every snapshot's
	// offsets are rebased onto it.
	if opts.wrapperPrefix > 0 || opts.wrapperSuffix > 0 {
		source = v8.UnwrapSource(source, opts.wrapperPrefix, opts.wrapperSuffix)
		wrapped := snapshots
		snapshots = make([]v8.ScriptCov, len(wrapped))
		for i, snap := range wrapped {
			_, snapshots[i] = v8.Unwrap(string(raw), snap, opts.wrapperPrefix, opts.wrapperSuffix)
		}
	}

	sc, err := cover.New(ctx, []byte(source), opts.sourceType)
	if err != nil {
		return nil, err
	}
	for _, snap := range snapshots {
		if err := sc.Add(snap); err != nil {
			return nil, err
		}
	}

	// Reports are keyed by filesystem path, not by the raw script URL.
	fc := sc.ToIstanbul()
	fc.Path = path
	return fc, nil
}
