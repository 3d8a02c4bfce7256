package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bubbleset/pkg/document"
	"github.com/matzehuels/bubbleset/pkg/pipeline"
)

// layoutCommand creates the layout command for computing layouts from records.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output   string
		previous string
		frames   int
		noCache  bool
		refresh  bool
		lf       layoutFlags
		rf       renderFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [records.json|records.yaml]",
		Short: "Compute a layout from set-tagged records",
		Long: `Compute a layout from set-tagged records.

The layout command aggregates records by their exact set membership, solves one
circle per set and places every record inside its region. The result is written
as <input>.layout.json (-f json, the default) and can be rendered with 'render'.

Pass --previous with an earlier layout and --frames N to store N+1 outline
frames per region, morphing from the previous circles to the new ones.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts := rf.merge(cmd, lf.merge(cmd, base))
			if cmd.Flags().Changed("frames") {
				opts.Frames = frames
			}
			opts.Refresh = refresh
			return c.runLayout(cmd.Context(), args[0], opts, output, previous, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even when cached")
	cmd.Flags().StringVar(&previous, "previous", "", "earlier layout.json whose circles start the outline frames")
	cmd.Flags().IntVar(&frames, "frames", 0, "number of outline frames to sample per region")
	lf.register(cmd)
	rf.register(cmd, pipeline.FormatJSON)

	return cmd
}

// runLayout loads the records, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output, previous string, noCache bool) error {
	records, err := document.ImportRecords(input)
	if err != nil {
		return fmt.Errorf("load records: %w", err)
	}
	if previous != "" {
		prev, err := document.ReadLayoutFile(previous)
		if err != nil {
			return fmt.Errorf("load previous layout: %w", err)
		}
		opts.Previous = &prev
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Computing %s layout...", opts.Strategy))
	spinner.Start()

	result, err := runner.Execute(ctx, records, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if len(result.Ignored) > 0 {
		printWarning("Ignored %s options: %s", opts.Strategy, strings.Join(result.Ignored, ", "))
	}

	paths, err := writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
	})
	if err != nil {
		return err
	}

	printSuccess("Layout complete")
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats.RegionCount, result.Stats.RecordCount, result.Layout.Fallbacks, result.CacheInfo.LayoutHit)
	if jsonPath, ok := pathFor(paths, pipeline.FormatJSON); ok {
		printNewline()
		printNextStep("Render", appName+" render "+jsonPath)
	}
	return nil
}
