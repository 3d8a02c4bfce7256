package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bubbleset/pkg/observability"
)

// Execute builds the root command and runs it with args.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level, including pipeline and cache events
func Execute(ctx context.Context, stderr io.Writer, args []string) error {
	var verbose bool

	c := New(stderr, LogInfo)
	root := c.RootCommand()
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(LogDebug)
			observability.SetPipelineHooks(logHooks{c.Logger})
			observability.SetCacheHooks(logHooks{c.Logger})
		}
		return nil
	}

	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}
