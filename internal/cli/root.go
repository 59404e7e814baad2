// Package cli wires the cityweather command tree.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/city-weather-charts/internal/pipeline"
)

// BatchRunner runs one batch of raw city input in the given mode.
type BatchRunner interface {
	Run(ctx context.Context, rawInput string, mode pipeline.Mode) (pipeline.Result, error)
}

// Dependencies carries everything the commands need. NewRunner builds a
// batch runner writing its artifacts under outDir; an empty outDir keeps
// the configured default paths.
type Dependencies struct {
	NewRunner func(outDir string) BatchRunner
	Version   string
}

// Execute parses args, runs the selected command, and returns the process
// exit code.
func Execute(ctx context.Context, args []string, deps Dependencies, stdout, stderr io.Writer) int {
	root := NewRootCommand(deps)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	return 0
}

// NewRootCommand builds the complete command tree.
func NewRootCommand(deps Dependencies) *cobra.Command {
	root := &cobra.Command{
		Use:           "cityweather",
		Short:         "Chart temperature forecasts and current weather for cities.",
		Version:       resolvedVersion(deps.Version),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	root.AddCommand(newForecastCommand(deps))
	root.AddCommand(newCurrentCommand(deps))

	return root
}

func resolvedVersion(version string) string {
	if version == "" {
		return "dev"
	}
	return version
}
