package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/city-weather-charts/internal/pipeline"
)

func newForecastCommand(deps Dependencies) *cobra.Command {
	return newBatchCommand(deps, cmdSpec{
		use:   "forecast",
		short: "Chart the 5-day temperature forecast for one or more cities.",
		mode:  pipeline.ModeForecast,
	})
}

func newCurrentCommand(deps Dependencies) *cobra.Command {
	return newBatchCommand(deps, cmdSpec{
		use:   "current",
		short: "Chart current, minimum, and maximum temperatures per city.",
		mode:  pipeline.ModeCurrent,
	})
}

type cmdSpec struct {
	use   string
	short string
	mode  pipeline.Mode
}

func newBatchCommand(deps Dependencies, spec cmdSpec) *cobra.Command {
	var (
		cities string
		outDir string
	)

	cmd := &cobra.Command{
		Use:   spec.use,
		Short: spec.short,
		RunE: func(cmd *cobra.Command, _ []string) error {
			runner := deps.NewRunner(outDir)
			if cities != "" {
				result, err := runner.Run(cmd.Context(), cities, spec.mode)
				if err != nil {
					return err
				}
				printSummary(cmd, result, spec.mode)
				return nil
			}
			return promptLoop(cmd, runner, spec.mode)
		},
	}

	cmd.Flags().StringVar(&cities, "cities", "",
		`city list like "London,GB;Abuja"; omit for an interactive prompt`)
	cmd.Flags().StringVar(&outDir, "out", "",
		"directory for the JSON and PNG artifacts (default: working directory)")

	return cmd
}

func printSummary(cmd *cobra.Command, result pipeline.Result, mode pipeline.Mode) {
	records := len(result.Forecasts)
	if mode == pipeline.ModeCurrent {
		records = len(result.Snapshots)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Resolved %d of %d cities, charted %d weather record(s).\n",
		len(result.Locations), len(result.Queries), records)
}
