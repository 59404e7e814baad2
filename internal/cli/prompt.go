package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/city-weather-charts/internal/domain"
	"github.com/couchcryptid/city-weather-charts/internal/pipeline"
)

const (
	promptText = "Please enter city and optional country code (separated by comma), " +
		"e.g. (London,GB) or (Abuja).\n" +
		"Separate different city/country pairs by semicolon ';', " +
		"e.g. (London,GB;Abuja).\n" +
		"Enter 'quit' to exit: "

	quitToken = "quit"
)

// promptLoop reads batches from stdin until quit or EOF. Empty input
// re-prompts with a hint; per-batch results print a one-line summary.
func promptLoop(cmd *cobra.Command, runner BatchRunner, mode pipeline.Mode) error {
	out := cmd.OutOrStdout()
	scanner := bufio.NewScanner(cmd.InOrStdin())

	for {
		fmt.Fprint(out, promptText)

		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		if line == quitToken {
			fmt.Fprintln(out, "Exiting session...")
			return nil
		}

		result, err := runner.Run(cmd.Context(), line, mode)
		if errors.Is(err, domain.ErrEmptyInput) {
			fmt.Fprintln(out, "Please enter a valid city and/or country code.")
			continue
		}
		if err != nil {
			return err
		}
		printSummary(cmd, result, mode)
	}
}
