package commands

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "daygate",
	Short: "daygate - monetized date context API",
	Long: `daygate serves calendar context over HTTP: public holidays,
historical events and notable births for any date, aggregated from
public providers and priced per call.

Usage:
  go run ./cmd/daygate [command]

Examples:
  go run ./cmd/daygate serve
  go run ./cmd/daygate serve --port 8080
  go run ./cmd/daygate today`,
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}
