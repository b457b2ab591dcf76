package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/CodeforKarlsruhe/abfallkalender-scraper/lib/serviceutil"
	"github.com/CodeforKarlsruhe/abfallkalender-scraper/lib/telemetry"
	"github.com/spf13/cobra"
)

var verbose *bool

var rootCmd = &cobra.Command{
	Use:   "abfallkalender",
	Short: "abfallkalender scrapes the Karlsruhe garbage collection schedule into CSV tables.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(*verbose)
		if err := telemetry.SetupFromEnv(cmd.Context(), "abfallkalender-scraper"); err != nil {
			serviceutil.Fatal("setup telemetry", err)
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		telemetry.Shutdown(context.Background())
	},
}

func init() {
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
