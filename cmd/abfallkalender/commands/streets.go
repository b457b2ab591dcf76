package commands

import (
	"os"

	"github.com/CodeforKarlsruhe/abfallkalender-scraper/lib/scrapers/akal"
	"github.com/CodeforKarlsruhe/abfallkalender-scraper/lib/serviceutil"
	"github.com/CodeforKarlsruhe/abfallkalender-scraper/lib/streetname"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var streetsBaseUrl *string

func init() {
	streetsBaseUrl = streetsCmd.Flags().String("base-url", akal.DefaultBaseUrl, "The akal.php endpoint to query.")
	rootCmd.AddCommand(streetsCmd)
}

var streetsCmd = &cobra.Command{
	Use:   "streets",
	Short: "Lists the street options the site currently serves, with their normalized names.",
	Run: func(cmd *cobra.Command, args []string) {
		client := akal.NewClient(*streetsBaseUrl)

		streets, err := client.Streets(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to list streets", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"option", "street", "range"})
		for _, option := range streets {
			name, rangeText := akal.SplitStreet(option)
			t.AppendRow(table.Row{option, streetname.Normalize(name), rangeText})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
