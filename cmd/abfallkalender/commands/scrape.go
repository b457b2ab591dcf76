package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/CodeforKarlsruhe/abfallkalender-scraper/lib/configutil"
	"github.com/CodeforKarlsruhe/abfallkalender-scraper/lib/scrapers/akal"
	"github.com/CodeforKarlsruhe/abfallkalender-scraper/lib/serviceutil"
	"github.com/CodeforKarlsruhe/abfallkalender-scraper/lib/sqliteutil"
	"github.com/CodeforKarlsruhe/abfallkalender-scraper/lib/streetname"
	"github.com/CodeforKarlsruhe/abfallkalender-scraper/lib/telemetry"
	"github.com/CodeforKarlsruhe/abfallkalender-scraper/services/abfall"
	"github.com/CodeforKarlsruhe/abfallkalender-scraper/services/abfall/db"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

type Config struct {
	BaseUrl     string `json:"base_url"`
	City        string `json:"city"`
	ServicesCsv string `json:"services_csv"`
	DatesCsv    string `json:"dates_csv"`
	Database    string `json:"database"`
	Concurrency int    `json:"concurrency"`
}

func readConfig(path string) Config {
	cfg, err := configutil.ReadConfig[Config](path)
	if err != nil && !os.IsNotExist(err) {
		serviceutil.Fatal("failed to read config", err)
	}

	if cfg.City == "" {
		cfg.City = "Karlsruhe"
	}
	if cfg.ServicesCsv == "" {
		cfg.ServicesCsv = "services.csv"
	}
	if cfg.DatesCsv == "" {
		cfg.DatesCsv = "dates.csv"
	}
	if cfg.Concurrency == 0 {
		cfg.Concurrency = 4
	}
	return cfg
}

var scrapeConfig *string

func init() {
	scrapeConfig = scrapeCmd.Flags().String("config", "config.json5", "Path to the scraper config.")
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--config <path/to/config.json5>]",
	Short: "Runs one full extraction pass and writes services.csv and dates.csv.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		cfg := readConfig(*scrapeConfig)

		telemetry.InstrumentPerfStats(ctx)

		source := akal.NewSource(akal.NewClient(cfg.BaseUrl), akal.DefaultServices())

		t1 := time.Now()
		if cfg.Concurrency > 1 {
			if err := source.WarmCache(ctx, cfg.Concurrency); err != nil {
				serviceutil.Fatal("prefetch interrupted", err)
			}
		}

		res, err := abfall.Assembler{City: cfg.City}.Run(ctx, source)
		if err != nil {
			serviceutil.Fatal("scrape failed", err)
		}
		elapsed := time.Since(t1)

		writeCsv(cfg.ServicesCsv, res.Services, abfall.WriteServicesCSV)
		writeCsv(cfg.DatesCsv, res.Entries, abfall.WriteDatesCSV)

		if cfg.Database != "" {
			saveSnapshot(ctx, cfg.Database, res)
		}

		warnNearDuplicates(ctx, res.Entries)
		printSummary(res, elapsed)
	},
}

func writeCsv[T any](path string, rows []T, write func(w io.Writer, rows []T) error) {
	f, err := os.Create(path)
	if err != nil {
		serviceutil.Fatal("failed to create output file", err)
	}
	defer f.Close()

	if err := write(f, rows); err != nil {
		serviceutil.Fatal("failed to write output file", err)
	}
	slog.Info("wrote output", "path", path, "rows", len(rows))
}

func saveSnapshot(ctx context.Context, path string, res abfall.Result) {
	conn, err := sqliteutil.OpenDB(db.Schema, path)
	if err != nil {
		serviceutil.Fatal("failed to open database", err)
	}
	defer conn.Close()

	if err := abfall.SaveResult(ctx, conn, res); err != nil {
		serviceutil.Fatal("failed to save database snapshot", err)
	}
	slog.Info("saved database snapshot", "path", path)
}

// warnNearDuplicates flags normalized street names that are suspiciously
// similar to each other; usually a sign that the normalizer misses an
// abbreviation the site started using.
func warnNearDuplicates(ctx context.Context, entries []abfall.ScheduleEntry) {
	seen := map[string]bool{}
	var streets []string
	for _, e := range entries {
		if !seen[e.Street] {
			seen[e.Street] = true
			streets = append(streets, e.Street)
		}
	}

	for _, pair := range streetname.NearDuplicates(streets) {
		slog.WarnContext(ctx, "possibly split street", "a", pair[0], "b", pair[1])
	}
}

func printSummary(res abfall.Result, elapsed time.Duration) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"", "count"})
	t.AppendRows([]table.Row{
		{"services", len(res.Services)},
		{"entries", len(res.Entries)},
		{"units visited", res.Stats.Units},
		{"units skipped", res.Stats.SkippedUnits},
		{"rows skipped", res.Stats.SkippedRows},
		{"elapsed", elapsed.Round(time.Second)},
	})
	t.SetStyle(table.StyleRounded)
	t.Render()
}
