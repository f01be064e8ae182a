package cli

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/pfrederiksen/dlt-draws/internal/analysis"
	"github.com/pfrederiksen/dlt-draws/internal/archive"
	"github.com/pfrederiksen/dlt-draws/internal/draw"
	"github.com/pfrederiksen/dlt-draws/internal/storage"
	"github.com/spf13/cobra"
)

var (
	flagStatsInput   string
	flagStatsArchive string
	flagStatsCutoff  string
	flagStatsSeed    uint64
	flagStatsFormat  string
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize collected draws",
		Long: `Print number frequencies, average sales per draw day, a linear sales
forecast for the next draw and a pick drawn from the most frequent numbers.`,
		Args: cobra.NoArgs,
		RunE: runStats,
	}

	f := cmd.Flags()
	f.StringVar(&flagStatsInput, "input", DefaultCSVPath, "CSV file written by fetch")
	f.StringVar(&flagStatsArchive, "archive", "", "Read draws from this SQLite archive instead of --input")
	f.StringVar(&flagStatsCutoff, "cutoff", "", "Only forecast from draws before this date (YYYY-MM-DD)")
	f.Uint64Var(&flagStatsSeed, "seed", 0, "Seed for the number pick; 0 picks a random seed")
	f.StringVar(&flagStatsFormat, "format", "text", "Output format: text or json")

	return cmd
}

func runStats(cmd *cobra.Command, args []string) error {
	format, err := ParseFormat(flagStatsFormat, FormatText, FormatJSON)
	if err != nil {
		return err
	}

	var cutoff time.Time
	if flagStatsCutoff != "" {
		cutoff = draw.ParseDate(flagStatsCutoff)
		if cutoff.IsZero() {
			return fmt.Errorf("invalid --cutoff date: %s", flagStatsCutoff)
		}
	}

	draws, err := loadStatsDraws(cmd.Context())
	if err != nil {
		return err
	}
	if len(draws) == 0 {
		return errors.New("no draws to analyze")
	}

	seed := flagStatsSeed
	if seed == 0 {
		seed = rand.Uint64()
	}

	out := buildStats(draws, cutoff, rand.New(rand.NewPCG(seed, seed)))
	return WriteStatsOutput(cmd.OutOrStdout(), out, format)
}

func loadStatsDraws(ctx context.Context) ([]*draw.Draw, error) {
	if flagStatsArchive == "" {
		draws, err := storage.ReadCSVFile(flagStatsInput)
		if err != nil {
			return nil, fmt.Errorf("reading draws: %w", err)
		}
		return draws, nil
	}

	path, err := storage.ExpandHome(flagStatsArchive)
	if err != nil {
		return nil, err
	}
	db, err := archive.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	defer db.Close()
	return db.List(ctx, 0)
}

func buildStats(draws []*draw.Draw, cutoff time.Time, rng *rand.Rand) *StatsOutput {
	freq := analysis.NumberFrequency(draws)
	out := &StatsOutput{
		Draws:     len(draws),
		Overview:  analysis.Summarize(draws),
		Frequency: freq,
		Weekdays:  analysis.SalesByWeekday(draws),
		ByWeekday: analysis.FrequencyByWeekday(draws),
	}

	forecast, err := analysis.ForecastSales(draws, cutoff)
	if err != nil {
		out.ForecastError = err.Error()
	} else {
		out.Forecast = forecast
	}

	out.Pick.Front, out.Pick.Back = analysis.Recommend(freq, rng)
	return out
}
