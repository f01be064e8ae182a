package cli

import (
	"fmt"

	"github.com/pfrederiksen/dlt-draws/internal/draw"
	"github.com/pfrederiksen/dlt-draws/internal/logger"
	"github.com/pfrederiksen/dlt-draws/internal/storage"
	"github.com/spf13/cobra"
)

var (
	flagShowDataDir string
	flagShowSort    string
	flagShowLimit   int
	flagShowFormat  string
	flagShowPeriod  string
)

func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the draws saved by the last fetch",
		Args:  cobra.NoArgs,
		RunE:  runShow,
	}

	f := cmd.Flags()
	f.StringVar(&flagShowDataDir, "data-dir", "", "Data directory for snapshots (default from config)")
	f.StringVar(&flagShowSort, "sort", string(SortByPeriod), "Sort order: period, date or sales")
	f.IntVar(&flagShowLimit, "limit", 0, "Show at most this many draws; 0 shows all")
	f.StringVar(&flagShowFormat, "format", "text", "Output format: text, json or csv")
	f.StringVar(&flagShowPeriod, "period", "", "Show only the draw with this period number")

	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	format, err := ParseFormat(flagShowFormat, FormatText, FormatJSON, FormatCSV)
	if err != nil {
		return err
	}
	order, err := ParseSortOrder(flagShowSort)
	if err != nil {
		return err
	}

	dataDir := flagShowDataDir
	if dataDir == "" {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		dataDir = cfg.DataDir
	}

	store, err := storage.New(dataDir)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	logger.Debug("Reading snapshot", logger.Fields{"data_dir": store.DataDir(), "period": flagShowPeriod})

	if flagShowPeriod != "" {
		d, err := store.GetDrawByPeriod(flagShowPeriod)
		if err != nil {
			return err
		}
		return WriteDraws(cmd.OutOrStdout(), []*draw.Draw{d}, format)
	}

	snap, err := store.LoadSnapshot()
	if err != nil {
		return fmt.Errorf("loading snapshot: %w", err)
	}

	draws := snap.Sorted()
	sortDraws(draws, order)
	if flagShowLimit > 0 && flagShowLimit < len(draws) {
		draws = draws[:flagShowLimit]
	}

	return WriteDraws(cmd.OutOrStdout(), draws, format)
}
