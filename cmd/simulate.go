package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/relocate-cli/internal/export"
	"github.com/sells-group/relocate-cli/internal/model"
	"github.com/sells-group/relocate-cli/internal/pipeline"
	"github.com/sells-group/relocate-cli/internal/scorer"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Rank every municipality for one household",
	Long: `Rank every municipality in the reference table for the household
described in a YAML or JSON file.

Examples:
  # Top 5 as a table
  relocate simulate --household family.yaml --limit 5

  # English text, heavier weight on nature, saved to the run store
  relocate simulate --household family.yaml --locale en --priorities nature=5,culture=1 --save

  # Spreadsheet of the full ranking
  relocate simulate --household family.yaml --format xlsx --output ranking.xlsx`,
	RunE: runSimulate,
}

func init() {
	f := simulateCmd.Flags()
	f.String("household", "", "household profile (.yaml, .yml or .json)")
	f.String("format", "table", "output format: table, csv, json, xlsx or geojson")
	f.String("output", "", "output file path (default: stdout)")
	f.Int("limit", 0, "show only the top N locations (0 = all)")
	f.String("locale", "", "text locale: sv or en (default from config)")
	f.String("priorities", "", "override priority weights, e.g. space=5,cost=2")
	f.Bool("save", false, "persist the run to the configured store")
	_ = simulateCmd.MarkFlagRequired("household")

	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cfg.Validate("simulate"); err != nil {
		return err
	}

	path, _ := cmd.Flags().GetString("household")
	formatName, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")
	limit, _ := cmd.Flags().GetInt("limit")
	locale, _ := cmd.Flags().GetString("locale")
	overrides, _ := cmd.Flags().GetString("priorities")
	save, _ := cmd.Flags().GetBool("save")

	format, err := export.ParseFormat(formatName)
	if err != nil {
		return err
	}
	if format.Binary() && output == "" {
		return eris.Errorf("simulate: --output is required for %s", format)
	}

	h, err := loadHousehold(path, overrides)
	if err != nil {
		return err
	}

	env, err := initEnv(ctx, envOptions{locale: locale, withStore: save})
	if err != nil {
		return err
	}
	defer env.Close()

	res, err := env.Pipeline.Run(ctx, pipeline.Request{Household: *h, Save: save, Limit: limit})
	if err != nil {
		return eris.Wrap(err, "simulate")
	}

	if err := writeOutput(output, func(w io.Writer) error {
		return export.Write(w, format, res.Top)
	}); err != nil {
		return err
	}

	if res.Saved {
		fmt.Fprintf(os.Stderr, "Saved run %s\n", res.Run.ID)
	}
	zap.L().Info("simulate complete",
		zap.String("household", path),
		zap.String("source", res.Source),
		zap.Int("results", len(res.Top)),
	)
	return nil
}

// loadHousehold reads a household file and applies priority overrides.
func loadHousehold(path, overrides string) (*model.Household, error) {
	h, err := model.LoadHousehold(path)
	if err != nil {
		return nil, err
	}
	h.Priorities, err = scorer.ApplyOverrides(h.Priorities, overrides)
	if err != nil {
		return nil, err
	}
	return h, nil
}

// writeOutput runs write against the named file, or stdout when path is empty.
func writeOutput(path string, write func(io.Writer) error) error {
	if path == "" {
		return write(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "create output %s", path)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return eris.Wrapf(err, "close output %s", path)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s\n", path)
	return nil
}
