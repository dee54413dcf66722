package main

import (
	"io"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/relocate-cli/internal/export"
	"github.com/sells-group/relocate-cli/internal/model"
	"github.com/sells-group/relocate-cli/internal/pipeline"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export rankings for use in other tools",
}

var exportMapCmd = &cobra.Command{
	Use:   "map",
	Short: "Write the top locations as a GeoJSON map layer",
	Long: `Write the top-ranked locations as a GeoJSON FeatureCollection of points
with rank, score and summary properties. Rank either a household file or a
saved run.

Examples:
  relocate export map --household family.yaml --top 5 --output top5.geojson
  relocate export map --run 2f1c9a8e-... --output run.geojson`,
	RunE: runExportMap,
}

func init() {
	f := exportMapCmd.Flags()
	f.String("household", "", "household profile to simulate")
	f.String("run", "", "saved run ID to export instead of simulating")
	f.Int("top", 10, "number of top locations to include (0 = all)")
	f.String("output", "", "output file path (default: stdout)")
	f.String("locale", "", "text locale: sv or en (default from config)")
	exportMapCmd.MarkFlagsMutuallyExclusive("household", "run")
	exportMapCmd.MarkFlagsOneRequired("household", "run")

	exportCmd.AddCommand(exportMapCmd)
	rootCmd.AddCommand(exportCmd)
}

func runExportMap(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	path, _ := cmd.Flags().GetString("household")
	runID, _ := cmd.Flags().GetString("run")
	top, _ := cmd.Flags().GetInt("top")
	output, _ := cmd.Flags().GetString("output")
	locale, _ := cmd.Flags().GetString("locale")

	if top < 0 {
		return eris.New("export map: --top must be >= 0")
	}

	var results []model.SimulationResult
	if runID != "" {
		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		run, err := st.GetRun(ctx, runID)
		if err != nil {
			return eris.Wrap(err, "export map")
		}
		results = run.Results
	} else {
		if err := cfg.Validate("simulate"); err != nil {
			return err
		}
		h, err := loadHousehold(path, "")
		if err != nil {
			return err
		}
		env, err := initEnv(ctx, envOptions{locale: locale})
		if err != nil {
			return err
		}
		defer env.Close()

		res, err := env.Pipeline.Run(ctx, pipeline.Request{Household: *h})
		if err != nil {
			return eris.Wrap(err, "export map")
		}
		results = res.Run.Results
	}

	return writeOutput(output, func(w io.Writer) error {
		return export.GeoJSON(w, pipeline.Truncate(results, top))
	})
}
