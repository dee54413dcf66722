package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/relocate-cli/internal/pipeline"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Simulate every household file in a directory",
	Long: `Simulate every .yaml, .yml and .json household file in a directory,
running up to --concurrency households at a time. A household that fails
validation is reported and does not stop the others.`,
	RunE: runBatch,
}

func init() {
	f := batchCmd.Flags()
	f.String("dir", "", "directory of household files")
	f.Int("concurrency", 0, "households simulated in parallel (default from config)")
	f.Int("top", 3, "top locations listed per household")
	f.String("locale", "", "text locale: sv or en (default from config)")
	f.Bool("save", false, "persist each run to the configured store")
	_ = batchCmd.MarkFlagRequired("dir")

	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dir, _ := cmd.Flags().GetString("dir")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	top, _ := cmd.Flags().GetInt("top")
	locale, _ := cmd.Flags().GetString("locale")
	save, _ := cmd.Flags().GetBool("save")

	if concurrency > 0 {
		cfg.Batch.MaxConcurrentHouseholds = concurrency
	}
	if err := cfg.Validate("batch"); err != nil {
		return err
	}

	reqs, err := loadBatch(dir, top, save)
	if err != nil {
		return err
	}
	if len(reqs) == 0 {
		fmt.Fprintln(os.Stderr, "No household files found.")
		return nil
	}

	env, err := initEnv(ctx, envOptions{locale: locale, withStore: save})
	if err != nil {
		return err
	}
	defer env.Close()

	items, sum := env.Pipeline.RunBatch(ctx, reqs, cfg.Batch.MaxConcurrentHouseholds)
	formatBatch(os.Stdout, items, sum)

	zap.L().Info("batch complete", zap.String("dir", dir), zap.Int("failed", sum.Failed))
	if sum.Failed > 0 {
		return eris.Errorf("batch: %d of %d households failed", sum.Failed, sum.Total)
	}
	return nil
}

// householdFiles lists household files in dir, sorted by name.
func householdFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, eris.Wrapf(err, "batch: read dir %s", dir)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".yaml", ".yml", ".json":
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

func loadBatch(dir string, top int, save bool) ([]pipeline.NamedRequest, error) {
	files, err := householdFiles(dir)
	if err != nil {
		return nil, err
	}
	reqs := make([]pipeline.NamedRequest, 0, len(files))
	for _, path := range files {
		h, err := loadHousehold(path, "")
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, pipeline.NamedRequest{
			Name:    filepath.Base(path),
			Request: pipeline.Request{Household: *h, Save: save, Limit: top},
		})
	}
	return reqs, nil
}

// formatBatch writes one line per household and a summary.
func formatBatch(out io.Writer, items []pipeline.BatchItem, sum pipeline.BatchSummary) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "HOUSEHOLD\tRUN\tTOP LOCATIONS\tERROR")
	_, _ = fmt.Fprintln(w, "---------\t---\t-------------\t-----")
	for _, it := range items {
		if it.Err != nil {
			_, _ = fmt.Fprintf(w, "%s\t\t\t%s\n", it.Name, it.Err)
			continue
		}
		names := make([]string, len(it.Result.Top))
		for i, r := range it.Result.Top {
			names[i] = fmt.Sprintf("%s (%d)", r.Location.Name, r.MatchScore)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t\n", it.Name, truncateID(it.Result.Run.ID), strings.Join(names, ", "))
	}
	_ = w.Flush()
	_, _ = fmt.Fprintf(out, "\n%d households: %d succeeded, %d failed, %d saved\n",
		sum.Total, sum.Succeeded, sum.Failed, sum.Saved)
}
