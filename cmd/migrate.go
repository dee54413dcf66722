package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/relocate-cli/internal/refdata"
	"github.com/sells-group/relocate-cli/internal/store"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply run store migrations",
	Long: `Apply pending schema migrations to the configured run store. For
Postgres the reference table is also upserted into relocate.locations so
runs can be joined against municipality data in SQL.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate")
		}
		fmt.Fprintf(os.Stderr, "Migrated %s store\n", cfg.Store.Driver)

		syncer, ok := st.(store.LocationSyncer)
		if !ok {
			return nil
		}
		table, err := refdata.Load(cfg.Refdata.LocationsPath, cfg.Refdata.DistancesPath)
		if err != nil {
			return err
		}
		n, err := syncer.SyncLocations(ctx, table.All())
		if err != nil {
			return eris.Wrap(err, "migrate: sync locations")
		}
		zap.L().Info("synced reference locations", zap.Int64("rows", n))
		fmt.Fprintf(os.Stderr, "Synced %d locations\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
