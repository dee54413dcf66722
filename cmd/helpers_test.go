package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/relocate-cli/internal/config"
)

const testHouseholdYAML = `
work:
  profession: engineer
  work_location: stockholm
  current_commute_minutes: 45
  job_change_openness: maybe
family:
  adults: 2
  children: ["6-12"]
  planning_children: no
housing:
  current_location: stockholm
  type: apartment
  monthly_cost: 15000
  size_sqm: 72
priorities:
  space: 4
  cost: 5
  schools: 4
  nature: 3
  commute: 3
  calm: 2
  culture: 2
`

// useTempConfig switches to a temp dir with a sqlite store and loads cfg.
func useTempConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) }) //nolint:errcheck

	oldCfg := cfg
	t.Cleanup(func() { cfg = oldCfg })

	c, err := config.Load()
	require.NoError(t, err)
	c.Store.DatabaseURL = filepath.Join(dir, "test.db")
	c.Log.Level = "error"
	cfg = c
	return dir
}

func writeHousehold(t *testing.T, dir, name, doc string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return path
}

// setFlags sets flags on c for the duration of the test.
func setFlags(t *testing.T, c *cobra.Command, kv map[string]string) {
	t.Helper()
	c.SetContext(context.Background())
	for k, v := range kv {
		require.NoError(t, c.Flags().Set(k, v), k)
		t.Cleanup(func() {
			f := c.Flags().Lookup(k)
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}
}
