package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/relocate-cli/internal/model"
	"github.com/sells-group/relocate-cli/internal/refdata"
)

var locationsCmd = &cobra.Command{
	Use:   "locations",
	Short: "List municipalities in the reference table",
	RunE: func(cmd *cobra.Command, _ []string) error {
		region, _ := cmd.Flags().GetString("region")

		table, err := refdata.Load(cfg.Refdata.LocationsPath, cfg.Refdata.DistancesPath)
		if err != nil {
			return err
		}

		locs := filterRegion(table.All(), region)
		if len(locs) == 0 {
			fmt.Fprintf(os.Stderr, "No locations in region %q. Regions: %s\n", region, strings.Join(table.Regions(), ", "))
			return nil
		}
		formatLocations(os.Stdout, locs)
		return nil
	},
}

func init() {
	locationsCmd.Flags().String("region", "", "only list municipalities in this region (län)")
	rootCmd.AddCommand(locationsCmd)
}

func filterRegion(locs []*model.Location, region string) []*model.Location {
	if region == "" {
		return locs
	}
	var out []*model.Location
	for _, l := range locs {
		if strings.EqualFold(l.Region, region) {
			out = append(out, l)
		}
	}
	return out
}

func formatLocations(out io.Writer, locs []*model.Location) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "SLUG\tNAME\tREGION\tPOPULATION\tKR/M²\tRENT 55M²\tTAX %\tNATURE")
	_, _ = fmt.Fprintln(w, "----\t----\t------\t----------\t-----\t---------\t-----\t------")
	for _, l := range locs {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.0f\t%.0f\t%.2f\t%s\n",
			l.Slug, l.Name, l.Region, l.Population, l.PricePerSqm, l.AvgRentApartment, l.TaxRate, l.NatureType)
	}
	_ = w.Flush()
}
