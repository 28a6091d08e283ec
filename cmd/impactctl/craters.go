package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/impact-atlas/internal/adapter/static"
	"github.com/couchcryptid/impact-atlas/internal/catalog"
	"github.com/couchcryptid/impact-atlas/internal/domain"
)

func newCratersCmd() *cobra.Command {
	var (
		file    string
		top     int
		asJSON  bool
		showFac bool
	)
	filter := domain.DefaultCraterFilter()

	cmd := &cobra.Command{
		Use:     "craters",
		Short:   "Filter the crater dataset",
		Example: `  impactctl craters --diameter-min 20 --age-max 100
  impactctl craters --target Sedimentary --top 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := domain.ValidateFilter(filter); err != nil {
				return err
			}
			craters, err := static.NewCraterFile(file).LoadCraters(cmd.Context())
			if err != nil {
				return err
			}
			cat := catalog.NewCraterCatalog(0, nil)
			cat.Replace(craters)
			cliLogger(cmd).Debug("craters loaded", "path", file, "count", cat.Len())

			if showFac {
				return writeJSON(cmd, cat.Facets())
			}

			matched := cat.Filter(filter)
			if top > 0 {
				matched = catalog.TopCraters(matched, top)
			}
			if asJSON {
				return writeJSON(cmd, catalog.CraterCollection(matched))
			}

			out := cmd.OutOrStdout()
			fprintCount(out, len(matched), cat.Len(), "craters")
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tDIAMETER_KM\tAGE_MYR\tCOUNTRY\tTARGET\tTYPE")
			for _, c := range matched {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					c.Name, formatFloat(c.DiameterKm), orDash(c.AgeRaw),
					orDash(c.Country), orDash(c.Target), orDash(c.CraterType))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&file, "file", craterFileDefault(), "crater GeoJSON file")
	addRangeFlags(cmd, &filter.Diameter, "diameter", "km")
	addRangeFlags(cmd, &filter.Age, "age", "Myr")
	cmd.Flags().StringArrayVar(&filter.TargetRocks, "target", nil, "target rock to keep (repeatable)")
	cmd.Flags().StringArrayVar(&filter.CraterTypes, "type", nil, "crater type to keep (repeatable)")
	cmd.Flags().IntVar(&top, "top", 0, "only the N largest by diameter")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print a GeoJSON FeatureCollection")
	cmd.Flags().BoolVar(&showFac, "facets", false, "print distinct targets and types with counts")
	cmd.MarkFlagsMutuallyExclusive("json", "facets")
	return cmd
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
