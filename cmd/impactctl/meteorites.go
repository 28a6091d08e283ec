package main

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/impact-atlas/internal/adapter/nasa"
	"github.com/couchcryptid/impact-atlas/internal/adapter/static"
	"github.com/couchcryptid/impact-atlas/internal/catalog"
	"github.com/couchcryptid/impact-atlas/internal/domain"
)

func newMeteoritesCmd() *cobra.Command {
	var (
		file      string
		fetch     bool
		top       int
		precision int
		asJSON    bool
	)
	filter := domain.DefaultMeteoriteFilter()

	cmd := &cobra.Command{
		Use:     "meteorites",
		Short:   "Filter meteorite landings from a local dump or NASA Open Data",
		Example: `  impactctl meteorites --file landings.json --year-min 1900 --class "Iron, IVB"
  impactctl meteorites --fetch --top 10
  impactctl meteorites --fetch --clusters 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := domain.ValidateFilter(filter); err != nil {
				return err
			}
			meteorites, err := loadMeteorites(cmd, file, fetch)
			if err != nil {
				return err
			}
			cat := catalog.NewMeteoriteCatalog(0, nil)
			cat.Replace(meteorites)

			matched := cat.ApplyFilters(filter)
			if precision > 0 {
				clusters, err := catalog.Clusters(matched, precision)
				if err != nil {
					return err
				}
				return writeJSON(cmd, clusters)
			}
			if top > 0 {
				matched = catalog.TopMeteorites(matched, top)
			}
			if asJSON {
				return writeJSON(cmd, catalog.MeteoriteCollection(matched))
			}

			out := cmd.OutOrStdout()
			fprintCount(out, len(matched), cat.Len(), "meteorites")
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tCLASS\tMASS\tYEAR\tFALL")
			for _, m := range matched {
				mass := "Unknown"
				if g, ok := domain.MassGrams(m); ok {
					mass = domain.FormatMass(g)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					m.Name, orDash(m.RecClass), mass, cat.ResolveYear(m), orDash(m.Fall))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "local JSON dump of the NASA landings dataset")
	cmd.Flags().BoolVar(&fetch, "fetch", false, "download landings from NASA_API_URL")
	addRangeFlags(cmd, &filter.Year, "year", "CE")
	addRangeFlags(cmd, &filter.Mass, "mass", "grams")
	cmd.Flags().StringArrayVar(&filter.Classes, "class", nil, "meteorite class to keep (repeatable)")
	cmd.Flags().IntVar(&top, "top", 0, "only the N heaviest")
	cmd.Flags().IntVar(&precision, "clusters", 0, "print geohash clusters at this precision instead of records")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print a GeoJSON FeatureCollection")
	cmd.MarkFlagsMutuallyExclusive("file", "fetch")
	cmd.MarkFlagsOneRequired("file", "fetch")
	cmd.MarkFlagsMutuallyExclusive("json", "clusters")
	return cmd
}

func loadMeteorites(cmd *cobra.Command, file string, fetch bool) ([]domain.Meteorite, error) {
	if !fetch {
		return static.NewMeteoriteFile(file).FetchMeteorites(cmd.Context())
	}

	timeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("NASA_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid NASA_TIMEOUT: %w", err)
	}
	limit, err := strconv.Atoi(sharedcfg.EnvOrDefault("NASA_API_LIMIT", "50000"))
	if err != nil {
		return nil, fmt.Errorf("invalid NASA_API_LIMIT: %w", err)
	}
	client := nasa.NewClient(
		sharedcfg.EnvOrDefault("NASA_API_URL", nasa.DefaultBaseURL),
		sharedcfg.EnvOrDefault("NASA_APP_TOKEN", ""),
		limit,
		timeout,
		cliLogger(cmd),
		nil,
	)
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()
	return client.FetchMeteorites(ctx)
}
