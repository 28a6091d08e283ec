package main

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/impact-atlas/internal/domain"
)

const defaultCraterFile = "static/data/earth-impact-craters.geojson"

func newRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:           "impactctl",
		Short:         "Inspect and export the impact crater and meteorite catalogs",
		SilenceUsage:  true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			// Optional; flags and the real environment still apply without it.
			_ = godotenv.Load()
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(
		newAgeCmd(),
		newMassCmd(),
		newCratersCmd(),
		newMeteoritesCmd(),
		newExportCmd(),
	)
	return root
}

// cliLogger logs to stderr so stdout stays clean for tables and JSON.
func cliLogger(cmd *cobra.Command) *slog.Logger {
	var level slog.Level
	name, _ := cmd.Flags().GetString("log-level")
	if err := level.UnmarshalText([]byte(name)); err != nil {
		level = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// addRangeFlags binds --<name>-min and --<name>-max to r, defaulting to its
// current bounds.
func addRangeFlags(cmd *cobra.Command, r *domain.Range, name, unit string) {
	cmd.Flags().Float64Var(&r.Min, name+"-min", r.Min, fmt.Sprintf("minimum %s (%s)", name, unit))
	cmd.Flags().Float64Var(&r.Max, name+"-max", r.Max, fmt.Sprintf("maximum %s (%s)", name, unit))
}

func craterFileDefault() string {
	return sharedcfg.EnvOrDefault("CRATER_FILE", defaultCraterFile)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func fprintCount(w io.Writer, matched, total int, noun string) {
	fmt.Fprintf(w, "%d of %d %s\n", matched, total, noun)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
