package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/impact-atlas/internal/domain"
)

func newAgeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "age <text>...",
		Short:   "Parse free-text crater ages into intervals (Myr)",
		Example: `  impactctl age "66.05 ± 0.01" "< 5" "~ 35"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "INPUT\tKIND\tMIN\tMAX")
			for _, text := range args {
				interval := domain.ParseAge(text)
				lo, hi := "-", "-"
				if v, ok := interval.Lower(); ok {
					lo = formatFloat(v)
				}
				if v, ok := interval.Upper(); ok {
					hi = formatFloat(v)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", text, interval.Kind, lo, hi)
			}
			return tw.Flush()
		},
	}
}

func newMassCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mass <grams>...",
		Short: "Format masses in grams for display",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, arg := range args {
				grams, err := strconv.ParseFloat(strings.TrimSpace(arg), 64)
				if err != nil {
					return fmt.Errorf("invalid mass %q", arg)
				}
				fmt.Fprintln(cmd.OutOrStdout(), domain.FormatMass(grams))
			}
			return nil
		},
	}
}
