package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ayusman/gestura/internal/engine"
)

func newStatsCmd(opts *options) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show gesture usage",
		Long: `Show gesture usage. Recognition counters live in the running
server; query /api/stats for them. This command reports the persisted
usage counts and the registered gestures per channel.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withEngine(func(e *engine.Engine) error {
				report := e.Stats()
				if asJSON {
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					return enc.Encode(report)
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "MOST USED\tUSES")
				for _, u := range report.MostUsedGestures {
					if u.Count == 0 {
						continue
					}
					fmt.Fprintf(w, "%s\t%d\n", u.Name, u.Count)
				}
				fmt.Fprintln(w)

				channels := make([]string, 0, len(report.GesturesPerType))
				for c := range report.GesturesPerType {
					channels = append(channels, c)
				}
				sort.Strings(channels)
				fmt.Fprintln(w, "CHANNEL\tGESTURES")
				for _, c := range channels {
					fmt.Fprintf(w, "%s\t%d\n", c, report.GesturesPerType[c])
				}
				return w.Flush()
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}
