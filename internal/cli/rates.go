package cli

import (
	"fmt"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

// addRatesCommand adds the exchange-rate inspection command.
func addRatesCommand(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "rates",
		Short: "Show the cached USD exchange-rate table",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext()
			defer cancel()

			table := app.Rates.Snapshot(ctx)
			if fetched := app.Rates.FetchedAt(); !fetched.IsZero() {
				cmd.Printf("Fetched %s\n\n", fetched.Format(time.RFC1123))
			}

			currencies := make([]string, 0, len(table))
			for c := range table {
				currencies = append(currencies, c)
			}
			sort.Strings(currencies)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CURRENCY\tUSD RATE")
			for _, c := range currencies {
				fmt.Fprintf(w, "%s\t%.6g\n", c, table[c])
			}
			return w.Flush()
		},
	}
	rootCmd.AddCommand(cmd)
}
