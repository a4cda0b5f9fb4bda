package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"forex-coach/internal/models"
	"forex-coach/internal/risk"
	"forex-coach/internal/store"
)

// addJournalCommands adds the trade journal commands.
func addJournalCommands(rootCmd *cobra.Command, app *App) {
	journalCmd := &cobra.Command{
		Use:   "journal",
		Short: "Trade journal",
	}
	journalCmd.AddCommand(newJournalListCmd(app))
	journalCmd.AddCommand(newJournalShowCmd(app))
	journalCmd.AddCommand(newJournalExportCmd(app))
	journalCmd.AddCommand(newNoteCmd(app))
	rootCmd.AddCommand(journalCmd)
}

func newJournalListCmd(app *App) *cobra.Command {
	var (
		pair     string
		status   string
		lastDays int
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List journaled trades",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext()
			defer cancel()

			filter := store.TradeFilter{Limit: limit}
			if pair != "" {
				filter.Symbol = models.Symbol(strings.ToUpper(pair))
			}
			switch strings.ToLower(status) {
			case "open":
				filter.Status = models.StatusOpen
			case "closed":
				filter.Status = models.StatusClosed
			}
			if lastDays > 0 {
				filter.ClosedSince = time.Now().AddDate(0, 0, -lastDays)
			}

			trades, err := app.Store.ListTrades(ctx, filter)
			if err != nil {
				return err
			}
			if len(trades) == 0 {
				cmd.Println("No trades found.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tOPENED\tPAIR\tDIR\tLOTS\tSTATUS\tPNL")
			for _, t := range trades {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					shortID(t.ID),
					t.OpenTimestamp.Format("2006-01-02 15:04"),
					t.Symbol,
					strings.ToLower(string(t.Direction)),
					num(t.RiskPlan.PositionSizeLots, 2),
					strings.ToLower(string(t.Status)),
					money(risk.TradePnL(t)),
				)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&pair, "pair", "", "filter by symbol")
	cmd.Flags().StringVar(&status, "status", "", "filter by status (open, closed)")
	cmd.Flags().IntVar(&lastDays, "days", 0, "only trades closed in the last N days")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of trades")

	return cmd
}

func newJournalShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <trade-id>",
		Short: "Show one trade in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext()
			defer cancel()

			trade, err := app.Store.GetTrade(ctx, args[0])
			if err != nil {
				return err
			}

			cmd.Printf("Trade %s\n", trade.ID)
			cmd.Printf("  %s %s, opened %s\n", trade.Symbol, strings.ToLower(string(trade.Direction)),
				trade.OpenTimestamp.Format(time.RFC1123))
			cmd.Printf("  entry %s  stop %s  target %s\n",
				num(trade.RiskPlan.EntryPrice, -1), num(trade.RiskPlan.StopLossPrice, -1), num(trade.RiskPlan.TakeProfitPrice, -1))
			cmd.Printf("  lots %s  risk %s%%  ratio %s\n",
				num(trade.RiskPlan.PositionSizeLots, 2), num(trade.RiskPlan.RiskPercent, 2), num(trade.RiskPlan.RiskRewardRatio, 2))
			if trade.IsClosed() {
				cmd.Printf("  closed %s at %s (%s)\n",
					trade.CloseTimestamp.Format(time.RFC1123), num(trade.ExitPrice, -1), trade.ExitReason)
				cmd.Printf("  realized PnL %s\n", money(risk.TradePnL(*trade)))
			}
			for _, n := range trade.Notes {
				cmd.Printf("  note: %s\n", n)
			}
			return nil
		},
	}
}

func newJournalExportCmd(app *App) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the journal as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext()
			defer cancel()

			trades, err := app.Store.ListTrades(ctx, store.TradeFilter{})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			if err := store.ExportCSV(w, trades); err != nil {
				return err
			}
			if out != "" {
				cmd.Printf("Exported %d trades to %s\n", len(trades), out)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (default: stdout)")
	return cmd
}

// shortID truncates a ULID for table display.
func shortID(id string) string {
	if len(id) > 10 {
		return id[:10]
	}
	return id
}
