package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"forex-coach/internal/models"
	"forex-coach/internal/stats"
	"forex-coach/internal/store"
)

// addStatsCommand adds the performance statistics command.
func addStatsCommand(rootCmd *cobra.Command, app *App) {
	var breakdown bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Performance statistics from closed trades",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext()
			defer cancel()

			trades, err := app.Store.ListTrades(ctx, store.TradeFilter{Status: models.StatusClosed})
			if err != nil {
				return err
			}

			report := stats.BuildReport(trades, app.Config.Account.Balance)
			printSummary(cmd, report.Summary)

			if breakdown {
				printBuckets(cmd, "By pair", report.BySymbol)
				printBuckets(cmd, "By direction", report.ByDirection)
				printBuckets(cmd, "By weekday", report.ByWeekday)
				printMonthly(cmd, report.ByMonth)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&breakdown, "breakdown", false, "include per-pair, direction, weekday and monthly breakdowns")
	rootCmd.AddCommand(cmd)
}

func printSummary(cmd *cobra.Command, s models.PerformanceSummary) {
	if s.TotalTrades == 0 {
		cmd.Println("No closed trades with a computable result yet.")
		return
	}

	cmd.Printf("Trades:            %d (%d wins, %d losses)\n", s.TotalTrades, s.WinningTrades, s.LosingTrades)
	cmd.Printf("Win rate:          %.1f%%\n", s.WinRate)
	cmd.Printf("Net profit:        $%.2f\n", s.TotalNetProfit)
	cmd.Printf("Gross profit/loss: $%.2f / $%.2f\n", s.GrossProfit, s.GrossLoss)
	if s.GrossLoss < 0 {
		cmd.Printf("Profit factor:     %.2f\n", s.ProfitFactor)
	}
	cmd.Printf("Average win/loss:  $%.2f / $%.2f\n", s.AverageWin, s.AverageLoss)
	cmd.Printf("Best / worst:      $%.2f / $%.2f\n", s.BestTrade, s.WorstTrade)
	cmd.Printf("Longest streaks:   %d wins, %d losses\n", s.MaxConsecWins, s.MaxConsecLosses)
	cmd.Printf("Max drawdown:      %.2f%%\n", s.MaxDrawdownPct)
	if s.AvgHoldDuration > 0 {
		cmd.Printf("Avg hold time:     %s\n", s.AvgHoldDuration.Round(time.Minute))
	}
}

func printBuckets(cmd *cobra.Command, title string, buckets []models.BucketPnL) {
	if len(buckets) == 0 {
		return
	}
	cmd.Printf("\n%s:\n", title)
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, b := range buckets {
		fmt.Fprintf(w, "  %s\t$%.2f\n", strings.ToLower(b.Label), b.PnL)
	}
	w.Flush()
}

func printMonthly(cmd *cobra.Command, months []models.MonthlyPnL) {
	if len(months) == 0 {
		return
	}
	cmd.Println("\nBy month:")
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, m := range months {
		fmt.Fprintf(w, "  %d %s\t$%.2f\n", m.Year, m.Month.String()[:3], m.PnL)
	}
	w.Flush()
}
