package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"forex-coach/internal/models"
)

// addChallengeCommand adds the funded-account challenge monitor.
func addChallengeCommand(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "challenge",
		Short: "Funded-account challenge progress",
		Long: `Evaluate funded-account challenge rules against the closed trades in
the journal: daily loss limit, maximum total drawdown, and profit target.
Challenge mode is configured in the [challenge] section of the config file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Session == nil {
				return fmt.Errorf("session unavailable")
			}
			ctx, cancel := cmdContext()
			defer cancel()

			metrics, err := app.Session.Challenge(ctx, time.Now())
			if err != nil {
				return err
			}
			if metrics == nil {
				cmd.Println("Challenge mode is not active. Enable it in the config file.")
				return nil
			}

			printChallenge(cmd, metrics)
			return nil
		},
	}
	rootCmd.AddCommand(cmd)
}

func printChallenge(cmd *cobra.Command, m *models.ChallengeMetrics) {
	cmd.Printf("Status: %s\n\n", m.Status)

	cmd.Printf("Daily loss:     $%.2f of $%.2f  (%s)\n",
		m.CurrentDailyLoss, m.MaxDailyLossAmount, progressBar(m.DailyLossProgress))
	cmd.Printf("Total drawdown: $%.2f of $%.2f  (%s)\n",
		m.CurrentTotalDrawdown, m.MaxTotalDrawdownAmount, progressBar(m.TotalDrawdownProgress))
	cmd.Printf("Profit target:  $%.2f of $%.2f  (%s)\n",
		m.NetProfit, m.ProfitTargetAmount, progressBar(m.ProfitTargetProgress))
	cmd.Printf("Peak drawdown:  $%.2f\n\n", m.MaxPeakDrawdown)

	cmd.Printf("Trading days:   %d\n", m.TradingDaysCount)
	cmd.Printf("Days active:    %d\n", m.DaysActive)
	if m.DaysRemaining > 0 {
		cmd.Printf("Days remaining: %d\n", m.DaysRemaining)
	}

	switch m.Status {
	case models.ChallengeFailed:
		cmd.Println("\nA loss limit has been breached. The challenge is failed.")
	case models.ChallengeExpired:
		cmd.Println("\nThe time limit has passed without reaching the profit target.")
	case models.ChallengeComplete:
		cmd.Println("\nProfit target reached with the minimum trading days met.")
	case models.ChallengeCaution:
		cmd.Println("\nA limit is over 80% used. Size down.")
	}
}

// progressBar renders a ten-segment gauge for a 0-100 percentage.
func progressBar(pct float64) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := int(pct / 10)
	bar := make([]byte, 10)
	for i := range bar {
		if i < filled {
			bar[i] = '#'
		} else {
			bar[i] = '.'
		}
	}
	return fmt.Sprintf("%s %.0f%%", bar, pct)
}
