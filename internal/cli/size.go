package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"forex-coach/internal/models"
	"forex-coach/internal/risk"
)

// addSizeCommand adds the position-sizing calculator.
func addSizeCommand(rootCmd *cobra.Command, app *App) {
	var (
		balance   float64
		riskPct   float64
		direction string
		entry     float64
		stop      float64
		target    float64
	)

	sizeCmd := &cobra.Command{
		Use:   "size <pair>",
		Short: "Calculate position size for a trade setup",
		Long: `Calculate the position size, money at risk, and risk/reward ratio
for a trade setup. The pair is a six-letter symbol such as EURUSD or USDJPY.

Fields that cannot be computed from the given inputs are shown as "-".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			symbol := models.Symbol(strings.ToUpper(args[0]))
			if err := symbol.Validate(); err != nil {
				return err
			}
			dir, err := parseDirection(direction)
			if err != nil {
				return err
			}

			ctx, cancel := cmdContext()
			defer cancel()

			// The session supplies the ratcheted risk percent unless the
			// flag overrides it.
			if riskPct <= 0 && app.Session != nil {
				riskPct = app.Session.State().RiskPercent
			}

			in := risk.PlanInput{
				Symbol:          symbol,
				Direction:       dir,
				AccountBalance:  balance,
				RiskPercent:     riskPct,
				EntryPrice:      entry,
				StopLossPrice:   stop,
				TakeProfitPrice: target,
				Rates:           app.Rates.Snapshot(ctx),
			}
			printPlan(cmd, in, risk.ComputePlan(in))
			return nil
		},
	}

	sizeCmd.Flags().Float64Var(&balance, "balance", app.Config.Account.Balance, "account balance in USD")
	sizeCmd.Flags().Float64Var(&riskPct, "risk", 0, "risk percent (default: current discipline risk)")
	sizeCmd.Flags().StringVarP(&direction, "direction", "d", "long", "trade direction (long or short)")
	sizeCmd.Flags().Float64VarP(&entry, "entry", "e", 0, "entry price")
	sizeCmd.Flags().Float64VarP(&stop, "stop", "s", 0, "stop-loss price")
	sizeCmd.Flags().Float64VarP(&target, "target", "t", 0, "take-profit price")

	rootCmd.AddCommand(sizeCmd)
}

// parseDirection parses a direction flag value. The direction is always
// stated explicitly; it is never inferred from stop placement, so a stop
// on the wrong side surfaces as a price logic error instead of silently
// flipping the trade.
func parseDirection(s string) (models.Direction, error) {
	switch strings.ToLower(s) {
	case "long", "buy":
		return models.DirectionLong, nil
	case "short", "sell":
		return models.DirectionShort, nil
	}
	return "", fmt.Errorf("direction must be long or short, got %q", s)
}

func printPlan(cmd *cobra.Command, in risk.PlanInput, result risk.PlanResult) {
	cmd.Printf("Setup: %s %s  entry %s  stop %s  target %s\n",
		in.Symbol, strings.ToLower(string(in.Direction)),
		price(in.EntryPrice), price(in.StopLossPrice), price(in.TakeProfitPrice))
	cmd.Printf("Risk:  %.4g%% of $%.2f\n\n", in.RiskPercent, in.AccountBalance)

	if result.Incomplete {
		cmd.Println("Plan incomplete: fill in balance, risk percent, and prices.")
		return
	}
	if result.PriceError != nil {
		cmd.Printf("Price logic error: %s\n", result.PriceError.Message)
	}

	cmd.Printf("Money at risk:     %s\n", money(result.MoneyAtRisk))
	cmd.Printf("Position size:     %s lots\n", num(result.Lots, 2))
	cmd.Printf("Pip value:         %s\n", money(result.PipValue))
	cmd.Printf("Risk/reward ratio: %s\n", num(result.RiskRewardRatio, 2))
	cmd.Printf("Potential profit:  %s\n", money(result.PotentialProfit))

	for _, w := range result.Warnings {
		cmd.Printf("\nwarning: %s\n", warningText(w))
	}
	if !result.CommitAllowed() {
		cmd.Printf("\nNot tradeable: risk/reward below %.1f or prices invalid.\n", risk.MinRiskReward)
	}
}

func warningText(code string) string {
	switch code {
	case risk.WarnAggressiveRisk:
		return "risking more than 3% of the account on a single trade"
	case risk.WarnTightStop:
		return "stop distance under 5 pips, spread and slippage will dominate"
	case risk.WarnLowRatio:
		return fmt.Sprintf("risk/reward ratio below %.1f", risk.MinRiskReward)
	case risk.WarnCrossApprox:
		return "no exchange rate for the quote currency, sizing assumes 1:1 to USD"
	default:
		return code
	}
}
