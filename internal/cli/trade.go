package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"forex-coach/internal/models"
	"forex-coach/internal/risk"
)

// addTradeCommands adds trade lifecycle commands: open and close. Notes
// are appended through the journal command group.
func addTradeCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newOpenCmd(app))
	rootCmd.AddCommand(newCloseCmd(app))
}

func newOpenCmd(app *App) *cobra.Command {
	var (
		direction string
		entry     float64
		stop      float64
		target    float64
		note      string
	)

	cmd := &cobra.Command{
		Use:   "open <pair>",
		Short: "Open a journaled trade from a sized setup",
		Long: `Size the setup and, if it passes the discipline gate and the minimum
risk/reward ratio, record it in the journal as an open trade.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Session == nil {
				return fmt.Errorf("session unavailable")
			}
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
			now := time.Now()

			gate, err := app.Session.AnalyzePair(ctx, symbol, now)
			if err != nil {
				return err
			}
			if !gate.Allowed {
				return fmt.Errorf("trading blocked: %s", gate.BlockReason)
			}

			in, result := app.Session.PlanTrade(ctx, symbol, dir, entry, stop, target)
			printPlan(cmd, in, result)

			trade, err := app.Session.OpenTrade(ctx, in, result, now)
			if err != nil {
				return err
			}
			if note != "" {
				if err := app.Session.AppendNote(ctx, trade.ID, note); err != nil {
					app.Logger.Warn().Err(err).Msg("Failed to attach note")
				}
			}

			cmd.Printf("\nOpened trade %s\n", trade.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&direction, "direction", "d", "long", "trade direction (long or short)")
	cmd.Flags().Float64VarP(&entry, "entry", "e", 0, "entry price")
	cmd.Flags().Float64VarP(&stop, "stop", "s", 0, "stop-loss price")
	cmd.Flags().Float64VarP(&target, "target", "t", 0, "take-profit price")
	cmd.Flags().StringVar(&note, "note", "", "entry note for the journal")
	cmd.MarkFlagRequired("entry")
	cmd.MarkFlagRequired("stop")
	cmd.MarkFlagRequired("target")

	return cmd
}

func newCloseCmd(app *App) *cobra.Command {
	var (
		exitPrice float64
		reason    string
	)

	cmd := &cobra.Command{
		Use:   "close <trade-id>",
		Short: "Close an open trade at an exit price",
		Long: `Close a journaled trade. The realized result updates the dynamic risk
percentage: a win raises it by 0.25, a loss lowers it by 0.25 and starts
a fifteen-minute cooldown.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Session == nil {
				return fmt.Errorf("session unavailable")
			}
			ctx, cancel := cmdContext()
			defer cancel()

			trade, err := app.Session.CloseTrade(ctx, args[0], exitPrice, reason, time.Now())
			if err != nil {
				return err
			}

			cmd.Printf("Closed %s %s at %s\n", trade.Symbol, strings.ToLower(string(trade.Direction)), price(exitPrice))
			printClosedResult(cmd, app, *trade)
			return nil
		},
	}

	cmd.Flags().Float64VarP(&exitPrice, "price", "p", 0, "exit price")
	cmd.Flags().StringVarP(&reason, "reason", "r", "Discretionary close", "exit reason recorded in the journal")
	cmd.MarkFlagRequired("price")

	return cmd
}

// printClosedResult reports the realized PnL and the discipline state
// after the close.
func printClosedResult(cmd *cobra.Command, app *App, trade models.Trade) {
	pnl := risk.TradePnL(trade)
	cmd.Printf("Realized PnL: %s\n", money(pnl))

	state := app.Session.State()
	cmd.Printf("Risk percent is now %.4g%%\n", state.RiskPercent)
	if remaining := state.CooldownRemaining(time.Now()); remaining > 0 {
		cmd.Printf("Cooldown active for %s\n", remaining.Round(time.Second))
	}
}

func newNoteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note <trade-id> <text>",
		Short: "Append a note to a journaled trade",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Session == nil {
				return fmt.Errorf("session unavailable")
			}
			ctx, cancel := cmdContext()
			defer cancel()

			note := strings.Join(args[1:], " ")
			if err := app.Session.AppendNote(ctx, args[0], note); err != nil {
				return err
			}
			cmd.Println("Note added.")
			return nil
		},
	}
	return cmd
}
