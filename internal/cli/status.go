package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// addStatusCommand adds the discipline status command.
func addStatusCommand(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show discipline state: risk percent, cooldown, loss-limit locks",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Session == nil {
				return fmt.Errorf("session unavailable")
			}
			ctx, cancel := cmdContext()
			defer cancel()
			now := time.Now()

			// Expire a finished cooldown before reporting.
			for _, ev := range app.Session.Tick(ctx, now) {
				cmd.Println(ev.Message)
			}

			state := app.Session.State()
			cmd.Printf("Dynamic risk: %.4g%% per trade\n", state.RiskPercent)

			if remaining := state.CooldownRemaining(now); remaining > 0 {
				cmd.Printf("Cooldown:     active, %s remaining\n", remaining.Round(time.Second))
			} else {
				cmd.Println("Cooldown:     none")
			}

			lock, err := app.Session.LockStatus(ctx, now)
			if err != nil {
				return err
			}
			if lock.Locked {
				cmd.Printf("Lockout:      %s\n", lock.Reason)
			} else {
				cmd.Println("Lockout:      none")
			}

			if !state.InCooldown(now) && !lock.Locked {
				cmd.Println("\nClear to analyze and trade.")
			}
			return nil
		},
	}
	rootCmd.AddCommand(cmd)
}
