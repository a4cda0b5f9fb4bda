// Package cli provides the command-line interface for the trading coach.
package cli

import (
	"context"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"forex-coach/internal/config"
	"forex-coach/internal/discipline"
	"forex-coach/internal/models"
	"forex-coach/internal/rates"
	"forex-coach/internal/session"
	"forex-coach/internal/store"
)

// Version information
const (
	Version = "0.1.0"
)

// App holds the application dependencies.
type App struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Store   store.TradeStore
	Rates   *rates.CachedProvider
	Session *session.Session
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	// Journal store, kept beside the config file.
	dbDir := cfg.Dir
	if dbDir == "" {
		dbDir = config.DefaultConfigDir()
	}
	dbPath := filepath.Join(dbDir, "coach.db")
	tradeStore, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to open journal database, using in-memory store")
		app.Store = store.NewMemoryStore()
	} else {
		app.Store = tradeStore
		logger.Debug().Str("path", dbPath).Msg("Journal store initialized")
	}

	// Exchange-rate provider; without a URL the calculator runs on the
	// minimal fallback table.
	var upstream rates.Provider = rates.Static(models.MinimalRates())
	if cfg.Rates.URL != "" {
		upstream = rates.NewHTTPProvider(cfg.Rates.URL, cfg.Rates.FetchTimeout)
	}
	app.Rates = rates.NewCachedProvider(upstream, cfg.Rates.CacheTTL, logger)

	// Session: the single owner of discipline state and journal mutations.
	sess, err := session.New(
		context.Background(),
		app.Store,
		app.Rates,
		func() float64 { return cfg.Account.Balance },
		discipline.Limits{
			DailyLossPct:  cfg.Limits.DailyLossPct,
			WeeklyLossPct: cfg.Limits.WeeklyLossPct,
		},
		challengeSettings(cfg),
		logger,
	)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize session")
	} else {
		app.Session = sess
	}

	rootCmd := &cobra.Command{
		Use:   "coach",
		Short: "Forex Coach - discretionary trading discipline CLI",
		Long: `Forex Coach is a risk-management companion for discretionary forex trading.

It sizes positions from your account balance and risk percentage, journals
your trades, enforces cooldowns and loss-limit lockouts, and tracks
funded-account challenge progress.

Use 'coach help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/forex-coach)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	addCoreCommands(rootCmd, app)
	addSizeCommand(rootCmd, app)
	addTradeCommands(rootCmd, app)
	addJournalCommands(rootCmd, app)
	addStatsCommand(rootCmd, app)
	addStatusCommand(rootCmd, app)
	addChallengeCommand(rootCmd, app)
	addRatesCommand(rootCmd, app)

	return rootCmd
}

// challengeSettings converts configuration into the domain settings, or
// nil when challenge mode is off or misconfigured.
func challengeSettings(cfg *config.Config) *models.ChallengeSettings {
	if !cfg.Challenge.Active {
		return nil
	}
	start, err := cfg.ChallengeStartDate()
	if err != nil {
		return nil
	}
	return &models.ChallengeSettings{
		IsActive:            true,
		StartDate:           start,
		AccountSize:         cfg.Challenge.AccountSize,
		DailyLossLimitPct:   cfg.Challenge.DailyLossLimitPct,
		MaxTotalDrawdownPct: cfg.Challenge.MaxTotalDrawdownPct,
		ProfitTargetPct:     cfg.Challenge.ProfitTargetPct,
		MinTradingDays:      cfg.Challenge.MinTradingDays,
		TimeLimitDays:       cfg.Challenge.TimeLimitDays,
	}
}

// cmdContext returns a bounded context for store operations.
func cmdContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// addCoreCommands adds version and config commands.
func addCoreCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("Forex Coach v%s\n", Version)
		},
	})

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.Printf("Account balance:   $%.2f\n", app.Config.Account.Balance)
			cmd.Printf("Daily loss limit:  %.4g%%\n", app.Config.Limits.DailyLossPct)
			cmd.Printf("Weekly loss limit: %.4g%%\n", app.Config.Limits.WeeklyLossPct)
			cmd.Printf("Challenge active:  %v\n", app.Config.Challenge.Active)
			cmd.Printf("Rates URL:         %s\n", orNone(app.Config.Rates.URL))
			return nil
		},
	})
	rootCmd.AddCommand(configCmd)
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
