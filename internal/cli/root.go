package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"tradelog/internal/attachments"
	"tradelog/internal/config"
	"tradelog/internal/journal"
	"tradelog/internal/logging"
	"tradelog/internal/store"
)

// Version information
const Version = "1.0.0"

// App holds the application dependencies.
type App struct {
	Config      *config.Config
	Logger      zerolog.Logger
	Store       store.Store
	Attachments attachments.Store
	Session     *journal.Session
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	dataStore, err := store.NewSQLiteStore(cfg.Journal.DatabasePath)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize store, journal commands unavailable")
	} else {
		app.Store = dataStore
		app.Session = journal.NewSession(dataStore, logger, cfg.Journal.UserID)
		logger.Debug().Str("path", cfg.Journal.DatabasePath).Msg("SQLite store initialized")
	}

	attachStore, err := attachments.NewFileStore(cfg.Journal.AttachmentsDir)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize attachment store")
	} else {
		app.Attachments = attachStore
	}

	rootCmd := &cobra.Command{
		Use:   "tradelog",
		Short: "TradeLog - personal trading journal",
		Long: `TradeLog is a personal trading journal for the Indian market.

Log trades across Delivery, Intraday, MTF, F&O, Buyback, IPO and Dividend
categories and review profitability analytics by month and financial year.

Use 'tradelog help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/tradelog)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
	addTradeCommands(rootCmd, app)
	addDashboardCommands(rootCmd, app)
	addCSVCommands(rootCmd, app)
	addCapitalCommands(rootCmd, app)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"version": Version})
			} else {
				output.Printf("TradeLog v%s\n", Version)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			output.Bold("Journal")
			output.Printf("  Database:    %s\n", app.Config.Journal.DatabasePath)
			output.Printf("  Attachments: %s\n", app.Config.Journal.AttachmentsDir)
			output.Printf("  User:        %s\n", app.Config.Journal.UserID)
			output.Println()
			output.Bold("Logging")
			output.Printf("  Level: %s\n", app.Config.Logging.Level)
			output.Printf("  File:  %v\n", app.Config.Logging.File)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	return cmd
}

// requireStore guards commands that need a working store.
func requireStore(app *App, output *Output) bool {
	if app.Store == nil || app.Session == nil {
		output.Warning("Store not initialized. Check the database path in your config.")
		return false
	}
	return true
}
