package cli

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"
)

// addCapitalCommands adds the capital show/set commands.
func addCapitalCommands(rootCmd *cobra.Command, app *App) {
	capitalCmd := &cobra.Command{
		Use:   "capital",
		Short: "Manage trading capital",
		Long:  "Show or set the trading capital used for ROI calculations.",
	}
	capitalCmd.AddCommand(newCapitalShowCmd(app))
	capitalCmd.AddCommand(newCapitalSetCmd(app))
	rootCmd.AddCommand(capitalCmd)
}

func newCapitalShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the configured capital",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if !requireStore(app, output) {
				return nil
			}
			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			capital, err := app.Store.FetchCapital(ctx, app.Config.Journal.UserID)
			if err != nil {
				output.Error("Failed to fetch capital: %v", err)
				return err
			}
			if output.IsJSON() {
				return output.JSON(map[string]float64{"capital": capital})
			}
			output.Printf("Capital: %s\n", FormatIndianCurrency(capital))
			return nil
		},
	}
}

func newCapitalSetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "set <amount>",
		Short:   "Set the trading capital",
		Example: `  tradelog capital set 500000`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if !requireStore(app, output) {
				return nil
			}
			amount, err := strconv.ParseFloat(args[0], 64)
			if err != nil || amount < 0 {
				output.Error("Invalid amount: %s", args[0])
				return errInvalidFlag("amount", args[0])
			}
			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			if err := app.Session.SetCapital(ctx, amount); err != nil {
				output.Error("Failed to set capital: %v", err)
				return err
			}
			output.Success("✓ Capital set to %s", FormatIndianCurrency(amount))
			return nil
		},
	}
}
