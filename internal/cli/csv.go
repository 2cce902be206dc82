package cli

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"tradelog/internal/csvio"
)

// addCSVCommands adds the csv import/export commands.
func addCSVCommands(rootCmd *cobra.Command, app *App) {
	csvCmd := &cobra.Command{
		Use:   "csv",
		Short: "Import and export trades as CSV",
		Long:  "Import and export the journal in the fixed 12-column CSV layout.",
	}
	csvCmd.AddCommand(newExportCmd(app))
	csvCmd.AddCommand(newImportCmd(app))
	rootCmd.AddCommand(csvCmd)
}

func newExportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export trades to a CSV file",
		Long:  "Export all trades for the configured user. With no --out, the CSV is written to stdout.",
		Example: `  tradelog csv export --out trades.csv
  tradelog csv export > trades.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if !requireStore(app, output) {
				return nil
			}
			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			trades, err := app.Store.FetchTrades(ctx, app.Config.Journal.UserID)
			if err != nil {
				output.Error("Failed to fetch trades: %v", err)
				return err
			}

			out, _ := cmd.Flags().GetString("out")
			if out == "" {
				return csvio.Write(cmd.OutOrStdout(), trades, time.Now())
			}

			f, err := os.Create(out)
			if err != nil {
				output.Error("Failed to create %s: %v", out, err)
				return err
			}
			defer f.Close()

			if err := csvio.Write(f, trades, time.Now()); err != nil {
				output.Error("Failed to write CSV: %v", err)
				return err
			}
			output.Success("✓ Exported %d trades to %s", len(trades), out)
			return nil
		},
	}
	cmd.Flags().String("out", "", "output file path (default: stdout)")
	return cmd
}

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import trades from a CSV file",
		Long: `Import trades from a CSV file in the export layout.

Rows that fail to parse are skipped and reported; the remaining rows are
saved independently, so a partial import still keeps what succeeded.
Imported rows get fresh IDs and the P&L columns are recomputed, not read.`,
		Example: `  tradelog csv import trades.csv`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if !requireStore(app, output) {
				return nil
			}
			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			f, err := os.Open(args[0])
			if err != nil {
				output.Error("Failed to open %s: %v", args[0], err)
				return err
			}
			defer f.Close()

			trades, skipped, err := csvio.Read(f)
			if err != nil {
				output.Error("Failed to read CSV: %v", err)
				return err
			}

			added := app.Session.ImportTrades(ctx, trades)
			failed := len(trades) - added

			if output.IsJSON() {
				return output.JSON(map[string]int{
					"imported": added,
					"skipped":  skipped,
					"failed":   failed,
				})
			}
			output.Success("✓ Imported %d trades", added)
			if skipped > 0 {
				output.Warning("Skipped %d malformed rows", skipped)
			}
			if failed > 0 {
				output.Warning("%d rows failed to save", failed)
			}
			return nil
		},
	}
}
