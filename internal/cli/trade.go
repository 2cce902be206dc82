package cli

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"tradelog/internal/analytics"
	"tradelog/internal/models"
)

const commandTimeout = 30 * time.Second

// addTradeCommands adds the trade CRUD and list commands.
func addTradeCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newAddCmd(app))
	rootCmd.AddCommand(newListCmd(app))
	rootCmd.AddCommand(newCloseCmd(app))
	rootCmd.AddCommand(newDeleteCmd(app))
	rootCmd.AddCommand(newAttachCmd(app))
}

func newAddCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a trade to the journal",
		Long: `Add a trade to the journal.

For the Dividend category --entry is the dividend per share.
Target and stop are mandatory for Intraday and F&O.`,
		Example: `  tradelog add --symbol RELIANCE --category Intraday --type Buy --entry 2440 --target 2500 --stop 2400 --qty 10
  tradelog add --symbol ITC --category Dividend --entry 6.25 --qty 400
  tradelog add --symbol TATAMOTORS --category MTF --entry 950 --qty 50 --interest 12.5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if !requireStore(app, output) {
				return nil
			}
			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			trade, err := tradeFromFlags(cmd)
			if err != nil {
				output.Error("Invalid trade: %v", err)
				return err
			}

			trade.NormalizeForSave()
			if err := trade.ValidateForSave(); err != nil {
				output.Error("Invalid trade: %v", err)
				return err
			}

			id, err := app.Store.AddTrade(ctx, trade)
			if err != nil {
				output.Error("Failed to save trade: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]string{"id": id})
			}
			output.Success("✓ Trade saved (%s)", id)
			return nil
		},
	}
	addTradeFlags(cmd)
	return cmd
}

func addTradeFlags(cmd *cobra.Command) {
	cmd.Flags().String("symbol", "", "trading symbol (required)")
	cmd.Flags().String("type", "Buy", "trade type (Buy, Sell)")
	cmd.Flags().String("category", "Intraday", "category (Delivery, Intraday, MTF, F&O, Buyback, IPO, Dividend)")
	cmd.Flags().Float64("entry", 0, "entry price; dividend per share for Dividend")
	cmd.Flags().Float64("target", 0, "target price")
	cmd.Flags().Float64("stop", 0, "stop loss")
	cmd.Flags().Int("qty", 0, "quantity")
	cmd.Flags().Float64("exit", 0, "exit price")
	cmd.Flags().String("exit-date", "", "exit date (2006-01-02)")
	cmd.Flags().Float64("charges", 0, "brokerage and statutory charges")
	cmd.Flags().Float64("interest", 0, "interest per day (MTF)")
	cmd.Flags().String("date", "", "trade date (2006-01-02, default today)")
	cmd.Flags().String("timeframe", "", "chart timeframe, e.g. 5m, 1H, Daily")
	cmd.Flags().String("notes", "", "notes")
	cmd.Flags().String("status", "Planned", "status (Planned, Executed, Closed)")
}

func tradeFromFlags(cmd *cobra.Command) (*models.Trade, error) {
	symbol, _ := cmd.Flags().GetString("symbol")
	typeRaw, _ := cmd.Flags().GetString("type")
	categoryRaw, _ := cmd.Flags().GetString("category")
	statusRaw, _ := cmd.Flags().GetString("status")

	tradeType, ok := models.ParseType(typeRaw)
	if !ok {
		return nil, errInvalidFlag("type", typeRaw)
	}
	category, ok := models.ParseCategory(categoryRaw)
	if !ok {
		return nil, errInvalidFlag("category", categoryRaw)
	}
	status, ok := models.ParseStatus(statusRaw)
	if !ok {
		return nil, errInvalidFlag("status", statusRaw)
	}

	entry, _ := cmd.Flags().GetFloat64("entry")
	target, _ := cmd.Flags().GetFloat64("target")
	stop, _ := cmd.Flags().GetFloat64("stop")
	timeframe, _ := cmd.Flags().GetString("timeframe")
	notes, _ := cmd.Flags().GetString("notes")

	trade := &models.Trade{
		Symbol:      symbol,
		Type:        tradeType,
		Category:    category,
		EntryPrice:  entry,
		TargetPrice: target,
		StopLoss:    stop,
		Timeframe:   timeframe,
		Notes:       notes,
		Status:      status,
		Date:        time.Now(),
		Tags:        []string{},
	}

	if cmd.Flags().Changed("qty") {
		qty, _ := cmd.Flags().GetInt("qty")
		trade.Quantity = &qty
	}
	if cmd.Flags().Changed("exit") {
		exit, _ := cmd.Flags().GetFloat64("exit")
		trade.ExitPrice = &exit
	}
	if cmd.Flags().Changed("charges") {
		charges, _ := cmd.Flags().GetFloat64("charges")
		trade.Charges = &charges
	}
	if cmd.Flags().Changed("interest") {
		interest, _ := cmd.Flags().GetFloat64("interest")
		trade.InterestPerDay = &interest
	}
	if dateRaw, _ := cmd.Flags().GetString("date"); dateRaw != "" {
		date, err := time.ParseInLocation("2006-01-02", dateRaw, time.Local)
		if err != nil {
			return nil, errInvalidFlag("date", dateRaw)
		}
		trade.Date = date
	}
	if exitDateRaw, _ := cmd.Flags().GetString("exit-date"); exitDateRaw != "" {
		exitDate, err := time.ParseInLocation("2006-01-02", exitDateRaw, time.Local)
		if err != nil {
			return nil, errInvalidFlag("exit-date", exitDateRaw)
		}
		trade.ExitDate = &exitDate
	}
	return trade, nil
}

func newListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List trades",
		Long:  "List trades with optional category, status, month, year and symbol filters.",
		Example: `  tradelog list
  tradelog list --category Intraday --month 3 --year 2024
  tradelog list --search RELI --sort profitDesc`,
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

			if listYears, _ := cmd.Flags().GetBool("years"); listYears {
				years := analytics.AvailableCalendarYears(trades)
				if output.IsJSON() {
					return output.JSON(years)
				}
				for _, year := range years {
					output.Println(year)
				}
				return nil
			}

			filter := filterFromFlags(cmd)
			now := time.Now()
			filtered := analytics.Apply(trades, filter, now)

			if output.IsJSON() {
				return output.JSON(filtered)
			}
			if len(filtered) == 0 {
				output.Info("No trades found.")
				return nil
			}

			table := NewTable(output, "Date", "Symbol", "Category", "Type", "Qty", "Entry", "Exit", "Net P&L", "Status")
			for i := range filtered {
				t := &filtered[i]
				qty := ""
				if t.Quantity != nil {
					qty = strconv.Itoa(*t.Quantity)
				}
				exit := ""
				if t.ExitPrice != nil {
					exit = FormatPrice(*t.ExitPrice)
				}
				pnl := ""
				if net, ok := t.NetPnL(now); ok {
					pnl = output.FormatPnL(net)
				}
				table.AddRow(
					FormatDate(t.Date),
					t.Symbol,
					string(t.Category),
					string(t.Type),
					qty,
					FormatPrice(t.EntryPrice),
					exit,
					pnl,
					string(t.Status),
				)
			}
			table.Render()
			output.Println()
			output.Dim("%d trades", len(filtered))
			return nil
		},
	}

	cmd.Flags().String("category", "", "filter by category")
	cmd.Flags().String("status", "", "filter by status")
	cmd.Flags().Int("month", 0, "filter by calendar month (1-12)")
	cmd.Flags().Int("year", 0, "filter by calendar year")
	cmd.Flags().String("search", "", "filter by symbol substring")
	cmd.Flags().String("sort", "dateDesc", "sort order (dateDesc, dateAsc, nameAsc, profitDesc, profitAsc)")
	cmd.Flags().Bool("years", false, "list the calendar years present in the journal and exit")
	return cmd
}

func filterFromFlags(cmd *cobra.Command) analytics.Filter {
	filter := analytics.Filter{Sort: analytics.SortDateDesc}

	if raw, _ := cmd.Flags().GetString("category"); raw != "" {
		if category, ok := models.ParseCategory(raw); ok {
			filter.Category = &category
		}
	}
	if raw, _ := cmd.Flags().GetString("status"); raw != "" {
		if status, ok := models.ParseStatus(raw); ok {
			filter.Status = &status
		}
	}
	if month, _ := cmd.Flags().GetInt("month"); month >= 1 && month <= 12 {
		filter.Month = &month
	}
	if year, _ := cmd.Flags().GetInt("year"); year > 0 {
		filter.Year = &year
	}
	filter.SearchText, _ = cmd.Flags().GetString("search")
	if raw, _ := cmd.Flags().GetString("sort"); raw != "" {
		filter.Sort = analytics.SortOption(raw)
	}
	return filter
}

func newCloseCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "close <trade-id>",
		Short: "Close an open trade",
		Long:  "Record the exit of an open position and mark it Closed.",
		Example: `  tradelog close 7f3c... --exit 2490.25 --charges 35.40
  tradelog close 7f3c... --exit 980 --exit-date 2024-06-10`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if !requireStore(app, output) {
				return nil
			}
			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			trade, err := app.Store.GetTrade(ctx, args[0])
			if err != nil {
				output.Error("Trade not found: %v", err)
				return err
			}

			exit, _ := cmd.Flags().GetFloat64("exit")
			if exit <= 0 {
				err := errInvalidFlag("exit", FormatPrice(exit))
				output.Error("Invalid exit price: %v", err)
				return err
			}
			trade.ExitPrice = &exit

			exitDate := time.Now()
			if raw, _ := cmd.Flags().GetString("exit-date"); raw != "" {
				exitDate, err = time.ParseInLocation("2006-01-02", raw, time.Local)
				if err != nil {
					output.Error("Invalid exit date: %s", raw)
					return errInvalidFlag("exit-date", raw)
				}
			}
			trade.ExitDate = &exitDate

			if cmd.Flags().Changed("charges") {
				charges, _ := cmd.Flags().GetFloat64("charges")
				trade.Charges = &charges
			}
			trade.Status = models.StatusClosed

			if err := app.Store.UpdateTrade(ctx, trade); err != nil {
				output.Error("Failed to update trade: %v", err)
				return err
			}

			now := time.Now()
			if net, ok := trade.NetPnL(now); ok {
				output.Success("✓ %s closed, net P&L %s", trade.Symbol, output.FormatPnL(net))
			} else {
				output.Success("✓ %s closed", trade.Symbol)
			}
			return nil
		},
	}
	cmd.Flags().Float64("exit", 0, "exit price (required)")
	cmd.Flags().String("exit-date", "", "exit date (2006-01-02, default today)")
	cmd.Flags().Float64("charges", 0, "total brokerage and statutory charges")
	return cmd
}

func newDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <trade-id>",
		Short: "Delete a trade",
		Long:  "Delete a trade and the attachments it references.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if !requireStore(app, output) {
				return nil
			}
			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			id := args[0]
			trade, err := app.Store.GetTrade(ctx, id)
			if err != nil {
				output.Error("Trade not found: %v", err)
				return err
			}

			if err := app.Store.DeleteTrade(ctx, id); err != nil {
				output.Error("Failed to delete trade: %v", err)
				return err
			}

			// Deleting the record orphans its attachments unless we remove
			// them here; the record owns the references.
			if app.Attachments != nil {
				for _, ref := range trade.ImagePaths {
					if err := app.Attachments.Delete(ref); err != nil {
						app.Logger.Warn().Err(err).Str("ref", ref).Msg("failed to delete attachment")
					}
				}
			}

			output.Success("✓ Trade deleted")
			return nil
		},
	}
}

func newAttachCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "attach <trade-id> <image-file>",
		Short:   "Attach a chart image to a trade",
		Example: `  tradelog attach 7f3c... ./reliance-breakout.jpg`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if !requireStore(app, output) {
				return nil
			}
			if app.Attachments == nil {
				output.Warning("Attachment store not initialized.")
				return nil
			}
			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			trade, err := app.Store.GetTrade(ctx, args[0])
			if err != nil {
				output.Error("Trade not found: %v", err)
				return err
			}

			data, err := os.ReadFile(args[1])
			if err != nil {
				output.Error("Failed to read %s: %v", args[1], err)
				return err
			}

			ref, err := app.Attachments.Save(data)
			if err != nil {
				output.Error("Failed to save attachment: %v", err)
				return err
			}

			trade.ImagePaths = append(trade.ImagePaths, ref)
			if err := app.Store.UpdateTrade(ctx, trade); err != nil {
				// The blob is now orphaned; that is accepted, never collected.
				output.Error("Failed to update trade: %v", err)
				return err
			}

			output.Success("✓ Attached %s", ref)
			return nil
		},
	}
}

type flagError struct {
	flag  string
	value string
}

func (e *flagError) Error() string {
	return "invalid --" + e.flag + ": " + e.value
}

func errInvalidFlag(flag, value string) error {
	return &flagError{flag: flag, value: value}
}
