package cli

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"tradelog/internal/analytics"
	"tradelog/internal/journal"
	"tradelog/internal/models"
)

// addDashboardCommands adds the analytics surfaces.
func addDashboardCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newDashboardCmd(app))
	rootCmd.AddCommand(newAnalyticsCmd(app))
	rootCmd.AddCommand(newEdgeCmd(app))
}

// refreshSession applies the month/fy selector flags and refreshes the
// session snapshot.
func refreshSession(cmd *cobra.Command, app *App, output *Output) journal.View {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	if month, _ := cmd.Flags().GetInt("month"); month >= 1 && month <= 12 {
		app.Session.SetMonth(&month)
	}
	if fy, _ := cmd.Flags().GetInt("fy"); fy > 0 {
		app.Session.SetFinancialYear(&fy)
	}

	if err := app.Session.Refresh(ctx); err != nil {
		// Stats stay stale; show whatever the previous snapshot produced.
		output.Warning("Refresh failed, showing previous data: %v", err)
	}
	return app.Session.View()
}

func newDashboardCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show the dashboard",
		Long:  "Show the month-scoped dashboard: P&L summary, win rate, category cards and recent trades.",
		Example: `  tradelog dashboard
  tradelog dashboard --fy 2024 --month 7`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if !requireStore(app, output) {
				return nil
			}
			view := refreshSession(cmd, app, output)
			if output.IsJSON() {
				return output.JSON(view)
			}

			title := "Dashboard"
			if view.SelectedFinancialYear != nil {
				title += " - " + analytics.FYLabel(*view.SelectedFinancialYear)
			}
			if view.SelectedMonth != nil {
				title += " / " + time.Month(*view.SelectedMonth).String()
			}
			output.Bold(title)
			output.Println()

			stats := view.Stats
			output.Printf("  Gross P&L:      %s\n", output.FormatPnL(stats.GrossPnL))
			output.Printf("  Charges:        %s\n", FormatIndianCurrency(stats.TotalCharges))
			output.Printf("  Interest (MTF): %s\n", FormatIndianCurrency(stats.TotalInterest))
			output.Printf("  Net P&L:        %s\n", output.FormatPnL(stats.NetPnL))
			output.Printf("  ROI:            %s  (capital %s)\n", output.FormatPercent(view.ROI), FormatIndianCurrency(view.Capital))
			output.Println()
			output.Printf("  Trades:         %d (%d open)\n", view.TotalTrades, view.OpenTrades)
			output.Printf("  Win Rate:       %.1f%%\n", stats.WinRate)
			output.Printf("  Avg Win:        %s\n", FormatIndianCurrency(stats.AvgWin))
			output.Printf("  Avg Loss:       %s\n", FormatIndianCurrency(stats.AvgLoss))
			output.Println()

			if len(stats.CategoryPnL) > 0 {
				output.Bold("By Category")
				table := NewTable(output, "Category", "Trades", "Net P&L", "Charges")
				for _, category := range models.AllCategories {
					trades, present := view.TradesByCategory[category]
					if !present {
						continue
					}
					table.AddRow(
						string(category),
						strconv.Itoa(len(trades)),
						output.FormatPnL(stats.CategoryPnL[category]),
						FormatIndianCurrency(stats.CategoryCharges[category]),
					)
				}
				table.Render()
				output.Println()
			}

			if len(view.RecentTrades) > 0 {
				output.Bold("Recent Trades")
				now := time.Now()
				table := NewTable(output, "Date", "Symbol", "Category", "Net P&L", "Status")
				for i := range view.RecentTrades {
					t := &view.RecentTrades[i]
					pnl := ""
					if net, ok := t.NetPnL(now); ok {
						pnl = output.FormatPnL(net)
					}
					table.AddRow(FormatDate(t.Date), t.Symbol, string(t.Category), pnl, string(t.Status))
				}
				table.Render()
			}
			return nil
		},
	}
	cmd.Flags().Int("month", 0, "month selector (1-12)")
	cmd.Flags().Int("fy", 0, "financial year selector (starting calendar year)")
	return cmd
}

func newAnalyticsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Show financial-year analytics",
		Long:  "Show the FY-scoped analytics: P&L totals, per-category breakdown and the daily P&L curve. The month selector is ignored here.",
		Example: `  tradelog analytics
  tradelog analytics --fy 2023`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if !requireStore(app, output) {
				return nil
			}
			view := refreshSession(cmd, app, output)
			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"fyStats":                 view.FYStats,
					"fyRoi":                   view.FYROI,
					"availableFinancialYears": view.AvailableFinancialYears,
				})
			}

			title := "Analytics"
			if view.SelectedFinancialYear != nil {
				title += " - " + analytics.FYLabel(*view.SelectedFinancialYear)
			}
			output.Bold(title)
			output.Println()

			stats := view.FYStats
			output.Printf("  Gross P&L:      %s\n", output.FormatPnL(stats.GrossPnL))
			output.Printf("  Charges:        %s\n", FormatIndianCurrency(stats.TotalCharges))
			output.Printf("  Interest (MTF): %s\n", FormatIndianCurrency(stats.TotalInterest))
			output.Printf("  Net P&L:        %s\n", output.FormatPnL(stats.NetPnL))
			output.Printf("  ROI:            %s\n", output.FormatPercent(view.FYROI))
			output.Println()

			if len(stats.CategoryPnL) > 0 {
				output.Bold("Category P&L")
				for _, category := range models.AllCategories {
					pnl, present := stats.CategoryPnL[category]
					if !present {
						continue
					}
					output.Printf("  %-10s %s\n", category, output.FormatPnL(pnl))
				}
				output.Println()
			}

			if len(stats.DailyPnL) > 0 {
				output.Bold("Daily P&L")
				days := make([]time.Time, 0, len(stats.DailyPnL))
				for day := range stats.DailyPnL {
					days = append(days, day)
				}
				sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
				for _, day := range days {
					output.Printf("  %s  %s\n", FormatDate(day), output.FormatPnL(stats.DailyPnL[day]))
				}
			}
			return nil
		},
	}
	cmd.Flags().Int("fy", 0, "financial year selector (starting calendar year)")
	cmd.Flags().Int("month", 0, "month selector (retained for the dashboard scope)")
	return cmd
}

func newEdgeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edge",
		Short: "Compare trading edge across categories",
		Long: `Compare per-category strategy accuracy: win rate, average win and loss
on gross P&L, and total MTF interest. Gross P&L keeps cost drag out of
the accuracy picture.`,
		Example: `  tradelog edge
  tradelog edge --category Intraday --category F&O`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if !requireStore(app, output) {
				return nil
			}
			view := refreshSession(cmd, app, output)

			categories := selectedCategories(cmd)

			if output.IsJSON() {
				result := make(map[string]analytics.EdgeStats)
				for _, category := range categories {
					result[string(category)] = app.Session.EdgeStats(category)
				}
				return output.JSON(result)
			}

			output.Bold("Trading Edge")
			output.Println()
			table := NewTable(output, "Category", "Trades", "Win Rate", "Avg Win", "Avg Loss", "Interest")
			for _, category := range categories {
				if _, present := view.TradesByCategory[category]; !present {
					continue
				}
				edge := app.Session.EdgeStats(category)
				table.AddRow(
					string(category),
					strconv.Itoa(edge.TotalTrades),
					FormatPrice(edge.WinRate)+"%",
					FormatIndianCurrency(edge.AvgWin),
					FormatIndianCurrency(edge.AvgLoss),
					FormatIndianCurrency(edge.TotalInterest),
				)
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().StringArray("category", nil, "categories to compare (default: all present)")
	cmd.Flags().Int("month", 0, "month selector (1-12)")
	cmd.Flags().Int("fy", 0, "financial year selector")
	return cmd
}

func selectedCategories(cmd *cobra.Command) []models.TradeCategory {
	raw, _ := cmd.Flags().GetStringArray("category")
	if len(raw) == 0 {
		return models.AllCategories
	}
	var categories []models.TradeCategory
	for _, r := range raw {
		if category, ok := models.ParseCategory(r); ok {
			categories = append(categories, category)
		}
	}
	return categories
}
