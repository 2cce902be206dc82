// Package journal owns the in-memory working set of the journal: the cached
// trade snapshot, the active month/financial-year selection, the user's
// capital, and the derived dashboard and analytics results.
package journal

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"tradelog/internal/analytics"
	"tradelog/internal/errors"
	"tradelog/internal/models"
	"tradelog/internal/store"
)

// recentTradeLimit caps the dashboard's recent-trades list.
const recentTradeLimit = 20

// View is one consistent set of published results. It is recomputed as a
// whole; consumers never observe a partially updated view.
type View struct {
	// Dashboard scope: financial year + month
	RecentTrades     []models.Trade
	TotalTrades      int
	OpenTrades       int
	Stats            analytics.Stats
	ROI              float64
	TradesByCategory map[models.TradeCategory][]models.Trade

	// Analytics scope: financial year only, month ignored
	FYStats analytics.Stats
	FYROI   float64

	Capital                 float64
	SelectedMonth           *int
	SelectedFinancialYear   *int
	AvailableFinancialYears []int
}

// Session is the single consumer context for the journal working set.
// Filter changes recompute synchronously with last-write-wins semantics;
// a failed refresh leaves the previous snapshot authoritative.
type Session struct {
	store  store.Store
	logger zerolog.Logger
	userID string
	now    func() time.Time

	mu        sync.Mutex
	allTrades []models.Trade
	capital   float64
	month     *int
	fy        *int
	view      View
}

// NewSession creates a session backed by the given store.
func NewSession(st store.Store, logger zerolog.Logger, userID string) *Session {
	return &Session{
		store:  st,
		logger: logger,
		userID: userID,
		now:    time.Now,
	}
}

// SetClock overrides the session clock. Tests only.
func (s *Session) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
	s.recompute()
}

// Refresh fetches a fresh snapshot and recomputes. On any fetch error the
// previous snapshot stays in place and the error is returned for retry.
func (s *Session) Refresh(ctx context.Context) error {
	trades, err := s.store.FetchTrades(ctx, s.userID)
	if err != nil {
		s.logger.Error().Err(err).Msg("refresh failed, keeping previous snapshot")
		return errors.Wrap(err, "refreshing trades")
	}
	capital, err := s.store.FetchCapital(ctx, s.userID)
	if err != nil {
		s.logger.Error().Err(err).Msg("capital fetch failed, keeping previous snapshot")
		return errors.Wrap(err, "refreshing capital")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.allTrades = trades
	s.capital = capital

	// Default to the newest trade's financial year when nothing is selected.
	if s.fy == nil && len(trades) > 0 {
		newest := trades[0]
		for _, t := range trades[1:] {
			if t.Date.After(newest.Date) {
				newest = t
			}
		}
		fy := analytics.FinancialYear(newest.Date)
		s.fy = &fy
	}
	s.recompute()
	return nil
}

// SetMonth selects a month (1-12) or clears the selection with nil.
func (s *Session) SetMonth(month *int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.month = month
	s.recompute()
}

// SetFinancialYear selects a financial year or clears the selection with nil.
func (s *Session) SetFinancialYear(fy *int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fy = fy
	s.recompute()
}

// SetCapital persists the capital and recomputes ROI.
func (s *Session) SetCapital(ctx context.Context, amount float64) error {
	if err := s.store.SetCapital(ctx, s.userID, amount); err != nil {
		return errors.Wrap(err, "saving capital")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.capital = amount
	s.recompute()
	return nil
}

// View returns the current published results.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// AllTrades returns the unfiltered snapshot.
func (s *Session) AllTrades() []models.Trade {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Trade, len(s.allTrades))
	copy(out, s.allTrades)
	return out
}

// EdgeStats computes per-category edge metrics over the dashboard scope.
func (s *Session) EdgeStats(category models.TradeCategory) analytics.EdgeStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return analytics.ComputeEdgeStats(s.view.TradesByCategory[category], s.now())
}

// ImportTrades persists a parsed batch one record at a time. Individual
// failures are logged and skipped; partial import is an accepted outcome.
// Returns the number of records actually saved.
func (s *Session) ImportTrades(ctx context.Context, trades []models.Trade) int {
	added := 0
	for i := range trades {
		trade := trades[i]
		trade.NormalizeForSave()
		if _, err := s.store.AddTrade(ctx, &trade); err != nil {
			s.logger.Warn().Err(err).Str("symbol", trade.Symbol).Msg("import: skipping record")
			continue
		}
		added++
	}
	return added
}

// recompute rebuilds the published view from the current snapshot and filter
// state. Callers hold s.mu. Full recompute every time: the working set is a
// single user's lifetime history.
func (s *Session) recompute() {
	now := s.now()

	baseTrades := analytics.Apply(s.allTrades, analytics.Filter{
		FinancialYear: s.fy,
		Sort:          analytics.SortDateDesc,
	}, now)

	dashboardTrades := baseTrades
	if s.month != nil {
		dashboardTrades = analytics.Apply(baseTrades, analytics.Filter{
			Month: s.month,
			Sort:  analytics.SortDateDesc,
		}, now)
	}

	recent := dashboardTrades
	if len(recent) > recentTradeLimit {
		recent = recent[:recentTradeLimit]
	}

	stats := analytics.ComputeStats(dashboardTrades, now)
	fyStats := analytics.ComputeStats(baseTrades, now)

	s.view = View{
		RecentTrades:            recent,
		TotalTrades:             len(dashboardTrades),
		OpenTrades:              analytics.CountOpen(dashboardTrades),
		Stats:                   stats,
		ROI:                     analytics.ROI(stats.NetPnL, s.capital),
		TradesByCategory:        analytics.GroupByCategory(dashboardTrades),
		FYStats:                 fyStats,
		FYROI:                   analytics.ROI(fyStats.NetPnL, s.capital),
		Capital:                 s.capital,
		SelectedMonth:           s.month,
		SelectedFinancialYear:   s.fy,
		AvailableFinancialYears: analytics.AvailableFinancialYears(s.allTrades),
	}
}
