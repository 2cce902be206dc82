package analytics

import (
	"time"

	"tradelog/internal/models"
)

// Stats holds every rollup for one aggregation scope. The same function
// computes the FY-only "analytics" scope and the FY+month "dashboard" scope;
// only the input set differs.
type Stats struct {
	GrossPnL      float64
	TotalCharges  float64
	TotalInterest float64
	NetPnL        float64

	// WinRate is the percentage of realized trades with strictly positive
	// net P&L. Zero-P&L trades count toward the denominator only.
	WinRate float64

	// AvgWin and AvgLoss are means of gross, not net, P&L. This isolates
	// strategy edge from cost impact.
	AvgWin  float64
	AvgLoss float64

	CategoryPnL     map[models.TradeCategory]float64
	CategoryCharges map[models.TradeCategory]float64

	// DailyPnL keys are DayKey truncations; it feeds the equity curve and
	// the calendar heatmap.
	DailyPnL map[time.Time]float64
}

// ComputeStats computes the period rollups over a scope-filtered collection.
// Only realized records (those with a defined gross P&L) participate in the
// sums and in win/loss classification; open positions contribute nothing here
// and are counted separately by the caller.
func ComputeStats(trades []models.Trade, now time.Time) Stats {
	s := Stats{
		CategoryPnL:     make(map[models.TradeCategory]float64),
		CategoryCharges: make(map[models.TradeCategory]float64),
		DailyPnL:        make(map[time.Time]float64),
	}

	var realized, winning int
	var winSum, lossSum float64
	var winCount, lossCount int

	for i := range trades {
		t := &trades[i]
		gross, ok := t.GrossPnL()
		if !ok {
			continue
		}
		realized++

		net, _ := t.NetPnL(now) // defined whenever gross is defined
		interest := t.CalculatedInterest(now)

		s.GrossPnL += gross
		s.TotalCharges += t.ChargesOrZero()
		s.TotalInterest += interest

		if net > 0 {
			winning++
		}

		if gross >= 0 {
			winSum += gross
			winCount++
		} else {
			lossSum += gross
			lossCount++
		}

		s.CategoryPnL[t.Category] += net
		s.CategoryCharges[t.Category] += t.ChargesOrZero()
		s.DailyPnL[DayKey(t.Date)] += net
	}

	s.NetPnL = s.GrossPnL - s.TotalCharges - s.TotalInterest

	if realized > 0 {
		s.WinRate = float64(winning) / float64(realized) * 100
	}
	if winCount > 0 {
		s.AvgWin = winSum / float64(winCount)
	}
	if lossCount > 0 {
		s.AvgLoss = lossSum / float64(lossCount)
	}
	return s
}

// ROI returns net P&L as a percentage of capital, or 0 when no capital is set.
func ROI(netPnL, capital float64) float64 {
	if capital <= 0 {
		return 0
	}
	return netPnL / capital * 100
}

// GroupByCategory groups a scope-filtered collection by category. Feeds the
// dashboard card list and the per-category edge statistics.
func GroupByCategory(trades []models.Trade) map[models.TradeCategory][]models.Trade {
	grouped := make(map[models.TradeCategory][]models.Trade)
	for _, t := range trades {
		grouped[t.Category] = append(grouped[t.Category], t)
	}
	return grouped
}

// CountOpen returns the number of trades not yet closed.
func CountOpen(trades []models.Trade) int {
	n := 0
	for i := range trades {
		if trades[i].Status != models.StatusClosed {
			n++
		}
	}
	return n
}
