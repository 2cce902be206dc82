package analytics

import (
	"time"

	"tradelog/internal/models"
)

// EdgeStats are per-category strategy-accuracy metrics. Win rate and the
// win/loss averages are computed on gross P&L, deliberately decoupled from
// cost drag; interest is summed over the whole category set so open MTF
// positions still show their accrued cost.
type EdgeStats struct {
	WinRate       float64
	TotalTrades   int
	AvgWin        float64
	AvgLoss       float64
	TotalInterest float64
}

// ComputeEdgeStats computes edge metrics for one category's scope-filtered
// trades (one value of the GroupByCategory result).
func ComputeEdgeStats(trades []models.Trade, now time.Time) EdgeStats {
	e := EdgeStats{TotalTrades: len(trades)}

	var closed, winning int
	var winSum, lossSum float64
	var winCount, lossCount int

	for i := range trades {
		t := &trades[i]
		e.TotalInterest += t.CalculatedInterest(now)

		if t.Status != models.StatusClosed && t.ExitPrice == nil {
			continue
		}
		closed++

		gross, ok := t.GrossPnL()
		if !ok {
			continue
		}
		if gross > 0 {
			winning++
		}
		if gross >= 0 {
			winSum += gross
			winCount++
		} else {
			lossSum += gross
			lossCount++
		}
	}

	if closed > 0 {
		e.WinRate = float64(winning) / float64(closed) * 100
	}
	if winCount > 0 {
		e.AvgWin = winSum / float64(winCount)
	}
	if lossCount > 0 {
		e.AvgLoss = lossSum / float64(lossCount)
	}
	return e
}
