package analytics

import (
	"sort"
	"strings"
	"time"

	"tradelog/internal/models"
)

// SortOption selects the comparator for the filtered list.
type SortOption string

const (
	SortDateDesc   SortOption = "dateDesc"
	SortDateAsc    SortOption = "dateAsc"
	SortNameAsc    SortOption = "nameAsc"
	SortProfitDesc SortOption = "profitDesc"
	SortProfitAsc  SortOption = "profitAsc"
)

// Filter is the list-view filter state. Nil selectors mean no constraint.
// Year filters on the plain calendar year; FinancialYear on the April-March
// bucket. The list view uses Year, the dashboard surfaces use FinancialYear.
type Filter struct {
	Category      *models.TradeCategory
	Status        *models.TradeStatus
	Month         *int // 1-12
	Year          *int
	FinancialYear *int
	SearchText    string
	Sort          SortOption
}

// Apply filters and sorts a trade collection. The input is never mutated;
// the result is a fresh slice. Undefined net P&L compares as exactly 0 in
// the profit sorts.
func Apply(trades []models.Trade, f Filter, now time.Time) []models.Trade {
	result := make([]models.Trade, 0, len(trades))
	for _, t := range trades {
		if f.Category != nil && t.Category != *f.Category {
			continue
		}
		if f.Status != nil && t.Status != *f.Status {
			continue
		}
		if f.Month != nil && int(t.Date.Month()) != *f.Month {
			continue
		}
		if f.Year != nil && t.Date.Year() != *f.Year {
			continue
		}
		if f.FinancialYear != nil && FinancialYear(t.Date) != *f.FinancialYear {
			continue
		}
		if f.SearchText != "" && !strings.Contains(strings.ToLower(t.Symbol), strings.ToLower(f.SearchText)) {
			continue
		}
		result = append(result, t)
	}

	switch f.Sort {
	case SortDateAsc:
		sort.SliceStable(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	case SortNameAsc:
		sort.SliceStable(result, func(i, j int) bool { return result[i].Symbol < result[j].Symbol })
	case SortProfitDesc:
		sort.SliceStable(result, func(i, j int) bool { return netOrZero(&result[i], now) > netOrZero(&result[j], now) })
	case SortProfitAsc:
		sort.SliceStable(result, func(i, j int) bool { return netOrZero(&result[i], now) < netOrZero(&result[j], now) })
	case SortDateDesc:
		fallthrough
	default:
		sort.SliceStable(result, func(i, j int) bool { return result[i].Date.After(result[j].Date) })
	}
	return result
}

func netOrZero(t *models.Trade, now time.Time) float64 {
	net, ok := t.NetPnL(now)
	if !ok {
		return 0
	}
	return net
}
