// Package models defines the journal's core data types.
package models

import "time"

// TradeCategory determines which computed-field formula variant applies.
type TradeCategory string

const (
	CategoryDelivery TradeCategory = "Delivery"
	CategoryIntraday TradeCategory = "Intraday"
	CategoryMTF      TradeCategory = "MTF"
	CategoryFnO      TradeCategory = "F&O"
	CategoryBuyback  TradeCategory = "Buyback"
	CategoryIPO      TradeCategory = "IPO"
	CategoryDividend TradeCategory = "Dividend"
)

// AllCategories lists every trade category in display order.
var AllCategories = []TradeCategory{
	CategoryDelivery,
	CategoryIntraday,
	CategoryMTF,
	CategoryFnO,
	CategoryBuyback,
	CategoryIPO,
	CategoryDividend,
}

// ParseCategory parses a category display string.
func ParseCategory(s string) (TradeCategory, bool) {
	for _, c := range AllCategories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// TradeType represents the trade direction.
type TradeType string

const (
	TypeBuy  TradeType = "Buy"
	TypeSell TradeType = "Sell"
)

// ParseType parses a trade type display string.
func ParseType(s string) (TradeType, bool) {
	switch TradeType(s) {
	case TypeBuy, TypeSell:
		return TradeType(s), true
	}
	return "", false
}

// TradeStatus represents the lifecycle state of a trade.
type TradeStatus string

const (
	StatusPlanned  TradeStatus = "Planned"
	StatusExecuted TradeStatus = "Executed"
	StatusClosed   TradeStatus = "Closed"
)

// ParseStatus parses a trade status display string.
func ParseStatus(s string) (TradeStatus, bool) {
	switch TradeStatus(s) {
	case StatusPlanned, StatusExecuted, StatusClosed:
		return TradeStatus(s), true
	}
	return "", false
}

// Trade is a single journal record. Optional fields are pointers; their
// absence carries meaning (an absent ExitPrice marks an open position, an
// absent Quantity defaults differently for P&L and dividend math).
//
// For the Dividend category EntryPrice stores dividend-per-share, not an
// entry price.
type Trade struct {
	ID             string
	UserID         string
	Symbol         string
	Type           TradeType
	Category       TradeCategory
	EntryPrice     float64
	TargetPrice    float64
	StopLoss       float64
	Quantity       *int
	Timeframe      string // e.g. "5m", "1H", "Daily"; empty when unset
	Notes          string
	Tags           []string
	ImagePaths     []string
	Date           time.Time
	ExitPrice      *float64
	ExitDate       *time.Time
	Charges        *float64
	InterestPerDay *float64 // daily margin-interest rate, MTF only
	Status         TradeStatus
}

// DaysHeld returns the holding period in whole days, never less than 1.
// Open positions are measured against now.
func (t *Trade) DaysHeld(now time.Time) int {
	end := now
	if t.ExitDate != nil {
		end = *t.ExitDate
	}
	days := int(end.Sub(t.Date).Hours() / 24)
	if days < 1 {
		return 1
	}
	return days
}

// CalculatedInterest returns the margin interest accrued so far.
// Zero for every category except MTF.
func (t *Trade) CalculatedInterest(now time.Time) float64 {
	if t.Category != CategoryMTF || t.InterestPerDay == nil {
		return 0
	}
	return *t.InterestPerDay * float64(t.DaysHeld(now))
}

// RiskRewardRatio returns reward/risk relative to the entry price,
// or 0 when the stop sits on the entry.
func (t *Trade) RiskRewardRatio() float64 {
	risk := abs(t.EntryPrice - t.StopLoss)
	if risk == 0 {
		return 0
	}
	return abs(t.TargetPrice-t.EntryPrice) / risk
}

// GrossPnL returns the realized profit or loss before charges and interest.
// The second return value is false when the trade has no realized P&L
// (open position that is not a dividend entry).
func (t *Trade) GrossPnL() (float64, bool) {
	if t.Category == CategoryDividend {
		qty := 0
		if t.Quantity != nil {
			qty = *t.Quantity
		}
		return t.EntryPrice * float64(qty), true
	}

	if t.ExitPrice == nil {
		return 0, false
	}
	qty := 1
	if t.Quantity != nil {
		qty = *t.Quantity
	}
	if t.Type == TypeBuy {
		return (*t.ExitPrice - t.EntryPrice) * float64(qty), true
	}
	return (t.EntryPrice - *t.ExitPrice) * float64(qty), true
}

// NetPnL returns gross P&L minus charges and, for MTF, accrued interest.
// Defined exactly when GrossPnL is defined.
func (t *Trade) NetPnL(now time.Time) (float64, bool) {
	gross, ok := t.GrossPnL()
	if !ok {
		return 0, false
	}
	net := gross - t.ChargesOrZero()
	if t.Category == CategoryMTF {
		net -= t.CalculatedInterest(now)
	}
	return net, true
}

// PnL is the display alias: net when available, else gross.
func (t *Trade) PnL(now time.Time) (float64, bool) {
	if net, ok := t.NetPnL(now); ok {
		return net, true
	}
	return t.GrossPnL()
}

// ChargesOrZero returns the charges, defaulting to 0.
func (t *Trade) ChargesOrZero() float64 {
	if t.Charges == nil {
		return 0
	}
	return *t.Charges
}

// Realized reports whether the trade has a computable gross P&L.
func (t *Trade) Realized() bool {
	_, ok := t.GrossPnL()
	return ok
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
