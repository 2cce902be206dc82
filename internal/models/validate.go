package models

import (
	"strings"

	"tradelog/internal/errors"
)

// directionalCategories are the categories where target and stop are
// mandatory on save. The rest either have an implicit direction
// (Delivery, IPO, Buyback, Dividend) or carry interest instead (MTF).
var directionalCategories = map[TradeCategory]bool{
	CategoryIntraday: true,
	CategoryFnO:      true,
}

// forcedBuyCategories always save with Type Buy; the type picker is hidden
// for these in the original workflow.
var forcedBuyCategories = map[TradeCategory]bool{
	CategoryDelivery: true,
	CategoryIPO:      true,
	CategoryBuyback:  true,
	CategoryDividend: true,
	CategoryMTF:      true,
}

// autoClosedCategories are created directly in Closed status.
var autoClosedCategories = map[TradeCategory]bool{
	CategoryDelivery: true,
	CategoryBuyback:  true,
	CategoryIPO:      true,
	CategoryDividend: true,
}

// ValidateForSave checks the required numeric fields for the trade's
// category. A failure means no save happens at all.
func (t *Trade) ValidateForSave() error {
	if strings.TrimSpace(t.Symbol) == "" {
		return errors.NewValidationError("symbol", t.Symbol, "symbol is required")
	}
	if t.EntryPrice <= 0 {
		return errors.NewValidationError("entryPrice", t.EntryPrice, "entry price is required")
	}
	if directionalCategories[t.Category] {
		if t.TargetPrice == 0 {
			return errors.NewValidationError("targetPrice", t.TargetPrice, "target price is required for "+string(t.Category))
		}
		if t.StopLoss == 0 {
			return errors.NewValidationError("stopLoss", t.StopLoss, "stop loss is required for "+string(t.Category))
		}
	}
	return nil
}

// NormalizeForSave applies the save-time conventions: symbol uppercased,
// type forced to Buy where direction is implicit, and auto-closed status
// for the realize-on-entry categories.
func (t *Trade) NormalizeForSave() {
	t.Symbol = strings.ToUpper(strings.TrimSpace(t.Symbol))
	if forcedBuyCategories[t.Category] {
		t.Type = TypeBuy
	}
	if autoClosedCategories[t.Category] {
		t.Status = StatusClosed
	}
}
