package models

import (
	"testing"
	"time"
)

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }
func tptr(v time.Time) *time.Time {
	return &v
}

var testNow = time.Date(2024, 7, 15, 10, 0, 0, 0, time.Local)

func TestGrossPnL_IntradayBuy(t *testing.T) {
	trade := Trade{
		Category:   CategoryIntraday,
		Type:       TypeBuy,
		EntryPrice: 100,
		ExitPrice:  fptr(110),
		Quantity:   iptr(10),
		Charges:    fptr(5),
	}

	gross, ok := trade.GrossPnL()
	if !ok {
		t.Fatal("expected gross P&L to be defined")
	}
	if gross != 100 {
		t.Errorf("gross = %v, want 100", gross)
	}

	net, ok := trade.NetPnL(testNow)
	if !ok {
		t.Fatal("expected net P&L to be defined")
	}
	if net != 95 {
		t.Errorf("net = %v, want 95", net)
	}
}

func TestGrossPnL_SellDirection(t *testing.T) {
	trade := Trade{
		Category:   CategoryIntraday,
		Type:       TypeSell,
		EntryPrice: 110,
		ExitPrice:  fptr(100),
		Quantity:   iptr(10),
	}
	gross, ok := trade.GrossPnL()
	if !ok || gross != 100 {
		t.Errorf("gross = %v (defined=%v), want 100", gross, ok)
	}
}

func TestGrossPnL_QuantityDefaultsToOne(t *testing.T) {
	trade := Trade{
		Category:   CategoryDelivery,
		Type:       TypeBuy,
		EntryPrice: 100,
		ExitPrice:  fptr(107.5),
	}
	gross, ok := trade.GrossPnL()
	if !ok || gross != 7.5 {
		t.Errorf("gross = %v (defined=%v), want 7.5", gross, ok)
	}
}

func TestGrossPnL_OpenPositionUndefined(t *testing.T) {
	trade := Trade{
		Category:   CategoryDelivery,
		Type:       TypeBuy,
		EntryPrice: 100,
		Quantity:   iptr(10),
	}
	if _, ok := trade.GrossPnL(); ok {
		t.Error("open non-dividend trade should have undefined gross P&L")
	}
	if _, ok := trade.NetPnL(testNow); ok {
		t.Error("open non-dividend trade should have undefined net P&L")
	}
}

func TestGrossPnL_Dividend(t *testing.T) {
	trade := Trade{
		Category:   CategoryDividend,
		EntryPrice: 6.25, // dividend per share
		Quantity:   iptr(400),
	}
	gross, ok := trade.GrossPnL()
	if !ok || gross != 2500 {
		t.Errorf("gross = %v (defined=%v), want 2500", gross, ok)
	}
}

func TestGrossPnL_DividendMissingQuantity(t *testing.T) {
	trade := Trade{
		Category:   CategoryDividend,
		EntryPrice: 6.25,
	}
	gross, ok := trade.GrossPnL()
	if !ok || gross != 0 {
		t.Errorf("gross = %v (defined=%v), want 0 for dividend without quantity", gross, ok)
	}
}

func TestDaysHeld(t *testing.T) {
	entry := time.Date(2024, 7, 1, 9, 30, 0, 0, time.Local)

	tests := []struct {
		name     string
		exitDate *time.Time
		now      time.Time
		want     int
	}{
		{"same day floors to one", tptr(entry.Add(4 * time.Hour)), testNow, 1},
		{"five whole days", tptr(entry.AddDate(0, 0, 5)), testNow, 5},
		{"open position measured against now", nil, entry.AddDate(0, 0, 3), 3},
		{"exit before entry floors to one", tptr(entry.AddDate(0, 0, -2)), testNow, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trade := Trade{Date: entry, ExitDate: tt.exitDate}
			if got := trade.DaysHeld(tt.now); got != tt.want {
				t.Errorf("DaysHeld = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCalculatedInterest_MTF(t *testing.T) {
	entry := time.Date(2024, 7, 1, 0, 0, 0, 0, time.Local)
	trade := Trade{
		Category:       CategoryMTF,
		Type:           TypeBuy,
		EntryPrice:     100,
		ExitPrice:      fptr(110),
		ExitDate:       tptr(entry.AddDate(0, 0, 5)),
		Quantity:       iptr(10),
		Charges:        fptr(10),
		InterestPerDay: fptr(2),
		Date:           entry,
	}

	if got := trade.CalculatedInterest(testNow); got != 10 {
		t.Errorf("interest = %v, want 10", got)
	}
	net, ok := trade.NetPnL(testNow)
	if !ok || net != 80 {
		t.Errorf("net = %v (defined=%v), want 80", net, ok)
	}
}

func TestCalculatedInterest_ZeroOutsideMTF(t *testing.T) {
	trade := Trade{
		Category:       CategoryDelivery,
		InterestPerDay: fptr(2),
		Date:           testNow.AddDate(0, 0, -10),
	}
	if got := trade.CalculatedInterest(testNow); got != 0 {
		t.Errorf("interest = %v, want 0 for non-MTF category", got)
	}

	mtf := Trade{Category: CategoryMTF, Date: testNow.AddDate(0, 0, -10)}
	if got := mtf.CalculatedInterest(testNow); got != 0 {
		t.Errorf("interest = %v, want 0 when no rate is set", got)
	}
}

func TestRiskRewardRatio(t *testing.T) {
	trade := Trade{EntryPrice: 100, TargetPrice: 120, StopLoss: 90}
	if got := trade.RiskRewardRatio(); got != 2 {
		t.Errorf("risk-reward = %v, want 2", got)
	}

	flat := Trade{EntryPrice: 100, TargetPrice: 120, StopLoss: 100}
	if got := flat.RiskRewardRatio(); got != 0 {
		t.Errorf("risk-reward = %v, want 0 when stop sits on entry", got)
	}
}

func TestPnL_FallsBackToGross(t *testing.T) {
	trade := Trade{
		Category:   CategoryIntraday,
		Type:       TypeBuy,
		EntryPrice: 100,
		ExitPrice:  fptr(110),
		Quantity:   iptr(10),
	}
	pnl, ok := trade.PnL(testNow)
	if !ok || pnl != 100 {
		t.Errorf("pnl = %v (defined=%v), want 100", pnl, ok)
	}
}

func TestValidateForSave(t *testing.T) {
	valid := Trade{
		Symbol:      "RELIANCE",
		Category:    CategoryIntraday,
		EntryPrice:  2440,
		TargetPrice: 2500,
		StopLoss:    2400,
	}
	if err := valid.ValidateForSave(); err != nil {
		t.Errorf("valid trade rejected: %v", err)
	}

	tests := []struct {
		name  string
		trade Trade
	}{
		{"blank symbol", Trade{Symbol: "  ", Category: CategoryDelivery, EntryPrice: 100}},
		{"zero entry", Trade{Symbol: "TCS", Category: CategoryDelivery}},
		{"intraday without target", Trade{Symbol: "TCS", Category: CategoryIntraday, EntryPrice: 100, StopLoss: 95}},
		{"fno without stop", Trade{Symbol: "NIFTY", Category: CategoryFnO, EntryPrice: 100, TargetPrice: 110}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.trade.ValidateForSave(); err == nil {
				t.Error("expected validation error")
			}
		})
	}

	// Target and stop are only mandatory for the directional categories.
	mtf := Trade{Symbol: "TCS", Category: CategoryMTF, EntryPrice: 100}
	if err := mtf.ValidateForSave(); err != nil {
		t.Errorf("MTF without target/stop rejected: %v", err)
	}
}

func TestNormalizeForSave(t *testing.T) {
	trade := Trade{
		Symbol:   " reliance ",
		Category: CategoryDividend,
		Type:     TypeSell,
		Status:   StatusPlanned,
	}
	trade.NormalizeForSave()

	if trade.Symbol != "RELIANCE" {
		t.Errorf("symbol = %q, want RELIANCE", trade.Symbol)
	}
	if trade.Type != TypeBuy {
		t.Errorf("type = %v, want forced Buy", trade.Type)
	}
	if trade.Status != StatusClosed {
		t.Errorf("status = %v, want auto-Closed", trade.Status)
	}
}

func TestNormalizeForSave_IntradayKeepsTypeAndStatus(t *testing.T) {
	trade := Trade{
		Symbol:   "tcs",
		Category: CategoryIntraday,
		Type:     TypeSell,
		Status:   StatusExecuted,
	}
	trade.NormalizeForSave()

	if trade.Type != TypeSell {
		t.Errorf("type = %v, want Sell preserved", trade.Type)
	}
	if trade.Status != StatusExecuted {
		t.Errorf("status = %v, want Executed preserved", trade.Status)
	}

	// MTF forces Buy but stays open.
	mtf := Trade{Symbol: "itc", Category: CategoryMTF, Type: TypeSell, Status: StatusExecuted}
	mtf.NormalizeForSave()
	if mtf.Type != TypeBuy {
		t.Errorf("MTF type = %v, want forced Buy", mtf.Type)
	}
	if mtf.Status != StatusExecuted {
		t.Errorf("MTF status = %v, want Executed preserved", mtf.Status)
	}
}

func TestParseCategory(t *testing.T) {
	if c, ok := ParseCategory("F&O"); !ok || c != CategoryFnO {
		t.Errorf("ParseCategory(F&O) = %v, %v", c, ok)
	}
	if _, ok := ParseCategory("Options"); ok {
		t.Error("unknown category should not parse")
	}
}
