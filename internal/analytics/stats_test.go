package analytics

import (
	"math"
	"testing"
	"time"

	"tradelog/internal/models"
)

var statsNow = time.Date(2024, 7, 15, 10, 0, 0, 0, time.Local)

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

func closedTrade(symbol string, category models.TradeCategory, entry, exit float64, qty int, charges float64, date time.Time) models.Trade {
	return models.Trade{
		Symbol:     symbol,
		Type:       models.TypeBuy,
		Category:   category,
		EntryPrice: entry,
		ExitPrice:  fptr(exit),
		Quantity:   iptr(qty),
		Charges:    fptr(charges),
		Date:       date,
		Status:     models.StatusClosed,
	}
}

func TestComputeStats_WinRateCountsStrictlyPositiveNet(t *testing.T) {
	date := time.Date(2024, 6, 1, 10, 0, 0, 0, time.Local)
	trades := []models.Trade{
		closedTrade("A", models.CategoryIntraday, 100, 150, 1, 0, date), // net +50
		closedTrade("B", models.CategoryIntraday, 100, 80, 1, 0, date),  // net -20
		closedTrade("C", models.CategoryIntraday, 100, 110, 1, 10, date), // net 0
	}

	s := ComputeStats(trades, statsNow)

	want := 100.0 / 3.0
	if math.Abs(s.WinRate-want) > 0.01 {
		t.Errorf("winRate = %v, want %.2f", s.WinRate, want)
	}
	if s.GrossPnL != 40 {
		t.Errorf("gross = %v, want 40", s.GrossPnL)
	}
	if s.NetPnL != 30 {
		t.Errorf("net = %v, want 30", s.NetPnL)
	}
	if s.TotalCharges != 10 {
		t.Errorf("charges = %v, want 10", s.TotalCharges)
	}
}

func TestComputeStats_AvgWinLossPartitionOnGross(t *testing.T) {
	date := time.Date(2024, 6, 1, 10, 0, 0, 0, time.Local)
	trades := []models.Trade{
		closedTrade("A", models.CategoryIntraday, 100, 160, 1, 0, date), // gross +60
		closedTrade("B", models.CategoryIntraday, 100, 120, 1, 0, date), // gross +20
		closedTrade("C", models.CategoryIntraday, 100, 70, 1, 0, date),  // gross -30
		closedTrade("D", models.CategoryIntraday, 100, 100, 1, 5, date), // gross 0, counts as win side
	}

	s := ComputeStats(trades, statsNow)

	if math.Abs(s.AvgWin-80.0/3.0) > 0.01 {
		t.Errorf("avgWin = %v, want %.2f", s.AvgWin, 80.0/3.0)
	}
	if s.AvgLoss != -30 {
		t.Errorf("avgLoss = %v, want -30", s.AvgLoss)
	}
}

func TestComputeStats_SkipsOpenPositions(t *testing.T) {
	date := time.Date(2024, 6, 1, 10, 0, 0, 0, time.Local)
	open := models.Trade{
		Symbol:     "OPEN",
		Type:       models.TypeBuy,
		Category:   models.CategoryDelivery,
		EntryPrice: 100,
		Quantity:   iptr(10),
		Charges:    fptr(50),
		Date:       date,
		Status:     models.StatusExecuted,
	}
	trades := []models.Trade{
		open,
		closedTrade("A", models.CategoryIntraday, 100, 150, 1, 0, date),
	}

	s := ComputeStats(trades, statsNow)

	// The open position contributes nothing, not even its charges.
	if s.TotalCharges != 0 {
		t.Errorf("charges = %v, want 0", s.TotalCharges)
	}
	if s.GrossPnL != 50 {
		t.Errorf("gross = %v, want 50", s.GrossPnL)
	}
	if s.WinRate != 100 {
		t.Errorf("winRate = %v, want 100", s.WinRate)
	}
}

func TestComputeStats_DividendRealizesWithoutExit(t *testing.T) {
	date := time.Date(2024, 6, 1, 10, 0, 0, 0, time.Local)
	dividend := models.Trade{
		Symbol:     "ITC",
		Category:   models.CategoryDividend,
		EntryPrice: 6.25,
		Quantity:   iptr(400),
		Date:       date,
		Status:     models.StatusClosed,
	}

	s := ComputeStats([]models.Trade{dividend}, statsNow)
	if s.GrossPnL != 2500 {
		t.Errorf("gross = %v, want 2500", s.GrossPnL)
	}
	if s.CategoryPnL[models.CategoryDividend] != 2500 {
		t.Errorf("category net = %v, want 2500", s.CategoryPnL[models.CategoryDividend])
	}
}

func TestComputeStats_MTFInterestInNet(t *testing.T) {
	entry := time.Date(2024, 6, 1, 0, 0, 0, 0, time.Local)
	exit := entry.AddDate(0, 0, 5)
	mtf := models.Trade{
		Symbol:         "TATAMOTORS",
		Type:           models.TypeBuy,
		Category:       models.CategoryMTF,
		EntryPrice:     100,
		ExitPrice:      fptr(110),
		ExitDate:       &exit,
		Quantity:       iptr(10),
		Charges:        fptr(10),
		InterestPerDay: fptr(2),
		Date:           entry,
		Status:         models.StatusClosed,
	}

	s := ComputeStats([]models.Trade{mtf}, statsNow)

	if s.TotalInterest != 10 {
		t.Errorf("interest = %v, want 10", s.TotalInterest)
	}
	if s.NetPnL != 80 {
		t.Errorf("net = %v, want 80", s.NetPnL)
	}
	if s.CategoryPnL[models.CategoryMTF] != 80 {
		t.Errorf("category net = %v, want 80", s.CategoryPnL[models.CategoryMTF])
	}
}

func TestComputeStats_DailyPnLGroupsByCalendarDay(t *testing.T) {
	day := time.Date(2024, 6, 3, 0, 0, 0, 0, time.Local)
	trades := []models.Trade{
		closedTrade("A", models.CategoryIntraday, 100, 150, 1, 0, day.Add(10*time.Hour)),
		closedTrade("B", models.CategoryIntraday, 100, 90, 1, 0, day.Add(14*time.Hour)),
		closedTrade("C", models.CategoryIntraday, 100, 120, 1, 0, day.AddDate(0, 0, 1)),
	}

	s := ComputeStats(trades, statsNow)

	if len(s.DailyPnL) != 2 {
		t.Fatalf("daily buckets = %d, want 2", len(s.DailyPnL))
	}
	if s.DailyPnL[DayKey(day)] != 40 {
		t.Errorf("day 1 net = %v, want 40", s.DailyPnL[DayKey(day)])
	}
}

func TestComputeStats_Empty(t *testing.T) {
	s := ComputeStats(nil, statsNow)
	if s.WinRate != 0 || s.AvgWin != 0 || s.AvgLoss != 0 || s.NetPnL != 0 {
		t.Errorf("empty stats should be all zero, got %+v", s)
	}
}

func TestROI(t *testing.T) {
	if got := ROI(5000, 50000); got != 10 {
		t.Errorf("ROI = %v, want 10", got)
	}
	if got := ROI(5000, 0); got != 0 {
		t.Errorf("ROI with zero capital = %v, want 0", got)
	}
	if got := ROI(-2500, 50000); got != -5 {
		t.Errorf("ROI = %v, want -5", got)
	}
}

func TestGroupByCategory(t *testing.T) {
	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.Local)
	trades := []models.Trade{
		closedTrade("A", models.CategoryIntraday, 100, 110, 1, 0, date),
		closedTrade("B", models.CategoryIntraday, 100, 110, 1, 0, date),
		closedTrade("C", models.CategoryDelivery, 100, 110, 1, 0, date),
	}
	grouped := GroupByCategory(trades)
	if len(grouped[models.CategoryIntraday]) != 2 {
		t.Errorf("intraday = %d, want 2", len(grouped[models.CategoryIntraday]))
	}
	if len(grouped[models.CategoryDelivery]) != 1 {
		t.Errorf("delivery = %d, want 1", len(grouped[models.CategoryDelivery]))
	}
}

func TestCountOpen(t *testing.T) {
	trades := []models.Trade{
		{Status: models.StatusPlanned},
		{Status: models.StatusExecuted},
		{Status: models.StatusClosed},
	}
	if got := CountOpen(trades); got != 2 {
		t.Errorf("open = %d, want 2", got)
	}
}
