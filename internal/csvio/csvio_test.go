package csvio

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradelog/internal/models"
)

var testNow = time.Date(2024, 7, 15, 10, 0, 0, 0, time.Local)

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

func sampleTrade() models.Trade {
	return models.Trade{
		ID:         "original-id",
		UserID:     "someone_else",
		Symbol:     "RELIANCE",
		Type:       models.TypeBuy,
		Category:   models.CategoryIntraday,
		EntryPrice: 2440.50,
		ExitPrice:  fptr(2490.25),
		Quantity:   iptr(10),
		Charges:    fptr(35.40),
		Date:       time.Date(2024, 6, 3, 9, 45, 0, 0, time.UTC),
		Status:     models.StatusClosed,
		Notes:      "breakout retest",
	}
}

func TestFormatRow(t *testing.T) {
	trade := sampleTrade()
	row := FormatRow(&trade, testNow)

	assert.Equal(t,
		"2024-06-03 09:45,RELIANCE,Buy,Intraday,10,2440.50,2490.25,35.40,497.50,462.10,Closed,breakout retest",
		row)
}

func TestFormatRow_OpenPositionLeavesPnLBlank(t *testing.T) {
	trade := sampleTrade()
	trade.ExitPrice = nil
	trade.Status = models.StatusExecuted

	cols := strings.Split(FormatRow(&trade, testNow), ",")
	require.Len(t, cols, 12)
	assert.Empty(t, cols[6], "exit price column")
	assert.Empty(t, cols[8], "gross column")
	assert.Empty(t, cols[9], "net column")
}

func TestFormatRow_SanitizesFreeText(t *testing.T) {
	trade := sampleTrade()
	trade.Notes = "gap up,\nwatch volume"

	row := FormatRow(&trade, testNow)
	cols := strings.Split(row, ",")
	require.Len(t, cols, 12, "embedded separators must not add columns")
	assert.Equal(t, "gap up  watch volume", cols[11])
}

func TestRoundTrip(t *testing.T) {
	trade := sampleTrade()
	row := FormatRow(&trade, testNow)

	parsed, err := ParseRow(row, 2)
	require.NoError(t, err)

	assert.Equal(t, trade.Symbol, parsed.Symbol)
	assert.Equal(t, trade.Type, parsed.Type)
	assert.Equal(t, trade.Category, parsed.Category)
	assert.Equal(t, trade.Status, parsed.Status)
	assert.Equal(t, trade.Notes, parsed.Notes)
	assert.InDelta(t, trade.EntryPrice, parsed.EntryPrice, 0.001)
	require.NotNil(t, parsed.ExitPrice)
	assert.InDelta(t, *trade.ExitPrice, *parsed.ExitPrice, 0.001)
	require.NotNil(t, parsed.Quantity)
	assert.Equal(t, *trade.Quantity, *parsed.Quantity)
	require.NotNil(t, parsed.Charges)
	assert.InDelta(t, *trade.Charges, *parsed.Charges, 0.001)
	assert.True(t, trade.Date.Truncate(time.Minute).Equal(parsed.Date.In(trade.Date.Location())),
		"date survives to minute precision")

	// Identity is re-derived on import; ownership reverts to the local user.
	assert.NotEqual(t, trade.ID, parsed.ID)
	assert.NotEmpty(t, parsed.ID)
	assert.Equal(t, models.DefaultUserID, parsed.UserID)
}

func TestParseRow_RequiredFieldFailures(t *testing.T) {
	base := "2024-06-03 09:45,RELIANCE,Buy,Intraday,10,2440.50,2490.25,35.40,497.50,462.10,Closed,notes"

	tests := []struct {
		name string
		row  string
	}{
		{"too few columns", "2024-06-03 09:45,RELIANCE,Buy"},
		{"bad date", strings.Replace(base, "2024-06-03 09:45", "June 3rd", 1)},
		{"bad type", strings.Replace(base, "Buy", "Long", 1)},
		{"bad category", strings.Replace(base, "Intraday", "Scalp", 1)},
		{"bad entry", strings.Replace(base, "2440.50", "n/a", 1)},
		{"bad status", strings.Replace(base, "Closed", "Done", 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRow(tt.row, 3)
			assert.Error(t, err)
		})
	}
}

func TestParseRow_OptionalFieldsTolerated(t *testing.T) {
	row := "2024-06-03 09:45,ITC,Buy,Dividend,,6.25,,,,,Closed,interim dividend"

	trade, err := ParseRow(row, 2)
	require.NoError(t, err)
	assert.Nil(t, trade.Quantity)
	assert.Nil(t, trade.ExitPrice)
	assert.Nil(t, trade.Charges)
	assert.Equal(t, models.CategoryDividend, trade.Category)
	assert.Equal(t, "interim dividend", trade.Notes)
}

func TestRead_SkipsMalformedRows(t *testing.T) {
	good := FormatRow(&models.Trade{
		Symbol: "TCS", Type: models.TypeBuy, Category: models.CategoryDelivery,
		EntryPrice: 3500, Date: testNow, Status: models.StatusClosed,
	}, testNow)

	input := strings.Join([]string{
		Header,
		good,
		good,
		"not,a,row",
		good,
		good,
		"",
	}, "\n")

	trades, skipped, err := Read(strings.NewReader(input))
	require.NoError(t, err)
	assert.Len(t, trades, 4)
	assert.Equal(t, 1, skipped)
}

func TestRead_HeaderOnly(t *testing.T) {
	trades, skipped, err := Read(strings.NewReader(Header + "\n"))
	require.NoError(t, err)
	assert.Empty(t, trades)
	assert.Zero(t, skipped)
}

func TestWrite(t *testing.T) {
	trade := sampleTrade()
	var sb strings.Builder

	require.NoError(t, Write(&sb, []models.Trade{trade}, testNow))

	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, Header, lines[0])
	assert.Equal(t, FormatRow(&trade, testNow), lines[1])
}
