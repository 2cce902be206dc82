// Package csvio maps trade records to and from the journal's fixed-column
// row format. The format is deliberately simple: commas and newlines inside
// free-text fields are replaced with spaces instead of quoting, so a row is
// always a plain comma split. This is not a general CSV implementation.
package csvio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"tradelog/internal/errors"
	"tradelog/internal/models"
)

// Header is the single header row of the export stream.
const Header = "Date,Symbol,Type,Category,Quantity,Entry Price,Exit Price,Charges,Gross P&L,Net P&L,Status,Notes"

const dateLayout = "2006-01-02 15:04"

// FormatRow renders one trade as an export row. Monetary values use fixed
// 2-decimal precision; absent optionals render as empty columns.
func FormatRow(t *models.Trade, now time.Time) string {
	quantity := ""
	if t.Quantity != nil {
		quantity = strconv.Itoa(*t.Quantity)
	}
	exitPrice := ""
	if t.ExitPrice != nil {
		exitPrice = fmt.Sprintf("%.2f", *t.ExitPrice)
	}
	charges := "0.00"
	if t.Charges != nil {
		charges = fmt.Sprintf("%.2f", *t.Charges)
	}
	grossPnL := ""
	if gross, ok := t.GrossPnL(); ok {
		grossPnL = fmt.Sprintf("%.2f", gross)
	}
	netPnL := ""
	if net, ok := t.NetPnL(now); ok {
		netPnL = fmt.Sprintf("%.2f", net)
	}

	cols := []string{
		t.Date.Format(dateLayout),
		sanitize(t.Symbol),
		string(t.Type),
		string(t.Category),
		quantity,
		fmt.Sprintf("%.2f", t.EntryPrice),
		exitPrice,
		charges,
		grossPnL,
		netPnL,
		string(t.Status),
		sanitize(t.Notes),
	}
	return strings.Join(cols, ",")
}

// sanitize strips the characters that would break column integrity.
func sanitize(s string) string {
	s = strings.ReplaceAll(s, ",", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}

// ParseRow parses one import row back into a trade record. The ID is always
// re-derived and the P&L columns are ignored; gross and net are recomputed
// from the stored fields. A missing or unparseable required field returns a
// row-level ParseError.
func ParseRow(line string, lineNo int) (models.Trade, error) {
	cols := strings.Split(line, ",")
	if len(cols) < 11 {
		return models.Trade{}, errors.NewParseError(lineNo, "row", line)
	}

	date, err := time.Parse(dateLayout, cols[0])
	if err != nil {
		return models.Trade{}, errors.NewParseError(lineNo, "date", cols[0])
	}
	tradeType, ok := models.ParseType(cols[2])
	if !ok {
		return models.Trade{}, errors.NewParseError(lineNo, "type", cols[2])
	}
	category, ok := models.ParseCategory(cols[3])
	if !ok {
		return models.Trade{}, errors.NewParseError(lineNo, "category", cols[3])
	}
	entryPrice, err := strconv.ParseFloat(cols[5], 64)
	if err != nil {
		return models.Trade{}, errors.NewParseError(lineNo, "entry price", cols[5])
	}
	status, ok := models.ParseStatus(cols[10])
	if !ok {
		return models.Trade{}, errors.NewParseError(lineNo, "status", cols[10])
	}

	trade := models.Trade{
		ID:         uuid.NewString(),
		UserID:     models.DefaultUserID,
		Symbol:     cols[1],
		Type:       tradeType,
		Category:   category,
		EntryPrice: entryPrice,
		Date:       date,
		Status:     status,
		Tags:       []string{},
	}
	if qty, err := strconv.Atoi(cols[4]); err == nil {
		trade.Quantity = &qty
	}
	if exit, err := strconv.ParseFloat(cols[6], 64); err == nil {
		trade.ExitPrice = &exit
	}
	if charges, err := strconv.ParseFloat(cols[7], 64); err == nil {
		trade.Charges = &charges
	}
	if len(cols) > 11 {
		trade.Notes = cols[11]
	}
	return trade, nil
}

// Write writes the header and one row per trade to w as UTF-8 text.
func Write(w io.Writer, trades []models.Trade, now time.Time) error {
	if _, err := fmt.Fprintln(w, Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i := range trades {
		if _, err := fmt.Fprintln(w, FormatRow(&trades[i], now)); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}
	return nil
}

// Read parses an import stream. Rows that fail to parse a required field are
// silently dropped; partial success is expected. The skipped count is
// returned for batch-level logging only.
func Read(r io.Reader) (trades []models.Trade, skipped int, err error) {
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if lineNo == 1 || line == "" {
			continue // header / trailing blank
		}
		trade, perr := ParseRow(line, lineNo)
		if perr != nil {
			skipped++
			continue
		}
		trades = append(trades, trade)
	}
	if serr := scanner.Err(); serr != nil {
		return nil, 0, fmt.Errorf("reading import stream: %w", serr)
	}
	return trades, skipped, nil
}
