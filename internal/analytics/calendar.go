// Package analytics turns a raw trade collection into the derived metrics
// shown on the dashboard, analytics and report surfaces. Everything in this
// package is a pure function of its inputs.
package analytics

import (
	"fmt"
	"sort"
	"time"

	"tradelog/internal/models"
)

// FinancialYear returns the April-March accounting year bucket for a date,
// labeled by its starting calendar year. April 2024 -> 2024, March 2024 -> 2023.
func FinancialYear(date time.Time) int {
	year := date.Year()
	if int(date.Month()) >= 4 {
		return year
	}
	return year - 1
}

// FYLabel renders a financial year as "FY 24-25".
func FYLabel(fy int) string {
	return fmt.Sprintf("FY %02d-%02d", fy%100, (fy+1)%100)
}

// DayKey truncates a timestamp to its local calendar day. Two timestamps on
// the same calendar day map to the identical key regardless of time-of-day.
func DayKey(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
}

// AvailableFinancialYears returns the distinct financial years present in the
// full record set, newest first. Independent of any active filter.
func AvailableFinancialYears(trades []models.Trade) []int {
	return distinctYearsDesc(trades, FinancialYear)
}

// AvailableCalendarYears returns the distinct plain calendar years present in
// the record set, newest first. Used by the flat list view's year selector.
func AvailableCalendarYears(trades []models.Trade) []int {
	return distinctYearsDesc(trades, func(d time.Time) int { return d.Year() })
}

func distinctYearsDesc(trades []models.Trade, bucket func(time.Time) int) []int {
	seen := make(map[int]bool)
	var years []int
	for _, t := range trades {
		y := bucket(t.Date)
		if !seen[y] {
			seen[y] = true
			years = append(years, y)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}
