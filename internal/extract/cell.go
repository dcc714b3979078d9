package extract

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Cell-level parsers. Unparsable numerics default instead of failing
// the row: 0 for counts/hours, 1 for the multiplier coefficients.

var nonNumeric = regexp.MustCompile(`[^0-9.,\-]`)

// ParseFloat extracts a decimal from a messy cell ("12,5 tiết" → 12.5)
// rounded to the given number of places. Returns def when nothing
// parsable remains.
func ParseFloat(cell string, places int, def float64) float64 {
	s := nonNumeric.ReplaceAllString(cell, "")
	s = strings.ReplaceAll(s, ",", ".")
	// keep only the first dot so "1.234.5" does not poison the parse
	if first := strings.Index(s, "."); first != -1 {
		s = s[:first+1] + strings.ReplaceAll(s[first+1:], ".", "")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	pow := math.Pow10(places)
	return math.Round(v*pow) / pow
}

// ParseInt extracts an integer, defaulting to 0.
func ParseInt(cell string) int {
	return int(ParseFloat(cell, 0, 0))
}

// excelEpoch is day 0 of the 1900 date system. Excel serial 1 is
// 1900-01-01 and the system carries the fictitious 1900-02-29, hence
// the two-day offset from 1899-12-31.
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// mac1904Epoch is day 0 of the 1904 date system used by old Mac Excel.
var mac1904Epoch = time.Date(1904, 1, 1, 0, 0, 0, 0, time.UTC)

var dmyPattern = regexp.MustCompile(`^(\d{1,2})[/.-](\d{1,2})[/.-](\d{2,4})$`)

// ParseDate normalizes a date cell to yyyy-mm-dd. Accepts spreadsheet
// serial numbers (1900 system; 1904 when date1904 is set), dd/mm/yyyy
// and dd/mm/yy strings (2-digit years get a "20" prefix), and
// already-ISO values.
func ParseDate(cell string, date1904 bool) (string, bool) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return "", false
	}

	// ISO passthrough
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.Format("2006-01-02"), true
	}

	// serial date number
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if serial < 1 || serial > 200000 {
			return "", false
		}
		epoch := excelEpoch
		if date1904 {
			epoch = mac1904Epoch
		}
		t := epoch.AddDate(0, 0, int(serial))
		return t.Format("2006-01-02"), true
	}

	// dd/mm/yyyy or dd/mm/yy
	m := dmyPattern.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if len(m[3]) == 2 {
		year += 2000
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return "", false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// reject rollovers like 31/02
	if t.Day() != day || int(t.Month()) != month {
		return "", false
	}
	return t.Format("2006-01-02"), true
}
