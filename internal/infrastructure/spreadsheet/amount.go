package spreadsheet

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// thousandsDotsPattern matches amounts where every dot groups exactly
// three digits, e.g. "2.866.250" - an Indonesian-style thousands format
var thousandsDotsPattern = regexp.MustCompile(`^\d{1,3}(\.\d{3})+$`)

// ParseAmount converts a spreadsheet money cell into a number. Numeric
// input passes through unchanged. String input is stripped of currency
// markers and whitespace, then the decimal/thousands separators are
// disambiguated: with both '.' and ',' present the one appearing last
// is the decimal separator; dots grouping triples are thousands
// separators; a ',' is treated as the decimal separator. Cells are
// untrusted, so unparseable input yields 0 instead of an error - a bad
// cell must never abort a batch parse.
func ParseAmount(value any) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case nil:
		return 0
	}

	str, ok := value.(string)
	if !ok {
		return 0
	}
	str = strings.TrimSpace(str)
	if str == "" {
		return 0
	}

	// Strip currency markers ("Rp", "Rp.", "$", "¥") and inner spaces
	str = strings.TrimLeft(str, "RrPp$¥₫฿. ")
	str = strings.ReplaceAll(str, " ", "")
	str = strings.ReplaceAll(str, " ", "")

	hasDot := strings.Contains(str, ".")
	hasComma := strings.Contains(str, ",")

	switch {
	case hasDot && hasComma:
		// The separator appearing last is the decimal separator
		if strings.LastIndex(str, ",") > strings.LastIndex(str, ".") {
			// 1.000,00 -> 1000.00
			str = strings.ReplaceAll(str, ".", "")
			str = strings.Replace(str, ",", ".", 1)
		} else {
			// 1,000.00 -> 1000.00
			str = strings.ReplaceAll(str, ",", "")
		}
	case hasComma:
		// 1000,00 -> 1000.00
		str = strings.Replace(str, ",", ".", 1)
	case hasDot:
		// Dots grouping triples are thousands separators: 2.866.250
		if thousandsDotsPattern.MatchString(str) {
			str = strings.ReplaceAll(str, ".", "")
		}
	}

	f, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0
	}
	return f
}

// ParseQuantity converts a quantity cell into a non-negative integer,
// defaulting to 1 the way platform exports treat an absent quantity
func ParseQuantity(value string) int {
	value = strings.TrimSpace(value)
	if value == "" {
		return 1
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		f := ParseAmount(value)
		if f > 0 {
			return int(f)
		}
		return 1
	}
	return n
}

// dateLayouts are the date representations seen across platform
// exports, tried in order
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"2006/01/02",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
}

// excelEpoch is day zero of Excel's 1900 date system
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// ParseDate converts a spreadsheet date cell into a time. Both textual
// layouts and Excel serial numbers are accepted. Unlike amounts, an
// invalid date fails the row: a record without a real order date is
// useless downstream.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}

	// Excel serial date (days since 1899-12-30)
	if serial, err := strconv.ParseFloat(value, 64); err == nil && serial > 0 && serial < 200000 {
		days := int(serial)
		frac := serial - float64(days)
		t := excelEpoch.AddDate(0, 0, days).Add(time.Duration(frac * 24 * float64(time.Hour)))
		return t, true
	}

	return time.Time{}, false
}
