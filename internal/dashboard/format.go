package dashboard

import (
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.English)

// FormatCount renders v with thousands separators and at most three
// fraction digits, e.g. 1000 -> "1,000".
func FormatCount(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return FormatNumber(v)
	}
	if v == math.Trunc(v) && math.Abs(v) < 1<<53 {
		return printer.Sprintf("%d", int64(v))
	}
	return printer.Sprint(number.Decimal(v, number.MaxFractionDigits(3)))
}

// FormatNumber renders v in its shortest plain form, e.g. 94.2 -> "94.2".
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatPercent renders v as a percentage value, e.g. 94.2 -> "94.2%".
func FormatPercent(v float64) string {
	return FormatNumber(v) + "%"
}

// FormatSeconds renders v as a duration in seconds, e.g. 3.7 -> "3.7s".
func FormatSeconds(v float64) string {
	return FormatNumber(v) + "s"
}
