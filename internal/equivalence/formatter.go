package equivalence

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer groups thousands the English way for every figure shown to users.
var printer = message.NewPrinter(language.English)

// FormatNumber formats an integer with thousand separators, e.g. 18248 as "18,248".
func FormatNumber(n int64) string {
	return printer.Sprintf("%d", n)
}

// FormatFloat rounds f to precision decimal places and adds thousand
// separators to the integer part, e.g. FormatFloat(1234.567, 2) is "1,234.57".
func FormatFloat(f float64, precision int) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}

	fixed := strconv.FormatFloat(f, 'f', precision, 64)

	intPart, fracPart, hasFrac := strings.Cut(fixed, ".")
	negative := strings.HasPrefix(intPart, "-")
	intPart = strings.TrimPrefix(intPart, "-")

	n, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return fixed
	}

	grouped := FormatNumber(n)
	if negative && strings.Trim(fixed, "-0.") != "" {
		grouped = "-" + grouped
	}
	if hasFrac {
		return grouped + "." + fracPart
	}
	return grouped
}
