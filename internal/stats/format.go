package stats

import (
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// FormatNumber renders v with thousands separators and a fixed number of
// fraction digits, e.g. 1234.5 with 2 digits is "1,234.50".
func FormatNumber(v float64, digits int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	if digits < 0 {
		digits = 0
	}
	raw := strconv.FormatFloat(math.Abs(v), 'f', digits, 64)
	whole, frac, _ := strings.Cut(raw, ".")
	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return strconv.FormatFloat(v, 'f', digits, 64)
	}
	out := humanize.Comma(n)
	if frac != "" {
		out += "." + frac
	}
	if v < 0 && strings.Trim(raw, "0.") != "" {
		out = "-" + out
	}
	return out
}
