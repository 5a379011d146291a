package helpers

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// MoneyRx is the shared sub-pattern for dollar amounts in free text. It
// accepts "$14.5M", "14.5 million", "$500K", "$500,000" and plain
// "2500000". Callers embed it in field-specific patterns; capture group 1
// is the number, group 2 the magnitude suffix.
const MoneyRx = `\$?\s?(\d{1,3}(?:,\d{3})+|\d+(?:\.\d+)?)\s*(k|m|b|mm|thousand|million|billion)?`

// PercentRx is the shared sub-pattern for percentages ("NN%", "NN percent").
// Capture group 1 is the number.
const PercentRx = `(\d+(?:\.\d+)?)\s*(?:%|percent)`

var moneyRe = regexp.MustCompile(`(?i)^\s*` + MoneyRx + `\s*$`)

// MoneyFromMatch converts a MoneyRx capture pair into dollars
// (K = x1e3, M = x1e6, B = x1e9).
func MoneyFromMatch(number, suffix string) float64 {
	clean := strings.ReplaceAll(number, ",", "")
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0
	}
	switch strings.ToLower(strings.TrimSpace(suffix)) {
	case "k", "thousand":
		v *= 1e3
	case "m", "mm", "million":
		v *= 1e6
	case "b", "billion":
		v *= 1e9
	}
	return v
}

// ParseMoney parses a standalone money token.
func ParseMoney(s string) (float64, bool) {
	m := moneyRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	return MoneyFromMatch(m[1], m[2]), true
}

// NormalizeString lowercases and trims for keyword matching.
func NormalizeString(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// RoundToNearest rounds v to the nearest multiple of step.
func RoundToNearest(v, step float64) float64 {
	if step == 0 {
		return v
	}
	return math.Round(v/step) * step
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// FormatMoney renders a dollar amount compactly: $6.5M, $500K, $2,500.
func FormatMoney(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	switch {
	case v >= 1e9:
		return sign + "$" + trimZeros(v/1e9) + "B"
	case v >= 1e6:
		return sign + "$" + trimZeros(v/1e6) + "M"
	case v >= 1e3:
		return sign + "$" + trimZeros(v/1e3) + "K"
	default:
		return fmt.Sprintf("%s$%s", sign, trimZeros(v))
	}
}

// FormatPercent renders a rate with up to two decimals: 6.5%, 70%.
func FormatPercent(v float64) string {
	return trimZeros(v) + "%"
}

func trimZeros(v float64) string {
	s := strconv.FormatFloat(math.Round(v*100)/100, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
