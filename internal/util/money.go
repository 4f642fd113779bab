package util

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	currencyStrip = strings.NewReplacer("$", "", "€", "", "£", "", " ", "", "\u00a0", "")
	thousandDot   = regexp.MustCompile(`^-?\d{1,3}(?:\.\d{3})+$`)
	thousandComma = regexp.MustCompile(`^-?\d{1,3}(?:,\d{3})+$`)
)

// ParseMoney reads amounts as vendors export them: "$1,234.50", "(45.00)",
// "1.234,50". Parenthesised amounts are negative.
func ParseMoney(input string) (float64, bool) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, false
	}
	s = currencyStrip.Replace(s)
	negative := len(s) >= 2 && strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")")
	if negative {
		s = s[1 : len(s)-1]
	}

	s = normalizeNumericToken(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if negative && v > 0 {
		v = -v
	}
	return v, true
}

func normalizeNumericToken(compact string) string {
	if thousandDot.MatchString(compact) {
		return strings.ReplaceAll(compact, ".", "")
	}
	if thousandComma.MatchString(compact) {
		return strings.ReplaceAll(compact, ",", "")
	}
	lastComma := strings.LastIndex(compact, ",")
	lastDot := strings.LastIndex(compact, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			return strings.ReplaceAll(strings.ReplaceAll(compact, ".", ""), ",", ".")
		}
		return strings.ReplaceAll(compact, ",", "")
	case lastComma >= 0:
		return strings.ReplaceAll(compact, ",", ".")
	}
	return compact
}
