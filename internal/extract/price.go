package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// amountPattern matches a decimal amount inside arbitrary price text:
// digits with optional thousands separators and at most one fractional
// separator carrying one or two digits.
var amountPattern = regexp.MustCompile(`\d[\d,]*(?:\.\d{1,2})?`)

// ParsePrice extracts the first decimal amount from raw extracted price text
// and parses it as a float. Text without a parseable amount yields 0.
func ParsePrice(raw string) float64 {
	match := amountPattern.FindString(raw)
	if match == "" {
		return 0
	}
	amount, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", ""), 64)
	if err != nil {
		return 0
	}
	return amount
}
