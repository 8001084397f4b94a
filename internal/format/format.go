// Package format renders already-rounded figures for display. It never rounds
// a value that has not been rounded by the calculation that produced it.
package format

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const DEFAULT_THOUSANDS_SEPARATOR = "."

type Formatter struct {
	ThousandsSeparator string
}

func New(separator string) Formatter {
	if separator == "" {
		separator = DEFAULT_THOUSANDS_SEPARATOR
	}
	return Formatter{ThousandsSeparator: separator}
}

// Fixed renders a value with exactly two fractional digits.
func (f Formatter) Fixed(value float64) string {
	return decimal.NewFromFloat(value).StringFixed(2)
}

// Grouped renders a whole number with its digits grouped by three.
func (f Formatter) Grouped(value int64) string {
	digits := strconv.FormatInt(value, 10)
	sign := ""
	if strings.HasPrefix(digits, "-") {
		sign, digits = "-", digits[1:]
	}
	if len(digits) <= 3 {
		return sign + digits
	}

	var sb strings.Builder
	sb.WriteString(sign)
	head := len(digits) % 3
	if head > 0 {
		sb.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if i > 0 {
			sb.WriteString(f.ThousandsSeparator)
		}
		sb.WriteString(digits[i : i+3])
	}
	return sb.String()
}

// Distance renders a distance as a grouped whole number. Odometer readings
// are whole units; any fraction is dropped.
func (f Formatter) Distance(value float64) string {
	return f.Grouped(decimal.NewFromFloat(value).Truncate(0).IntPart())
}

// Price renders a recorded value such as a unit price or a fuel amount with at
// least two fractional digits, keeping any further digits it was recorded with.
func (f Formatter) Price(value float64) string {
	d := decimal.NewFromFloat(value)
	if d.Exponent() < -2 {
		return d.String()
	}
	return d.StringFixed(2)
}
