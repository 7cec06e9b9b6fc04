// Package money holds the integer currency arithmetic shared by previews and
// authoritative order pricing. Amounts are whole tenge.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ApplyPercent returns amount reduced by percent, rounded half away from zero.
func ApplyPercent(amount int64, percent int) int64 {
	keep := decimal.NewFromInt(int64(100 - percent))
	return decimal.NewFromInt(amount).Mul(keep).Div(hundred).Round(0).IntPart()
}

// Percent returns percent of amount, rounded half away from zero.
func Percent(amount int64, percent int) int64 {
	return decimal.NewFromInt(amount).Mul(decimal.NewFromInt(int64(percent))).Div(hundred).Round(0).IntPart()
}

// FormatKZT renders an amount for people: rounded up to a whole tenge and grouped
// by thousands. Display only; never feed the result back into totals.
func FormatKZT(v decimal.Decimal) string {
	n := v.Ceil().IntPart()
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	digits := decimal.NewFromInt(n).String()

	var b strings.Builder
	b.WriteString(sign)
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	b.WriteString(" ₸")
	return b.String()
}

// FormatAmount is FormatKZT for stored integer amounts.
func FormatAmount(amount int64) string {
	return FormatKZT(decimal.NewFromInt(amount))
}
