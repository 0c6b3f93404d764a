package client

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatPrice は最小単位の価格を "1 234.50 ₽" にする
func FormatPrice(minor int64) string {
	s := decimal.New(minor, -2).StringFixed(2)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return sign + b.String() + "." + frac + " ₽"
}
