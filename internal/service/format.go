package service

import (
	"strconv"

	"github.com/dustin/go-humanize"
)

// FormatMoney renders cents as "$1,234.56". Nil renders as "".
func FormatMoney(cents *int64, symbol string) string {
	if cents == nil {
		return ""
	}
	v := *cents
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return sign + symbol + humanize.FormatFloat("#,###.##", float64(v)/100)
}

// FormatPercent renders a percentage with one decimal, "85.5%". Nil renders as "".
func FormatPercent(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', 1, 64) + "%"
}

// Dollars converts cents for spreadsheet cells; nil stays nil.
func Dollars(cents *int64) any {
	if cents == nil {
		return nil
	}
	return float64(*cents) / 100
}
