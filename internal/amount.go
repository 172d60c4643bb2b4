package internal

import (
	"github.com/shopspring/decimal"
)

// AmountInCents rounds a total to two decimals and returns it in minor units: 10.5 -> 1050.
func AmountInCents(total float64) int64 {
	return decimal.NewFromFloat(total).Round(2).Shift(2).IntPart()
}

// formatQty prints a quantity without trailing zeros: 2 -> "2", 1.5 -> "1.5".
func formatQty(qty float64) string {
	return decimal.NewFromFloat(qty).String()
}
