package calculator

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// FormatSize renders the position size with no fixed precision.
func FormatSize(v float64) string {
	if !finite(v) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return decimal.NewFromFloat(v).String()
}

// FormatLiquidation renders the liquidation price rounded to two decimals from
// its binary value, so 2.675 (stored as 2.67499...) prints as 2.67.
func FormatLiquidation(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
