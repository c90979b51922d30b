package calculator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	res := Calculate(PositionRequest{EntryPrice: 20000, Leverage: 10, Balance: 100})
	assert.Equal(t, 1000.0, res.PositionSize)
	assert.InDelta(t, 18000.0, res.LiquidationPrice, 1e-9)
	assert.Equal(t, "1000", FormatSize(res.PositionSize))
	assert.Equal(t, "18000.00", FormatLiquidation(res.LiquidationPrice))
}

func TestCalculateZeroLeverage(t *testing.T) {
	res := Calculate(PositionRequest{EntryPrice: 20000, Leverage: 0, Balance: 100})
	assert.Equal(t, 0.0, res.PositionSize)
	assert.Equal(t, 0.0, res.LiquidationPrice)
	assert.Equal(t, "0.00", FormatLiquidation(res.LiquidationPrice))
}

func TestCalculateProperties(t *testing.T) {
	entries := []float64{0.0001, 1, 3.5, 20000, 65432.1}
	leverages := []float64{-5, 0.5, 1, 2, 3, 10, 125}
	balances := []float64{-10, 0, 0.1, 100, 12345.678}
	for _, entry := range entries {
		for _, lev := range leverages {
			for _, bal := range balances {
				res := Calculate(PositionRequest{EntryPrice: entry, Leverage: lev, Balance: bal})
				assert.Equal(t, bal*lev, res.PositionSize)
				want := entry * (1 - 1/lev)
				assert.InDelta(t, want, res.LiquidationPrice, 1e-9*math.Max(1, math.Abs(want)))
			}
		}
	}
}

func TestCalculateLeverageOneLiquidatesAtZero(t *testing.T) {
	res := Calculate(PositionRequest{EntryPrice: 123.45, Leverage: 1, Balance: 10})
	assert.Equal(t, 0.0, res.LiquidationPrice)
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		size float64
		liq  float64
		wSz  string
		wLiq string
	}{
		{"fraction", 12.5, 0.123, "12.5", "0.12"},
		{"rounding", 1e6, 1999.996, "1000000", "2000.00"},
		{"binary half", 2, 2.675, "2", "2.67"},
		{"negative", -50, -12.344, "-50", "-12.34"},
		{"inf", math.Inf(1), math.Inf(-1), "+Inf", "-Inf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wSz, FormatSize(tt.size))
			assert.Equal(t, tt.wLiq, FormatLiquidation(tt.liq))
		})
	}
}
