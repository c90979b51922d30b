// Package calculator sizes leveraged positions and estimates where they get liquidated.
package calculator

// PositionRequest is the parsed input of a position calculation.
type PositionRequest struct {
	EntryPrice float64
	Leverage   float64
	Balance    float64
}

// PositionResult holds the derived figures for a PositionRequest.
type PositionResult struct {
	PositionSize     float64
	LiquidationPrice float64
}

// Calculate derives position size and liquidation price. Inputs are not validated.
//
// A zero leverage yields a liquidation price of 0 instead of a division error.
// TODO: confirm with product whether leverage 0 should be rejected as invalid input.
func Calculate(req PositionRequest) PositionResult {
	res := PositionResult{PositionSize: req.Balance * req.Leverage}
	if req.Leverage != 0 {
		res.LiquidationPrice = req.EntryPrice - req.EntryPrice*(1/req.Leverage)
	}
	return res
}
