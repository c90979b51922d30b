package command

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"cryptobot/internal/calculator"
)

const positionFieldCount = 4

// PositionUsage is shown when the calc command is malformed.
const PositionUsage = "/calc <entry_price> <leverage> <balance>"

// ParsePosition tokenizes a full calc command ("calc 20000 10 100", leading slash optional)
// into a position request.
func ParsePosition(text string) (calculator.PositionRequest, error) {
	fields := strings.Fields(text)
	if len(fields) != positionFieldCount {
		return calculator.PositionRequest{}, &Error{
			Kind: InvalidArgumentCount,
			Op:   "calc",
			Err:  fmt.Errorf("expected %d arguments, got %d; usage: %s", positionFieldCount-1, len(fields)-1, PositionUsage),
		}
	}
	var vals [3]float64
	for i, raw := range fields[1:] {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return calculator.PositionRequest{}, &Error{
				Kind: NumericParseError,
				Op:   "calc",
				Err:  fmt.Errorf("argument %d %q is not a number", i+1, raw),
			}
		}
		vals[i] = v
	}
	return calculator.PositionRequest{EntryPrice: vals[0], Leverage: vals[1], Balance: vals[2]}, nil
}
