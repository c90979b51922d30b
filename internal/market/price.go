// Package market describes the price-data collaborator the bot reads quotes,
// history and token descriptions from.
package market

import (
	"context"
	"time"
)

// DescriptionUnavailable is returned by Description when a token has no text.
const DescriptionUnavailable = "Description unavailable."

// DescriptionLimit is the maximum description length in characters before truncation.
const DescriptionLimit = 1000

// PricePoint is one sample of a price history.
type PricePoint struct {
	Time  time.Time
	Price float64
}

// PriceSource is implemented by every price-data backend.
type PriceSource interface {
	// Quotes returns symbol -> price. Unknown symbols are absent from the map.
	Quotes(ctx context.Context, symbols []string, currency string) (map[string]float64, error)
	// History returns samples ordered by time covering the last days.
	History(ctx context.Context, symbol, currency string, days int) ([]PricePoint, error)
	// Description returns a token description, truncated, or DescriptionUnavailable.
	Description(ctx context.Context, symbol, language string) (string, error)
	Name() string
}
