package gateway

import (
	"fmt"
	"strings"
	"time"

	"cryptobot/internal/config"
	"cryptobot/internal/gateway/binance"
	"cryptobot/internal/gateway/coingecko"
	"cryptobot/internal/market"
	"cryptobot/internal/pkg/circuit"
)

// NewPriceSourceFromConfig builds the price collaborator named by market.active_source.
func NewPriceSourceFromConfig(cfg *config.Config) (market.PriceSource, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	m := cfg.Market
	name := strings.ToLower(strings.TrimSpace(m.ActiveSource))
	timeout := time.Duration(m.TimeoutSeconds) * time.Second
	breaker := circuit.NewCircuitBreaker(name, m.BreakerThreshold, time.Duration(m.BreakerCooldownSeconds)*time.Second)
	switch name {
	case "", "coingecko":
		return coingecko.New(coingecko.Config{
			BaseURL: m.CoinGecko.BaseURL,
			APIKey:  m.CoinGecko.APIKey,
			Timeout: timeout,
			Breaker: breaker,
		}), nil
	case "binance", "binance-futures":
		return binance.New(binance.Config{
			RESTBaseURL:  m.Binance.RESTBaseURL,
			HTTPTimeout:  timeout,
			ProxyEnabled: m.Binance.Proxy.Enabled,
			RESTProxyURL: m.Binance.Proxy.RESTURL,
			Assets:       m.Binance.Assets,
		}, breaker)
	default:
		return nil, fmt.Errorf("unsupported market source: %s", m.ActiveSource)
	}
}
