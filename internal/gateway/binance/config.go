package binance

import (
	"strings"
	"time"
)

type Config struct {
	RESTBaseURL string
	HTTPTimeout time.Duration

	ProxyEnabled bool
	RESTProxyURL string

	// Assets maps coin ids ("bitcoin") to Binance base assets ("BTC").
	Assets map[string]string
}

func defaultAssets() map[string]string {
	return map[string]string{
		"bitcoin":     "BTC",
		"ethereum":    "ETH",
		"solana":      "SOL",
		"binancecoin": "BNB",
		"dogecoin":    "DOGE",
		"ripple":      "XRP",
		"cardano":     "ADA",
		"tron":        "TRX",
		"litecoin":    "LTC",
		"toncoin":     "TON",
		// no USDTUSDT market exists; USDCUSDT tracks the same peg
		"tether": "USDC",
	}
}

func (c *Config) withDefaults() Config {
	out := *c
	out.RESTBaseURL = strings.TrimSpace(out.RESTBaseURL)
	if out.RESTBaseURL == "" {
		out.RESTBaseURL = "https://fapi.binance.com"
	}
	if out.HTTPTimeout <= 0 {
		out.HTTPTimeout = 15 * time.Second
	}
	out.RESTProxyURL = strings.TrimSpace(out.RESTProxyURL)
	assets := defaultAssets()
	for id, base := range c.Assets {
		id = strings.ToLower(strings.TrimSpace(id))
		base = strings.ToUpper(strings.TrimSpace(base))
		if id != "" && base != "" {
			assets[id] = base
		}
	}
	out.Assets = assets
	return out
}
