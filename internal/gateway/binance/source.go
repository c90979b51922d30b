// Package binance implements market.PriceSource on Binance USDⓈ-M futures market data.
package binance

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"cryptobot/internal/logger"
	"cryptobot/internal/market"
	"cryptobot/internal/pkg/circuit"
	"cryptobot/internal/trace"

	"github.com/adshao/go-binance/v2/common"
	"github.com/adshao/go-binance/v2/futures"
	"go.opentelemetry.io/otel/attribute"
)

const (
	maxHistoryLimit = 1500
	historyInterval = "1h"
)

// Source implements market.PriceSource with the go-binance SDK. Prices are quoted in the
// stablecoin matching the requested currency, so "usd" reads XXXUSDT pairs.
type Source struct {
	cfg     Config
	client  *futures.Client
	breaker *circuit.CircuitBreaker
}

var _ market.PriceSource = (*Source)(nil)

func New(cfg Config, breaker *circuit.CircuitBreaker) (*Source, error) {
	final := cfg.withDefaults()
	client := futures.NewClient("", "")
	client.BaseURL = strings.TrimSpace(final.RESTBaseURL)
	httpClient := &http.Client{Timeout: final.HTTPTimeout}
	if final.ProxyEnabled && final.RESTProxyURL != "" {
		proxyURL, err := url.Parse(final.RESTProxyURL)
		if err != nil {
			return nil, fmt.Errorf("invalid REST proxy url: %w", err)
		}
		baseTransport, ok := http.DefaultTransport.(*http.Transport)
		if !ok || baseTransport == nil {
			return nil, fmt.Errorf("http DefaultTransport is not *http.Transport")
		}
		transport := baseTransport.Clone()
		transport.Proxy = http.ProxyURL(proxyURL)
		httpClient.Transport = transport
	}
	client.HTTPClient = httpClient
	breaker.SetFailureFilter(IsOutage)
	return &Source{
		cfg:     final,
		client:  client,
		breaker: breaker,
	}, nil
}

func (s *Source) Name() string { return "binance" }

// IsOutage reports whether err points at Binance being unhealthy rather than at
// the request itself, e.g. an unknown symbol (-1121) or a rate limit (-1003).
func IsOutage(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var apiErr *common.APIError
	if !errors.As(err, &apiErr) {
		return true
	}
	if !apiErr.IsValid() {
		// non-JSON error body, usually a gateway page
		return true
	}
	switch apiErr.Code {
	case -1000, -1001, -1007, -1008:
		return true
	}
	return false
}

// Pair maps a coin id and currency to an exchange symbol, e.g. bitcoin/usd -> BTCUSDT.
func (s *Source) Pair(symbol, currency string) string {
	id := strings.ToLower(strings.TrimSpace(symbol))
	base, ok := s.cfg.Assets[id]
	if !ok {
		base = strings.ToUpper(id)
	}
	return base + quoteAsset(currency)
}

func quoteAsset(currency string) string {
	switch c := strings.ToUpper(strings.TrimSpace(currency)); c {
	case "", "USD":
		return "USDT"
	default:
		return c
	}
}

// Quotes lists all ticker prices once and picks the requested pairs.
func (s *Source) Quotes(ctx context.Context, symbols []string, currency string) (out map[string]float64, err error) {
	out = make(map[string]float64, len(symbols))
	if len(symbols) == 0 {
		return out, nil
	}
	ctx, span := trace.StartSpan(ctx, "binance.quotes", attribute.Int("symbols", len(symbols)))
	defer func() { trace.End(span, err) }()

	var prices []*futures.SymbolPrice
	err = s.breaker.Do(func() error {
		var callErr error
		prices, callErr = s.client.NewListPricesService().Do(ctx)
		return callErr
	})
	if err != nil {
		logger.Warnf("Binance ticker price failed: %v", err)
		return nil, err
	}
	byPair := make(map[string]float64, len(prices))
	for _, p := range prices {
		if p == nil {
			continue
		}
		byPair[p.Symbol] = parseFloat(p.Price)
	}
	for _, sym := range symbols {
		if price, ok := byPair[s.Pair(sym, currency)]; ok {
			out[sym] = price
		}
	}
	return out, nil
}

// History reads hourly klines and returns their close prices.
func (s *Source) History(ctx context.Context, symbol, currency string, days int) (points []market.PricePoint, err error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	if days <= 0 {
		days = 7
	}
	limit := days * 24
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	pair := s.Pair(symbol, currency)
	ctx, span := trace.StartSpan(ctx, "binance.history", attribute.String("pair", pair))
	defer func() { trace.End(span, err) }()

	var kls []*futures.Kline
	err = s.breaker.Do(func() error {
		var callErr error
		kls, callErr = s.client.NewKlinesService().Symbol(pair).Interval(historyInterval).Limit(limit).Do(ctx)
		return callErr
	})
	if err != nil {
		logger.Warnf("Binance klines %s failed: %v", pair, err)
		return nil, err
	}
	points = make([]market.PricePoint, 0, len(kls))
	for _, kl := range kls {
		if kl == nil {
			continue
		}
		points = append(points, market.PricePoint{
			Time:  time.UnixMilli(kl.CloseTime),
			Price: parseFloat(kl.Close),
		})
	}
	return points, nil
}

// Description is not offered by Binance market data.
func (s *Source) Description(ctx context.Context, symbol, language string) (string, error) {
	return market.DescriptionUnavailable, nil
}

func parseFloat(v string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(v), 64)
	return f
}
