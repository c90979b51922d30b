// Package coingecko implements market.PriceSource on top of the CoinGecko public REST API.
package coingecko

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"cryptobot/internal/logger"
	"cryptobot/internal/market"
	"cryptobot/internal/pkg/circuit"
	"cryptobot/internal/pkg/text"
	"cryptobot/internal/trace"

	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/attribute"
)

const (
	defaultBaseURL  = "https://api.coingecko.com/api/v3"
	defaultTimeout  = 15 * time.Second
	maxResponseSize = 8 << 20
	fallbackLang    = "en"
)

type Config struct {
	BaseURL string
	// APIKey is sent as x-cg-demo-api-key when set.
	APIKey  string
	Timeout time.Duration
	Breaker *circuit.CircuitBreaker
}

type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	breaker *circuit.CircuitBreaker
}

var _ market.PriceSource = (*Client)(nil)

// StatusError is a non-2xx answer from CoinGecko.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string { return "unexpected status " + e.Status }

// IsOutage reports whether err says CoinGecko itself is unhealthy. Client
// errors such as 404 or 429 are tied to a single request and do not count.
func IsOutage(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code >= http.StatusInternalServerError
	}
	return true
}

func New(cfg Config) *Client {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	cfg.Breaker.SetFailureFilter(IsOutage)
	return &Client{
		baseURL: base,
		apiKey:  strings.TrimSpace(cfg.APIKey),
		client:  &http.Client{Timeout: timeout},
		breaker: cfg.Breaker,
	}
}

func (c *Client) Name() string { return "coingecko" }

// Quotes calls /simple/price. Symbols CoinGecko does not know are left out.
func (c *Client) Quotes(ctx context.Context, symbols []string, currency string) (map[string]float64, error) {
	out := make(map[string]float64, len(symbols))
	if len(symbols) == 0 {
		return out, nil
	}
	currency = strings.ToLower(currency)
	params := url.Values{}
	params.Set("ids", strings.Join(symbols, ","))
	params.Set("vs_currencies", currency)
	body, err := c.get(ctx, "coingecko.quotes", "/simple/price", params)
	if err != nil {
		return nil, err
	}
	wanted := make(map[string]bool, len(symbols))
	for _, s := range symbols {
		wanted[s] = true
	}
	gjson.ParseBytes(body).ForEach(func(key, value gjson.Result) bool {
		if !wanted[key.String()] {
			return true
		}
		price := value.Get(currency)
		if price.Exists() && price.Type == gjson.Number {
			out[key.String()] = price.Float()
		}
		return true
	})
	return out, nil
}

// History calls /coins/{id}/market_chart and returns the "prices" series.
func (c *Client) History(ctx context.Context, symbol, currency string, days int) ([]market.PricePoint, error) {
	if strings.TrimSpace(symbol) == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	if days <= 0 {
		days = 7
	}
	params := url.Values{}
	params.Set("vs_currency", strings.ToLower(currency))
	params.Set("days", strconv.Itoa(days))
	body, err := c.get(ctx, "coingecko.history", "/coins/"+url.PathEscape(symbol)+"/market_chart", params)
	if err != nil {
		return nil, err
	}
	prices := gjson.GetBytes(body, "prices")
	if !prices.IsArray() {
		return nil, fmt.Errorf("market_chart for %s: missing prices", symbol)
	}
	points := make([]market.PricePoint, 0, len(prices.Array()))
	for _, row := range prices.Array() {
		pair := row.Array()
		if len(pair) < 2 {
			continue
		}
		points = append(points, market.PricePoint{
			Time:  time.UnixMilli(pair[0].Int()),
			Price: pair[1].Float(),
		})
	}
	return points, nil
}

// Description reads description.<language>, falling back to English.
func (c *Client) Description(ctx context.Context, symbol, language string) (string, error) {
	if strings.TrimSpace(symbol) == "" {
		return "", fmt.Errorf("symbol is required")
	}
	params := url.Values{}
	params.Set("localization", "true")
	body, err := c.get(ctx, "coingecko.description", "/coins/"+url.PathEscape(symbol), params)
	if err != nil {
		return "", err
	}
	desc := gjson.GetBytes(body, "description")
	var textValue string
	if lang := strings.ToLower(strings.TrimSpace(language)); lang != "" {
		textValue = strings.TrimSpace(desc.Get(lang).String())
	}
	if textValue == "" {
		textValue = strings.TrimSpace(desc.Get(fallbackLang).String())
	}
	if textValue == "" {
		return market.DescriptionUnavailable, nil
	}
	return text.Truncate(textValue, market.DescriptionLimit), nil
}

func (c *Client) get(ctx context.Context, op, path string, params url.Values) (body []byte, err error) {
	ctx, span := trace.StartSpan(ctx, op, attribute.String("http.path", path))
	defer func() { trace.End(span, err) }()

	err = c.breaker.Do(func() error {
		var callErr error
		body, callErr = c.do(ctx, path, params)
		return callErr
	})
	if err != nil {
		logger.Warnf("CoinGecko %s failed: %v", path, err)
		return nil, err
	}
	return body, nil
}

func (c *Client) do(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-cg-demo-api-key", c.apiKey)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("invalid json from %s", path)
	}
	return body, nil
}
