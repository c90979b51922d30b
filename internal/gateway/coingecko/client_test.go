package coingecko

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cryptobot/internal/market"
	"cryptobot/internal/pkg/circuit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL, Timeout: time.Second})
}

func TestQuotesOmitsMissingSymbols(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/simple/price", r.URL.Path)
		assert.Equal(t, "bitcoin,doesnotexist", r.URL.Query().Get("ids"))
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currencies"))
		_, _ = w.Write([]byte(`{"bitcoin":{"usd":67123.5}}`))
	})
	quotes, err := c.Quotes(context.Background(), []string{"bitcoin", "doesnotexist"}, "usd")
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"bitcoin": 67123.5}, quotes)
}

func TestQuotesEmptyInput(t *testing.T) {
	c := New(Config{BaseURL: "http://127.0.0.1:1"})
	quotes, err := c.Quotes(context.Background(), nil, "usd")
	require.NoError(t, err)
	assert.Empty(t, quotes)
}

func TestQuotesTransportFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	_, err := c.Quotes(context.Background(), []string{"bitcoin"}, "usd")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestQuotesInvalidJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	})
	_, err := c.Quotes(context.Background(), []string{"bitcoin"}, "usd")
	assert.Error(t, err)
}

func TestHistory(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/coins/bitcoin/market_chart", r.URL.Path)
		assert.Equal(t, "7", r.URL.Query().Get("days"))
		_, _ = w.Write([]byte(`{"prices":[[1700000000000,35000.1],[1700086400000,36000]],"total_volumes":[]}`))
	})
	points, err := c.History(context.Background(), "bitcoin", "usd", 7)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, time.UnixMilli(1700000000000), points[0].Time)
	assert.Equal(t, 36000.0, points[1].Price)
}

func TestHistoryMissingPrices(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":"coin not found"}`))
	})
	_, err := c.History(context.Background(), "nope", "usd", 7)
	assert.Error(t, err)
}

func TestDescription(t *testing.T) {
	long := strings.Repeat("b", 1200)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/coins/bitcoin":
			assert.Equal(t, "true", r.URL.Query().Get("localization"))
			_, _ = w.Write([]byte(`{"description":{"en":"  Bitcoin is a coin. ","ru":""}}`))
		case "/coins/longcoin":
			_, _ = w.Write([]byte(`{"description":{"ru":"` + long + `"}}`))
		default:
			_, _ = w.Write([]byte(`{"description":{}}`))
		}
	})
	ctx := context.Background()

	desc, err := c.Description(ctx, "bitcoin", "ru")
	require.NoError(t, err)
	assert.Equal(t, "Bitcoin is a coin.", desc)

	desc, err = c.Description(ctx, "longcoin", "ru")
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("b", market.DescriptionLimit)+"...", desc)

	desc, err = c.Description(ctx, "ghost", "ru")
	require.NoError(t, err)
	assert.Equal(t, market.DescriptionUnavailable, desc)
}

func TestBreakerFailsFast(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()
	c := New(Config{BaseURL: srv.URL, Breaker: circuit.NewCircuitBreaker("coingecko", 1, time.Hour)})

	_, err := c.Quotes(context.Background(), []string{"bitcoin"}, "usd")
	require.Error(t, err)
	_, err = c.Quotes(context.Background(), []string{"bitcoin"}, "usd")
	assert.ErrorIs(t, err, circuit.ErrOpen)
	assert.Equal(t, 1, calls)
}

func TestClientErrorsDoNotTripSharedBreaker(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		switch {
		case strings.HasPrefix(r.URL.Path, "/coins/doesnotexist"):
			http.Error(w, `{"error":"coin not found"}`, http.StatusNotFound)
		case r.URL.Path == "/simple/price" && r.URL.Query().Get("ids") == "dogecoin":
			w.WriteHeader(http.StatusTooManyRequests)
		default:
			_, _ = w.Write([]byte(`{"bitcoin":{"usd":67000}}`))
		}
	}))
	defer srv.Close()
	c := New(Config{BaseURL: srv.URL, Breaker: circuit.NewCircuitBreaker("coingecko", 1, time.Hour)})
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := c.History(ctx, "doesnotexist", "usd", 7)
		var statusErr *StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusNotFound, statusErr.Code)
	}
	_, err := c.Quotes(ctx, []string{"dogecoin"}, "usd")
	require.Error(t, err)
	assert.NotErrorIs(t, err, circuit.ErrOpen)

	quotes, err := c.Quotes(ctx, []string{"bitcoin"}, "usd")
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"bitcoin": 67000}, quotes)
	assert.Equal(t, 7, hits)
}

func TestIsOutage(t *testing.T) {
	assert.False(t, IsOutage(nil))
	assert.False(t, IsOutage(context.Canceled))
	assert.False(t, IsOutage(&StatusError{Code: http.StatusNotFound, Status: "404 Not Found"}))
	assert.False(t, IsOutage(&StatusError{Code: http.StatusTooManyRequests, Status: "429 Too Many Requests"}))
	assert.True(t, IsOutage(&StatusError{Code: http.StatusServiceUnavailable, Status: "503 Service Unavailable"}))
	assert.True(t, IsOutage(context.DeadlineExceeded))
}
