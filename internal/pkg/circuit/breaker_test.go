package circuit

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBreakerOpensAndRecovers(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	cb := NewCircuitBreaker("coingecko", 2, time.Minute)
	cb.now = func() time.Time { return now }
	boom := errors.New("boom")

	assert.ErrorIs(t, cb.Do(func() error { return boom }), boom)
	assert.Equal(t, StateClosed, cb.State())
	assert.ErrorIs(t, cb.Do(func() error { return boom }), boom)
	assert.Equal(t, StateOpen, cb.State())

	called := false
	err := cb.Do(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrOpen)
	assert.False(t, called)

	now = now.Add(2 * time.Minute)
	assert.NoError(t, cb.Do(func() error { return nil }))
	assert.Equal(t, StateClosed, cb.State())
}

func TestBreakerHalfOpenFailureReopens(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	cb := NewCircuitBreaker("binance", 1, time.Second)
	cb.now = func() time.Time { return now }
	boom := errors.New("boom")

	_ = cb.Do(func() error { return boom })
	now = now.Add(2 * time.Second)
	_ = cb.Do(func() error { return boom })
	assert.Equal(t, StateOpen, cb.State())
}

func TestBreakerDisabled(t *testing.T) {
	cb := NewCircuitBreaker("off", 0, time.Minute)
	for i := 0; i < 5; i++ {
		_ = cb.Do(func() error { return errors.New("x") })
	}
	assert.Equal(t, StateClosed, cb.State())

	var nilBreaker *CircuitBreaker
	assert.NoError(t, nilBreaker.Do(func() error { return nil }))
}

func TestBreakerFailureFilter(t *testing.T) {
	cb := NewCircuitBreaker("coingecko", 1, time.Hour)
	notFound := errors.New("404")
	cb.SetFailureFilter(func(err error) bool { return !errors.Is(err, notFound) })

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, cb.Do(func() error { return notFound }), notFound)
	}
	assert.Equal(t, StateClosed, cb.State())

	outage := errors.New("502")
	assert.ErrorIs(t, cb.Do(func() error { return outage }), outage)
	assert.Equal(t, StateOpen, cb.State())
}
