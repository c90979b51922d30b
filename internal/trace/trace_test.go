package trace

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

func TestDisabledIsNoop(t *testing.T) {
	require.NoError(t, Init(Config{Enabled: false}))
	assert.False(t, Enabled())
	ctx, span := StartSpan(context.Background(), "noop")
	assert.NotNil(t, ctx)
	End(span, errors.New("ignored"))
}

func TestSpansExported(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Init(Config{Enabled: true, Version: "test", Writer: &buf}))
	assert.True(t, Enabled())

	_, span := StartSpan(context.Background(), "router.calc", attribute.String("command", "calc"))
	End(span, nil)
	require.NoError(t, Shutdown(context.Background()))

	assert.Contains(t, buf.String(), "router.calc")
	assert.False(t, Enabled())
}
