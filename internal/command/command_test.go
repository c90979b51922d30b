package command

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMessage(t *testing.T) {
	tests := []struct {
		text string
		kind Kind
		args []string
	}{
		{"/start", KindStart, []string{}},
		{"/menu", KindMenu, []string{}},
		{"/help@CryptoBot", KindHelp, []string{}},
		{"/crypto BTC solana", KindPrices, []string{"BTC", "solana"}},
		{"/CALC 1 2 3", KindCalc, []string{"1", "2", "3"}},
		{"/chart", KindChartMenu, []string{}},
		{"/faq", KindFAQMenu, []string{}},
		{"/unknown", KindText, nil},
		{"hello", KindText, nil},
		{"", KindText, nil},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			cmd := ParseMessage(tt.text)
			assert.Equal(t, tt.kind, cmd.Kind)
			assert.Equal(t, tt.text, cmd.Raw)
			if tt.args != nil {
				assert.Equal(t, tt.args, cmd.Args)
			}
		})
	}
}

func TestParseMessageMention(t *testing.T) {
	cmd := ParseMessage("/calc@CryptoBot 1 2 3")
	assert.Equal(t, KindCalc, cmd.Kind)
	assert.Equal(t, "calc", cmd.Name)
	assert.Equal(t, "CryptoBot", cmd.Mention)
	assert.Equal(t, []string{"1", "2", "3"}, cmd.Args)

	assert.True(t, cmd.AddressedTo("cryptobot"))
	assert.True(t, cmd.AddressedTo("@CryptoBot"))
	assert.True(t, cmd.AddressedTo(""))
	assert.False(t, cmd.AddressedTo("OtherBot"))

	assert.Equal(t, "OtherBot", ParseMessage("/nope@OtherBot").Mention)
	assert.True(t, ParseMessage("/calc 1 2 3").AddressedTo("OtherBot"))
}

func TestParseCallback(t *testing.T) {
	cmd := ParseCallback("chart_bitcoin")
	assert.Equal(t, KindChart, cmd.Kind)
	assert.Equal(t, []string{"bitcoin"}, cmd.Args)

	cmd = ParseCallback("faq_q2")
	assert.Equal(t, KindFAQ, cmd.Kind)
	assert.Equal(t, []string{"q2"}, cmd.Args)

	assert.Equal(t, KindOpenMenu, ParseCallback("open_menu").Kind)
	assert.Equal(t, KindUnknown, ParseCallback("noop").Kind)
}

func TestSymbols(t *testing.T) {
	def := []string{"bitcoin", "ethereum", "tether"}
	assert.Equal(t, def, ParseMessage("/crypto").Symbols(def))
	assert.Equal(t, []string{"bitcoin", "doesnotexist"}, ParseMessage("/crypto Bitcoin DOESNOTEXIST").Symbols(def))
}

func TestParsePosition(t *testing.T) {
	req, err := ParsePosition("calc 20000 10 100")
	require.NoError(t, err)
	assert.Equal(t, 20000.0, req.EntryPrice)
	assert.Equal(t, 10.0, req.Leverage)
	assert.Equal(t, 100.0, req.Balance)

	req, err = ParsePosition("/calc 1.5 -2 3e2")
	require.NoError(t, err)
	assert.Equal(t, 300.0, req.Balance)
}

func TestParsePositionErrors(t *testing.T) {
	_, err := ParsePosition("calc 1 2")
	require.Error(t, err)
	assert.Equal(t, InvalidArgumentCount, KindOf(err))

	_, err = ParsePosition("calc 1 2 3 4")
	assert.Equal(t, InvalidArgumentCount, KindOf(err))

	_, err = ParsePosition("calc abc 10 100")
	assert.Equal(t, NumericParseError, KindOf(err))
	assert.Contains(t, err.Error(), `"abc"`)

	_, err = ParsePosition("calc 1 NaN 3")
	assert.Equal(t, NumericParseError, KindOf(err))
}

func TestErrorWrapping(t *testing.T) {
	base := errors.New("timeout")
	err := fmt.Errorf("prices: %w", External("crypto", base))
	assert.Equal(t, ExternalCallFailure, KindOf(err))
	assert.ErrorIs(t, err, base)
	assert.Equal(t, KindNone, KindOf(base))
	assert.Equal(t, KindNone, KindOf(nil))
	assert.Nil(t, External("crypto", nil))
}
