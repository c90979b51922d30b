package config

import (
	"fmt"
	"strings"
)

func validate(c *Config) error {
	if err := c.Telegram.validate(); err != nil {
		return err
	}
	if err := c.Market.validate(); err != nil {
		return err
	}
	if err := c.Chart.validate(); err != nil {
		return err
	}
	return nil
}

func (t *TelegramConfig) validate() error {
	if strings.TrimSpace(t.BotToken) == "" {
		return fmt.Errorf("telegram.bot_token is required (or set TOKEN / CRYPTOBOT_TELEGRAM_TOKEN)")
	}
	switch t.Mode {
	case ModePolling:
	case ModeWebhook:
		if strings.TrimSpace(t.WebhookURL) == "" {
			return fmt.Errorf("telegram.webhook_url is required in webhook mode")
		}
	default:
		return fmt.Errorf("telegram.mode must be %q or %q, got %q", ModePolling, ModeWebhook, t.Mode)
	}
	if t.PollTimeoutSeconds < 0 {
		return fmt.Errorf("telegram.poll_timeout_seconds must be >= 0")
	}
	return nil
}

func (m *MarketConfig) validate() error {
	switch m.ActiveSource {
	case "coingecko", "binance":
	default:
		return fmt.Errorf("unsupported market.active_source: %s", m.ActiveSource)
	}
	if m.Currency == "" {
		return fmt.Errorf("market.currency cannot be empty")
	}
	if m.HistoryDays <= 0 {
		return fmt.Errorf("market.history_days must be > 0")
	}
	if m.BreakerThreshold < 0 || m.BreakerCooldownSeconds < 0 {
		return fmt.Errorf("market.breaker_* must be >= 0")
	}
	if m.Binance.Proxy.Enabled && m.Binance.Proxy.RESTURL == "" {
		return fmt.Errorf("market.binance.proxy.rest_url is required when the proxy is enabled")
	}
	return nil
}

func (c *ChartConfig) validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("chart.width and chart.height must be > 0")
	}
	if c.SMAPeriod < 0 {
		return fmt.Errorf("chart.sma_period must be >= 0")
	}
	return nil
}
