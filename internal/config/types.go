package config

import "strings"

// Config is the root configuration of the bot.
type Config struct {
	App      AppConfig      `toml:"app"`
	Telegram TelegramConfig `toml:"telegram"`
	Market   MarketConfig   `toml:"market"`
	Chart    ChartConfig    `toml:"chart"`
	Catalog  CatalogConfig  `toml:"catalog"`
}

type AppConfig struct {
	Env      string `toml:"env"`
	LogLevel string `toml:"log_level"`
	LogPath  string `toml:"log_path"`
	HTTPAddr string `toml:"http_addr"`
	Tracing  bool   `toml:"tracing"`
}

const (
	ModePolling = "polling"
	ModeWebhook = "webhook"
)

type TelegramConfig struct {
	BotToken           string `toml:"bot_token"`
	APIURL             string `toml:"api_url"`
	Mode               string `toml:"mode"` // "polling" | "webhook"
	PollTimeoutSeconds int    `toml:"poll_timeout_seconds"`
	DropPending        bool   `toml:"drop_pending"`
	WebhookURL         string `toml:"webhook_url"`
	WebhookSecret      string `toml:"webhook_secret"`
	// BotUsername overrides the getMe lookup used to ignore "/cmd@OtherBot".
	BotUsername string `toml:"bot_username"`
}

type MarketConfig struct {
	ActiveSource           string          `toml:"active_source"` // "coingecko" | "binance"
	Currency               string          `toml:"currency"`
	DefaultSymbols         []string        `toml:"default_symbols"`
	DescriptionLang        string          `toml:"description_lang"`
	HistoryDays            int             `toml:"history_days"`
	TimeoutSeconds         int             `toml:"timeout_seconds"`
	BreakerThreshold       int             `toml:"breaker_threshold"`
	BreakerCooldownSeconds int             `toml:"breaker_cooldown_seconds"`
	CoinGecko              CoinGeckoConfig `toml:"coingecko"`
	Binance                BinanceConfig   `toml:"binance"`
}

type CoinGeckoConfig struct {
	BaseURL string `toml:"base_url"`
	APIKey  string `toml:"api_key"`
}

type BinanceConfig struct {
	RESTBaseURL string            `toml:"rest_base_url"`
	Proxy       ProxyConfig       `toml:"proxy"`
	Assets      map[string]string `toml:"assets"`
}

type ProxyConfig struct {
	Enabled bool   `toml:"enabled"`
	RESTURL string `toml:"rest_url"`
}

func (p *ProxyConfig) normalize() {
	if p == nil {
		return
	}
	p.RESTURL = strings.TrimSpace(p.RESTURL)
}

// ChartConfig sizes the rendered price chart.
type ChartConfig struct {
	Width                int `toml:"width"`
	Height               int `toml:"height"`
	SMAPeriod            int `toml:"sma_period"` // 0 disables the moving-average overlay
	RenderTimeoutSeconds int `toml:"render_timeout_seconds"`
}

// CatalogConfig points at an optional YAML file overriding the built-in menu/FAQ tables.
type CatalogConfig struct {
	Path string `toml:"path"`
}

// keySet tracks which keys the config files set explicitly.
type keySet map[string]struct{}

func (k keySet) mark(path string) {
	path = strings.ToLower(strings.TrimSpace(path))
	if path == "" {
		return
	}
	k[path] = struct{}{}
}

func (k keySet) isSet(path string) bool {
	if len(k) == 0 {
		return false
	}
	path = strings.ToLower(strings.TrimSpace(path))
	if path == "" {
		return false
	}
	_, ok := k[path]
	return ok
}

// fieldDefault describes how one field gets its default.
type fieldDefault struct {
	key   string
	need  func() bool
	apply func()
}
