package config

import (
	"strings"
)

const (
	defaultAppEnv             = "dev"
	defaultAppLogLevel        = "info"
	defaultAppHTTPAddr        = ":8080"
	defaultTelegramAPI        = "https://api.telegram.org"
	defaultTelegramMode       = ModePolling
	defaultPollTimeout        = 30
	defaultMarketSource       = "coingecko"
	defaultMarketCurrency     = "usd"
	defaultDescriptionLang    = "en"
	defaultHistoryDays        = 7
	defaultMarketTimeout      = 15
	defaultBreakerThreshold   = 0
	defaultBreakerCooldown    = 30
	defaultCoinGeckoBaseURL   = "https://api.coingecko.com/api/v3"
	defaultBinanceRESTURL     = "https://fapi.binance.com"
	defaultChartWidth         = 800
	defaultChartHeight        = 400
	defaultChartSMAPeriod     = 24
	defaultChartRenderTimeout = 20
)

func defaultSymbols() []string {
	return []string{"bitcoin", "ethereum", "tether"}
}

func (c *Config) applyDefaults(keys keySet) {
	c.App.applyDefaults(keys)
	c.Telegram.applyDefaults(keys)
	c.Market.applyDefaults(keys)
	c.Chart.applyDefaults(keys)
}

func (a *AppConfig) applyDefaults(keys keySet) {
	if a == nil {
		return
	}
	applyFieldDefaults(keys,
		stringFieldDefault("app.env", &a.Env, defaultAppEnv),
		stringFieldDefault("app.log_level", &a.LogLevel, defaultAppLogLevel),
		stringFieldDefault("app.http_addr", &a.HTTPAddr, defaultAppHTTPAddr),
	)
}

func (t *TelegramConfig) applyDefaults(keys keySet) {
	if t == nil {
		return
	}
	t.Mode = strings.ToLower(strings.TrimSpace(t.Mode))
	applyFieldDefaults(keys,
		stringFieldDefault("telegram.api_url", &t.APIURL, defaultTelegramAPI),
		stringFieldDefault("telegram.mode", &t.Mode, defaultTelegramMode),
		intFieldDefault("telegram.poll_timeout_seconds", &t.PollTimeoutSeconds, defaultPollTimeout),
		boolFieldDefault("telegram.drop_pending", &t.DropPending, true),
	)
	t.APIURL = strings.TrimRight(t.APIURL, "/")
}

func (m *MarketConfig) applyDefaults(keys keySet) {
	if m == nil {
		return
	}
	m.ActiveSource = strings.ToLower(strings.TrimSpace(m.ActiveSource))
	m.Currency = strings.ToLower(strings.TrimSpace(m.Currency))
	applyFieldDefaults(keys,
		stringFieldDefault("market.active_source", &m.ActiveSource, defaultMarketSource),
		stringFieldDefault("market.currency", &m.Currency, defaultMarketCurrency),
		stringFieldDefault("market.description_lang", &m.DescriptionLang, defaultDescriptionLang),
		intFieldDefault("market.history_days", &m.HistoryDays, defaultHistoryDays),
		intFieldDefault("market.timeout_seconds", &m.TimeoutSeconds, defaultMarketTimeout),
		intFieldDefault("market.breaker_threshold", &m.BreakerThreshold, defaultBreakerThreshold),
		intFieldDefault("market.breaker_cooldown_seconds", &m.BreakerCooldownSeconds, defaultBreakerCooldown),
		stringFieldDefault("market.coingecko.base_url", &m.CoinGecko.BaseURL, defaultCoinGeckoBaseURL),
		stringFieldDefault("market.binance.rest_base_url", &m.Binance.RESTBaseURL, defaultBinanceRESTURL),
		fieldDefault{
			key:   "market.default_symbols",
			need:  func() bool { return len(m.DefaultSymbols) == 0 },
			apply: func() { m.DefaultSymbols = defaultSymbols() },
		},
	)
	m.DefaultSymbols = normalizeSymbolList(m.DefaultSymbols)
	if len(m.DefaultSymbols) == 0 {
		m.DefaultSymbols = defaultSymbols()
	}
	m.Binance.Proxy.normalize()
}

func (c *ChartConfig) applyDefaults(keys keySet) {
	if c == nil {
		return
	}
	applyFieldDefaults(keys,
		intFieldDefault("chart.width", &c.Width, defaultChartWidth),
		intFieldDefault("chart.height", &c.Height, defaultChartHeight),
		intFieldDefault("chart.sma_period", &c.SMAPeriod, defaultChartSMAPeriod),
		intFieldDefault("chart.render_timeout_seconds", &c.RenderTimeoutSeconds, defaultChartRenderTimeout),
	)
}

// applyFieldDefaults skips keys set explicitly in a config file.
func applyFieldDefaults(keys keySet, defs ...fieldDefault) {
	for _, def := range defs {
		if def.apply == nil {
			continue
		}
		if def.key != "" && keys.isSet(def.key) {
			continue
		}
		if def.need != nil && !def.need() {
			continue
		}
		def.apply()
	}
}

func stringFieldDefault(key string, target *string, def string) fieldDefault {
	return fieldDefault{
		key: key,
		need: func() bool {
			return target != nil && strings.TrimSpace(*target) == ""
		},
		apply: func() {
			if target != nil {
				*target = def
			}
		},
	}
}

func intFieldDefault(key string, target *int, def int) fieldDefault {
	return fieldDefault{
		key:  key,
		need: func() bool { return target != nil && *target <= 0 },
		apply: func() {
			if target != nil {
				*target = def
			}
		},
	}
}

func boolFieldDefault(key string, target *bool, def bool) fieldDefault {
	return fieldDefault{
		key:  key,
		need: func() bool { return target != nil },
		apply: func() {
			if target != nil {
				*target = def
			}
		},
	}
}

func normalizeSymbolList(symbols []string) []string {
	if len(symbols) == 0 {
		return nil
	}
	out := make([]string, 0, len(symbols))
	seen := make(map[string]bool, len(symbols))
	for _, s := range symbols {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
