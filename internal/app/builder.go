package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cryptobot/internal/bot"
	"cryptobot/internal/catalog"
	"cryptobot/internal/chart"
	"cryptobot/internal/config"
	"cryptobot/internal/gateway"
	"cryptobot/internal/gateway/telegram"
	"cryptobot/internal/logger"
	"cryptobot/internal/market"
	"cryptobot/internal/transport/http/botapi"
)

type AppBuilder struct {
	cfg *config.Config

	catalogFn     func(path string) (*catalog.Catalog, error)
	priceSourceFn func(*config.Config) (market.PriceSource, error)
	rendererFn    func(config.ChartConfig) chart.Renderer
	clientFn      func(config.TelegramConfig) updateClient
}

type AppBuilderOption func(*AppBuilder)

// WithPriceSource replaces the configured price collaborator.
func WithPriceSource(src market.PriceSource) AppBuilderOption {
	return func(b *AppBuilder) {
		b.priceSourceFn = func(*config.Config) (market.PriceSource, error) { return src, nil }
	}
}

func WithRenderer(r chart.Renderer) AppBuilderOption {
	return func(b *AppBuilder) {
		b.rendererFn = func(config.ChartConfig) chart.Renderer { return r }
	}
}

func withClient(c updateClient) AppBuilderOption {
	return func(b *AppBuilder) {
		b.clientFn = func(config.TelegramConfig) updateClient { return c }
	}
}

func NewAppBuilder(cfg *config.Config, opts ...AppBuilderOption) *AppBuilder {
	b := &AppBuilder{
		cfg:           cfg,
		catalogFn:     catalog.Load,
		priceSourceFn: gateway.NewPriceSourceFromConfig,
		rendererFn:    newRenderer,
		clientFn:      newTelegramClient,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

func newRenderer(c config.ChartConfig) chart.Renderer {
	return chart.NewChromeRenderer(chart.Options{
		Width:     c.Width,
		Height:    c.Height,
		SMAPeriod: c.SMAPeriod,
		Timeout:   time.Duration(c.RenderTimeoutSeconds) * time.Second,
	})
}

func newTelegramClient(t config.TelegramConfig) updateClient {
	return telegram.NewClient(telegram.Config{
		BotToken:    t.BotToken,
		APIURL:      t.APIURL,
		PollTimeout: time.Duration(t.PollTimeoutSeconds) * time.Second,
	})
}

func (b *AppBuilder) Build(ctx context.Context) (*App, error) {
	if b.cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	cfg := b.cfg

	cat, err := b.catalogFn(cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	src, err := b.priceSourceFn(cfg)
	if err != nil {
		return nil, fmt.Errorf("build price source: %w", err)
	}
	logger.Infof("✓ Price source: %s", src.Name())

	client := b.clientFn(cfg.Telegram)
	registry := bot.NewRegistry()
	registry.RegisterDefaultHandlers()
	router := bot.NewRouter(registry, cat, src, b.rendererFn(cfg.Chart), bot.Settings{
		Currency:        cfg.Market.Currency,
		DefaultSymbols:  cfg.Market.DefaultSymbols,
		DescriptionLang: cfg.Market.DescriptionLang,
		HistoryDays:     cfg.Market.HistoryDays,
		Location:        time.Local,
		BotUsername:     resolveBotUsername(ctx, cfg.Telegram, client),
	})
	dispatcher := NewDispatcher(router, client)

	serverCfg := botapi.ServerConfig{Addr: cfg.App.HTTPAddr, SourceName: src.Name()}
	if cfg.Telegram.Mode == config.ModeWebhook {
		serverCfg.Dispatcher = dispatcher
		serverCfg.WebhookSecret = cfg.Telegram.WebhookSecret
	}

	return &App{
		cfg:        cfg,
		client:     client,
		dispatcher: dispatcher,
		httpServer: botapi.NewServer(serverCfg),
		Summary:    buildSummary(cfg, cat, src.Name()),
	}, nil
}

// resolveBotUsername prefers telegram.bot_username and falls back to getMe.
// An empty result disables mention filtering.
func resolveBotUsername(ctx context.Context, t config.TelegramConfig, client updateClient) string {
	if name := strings.TrimPrefix(strings.TrimSpace(t.BotUsername), "@"); name != "" {
		return name
	}
	me, err := client.GetMe(ctx)
	if err != nil {
		logger.Warnf("Telegram getMe failed, commands for other bots are not filtered: %v", err)
		return ""
	}
	logger.Infof("✓ Bot identity: @%s", me.Username)
	return me.Username
}
