package app

import (
	"context"
	"fmt"

	"cryptobot/internal/config"
	"cryptobot/internal/gateway/telegram"
	"cryptobot/internal/logger"
	"cryptobot/internal/transport/http/botapi"

	"golang.org/x/sync/errgroup"
)

// updateClient is the slice of the Bot API the app drives directly.
type updateClient interface {
	Sender
	GetMe(ctx context.Context) (telegram.User, error)
	GetUpdates(ctx context.Context, offset int64) ([]telegram.Update, error)
	DeleteWebhook(ctx context.Context, dropPending bool) error
	SetWebhook(ctx context.Context, url, secret string, dropPending bool) error
}

// App wires config into the dispatcher and runs the selected update transport.
type App struct {
	cfg        *config.Config
	client     updateClient
	dispatcher *Dispatcher
	httpServer *botapi.Server
	Summary    *StartupSummary
}

// NewApp builds the application without starting it.
func NewApp(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	logger.SetLevel(cfg.App.LogLevel)
	return buildAppWithWire(context.Background(), cfg)
}

// Run serves updates until ctx is cancelled. In polling mode the webhook is
// removed first; in webhook mode it is registered and the HTTP server receives updates.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.cfg == nil || a.dispatcher == nil {
		return fmt.Errorf("app not initialized")
	}
	if a.Summary != nil {
		a.Summary.Print()
	}
	tg := a.cfg.Telegram
	webhook := tg.Mode == config.ModeWebhook
	if webhook {
		if err := a.client.SetWebhook(ctx, tg.WebhookURL, tg.WebhookSecret, tg.DropPending); err != nil {
			return fmt.Errorf("set webhook: %w", err)
		}
		logger.Infof("✓ Webhook registered at %s", tg.WebhookURL)
	} else if err := a.client.DeleteWebhook(ctx, tg.DropPending); err != nil {
		return fmt.Errorf("delete webhook: %w", err)
	}

	group, ctx := errgroup.WithContext(ctx)
	if a.httpServer != nil {
		group.Go(func() error {
			if err := a.httpServer.Start(ctx); err != nil {
				return fmt.Errorf("http server error: %w", err)
			}
			return nil
		})
	}
	if !webhook {
		poller := telegram.NewPoller(a.client, a.dispatcher.Dispatch, pollBackoff)
		group.Go(func() error {
			return poller.Run(ctx)
		})
	}

	err := group.Wait()
	a.dispatcher.Wait()
	return err
}
