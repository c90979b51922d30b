package telegram

import (
	"context"
	"time"

	"cryptobot/internal/logger"
)

// UpdateHandler receives every polled update. It must not block for long;
// the poller does not fetch the next batch until it returns.
type UpdateHandler func(ctx context.Context, u Update)

type updateSource interface {
	GetUpdates(ctx context.Context, offset int64) ([]Update, error)
}

// Poller drives getUpdates until its context ends.
type Poller struct {
	source  updateSource
	handler UpdateHandler
	backoff time.Duration
}

func NewPoller(source updateSource, handler UpdateHandler, backoff time.Duration) *Poller {
	if backoff <= 0 {
		backoff = 3 * time.Second
	}
	return &Poller{source: source, handler: handler, backoff: backoff}
}

// Run returns nil once ctx is cancelled.
func (p *Poller) Run(ctx context.Context) error {
	var offset int64
	logger.Infof("Telegram polling started")
	for {
		if ctx.Err() != nil {
			logger.Infof("Telegram polling stopped")
			return nil
		}
		updates, err := p.source.GetUpdates(ctx, offset)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			logger.Warnf("Telegram getUpdates failed: %v", err)
			select {
			case <-ctx.Done():
			case <-time.After(p.backoff):
			}
			continue
		}
		for _, u := range updates {
			if u.UpdateID >= offset {
				offset = u.UpdateID + 1
			}
			p.handler(ctx, u)
		}
	}
}
