package bot

import (
	"context"
	"time"

	"cryptobot/internal/catalog"
	"cryptobot/internal/chart"
	"cryptobot/internal/command"
	"cryptobot/internal/logger"
	"cryptobot/internal/market"
)

// Settings are the per-deployment knobs the handlers read.
type Settings struct {
	Currency        string
	DefaultSymbols  []string
	DescriptionLang string
	HistoryDays     int
	Location        *time.Location
	// BotUsername filters out "/cmd@OtherBot" in group chats when set.
	BotUsername string
}

// Request is what a handler sees for one update.
type Request struct {
	Command  command.Command
	Update   Update
	Catalog  *catalog.Catalog
	Prices   market.PriceSource
	Charts   chart.Renderer
	Settings Settings
}

// Handler serves one command kind.
type Handler interface {
	Kind() command.Kind
	Handle(ctx context.Context, req *Request) ([]Reply, error)
}

// Registry maps command kinds to handlers.
type Registry struct {
	handlers map[command.Kind]Handler
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[command.Kind]Handler)}
}

// Register replaces any handler already bound to the same kind.
func (r *Registry) Register(h Handler) {
	if h == nil {
		return
	}
	r.handlers[h.Kind()] = h
}

func (r *Registry) Get(k command.Kind) (Handler, bool) {
	h, ok := r.handlers[k]
	return h, ok
}

func (r *Registry) Len() int {
	return len(r.handlers)
}

// RegisterDefaultHandlers registers every built-in handler.
func (r *Registry) RegisterDefaultHandlers() {
	r.Register(startHandler{})
	r.Register(menuHandler{})
	r.Register(openMenuHandler{})
	r.Register(helpHandler{})
	r.Register(pricesHandler{})
	r.Register(calcHandler{})
	r.Register(chartMenuHandler{})
	r.Register(chartHandler{})
	r.Register(faqMenuHandler{})
	r.Register(faqHandler{})
	r.Register(textHandler{})
	r.Register(unknownHandler{})
	logger.Debugf("Bot: registered %d command handlers", len(r.handlers))
}
