// Package bot routes inbound chat updates to command handlers and turns
// their results, including failures, into outbound replies.
package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cryptobot/internal/catalog"
	"cryptobot/internal/chart"
	"cryptobot/internal/command"
	"cryptobot/internal/logger"
	"cryptobot/internal/market"
	"cryptobot/internal/trace"

	"go.opentelemetry.io/otel/attribute"
)

const externalFailureDetail = "the price service is unavailable, try again later"

type Router struct {
	registry *Registry
	catalog  *catalog.Catalog
	prices   market.PriceSource
	charts   chart.Renderer
	settings Settings
}

func NewRouter(registry *Registry, cat *catalog.Catalog, prices market.PriceSource, charts chart.Renderer, settings Settings) *Router {
	if registry == nil {
		registry = NewRegistry()
		registry.RegisterDefaultHandlers()
	}
	if cat == nil {
		cat = catalog.Default()
	}
	if settings.Currency == "" {
		settings.Currency = "usd"
	}
	if settings.HistoryDays <= 0 {
		settings.HistoryDays = 7
	}
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	return &Router{registry: registry, catalog: cat, prices: prices, charts: charts, settings: settings}
}

// Parse classifies an update without running it.
func Parse(u Update) command.Command {
	if u.IsCallback() {
		return command.ParseCallback(u.CallbackData)
	}
	return command.ParseMessage(u.Text)
}

// Route runs the handler for u. Handler errors and panics never escape: they
// are rendered as exactly one text reply and reported in Outcome.Err.
func (r *Router) Route(ctx context.Context, u Update) (out Outcome) {
	cmd := Parse(u)
	out.Command = cmd
	log := logger.With("request_id", u.RequestID, "chat_id", u.ChatID, "command", cmd.Kind.String())
	ctx, span := trace.StartSpan(ctx, "bot.route",
		attribute.String("command", cmd.Kind.String()),
		attribute.Int64("chat_id", u.ChatID),
	)
	start := time.Now()
	if !cmd.AddressedTo(r.settings.BotUsername) {
		log.Debugf("Ignoring command addressed to @%s", cmd.Mention)
		trace.End(span, nil)
		return out
	}
	defer func() {
		if p := recover(); p != nil {
			err := fmt.Errorf("panic in %s handler: %v", cmd.Kind, p)
			log.Errorf("Handler panic: %v", p)
			out.Replies = []Reply{r.errorReply(cmd, err)}
			out.Err = err
		}
		trace.End(span, out.Err)
	}()

	h, ok := r.registry.Get(cmd.Kind)
	if !ok {
		h, ok = r.registry.Get(command.KindUnknown)
		if !ok {
			h = unknownHandler{}
		}
	}
	req := &Request{
		Command:  cmd,
		Update:   u,
		Catalog:  r.catalog,
		Prices:   r.prices,
		Charts:   r.charts,
		Settings: r.settings,
	}
	replies, err := h.Handle(ctx, req)
	if err != nil {
		log.Warnf("Command failed (%s) in %s: %v", command.KindOf(err), time.Since(start).Round(time.Millisecond), err)
		out.Replies = []Reply{r.errorReply(cmd, err)}
		out.Err = err
		return out
	}
	log.Debugf("Command handled with %d replies in %s", len(replies), time.Since(start).Round(time.Millisecond))
	out.Replies = replies
	return out
}

func (r *Router) errorReply(cmd command.Command, err error) Reply {
	msgs := r.catalog.Messages()
	kind := command.KindOf(err)
	if kind == command.UnknownSelection && cmd.Kind == command.KindFAQ {
		return textReply(msgs.QuestionNotFound)
	}
	detail := userDetail(err)
	switch {
	case cmd.Kind == command.KindCalc:
		return textReply(fmt.Sprintf(msgs.CalcError, detail))
	case cmd.Kind == command.KindPrices:
		return textReply(fmt.Sprintf(msgs.PricesError, detail))
	case cmd.Kind == command.KindChart:
		return textReply(fmt.Sprintf(msgs.ChartError, detail))
	default:
		return textReply(fmt.Sprintf(msgs.GenericError, detail))
	}
}

// userDetail keeps collaborator internals (status codes, URLs) out of chat.
func userDetail(err error) string {
	var cmdErr *command.Error
	if !errors.As(err, &cmdErr) {
		return "something went wrong"
	}
	switch cmdErr.Kind {
	case command.InvalidArgumentCount, command.NumericParseError, command.UnknownSelection:
		if cmdErr.Err != nil {
			return cmdErr.Err.Error()
		}
		return cmdErr.Kind.String()
	default:
		return externalFailureDetail
	}
}
