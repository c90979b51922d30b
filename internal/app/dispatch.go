package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cryptobot/internal/bot"
	"cryptobot/internal/gateway/telegram"
	"cryptobot/internal/logger"

	"github.com/google/uuid"
)

const pollBackoff = 3 * time.Second

// Sender delivers replies through the Bot API.
type Sender interface {
	SendMessage(ctx context.Context, msg telegram.OutgoingMessage) error
	SendPhoto(ctx context.Context, photo telegram.OutgoingPhoto) error
	AnswerCallbackQuery(ctx context.Context, callbackID, text string) error
}

// Dispatcher handles every update on its own goroutine.
type Dispatcher struct {
	router *bot.Router
	sender Sender
	newID  func() string
	wg     sync.WaitGroup
}

func NewDispatcher(router *bot.Router, sender Sender) *Dispatcher {
	return &Dispatcher{router: router, sender: sender, newID: uuid.NewString}
}

// Dispatch returns immediately; the update is routed and answered in the background.
func (d *Dispatcher) Dispatch(ctx context.Context, u telegram.Update) {
	update, ok := toBotUpdate(u)
	if !ok {
		logger.Debugf("Skipping update %d without text or callback", u.UpdateID)
		return
	}
	update.RequestID = d.newID()
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		_ = d.Handle(ctx, update)
	}()
}

// Wait blocks until in-flight updates are done.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Handle routes u and sends its replies in order, stopping at the first send
// failure. Callback queries are always acknowledged.
func (d *Dispatcher) Handle(ctx context.Context, u bot.Update) error {
	log := logger.With("request_id", u.RequestID, "chat_id", u.ChatID)
	if u.IsCallback() {
		defer func() {
			if err := d.sender.AnswerCallbackQuery(ctx, u.CallbackID, ""); err != nil {
				log.Warnf("Answer callback failed: %v", err)
			}
		}()
	}
	out := d.router.Route(ctx, u)
	for i, reply := range out.Replies {
		if err := d.send(ctx, u.ChatID, reply); err != nil {
			log.Errorf("Sending reply %d/%d for %s failed: %v", i+1, len(out.Replies), out.Command.Kind, err)
			return err
		}
	}
	return nil
}

func (d *Dispatcher) send(ctx context.Context, chatID int64, r bot.Reply) error {
	switch r.Kind {
	case bot.ReplyPhoto:
		return d.sender.SendPhoto(ctx, telegram.OutgoingPhoto{
			ChatID:    chatID,
			Photo:     r.Photo,
			Filename:  r.Filename,
			Caption:   r.Text,
			ParseMode: r.ParseMode,
		})
	case bot.ReplyText:
		return d.sender.SendMessage(ctx, telegram.OutgoingMessage{
			ChatID:    chatID,
			Text:      r.Text,
			ParseMode: r.ParseMode,
			Keyboard:  toKeyboard(r.Keyboard),
		})
	default:
		return fmt.Errorf("unknown reply kind %d", r.Kind)
	}
}

func toKeyboard(rows [][]bot.Button) *telegram.InlineKeyboardMarkup {
	if len(rows) == 0 {
		return nil
	}
	markup := &telegram.InlineKeyboardMarkup{InlineKeyboard: make([][]telegram.InlineKeyboardButton, 0, len(rows))}
	for _, row := range rows {
		out := make([]telegram.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			out = append(out, telegram.InlineKeyboardButton{Text: b.Text, CallbackData: b.Data})
		}
		markup.InlineKeyboard = append(markup.InlineKeyboard, out)
	}
	return markup
}

func toBotUpdate(u telegram.Update) (bot.Update, bool) {
	if cq := u.CallbackQuery; cq != nil {
		chatID := cq.From.ID
		if cq.Message != nil {
			chatID = cq.Message.Chat.ID
		}
		return bot.Update{ChatID: chatID, UserID: cq.From.ID, CallbackID: cq.ID, CallbackData: cq.Data}, true
	}
	if m := u.Message; m != nil && m.Text != "" {
		out := bot.Update{ChatID: m.Chat.ID, Text: m.Text}
		if m.From != nil {
			out.UserID = m.From.ID
		}
		return out, true
	}
	return bot.Update{}, false
}
