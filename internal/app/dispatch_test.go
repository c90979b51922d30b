package app

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"cryptobot/internal/bot"
	"cryptobot/internal/catalog"
	"cryptobot/internal/chart"
	"cryptobot/internal/config"
	"cryptobot/internal/gateway/telegram"
	"cryptobot/internal/market"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	mu        sync.Mutex
	messages  []telegram.OutgoingMessage
	photos    []telegram.OutgoingPhoto
	answered  []string
	failSend  bool
	updates   []telegram.Update
	deleted   bool
	webhook   string
	username  string
	delivered chan struct{}
}

func (f *fakeClient) GetMe(context.Context) (telegram.User, error) {
	if f.username == "" {
		return telegram.User{}, errors.New("unauthorized")
	}
	return telegram.User{ID: 1, Username: f.username}, nil
}

func (f *fakeClient) SendMessage(_ context.Context, msg telegram.OutgoingMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSend {
		return errors.New("telegram down")
	}
	f.messages = append(f.messages, msg)
	if f.delivered != nil {
		f.delivered <- struct{}{}
	}
	return nil
}

func (f *fakeClient) SendPhoto(_ context.Context, p telegram.OutgoingPhoto) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSend {
		return errors.New("telegram down")
	}
	f.photos = append(f.photos, p)
	return nil
}

func (f *fakeClient) AnswerCallbackQuery(_ context.Context, id, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.answered = append(f.answered, id)
	return nil
}

func (f *fakeClient) GetUpdates(ctx context.Context, _ int64) ([]telegram.Update, error) {
	f.mu.Lock()
	batch := f.updates
	f.updates = nil
	f.mu.Unlock()
	if len(batch) > 0 {
		return batch, nil
	}
	<-ctx.Done()
	return nil, ctx.Err()
}

func (f *fakeClient) DeleteWebhook(context.Context, bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = true
	return nil
}

func (f *fakeClient) SetWebhook(_ context.Context, url, _ string, _ bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.webhook = url
	return nil
}

type stubSource struct{}

func (stubSource) Quotes(context.Context, []string, string) (map[string]float64, error) {
	return map[string]float64{"bitcoin": 100}, nil
}

func (stubSource) History(context.Context, string, string, int) ([]market.PricePoint, error) {
	return []market.PricePoint{{Time: time.Unix(0, 0), Price: 1}}, nil
}

func (stubSource) Description(context.Context, string, string) (string, error) {
	return "desc", nil
}

func (stubSource) Name() string { return "stub" }

type stubRenderer struct{ err error }

func (r stubRenderer) Render(context.Context, chart.Series) ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	return []byte("png"), nil
}

func newTestDispatcher(client *fakeClient, renderErr error) *Dispatcher {
	router := bot.NewRouter(nil, catalog.Default(), stubSource{}, stubRenderer{err: renderErr}, bot.Settings{})
	d := NewDispatcher(router, client)
	d.newID = func() string { return "req-1" }
	return d
}

func TestHandleSendsRepliesInOrder(t *testing.T) {
	client := &fakeClient{}
	d := newTestDispatcher(client, nil)

	err := d.Handle(context.Background(), bot.Update{ChatID: 5, CallbackID: "cb", CallbackData: "chart_bitcoin"})
	require.NoError(t, err)
	require.Len(t, client.photos, 1)
	assert.Equal(t, int64(5), client.photos[0].ChatID)
	assert.Equal(t, "bitcoin.png", client.photos[0].Filename)
	require.Len(t, client.messages, 1)
	assert.Equal(t, "🧾 Description:\ndesc", client.messages[0].Text)
	assert.Equal(t, []string{"cb"}, client.answered)
}

func TestHandleAnswersCallbackOnFailure(t *testing.T) {
	client := &fakeClient{}
	d := newTestDispatcher(client, errors.New("no chrome"))

	require.NoError(t, d.Handle(context.Background(), bot.Update{ChatID: 5, CallbackID: "cb", CallbackData: "chart_bitcoin"}))
	assert.Empty(t, client.photos)
	require.Len(t, client.messages, 1)
	assert.Contains(t, client.messages[0].Text, "Failed to load token data")
	assert.Equal(t, []string{"cb"}, client.answered)
}

func TestHandleStopsOnSendFailure(t *testing.T) {
	client := &fakeClient{failSend: true}
	d := newTestDispatcher(client, nil)

	err := d.Handle(context.Background(), bot.Update{ChatID: 5, Text: "/start"})
	assert.Error(t, err)
}

func TestHandleMapsKeyboard(t *testing.T) {
	client := &fakeClient{}
	d := newTestDispatcher(client, nil)

	require.NoError(t, d.Handle(context.Background(), bot.Update{ChatID: 1, Text: "/chart"}))
	require.Len(t, client.messages, 1)
	kb := client.messages[0].Keyboard
	require.NotNil(t, kb)
	assert.Equal(t, "chart_bitcoin", kb.InlineKeyboard[0][0].CallbackData)
	assert.Empty(t, client.answered)
}

func TestToBotUpdate(t *testing.T) {
	u, ok := toBotUpdate(telegram.Update{Message: &telegram.Message{Chat: telegram.Chat{ID: 3}, From: &telegram.User{ID: 4}, Text: "hi"}})
	require.True(t, ok)
	assert.Equal(t, bot.Update{ChatID: 3, UserID: 4, Text: "hi"}, u)

	u, ok = toBotUpdate(telegram.Update{CallbackQuery: &telegram.CallbackQuery{ID: "c", From: telegram.User{ID: 9}, Data: "faq_q1"}})
	require.True(t, ok)
	assert.Equal(t, int64(9), u.ChatID)
	assert.True(t, u.IsCallback())

	_, ok = toBotUpdate(telegram.Update{Message: &telegram.Message{Chat: telegram.Chat{ID: 3}}})
	assert.False(t, ok)
}

func testConfig(mode string) *config.Config {
	cfg := &config.Config{}
	cfg.App.HTTPAddr = "127.0.0.1:0"
	cfg.Telegram.Mode = mode
	cfg.Telegram.WebhookURL = "https://example.com/telegram/webhook"
	cfg.Market.Currency = "usd"
	cfg.Market.HistoryDays = 7
	return cfg
}

func TestAppRunPolling(t *testing.T) {
	client := &fakeClient{
		updates:   []telegram.Update{{UpdateID: 1, Message: &telegram.Message{Chat: telegram.Chat{ID: 2}, Text: "hello"}}},
		delivered: make(chan struct{}, 1),
	}
	b := NewAppBuilder(testConfig(config.ModePolling), WithPriceSource(stubSource{}), WithRenderer(stubRenderer{}), withClient(client))
	app, err := b.Build(context.Background())
	require.NoError(t, err)
	app.Summary = nil

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	select {
	case <-client.delivered:
	case <-time.After(5 * time.Second):
		t.Fatal("reply not delivered")
	}
	cancel()
	require.NoError(t, <-done)

	client.mu.Lock()
	defer client.mu.Unlock()
	assert.True(t, client.deleted)
	assert.Equal(t, "Hi to you too!", client.messages[0].Text)
}

func TestAppRunWebhookRegisters(t *testing.T) {
	client := &fakeClient{}
	b := NewAppBuilder(testConfig(config.ModeWebhook), WithPriceSource(stubSource{}), WithRenderer(stubRenderer{}), withClient(client))
	app, err := b.Build(context.Background())
	require.NoError(t, err)
	app.Summary = nil

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, app.Run(ctx))
	assert.Equal(t, "https://example.com/telegram/webhook", client.webhook)
	assert.False(t, client.deleted)
}

func TestSummaryFprint(t *testing.T) {
	s := buildSummary(testConfig(config.ModePolling), catalog.Default(), "coingecko")
	var buf bytes.Buffer
	s.Fprint(&buf)
	assert.Contains(t, buf.String(), "Price source: coingecko")
	assert.Contains(t, buf.String(), "Chart tokens: BTC, ETH, SOL, BNB, DOGE")
}

func TestBuildIgnoresCommandsForOtherBots(t *testing.T) {
	client := &fakeClient{username: "CryptoBot"}
	b := NewAppBuilder(testConfig(config.ModePolling), WithPriceSource(stubSource{}), WithRenderer(stubRenderer{}), withClient(client))
	app, err := b.Build(context.Background())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, app.dispatcher.Handle(ctx, bot.Update{ChatID: 7, Text: "/calc@OtherBot 20000 10 100"}))
	assert.Empty(t, client.messages)

	require.NoError(t, app.dispatcher.Handle(ctx, bot.Update{ChatID: 7, Text: "/calc@CryptoBot 20000 10 100"}))
	require.Len(t, client.messages, 1)
	assert.Equal(t, "📈 Position size: 1000\n⚠️ Liquidation: 18000.00", client.messages[0].Text)
}

func TestResolveBotUsername(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "Override", resolveBotUsername(ctx, config.TelegramConfig{BotUsername: "@Override"}, &fakeClient{username: "CryptoBot"}))
	assert.Equal(t, "CryptoBot", resolveBotUsername(ctx, config.TelegramConfig{}, &fakeClient{username: "CryptoBot"}))
	assert.Empty(t, resolveBotUsername(ctx, config.TelegramConfig{}, &fakeClient{}))
}
