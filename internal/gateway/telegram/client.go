// Package telegram is a small Telegram Bot API client: long polling, text and
// photo replies, callback acknowledgements and webhook management.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const defaultAPIURL = "https://api.telegram.org"

type Config struct {
	BotToken string
	APIURL   string
	// PollTimeout is the getUpdates long-poll window; the HTTP timeout is derived from it.
	PollTimeout time.Duration
}

type Client struct {
	token   string
	apiURL  string
	timeout time.Duration
	http    *http.Client
}

func NewClient(cfg Config) *Client {
	api := strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/")
	if api == "" {
		api = defaultAPIURL
	}
	poll := cfg.PollTimeout
	if poll < 0 {
		poll = 0
	}
	return &Client{
		token:   strings.TrimSpace(cfg.BotToken),
		apiURL:  api,
		timeout: poll,
		http:    &http.Client{Timeout: poll + 15*time.Second},
	}
}

// GetUpdates long-polls for updates with update_id >= offset.
func (c *Client) GetUpdates(ctx context.Context, offset int64) ([]Update, error) {
	payload := map[string]any{
		"offset":          offset,
		"timeout":         int(c.timeout / time.Second),
		"allowed_updates": []string{"message", "callback_query"},
	}
	var updates []Update
	if err := c.callJSON(ctx, "getUpdates", payload, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

// GetMe returns the bot's own account.
func (c *Client) GetMe(ctx context.Context) (User, error) {
	var me User
	if err := c.callJSON(ctx, "getMe", map[string]any{}, &me); err != nil {
		return User{}, err
	}
	return me, nil
}

func (c *Client) SendMessage(ctx context.Context, msg OutgoingMessage) error {
	payload := map[string]any{
		"chat_id": msg.ChatID,
		"text":    msg.Text,
	}
	if msg.ParseMode != "" {
		payload["parse_mode"] = msg.ParseMode
	}
	if msg.Keyboard != nil {
		payload["reply_markup"] = msg.Keyboard
	}
	return c.callJSON(ctx, "sendMessage", payload, nil)
}

// SendPhoto uploads the image as multipart form data.
func (c *Client) SendPhoto(ctx context.Context, photo OutgoingPhoto) error {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fields := map[string]string{"chat_id": strconv.FormatInt(photo.ChatID, 10)}
	if photo.Caption != "" {
		fields["caption"] = photo.Caption
	}
	if photo.ParseMode != "" {
		fields["parse_mode"] = photo.ParseMode
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return err
		}
	}
	name := photo.Filename
	if name == "" {
		name = "chart.png"
	}
	part, err := w.CreateFormFile("photo", name)
	if err != nil {
		return err
	}
	if _, err := part.Write(photo.Photo); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.call(ctx, "sendPhoto", w.FormDataContentType(), &body, nil)
}

func (c *Client) AnswerCallbackQuery(ctx context.Context, callbackID, text string) error {
	payload := map[string]any{"callback_query_id": callbackID}
	if text != "" {
		payload["text"] = text
	}
	return c.callJSON(ctx, "answerCallbackQuery", payload, nil)
}

func (c *Client) DeleteWebhook(ctx context.Context, dropPending bool) error {
	return c.callJSON(ctx, "deleteWebhook", map[string]any{"drop_pending_updates": dropPending}, nil)
}

func (c *Client) SetWebhook(ctx context.Context, url, secret string, dropPending bool) error {
	payload := map[string]any{
		"url":                  url,
		"drop_pending_updates": dropPending,
		"allowed_updates":      []string{"message", "callback_query"},
	}
	if secret != "" {
		payload["secret_token"] = secret
	}
	return c.callJSON(ctx, "setWebhook", payload, nil)
}

func (c *Client) callJSON(ctx context.Context, method string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return c.call(ctx, method, "application/json", bytes.NewReader(body), out)
}

func (c *Client) call(ctx context.Context, method, contentType string, body io.Reader, out any) error {
	if c.token == "" {
		return fmt.Errorf("telegram bot token is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	endpoint := fmt.Sprintf("%s/bot%s/%s", c.apiURL, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)
	resp, err := c.http.Do(req)
	if err != nil {
		// The URL embeds the token; keep it out of error text.
		return fmt.Errorf("telegram %s: %w", method, redact(err, c.token))
	}
	defer resp.Body.Close()

	var parsed apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return fmt.Errorf("telegram %s: status=%d: decode response: %w", method, resp.StatusCode, err)
	}
	if !parsed.OK {
		return &APIError{Method: method, Code: parsed.ErrorCode, Description: parsed.Description}
	}
	if out != nil && len(parsed.Result) > 0 {
		if err := json.Unmarshal(parsed.Result, out); err != nil {
			return fmt.Errorf("telegram %s: decode result: %w", method, err)
		}
	}
	return nil
}

type redactedError struct {
	msg   string
	cause error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.cause }

func redact(err error, token string) error {
	if token == "" || !strings.Contains(err.Error(), token) {
		return err
	}
	return &redactedError{msg: strings.ReplaceAll(err.Error(), token, "<token>"), cause: err}
}
