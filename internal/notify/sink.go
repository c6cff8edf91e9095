package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"
)

// Hooks carry the interactive lifecycle callbacks for a delivered
// notification. Sinks that cannot surface interaction simply never invoke
// them.
type Hooks struct {
	OnClick  func()
	OnClosed func()
}

// Delivery is a handle to a displayed notification.
type Delivery interface {
	// Close dismisses the notification. Safe to call more than once.
	Close()
}

// Sink is the host notification environment: the one place a composed
// Intent is turned into something the user can see.
type Sink interface {
	// Supported reports whether this sink can deliver notifications at all.
	Supported() bool

	// RequestPermission asks the host environment for permission to
	// deliver. It may block for as long as the host takes to answer.
	RequestPermission(ctx context.Context) (Permission, error)

	// Deliver displays the notification and returns a handle to it.
	Deliver(ctx context.Context, intent Intent, hooks Hooks) (Delivery, error)
}

// noopDelivery is returned by sinks whose notifications cannot be recalled
// once sent.
type noopDelivery struct {
	hooks  Hooks
	closed bool
}

func (d *noopDelivery) Close() {
	if d.closed {
		return
	}
	d.closed = true
	if d.hooks.OnClosed != nil {
		d.hooks.OnClosed()
	}
}

// TelegramSink delivers notifications via the Telegram Bot API.
type TelegramSink struct {
	botToken string
	chatID   string
	client   *http.Client
}

// NewTelegramSink creates a Telegram-backed notification sink.
func NewTelegramSink(botToken, chatID string) *TelegramSink {
	return &TelegramSink{
		botToken: botToken,
		chatID:   chatID,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

type telegramSendRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

type telegramResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description,omitempty"`
}

func (t *TelegramSink) Supported() bool {
	return t.botToken != "" && t.chatID != ""
}

// RequestPermission probes the bot token via getMe. A rejected token maps
// to a denied permission; transport failures leave the decision open.
func (t *TelegramSink) RequestPermission(ctx context.Context) (Permission, error) {
	if !t.Supported() {
		return PermissionDenied, nil
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/getMe", t.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return PermissionDefault, fmt.Errorf("failed to build permission probe: %w", err)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return PermissionDefault, fmt.Errorf("permission probe failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return PermissionDenied, nil
	}

	var tgResp telegramResponse
	if err := json.NewDecoder(resp.Body).Decode(&tgResp); err != nil {
		return PermissionDefault, fmt.Errorf("failed to parse permission probe response: %w", err)
	}
	if !tgResp.OK {
		return PermissionDenied, nil
	}
	return PermissionGranted, nil
}

// Deliver sends the notification as an HTML message. Telegram messages
// cannot be recalled or clicked, so the returned handle is inert.
func (t *TelegramSink) Deliver(ctx context.Context, intent Intent, hooks Hooks) (Delivery, error) {
	text := fmt.Sprintf("<b>%s</b>\n%s",
		html.EscapeString(intent.Title), html.EscapeString(intent.Body))

	payload := telegramSendRequest{
		ChatID:    t.chatID,
		Text:      text,
		ParseMode: "HTML",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal telegram request: %w", err)
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", t.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send telegram message: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read telegram response: %w", err)
	}

	var tgResp telegramResponse
	if err := json.Unmarshal(respBody, &tgResp); err != nil {
		return nil, fmt.Errorf("failed to parse telegram response: %w", err)
	}
	if !tgResp.OK {
		return nil, fmt.Errorf("telegram API error: %s", tgResp.Description)
	}

	return &noopDelivery{hooks: hooks}, nil
}

// ConsoleSink prints notifications to a writer. Used when no external
// channel is configured, and handy in development.
type ConsoleSink struct {
	out io.Writer
}

func NewConsoleSink(out io.Writer) *ConsoleSink {
	return &ConsoleSink{out: out}
}

func (c *ConsoleSink) Supported() bool {
	return true
}

func (c *ConsoleSink) RequestPermission(_ context.Context) (Permission, error) {
	return PermissionGranted, nil
}

func (c *ConsoleSink) Deliver(_ context.Context, intent Intent, hooks Hooks) (Delivery, error) {
	body := strings.ReplaceAll(intent.Body, "\n", " ")
	if _, err := fmt.Fprintf(c.out, "🔔 %s — %s\n", intent.Title, body); err != nil {
		return nil, fmt.Errorf("failed to write notification: %w", err)
	}
	return &noopDelivery{hooks: hooks}, nil
}
