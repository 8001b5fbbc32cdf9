// Package telegram implements a minimal Telegram Bot API client covering the
// two methods the order notification pipeline needs: sendMessage and
// sendPhoto. Credentials are passed per call because they live in the site
// settings record, not in process configuration.
package telegram

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

const (
	// DefaultBaseURL is the public Bot API endpoint.
	DefaultBaseURL = "https://api.telegram.org"

	// DefaultTimeout bounds each API call. Delivery is best-effort; a slow
	// Telegram must not hold the dispatcher hostage.
	DefaultTimeout = 10 * time.Second

	// parseMode is the lightweight markup syntax used in all outgoing
	// messages (bold with *, italic with _).
	parseMode = "Markdown"

	maxErrorBody = 4 << 10
)

// APIError is a Bot API response with ok=false.
type APIError struct {
	Method      string
	StatusCode  int
	ErrorCode   int
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram %s: status %d: %s (code %d)",
		e.Method, e.StatusCode, e.Description, e.ErrorCode)
}

// Client calls the Telegram Bot API over HTTP.
type Client struct {
	// HTTP is the underlying client. When nil, a client with DefaultTimeout
	// is used.
	HTTP *http.Client

	// BaseURL overrides the API endpoint, mainly for tests.
	BaseURL string
}

// NewClient returns a Client with the default endpoint and timeout.
func NewClient() *Client {
	return &Client{
		HTTP:    &http.Client{Timeout: DefaultTimeout},
		BaseURL: DefaultBaseURL,
	}
}

// SendMessage sends a plain text message (Markdown markup) to the chat.
func (c *Client) SendMessage(ctx context.Context, botToken, chatID, text string) error {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("chat_id")
	e.Str(chatID)
	e.FieldStart("text")
	e.Str(text)
	e.FieldStart("parse_mode")
	e.Str(parseMode)
	e.ObjEnd()

	return c.call(ctx, botToken, "sendMessage", e.Bytes())
}

// SendPhoto sends an image message with a Markdown caption to the chat.
// The photo argument is a URL Telegram fetches server-side.
func (c *Client) SendPhoto(ctx context.Context, botToken, chatID, photoURL, caption string) error {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("chat_id")
	e.Str(chatID)
	e.FieldStart("photo")
	e.Str(photoURL)
	e.FieldStart("caption")
	e.Str(caption)
	e.FieldStart("parse_mode")
	e.Str(parseMode)
	e.ObjEnd()

	return c.call(ctx, botToken, "sendPhoto", e.Bytes())
}

// call POSTs the JSON body to /bot<token>/<method> and checks both the HTTP
// status and the Bot API envelope.
func (c *Client) call(ctx context.Context, botToken, method string, body []byte) error {
	hc := c.HTTP
	if hc == nil {
		hc = &http.Client{Timeout: DefaultTimeout}
	}
	baseURL := c.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	url := fmt.Sprintf("%s/bot%s/%s", baseURL, botToken, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return errors.Wrapf(err, "create %s request", method)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := hc.Do(req)
	if err != nil {
		return errors.Wrapf(err, "call %s", method)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return errors.Wrapf(err, "read %s response", method)
	}

	apiErr := &APIError{Method: method, StatusCode: resp.StatusCode}
	ok := false

	d := jx.DecodeBytes(raw)
	if err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		switch string(key) {
		case "ok":
			v, err := d.Bool()
			ok = v
			return err
		case "description":
			v, err := d.Str()
			apiErr.Description = v
			return err
		case "error_code":
			v, err := d.Int()
			apiErr.ErrorCode = v
			return err
		default:
			return d.Skip()
		}
	}); err != nil {
		// Unparseable body: fall back to the HTTP status alone.
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return errors.Wrapf(err, "telegram %s: status %d", method, resp.StatusCode)
		}
		return errors.Wrapf(err, "decode %s response", method)
	}

	if !ok || resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apiErr
	}
	return nil
}
