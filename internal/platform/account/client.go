// Package account talks to the local auxiliary account API that exposes the
// operator's own Telegram account (dialogs, channels, members).
package account

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultURL      = "http://localhost:8081"
	MaxDialogsLimit = 500
	MaxMembersLimit = 1000
)

// APIError is a non-2xx answer. Detail carries the upstream "detail" field
// when present.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("account api returned status %d", e.StatusCode)
}

type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

type CodeRequest struct {
	Phone string `json:"phone"`
}

type VerifyRequest struct {
	Phone    string `json:"phone"`
	Code     string `json:"code"`
	Password string `json:"password,omitempty"`
}

type SendRequest struct {
	ChatID  int64  `json:"chat_id"`
	Message string `json:"message"`
}

func (c *Client) Health(ctx context.Context) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/api/health", nil, nil)
}

func (c *Client) AuthStatus(ctx context.Context) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/api/auth/status", nil, nil)
}

func (c *Client) SendCode(ctx context.Context, req CodeRequest) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, "/api/auth/code", nil, req)
}

func (c *Client) Verify(ctx context.Context, req VerifyRequest) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, "/api/auth/verify", nil, req)
}

func (c *Client) Logout(ctx context.Context) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, struct{}{})
}

func (c *Client) Me(ctx context.Context) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/api/me", nil, nil)
}

func (c *Client) Stats(ctx context.Context) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/api/stats", nil, nil)
}

func (c *Client) Channels(ctx context.Context) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/api/channels", nil, nil)
}

func (c *Client) Groups(ctx context.Context) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/api/groups", nil, nil)
}

// Dialogs clamps limit into 1..MaxDialogsLimit.
func (c *Client) Dialogs(ctx context.Context, limit int) (json.RawMessage, error) {
	q := url.Values{"limit": {strconv.Itoa(clamp(limit, 100, MaxDialogsLimit))}}
	return c.do(ctx, http.MethodGet, "/api/dialogs", q, nil)
}

func (c *Client) Chat(ctx context.Context, chatID int64) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/api/chat/"+strconv.FormatInt(chatID, 10), nil, nil)
}

// Members clamps limit into 1..MaxMembersLimit.
func (c *Client) Members(ctx context.Context, chatID int64, limit int) (json.RawMessage, error) {
	q := url.Values{"limit": {strconv.Itoa(clamp(limit, 100, MaxMembersLimit))}}
	return c.do(ctx, http.MethodGet, "/api/members/"+strconv.FormatInt(chatID, 10), q, nil)
}

func (c *Client) Send(ctx context.Context, req SendRequest) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, "/api/send", nil, req)
}

func clamp(v, def, max int) int {
	switch {
	case v <= 0:
		return def
	case v > max:
		return max
	}
	return v
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload any) (json.RawMessage, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("account api unreachable: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var fe struct {
			Detail any `json:"detail"`
		}
		if json.Unmarshal(data, &fe) == nil && fe.Detail != nil {
			if s, ok := fe.Detail.(string); ok {
				apiErr.Detail = s
			} else {
				apiErr.Detail = fmt.Sprint(fe.Detail)
			}
		}
		return nil, apiErr
	}

	if !json.Valid(data) {
		return nil, fmt.Errorf("account api returned invalid JSON (status %d)", resp.StatusCode)
	}
	return json.RawMessage(data), nil
}
