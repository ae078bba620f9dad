package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const DefaultAPIURL = "https://api.telegram.org"

var ErrNoToken = errors.New("telegram: bot token is not configured")

// APIError представляет ответ Bot API с ok=false. Description показывается
// оператору без изменений.
type APIError struct {
	Method      string
	StatusCode  int
	ErrorCode   int
	Description string
	RetryAfter  time.Duration
}

func (e *APIError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("telegram %s failed with status %d", e.Method, e.StatusCode)
	}
	return e.Description
}

// IsRateLimited сообщает о превышении лимита запросов (429).
func (e *APIError) IsRateLimited() bool {
	return e.ErrorCode == http.StatusTooManyRequests || e.StatusCode == http.StatusTooManyRequests
}

// Client выполняет запросы к Telegram Bot API
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
	}
}

func (c *Client) HasToken() bool {
	return c != nil && c.token != ""
}

type User struct {
	ID                      int64  `json:"id"`
	IsBot                   bool   `json:"is_bot"`
	FirstName               string `json:"first_name"`
	LastName                string `json:"last_name,omitempty"`
	Username                string `json:"username,omitempty"`
	CanJoinGroups           bool   `json:"can_join_groups,omitempty"`
	CanReadAllGroupMessages bool   `json:"can_read_all_group_messages,omitempty"`
	SupportsInlineQueries   bool   `json:"supports_inline_queries,omitempty"`
}

type WebhookInfo struct {
	URL                  string   `json:"url"`
	HasCustomCertificate bool     `json:"has_custom_certificate"`
	PendingUpdateCount   int      `json:"pending_update_count"`
	IPAddress            string   `json:"ip_address,omitempty"`
	LastErrorDate        int64    `json:"last_error_date,omitempty"`
	LastErrorMessage     string   `json:"last_error_message,omitempty"`
	MaxConnections       int      `json:"max_connections,omitempty"`
	AllowedUpdates       []string `json:"allowed_updates,omitempty"`
}

type Chat struct {
	ID          int64  `json:"id"`
	Type        string `json:"type"`
	Title       string `json:"title,omitempty"`
	Username    string `json:"username,omitempty"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	Description string `json:"description,omitempty"`
	Bio         string `json:"bio,omitempty"`
}

type Message struct {
	MessageID int64 `json:"message_id"`
	Date      int64 `json:"date"`
	Chat      Chat  `json:"chat"`
}

type SendMessageRequest struct {
	ChatID                any    `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode,omitempty"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview,omitempty"`
}

type response[T any] struct {
	Ok          bool   `json:"ok"`
	Result      T      `json:"result"`
	ErrorCode   int    `json:"error_code,omitempty"`
	Description string `json:"description,omitempty"`
	Parameters  *struct {
		RetryAfter int `json:"retry_after,omitempty"`
	} `json:"parameters,omitempty"`
}

func (c *Client) GetMe(ctx context.Context) (*User, error) {
	var out User
	if err := call(ctx, c, "getMe", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetWebhookInfo(ctx context.Context) (*WebhookInfo, error) {
	var out WebhookInfo
	if err := call(ctx, c, "getWebhookInfo", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteWebhook(ctx context.Context, dropPendingUpdates bool) error {
	payload := map[string]any{"drop_pending_updates": dropPendingUpdates}
	var ok bool
	return call(ctx, c, "deleteWebhook", payload, &ok)
}

func (c *Client) SendMessage(ctx context.Context, req SendMessageRequest) (*Message, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, errors.New("telegram: message text is empty")
	}
	var out Message
	if err := call(ctx, c, "sendMessage", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendText sends an HTML formatted message to a user or chat id.
func (c *Client) SendText(ctx context.Context, chatID int64, text string) error {
	_, err := c.SendMessage(ctx, SendMessageRequest{ChatID: chatID, Text: text, ParseMode: "HTML"})
	return err
}

// GetChat accepts a numeric id or an @username.
func (c *Client) GetChat(ctx context.Context, chatID string) (*Chat, error) {
	var out Chat
	if err := call(ctx, c, "getChat", map[string]any{"chat_id": chatID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetChatMemberCount(ctx context.Context, chatID string) (int, error) {
	var out int
	if err := call(ctx, c, "getChatMemberCount", map[string]any{"chat_id": chatID}, &out); err != nil {
		return 0, err
	}
	return out, nil
}

func call[T any](ctx context.Context, c *Client, method string, payload any, out *T) error {
	if !c.HasToken() {
		return ErrNoToken
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode %s payload: %w", method, err)
		}
		body = bytes.NewReader(data)
	}

	endpoint := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// the URL carries the token, keep it out of the error
		var uerr interface{ Unwrap() error }
		if errors.As(err, &uerr) && uerr.Unwrap() != nil {
			err = uerr.Unwrap()
		}
		return fmt.Errorf("telegram %s: failed to send request: %w", method, err)
	}
	defer resp.Body.Close()

	var result response[T]
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("telegram %s: failed to parse response (status %d): %w", method, resp.StatusCode, err)
	}
	if !result.Ok {
		apiErr := &APIError{
			Method:      method,
			StatusCode:  resp.StatusCode,
			ErrorCode:   result.ErrorCode,
			Description: result.Description,
		}
		if result.Parameters != nil && result.Parameters.RetryAfter > 0 {
			apiErr.RetryAfter = time.Duration(result.Parameters.RetryAfter) * time.Second
		}
		return apiErr
	}
	*out = result.Result
	return nil
}
