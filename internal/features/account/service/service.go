package service

import (
	"context"
	"encoding/json"
	"strings"

	"kaliroot-admin/internal/common/errors"
	"kaliroot-admin/internal/common/validation"
	"kaliroot-admin/internal/platform/account"
)

// Client is the account API surface the service proxies.
// *account.Client satisfies it.
type Client interface {
	Health(ctx context.Context) (json.RawMessage, error)
	AuthStatus(ctx context.Context) (json.RawMessage, error)
	SendCode(ctx context.Context, req account.CodeRequest) (json.RawMessage, error)
	Verify(ctx context.Context, req account.VerifyRequest) (json.RawMessage, error)
	Logout(ctx context.Context) (json.RawMessage, error)
	Me(ctx context.Context) (json.RawMessage, error)
	Stats(ctx context.Context) (json.RawMessage, error)
	Channels(ctx context.Context) (json.RawMessage, error)
	Groups(ctx context.Context) (json.RawMessage, error)
	Dialogs(ctx context.Context, limit int) (json.RawMessage, error)
	Chat(ctx context.Context, chatID int64) (json.RawMessage, error)
	Members(ctx context.Context, chatID int64, limit int) (json.RawMessage, error)
	Send(ctx context.Context, req account.SendRequest) (json.RawMessage, error)
}

var _ Client = (*account.Client)(nil)

// View names a read-only endpoint of the account API.
type View string

const (
	ViewHealth     View = "health"
	ViewAuthStatus View = "auth_status"
	ViewMe         View = "me"
	ViewStats      View = "stats"
	ViewChannels   View = "channels"
	ViewGroups     View = "groups"
)

type AccountService interface {
	Get(ctx context.Context, view View) (json.RawMessage, error)
	SendCode(ctx context.Context, req account.CodeRequest) (json.RawMessage, error)
	Verify(ctx context.Context, req account.VerifyRequest) (json.RawMessage, error)
	Logout(ctx context.Context) (json.RawMessage, error)
	Dialogs(ctx context.Context, limit int) (json.RawMessage, error)
	Chat(ctx context.Context, chatID int64) (json.RawMessage, error)
	Members(ctx context.Context, chatID int64, limit int) (json.RawMessage, error)
	Send(ctx context.Context, req account.SendRequest) (json.RawMessage, error)
}

type accountService struct {
	client Client
}

func NewAccountService(client Client) AccountService {
	return &accountService{client: client}
}

func wrap(op string, data json.RawMessage, err error) (json.RawMessage, error) {
	if err != nil {
		return nil, errors.FromAccount(op, err)
	}
	return data, nil
}

func (s *accountService) Get(ctx context.Context, view View) (json.RawMessage, error) {
	var fetch func(context.Context) (json.RawMessage, error)
	switch view {
	case ViewHealth:
		fetch = s.client.Health
	case ViewAuthStatus:
		fetch = s.client.AuthStatus
	case ViewMe:
		fetch = s.client.Me
	case ViewStats:
		fetch = s.client.Stats
	case ViewChannels:
		fetch = s.client.Channels
	case ViewGroups:
		fetch = s.client.Groups
	default:
		return nil, errors.NewNotFoundError("account view", string(view))
	}
	data, err := fetch(ctx)
	return wrap(string(view), data, err)
}

func (s *accountService) SendCode(ctx context.Context, req account.CodeRequest) (json.RawMessage, error) {
	req.Phone = strings.TrimSpace(req.Phone)
	if err := validation.ValidatePhone(req.Phone); err != nil {
		return nil, errors.NewValidationError("phone", err.Error())
	}
	data, err := s.client.SendCode(ctx, req)
	return wrap("send code", data, err)
}

func (s *accountService) Verify(ctx context.Context, req account.VerifyRequest) (json.RawMessage, error) {
	req.Phone = strings.TrimSpace(req.Phone)
	if err := validation.ValidatePhone(req.Phone); err != nil {
		return nil, errors.NewValidationError("phone", err.Error())
	}
	if strings.TrimSpace(req.Code) == "" {
		return nil, errors.NewValidationError("code", "code is required")
	}
	data, err := s.client.Verify(ctx, req)
	return wrap("verify code", data, err)
}

func (s *accountService) Logout(ctx context.Context) (json.RawMessage, error) {
	data, err := s.client.Logout(ctx)
	return wrap("logout", data, err)
}

func (s *accountService) Dialogs(ctx context.Context, limit int) (json.RawMessage, error) {
	data, err := s.client.Dialogs(ctx, limit)
	return wrap("dialogs", data, err)
}

func (s *accountService) Chat(ctx context.Context, chatID int64) (json.RawMessage, error) {
	data, err := s.client.Chat(ctx, chatID)
	return wrap("chat", data, err)
}

func (s *accountService) Members(ctx context.Context, chatID int64, limit int) (json.RawMessage, error) {
	data, err := s.client.Members(ctx, chatID, limit)
	return wrap("members", data, err)
}

func (s *accountService) Send(ctx context.Context, req account.SendRequest) (json.RawMessage, error) {
	if req.ChatID == 0 {
		return nil, errors.NewValidationError("chat_id", "chat id is required")
	}
	if err := validation.ValidateMessage(req.Message); err != nil {
		return nil, errors.NewValidationError("message", err.Error())
	}
	data, err := s.client.Send(ctx, req)
	return wrap("send", data, err)
}
