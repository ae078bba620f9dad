package service

import (
	"time"

	"kaliroot-admin/internal/domain/credentials"
	"kaliroot-admin/internal/platform/backend"
	"kaliroot-admin/internal/platform/backend/rest"
	"kaliroot-admin/internal/platform/telegram"
)

// Connector builds the clients a set of credentials gives access to.
type Connector interface {
	Backend(creds credentials.Credentials) (backend.Backend, error)
	Bot(creds credentials.Credentials) *telegram.Client
}

type ConnectorConfig struct {
	// Shared, when set, is used for every session instead of a PostgREST
	// client built from the session credentials.
	Shared          backend.Backend
	BackendTimeout  time.Duration
	TelegramAPIURL  string
	TelegramTimeout time.Duration
}

type connector struct {
	cfg ConnectorConfig
}

func NewConnector(cfg ConnectorConfig) Connector {
	return &connector{cfg: cfg}
}

func (c *connector) Backend(creds credentials.Credentials) (backend.Backend, error) {
	if c.cfg.Shared != nil {
		return c.cfg.Shared, nil
	}
	if !creds.HasBackend() {
		return nil, backend.ErrNoBackend
	}
	return rest.NewClient(creds.SupabaseURL, creds.SupabaseKey, c.cfg.BackendTimeout), nil
}

func (c *connector) Bot(creds credentials.Credentials) *telegram.Client {
	return telegram.NewClient(c.cfg.TelegramAPIURL, creds.BotToken, c.cfg.TelegramTimeout)
}
