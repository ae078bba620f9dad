package service

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"kaliroot-admin/internal/common/config"
	"kaliroot-admin/internal/common/errors"
	"kaliroot-admin/internal/common/logger"
	"kaliroot-admin/internal/domain/credentials"
	"kaliroot-admin/internal/features/session/models"
	"kaliroot-admin/internal/features/session/repository"
	"kaliroot-admin/internal/platform/backend"
	"kaliroot-admin/internal/platform/telegram"
)

type SessionService interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	Logout(ctx context.Context, sessionID string) error
	Prefill(ctx context.Context) (*models.PrefillResponse, error)

	Lookup(ctx context.Context, token string) (string, credentials.Credentials, error)
	StaticCredentials() (credentials.Credentials, bool)
	Bind(ctx context.Context, creds credentials.Credentials) context.Context
}

type sessionService struct {
	creds     repository.CredentialStore
	sessions  repository.SessionStore
	tokens    *TokenManager
	connector Connector
	static    *config.AdminConfig
	log       zerolog.Logger
	now       func() time.Time
}

func NewSessionService(
	creds repository.CredentialStore,
	sessions repository.SessionStore,
	tokens *TokenManager,
	connector Connector,
	static *config.AdminConfig,
) SessionService {
	if static == nil {
		static = config.DefaultAdminConfig()
	}
	return &sessionService{
		creds:     creds,
		sessions:  sessions,
		tokens:    tokens,
		connector: connector,
		static:    static,
		log:       logger.Component("session"),
		now:       time.Now,
	}
}

// Login tests the credentials with a head count of usuarios, stores the
// session and applies the remember choice.
func (s *sessionService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	entered := credentials.Credentials{
		SupabaseURL: req.SupabaseURL,
		SupabaseKey: req.SupabaseKey,
		BotToken:    req.BotToken,
	}.Trim()
	creds := entered.Overlay(s.static.Credentials)

	if creds.SupabaseURL == "" {
		return nil, errors.NewValidationError("supabase_url", "enter the Supabase URL and API key")
	}
	if creds.SupabaseKey == "" {
		return nil, errors.NewValidationError("supabase_key", "enter the Supabase URL and API key")
	}

	db, err := s.connector.Backend(creds)
	if err != nil {
		return nil, errors.FromBackend("connect", backend.TableUsers, err)
	}
	count, err := db.Count(ctx, backend.From(backend.TableUsers))
	if err != nil {
		s.log.Warn().Err(err).Str("supabase_url", creds.SupabaseURL).Msg("login connection test failed")
		return nil, errors.FromBackend("connection test", backend.TableUsers, err)
	}

	if req.Remember {
		if err := s.creds.Save(ctx, credentials.Credentials{
			SupabaseURL: creds.SupabaseURL,
			SupabaseKey: creds.SupabaseKey,
			BotToken:    creds.BotToken,
		}); err != nil {
			return nil, errors.NewCacheError("save credentials", err)
		}
	} else if err := s.creds.Clear(ctx); err != nil {
		return nil, errors.NewCacheError("clear credentials", err)
	}

	now := s.now()
	sess := &models.Session{
		ID:          uuid.NewString(),
		Credentials: creds,
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.tokens.TTL()),
	}
	token, expires, err := s.tokens.Generate(sess.ID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "Failed to issue session token")
	}
	sess.ExpiresAt = expires
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, errors.NewCacheError("create session", err)
	}

	s.log.Info().
		Str("session_id", sess.ID).
		Int64("users", count).
		Bool("remember", req.Remember).
		Msg("operator logged in")

	return &models.LoginResponse{
		Token:      token,
		SessionID:  sess.ID,
		ExpiresAt:  expires,
		UsersCount: count,
		HasBot:     creds.BotToken != "",
		Remembered: req.Remember,
	}, nil
}

func (s *sessionService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return errors.NewCacheError("delete session", err)
	}
	s.log.Info().Str("session_id", sessionID).Msg("operator logged out")
	return nil
}

// Prefill overlays the remembered credentials on the static ones. Secrets
// are masked.
func (s *sessionService) Prefill(ctx context.Context) (*models.PrefillResponse, error) {
	saved, err := s.creds.Load(ctx)
	if err != nil {
		return nil, errors.NewCacheError("load credentials", err)
	}
	merged := saved.Overlay(s.static.Credentials)
	return &models.PrefillResponse{
		Credentials: merged.Masked(),
		Remember:    saved.HasBackend(),
		AutoLogin:   s.static.CanAutoLogin(),
	}, nil
}

func (s *sessionService) Lookup(ctx context.Context, token string) (string, credentials.Credentials, error) {
	id, err := s.tokens.Parse(token)
	if err != nil {
		return "", credentials.Credentials{}, errors.Wrap(err, errors.ErrCodeUnauthorized, "Unauthorized: invalid or expired session token")
	}
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		if stderrors.Is(err, repository.ErrSessionNotFound) {
			return "", credentials.Credentials{}, errors.NewUnauthorizedError("session expired, log in again")
		}
		return "", credentials.Credentials{}, errors.NewCacheError("load session", err)
	}
	if sess.Expired(s.now()) {
		return "", credentials.Credentials{}, errors.NewUnauthorizedError("session expired, log in again")
	}
	return sess.ID, sess.Credentials, nil
}

func (s *sessionService) StaticCredentials() (credentials.Credentials, bool) {
	return s.static.Credentials, s.static.CanAutoLogin()
}

// Bind attaches the backend and bot clients of creds to ctx. A backend that
// cannot be built is left unbound, repositories then report NO_BACKEND.
func (s *sessionService) Bind(ctx context.Context, creds credentials.Credentials) context.Context {
	if db, err := s.connector.Backend(creds); err == nil {
		ctx = backend.WithBackend(ctx, db)
	}
	return telegram.WithClient(ctx, s.connector.Bot(creds))
}
