package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kaliroot-admin/internal/common/config"
	"kaliroot-admin/internal/common/errors"
	"kaliroot-admin/internal/domain/credentials"
	"kaliroot-admin/internal/features/session/models"
	"kaliroot-admin/internal/features/session/repository/memory"
	"kaliroot-admin/internal/platform/backend"
	"kaliroot-admin/internal/platform/backend/backendtest"
	"kaliroot-admin/internal/platform/telegram"
)

type fakeConnector struct {
	db    *backendtest.Fake
	calls []credentials.Credentials
}

func (f *fakeConnector) Backend(creds credentials.Credentials) (backend.Backend, error) {
	f.calls = append(f.calls, creds)
	if !creds.HasBackend() {
		return nil, backend.ErrNoBackend
	}
	return f.db, nil
}

func (f *fakeConnector) Bot(creds credentials.Credentials) *telegram.Client {
	return telegram.NewClient("http://127.0.0.1:0", creds.BotToken, time.Second)
}

type fixture struct {
	svc       SessionService
	db        *backendtest.Fake
	connector *fakeConnector
	creds     *memory.CredentialStore
	sessions  *memory.SessionStore
}

func newFixture(static *config.AdminConfig) *fixture {
	db := backendtest.New().Seed(backend.TableUsers, []map[string]any{
		{"user_id": 1}, {"user_id": 2}, {"user_id": 3},
	})
	f := &fixture{
		db:        db,
		connector: &fakeConnector{db: db},
		creds:     memory.NewCredentialStore(),
		sessions:  memory.NewSessionStore(),
	}
	f.svc = NewSessionService(f.creds, f.sessions, NewTokenManager("secret", "test", time.Hour), f.connector, static)
	return f
}

func TestLoginRequiresURLAndKey(t *testing.T) {
	ctx := context.Background()
	f := newFixture(nil)

	_, err := f.svc.Login(ctx, models.LoginRequest{SupabaseURL: "  "})
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeValidation, appErr.Code)

	_, err = f.svc.Login(ctx, models.LoginRequest{SupabaseURL: "https://x.supabase.co"})
	require.Error(t, err)

	assert.Empty(t, f.connector.calls, "no connection attempt without url and key")
	assert.Empty(t, f.db.Calls)
}

func TestLoginCountsUsersAndIssuesToken(t *testing.T) {
	ctx := context.Background()
	f := newFixture(nil)

	res, err := f.svc.Login(ctx, models.LoginRequest{
		SupabaseURL: " https://x.supabase.co ",
		SupabaseKey: "key",
		BotToken:    "1:abc",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(3), res.UsersCount)
	assert.True(t, res.HasBot)
	assert.False(t, res.Remembered)
	require.Len(t, f.db.CallsTo("count", backend.TableUsers), 1)

	id, creds, err := f.svc.Lookup(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.SessionID, id)
	assert.Equal(t, "https://x.supabase.co", creds.SupabaseURL)
	assert.Equal(t, "1:abc", creds.BotToken)
}

func TestLoginFallsBackToStaticCredentials(t *testing.T) {
	static := config.DefaultAdminConfig()
	static.SupabaseURL = "https://static.supabase.co"
	static.SupabaseKey = "static-key"
	f := newFixture(static)

	_, err := f.svc.Login(context.Background(), models.LoginRequest{SupabaseKey: "entered-key"})
	require.NoError(t, err)

	require.Len(t, f.connector.calls, 1)
	assert.Equal(t, "https://static.supabase.co", f.connector.calls[0].SupabaseURL)
	assert.Equal(t, "entered-key", f.connector.calls[0].SupabaseKey)
}

func TestLoginConnectionFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(nil)
	f.db.Fail(backend.TableUsers, &backend.Error{Status: 401, Message: "Invalid API key"})

	_, err := f.svc.Login(ctx, models.LoginRequest{SupabaseURL: "https://x.supabase.co", SupabaseKey: "bad", Remember: true})

	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeBackend, appErr.Code)
	assert.Contains(t, appErr.Message, "Invalid API key")

	saved, err := f.creds.Load(ctx)
	require.NoError(t, err)
	assert.True(t, saved.IsZero(), "failed logins must not be remembered")
}

func TestLoginRemember(t *testing.T) {
	ctx := context.Background()
	f := newFixture(nil)
	req := models.LoginRequest{SupabaseURL: "https://x.supabase.co", SupabaseKey: "secret-key-123", Remember: true}

	res, err := f.svc.Login(ctx, req)
	require.NoError(t, err)
	assert.True(t, res.Remembered)

	prefill, err := f.svc.Prefill(ctx)
	require.NoError(t, err)
	assert.True(t, prefill.Remember)
	assert.Equal(t, "https://x.supabase.co", prefill.Credentials.SupabaseURL)
	assert.Equal(t, "***ey-123", prefill.Credentials.SupabaseKey)

	req.Remember = false
	_, err = f.svc.Login(ctx, req)
	require.NoError(t, err)

	prefill, err = f.svc.Prefill(ctx)
	require.NoError(t, err)
	assert.False(t, prefill.Remember)
	assert.Empty(t, prefill.Credentials.SupabaseURL)
}

func TestLookupAfterLogout(t *testing.T) {
	ctx := context.Background()
	f := newFixture(nil)

	res, err := f.svc.Login(ctx, models.LoginRequest{SupabaseURL: "https://x.supabase.co", SupabaseKey: "k"})
	require.NoError(t, err)
	require.NoError(t, f.svc.Logout(ctx, res.SessionID))

	_, _, err = f.svc.Lookup(ctx, res.Token)
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeUnauthorized, appErr.Code)

	_, _, err = f.svc.Lookup(ctx, "garbage")
	appErr, ok = errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeUnauthorized, appErr.Code)

	assert.NoError(t, f.svc.Logout(ctx, ""))
}

func TestStaticCredentialsAndBind(t *testing.T) {
	static := config.DefaultAdminConfig()
	static.SupabaseURL = "https://static.supabase.co"
	static.SupabaseKey = "k"
	static.BotToken = "1:abc"
	static.AutoLogin = true
	f := newFixture(static)

	creds, auto := f.svc.StaticCredentials()
	assert.True(t, auto)
	assert.Equal(t, "https://static.supabase.co", creds.SupabaseURL)

	ctx := f.svc.Bind(context.Background(), creds)
	db, err := backend.FromContext(ctx)
	require.NoError(t, err)
	assert.Same(t, f.db, db)
	_, err = telegram.FromContext(ctx)
	assert.NoError(t, err)

	ctx = f.svc.Bind(context.Background(), credentials.Credentials{})
	_, err = backend.FromContext(ctx)
	assert.ErrorIs(t, err, backend.ErrNoBackend)
}
