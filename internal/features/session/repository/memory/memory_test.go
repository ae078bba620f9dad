package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kaliroot-admin/internal/domain/credentials"
	"kaliroot-admin/internal/features/session/models"
	"kaliroot-admin/internal/features/session/repository"
)

func TestCredentialStoreMergesSaves(t *testing.T) {
	ctx := context.Background()
	s := NewCredentialStore()

	require.NoError(t, s.Save(ctx, credentials.Credentials{SupabaseURL: "u", SupabaseKey: "k", BotToken: "b"}))
	require.NoError(t, s.Save(ctx, credentials.Credentials{SupabaseKey: "k2"}))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, credentials.Credentials{SupabaseURL: "u", SupabaseKey: "k2", BotToken: "b"}, got)

	require.NoError(t, s.Clear(ctx))
	got, err = s.Load(ctx)
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestSessionStoreExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewSessionStore()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Create(ctx, &models.Session{ID: "a", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}))

	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "a", got.ID)

	now = now.Add(time.Hour)
	_, err = s.Get(ctx, "a")
	assert.ErrorIs(t, err, repository.ErrSessionNotFound)

	_, err = s.Get(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrSessionNotFound)
}
