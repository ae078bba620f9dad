package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManagerRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", "kaliroot-admin", time.Hour)

	token, expires, err := tm.Generate("sess-1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, 5*time.Second)

	id, err := tm.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", id)
}

func TestTokenManagerRejects(t *testing.T) {
	tm := NewTokenManager("secret", "kaliroot-admin", time.Hour)
	token, _, err := tm.Generate("sess-1")
	require.NoError(t, err)

	t.Run("other secret", func(t *testing.T) {
		_, err := NewTokenManager("other", "kaliroot-admin", time.Hour).Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("other issuer", func(t *testing.T) {
		_, err := NewTokenManager("secret", "someone-else", time.Hour).Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		later := NewTokenManager("secret", "kaliroot-admin", time.Hour)
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := later.Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := tm.Parse("not-a-jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
