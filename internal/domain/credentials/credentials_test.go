package credentials

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOverlay(t *testing.T) {
	entered := Credentials{SupabaseURL: "https://mine.supabase.co", BotToken: ""}
	stored := Credentials{SupabaseURL: "https://stored.supabase.co", SupabaseKey: "stored-key", BotToken: "1:abc"}

	got := entered.Overlay(stored)

	assert.Equal(t, "https://mine.supabase.co", got.SupabaseURL)
	assert.Equal(t, "stored-key", got.SupabaseKey)
	assert.Equal(t, "1:abc", got.BotToken)
}

func TestMapRoundTrip(t *testing.T) {
	c := Credentials{
		SupabaseURL:      "https://x.supabase.co",
		SupabaseKey:      "key",
		TelegramAPIID:    "12345",
		TelegramAppTitle: "kaliroot",
	}

	m := c.ToMap()
	assert.Len(t, m, 4)
	assert.NotContains(t, m, KeyBotToken)
	assert.Equal(t, c, FromMap(m))
}

func TestMasked(t *testing.T) {
	c := Credentials{
		SupabaseURL:     "https://x.supabase.co",
		SupabaseKey:     "eyJhbGciOiJIUzI1NiJ9.secret",
		BotToken:        "short",
		TelegramAPIHash: "",
	}

	m := c.Masked()

	assert.Equal(t, c.SupabaseURL, m.SupabaseURL)
	assert.Equal(t, "***secret", m.SupabaseKey)
	assert.Equal(t, "***", m.BotToken)
	assert.Empty(t, m.TelegramAPIHash)
}

func TestHasBackend(t *testing.T) {
	assert.False(t, Credentials{}.HasBackend())
	assert.False(t, Credentials{SupabaseURL: "u"}.HasBackend())
	assert.True(t, Credentials{SupabaseURL: "u", SupabaseKey: "k"}.HasBackend())
	assert.True(t, Credentials{}.IsZero())
	assert.Equal(t, "u", Credentials{SupabaseURL: "  u \n"}.Trim().SupabaseURL)
}
