package telegram_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kaliroot-admin/internal/platform/telegram"
	"kaliroot-admin/internal/platform/telegram/telegramtest"
)

func TestGetMeAndWebhook(t *testing.T) {
	srv := telegramtest.NewServer(t)
	srv.SetWebhook(telegram.WebhookInfo{URL: "https://example.com/hook", PendingUpdateCount: 3})
	client := srv.Client(telegramtest.Token)
	ctx := context.Background()

	me, err := client.GetMe(ctx)
	require.NoError(t, err)
	assert.Equal(t, "kaliroot_bot", me.Username)
	assert.True(t, me.IsBot)

	hook, err := client.GetWebhookInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/hook", hook.URL)
	assert.Equal(t, 3, hook.PendingUpdateCount)
}

func TestDeleteWebhookSendsDropFlag(t *testing.T) {
	srv := telegramtest.NewServer(t)
	client := srv.Client(telegramtest.Token)

	require.NoError(t, client.DeleteWebhook(context.Background(), true))
	assert.Equal(t, true, srv.LastBody("deleteWebhook")["drop_pending_updates"])
}

func TestSendTextUsesHTML(t *testing.T) {
	srv := telegramtest.NewServer(t)
	client := srv.Client(telegramtest.Token)

	require.NoError(t, client.SendText(context.Background(), 42, "<b>hi</b>"))
	sent := srv.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "42", sent[0].ChatID)
	assert.Equal(t, "HTML", sent[0].ParseMode)
}

func TestSendMessageRejectsEmptyText(t *testing.T) {
	srv := telegramtest.NewServer(t)
	client := srv.Client(telegramtest.Token)

	_, err := client.SendMessage(context.Background(), telegram.SendMessageRequest{ChatID: 1, Text: "   "})
	assert.Error(t, err)
	assert.Zero(t, srv.Calls("sendMessage"))
}

func TestOkFalseSurfacesDescription(t *testing.T) {
	srv := telegramtest.NewServer(t)
	srv.FailChat("7")
	client := srv.Client(telegramtest.Token)

	err := client.SendText(context.Background(), 7, "hello")
	var apiErr *telegram.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Forbidden: bot was blocked by the user", err.Error())
	assert.Equal(t, "sendMessage", apiErr.Method)
	assert.False(t, apiErr.IsRateLimited())
}

func TestRateLimitCarriesRetryAfter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, `{"ok":false,"error_code":429,"description":"Too Many Requests: retry after 5","parameters":{"retry_after":5}}`)
	}))
	defer srv.Close()

	client := telegram.NewClient(srv.URL, "1:abc", time.Second)
	_, err := client.GetMe(context.Background())

	var apiErr *telegram.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsRateLimited())
	assert.Equal(t, 5*time.Second, apiErr.RetryAfter)
}

func TestMissingToken(t *testing.T) {
	client := telegram.NewClient("http://127.0.0.1:1", "", time.Second)
	assert.False(t, client.HasToken())

	_, err := client.GetMe(context.Background())
	assert.ErrorIs(t, err, telegram.ErrNoToken)

	var nilClient *telegram.Client
	assert.False(t, nilClient.HasToken())
}

func TestTransportErrorHidesToken(t *testing.T) {
	client := telegram.NewClient("http://127.0.0.1:1", "999:secret-token", 200*time.Millisecond)

	_, err := client.GetMe(context.Background())
	require.Error(t, err)
	assert.False(t, strings.Contains(err.Error(), "secret-token"), err.Error())
}

func TestChatAndMemberCount(t *testing.T) {
	srv := telegramtest.NewServer(t)
	client := srv.Client(telegramtest.Token)
	ctx := context.Background()

	chat, err := client.GetChat(ctx, "@kaliroot")
	require.NoError(t, err)
	assert.Equal(t, "kaliroot", chat.Username)

	n, err := client.GetChatMemberCount(ctx, "@kaliroot")
	require.NoError(t, err)
	assert.Equal(t, 1337, n)
}

func TestResolvers(t *testing.T) {
	ctx := context.Background()

	_, err := telegram.ContextResolver{}.Resolve(ctx)
	assert.ErrorIs(t, err, telegram.ErrNoToken)

	empty := telegram.NewClient("", "", 0)
	_, err = telegram.ContextResolver{}.Resolve(telegram.WithClient(ctx, empty))
	assert.ErrorIs(t, err, telegram.ErrNoToken)

	bot := telegram.NewClient("", "1:abc", 0)
	got, err := telegram.Static{Client: bot}.Resolve(ctx)
	require.NoError(t, err)
	assert.Same(t, bot, got)
}
