package workers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"kaliroot-admin/internal/platform/telegram"
)

type fakeSender struct {
	mu     sync.Mutex
	fail   map[int64]bool
	sent   []telegram.SendMessageRequest
	onSend func(n int)
}

func (f *fakeSender) SendMessage(_ context.Context, req telegram.SendMessageRequest) (*telegram.Message, error) {
	f.mu.Lock()
	f.sent = append(f.sent, req)
	n := len(f.sent)
	fail := f.fail[req.ChatID.(int64)]
	f.mu.Unlock()
	if f.onSend != nil {
		f.onSend(n)
	}
	if fail {
		return nil, &telegram.APIError{ErrorCode: 403, Description: "Forbidden: bot was blocked by the user"}
	}
	return &telegram.Message{MessageID: int64(n)}, nil
}

func TestBroadcastWorkerTally(t *testing.T) {
	defer goleak.VerifyNone(t)

	sender := &fakeSender{fail: map[int64]bool{2: true, 4: true}}
	w := NewBroadcastWorker(sender, 0)

	var results []bool
	w.OnResult = func(_ context.Context, sent bool) { results = append(results, sent) }

	tally, err := w.Run(context.Background(), []int64{1, 2, 3, 4, 5}, "<b>news</b>", "")
	require.NoError(t, err)

	assert.Equal(t, Tally{Total: 5, Sent: 3, Failed: 2}, tally)
	assert.Equal(t, []bool{true, false, true, false, true}, results)
	require.Len(t, sender.sent, 5)
	assert.Equal(t, "HTML", sender.sent[0].ParseMode)
	assert.Equal(t, int64(1), sender.sent[0].ChatID)
}

func TestBroadcastWorkerKeepsParseMode(t *testing.T) {
	sender := &fakeSender{}
	_, err := NewBroadcastWorker(sender, 0).Run(context.Background(), []int64{1}, "*hi*", "MarkdownV2")
	require.NoError(t, err)
	assert.Equal(t, "MarkdownV2", sender.sent[0].ParseMode)
}

func TestBroadcastWorkerDelay(t *testing.T) {
	sender := &fakeSender{}
	w := NewBroadcastWorker(sender, 20*time.Millisecond)

	start := time.Now()
	_, err := w.Run(context.Background(), []int64{1, 2, 3}, "hi", "")
	require.NoError(t, err)

	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
	assert.Equal(t, DefaultBroadcastDelay, NewBroadcastWorker(sender, -1).delay)
}

func TestBroadcastWorkerStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	sender := &fakeSender{onSend: func(n int) {
		if n == 1 {
			cancel()
		}
	}}
	w := NewBroadcastWorker(sender, time.Hour)

	tally, err := w.Run(ctx, []int64{1, 2, 3}, "hi", "")
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, Tally{Total: 3, Sent: 1}, tally)
}

func TestBroadcastWorkerCancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sender := &fakeSender{}
	tally, err := NewBroadcastWorker(sender, 0).Run(ctx, []int64{1, 2}, "hi", "")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, tally.Sent)
	assert.Empty(t, sender.sent)
}
