package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"kaliroot-admin/internal/common/errors"
	"kaliroot-admin/internal/features/broadcast/models"
	"kaliroot-admin/internal/features/broadcast/repository"
	"kaliroot-admin/internal/features/broadcast/repository/memory"
	"kaliroot-admin/internal/platform/backend"
	"kaliroot-admin/internal/platform/backend/backendtest"
	"kaliroot-admin/internal/platform/telegram"
	"kaliroot-admin/internal/platform/telegram/telegramtest"
)

// verifyNoLeaks runs after the fake Bot API has been closed.
func verifyNoLeaks(t *testing.T) {
	t.Cleanup(func() {
		goleak.VerifyNone(t,
			goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
			goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
			goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
		)
	})
}

func users() *backendtest.Fake {
	return backendtest.New().Seed(backend.TableUsers, []map[string]any{
		{"user_id": 101, "subscription_status": "active"},
		{"user_id": 102, "subscription_status": "inactive"},
		{"user_id": 103, "subscription_status": "active"},
	})
}

func newService(ctx context.Context, db *backendtest.Fake, bot telegram.Resolver) BroadcastService {
	return NewBroadcastService(ctx,
		repository.NewRecipientRepository(backend.Static{Backend: db}),
		memory.NewJobStore(),
		bot,
		Config{Delay: 0},
	)
}

func TestStartSendsInBackground(t *testing.T) {
	verifyNoLeaks(t)
	srv := telegramtest.NewServer(t)
	srv.FailChat("103")
	svc := newService(context.Background(), users(), telegram.Static{Client: srv.Client(telegramtest.Token)})

	res, err := svc.Start(context.Background(), models.StartRequest{Segment: "premium", Message: "<b>Promo</b>"})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	assert.NotEmpty(t, res.JobID)

	svc.Wait()

	job, err := svc.Get(context.Background(), res.JobID)
	require.NoError(t, err)
	assert.Equal(t, models.StateCompleted, job.State)
	assert.Equal(t, 1, job.Sent)
	assert.Equal(t, 1, job.Failed)
	assert.NotNil(t, job.FinishedAt)

	sent := srv.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "101", sent[0].ChatID)
	assert.Equal(t, "HTML", sent[0].ParseMode)
}

func TestRunIsSynchronous(t *testing.T) {
	verifyNoLeaks(t)
	srv := telegramtest.NewServer(t)
	svc := newService(context.Background(), users(), telegram.Static{Client: srv.Client(telegramtest.Token)})

	job, err := svc.Run(context.Background(), models.StartRequest{Segment: "all", Message: "hola"})
	require.NoError(t, err)
	assert.Equal(t, models.StateCompleted, job.State)
	assert.Equal(t, 3, job.Total)
	assert.Equal(t, 3, job.Sent)
	assert.Len(t, srv.Sent(), 3)
}

func TestStartStopsWithBaseContext(t *testing.T) {
	verifyNoLeaks(t)
	srv := telegramtest.NewServer(t)
	base, cancel := context.WithCancel(context.Background())
	svc := NewBroadcastService(base,
		repository.NewRecipientRepository(backend.Static{Backend: users()}),
		memory.NewJobStore(),
		telegram.Static{Client: srv.Client(telegramtest.Token)},
		Config{Delay: time.Hour},
	)

	res, err := svc.Start(context.Background(), models.StartRequest{Segment: "all", Message: "hola"})
	require.NoError(t, err)

	require.Eventually(t, func() bool { return len(srv.Sent()) == 1 }, 5*time.Second, 10*time.Millisecond)
	cancel()
	svc.Wait()

	job, err := svc.Get(context.Background(), res.JobID)
	require.NoError(t, err)
	assert.Equal(t, models.StateStopped, job.State)
	assert.Equal(t, 1, job.Sent)
}

func TestStartValidation(t *testing.T) {
	srv := telegramtest.NewServer(t)
	db := users()
	svc := newService(context.Background(), db, telegram.Static{Client: srv.Client(telegramtest.Token)})

	tests := []struct {
		name string
		req  models.StartRequest
		code errors.ErrorCode
	}{
		{"bad segment", models.StartRequest{Segment: "vip", Message: "x"}, errors.ErrCodeValidation},
		{"empty message", models.StartRequest{Segment: "all", Message: " "}, errors.ErrCodeValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Start(context.Background(), tt.req)
			appErr, ok := errors.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, tt.code, appErr.Code)
		})
	}
	assert.Empty(t, db.Calls)
	assert.Zero(t, srv.Calls("sendMessage"))

	noBot := newService(context.Background(), db, telegram.Static{})
	_, err := noBot.Start(context.Background(), models.StartRequest{Segment: "all", Message: "x"})
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeValidation, appErr.Code)
	assert.Empty(t, db.Calls, "recipients are not loaded without a bot")
}

func TestGetUnknownJob(t *testing.T) {
	svc := newService(context.Background(), users(), telegram.Static{})

	_, err := svc.Get(context.Background(), "nope")
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeNotFound, appErr.Code)
}
