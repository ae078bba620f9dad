package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kaliroot-admin/internal/common/errors"
	"kaliroot-admin/internal/features/user/models"
	"kaliroot-admin/internal/features/user/repository"
	"kaliroot-admin/internal/platform/backend"
	"kaliroot-admin/internal/platform/backend/backendtest"
	"kaliroot-admin/internal/platform/telegram"
	"kaliroot-admin/internal/platform/telegram/telegramtest"
)

func ptr[T any](v T) *T { return &v }

func seedUsers(n int) []models.User {
	users := make([]models.User, n)
	for i := range users {
		users[i] = models.User{
			UserID:    int64(1000 + i),
			FirstName: "user",
			CreatedAt: "2025-01-01T00:00:00Z",
		}
	}
	return users
}

func newService(db *backendtest.Fake, bot telegram.Resolver) UserService {
	if bot == nil {
		bot = telegram.Static{}
	}
	return NewUserService(repository.NewUserRepository(backend.Static{Backend: db}), bot)
}

func TestSearch(t *testing.T) {
	users := []models.User{
		{UserID: 123456, FirstName: "Ana", Username: "ana_sec"},
		{UserID: 777, FirstName: "Bruno", Username: "root"},
		{UserID: 888, FirstName: "Carla"},
	}

	assert.Len(t, Search(users, ""), 3)
	assert.Len(t, Search(users, "   "), 3)

	got := Search(users, "ANA")
	require.Len(t, got, 1)
	assert.Equal(t, int64(123456), got[0].UserID)

	got = Search(users, "345")
	require.Len(t, got, 1)
	assert.Equal(t, int64(123456), got[0].UserID)

	got = Search(users, "root")
	require.Len(t, got, 1)
	assert.Equal(t, "Bruno", got[0].FirstName)

	assert.Empty(t, Search(users, "zzz"))
}

func TestListPaginates(t *testing.T) {
	db := backendtest.New().Seed(backend.TableUsers, seedUsers(45))
	svc := newService(db, nil)

	page, err := svc.List(context.Background(), models.ListParams{Page: 3})
	require.NoError(t, err)
	assert.Equal(t, 45, page.Total)
	assert.Equal(t, 3, page.TotalPages)
	assert.Len(t, page.Items, 5)

	page, err = svc.List(context.Background(), models.ListParams{Page: 9})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestListOutOfRangeParams(t *testing.T) {
	db := backendtest.New().Seed(backend.TableUsers, seedUsers(3))
	svc := newService(db, nil)

	page, err := svc.List(context.Background(), models.ListParams{Page: int(^uint(0) >> 1)})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 1, page.TotalPages)

	page, err = svc.List(context.Background(), models.ListParams{Page: 1, PerPage: 1 << 30})
	require.NoError(t, err)
	assert.Len(t, page.Items, 3)
	assert.Equal(t, 1, page.TotalPages)
}

func TestListAppliesDisplayDefaults(t *testing.T) {
	db := backendtest.New().Seed(backend.TableUsers, []models.User{{UserID: 1, SubscriptionStatus: ""}})
	svc := newService(db, nil)

	page, err := svc.List(context.Background(), models.ListParams{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "inactive", page.Items[0].SubscriptionStatus)
	assert.Equal(t, 1, page.Items[0].Level)
}

func TestListBackendError(t *testing.T) {
	db := backendtest.New().Fail(backend.TableUsers, &backend.Error{Code: "42501", Message: "permission denied"})
	svc := newService(db, nil)

	_, err := svc.List(context.Background(), models.ListParams{})
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeBackend, appErr.Code)
	assert.Equal(t, "42501", appErr.Details["backend_code"])
}

func TestUpdateValues(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		v, err := UpdateValues(models.UserUpdate{})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{
			"credit_balance":      int64(0),
			"subscription_status": "inactive",
			"level":               1,
			"xp":                  int64(0),
		}, v)
	})

	t.Run("expiry only when set", func(t *testing.T) {
		v, err := UpdateValues(models.UserUpdate{
			CreditBalance:          ptr(int64(50)),
			SubscriptionStatus:     "active",
			Level:                  ptr(3),
			XP:                     ptr(int64(120)),
			SubscriptionExpiryDate: ptr("2025-04-15T14:30"),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(50), v["credit_balance"])
		assert.Equal(t, 3, v["level"])
		assert.Equal(t, "2025-04-15T14:30:00Z", v["subscription_expiry_date"])

		v, err = UpdateValues(models.UserUpdate{SubscriptionExpiryDate: ptr("  ")})
		require.NoError(t, err)
		assert.NotContains(t, v, "subscription_expiry_date")
	})

	t.Run("backend owns the constraints", func(t *testing.T) {
		v, err := UpdateValues(models.UserUpdate{
			CreditBalance:      ptr(int64(-5)),
			SubscriptionStatus: "vip",
			Level:              ptr(-2),
			XP:                 ptr(int64(-10)),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(-5), v["credit_balance"])
		assert.Equal(t, "vip", v["subscription_status"])
		assert.Equal(t, -2, v["level"])
		assert.Equal(t, int64(-10), v["xp"])
	})

	t.Run("unparseable expiry", func(t *testing.T) {
		_, err := UpdateValues(models.UserUpdate{SubscriptionExpiryDate: ptr("tomorrow")})
		assert.Error(t, err)
	})
}

func TestUpdateWritesByUserID(t *testing.T) {
	db := backendtest.New().Seed(backend.TableUsers, []models.User{{UserID: 42, CreditBalance: 5}})
	svc := newService(db, nil)

	err := svc.Update(context.Background(), 42, models.UserUpdate{CreditBalance: ptr(int64(99)), SubscriptionStatus: "active"})
	require.NoError(t, err)

	calls := db.CallsTo("update", backend.TableUsers)
	require.Len(t, calls, 1)
	assert.Equal(t, []backend.Filter{backend.Eq("user_id", int64(42))}, calls[0].Filters)
	assert.EqualValues(t, 99, db.Rows(backend.TableUsers)[0]["credit_balance"])

	assert.Error(t, svc.Update(context.Background(), 0, models.UserUpdate{}))
}

func TestSendMessage(t *testing.T) {
	srv := telegramtest.NewServer(t)
	svc := newService(backendtest.New(), telegram.Static{Client: srv.Client(telegramtest.Token)})

	require.NoError(t, svc.SendMessage(context.Background(), 555, "<b>hola</b>"))

	sent := srv.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "555", sent[0].ChatID)
	assert.Equal(t, "HTML", sent[0].ParseMode)
}

func TestSendMessageErrors(t *testing.T) {
	srv := telegramtest.NewServer(t)

	t.Run("empty message never reaches telegram", func(t *testing.T) {
		svc := newService(backendtest.New(), telegram.Static{Client: srv.Client(telegramtest.Token)})
		err := svc.SendMessage(context.Background(), 555, "  ")
		appErr, ok := errors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, errors.ErrCodeValidation, appErr.Code)
		assert.Zero(t, srv.Calls("sendMessage"))
	})

	t.Run("no bot token", func(t *testing.T) {
		svc := newService(backendtest.New(), telegram.Static{})
		err := svc.SendMessage(context.Background(), 555, "hola")
		appErr, ok := errors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, errors.ErrCodeValidation, appErr.Code)
	})

	t.Run("blocked user", func(t *testing.T) {
		srv.FailChat("556")
		svc := newService(backendtest.New(), telegram.Static{Client: srv.Client(telegramtest.Token)})
		err := svc.SendMessage(context.Background(), 556, "hola")
		appErr, ok := errors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, errors.ErrCodeTelegramAPI, appErr.Code)
		assert.Contains(t, appErr.Message, "blocked")
	})
}
