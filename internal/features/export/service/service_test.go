package service

import (
	"bytes"
	"context"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kaliroot-admin/internal/common/errors"
	"kaliroot-admin/internal/domain/credentials"
	"kaliroot-admin/internal/features/user/models"
)

type usersFunc func(ctx context.Context) ([]models.User, error)

func (f usersFunc) All(ctx context.Context) ([]models.User, error) { return f(ctx) }

func TestWriteUsersCSV(t *testing.T) {
	level := 4
	users := []models.User{
		{UserID: 1, FirstName: `Ana "ZeroCool"`, LastName: "Ruiz, Jr", Username: "ana", CreditBalance: 20, SubscriptionStatus: "active", Level: &level, XP: 150, CreatedAt: "2025-01-01T00:00:00Z"},
		{UserID: 2, FirstName: "Bob", CreatedAt: "2025-01-02T00:00:00Z"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteUsersCSV(&buf, users))

	want := "user_id,first_name,last_name,username,credit_balance,subscription_status,level,xp,created_at\n" +
		`"1","Ana ""ZeroCool""","Ruiz, Jr","ana","20","active","4","150","2025-01-01T00:00:00Z"` + "\n" +
		`"2","Bob","","","","","","","2025-01-02T00:00:00Z"` + "\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteUsersCSVZeroNumbersAreEmpty(t *testing.T) {
	zero := 0
	users := []models.User{{UserID: 5, Username: "eve", Level: &zero, SubscriptionStatus: "inactive"}}

	var buf bytes.Buffer
	require.NoError(t, WriteUsersCSV(&buf, users))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `"5","","","eve","","inactive","","",""`, lines[1])
}

func TestUsersCSV(t *testing.T) {
	svc := NewExportService(usersFunc(func(context.Context) ([]models.User, error) {
		return []models.User{{UserID: 7}}, nil
	})).(*exportService)
	svc.now = func() time.Time { return time.Date(2025, 3, 9, 23, 0, 0, 0, time.UTC) }

	data, name, err := svc.UsersCSV(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "kaliroot_users_2025-03-09.csv", name)
	assert.Contains(t, string(data), `"7"`)
}

func TestUsersCSVEmpty(t *testing.T) {
	svc := NewExportService(usersFunc(func(context.Context) ([]models.User, error) { return nil, nil }))

	_, _, err := svc.UsersCSV(context.Background())
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeValidation, appErr.Code)
	assert.Equal(t, "No data to export", appErr.Message)
}

func TestUsersCSVSourceError(t *testing.T) {
	boom := stderrors.New("down")
	svc := NewExportService(usersFunc(func(context.Context) ([]models.User, error) { return nil, boom }))

	_, _, err := svc.UsersCSV(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestEnvFile(t *testing.T) {
	svc := NewExportService(nil)
	creds := credentials.Credentials{
		SupabaseURL:      "https://x.supabase.co",
		SupabaseKey:      "service-key",
		BotToken:         "1:abc",
		TelegramAPIID:    "12345",
		TelegramAppTitle: "kaliroot",
	}

	out, err := svc.EnvFile(creds)
	require.NoError(t, err)
	assert.Contains(t, out, `SUPABASE_URL="https://x.supabase.co"`)

	parsed, err := godotenv.Unmarshal(out)
	require.NoError(t, err)
	assert.Equal(t, EnvMap(creds), parsed)
	assert.Equal(t, "service-key", parsed["SUPABASE_SERVICE_KEY"])
	assert.Equal(t, "1:abc", parsed["TELEGRAM_BOT_TOKEN"])
}
