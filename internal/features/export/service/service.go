package service

import (
	"bytes"
	"context"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"kaliroot-admin/internal/common/errors"
	"kaliroot-admin/internal/domain/credentials"
	"kaliroot-admin/internal/features/user/models"
)

// UserHeader is the column order of the users export.
var UserHeader = []string{
	"user_id", "first_name", "last_name", "username", "credit_balance",
	"subscription_status", "level", "xp", "created_at",
}

// UserSource lists every user. The user service satisfies it.
type UserSource interface {
	All(ctx context.Context) ([]models.User, error)
}

type ExportService interface {
	// UsersCSV renders every user and the download file name.
	UsersCSV(ctx context.Context) ([]byte, string, error)
	EnvFile(creds credentials.Credentials) (string, error)
}

type exportService struct {
	users UserSource
	now   func() time.Time
}

func NewExportService(users UserSource) ExportService {
	return &exportService{users: users, now: time.Now}
}

func (s *exportService) UsersCSV(ctx context.Context) ([]byte, string, error) {
	users, err := s.users.All(ctx)
	if err != nil {
		return nil, "", err
	}
	if len(users) == 0 {
		return nil, "", errors.New(errors.ErrCodeValidation, "No data to export")
	}
	var buf bytes.Buffer
	if err := WriteUsersCSV(&buf, users); err != nil {
		return nil, "", errors.Wrap(err, errors.ErrCodeInternal, "failed to render CSV")
	}
	return buf.Bytes(), UsersFilename(s.now()), nil
}

// UsersFilename is kaliroot_users_YYYY-MM-DD.csv for the day of now.
func UsersFilename(now time.Time) string {
	return "kaliroot_users_" + now.Format("2006-01-02") + ".csv"
}

// WriteUsersCSV writes the header and one row per user. Every value is
// quoted. Zero numbers and a missing level are written empty, the same as
// an empty text field.
func WriteUsersCSV(w io.Writer, users []models.User) error {
	if _, err := io.WriteString(w, strings.Join(UserHeader, ",")+"\n"); err != nil {
		return err
	}
	for _, u := range users {
		level := int64(0)
		if u.Level != nil {
			level = int64(*u.Level)
		}
		row := []string{
			number(u.UserID),
			u.FirstName,
			u.LastName,
			u.Username,
			number(u.CreditBalance),
			u.SubscriptionStatus,
			number(level),
			number(u.XP),
			u.CreatedAt,
		}
		for i, v := range row {
			row[i] = quote(v)
		}
		if _, err := io.WriteString(w, strings.Join(row, ",")+"\n"); err != nil {
			return err
		}
	}
	return nil
}

func number(n int64) string {
	if n == 0 {
		return ""
	}
	return strconv.FormatInt(n, 10)
}

func quote(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

// EnvFile renders the credentials as a .env file for the bot.
func (s *exportService) EnvFile(creds credentials.Credentials) (string, error) {
	out, err := godotenv.Marshal(EnvMap(creds))
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInternal, "failed to render env file")
	}
	return out + "\n", nil
}

// EnvMap maps credentials to the bot's environment variable names.
func EnvMap(creds credentials.Credentials) map[string]string {
	return map[string]string{
		"SUPABASE_URL":         creds.SupabaseURL,
		"SUPABASE_SERVICE_KEY": creds.SupabaseKey,
		"TELEGRAM_BOT_TOKEN":   creds.BotToken,
		"TELEGRAM_API_ID":      creds.TelegramAPIID,
		"TELEGRAM_API_HASH":    creds.TelegramAPIHash,
		"TELEGRAM_APP_TITLE":   creds.TelegramAppTitle,
		"TELEGRAM_SHORT_NAME":  creds.TelegramShortName,
	}
}
