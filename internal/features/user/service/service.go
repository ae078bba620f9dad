package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"kaliroot-admin/internal/common/errors"
	"kaliroot-admin/internal/common/logger"
	"kaliroot-admin/internal/common/pagination"
	"kaliroot-admin/internal/common/validation"
	"kaliroot-admin/internal/features/user/mapper"
	"kaliroot-admin/internal/features/user/models"
	"kaliroot-admin/internal/features/user/repository"
	"kaliroot-admin/internal/platform/backend"
	"kaliroot-admin/internal/platform/telegram"
)

type UserService interface {
	List(ctx context.Context, params models.ListParams) (*pagination.Page[*models.UserResponse], error)
	All(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, userID int64, update models.UserUpdate) error
	SendMessage(ctx context.Context, userID int64, text string) error
}

type userService struct {
	repo repository.UserRepository
	bot  telegram.Resolver
	log  zerolog.Logger
}

func NewUserService(repo repository.UserRepository, bot telegram.Resolver) UserService {
	return &userService{
		repo: repo,
		bot:  bot,
		log:  logger.Component("users"),
	}
}

// List fetches every user and applies search and pagination locally.
func (s *userService) List(ctx context.Context, params models.ListParams) (*pagination.Page[*models.UserResponse], error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, errors.FromBackend("list users", backend.TableUsers, err)
	}
	filtered := Search(users, params.Search)
	page := pagination.Paginate(mapper.ToUserResponses(filtered), params.Page, params.PerPage)
	return &page, nil
}

func (s *userService) All(ctx context.Context) ([]models.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, errors.FromBackend("list users", backend.TableUsers, err)
	}
	return users, nil
}

// Search keeps users whose id contains query or whose first name or
// username contains it, ignoring case. An empty query keeps everything.
func Search(users []models.User, query string) []models.User {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return users
	}
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		if strings.Contains(strconv.FormatInt(u.UserID, 10), query) ||
			strings.Contains(strings.ToLower(u.FirstName), query) ||
			strings.Contains(strings.ToLower(u.Username), query) {
			out = append(out, u)
		}
	}
	return out
}

// UpdateValues builds the whole-field update written for an edit. Only the
// form defaults are applied, the backend owns every other constraint.
func UpdateValues(update models.UserUpdate) (map[string]any, error) {
	status := strings.TrimSpace(update.SubscriptionStatus)
	if status == "" {
		status = validation.StatusInactive
	}

	credits := int64(0)
	if update.CreditBalance != nil {
		credits = *update.CreditBalance
	}
	level := 1
	if update.Level != nil && *update.Level != 0 {
		level = *update.Level
	}
	xp := int64(0)
	if update.XP != nil {
		xp = *update.XP
	}

	values := map[string]any{
		"credit_balance":      credits,
		"subscription_status": status,
		"level":               level,
		"xp":                  xp,
	}
	if update.SubscriptionExpiryDate != nil && strings.TrimSpace(*update.SubscriptionExpiryDate) != "" {
		expiry, err := parseTime(*update.SubscriptionExpiryDate)
		if err != nil {
			return nil, errors.NewValidationError("subscription_expiry_date", "expected an ISO 8601 date")
		}
		values["subscription_expiry_date"] = expiry.UTC().Format(time.RFC3339)
	}
	return values, nil
}

// parseTime accepts RFC 3339 and the datetime-local form without zone.
func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New(errors.ErrCodeValidation, "invalid date")
}

func (s *userService) Update(ctx context.Context, userID int64, update models.UserUpdate) error {
	if userID <= 0 {
		return errors.NewValidationError("user_id", "must be positive")
	}
	values, err := UpdateValues(update)
	if err != nil {
		return err
	}
	if err := s.repo.Update(ctx, userID, values); err != nil {
		return errors.FromBackend("update user", backend.TableUsers, err)
	}
	s.log.Info().Int64("user_id", userID).Interface("values", values).Msg("user updated")
	return nil
}

func (s *userService) SendMessage(ctx context.Context, userID int64, text string) error {
	if err := validation.ValidateMessage(text); err != nil {
		return errors.NewValidationError("message", err.Error())
	}
	bot, err := s.bot.Resolve(ctx)
	if err != nil {
		return errors.FromTelegram("sendMessage", err)
	}
	if err := bot.SendText(ctx, userID, text); err != nil {
		return errors.FromTelegram("sendMessage", err)
	}
	s.log.Info().Int64("user_id", userID).Msg("message sent to user")
	return nil
}
