package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"kaliroot-admin/internal/common/errors"
	"kaliroot-admin/internal/common/logger"
	"kaliroot-admin/internal/common/validation"
	"kaliroot-admin/internal/features/subscription/models"
	"kaliroot-admin/internal/features/subscription/repository"
	"kaliroot-admin/internal/platform/backend"
)

type SubscriptionService interface {
	List(ctx context.Context, filter string) ([]models.SubscriptionResponse, error)
	Activate(ctx context.Context, userID int64) (*models.ActivateResponse, error)
}

type subscriptionService struct {
	repo repository.SubscriptionRepository
	days int
	now  func() time.Time
	log  zerolog.Logger
}

// NewSubscriptionService activates subscriptions for days days.
func NewSubscriptionService(repo repository.SubscriptionRepository, days int) SubscriptionService {
	if days <= 0 {
		days = 30
	}
	return &subscriptionService{
		repo: repo,
		days: days,
		now:  time.Now,
		log:  logger.Component("subscriptions"),
	}
}

func (s *subscriptionService) List(ctx context.Context, filter string) ([]models.SubscriptionResponse, error) {
	if err := validation.ValidateSubscriptionFilter(filter); err != nil {
		return nil, errors.NewValidationError("filter", err.Error())
	}
	subs, err := s.repo.List(ctx, filter, s.now())
	if err != nil {
		return nil, errors.FromBackend("list subscriptions", backend.TableUsers, err)
	}
	out := make([]models.SubscriptionResponse, len(subs))
	for i, sub := range subs {
		if sub.SubscriptionStatus == "" {
			sub.SubscriptionStatus = validation.StatusInactive
		}
		out[i] = models.SubscriptionResponse{
			Subscription: sub,
			StatusClass:  validation.StatusClass(sub.SubscriptionStatus),
		}
	}
	return out, nil
}

// Activate sets the status to active and the expiry to now plus the
// configured number of days.
func (s *subscriptionService) Activate(ctx context.Context, userID int64) (*models.ActivateResponse, error) {
	if userID <= 0 {
		return nil, errors.NewValidationError("user_id", "must be positive")
	}
	expiry := s.now().AddDate(0, 0, s.days)
	if err := s.repo.Activate(ctx, userID, expiry); err != nil {
		return nil, errors.FromBackend("activate subscription", backend.TableUsers, err)
	}
	s.log.Info().Int64("user_id", userID).Time("expires_at", expiry).Msg("subscription activated")
	return &models.ActivateResponse{
		UserID:    userID,
		Status:    validation.StatusActive,
		ExpiresAt: expiry.UTC().Format(time.RFC3339),
		Days:      s.days,
	}, nil
}
