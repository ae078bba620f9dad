package service

import (
	"context"

	"kaliroot-admin/internal/common/errors"
	"kaliroot-admin/internal/features/learning/models"
	"kaliroot-admin/internal/features/learning/repository"
	"kaliroot-admin/internal/platform/backend"
)

const CompletionsLimit = 100

type LearningService interface {
	Completions(ctx context.Context) ([]models.ModuleCompletion, error)
	Badges(ctx context.Context) ([]models.Badge, error)
}

type learningService struct {
	repo repository.LearningRepository
}

func NewLearningService(repo repository.LearningRepository) LearningService {
	return &learningService{repo: repo}
}

func (s *learningService) Completions(ctx context.Context) ([]models.ModuleCompletion, error) {
	out, err := s.repo.Completions(ctx, CompletionsLimit)
	if err != nil {
		return nil, errors.FromBackend("load module completions", backend.TableUserModules, err)
	}
	return out, nil
}

func (s *learningService) Badges(ctx context.Context) ([]models.Badge, error) {
	out, err := s.repo.Badges(ctx)
	if err != nil {
		return nil, errors.FromBackend("load badges", backend.TableBadges, err)
	}
	for _, b := range out {
		if icon, _ := b["icon"].(string); icon == "" {
			b["icon"] = models.DefaultBadgeIcon
		}
	}
	return out, nil
}
