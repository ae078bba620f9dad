package service

import (
	"context"
	"strings"

	"kaliroot-admin/internal/common/errors"
	"kaliroot-admin/internal/features/audit/models"
	"kaliroot-admin/internal/features/audit/repository"
	"kaliroot-admin/internal/platform/backend"
)

const (
	LogLimit      = 100
	ActivityLimit = 10
)

type AuditService interface {
	// Log is the audit view, "all" or "" means every event type.
	Log(ctx context.Context, eventType string) ([]models.EntryResponse, error)
	RecentActivity(ctx context.Context) ([]models.EntryResponse, error)
}

type auditService struct {
	repo repository.AuditRepository
}

func NewAuditService(repo repository.AuditRepository) AuditService {
	return &auditService{repo: repo}
}

func (s *auditService) Log(ctx context.Context, eventType string) ([]models.EntryResponse, error) {
	eventType = strings.TrimSpace(eventType)
	if eventType == "all" {
		eventType = ""
	}
	entries, err := s.repo.Recent(ctx, eventType, LogLimit)
	if err != nil {
		return nil, errors.FromBackend("load audit log", backend.TableAuditLog, err)
	}
	return models.ToResponses(entries), nil
}

func (s *auditService) RecentActivity(ctx context.Context) ([]models.EntryResponse, error) {
	entries, err := s.repo.Recent(ctx, "", ActivityLimit)
	if err != nil {
		return nil, errors.FromBackend("load recent activity", backend.TableAuditLog, err)
	}
	return models.ToResponses(entries), nil
}
