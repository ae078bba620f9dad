package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"kaliroot-admin/internal/common/cache"
	"kaliroot-admin/internal/common/errors"
	"kaliroot-admin/internal/common/logger"
	auditservice "kaliroot-admin/internal/features/audit/service"
	"kaliroot-admin/internal/features/dashboard/models"
	"kaliroot-admin/internal/features/dashboard/repository"
	learningservice "kaliroot-admin/internal/features/learning/service"
	resourceservice "kaliroot-admin/internal/features/resource/service"
	subscriptionservice "kaliroot-admin/internal/features/subscription/service"
	usermodels "kaliroot-admin/internal/features/user/models"
	userservice "kaliroot-admin/internal/features/user/service"
	"kaliroot-admin/internal/platform/backend"
)

// SectionParams are the query parameters a section refresh may use.
type SectionParams struct {
	Search       string
	Page         int
	Filter       string
	EventType    string
	RefreshStats bool
}

type DashboardService interface {
	// Overview returns the counters and recent activity. scope keys the
	// cache, refresh bypasses it.
	Overview(ctx context.Context, scope string, refresh bool) (*models.Overview, error)
	Sections() []models.Section
	// Section loads one section, unknown ids load the overview.
	Section(ctx context.Context, scope, id string, params SectionParams) (*models.SectionView, error)
}

// Deps are the feature services the sections are loaded from.
type Deps struct {
	Stats         repository.StatsRepository
	Audit         auditservice.AuditService
	Users         userservice.UserService
	Subscriptions subscriptionservice.SubscriptionService
	Resources     resourceservice.ResourceService
	Learning      learningservice.LearningService
	Cache         *cache.CacheService
	CacheTTL      time.Duration
}

type dashboardService struct {
	deps Deps
	log  zerolog.Logger
}

func NewDashboardService(deps Deps) DashboardService {
	return &dashboardService{
		deps: deps,
		log:  logger.Component("dashboard"),
	}
}

func (s *dashboardService) Sections() []models.Section {
	return models.Sections
}

func (s *dashboardService) Overview(ctx context.Context, scope string, refresh bool) (*models.Overview, error) {
	key := fmt.Sprintf("stats:overview:%s", scope)
	if refresh && s.deps.Cache != nil {
		_ = s.deps.Cache.Delete(ctx, key)
	}

	overview, cached, err := cache.GetOrSet(ctx, s.deps.Cache, key, s.deps.CacheTTL, func() (models.Overview, error) {
		return s.loadOverview(ctx)
	})
	if err != nil {
		return nil, err
	}
	overview.Cached = cached
	return &overview, nil
}

// loadOverview fetches the four counters and the recent activity together.
func (s *dashboardService) loadOverview(ctx context.Context) (models.Overview, error) {
	var (
		out   models.Overview
		stats = &out.Stats
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.deps.Stats.CountUsers(gctx)
		if err != nil {
			return errors.FromBackend("count users", backend.TableUsers, err)
		}
		stats.Users = n
		return nil
	})
	g.Go(func() error {
		n, err := s.deps.Stats.CountPremium(gctx)
		if err != nil {
			return errors.FromBackend("count premium users", backend.TableUsers, err)
		}
		stats.Premium = n
		return nil
	})
	g.Go(func() error {
		n, err := s.deps.Stats.SumCredits(gctx)
		if err != nil {
			return errors.FromBackend("sum credits", backend.TableUsers, err)
		}
		stats.TotalCredits = n
		return nil
	})
	g.Go(func() error {
		n, err := s.deps.Stats.CountResources(gctx)
		if err != nil {
			if backend.IsUndefinedTable(err) {
				return nil
			}
			return errors.FromBackend("count resources", backend.TableResources, err)
		}
		stats.Resources = n
		return nil
	})
	g.Go(func() error {
		activity, err := s.deps.Audit.RecentActivity(gctx)
		if err != nil {
			// the overview stays usable without the activity feed
			s.log.Warn().Err(err).Msg("recent activity unavailable")
			return nil
		}
		out.RecentActivity = activity
		return nil
	})
	if err := g.Wait(); err != nil {
		return models.Overview{}, err
	}
	return out, nil
}

func (s *dashboardService) Section(ctx context.Context, scope, id string, params SectionParams) (*models.SectionView, error) {
	section := models.LookupSection(id)

	var (
		data any
		err  error
	)
	switch section.ID {
	case models.SectionUsers:
		data, err = s.deps.Users.List(ctx, usermodels.ListParams{Search: params.Search, Page: params.Page})
	case models.SectionSubscriptions:
		filter := params.Filter
		if filter == "" {
			filter = "all"
		}
		data, err = s.deps.Subscriptions.List(ctx, filter)
	case models.SectionResources:
		data, err = s.deps.Resources.List(ctx)
	case models.SectionLearning:
		data, err = s.deps.Learning.Completions(ctx)
	case models.SectionBadges:
		data, err = s.deps.Learning.Badges(ctx)
	case models.SectionAudit:
		data, err = s.deps.Audit.Log(ctx, params.EventType)
	default:
		data, err = s.Overview(ctx, scope, params.RefreshStats)
	}
	if err != nil {
		return nil, err
	}
	return &models.SectionView{Section: section, Data: data}, nil
}
