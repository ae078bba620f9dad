package server

import (
	"context"

	"kaliroot-admin/internal/common/cache"
	"kaliroot-admin/internal/common/config"
	accountservice "kaliroot-admin/internal/features/account/service"
	auditrepo "kaliroot-admin/internal/features/audit/repository"
	auditservice "kaliroot-admin/internal/features/audit/service"
	botservice "kaliroot-admin/internal/features/bot/service"
	broadcastrepo "kaliroot-admin/internal/features/broadcast/repository"
	broadcastmemory "kaliroot-admin/internal/features/broadcast/repository/memory"
	broadcastredis "kaliroot-admin/internal/features/broadcast/repository/redis"
	broadcastservice "kaliroot-admin/internal/features/broadcast/service"
	dashboardrepo "kaliroot-admin/internal/features/dashboard/repository"
	dashboardservice "kaliroot-admin/internal/features/dashboard/service"
	exportservice "kaliroot-admin/internal/features/export/service"
	learningrepo "kaliroot-admin/internal/features/learning/repository"
	learningservice "kaliroot-admin/internal/features/learning/service"
	resourcerepo "kaliroot-admin/internal/features/resource/repository"
	resourceservice "kaliroot-admin/internal/features/resource/service"
	sessionrepo "kaliroot-admin/internal/features/session/repository"
	sessionmemory "kaliroot-admin/internal/features/session/repository/memory"
	sessionredis "kaliroot-admin/internal/features/session/repository/redis"
	sessionservice "kaliroot-admin/internal/features/session/service"
	subscriptionrepo "kaliroot-admin/internal/features/subscription/repository"
	subscriptionservice "kaliroot-admin/internal/features/subscription/service"
	userrepo "kaliroot-admin/internal/features/user/repository"
	userservice "kaliroot-admin/internal/features/user/service"
	"kaliroot-admin/internal/platform/account"
	"kaliroot-admin/internal/platform/backend"
	"kaliroot-admin/internal/platform/redis"
	"kaliroot-admin/internal/platform/telegram"
)

// Services are the feature services behind the API and the CLI.
type Services struct {
	Session       sessionservice.SessionService
	Users         userservice.UserService
	Subscriptions subscriptionservice.SubscriptionService
	Resources     resourceservice.ResourceService
	Audit         auditservice.AuditService
	Learning      learningservice.LearningService
	Dashboard     dashboardservice.DashboardService
	Bot           botservice.BotService
	Broadcast     broadcastservice.BroadcastService
	Account       accountservice.AccountService
	Export        exportservice.ExportService
}

type Deps struct {
	Config *config.Config
	Admin  *config.AdminConfig
	// Redis may be nil, stores then live in process memory.
	Redis redis.RedisClient
	// Shared is the postgres driver, nil for the rest driver.
	Shared backend.Backend
	// Backend and Bot default to the request bound clients.
	Backend backend.Resolver
	Bot     telegram.Resolver
}

// NewServices builds every service. Background broadcasts run under base.
func NewServices(base context.Context, d Deps) *Services {
	cfg := d.Config
	if d.Admin == nil {
		d.Admin = config.DefaultAdminConfig()
	}
	if d.Backend == nil {
		d.Backend = backend.ContextResolver{}
	}
	if d.Bot == nil {
		d.Bot = telegram.ContextResolver{}
	}

	var (
		creds    sessionrepo.CredentialStore
		sessions sessionrepo.SessionStore
		jobs     broadcastrepo.JobStore
	)
	if d.Redis != nil {
		creds = sessionredis.NewCredentialStore(d.Redis)
		sessions = sessionredis.NewSessionStore(d.Redis)
		jobs = broadcastredis.NewJobStore(d.Redis, cfg.Broadcast.JobTTL)
	} else {
		creds = sessionmemory.NewCredentialStore()
		sessions = sessionmemory.NewSessionStore()
		jobs = broadcastmemory.NewJobStore()
	}

	connector := sessionservice.NewConnector(sessionservice.ConnectorConfig{
		Shared:          d.Shared,
		BackendTimeout:  cfg.Backend.Timeout,
		TelegramAPIURL:  cfg.Telegram.APIURL,
		TelegramTimeout: cfg.Telegram.Timeout,
	})
	tokens := sessionservice.NewTokenManager(cfg.Session.Secret, cfg.Session.Issuer, cfg.Session.TTL)

	s := &Services{
		Session:       sessionservice.NewSessionService(creds, sessions, tokens, connector, d.Admin),
		Users:         userservice.NewUserService(userrepo.NewUserRepository(d.Backend), d.Bot),
		Subscriptions: subscriptionservice.NewSubscriptionService(subscriptionrepo.NewSubscriptionRepository(d.Backend), d.Admin.SubscriptionDays),
		Resources:     resourceservice.NewResourceService(resourcerepo.NewResourceRepository(d.Backend)),
		Audit:         auditservice.NewAuditService(auditrepo.NewAuditRepository(d.Backend)),
		Learning:      learningservice.NewLearningService(learningrepo.NewLearningRepository(d.Backend)),
		Bot:           botservice.NewBotService(d.Bot),
		Account:       accountservice.NewAccountService(account.NewClient(cfg.AuxAPI.URL, cfg.AuxAPI.Timeout)),
		Broadcast: broadcastservice.NewBroadcastService(base,
			broadcastrepo.NewRecipientRepository(d.Backend), jobs, d.Bot,
			broadcastservice.Config{Delay: cfg.Broadcast.Delay}),
	}
	s.Export = exportservice.NewExportService(s.Users)
	s.Dashboard = dashboardservice.NewDashboardService(dashboardservice.Deps{
		Stats:         dashboardrepo.NewStatsRepository(d.Backend),
		Audit:         s.Audit,
		Users:         s.Users,
		Subscriptions: s.Subscriptions,
		Resources:     s.Resources,
		Learning:      s.Learning,
		Cache:         cache.NewCacheService(d.Redis),
		CacheTTL:      cfg.StatsCacheTTL,
	})
	return s
}
