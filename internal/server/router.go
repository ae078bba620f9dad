package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"kaliroot-admin/internal/common/middleware"
	accounthttp "kaliroot-admin/internal/features/account/delivery/http"
	audithttp "kaliroot-admin/internal/features/audit/delivery/http"
	bothttp "kaliroot-admin/internal/features/bot/delivery/http"
	broadcasthttp "kaliroot-admin/internal/features/broadcast/delivery/http"
	dashboardhttp "kaliroot-admin/internal/features/dashboard/delivery/http"
	exporthttp "kaliroot-admin/internal/features/export/delivery/http"
	learninghttp "kaliroot-admin/internal/features/learning/delivery/http"
	resourcehttp "kaliroot-admin/internal/features/resource/delivery/http"
	sessionhttp "kaliroot-admin/internal/features/session/delivery/http"
	subscriptionhttp "kaliroot-admin/internal/features/subscription/delivery/http"
	userhttp "kaliroot-admin/internal/features/user/delivery/http"
)

const serviceName = "kaliroot-admin"

// ReadyCheck reports whether a dependency can serve requests.
type ReadyCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type RouterOptions struct {
	Debug       bool
	Origins     []string
	AdminIDs    []int64
	BotToken    string
	InitDataTTL time.Duration
	Ready       []ReadyCheck
	// Swagger mounts the API docs under /swagger.
	Swagger bool
}

// NewRouter mounts the public routes, the session protected API under
// /api/v1 and the health endpoints.
func NewRouter(svc *Services, opts RouterOptions) *gin.Engine {
	if !opts.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.Errors())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = opts.Origins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization", "Accept", "init_data", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"Content-Disposition", "X-Request-ID"}
	router.Use(cors.New(corsConfig))

	v1 := router.Group("/api/v1")
	v1.Use(middleware.TelegramInitData(opts.BotToken, opts.InitDataTTL))

	sessionHandler := sessionhttp.NewSessionHandler(svc.Session)
	sessionHandler.RegisterPublicRoutes(v1)

	api := v1.Group("")
	api.Use(middleware.RequireSession(svc.Session, opts.AdminIDs))
	{
		sessionHandler.RegisterRoutes(api)
		dashboardhttp.NewDashboardHandler(svc.Dashboard).RegisterRoutes(api)
		userhttp.NewUserHandler(svc.Users).RegisterRoutes(api)
		subscriptionhttp.NewSubscriptionHandler(svc.Subscriptions).RegisterRoutes(api)
		resourcehttp.NewResourceHandler(svc.Resources).RegisterRoutes(api)
		learninghttp.NewLearningHandler(svc.Learning).RegisterRoutes(api)
		audithttp.NewAuditHandler(svc.Audit).RegisterRoutes(api)
		bothttp.NewBotHandler(svc.Bot).RegisterRoutes(api)
		broadcasthttp.NewBroadcastHandler(svc.Broadcast).RegisterRoutes(api)
		accounthttp.NewAccountHandler(svc.Account).RegisterRoutes(api)
		exporthttp.NewExportHandler(svc.Export).RegisterRoutes(api)
	}

	if opts.Swagger {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
			"service":   serviceName,
		})
	})

	router.GET("/live", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	router.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		for _, rc := range opts.Ready {
			if err := rc.Check(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":  "unready",
					"error":   rc.Name + " unavailable",
					"details": err.Error(),
				})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "ready",
			"timestamp": time.Now().UTC(),
			"service":   serviceName,
		})
	})

	return router
}
