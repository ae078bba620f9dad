package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kaliroot-admin/docs"
	"kaliroot-admin/internal/common/config"
	"kaliroot-admin/internal/common/logger"
	"kaliroot-admin/internal/platform/backend"
	"kaliroot-admin/internal/platform/backend/postgres"
	"kaliroot-admin/internal/platform/redis"
	"kaliroot-admin/internal/server"
)

// @title           KaliRoot Admin API
// @version         1.0
// @description     Administration API for the KaliRoot bot: users, subscriptions, resources, audit history, bot control and broadcasts.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description "Bearer <token>" as returned by POST /session

// @securityDefinitions.apikey TelegramInitData
// @in header
// @name init_data
// @description Telegram Mini App init_data of an admin user

// @tag.name session
// @tag.description Login, logout and saved credentials

// @tag.name dashboard
// @tag.description Overview counters and section views

// @tag.name users
// @tag.description User records

// @tag.name subscriptions
// @tag.description Subscription status and activation

// @tag.name resources
// @tag.description Downloadable resources

// @tag.name bot
// @tag.description Telegram Bot API operations

// @tag.name broadcasts
// @tag.description Messages to user segments

// @tag.name account
// @tag.description Local account API proxy

// @tag.name export
// @tag.description CSV and env file exports

func main() {
	// Загружаем и проверяем конфигурацию
	cfg, err := config.Load()
	if err == nil {
		err = cfg.ValidateServer()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	logger.Init("kaliroot-admin", cfg.Debug)
	logger.Info().
		Str("version", "1.0.0").
		Bool("debug", cfg.Debug).
		Str("backend_driver", cfg.Backend.Driver).
		Msg("Starting KaliRoot admin")

	adminCfg, err := config.LoadAdminConfig(cfg.AdminConfigFile)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load admin config")
	}
	adminIDs, _ := cfg.AdminIDList()

	baseCtx, stop := context.WithCancel(context.Background())
	defer stop()

	var ready []server.ReadyCheck

	// Общее подключение к базе данных, если выбран драйвер postgres
	var shared backend.Backend
	if cfg.Backend.Driver == config.BackendDriverPostgres {
		ctx, cancel := context.WithTimeout(baseCtx, 10*time.Second)
		pg, err := postgres.Open(ctx, cfg.Backend.DatabaseURL)
		cancel()
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer pg.Close()
		shared = pg
		ready = append(ready, server.ReadyCheck{Name: "postgres", Check: pg.HealthCheck})
		logger.Info().Msg("Database connection established")
	}

	// Инициализируем Redis
	ctx, cancel := context.WithTimeout(baseCtx, 5*time.Second)
	redisClient, err := redis.OpenFromConfig(ctx, cfg)
	cancel()
	if err != nil {
		logger.Fatal().Err(err).Str("addr", cfg.RedisAddr()).Msg("Failed to connect to Redis")
	}
	if redisClient != nil {
		defer redisClient.Close()
		ready = append(ready, server.ReadyCheck{Name: "redis", Check: func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}})
		logger.Info().Msg("Redis connection established")
	} else {
		logger.Warn().Msg("Redis disabled, sessions and broadcast progress are kept in memory")
	}

	// Инициализируем сервисы
	services := server.NewServices(baseCtx, server.Deps{
		Config: cfg,
		Admin:  adminCfg,
		Redis:  redisClient,
		Shared: shared,
	})
	logger.Info().Msg("Services initialized")

	// Настраиваем роуты
	docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", cfg.Server.Port)
	router := server.NewRouter(services, server.RouterOptions{
		Debug:       cfg.Debug,
		Origins:     cfg.Server.Origins,
		AdminIDs:    adminIDs,
		BotToken:    cfg.Telegram.BotToken,
		InitDataTTL: cfg.Telegram.InitDataTTL,
		Ready:       ready,
		Swagger:     true,
	})

	// Создаем HTTP сервер
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Запускаем сервер в горутине
	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Ждем сигнала для graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	// Останавливаем запущенные рассылки
	stop()
	services.Broadcast.Wait()

	logger.Info().Msg("Server exited")
}
