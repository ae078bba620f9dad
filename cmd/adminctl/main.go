package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"kaliroot-admin/internal/common/config"
	"kaliroot-admin/internal/common/logger"
	"kaliroot-admin/internal/platform/backend"
	"kaliroot-admin/internal/platform/backend/postgres"
	"kaliroot-admin/internal/platform/backend/rest"
	"kaliroot-admin/internal/platform/telegram"
	"kaliroot-admin/internal/server"
)

var (
	adminConfigPath string
	verbose         bool
	timeout         time.Duration
)

// rootCmd is the operator CLI. Commands run with the static admin
// configuration, there is no login.
var rootCmd = &cobra.Command{
	Use:           "adminctl",
	Short:         "KaliRoot admin operator tool",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.InitWithWriter("adminctl", verbose, os.Stderr)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&adminConfigPath, "config", "c", "", "Admin config file (default ADMIN_CONFIG_FILE)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Minute, "Operation timeout")

	rootCmd.AddCommand(generateConfigCmd)
	rootCmd.AddCommand(exportUsersCmd)
	rootCmd.AddCommand(envCmd)
	rootCmd.AddCommand(broadcastCmd)
	rootCmd.AddCommand(checkTokenCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// runtime holds the services bound to the static credentials.
type runtime struct {
	cfg      *config.Config
	admin    *config.AdminConfig
	services *server.Services
	bot      *telegram.Client
	close    func()
}

func loadRuntime(ctx context.Context) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	path := adminConfigPath
	if path == "" {
		path = cfg.AdminConfigFile
	}
	admin, err := config.LoadAdminConfig(path)
	if err != nil {
		return nil, err
	}

	rt := &runtime{cfg: cfg, admin: admin, close: func() {}}

	var db backend.Backend
	switch {
	case cfg.Backend.Driver == config.BackendDriverPostgres:
		pg, err := postgres.Open(ctx, cfg.Backend.DatabaseURL)
		if err != nil {
			return nil, err
		}
		db = pg
		rt.close = pg.Close
	case admin.HasBackend():
		db = rest.NewClient(admin.SupabaseURL, admin.SupabaseKey, cfg.Backend.Timeout)
	default:
		// data commands fail with NO_BACKEND, env and check-token still work
		logger.Warn().Str("config", path).Msg("no backend credentials, run generate-config first")
	}

	rt.bot = telegram.NewClient(cfg.Telegram.APIURL, admin.BotToken, cfg.Telegram.Timeout)
	rt.services = server.NewServices(ctx, server.Deps{
		Config:  cfg,
		Admin:   admin,
		Backend: backend.Static{Backend: db},
		Bot:     telegram.Static{Client: rt.bot},
	})
	return rt, nil
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), timeout)
}
