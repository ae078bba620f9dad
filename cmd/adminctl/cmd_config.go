package main

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"kaliroot-admin/internal/common/config"
)

var (
	envFilePath string
	outputPath  string
)

// generateConfigCmd turns the bot's .env into the static admin config.
var generateConfigCmd = &cobra.Command{
	Use:   "generate-config",
	Short: "Write the admin config from a .env file",
	Long: `Reads the bot's .env file and writes the YAML admin configuration
with auto_login enabled. SUPABASE_SERVICE_KEY is used when present,
SUPABASE_ANON_KEY otherwise.`,
	Args: cobra.NoArgs,
	RunE: runGenerateConfig,
}

func init() {
	generateConfigCmd.Flags().StringVar(&envFilePath, "env-file", ".env", "Source .env file")
	generateConfigCmd.Flags().StringVarP(&outputPath, "output", "o", "admin-config.yaml", "Destination YAML file")
}

func runGenerateConfig(cmd *cobra.Command, args []string) error {
	vars, err := godotenv.Read(envFilePath)
	if err != nil {
		return fmt.Errorf("read %s: %w", envFilePath, err)
	}

	cfg := config.AdminConfigFromEnv(vars)
	if !cfg.HasBackend() {
		return fmt.Errorf("%s has no SUPABASE_URL or Supabase key", envFilePath)
	}
	if err := config.WriteAdminConfig(outputPath, cfg); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Wrote %s\n", outputPath)
	fmt.Fprintf(out, "  supabase_url: %s\n", cfg.SupabaseURL)
	fmt.Fprintf(out, "  bot token:    %t\n", cfg.BotToken != "")
	fmt.Fprintf(out, "  auto_login:   %t\n", cfg.AutoLogin)
	return nil
}
