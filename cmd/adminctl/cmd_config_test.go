package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kaliroot-admin/internal/common/config"
)

func runWithFlags(t *testing.T, envFile, output string) (string, error) {
	t.Helper()
	prevEnv, prevOut := envFilePath, outputPath
	t.Cleanup(func() { envFilePath, outputPath = prevEnv, prevOut })
	envFilePath, outputPath = envFile, output

	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	err := runGenerateConfig(cmd, nil)
	return buf.String(), err
}

func TestGenerateConfig(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(
		"SUPABASE_URL=https://x.supabase.co\n"+
			"SUPABASE_ANON_KEY=anon\n"+
			"SUPABASE_SERVICE_KEY=service\n"+
			"TELEGRAM_BOT_TOKEN=1:abc\n"), 0o600))
	output := filepath.Join(dir, "admin-config.yaml")

	out, err := runWithFlags(t, envFile, output)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+output)
	assert.Contains(t, out, "auto_login:   true")

	cfg, err := config.LoadAdminConfig(output)
	require.NoError(t, err)
	assert.Equal(t, "https://x.supabase.co", cfg.SupabaseURL)
	assert.Equal(t, "service", cfg.SupabaseKey)
	assert.Equal(t, "1:abc", cfg.BotToken)
	assert.True(t, cfg.AutoLogin)
}

func TestGenerateConfigNeedsBackend(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("TELEGRAM_BOT_TOKEN=1:abc\n"), 0o600))
	output := filepath.Join(dir, "admin-config.yaml")

	_, err := runWithFlags(t, envFile, output)
	assert.Error(t, err)
	assert.NoFileExists(t, output)

	_, err = runWithFlags(t, filepath.Join(dir, "missing.env"), output)
	assert.Error(t, err)
}
