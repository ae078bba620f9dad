package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var exportDir string

var exportUsersCmd = &cobra.Command{
	Use:   "export-users",
	Short: "Export every user to kaliroot_users_YYYY-MM-DD.csv",
	Args:  cobra.NoArgs,
	RunE:  runExportUsers,
}

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Print the configured credentials as a .env file",
	Args:  cobra.NoArgs,
	RunE:  runEnv,
}

func init() {
	exportUsersCmd.Flags().StringVarP(&exportDir, "dir", "d", ".", "Output directory")
}

func runExportUsers(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	rt, err := loadRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.close()

	data, filename, err := rt.services.Export.UsersCSV(ctx)
	if err != nil {
		return err
	}
	path := filepath.Join(exportDir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported users to %s\n", path)
	return nil
}

func runEnv(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	rt, err := loadRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.close()

	out, err := rt.services.Export.EnvFile(rt.admin.Credentials)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}
