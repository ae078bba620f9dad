package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// checkTokenCmd verifies the configured bot token with getMe.
var checkTokenCmd = &cobra.Command{
	Use:   "check-token",
	Short: "Verify the bot token and show the webhook",
	Args:  cobra.NoArgs,
	RunE:  runCheckToken,
}

func runCheckToken(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	rt, err := loadRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.close()

	status, err := rt.services.Bot.Status(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Bot:      @%s (%d)\n", status.Bot.Username, status.Bot.ID)
	if status.Webhook.URL == "" {
		fmt.Fprintln(out, "Webhook:  none (polling)")
	} else {
		fmt.Fprintf(out, "Webhook:  %s\n", status.Webhook.URL)
		fmt.Fprintf(out, "Pending:  %d\n", status.Webhook.PendingUpdateCount)
		if status.Webhook.LastErrorMessage != "" {
			fmt.Fprintf(out, "Error:    %s\n", status.Webhook.LastErrorMessage)
		}
	}
	return nil
}
