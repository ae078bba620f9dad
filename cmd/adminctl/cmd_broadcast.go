package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"kaliroot-admin/internal/common/validation"
	"kaliroot-admin/internal/features/broadcast/models"
)

var (
	broadcastSegment   string
	broadcastMessage   string
	broadcastParseMode string
)

// broadcastCmd sends in the foreground and prints the tally when done.
var broadcastCmd = &cobra.Command{
	Use:   "broadcast",
	Short: "Send a message to a user segment",
	Long: `Sends the message to every user of the segment, one by one.

Segments:
  all      every user
  premium  users with an active subscription
  free     everybody else`,
	Args: cobra.NoArgs,
	RunE: runBroadcast,
}

func init() {
	broadcastCmd.Flags().StringVarP(&broadcastSegment, "segment", "s", validation.SegmentAll, "all, premium or free")
	broadcastCmd.Flags().StringVarP(&broadcastMessage, "message", "m", "", "Message text (HTML)")
	broadcastCmd.Flags().StringVar(&broadcastParseMode, "parse-mode", "HTML", "Telegram parse mode")
	_ = broadcastCmd.MarkFlagRequired("message")
}

func runBroadcast(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	rt, err := loadRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.close()

	job, err := rt.services.Broadcast.Run(ctx, models.StartRequest{
		Segment:   broadcastSegment,
		Message:   broadcastMessage,
		ParseMode: broadcastParseMode,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Broadcast %s (%s): %d sent, %d failed of %d\n",
		job.State, job.Segment, job.Sent, job.Failed, job.Total)
	return nil
}
