package workers

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"kaliroot-admin/internal/common/logger"
	"kaliroot-admin/internal/platform/telegram"
)

// DefaultBroadcastDelay is the pause between two sends.
const DefaultBroadcastDelay = 50 * time.Millisecond

// Sender delivers one message. *telegram.Client satisfies it.
type Sender interface {
	SendMessage(ctx context.Context, req telegram.SendMessageRequest) (*telegram.Message, error)
}

// Tally counts the outcome of a run.
type Tally struct {
	Total  int `json:"total"`
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

// BroadcastWorker sends one message to every recipient in order, pausing
// Delay between sends. Failures are counted and the run goes on.
type BroadcastWorker struct {
	sender Sender
	delay  time.Duration
	log    zerolog.Logger

	// OnResult is called after every send, it may be nil.
	OnResult func(ctx context.Context, sent bool)
}

func NewBroadcastWorker(sender Sender, delay time.Duration) *BroadcastWorker {
	if delay < 0 {
		delay = DefaultBroadcastDelay
	}
	return &BroadcastWorker{
		sender: sender,
		delay:  delay,
		log:    logger.Component("broadcast"),
	}
}

// Run stops early only when ctx is done, in which case ctx.Err() is
// returned with the tally so far.
func (w *BroadcastWorker) Run(ctx context.Context, recipients []int64, text, parseMode string) (Tally, error) {
	tally := Tally{Total: len(recipients)}
	if parseMode == "" {
		parseMode = "HTML"
	}

	w.log.Info().Int("recipients", len(recipients)).Msg("starting broadcast")

	for i, id := range recipients {
		if i > 0 && w.delay > 0 {
			timer := time.NewTimer(w.delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				w.log.Warn().Int("sent", tally.Sent).Int("failed", tally.Failed).Msg("broadcast interrupted")
				return tally, ctx.Err()
			case <-timer.C:
			}
		} else if err := ctx.Err(); err != nil {
			return tally, err
		}

		_, err := w.sender.SendMessage(ctx, telegram.SendMessageRequest{
			ChatID:    id,
			Text:      text,
			ParseMode: parseMode,
		})
		sent := err == nil
		if sent {
			tally.Sent++
		} else {
			tally.Failed++
			w.log.Debug().Err(err).Int64("user_id", id).Msg("send failed")
		}
		if w.OnResult != nil {
			w.OnResult(ctx, sent)
		}
	}

	w.log.Info().Int("sent", tally.Sent).Int("failed", tally.Failed).Msg("broadcast finished")
	return tally, nil
}
