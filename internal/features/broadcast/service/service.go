package service

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"kaliroot-admin/internal/common/errors"
	"kaliroot-admin/internal/common/logger"
	"kaliroot-admin/internal/common/validation"
	"kaliroot-admin/internal/features/broadcast/models"
	"kaliroot-admin/internal/features/broadcast/repository"
	"kaliroot-admin/internal/platform/backend"
	"kaliroot-admin/internal/platform/telegram"
	"kaliroot-admin/internal/workers"
)

type BroadcastService interface {
	// Start validates the request, loads the recipients and sends in the
	// background. The run lives until it finishes or the service context
	// is cancelled.
	Start(ctx context.Context, req models.StartRequest) (*models.StartResponse, error)
	// Run is Start without the background, it returns the finished job.
	Run(ctx context.Context, req models.StartRequest) (*models.Job, error)
	Get(ctx context.Context, id string) (*models.Job, error)
	// Wait blocks until every background run has returned.
	Wait()
}

type Config struct {
	Delay time.Duration
	Now   func() time.Time
}

type broadcastService struct {
	base       context.Context
	recipients repository.RecipientRepository
	jobs       repository.JobStore
	bot        telegram.Resolver
	cfg        Config
	wg         sync.WaitGroup
	log        zerolog.Logger
}

// NewBroadcastService runs background broadcasts under base, normally the
// server context.
func NewBroadcastService(base context.Context, recipients repository.RecipientRepository, jobs repository.JobStore, bot telegram.Resolver, cfg Config) BroadcastService {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &broadcastService{
		base:       base,
		recipients: recipients,
		jobs:       jobs,
		bot:        bot,
		cfg:        cfg,
		log:        logger.Component("broadcast"),
	}
}

type run struct {
	job        *models.Job
	req        models.StartRequest
	sender     *telegram.Client
	recipients []int64
}

func (s *broadcastService) prepare(ctx context.Context, req models.StartRequest) (*run, error) {
	if err := validation.ValidateSegment(req.Segment); err != nil {
		return nil, errors.NewValidationError("segment", err.Error())
	}
	if err := validation.ValidateMessage(req.Message); err != nil {
		return nil, errors.NewValidationError("message", err.Error())
	}
	bot, err := s.bot.Resolve(ctx)
	if err != nil {
		return nil, errors.FromTelegram("sendMessage", err)
	}
	ids, err := s.recipients.Recipients(ctx, req.Segment)
	if err != nil {
		return nil, errors.FromBackend("load recipients", backend.TableUsers, err)
	}

	job := &models.Job{
		ID:        uuid.NewString(),
		State:     models.StateRunning,
		Segment:   req.Segment,
		Total:     len(ids),
		StartedAt: s.cfg.Now().UTC(),
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, errors.NewCacheError("create broadcast job", err)
	}
	return &run{job: job, req: req, sender: bot, recipients: ids}, nil
}

func (s *broadcastService) Start(ctx context.Context, req models.StartRequest) (*models.StartResponse, error) {
	r, err := s.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.execute(s.base, r)
	}()

	return &models.StartResponse{JobID: r.job.ID, Total: r.job.Total}, nil
}

func (s *broadcastService) Run(ctx context.Context, req models.StartRequest) (*models.Job, error) {
	r, err := s.prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	s.execute(ctx, r)
	return s.Get(context.WithoutCancel(ctx), r.job.ID)
}

func (s *broadcastService) execute(ctx context.Context, r *run) {
	log := s.log.With().Str("job_id", r.job.ID).Str("segment", r.job.Segment).Logger()

	worker := workers.NewBroadcastWorker(r.sender, s.cfg.Delay)
	worker.OnResult = func(ctx context.Context, sent bool) {
		if err := s.jobs.Incr(context.WithoutCancel(ctx), r.job.ID, sent); err != nil {
			log.Warn().Err(err).Msg("failed to record broadcast progress")
		}
	}

	state := models.StateCompleted
	tally, err := worker.Run(ctx, r.recipients, r.req.Message, r.req.ParseMode)
	if err != nil {
		state = models.StateStopped
	}

	if err := s.jobs.Finish(context.WithoutCancel(ctx), r.job.ID, state, s.cfg.Now().UTC()); err != nil {
		log.Warn().Err(err).Msg("failed to record broadcast end")
	}
	log.Info().
		Str("state", state).
		Int("total", tally.Total).
		Int("sent", tally.Sent).
		Int("failed", tally.Failed).
		Msg("broadcast done")
}

func (s *broadcastService) Get(ctx context.Context, id string) (*models.Job, error) {
	job, err := s.jobs.Get(ctx, id)
	if err != nil {
		if stderrors.Is(err, repository.ErrJobNotFound) {
			return nil, errors.NewNotFoundError("broadcast job", id)
		}
		return nil, errors.NewCacheError("get broadcast job", err)
	}
	return job, nil
}

func (s *broadcastService) Wait() {
	s.wg.Wait()
}
