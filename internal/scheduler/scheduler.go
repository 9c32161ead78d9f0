package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/fleetcheck/internal/config"
	"github.com/mamadbah2/fleetcheck/internal/service/reporting"
)

const jobTimeout = 2 * time.Minute

// Publisher pushes the consolidated grid and compliance history to the shared sheet.
type Publisher interface {
	PublishConsolidated(ctx context.Context) (int, error)
	RecordCompliance(ctx context.Context, day, done, total int) error
}

// Fleet summarizes completion for a day.
type Fleet interface {
	Tally(day int) (done, total int, pending []string)
	Digest(day int) string
}

// Notifier delivers the daily digest.
type Notifier interface {
	NotifyAdmin(ctx context.Context, body string) error
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron      *cron.Cron
	cfg       config.ReportingConfig
	location  *time.Location
	publisher Publisher
	fleet     Fleet
	notifier  Notifier
	logger    *zap.Logger
	now       func() time.Time
}

// NewScheduler creates a new scheduler instance. A nil notifier disables the digest job.
func NewScheduler(cfg config.ReportingConfig, publisher Publisher, fleet Fleet, notifier Notifier, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}

	return &Scheduler{
		cron:      cron.New(cron.WithLocation(loc)),
		cfg:       cfg,
		location:  loc,
		publisher: publisher,
		fleet:     fleet,
		notifier:  notifier,
		logger:    logger,
		now:       time.Now,
	}, nil
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler", zap.String("timezone", s.location.String()))

	if _, err := s.cron.AddFunc(s.cfg.PublishSchedule, s.publishNightly); err != nil {
		return fmt.Errorf("schedule consolidated publish: %w", err)
	}

	if s.notifier != nil {
		if _, err := s.cron.AddFunc(s.cfg.DigestSchedule, s.sendDigest); err != nil {
			return fmt.Errorf("schedule daily digest: %w", err)
		}
	} else {
		s.logger.Info("whatsapp digest disabled")
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) today() int {
	return s.now().In(s.location).Day()
}

func (s *Scheduler) publishNightly() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	rows, err := s.publisher.PublishConsolidated(ctx)
	if errors.Is(err, reporting.ErrPublishDisabled) {
		s.logger.Debug("consolidated publish skipped, sheets not configured")
		return
	}
	if err != nil {
		s.logger.Error("failed to publish consolidated sheet", zap.Error(err))
		return
	}

	day := s.today()
	done, total, _ := s.fleet.Tally(day)
	if err := s.publisher.RecordCompliance(ctx, day, done, total); err != nil {
		s.logger.Error("failed to record compliance", zap.Error(err))
		return
	}

	s.logger.Info("consolidated sheet published",
		zap.Int("rows", rows), zap.Int("day", day), zap.Int("done", done), zap.Int("total", total))
}

func (s *Scheduler) sendDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	digest := s.fleet.Digest(s.today())
	if err := s.notifier.NotifyAdmin(ctx, digest); err != nil {
		s.logger.Error("failed to send daily digest", zap.Error(err))
		return
	}
	s.logger.Info("daily digest sent")
}
