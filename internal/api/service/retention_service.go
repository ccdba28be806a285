package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"toolwatch/internal/api/repository"
	"toolwatch/pkg/logger"
)

// RetentionService sweeps execution records past their retention age on a
// cron schedule.
type RetentionService interface {
	Start(ctx context.Context)
	Sweep(ctx context.Context)
}

// NewRetentionService creates a retention sweeper from a cron expression
// ("0 3 * * *" or "@daily") and a max record age ("720h").
func NewRetentionService(recordRepo repository.ExecutionRecordRepository, logger *logger.Logger, scheduleExpr, maxAge string) (RetentionService, error) {
	cronParser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	schedule, err := cronParser.Parse(scheduleExpr)
	if err != nil {
		return nil, fmt.Errorf("invalid retention schedule: %w", err)
	}

	age, err := time.ParseDuration(maxAge)
	if err != nil {
		return nil, fmt.Errorf("invalid retention max age: %w", err)
	}
	if age <= 0 {
		return nil, fmt.Errorf("retention max age must be positive, got %s", maxAge)
	}

	return &retentionService{
		recordRepo: recordRepo,
		logger:     logger,
		schedule:   schedule,
		maxAge:     age,
	}, nil
}

type retentionService struct {
	recordRepo repository.ExecutionRecordRepository
	logger     *logger.Logger
	schedule   cron.Schedule
	maxAge     time.Duration
}

// Start runs the sweep loop until ctx is canceled.
func (s *retentionService) Start(ctx context.Context) {
	s.logger.Info("Retention sweeper started", logger.DurationField("max_age", s.maxAge))

	for {
		next := s.schedule.Next(time.Now())
		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("Retention sweeper stopping")
			return
		case <-timer.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep deletes records older than the retention age.
func (s *retentionService) Sweep(ctx context.Context) {
	cutoff := time.Now().Add(-s.maxAge)

	deleted, err := s.recordRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.Error("Retention sweep failed", logger.ErrorField(err))
		return
	}

	if deleted > 0 {
		s.logger.Info("Retention sweep removed records",
			logger.Int64Field("deleted", deleted),
			logger.Field("cutoff", cutoff),
		)
	}
}
