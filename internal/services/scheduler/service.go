package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/upcn/formu/internal/interfaces"
)

// Service drives the periodic dependency-index rebuild.
type Service struct {
	index  interfaces.DependencyIndex
	logger arbor.ILogger
	cron   *cron.Cron
}

// NewService creates a scheduler over the given index.
func NewService(index interfaces.DependencyIndex, logger arbor.ILogger) *Service {
	return &Service{
		index:  index,
		logger: logger,
		cron:   cron.New(),
	}
}

// Start schedules a rebuild every intervalMinutes minutes.
func (s *Service) Start(intervalMinutes int) error {
	schedule := fmt.Sprintf("@every %dm", intervalMinutes)
	_, err := s.cron.AddFunc(schedule, s.rebuild)
	if err != nil {
		return fmt.Errorf("failed to schedule index rebuild: %w", err)
	}

	s.cron.Start()
	s.logger.Info().Int("interval_minutes", intervalMinutes).Msg("Index rebuild scheduled")
	return nil
}

// Stop halts the scheduler. Any in-flight rebuild finishes on its own.
func (s *Service) Stop() {
	s.cron.Stop()
	s.logger.Info().Msg("Scheduler stopped")
}

func (s *Service) rebuild() {
	s.logger.Info().Msg("Scheduled index rebuild starting")
	if err := s.index.Build(context.Background()); err != nil {
		s.logger.Error().Err(err).Msg("Scheduled index rebuild failed")
	}
}
