// Package scheduler runs the periodic skill statistics refresh.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// StatsRefresher recomputes skill provider counts.
type StatsRefresher interface {
	RefreshSkillStats(ctx context.Context) (int, error)
}

// Invalidator drops cached reads that a refresh makes stale.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Scheduler wraps robfig/cron and owns the stats job.
type Scheduler struct {
	cron   *cron.Cron
	skills StatsRefresher
	cache  Invalidator
	spec   string
	logger zerolog.Logger
}

// New creates a Scheduler firing on spec (e.g. "@every 1h"). cache may be nil.
func New(skills StatsRefresher, cache Invalidator, spec string, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		skills: skills,
		cache:  cache,
		spec:   spec,
		logger: logger,
	}
}

// Start registers the job and starts the scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}
	s.cron.Start()
	s.logger.Info().Str("spec", s.spec).Msg("skill stats scheduler started")
	return nil
}

// Stop waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info().Msg("skill stats scheduler stopped")
}

// RunOnce refreshes the stats and invalidates the skills cache.
func (s *Scheduler) RunOnce(ctx context.Context) {
	n, err := s.skills.RefreshSkillStats(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("skill stats refresh failed")
		return
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("skills cache invalidation failed")
		}
	}
	s.logger.Info().Int("skills", n).Msg("skill stats refreshed")
}
