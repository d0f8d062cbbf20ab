package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/teamboard/backend/internal/infrastructure/journal"
)

// SweeperConfig controls how the journal is pruned.
type SweeperConfig struct {
	Interval  time.Duration
	Retention time.Duration
}

// JournalSweeper prunes journal entries past their retention window on a
// cron schedule.
type JournalSweeper struct {
	store  *journal.Store
	logger *zap.Logger
	cron   *cron.Cron
	cfg    SweeperConfig
}

func NewJournalSweeper(store *journal.Store, logger *zap.Logger, cfg SweeperConfig) *JournalSweeper {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	sweeper := &JournalSweeper{
		store:  store,
		logger: logger,
		cfg:    cfg,
		cron:   cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	_, _ = sweeper.cron.AddFunc(schedule, func() {
		if err := sweeper.Sweep(); err != nil {
			sweeper.logger.Error("journal sweep failed", zap.Error(err))
		}
	})

	return sweeper
}

// Start launches the cron scheduler.
func (s *JournalSweeper) Start() {
	if s == nil || s.cron == nil {
		return
	}
	s.cron.Start()
	s.logger.Info("journal sweeper started")
}

// Stop gracefully stops the scheduler.
func (s *JournalSweeper) Stop(ctx context.Context) {
	if s == nil || s.cron == nil {
		return
	}
	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	s.logger.Info("journal sweeper stopped")
}

// Sweep prunes entries older than the retention window.
func (s *JournalSweeper) Sweep() error {
	if s == nil || s.store == nil {
		return nil
	}
	cutoff := time.Now().Add(-s.cfg.Retention)
	if err := s.store.Cleanup(cutoff); err != nil {
		return err
	}

	size, err := s.store.Size()
	if err != nil {
		return err
	}
	s.logger.Debug("journal swept", zap.Time("cutoff", cutoff), zap.Int("remaining", size))
	return nil
}
