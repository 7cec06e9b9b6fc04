package cleanup

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type Scheduler struct {
	cleanup  *CleanupService
	interval time.Duration
	log      *zap.Logger
	stopCh   chan struct{}
}

func NewScheduler(cleanup *CleanupService, interval time.Duration, log *zap.Logger) *Scheduler {
	return &Scheduler{
		cleanup:  cleanup,
		interval: interval,
		log:      log,
		stopCh:   make(chan struct{}),
	}
}

// Start запускает планировщик задач
func (s *Scheduler) Start(ctx context.Context) {
	s.log.Info("starting cleanup scheduler", zap.Duration("interval", s.interval))
	go s.runUploadsCleanup(ctx)
}

// Stop останавливает планировщик
func (s *Scheduler) Stop() {
	s.log.Info("stopping cleanup scheduler")
	close(s.stopCh)
}

func (s *Scheduler) runUploadsCleanup(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Выполняем сразу при старте
	if _, err := s.cleanup.CleanupOrphanedUploads(ctx); err != nil {
		s.log.Error("initial uploads cleanup failed", zap.Error(err))
	}

	for {
		select {
		case <-ticker.C:
			if _, err := s.cleanup.CleanupOrphanedUploads(ctx); err != nil {
				s.log.Error("uploads cleanup failed", zap.Error(err))
			}
		case <-s.stopCh:
			s.log.Info("uploads cleanup stopped")
			return
		case <-ctx.Done():
			s.log.Info("uploads cleanup cancelled")
			return
		}
	}
}
