package index

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Job is one refresh of the index.
type Job func(ctx context.Context) (UpdateStats, error)

// Scheduler re-runs an index Job at a fixed interval.
type Scheduler struct {
	job      Job
	interval time.Duration
	logger   *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu   sync.Mutex
	runs int
	errs int
}

// NewScheduler creates a scheduler that runs job every interval.
func NewScheduler(job Job, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		job:      job,
		interval: interval,
		logger:   logger,
	}
}

// Start runs the job immediately, then on each tick, until ctx is done or
// Stop is called.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(ctx)
	}()
}

// Stop cancels the scheduler and waits for the current run (if any) to finish.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

// Wait blocks until the scheduler exits.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

// Runs reports how many runs completed and how many of them failed.
func (s *Scheduler) Runs() (total, failed int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs, s.errs
}

func (s *Scheduler) run(ctx context.Context) {
	s.runOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	stats, err := s.job(ctx)

	s.mu.Lock()
	s.runs++
	if err != nil {
		s.errs++
	}
	s.mu.Unlock()

	if err != nil {
		if ctx.Err() == nil {
			s.logger.Error("scheduled index update failed", "err", err)
		}
		return
	}
	s.logger.Debug("scheduled index update completed",
		"upserted", stats.Upserted, "removed", stats.Removed, "elapsed", stats.Elapsed)
}
