package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// OverdueMarker marks sent invoices past their due date as overdue.
// It returns the number of invoices that were transitioned.
type OverdueMarker interface {
	RefreshOverdue(ctx context.Context) (int, error)
}

// OverdueSchedulerConfig holds configuration for the overdue invoice sweeper
type OverdueSchedulerConfig struct {
	// Enabled indicates if the scheduler is enabled
	Enabled bool
	// Interval is how often the sweep runs
	Interval time.Duration
	// SweepTimeout is the maximum time a single sweep can run
	SweepTimeout time.Duration
}

// DefaultOverdueSchedulerConfig returns default scheduler configuration
func DefaultOverdueSchedulerConfig() OverdueSchedulerConfig {
	return OverdueSchedulerConfig{
		Enabled:      true,
		Interval:     1 * time.Hour,
		SweepTimeout: 5 * time.Minute,
	}
}

// OverdueScheduler periodically sweeps sent invoices whose due date has
// passed and marks them overdue. The same transition is available on
// demand through the billing API; the scheduler keeps invoice status
// current without requiring a caller.
type OverdueScheduler struct {
	config OverdueSchedulerConfig
	marker OverdueMarker
	logger *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool

	lastRunAt *time.Time
}

// NewOverdueScheduler creates a new overdue invoice scheduler
func NewOverdueScheduler(config OverdueSchedulerConfig, marker OverdueMarker, logger *zap.Logger) *OverdueScheduler {
	if config.Interval <= 0 {
		config.Interval = DefaultOverdueSchedulerConfig().Interval
	}
	if config.SweepTimeout <= 0 {
		config.SweepTimeout = DefaultOverdueSchedulerConfig().SweepTimeout
	}
	return &OverdueScheduler{
		config: config,
		marker: marker,
		logger: logger,
	}
}

// Start starts the periodic sweep loop
func (s *OverdueScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	if !s.config.Enabled {
		s.mu.Unlock()
		s.logger.Info("Overdue scheduler disabled")
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.run(ctx)

	s.logger.Info("Overdue scheduler started",
		zap.Duration("interval", s.config.Interval),
	)
	return nil
}

// Stop stops the sweep loop and waits for an in-flight sweep to finish
func (s *OverdueScheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()

	s.logger.Info("Overdue scheduler stopped")
}

// LastRunAt returns the start time of the most recent sweep, or nil if
// no sweep has run yet
func (s *OverdueScheduler) LastRunAt() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRunAt
}

func (s *OverdueScheduler) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	// Run once at startup so a restart does not delay the first sweep
	s.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *OverdueScheduler) sweep(ctx context.Context) {
	now := time.Now()
	s.mu.Lock()
	s.lastRunAt = &now
	s.mu.Unlock()

	sweepCtx, cancel := context.WithTimeout(ctx, s.config.SweepTimeout)
	defer cancel()

	updated, err := s.marker.RefreshOverdue(sweepCtx)
	if err != nil {
		s.logger.Error("Overdue sweep failed", zap.Error(err))
		return
	}
	if updated > 0 {
		s.logger.Info("Overdue sweep completed", zap.Int("invoices_updated", updated))
	}
}
