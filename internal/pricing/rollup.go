package pricing

import (
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
)

// RollupScheduler periodically summarizes the usage log via cron. It is
// optional: a process that never calls Start just uses Manager's on-demand
// Summarize* methods.
type RollupScheduler struct {
	manager *Manager
	logger  arbor.ILogger
	cron    *cron.Cron

	mu      sync.Mutex
	latest  UsageSummary
	lastErr error
}

func NewRollupScheduler(manager *Manager, logger arbor.ILogger) *RollupScheduler {
	return &RollupScheduler{manager: manager, logger: logger, cron: cron.New()}
}

// Start registers the rollup job on cronExpr (standard 5-field cron syntax)
// and starts the scheduler's goroutine. It runs one rollup immediately so
// Latest() is populated before the first tick.
func (s *RollupScheduler) Start(cronExpr string) error {
	s.runOnce()

	_, err := s.cron.AddFunc(cronExpr, s.runOnce)
	if err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

// Stop halts the scheduler, waiting for any in-flight rollup to finish.
func (s *RollupScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// Latest returns the most recently computed summary and any error from that
// attempt.
func (s *RollupScheduler) Latest() (UsageSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest, s.lastErr
}

func (s *RollupScheduler) runOnce() {
	summary, err := s.manager.SummarizeAll()

	s.mu.Lock()
	s.latest = summary
	s.lastErr = err
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn().Err(err).Msg("usage rollup failed")
		return
	}
	s.logger.Info().
		Float64("total_cost_usd", summary.TotalCostUSD).
		Uint64("total_requests", summary.TotalRequests).
		Msg("usage rollup complete")
}
