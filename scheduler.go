package dlt

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// ReportHandler receives every report produced by a scheduled refresh
type ReportHandler func(*Report)

// RefreshScheduler triggers Engine.Refresh on a fixed period. Runs never
// overlap: a tick that arrives while a refresh is in flight is skipped.
type RefreshScheduler struct {
	engine  *Engine
	cron    *cron.Cron
	handler ReportHandler
	logger  Logger
	timeout time.Duration

	mu      sync.Mutex
	entry   cron.EntryID
	latest  *Report
	running bool
}

// NewRefreshScheduler creates a scheduler; handler may be nil
func NewRefreshScheduler(engine *Engine, handler ReportHandler, logger Logger) *RefreshScheduler {
	if logger == nil {
		logger = &DefaultLogger{}
	}
	return &RefreshScheduler{
		engine:  engine,
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		handler: handler,
		logger:  logger,
		timeout: MaxFetchTimeout,
	}
}

// Start schedules refreshes every interval and runs one immediately
func (s *RefreshScheduler) Start(interval time.Duration) error {
	if interval <= 0 {
		return ErrInvalidRefreshInterval
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("scheduler already started")
	}
	id, err := s.cron.AddFunc(fmt.Sprintf("@every %s", interval), s.RunOnce)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("schedule refresh: %w", err)
	}
	s.entry = id
	s.running = true
	s.mu.Unlock()

	s.cron.Start()
	s.logger.Info("Refreshing draws every %v", interval)
	s.RunOnce()
	return nil
}

// Reschedule replaces the refresh period of a running scheduler
func (s *RefreshScheduler) Reschedule(interval time.Duration) error {
	if interval <= 0 {
		return ErrInvalidRefreshInterval
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return fmt.Errorf("scheduler not started")
	}
	id, err := s.cron.AddFunc(fmt.Sprintf("@every %s", interval), s.RunOnce)
	if err != nil {
		return fmt.Errorf("schedule refresh: %w", err)
	}
	s.cron.Remove(s.entry)
	s.entry = id
	s.logger.Info("Refresh interval changed to %v", interval)
	return nil
}

// RunOnce performs one refresh and hands the report to the handler. It always
// asks the provider; the cache only serves on-demand reads between ticks.
func (s *RefreshScheduler) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	report := s.engine.RefreshNow(ctx)
	s.logger.Info("Scheduled refresh: %s", report.Message)

	s.mu.Lock()
	s.latest = report
	s.mu.Unlock()

	if s.handler != nil {
		s.handler(report)
	}
}

// Latest returns the most recent scheduled report, or nil before the first run
func (s *RefreshScheduler) Latest() *Report {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.latest
}

// Stop halts scheduling and waits for a running refresh to finish
func (s *RefreshScheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.cron.Remove(s.entry)
	s.entry = 0
	s.mu.Unlock()

	<-s.cron.Stop().Done()
}
