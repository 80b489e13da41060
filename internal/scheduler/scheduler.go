package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/Dan9191/spend-calendar/internal/service"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Rebalancer redistributes every stored calendar of a month
type Rebalancer interface {
	RebalanceAll(ctx context.Context, year int, month time.Month) (service.BatchSummary, error)
}

// Scheduler runs the periodic rebalance of the current month
type Scheduler struct {
	cron    *cron.Cron
	svc     Rebalancer
	log     *logrus.Logger
	timeout time.Duration
	now     func() time.Time
}

// NewScheduler registers the rebalance job on a standard five-field cron schedule (UTC)
func NewScheduler(svc Rebalancer, log *logrus.Logger, schedule string) (*Scheduler, error) {
	s := &Scheduler{
		cron:    cron.New(cron.WithLocation(time.UTC)),
		svc:     svc,
		log:     log,
		timeout: 30 * time.Minute,
		now:     time.Now,
	}
	if _, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		s.RunOnce(ctx)
	}); err != nil {
		return nil, fmt.Errorf("invalid rebalance schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Start runs the scheduler in its own goroutine
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("Rebalance scheduler started")
}

// Stop stops the scheduler and waits for a running job to finish
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.log.Warn("Rebalance job still running at shutdown")
	}
}

// RunOnce rebalances the current UTC month
func (s *Scheduler) RunOnce(ctx context.Context) {
	now := s.now().UTC()
	summary, err := s.svc.RebalanceAll(ctx, now.Year(), now.Month())
	if err != nil {
		s.log.Errorf("Rebalance of %04d-%02d aborted: %v", now.Year(), now.Month(), err)
		return
	}
	if summary.Failed > 0 {
		s.log.Warnf("Rebalance of %04d-%02d finished with %d failed users", now.Year(), now.Month(), summary.Failed)
	}
}
