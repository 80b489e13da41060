package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Dan9191/spend-calendar/internal/models"
	"github.com/Dan9191/spend-calendar/internal/redistribution"
	"github.com/Dan9191/spend-calendar/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Run is the outcome of a stored month's redistribution
type Run struct {
	RunID  string `json:"run_id,omitempty"`
	UserID string `json:"user_id"`
	redistribution.Result
}

// BatchSummary reports a RebalanceAll pass
type BatchSummary struct {
	Users      int `json:"users"`
	Rebalanced int `json:"rebalanced"`
	Unbalanced int `json:"unbalanced"`
	Failed     int `json:"failed"`
	Transfers  int `json:"transfers"`
}

// Redistribute rebalances a caller-supplied snapshot. Nothing is stored.
func (s *Service) Redistribute(snapshot []models.DayBalance) redistribution.Result {
	res := redistribution.Redistribute(snapshot)
	s.log.Debugf("Stateless redistribution: %d days, %d transfers, residual %s",
		len(snapshot), len(res.Transfers), res.ResidualOverage.StringFixed(2))
	return res
}

// RedistributeMonth rebalances a stored month under the user's month lock and
// appends the transfers to the audit trail. A month that is already balanced
// produces no transfers and no run id.
func (s *Service) RedistributeMonth(ctx context.Context, userID string, year int, month time.Month) (*Run, error) {
	exists, err := s.store.HasCalendar(ctx, userID, year, month)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("calendar %04d-%02d for user %s: %w", year, month, userID, repository.ErrNotFound)
	}

	run := &Run{UserID: userID}
	err = s.store.WithMonthLock(ctx, userID, year, month, func(ctx context.Context, tx repository.MonthTx) error {
		balances, err := tx.DayBalances(ctx)
		if err != nil {
			return err
		}
		run.Result = redistribution.Redistribute(balances)
		if len(run.Transfers) == 0 {
			return nil
		}
		run.RunID = uuid.NewString()
		return tx.SaveTransfers(ctx, run.RunID, run.Transfers)
	})
	if err != nil {
		return nil, err
	}

	entry := s.log.WithFields(logrus.Fields{
		"user_id":   userID,
		"month":     fmt.Sprintf("%04d-%02d", year, month),
		"run_id":    run.RunID,
		"transfers": len(run.Transfers),
	})
	if !run.Balanced() {
		entry.Warnf("Month still over budget after redistribution, residual %s", run.ResidualOverage.StringFixed(2))
	} else {
		entry.Info("Month redistributed")
	}
	return run, nil
}

// RebalanceAll redistributes the month of every user with a calendar. Users
// are processed concurrently and independently: one failure does not stop
// the others. Only context cancellation aborts the pass.
func (s *Service) RebalanceAll(ctx context.Context, year int, month time.Month) (BatchSummary, error) {
	users, err := s.store.ListCalendarUsers(ctx, year, month)
	if err != nil {
		return BatchSummary{}, err
	}

	var (
		mu      sync.Mutex
		summary = BatchSummary{Users: len(users)}
	)
	g := new(errgroup.Group)
	g.SetLimit(s.config.BatchConcurrency)
	for _, userID := range users {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			run, err := s.RedistributeMonth(ctx, userID, year, month)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				summary.Failed++
				s.log.WithField("user_id", userID).Errorf("Rebalance failed: %v", err)
				return nil
			}
			if len(run.Transfers) > 0 {
				summary.Rebalanced++
				summary.Transfers += len(run.Transfers)
			}
			if !run.Balanced() {
				summary.Unbalanced++
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return summary, err
	}

	s.log.WithFields(logrus.Fields{
		"month":      fmt.Sprintf("%04d-%02d", year, month),
		"users":      summary.Users,
		"rebalanced": summary.Rebalanced,
		"unbalanced": summary.Unbalanced,
		"failed":     summary.Failed,
	}).Info("Rebalance pass finished")
	return summary, nil
}
