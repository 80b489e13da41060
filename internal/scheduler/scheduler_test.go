package scheduler

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/Dan9191/spend-calendar/internal/service"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	year  int
	month time.Month
}

type fakeRebalancer struct {
	mu    sync.Mutex
	calls []call
	err   error
}

func (f *fakeRebalancer) RebalanceAll(ctx context.Context, year int, month time.Month) (service.BatchSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{year: year, month: month})
	return service.BatchSummary{Users: 1}, f.err
}

func (f *fakeRebalancer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func silentLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestRunOnceUsesCurrentUTCMonth(t *testing.T) {
	fake := &fakeRebalancer{}
	s, err := NewScheduler(fake, silentLogger(), "30 2 * * *")
	require.NoError(t, err)

	// 23:30 on Oct 31 in UTC-5 is already November in UTC
	s.now = func() time.Time {
		return time.Date(2026, time.October, 31, 23, 30, 0, 0, time.FixedZone("EST", -5*3600))
	}
	s.RunOnce(context.Background())

	require.Len(t, fake.calls, 1)
	assert.Equal(t, call{year: 2026, month: time.November}, fake.calls[0])
}

func TestRunOnceSurvivesErrors(t *testing.T) {
	fake := &fakeRebalancer{err: errors.New("store down")}
	s, err := NewScheduler(fake, silentLogger(), "@daily")
	require.NoError(t, err)

	s.RunOnce(context.Background())
	s.RunOnce(context.Background())
	assert.Equal(t, 2, fake.count())
}

func TestNewSchedulerRejectsBadSchedule(t *testing.T) {
	_, err := NewScheduler(&fakeRebalancer{}, silentLogger(), "every night")
	assert.Error(t, err)
}

func TestSchedulerFires(t *testing.T) {
	fake := &fakeRebalancer{}
	s, err := NewScheduler(fake, silentLogger(), "@every 1s")
	require.NoError(t, err)

	s.Start()
	assert.Eventually(t, func() bool { return fake.count() > 0 }, 3*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
