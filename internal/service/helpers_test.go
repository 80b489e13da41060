package service

import (
	"io"
	"testing"
	"time"

	"github.com/Dan9191/spend-calendar/internal/classifier"
	"github.com/Dan9191/spend-calendar/internal/config"
	"github.com/Dan9191/spend-calendar/internal/repository"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

// newTestService builds a service with a silent logger and a fixed clock
func newTestService(t *testing.T, store repository.Store, now time.Time) *Service {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cfg := &config.Config{
		ReferenceIncome:     70000,
		NormalizeGuidelines: true,
		ObservedBlend:       0.5,
		BatchConcurrency:    4,
	}
	svc, err := NewService(store, logger, cfg, classifier.NewRegistry(nil), nil)
	require.NoError(t, err)
	svc.now = func() time.Time { return now }
	return svc
}
