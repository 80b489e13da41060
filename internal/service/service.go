package service

import (
	"context"
	"errors"
	"time"

	"github.com/Dan9191/spend-calendar/internal/calendar"
	"github.com/Dan9191/spend-calendar/internal/classifier"
	"github.com/Dan9191/spend-calendar/internal/config"
	"github.com/Dan9191/spend-calendar/internal/elasticity"
	"github.com/Dan9191/spend-calendar/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// ErrMonthInProgress is returned when a stored calendar for a month that has
// already started would be overwritten
var ErrMonthInProgress = errors.New("month already started")

// RateSource converts a currency into units per US dollar
type RateSource interface {
	UnitsPerUSD(ctx context.Context, currency string) (decimal.Decimal, error)
}

// Service handles business logic
type Service struct {
	store    repository.Store
	log      *logrus.Logger
	config   *config.Config
	regions  *classifier.Registry
	scaler   *elasticity.Scaler
	policies calendar.Policies
	rates    RateSource
	now      func() time.Time
}

// NewService initializes a new service. rates may be nil, in which case the
// static rates of the region profiles are used.
func NewService(store repository.Store, log *logrus.Logger, cfg *config.Config, regions *classifier.Registry, rates RateSource) (*Service, error) {
	scaler, err := elasticity.NewScaler(cfg.ReferenceIncome)
	if err != nil {
		return nil, err
	}
	return &Service{
		store:    store,
		log:      log,
		config:   cfg,
		regions:  regions,
		scaler:   scaler,
		policies: calendar.DefaultPolicies(),
		rates:    rates,
		now:      time.Now,
	}, nil
}

// monthStarted reports whether the first day of the month is today or earlier
func (s *Service) monthStarted(year int, month time.Month) bool {
	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return !today.Before(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC))
}
