package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Dan9191/spend-calendar/internal/models"
	"github.com/shopspring/decimal"
)

type entryKey struct {
	date     time.Time
	category string
}

type storedTransfer struct {
	runID string
	models.Transfer
}

// MemoryStore is an in-memory Store for local development and tests
type MemoryStore struct {
	mu        sync.RWMutex
	plans     []*models.MonthlyBudgetPlan
	entries   map[string]map[entryKey]models.CalendarRecord
	transfers map[string][]storedTransfer

	locks sync.Map
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries:   make(map[string]map[entryKey]models.CalendarRecord),
		transfers: make(map[string][]storedTransfer),
	}
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func inMonth(t time.Time, year int, month time.Month) bool {
	return t.Year() == year && t.Month() == month
}

// SavePlan stores a copy of the plan
func (s *MemoryStore) SavePlan(ctx context.Context, plan *models.MonthlyBudgetPlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *plan
	s.plans = append(s.plans, &cp)
	return nil
}

// Plans returns the stored plans of a user, oldest first
func (s *MemoryStore) Plans(userID string) []*models.MonthlyBudgetPlan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.MonthlyBudgetPlan
	for _, p := range s.plans {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out
}

func (s *MemoryStore) HasCalendar(ctx context.Context, userID string, year int, month time.Month) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for key, r := range s.entries[userID] {
		if inMonth(key.date, year, month) && r.PlannedAmount.IsPositive() {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) ReplaceCalendar(ctx context.Context, userID string, year int, month time.Month, records []models.CalendarRecord) error {
	for _, r := range records {
		if !inMonth(r.Date, year, month) {
			return fmt.Errorf("record dated %s outside %04d-%02d", r.Date.Format(models.DateLayout), year, month)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.entries[userID]
	if entries == nil {
		entries = make(map[entryKey]models.CalendarRecord)
		s.entries[userID] = entries
	}
	spent := make(map[entryKey]decimal.Decimal)
	for key, r := range entries {
		if inMonth(key.date, year, month) {
			if !r.SpentAmount.IsZero() {
				spent[key] = r.SpentAmount
			}
			delete(entries, key)
		}
	}
	kept := s.transfers[userID][:0]
	for _, t := range s.transfers[userID] {
		if !inMonth(t.From, year, month) {
			kept = append(kept, t)
		}
	}
	s.transfers[userID] = kept

	for _, r := range records {
		r.UserID = userID
		r.Date = dateOnly(r.Date)
		key := entryKey{date: r.Date, category: r.Category}
		r.SpentAmount = r.SpentAmount.Add(spent[key])
		delete(spent, key)
		entries[key] = r
	}
	for key, amount := range spent {
		entries[key] = models.CalendarRecord{
			UserID:        userID,
			Date:          key.date,
			Category:      key.category,
			PlannedAmount: decimal.Zero,
			SpentAmount:   amount,
		}
	}
	return nil
}

func (s *MemoryStore) LoadCalendar(ctx context.Context, userID string, year int, month time.Month) ([]models.CalendarRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.monthRecords(userID, year, month), nil
}

func (s *MemoryStore) monthRecords(userID string, year int, month time.Month) []models.CalendarRecord {
	var out []models.CalendarRecord
	for key, r := range s.entries[userID] {
		if inMonth(key.date, year, month) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Category < out[j].Category
	})
	return out
}

func (s *MemoryStore) RecordSpend(ctx context.Context, userID string, date time.Time, category string, amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.entries[userID]
	if entries == nil {
		entries = make(map[entryKey]models.CalendarRecord)
		s.entries[userID] = entries
	}
	key := entryKey{date: dateOnly(date), category: category}
	r, ok := entries[key]
	if !ok {
		r = models.CalendarRecord{UserID: userID, Date: key.date, Category: category}
	}
	r.SpentAmount = r.SpentAmount.Add(amount)
	entries[key] = r
	return nil
}

func (s *MemoryStore) WithMonthLock(ctx context.Context, userID string, year int, month time.Month, fn func(ctx context.Context, tx MonthTx) error) error {
	key := fmt.Sprintf("%s:%04d-%02d", userID, year, month)
	l, _ := s.locks.LoadOrStore(key, &sync.Mutex{})
	lock := l.(*sync.Mutex)
	lock.Lock()
	defer lock.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx, &memoryMonthTx{store: s, userID: userID, year: year, month: month})
}

func (s *MemoryStore) ListCalendarUsers(ctx context.Context, year int, month time.Month) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var users []string
	for userID, entries := range s.entries {
		for key, r := range entries {
			if inMonth(key.date, year, month) && r.PlannedAmount.IsPositive() {
				users = append(users, userID)
				break
			}
		}
	}
	sort.Strings(users)
	return users, nil
}

// Transfers returns the audit trail of a user's month
func (s *MemoryStore) Transfers(userID string, year int, month time.Month) []models.Transfer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Transfer
	for _, t := range s.transfers[userID] {
		if inMonth(t.From, year, month) {
			out = append(out, t.Transfer)
		}
	}
	return out
}

type memoryMonthTx struct {
	store  *MemoryStore
	userID string
	year   int
	month  time.Month
}

func (tx *memoryMonthTx) DayBalances(ctx context.Context) ([]models.DayBalance, error) {
	s := tx.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	var transfers []models.Transfer
	for _, t := range s.transfers[tx.userID] {
		if inMonth(t.From, tx.year, tx.month) {
			transfers = append(transfers, t.Transfer)
		}
	}
	return balancesFromRecords(tx.year, tx.month, s.monthRecords(tx.userID, tx.year, tx.month), transfers), nil
}

func (tx *memoryMonthTx) SaveTransfers(ctx context.Context, runID string, transfers []models.Transfer) error {
	s := tx.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range transfers {
		s.transfers[tx.userID] = append(s.transfers[tx.userID], storedTransfer{runID: runID, Transfer: t})
	}
	return nil
}
