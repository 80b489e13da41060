package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Dan9191/spend-calendar/internal/models"
	"github.com/shopspring/decimal"
)

// PostgresStore provides database operations backed by PostgreSQL
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore initializes a new store
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// SavePlan inserts a plan row
func (r *PostgresStore) SavePlan(ctx context.Context, plan *models.MonthlyBudgetPlan) error {
	fixed, err := json.Marshal(plan.FixedExpenses)
	if err != nil {
		return fmt.Errorf("failed to encode fixed expenses: %w", err)
	}
	breakdown, err := json.Marshal(plan.DiscretionaryBreakdown)
	if err != nil {
		return fmt.Errorf("failed to encode breakdown: %w", err)
	}

	query := `
		INSERT INTO budget.plans (id, user_id, region, total_income, fixed_total, savings_goal,
			discretionary_total, confidence, fixed_expenses, breakdown, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err = r.db.ExecContext(ctx, query,
		plan.ID, plan.UserID, plan.Region, plan.TotalIncome, plan.FixedTotal, plan.SavingsGoal,
		plan.DiscretionaryTotal, plan.Confidence, fixed, breakdown, plan.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save plan: %w", err)
	}
	return nil
}

// HasCalendar reports whether the user's month has entries
func (r *PostgresStore) HasCalendar(ctx context.Context, userID string, year int, month time.Month) (bool, error) {
	start, end := monthRange(year, month)
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM budget.calendar_entries
			WHERE user_id = $1 AND date >= $2 AND date < $3 AND planned_amount > 0)`
	if err := r.db.QueryRowContext(ctx, query, userID, start, end).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check calendar: %w", err)
	}
	return exists, nil
}

// ReplaceCalendar replaces the month's planned amounts and clears its
// transfers in one transaction. Rows with recorded spending survive with a
// zero plan unless a new record covers them.
func (r *PostgresStore) ReplaceCalendar(ctx context.Context, userID string, year int, month time.Month, records []models.CalendarRecord) error {
	start, end := monthRange(year, month)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM budget.calendar_transfers
		WHERE user_id = $1 AND source_date >= $2 AND source_date < $3`, userID, start, end); err != nil {
		return fmt.Errorf("failed to clear transfers: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM budget.calendar_entries
		WHERE user_id = $1 AND date >= $2 AND date < $3 AND spent_amount = 0`, userID, start, end); err != nil {
		return fmt.Errorf("failed to clear calendar: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE budget.calendar_entries SET planned_amount = 0
		WHERE user_id = $1 AND date >= $2 AND date < $3`, userID, start, end); err != nil {
		return fmt.Errorf("failed to reset planned amounts: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO budget.calendar_entries (user_id, date, category, planned_amount, spent_amount)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, date, category)
		DO UPDATE SET planned_amount = EXCLUDED.planned_amount,
			spent_amount = budget.calendar_entries.spent_amount + EXCLUDED.spent_amount`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if rec.Date.Before(start) || !rec.Date.Before(end) {
			return fmt.Errorf("record dated %s outside %04d-%02d", rec.Date.Format(models.DateLayout), year, month)
		}
		if _, err := stmt.ExecContext(ctx, userID, dateOnly(rec.Date), rec.Category, rec.PlannedAmount, rec.SpentAmount); err != nil {
			return fmt.Errorf("failed to insert calendar entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit calendar: %w", err)
	}
	return nil
}

// LoadCalendar returns the month's entries
func (r *PostgresStore) LoadCalendar(ctx context.Context, userID string, year int, month time.Month) ([]models.CalendarRecord, error) {
	return loadRecords(ctx, r.db, userID, year, month)
}

// RecordSpend adds to the spent amount of one entry
func (r *PostgresStore) RecordSpend(ctx context.Context, userID string, date time.Time, category string, amount decimal.Decimal) error {
	query := `
		INSERT INTO budget.calendar_entries (user_id, date, category, planned_amount, spent_amount)
		VALUES ($1, $2, $3, 0, $4)
		ON CONFLICT (user_id, date, category)
		DO UPDATE SET spent_amount = budget.calendar_entries.spent_amount + EXCLUDED.spent_amount`
	if _, err := r.db.ExecContext(ctx, query, userID, dateOnly(date), category, amount); err != nil {
		return fmt.Errorf("failed to record spend: %w", err)
	}
	return nil
}

// WithMonthLock runs fn inside a transaction holding a transaction-scoped
// advisory lock on the user's month. The lock is released on commit or rollback.
func (r *PostgresStore) WithMonthLock(ctx context.Context, userID string, year int, month time.Month, fn func(ctx context.Context, tx MonthTx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	key := fmt.Sprintf("%s:%04d-%02d", userID, year, month)
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, key); err != nil {
		return fmt.Errorf("failed to lock month: %w", err)
	}

	if err := fn(ctx, &pgMonthTx{tx: tx, userID: userID, year: year, month: month}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit month: %w", err)
	}
	return nil
}

// ListCalendarUsers returns users with entries in the month
func (r *PostgresStore) ListCalendarUsers(ctx context.Context, year int, month time.Month) ([]string, error) {
	start, end := monthRange(year, month)
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT user_id FROM budget.calendar_entries
		WHERE date >= $1 AND date < $2 AND planned_amount > 0
		ORDER BY user_id`, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, id)
	}
	return users, rows.Err()
}

// querier is satisfied by *sql.DB and *sql.Tx
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func loadRecords(ctx context.Context, q querier, userID string, year int, month time.Month) ([]models.CalendarRecord, error) {
	start, end := monthRange(year, month)
	rows, err := q.QueryContext(ctx, `
		SELECT user_id, date, category, planned_amount, spent_amount
		FROM budget.calendar_entries
		WHERE user_id = $1 AND date >= $2 AND date < $3
		ORDER BY date, category`, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load calendar: %w", err)
	}
	defer rows.Close()

	var records []models.CalendarRecord
	for rows.Next() {
		var rec models.CalendarRecord
		if err := rows.Scan(&rec.UserID, &rec.Date, &rec.Category, &rec.PlannedAmount, &rec.SpentAmount); err != nil {
			return nil, fmt.Errorf("failed to scan calendar entry: %w", err)
		}
		rec.Date = dateOnly(rec.Date)
		records = append(records, rec)
	}
	return records, rows.Err()
}

type pgMonthTx struct {
	tx     *sql.Tx
	userID string
	year   int
	month  time.Month
}

func (t *pgMonthTx) DayBalances(ctx context.Context) ([]models.DayBalance, error) {
	records, err := loadRecords(ctx, t.tx, t.userID, t.year, t.month)
	if err != nil {
		return nil, err
	}

	start, end := monthRange(t.year, t.month)
	rows, err := t.tx.QueryContext(ctx, `
		SELECT source_date, dest_date, amount
		FROM budget.calendar_transfers
		WHERE user_id = $1 AND source_date >= $2 AND source_date < $3
		ORDER BY run_id, seq`, t.userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load transfers: %w", err)
	}
	defer rows.Close()

	var transfers []models.Transfer
	for rows.Next() {
		var tr models.Transfer
		if err := rows.Scan(&tr.From, &tr.To, &tr.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan transfer: %w", err)
		}
		tr.From, tr.To = dateOnly(tr.From), dateOnly(tr.To)
		transfers = append(transfers, tr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transfers: %w", err)
	}
	return balancesFromRecords(t.year, t.month, records, transfers), nil
}

func (t *pgMonthTx) SaveTransfers(ctx context.Context, runID string, transfers []models.Transfer) error {
	for seq, tr := range transfers {
		_, err := t.tx.ExecContext(ctx, `
			INSERT INTO budget.calendar_transfers (run_id, seq, user_id, source_date, dest_date, amount)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			runID, seq, t.userID, dateOnly(tr.From), dateOnly(tr.To), tr.Amount)
		if err != nil {
			return fmt.Errorf("failed to save transfer: %w", err)
		}
	}
	return nil
}
