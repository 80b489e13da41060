package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Dan9191/spend-calendar/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresStore(db), mock
}

var (
	octStart = time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)
	novStart = time.Date(2026, time.November, 1, 0, 0, 0, 0, time.UTC)
)

func TestPostgresHasCalendarCountsPlannedEntries(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT EXISTS .*FROM budget\.calendar_entries .*planned_amount > 0`).
		WithArgs("u1", octStart, novStart).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	has, err := store.HasCalendar(context.Background(), "u1", 2026, time.October)
	require.NoError(t, err)
	assert.False(t, has)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresReplaceCalendarKeepsSpending(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM budget\.calendar_transfers`).
		WithArgs("u1", octStart, novStart).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM budget\.calendar_entries .*spent_amount = 0`).
		WithArgs("u1", octStart, novStart).
		WillReturnResult(sqlmock.NewResult(0, 30))
	mock.ExpectExec(`UPDATE budget\.calendar_entries SET planned_amount = 0`).
		WithArgs("u1", octStart, novStart).
		WillReturnResult(sqlmock.NewResult(0, 1))
	insert := mock.ExpectPrepare(`INSERT INTO budget\.calendar_entries .*ON CONFLICT .*spent_amount = budget\.calendar_entries\.spent_amount \+ EXCLUDED\.spent_amount`)
	insert.ExpectExec().
		WithArgs("u1", date(1), "rent", "1200", "0").
		WillReturnResult(sqlmock.NewResult(0, 1))
	insert.ExpectExec().
		WithArgs("u1", date(3), "coffee", "4", "0").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := store.ReplaceCalendar(context.Background(), "u1", 2026, time.October, []models.CalendarRecord{
		{Date: date(1).Add(9 * time.Hour), Category: "rent", PlannedAmount: d("1200"), SpentAmount: d("0")},
		{Date: date(3), Category: "coffee", PlannedAmount: d("4"), SpentAmount: d("0")},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresReplaceCalendarRollsBackOutsideMonth(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM budget\.calendar_transfers`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM budget\.calendar_entries`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`UPDATE budget\.calendar_entries`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectPrepare(`INSERT INTO budget\.calendar_entries`)
	mock.ExpectRollback()

	err := store.ReplaceCalendar(context.Background(), "u1", 2026, time.October, []models.CalendarRecord{
		{Date: novStart, Category: "rent", PlannedAmount: d("1200")},
	})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRecordSpendUpserts(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(`INSERT INTO budget\.calendar_entries .*ON CONFLICT \(user_id, date, category\) DO UPDATE SET spent_amount`).
		WithArgs("u1", date(3), "coffee", "4.5").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.RecordSpend(context.Background(), "u1", date(3).Add(18*time.Hour), "coffee", d("4.5"))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresMonthLockBalancesAndTransfers(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`SELECT pg_advisory_xact_lock\(hashtext\(\$1\)\)`).
		WithArgs("u1:2026-10").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT user_id, date, category, planned_amount, spent_amount FROM budget\.calendar_entries`).
		WithArgs("u1", octStart, novStart).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "date", "category", "planned_amount", "spent_amount"}).
			AddRow("u1", date(1), "dining", "100.00", "150.00").
			AddRow("u1", date(2), "dining", "100.00", "70.00"))
	mock.ExpectQuery(`SELECT source_date, dest_date, amount FROM budget\.calendar_transfers`).
		WithArgs("u1", octStart, novStart).
		WillReturnRows(sqlmock.NewRows([]string{"source_date", "dest_date", "amount"}).
			AddRow(date(1), date(2), "10.00"))
	mock.ExpectExec(`INSERT INTO budget\.calendar_transfers`).
		WithArgs("run-1", int64(0), "u1", date(1), date(2), "20").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := store.WithMonthLock(context.Background(), "u1", 2026, time.October, func(ctx context.Context, tx MonthTx) error {
		balances, err := tx.DayBalances(ctx)
		require.NoError(t, err)
		require.Len(t, balances, 31)
		assert.True(t, balances[0].Actual.Equal(d("140")))
		assert.True(t, balances[0].Limit.Equal(d("100")))
		assert.True(t, balances[1].Actual.Equal(d("80")))
		assert.True(t, balances[2].Actual.IsZero())

		return tx.SaveTransfers(ctx, "run-1", []models.Transfer{{From: date(1), To: date(2), Amount: d("20")}})
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresMonthLockRollsBackOnError(t *testing.T) {
	store, mock := newMockStore(t)
	failure := errors.New("engine failed")

	mock.ExpectBegin()
	mock.ExpectExec(`SELECT pg_advisory_xact_lock`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := store.WithMonthLock(context.Background(), "u1", 2026, time.October, func(ctx context.Context, tx MonthTx) error {
		return failure
	})
	assert.ErrorIs(t, err, failure)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListCalendarUsers(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT DISTINCT user_id FROM budget\.calendar_entries .*planned_amount > 0`).
		WithArgs(octStart, novStart).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow("a").AddRow("b"))

	users, err := store.ListCalendarUsers(context.Background(), 2026, time.October)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, users)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresHasCalendarError(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(`SELECT EXISTS`).WillReturnError(sql.ErrConnDone)

	_, err := store.HasCalendar(context.Background(), "u1", 2026, time.October)
	assert.ErrorIs(t, err, sql.ErrConnDone)
}
