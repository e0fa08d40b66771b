package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dan9191/finance-service/internal/models"
	"github.com/Dan9191/finance-service/internal/patch"
)

var (
	goalCols = []string{"id", "user_id", "title", "target_amount", "current_amount",
		"deadline_date", "is_completed", "created_at", "updated_at"}
	txnCols = []string{"id", "user_id", "type", "amount", "category", "description",
		"transaction_date", "created_at"}
)

func newMock(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return NewRepository(db), mock
}

func q(s string) string { return regexp.QuoteMeta(s) }

func TestPoolSessionReleasesConnection(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	mock.ExpectQuery(q("FROM financial_goals")).
		WithArgs(int64(7), int64(3)).
		WillReturnRows(sqlmock.NewRows(goalCols).
			AddRow(7, 3, "Car", "1000.00", "250.50", time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), false, created, created))

	var got *models.Goal
	err = NewPool(db).Session(context.Background(), func(s Store) error {
		var err error
		got, err = s.GetGoal(context.Background(), 3, 7)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, "Car", got.Title)
	assert.True(t, got.CurrentAmount.Equal(decimal.RequireFromString("250.5")))
	assert.Equal(t, 0, db.Stats().InUse)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPoolSessionPropagatesError(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	boom := errors.New("boom")
	err = NewPool(db).Session(context.Background(), func(Store) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, db.Stats().InUse)
}

func TestCreateUser(t *testing.T) {
	t.Run("returns generated id", func(t *testing.T) {
		repo, mock := newMock(t)
		created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		mock.ExpectQuery(q("INSERT INTO users")).
			WithArgs("a@b.c", "Ann", "hash").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(11, created))

		u := &models.User{Email: "a@b.c", Name: "Ann", PasswordHash: "hash"}
		require.NoError(t, repo.CreateUser(context.Background(), u))
		assert.Equal(t, int64(11), u.ID)
		assert.Equal(t, created, u.CreatedAt)
	})

	t.Run("unique violation maps to duplicate", func(t *testing.T) {
		repo, mock := newMock(t)
		mock.ExpectQuery(q("INSERT INTO users")).
			WillReturnError(&pq.Error{Code: "23505"})

		err := repo.CreateUser(context.Background(), &models.User{Email: "a@b.c"})
		assert.ErrorIs(t, err, ErrDuplicate)
	})

	t.Run("other errors are wrapped", func(t *testing.T) {
		repo, mock := newMock(t)
		mock.ExpectQuery(q("INSERT INTO users")).
			WillReturnError(errors.New("connection reset"))

		err := repo.CreateUser(context.Background(), &models.User{Email: "a@b.c"})
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrDuplicate)
		assert.Contains(t, err.Error(), "failed to create user")
	})
}

func TestFindUserByEmailNotFound(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery(q("FROM users")).
		WithArgs("x@y.z").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "password_hash", "created_at"}))

	_, err := repo.FindUserByEmail(context.Background(), "x@y.z")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEmailExists(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery(q("SELECT id FROM users WHERE email = $1")).
		WithArgs("a@b.c").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(q("SELECT id FROM users WHERE email = $1")).
		WithArgs("new@b.c").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	ok, err := repo.EmailExists(context.Background(), "a@b.c")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.EmailExists(context.Background(), "new@b.c")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestListGoalsPassesStatus(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now().UTC()
	mock.ExpectQuery(q("ORDER BY created_at DESC")).
		WithArgs(int64(3), "completed").
		WillReturnRows(sqlmock.NewRows(goalCols).
			AddRow(2, 3, "B", "10", "10", now, true, now, now).
			AddRow(1, 3, "A", "10", "5", now, true, now, now))

	goals, err := repo.ListGoals(context.Background(), 3, models.GoalStatusCompleted)
	require.NoError(t, err)
	require.Len(t, goals, 2)
	assert.Equal(t, int64(2), goals[0].ID)
}

func TestListGoalsEmptyIsNotNil(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery(q("FROM financial_goals")).
		WillReturnRows(sqlmock.NewRows(goalCols))

	goals, err := repo.ListGoals(context.Background(), 3, models.GoalStatusActive)
	require.NoError(t, err)
	assert.NotNil(t, goals)
	assert.Empty(t, goals)
}

func TestCreateGoalFormatsDeadline(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now().UTC()
	mock.ExpectQuery(q("INSERT INTO financial_goals")).
		WithArgs(int64(3), "Trip", "500", "0", "2026-12-31").
		WillReturnRows(sqlmock.NewRows([]string{"id", "is_completed", "created_at", "updated_at"}).
			AddRow(9, false, now, now))

	g := &models.Goal{
		UserID:       3,
		Title:        "Trip",
		TargetAmount: decimal.NewFromInt(500),
		Deadline:     time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.CreateGoal(context.Background(), g))
	assert.Equal(t, int64(9), g.ID)
}

func TestUpdateGoalLeavesUnassignedColumnsNull(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(q("UPDATE financial_goals")).
		WithArgs("New title", nil, nil, "2027-01-15", nil, now, int64(5), int64(3)).
		WillReturnRows(sqlmock.NewRows(goalCols).
			AddRow(5, 3, "New title", "100", "0", time.Date(2027, 1, 15, 0, 0, 0, 0, time.UTC), false, now, now))

	u := patch.Update{ID: 5, UserID: 3, Assignments: []patch.Assignment{
		{Column: patch.ColTitle, Value: "New title"},
		{Column: patch.ColDeadline, Value: time.Date(2027, 1, 15, 0, 0, 0, 0, time.UTC)},
		{Column: patch.ColUpdatedAt, Value: now},
	}}
	g, err := repo.UpdateGoal(context.Background(), u)
	require.NoError(t, err)
	assert.Equal(t, "New title", g.Title)
}

func TestUpdateGoalNotFound(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery(q("UPDATE financial_goals")).
		WillReturnRows(sqlmock.NewRows(goalCols))

	u := patch.Update{ID: 5, UserID: 3, Assignments: []patch.Assignment{{Column: patch.ColTitle, Value: "x"}}}
	_, err := repo.UpdateGoal(context.Background(), u)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateRejectsForeignColumn(t *testing.T) {
	repo, _ := newMock(t)
	u := patch.Update{ID: 5, UserID: 3, Assignments: []patch.Assignment{{Column: patch.ColCategory, Value: "x"}}}
	_, err := repo.UpdateGoal(context.Background(), u)
	assert.Error(t, err)
}

func TestDeleteGoal(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectExec(q("DELETE FROM financial_goals")).
		WithArgs(int64(5), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q("DELETE FROM financial_goals")).
		WithArgs(int64(6), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.DeleteGoal(context.Background(), 3, 5)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.DeleteGoal(context.Background(), 3, 6)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestListTransactionsFilterAndPaging(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now().UTC()
	limit := 20
	mock.ExpectQuery(q("ORDER BY transaction_date DESC, created_at DESC")).
		WithArgs(int64(3), "expense", "Food", 20, 40).
		WillReturnRows(sqlmock.NewRows(txnCols).
			AddRow(1, 3, "expense", "12.30", "Food", "Lunch", now, now))

	txns, err := repo.ListTransactions(context.Background(), 3, models.TransactionFilter{
		Type: models.TypeExpense, Category: "Food", Limit: &limit, Offset: 40,
	})
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, models.TypeExpense, txns[0].Type)
}

func TestListTransactionsWithoutLimit(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery(q("FROM transactions")).
		WithArgs(int64(3), "", "", nil, 0).
		WillReturnRows(sqlmock.NewRows(txnCols))

	txns, err := repo.ListTransactions(context.Background(), 3, models.TransactionFilter{})
	require.NoError(t, err)
	assert.Empty(t, txns)
}

func TestCreateTransaction(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now().UTC()
	mock.ExpectQuery(q("INSERT INTO transactions")).
		WithArgs(int64(3), "income", "1500", "Salary", "March", "2025-03-01").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(4, now))

	txn := &models.Transaction{
		UserID: 3, Type: models.TypeIncome, Amount: decimal.NewFromInt(1500),
		Category: "Salary", Description: "March",
		Date: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.CreateTransaction(context.Background(), txn))
	assert.Equal(t, int64(4), txn.ID)
}

func TestUpdateTransactionArgs(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now().UTC()
	mock.ExpectQuery(q("UPDATE transactions")).
		WithArgs("income", nil, nil, nil, "2025-02-03", int64(8), int64(3)).
		WillReturnRows(sqlmock.NewRows(txnCols).
			AddRow(8, 3, "income", "10", "Gift", "From mom", time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC), now))

	u := patch.Update{ID: 8, UserID: 3, Assignments: []patch.Assignment{
		{Column: patch.ColType, Value: models.TypeIncome},
		{Column: patch.ColTransactionDate, Value: time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC)},
	}}
	txn, err := repo.UpdateTransaction(context.Background(), u)
	require.NoError(t, err)
	assert.Equal(t, models.TypeIncome, txn.Type)
}

func TestTransactionExistsError(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery(q("SELECT id FROM transactions")).
		WillReturnError(sql.ErrConnDone)

	_, err := repo.TransactionExists(context.Background(), 3, 1)
	assert.ErrorIs(t, err, sql.ErrConnDone)
}

func TestMonthlyTotals(t *testing.T) {
	repo, mock := newMock(t)
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(q("DATE_TRUNC('month', transaction_date)")).
		WithArgs(int64(3), "2025-01-01", "2025-07-01").
		WillReturnRows(sqlmock.NewRows([]string{"month", "type", "sum"}).
			AddRow(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), "income", "100").
			AddRow(time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), "expense", "40"))

	rows, err := repo.MonthlyTotals(context.Background(), 3, from, to)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2025-06", rows[0].Month.String())
	assert.Equal(t, models.TypeExpense, rows[1].Type)
}

func TestTypeAndCategoryTotals(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery(q("GROUP BY type")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"type", "sum", "count"}).
			AddRow("income", "300", 2))
	mock.ExpectQuery(q("GROUP BY type, category")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"type", "category", "total_amount", "count"}).
			AddRow("expense", "Food", "75.5", 3))

	totals, err := repo.TypeTotals(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, totals, 1)
	assert.Equal(t, int64(2), totals[0].Count)

	cats, err := repo.CategoryTotals(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, "Food", cats[0].Category)
	assert.True(t, cats[0].Amount.Equal(decimal.RequireFromString("75.5")))
}
