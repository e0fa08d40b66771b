package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/Dan9191/finance-service/internal/models"
	"github.com/Dan9191/finance-service/internal/patch"
)

var (
	// ErrNotFound is returned when no owned row matches
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned on a unique constraint violation
	ErrDuplicate = errors.New("duplicate entry")
)

const uniqueViolation = "23505"

// Querier is satisfied by *sql.DB, *sql.Conn and *sql.Tx
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store is the persistence surface available to one request
type Store interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)

	ListGoals(ctx context.Context, userID int64, status models.GoalStatus) ([]models.Goal, error)
	GetGoal(ctx context.Context, userID, id int64) (*models.Goal, error)
	GoalExists(ctx context.Context, userID, id int64) (bool, error)
	CreateGoal(ctx context.Context, goal *models.Goal) error
	UpdateGoal(ctx context.Context, u patch.Update) (*models.Goal, error)
	DeleteGoal(ctx context.Context, userID, id int64) (bool, error)

	ListTransactions(ctx context.Context, userID int64, filter models.TransactionFilter) ([]models.Transaction, error)
	TransactionExists(ctx context.Context, userID, id int64) (bool, error)
	CreateTransaction(ctx context.Context, txn *models.Transaction) error
	UpdateTransaction(ctx context.Context, u patch.Update) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, userID, id int64) (bool, error)

	TypeTotals(ctx context.Context, userID int64) ([]models.TypeTotal, error)
	MonthlyTotals(ctx context.Context, userID int64, from, to time.Time) ([]models.MonthTypeTotal, error)
	CategoryTotals(ctx context.Context, userID int64) ([]models.CategoryTotal, error)
}

// Repository provides database operations
type Repository struct {
	q Querier
}

var _ Store = (*Repository)(nil)

// NewRepository initializes a new repository
func NewRepository(q Querier) *Repository {
	return &Repository{q: q}
}

// Pool hands out one connection per request
type Pool struct {
	db *sql.DB
}

// NewPool wraps an opened database handle
func NewPool(db *sql.DB) *Pool {
	return &Pool{db: db}
}

// Session acquires a dedicated connection, runs fn against it and releases
// the connection before returning, whatever fn does.
func (p *Pool) Session(ctx context.Context, fn func(Store) error) error {
	conn, err := p.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Close()

	return fn(NewRepository(conn))
}

// Ping checks the database is reachable
func (p *Pool) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func (r *Repository) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var id int64
	err := r.q.QueryRowContext(ctx, query, args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *Repository) deleteOwned(ctx context.Context, query string, userID, id int64) (bool, error) {
	res, err := r.q.ExecContext(ctx, query, id, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// updateArgs lays the update's assignments out positionally over columns,
// leaving unassigned columns NULL, then appends id and owner.
func updateArgs(u patch.Update, columns []patch.Column) ([]any, error) {
	args := make([]any, len(columns), len(columns)+2)
	for _, a := range u.Assignments {
		i := columnIndex(columns, a.Column)
		if i < 0 {
			return nil, fmt.Errorf("column %q is not updatable", a.Column)
		}
		args[i] = dbValue(a.Column, a.Value)
	}
	return append(args, u.ID, u.UserID), nil
}

func columnIndex(columns []patch.Column, col patch.Column) int {
	for i, c := range columns {
		if c == col {
			return i
		}
	}
	return -1
}

func dbValue(col patch.Column, v any) any {
	switch val := v.(type) {
	case time.Time:
		if col == patch.ColDeadline || col == patch.ColTransactionDate {
			return val.Format(models.DateLayout)
		}
		return val
	case models.TransactionType:
		return string(val)
	default:
		return v
	}
}
