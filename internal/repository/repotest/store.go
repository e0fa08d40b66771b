// Package repotest provides an in-memory repository.Store for tests of the
// layers above persistence.
package repotest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Dan9191/finance-service/internal/models"
	"github.com/Dan9191/finance-service/internal/patch"
	"github.com/Dan9191/finance-service/internal/repository"
)

// Store keeps users, goals and transactions in memory. It satisfies both
// repository.Store and the session runner the service layer expects.
type Store struct {
	// Now stamps created and updated times
	Now func() time.Time
	// Err, when set, fails every store operation
	Err error

	mu       sync.Mutex
	nextID   int64
	users    []models.User
	goals    []models.Goal
	txns     []models.Transaction
	sessions int
	open     int
}

var _ repository.Store = (*Store)(nil)

// New returns an empty store
func New() *Store {
	return &Store{Now: time.Now}
}

// Session runs fn against the store, tracking open sessions
func (s *Store) Session(_ context.Context, fn func(repository.Store) error) error {
	s.mu.Lock()
	s.sessions++
	s.open++
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.open--
		s.mu.Unlock()
	}()
	return fn(s)
}

// Sessions reports how many sessions were started
func (s *Store) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions
}

// Open reports how many sessions are still running
func (s *Store) Open() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// SeedGoal stores g as-is, assigning an id when it has none
func (s *Store) SeedGoal(g models.Goal) models.Goal {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g.ID == 0 {
		g.ID = s.id()
	} else if g.ID > s.nextID {
		s.nextID = g.ID
	}
	s.goals = append(s.goals, g)
	return g
}

// SeedTransaction stores t as-is, assigning an id when it has none
func (s *Store) SeedTransaction(t models.Transaction) models.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == 0 {
		t.ID = s.id()
	} else if t.ID > s.nextID {
		s.nextID = t.ID
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = s.Now()
	}
	s.txns = append(s.txns, t)
	return t
}

// Users returns a copy of every stored user
func (s *Store) Users() []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.User(nil), s.users...)
}

// Goal returns the stored goal with id regardless of owner
func (s *Store) Goal(id int64) (models.Goal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range s.goals {
		if g.ID == id {
			return g, true
		}
	}
	return models.Goal{}, false
}

// Transaction returns the stored transaction with id regardless of owner
func (s *Store) Transaction(id int64) (models.Transaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.txns {
		if t.ID == id {
			return t, true
		}
	}
	return models.Transaction{}, false
}

func (s *Store) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for _, u := range s.users {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	user.ID = s.id()
	user.CreatedAt = s.Now()
	s.users = append(s.users, *user)
	return nil
}

func (s *Store) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, u := range s.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) EmailExists(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	for _, u := range s.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) ListGoals(_ context.Context, userID int64, status models.GoalStatus) ([]models.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := []models.Goal{}
	for _, g := range s.goals {
		if g.UserID != userID {
			continue
		}
		if status != models.GoalStatusAll && g.IsCompleted != (status == models.GoalStatusCompleted) {
			continue
		}
		out = append(out, g)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *Store) goalIndex(userID, id int64) int {
	for i, g := range s.goals {
		if g.ID == id && g.UserID == userID {
			return i
		}
	}
	return -1
}

func (s *Store) GetGoal(_ context.Context, userID, id int64) (*models.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	i := s.goalIndex(userID, id)
	if i < 0 {
		return nil, repository.ErrNotFound
	}
	g := s.goals[i]
	return &g, nil
}

func (s *Store) GoalExists(_ context.Context, userID, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	return s.goalIndex(userID, id) >= 0, nil
}

func (s *Store) CreateGoal(_ context.Context, goal *models.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	goal.ID = s.id()
	goal.IsCompleted = false
	goal.CreatedAt = s.Now()
	goal.UpdatedAt = goal.CreatedAt
	s.goals = append(s.goals, *goal)
	return nil
}

func (s *Store) UpdateGoal(_ context.Context, u patch.Update) (*models.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	i := s.goalIndex(u.UserID, u.ID)
	if i < 0 {
		return nil, repository.ErrNotFound
	}
	g := s.goals[i]
	for _, a := range u.Assignments {
		switch a.Column {
		case patch.ColTitle:
			g.Title = a.Value.(string)
		case patch.ColTargetAmount:
			g.TargetAmount = a.Value.(decimal.Decimal)
		case patch.ColCurrentAmount:
			g.CurrentAmount = a.Value.(decimal.Decimal)
		case patch.ColDeadline:
			g.Deadline = a.Value.(time.Time)
		case patch.ColIsCompleted:
			g.IsCompleted = a.Value.(bool)
		case patch.ColUpdatedAt:
			g.UpdatedAt = a.Value.(time.Time)
		default:
			return nil, fmt.Errorf("column %q is not updatable", a.Column)
		}
	}
	s.goals[i] = g
	return &g, nil
}

func (s *Store) DeleteGoal(_ context.Context, userID, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	i := s.goalIndex(userID, id)
	if i < 0 {
		return false, nil
	}
	s.goals = append(s.goals[:i], s.goals[i+1:]...)
	return true, nil
}

func (s *Store) ListTransactions(_ context.Context, userID int64, filter models.TransactionFilter) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	matched := []models.Transaction{}
	for _, t := range s.txns {
		if t.UserID != userID {
			continue
		}
		if filter.Type != "" && t.Type != filter.Type {
			continue
		}
		if filter.Category != "" && t.Category != filter.Category {
			continue
		}
		matched = append(matched, t)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})

	if filter.Offset >= len(matched) {
		return []models.Transaction{}, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit != nil && *filter.Limit < len(matched) {
		matched = matched[:*filter.Limit]
	}
	return matched, nil
}

func (s *Store) txnIndex(userID, id int64) int {
	for i, t := range s.txns {
		if t.ID == id && t.UserID == userID {
			return i
		}
	}
	return -1
}

func (s *Store) TransactionExists(_ context.Context, userID, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	return s.txnIndex(userID, id) >= 0, nil
}

func (s *Store) CreateTransaction(_ context.Context, txn *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	txn.ID = s.id()
	txn.CreatedAt = s.Now()
	s.txns = append(s.txns, *txn)
	return nil
}

func (s *Store) UpdateTransaction(_ context.Context, u patch.Update) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	i := s.txnIndex(u.UserID, u.ID)
	if i < 0 {
		return nil, repository.ErrNotFound
	}
	t := s.txns[i]
	for _, a := range u.Assignments {
		switch a.Column {
		case patch.ColType:
			t.Type = a.Value.(models.TransactionType)
		case patch.ColAmount:
			t.Amount = a.Value.(decimal.Decimal)
		case patch.ColCategory:
			t.Category = a.Value.(string)
		case patch.ColDescription:
			t.Description = a.Value.(string)
		case patch.ColTransactionDate:
			t.Date = a.Value.(time.Time)
		default:
			return nil, fmt.Errorf("column %q is not updatable", a.Column)
		}
	}
	s.txns[i] = t
	return &t, nil
}

func (s *Store) DeleteTransaction(_ context.Context, userID, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	i := s.txnIndex(userID, id)
	if i < 0 {
		return false, nil
	}
	s.txns = append(s.txns[:i], s.txns[i+1:]...)
	return true, nil
}

func (s *Store) TypeTotals(_ context.Context, userID int64) ([]models.TypeTotal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	byType := map[models.TransactionType]*models.TypeTotal{}
	var order []models.TransactionType
	for _, t := range s.txns {
		if t.UserID != userID {
			continue
		}
		row, ok := byType[t.Type]
		if !ok {
			row = &models.TypeTotal{Type: t.Type, Amount: decimal.Zero}
			byType[t.Type] = row
			order = append(order, t.Type)
		}
		row.Amount = row.Amount.Add(t.Amount)
		row.Count++
	}
	out := make([]models.TypeTotal, 0, len(order))
	for _, typ := range order {
		out = append(out, *byType[typ])
	}
	return out, nil
}

func (s *Store) MonthlyTotals(_ context.Context, userID int64, from, to time.Time) ([]models.MonthTypeTotal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	type key struct {
		month models.MonthKey
		typ   models.TransactionType
	}
	sums := map[key]decimal.Decimal{}
	var order []key
	for _, t := range s.txns {
		if t.UserID != userID || t.Date.Before(from) || !t.Date.Before(to) {
			continue
		}
		k := key{models.MonthOf(t.Date), t.Type}
		if _, ok := sums[k]; !ok {
			order = append(order, k)
		}
		sums[k] = sums[k].Add(t.Amount)
	}
	sort.SliceStable(order, func(i, j int) bool { return order[j].month.Before(order[i].month) })

	out := make([]models.MonthTypeTotal, 0, len(order))
	for _, k := range order {
		out = append(out, models.MonthTypeTotal{Month: k.month, Type: k.typ, Amount: sums[k]})
	}
	return out, nil
}

func (s *Store) CategoryTotals(_ context.Context, userID int64) ([]models.CategoryTotal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	type key struct {
		typ      models.TransactionType
		category string
	}
	rows := map[key]*models.CategoryTotal{}
	var order []key
	for _, t := range s.txns {
		if t.UserID != userID {
			continue
		}
		k := key{t.Type, t.Category}
		row, ok := rows[k]
		if !ok {
			row = &models.CategoryTotal{Type: t.Type, Category: t.Category, Amount: decimal.Zero}
			rows[k] = row
			order = append(order, k)
		}
		row.Amount = row.Amount.Add(t.Amount)
		row.Count++
	}

	out := make([]models.CategoryTotal, 0, len(order))
	for _, k := range order {
		out = append(out, *rows[k])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Type != out[j].Type {
			return out[i].Type < out[j].Type
		}
		return out[i].Amount.GreaterThan(out[j].Amount)
	})
	return out, nil
}
