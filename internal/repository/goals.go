package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dan9191/finance-service/internal/models"
	"github.com/Dan9191/finance-service/internal/patch"
)

const goalColumns = `id, user_id, title, target_amount, current_amount, deadline_date, is_completed, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanGoal(s scanner) (*models.Goal, error) {
	g := &models.Goal{}
	err := s.Scan(&g.ID, &g.UserID, &g.Title, &g.TargetAmount, &g.CurrentAmount,
		&g.Deadline, &g.IsCompleted, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// ListGoals returns a user's goals, newest first
func (r *Repository) ListGoals(ctx context.Context, userID int64, status models.GoalStatus) ([]models.Goal, error) {
	query := `
		SELECT ` + goalColumns + `
		FROM financial_goals
		WHERE user_id = $1
		  AND ($2::text = 'all' OR is_completed = ($2::text = 'completed'))
		ORDER BY created_at DESC`
	rows, err := r.q.QueryContext(ctx, query, userID, string(status))
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	defer rows.Close()

	goals := []models.Goal{}
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	return goals, nil
}

// GetGoal retrieves one owned goal
func (r *Repository) GetGoal(ctx context.Context, userID, id int64) (*models.Goal, error) {
	query := `
		SELECT ` + goalColumns + `
		FROM financial_goals
		WHERE id = $1 AND user_id = $2`
	g, err := scanGoal(r.q.QueryRowContext(ctx, query, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}
	return g, nil
}

// GoalExists reports whether id is a goal owned by userID
func (r *Repository) GoalExists(ctx context.Context, userID, id int64) (bool, error) {
	ok, err := r.exists(ctx, `SELECT id FROM financial_goals WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to check goal: %w", err)
	}
	return ok, nil
}

// CreateGoal creates a new goal in the database
func (r *Repository) CreateGoal(ctx context.Context, goal *models.Goal) error {
	query := `
		INSERT INTO financial_goals (user_id, title, target_amount, current_amount, deadline_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, is_completed, created_at, updated_at`
	err := r.q.QueryRowContext(ctx, query,
		goal.UserID, goal.Title, goal.TargetAmount, goal.CurrentAmount, goal.Deadline.Format(models.DateLayout)).
		Scan(&goal.ID, &goal.IsCompleted, &goal.CreatedAt, &goal.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create goal: %w", err)
	}
	return nil
}

// UpdateGoal applies an update to an owned goal. Columns the update does not
// assign keep their stored value.
func (r *Repository) UpdateGoal(ctx context.Context, u patch.Update) (*models.Goal, error) {
	args, err := updateArgs(u, patch.GoalColumns)
	if err != nil {
		return nil, err
	}
	query := `
		UPDATE financial_goals
		SET title          = COALESCE($1, title),
		    target_amount  = COALESCE($2, target_amount),
		    current_amount = COALESCE($3, current_amount),
		    deadline_date  = COALESCE($4, deadline_date),
		    is_completed   = COALESCE($5, is_completed),
		    updated_at     = COALESCE($6, updated_at)
		WHERE id = $7 AND user_id = $8
		RETURNING ` + goalColumns
	g, err := scanGoal(r.q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update goal: %w", err)
	}
	return g, nil
}

// DeleteGoal deletes an owned goal and reports whether a row was removed
func (r *Repository) DeleteGoal(ctx context.Context, userID, id int64) (bool, error) {
	ok, err := r.deleteOwned(ctx, `DELETE FROM financial_goals WHERE id = $1 AND user_id = $2`, userID, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete goal: %w", err)
	}
	return ok, nil
}
