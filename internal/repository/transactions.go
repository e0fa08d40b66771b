package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dan9191/finance-service/internal/models"
	"github.com/Dan9191/finance-service/internal/patch"
)

const transactionColumns = `id, user_id, type, amount, category, description, transaction_date, created_at`

func scanTransaction(s scanner) (*models.Transaction, error) {
	t := &models.Transaction{}
	var typ string
	err := s.Scan(&t.ID, &t.UserID, &typ, &t.Amount, &t.Category, &t.Description, &t.Date, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	t.Type = models.TransactionType(typ)
	return t, nil
}

// ListTransactions returns a user's transactions, most recent first
func (r *Repository) ListTransactions(ctx context.Context, userID int64, filter models.TransactionFilter) ([]models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1
		  AND ($2::text = '' OR type = $2::text)
		  AND ($3::text = '' OR category = $3::text)
		ORDER BY transaction_date DESC, created_at DESC
		LIMIT $4 OFFSET $5`
	var limit any
	if filter.Limit != nil {
		limit = *filter.Limit
	}
	rows, err := r.q.QueryContext(ctx, query, userID, string(filter.Type), filter.Category, limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	txns := []models.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txns, nil
}

// TransactionExists reports whether id is a transaction owned by userID
func (r *Repository) TransactionExists(ctx context.Context, userID, id int64) (bool, error) {
	ok, err := r.exists(ctx, `SELECT id FROM transactions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to check transaction: %w", err)
	}
	return ok, nil
}

// CreateTransaction creates a new transaction in the database
func (r *Repository) CreateTransaction(ctx context.Context, txn *models.Transaction) error {
	query := `
		INSERT INTO transactions (user_id, type, amount, category, description, transaction_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`
	err := r.q.QueryRowContext(ctx, query,
		txn.UserID, string(txn.Type), txn.Amount, txn.Category, txn.Description, txn.Date.Format(models.DateLayout)).
		Scan(&txn.ID, &txn.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// UpdateTransaction applies an update to an owned transaction
func (r *Repository) UpdateTransaction(ctx context.Context, u patch.Update) (*models.Transaction, error) {
	args, err := updateArgs(u, patch.TransactionColumns)
	if err != nil {
		return nil, err
	}
	query := `
		UPDATE transactions
		SET type             = COALESCE($1, type),
		    amount           = COALESCE($2, amount),
		    category         = COALESCE($3, category),
		    description      = COALESCE($4, description),
		    transaction_date = COALESCE($5, transaction_date)
		WHERE id = $6 AND user_id = $7
		RETURNING ` + transactionColumns
	t, err := scanTransaction(r.q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}
	return t, nil
}

// DeleteTransaction deletes an owned transaction and reports whether a row was removed
func (r *Repository) DeleteTransaction(ctx context.Context, userID, id int64) (bool, error) {
	ok, err := r.deleteOwned(ctx, `DELETE FROM transactions WHERE id = $1 AND user_id = $2`, userID, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete transaction: %w", err)
	}
	return ok, nil
}
