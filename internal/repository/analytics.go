package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Dan9191/finance-service/internal/models"
)

// TypeTotals sums and counts a user's transactions per type
func (r *Repository) TypeTotals(ctx context.Context, userID int64) ([]models.TypeTotal, error) {
	query := `
		SELECT type, SUM(amount), COUNT(*)
		FROM transactions
		WHERE user_id = $1
		GROUP BY type`
	rows, err := r.q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to total transactions: %w", err)
	}
	defer rows.Close()

	var out []models.TypeTotal
	for rows.Next() {
		var row models.TypeTotal
		var typ string
		if err := rows.Scan(&typ, &row.Amount, &row.Count); err != nil {
			return nil, fmt.Errorf("failed to scan totals: %w", err)
		}
		row.Type = models.TransactionType(typ)
		out = append(out, row)
	}
	return out, rows.Err()
}

// MonthlyTotals sums a user's transactions per calendar month and type for
// dates in [from, to), newest month first.
func (r *Repository) MonthlyTotals(ctx context.Context, userID int64, from, to time.Time) ([]models.MonthTypeTotal, error) {
	query := `
		SELECT DATE_TRUNC('month', transaction_date)::date AS month, type, SUM(amount)
		FROM transactions
		WHERE user_id = $1
		  AND transaction_date >= $2
		  AND transaction_date < $3
		GROUP BY 1, 2
		ORDER BY month DESC`
	rows, err := r.q.QueryContext(ctx, query, userID, from.Format(models.DateLayout), to.Format(models.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to total months: %w", err)
	}
	defer rows.Close()

	var out []models.MonthTypeTotal
	for rows.Next() {
		var row models.MonthTypeTotal
		var month time.Time
		var typ string
		if err := rows.Scan(&month, &typ, &row.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan monthly totals: %w", err)
		}
		row.Month = models.MonthOf(month)
		row.Type = models.TransactionType(typ)
		out = append(out, row)
	}
	return out, rows.Err()
}

// CategoryTotals sums and counts a user's transactions per type and category
func (r *Repository) CategoryTotals(ctx context.Context, userID int64) ([]models.CategoryTotal, error) {
	query := `
		SELECT type, category, SUM(amount) AS total_amount, COUNT(*)
		FROM transactions
		WHERE user_id = $1
		GROUP BY type, category
		ORDER BY type, total_amount DESC`
	rows, err := r.q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to total categories: %w", err)
	}
	defer rows.Close()

	var out []models.CategoryTotal
	for rows.Next() {
		var row models.CategoryTotal
		var typ string
		if err := rows.Scan(&typ, &row.Category, &row.Amount, &row.Count); err != nil {
			return nil, fmt.Errorf("failed to scan category totals: %w", err)
		}
		row.Type = models.TransactionType(typ)
		out = append(out, row)
	}
	return out, rows.Err()
}
