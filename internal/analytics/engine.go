// Package analytics folds grouped transaction rows into the statistics and
// category summary views.
package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Dan9191/finance-service/internal/models"
)

// TrailingMonths is the width of the monthly breakdown window
const TrailingMonths = 6

// Window returns the half-open date range [from, to) covering the trailing n
// calendar months, the month containing now included.
func Window(now time.Time, n int) (from, to time.Time) {
	if n < 1 {
		n = 1
	}
	current := models.MonthOf(now)
	return current.AddMonths(-(n - 1)).Start(), current.AddMonths(1).Start()
}

// Statistics builds the statistics view from per-type totals and per-month
// totals. Types with no rows contribute zero.
func Statistics(totals []models.TypeTotal, monthly []models.MonthTypeTotal) models.Statistics {
	stats := models.Statistics{
		TotalIncome:   decimal.Zero,
		TotalExpenses: decimal.Zero,
	}

	for _, row := range totals {
		switch row.Type {
		case models.TypeIncome:
			stats.TotalIncome = stats.TotalIncome.Add(row.Amount)
			stats.IncomeCount += row.Count
		case models.TypeExpense:
			stats.TotalExpenses = stats.TotalExpenses.Add(row.Amount)
			stats.ExpenseCount += row.Count
		}
	}

	stats.Balance = stats.TotalIncome.Sub(stats.TotalExpenses)
	stats.TotalTransactions = stats.IncomeCount + stats.ExpenseCount
	stats.MonthlyBreakdown = Monthly(monthly)
	return stats
}

// Monthly groups per-month rows into a breakdown ordered newest first
func Monthly(rows []models.MonthTypeTotal) models.MonthlyBreakdown {
	var b models.MonthlyBreakdown
	for _, row := range rows {
		b.Add(row.Month, row.Type, row.Amount)
	}
	if b.Len() > 0 {
		b.SortDescending()
	}
	return b
}

// CategorySummary partitions per-category rows into income and expense
// buckets, each ordered by descending amount.
func CategorySummary(rows []models.CategoryTotal) models.CategorySummary {
	var summary models.CategorySummary
	for _, row := range rows {
		var bucket *models.CategoryBucket
		switch row.Type {
		case models.TypeIncome:
			bucket = &summary.Income
		case models.TypeExpense:
			bucket = &summary.Expenses
		default:
			continue
		}
		stat, _ := bucket.Get(row.Category)
		bucket.Set(row.Category, models.CategoryStat{
			Amount: stat.Amount.Add(row.Amount),
			Count:  stat.Count + row.Count,
		})
	}
	if summary.Income.Len() > 0 {
		summary.Income.SortByAmountDesc()
	}
	if summary.Expenses.Len() > 0 {
		summary.Expenses.SortByAmountDesc()
	}
	return summary
}
