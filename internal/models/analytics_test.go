package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthKey(t *testing.T) {
	k := MonthKey{Year: 2025, Month: time.March}
	assert.Equal(t, "2025-03", k.String())
	assert.Equal(t, MonthKey{Year: 2024, Month: time.October}, k.AddMonths(-5))
	assert.Equal(t, MonthKey{Year: 2026, Month: time.January}, k.AddMonths(10))
	assert.True(t, MonthKey{Year: 2024, Month: time.December}.Before(k))
	assert.False(t, k.Before(k))
}

func TestMonthlyBreakdown_ZeroInitialised(t *testing.T) {
	var b MonthlyBreakdown
	jan := MonthKey{Year: 2025, Month: time.January}
	b.Add(jan, TypeIncome, decimal.NewFromInt(100))

	got, ok := b.Get(jan)
	require.True(t, ok)
	assert.True(t, got.Income.Equal(decimal.NewFromInt(100)))
	assert.True(t, got.Expenses.IsZero())

	raw, err := json.Marshal(b)
	require.NoError(t, err)
	assert.JSONEq(t, `{"2025-01": {"income": 100, "expenses": 0}}`, string(raw))
}

func TestMonthlyBreakdown_SortDescendingPreservedInJSON(t *testing.T) {
	var b MonthlyBreakdown
	b.Add(MonthKey{Year: 2024, Month: time.November}, TypeExpense, decimal.NewFromInt(5))
	b.Add(MonthKey{Year: 2025, Month: time.January}, TypeIncome, decimal.NewFromInt(1))
	b.Add(MonthKey{Year: 2024, Month: time.December}, TypeIncome, decimal.NewFromInt(2))
	b.SortDescending()

	assert.Equal(t, []MonthKey{
		{Year: 2025, Month: time.January},
		{Year: 2024, Month: time.December},
		{Year: 2024, Month: time.November},
	}, b.Keys())

	raw, err := json.Marshal(b)
	require.NoError(t, err)
	assert.Equal(t,
		`{"2025-01":{"income":1,"expenses":0},"2024-12":{"income":2,"expenses":0},"2024-11":{"income":0,"expenses":5}}`,
		string(raw))
}

func TestCategoryBucket_Order(t *testing.T) {
	var b CategoryBucket
	b.Set("Food", CategoryStat{Amount: decimal.NewFromInt(40), Count: 1})
	b.Set("Rent", CategoryStat{Amount: decimal.NewFromInt(900), Count: 1})
	b.Set("Fun", CategoryStat{Amount: decimal.NewFromInt(40), Count: 2})
	b.SortByAmountDesc()

	assert.Equal(t, []string{"Rent", "Food", "Fun"}, b.Names())

	raw, err := json.Marshal(b)
	require.NoError(t, err)
	assert.Equal(t,
		`{"Rent":{"amount":900,"count":1},"Food":{"amount":40,"count":1},"Fun":{"amount":40,"count":2}}`,
		string(raw))
}

func TestEmptyAggregatesMarshalAsObjects(t *testing.T) {
	raw, err := json.Marshal(CategorySummary{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"income": {}, "expenses": {}}`, string(raw))

	raw, err = json.Marshal(Statistics{})
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"total_income": 0, "total_expenses": 0,
		"income_count": 0, "expense_count": 0,
		"balance": 0, "total_transactions": 0,
		"monthly_breakdown": {}
	}`, string(raw))
}

func TestAmountsLeaveDecimalEncodingAlone(t *testing.T) {
	assert.False(t, decimal.MarshalJSONWithoutQuotes)

	raw, err := json.Marshal(decimal.RequireFromString("12.5"))
	require.NoError(t, err)
	assert.Equal(t, `"12.5"`, string(raw))

	raw, err = json.Marshal(MonthlyAmounts{Income: decimal.RequireFromString("12.5"), Expenses: decimal.Zero})
	require.NoError(t, err)
	assert.Equal(t, `{"income":12.5,"expenses":0}`, string(raw))
}
