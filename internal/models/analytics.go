package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// TypeTotal is one row of the per-type aggregate
type TypeTotal struct {
	Type   TransactionType
	Amount decimal.Decimal
	Count  int64
}

// MonthTypeTotal is one row of the per-month, per-type aggregate
type MonthTypeTotal struct {
	Month  MonthKey
	Type   TransactionType
	Amount decimal.Decimal
}

// CategoryTotal is one row of the per-type, per-category aggregate
type CategoryTotal struct {
	Type     TransactionType
	Category string
	Amount   decimal.Decimal
	Count    int64
}

// MonthKey identifies a calendar month
type MonthKey struct {
	Year  int
	Month time.Month
}

// MonthOf returns the month containing t
func MonthOf(t time.Time) MonthKey {
	return MonthKey{Year: t.Year(), Month: t.Month()}
}

// String formats the key as YYYY-MM
func (k MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", k.Year, int(k.Month))
}

// Before reports whether k is an earlier month than other
func (k MonthKey) Before(other MonthKey) bool {
	if k.Year != other.Year {
		return k.Year < other.Year
	}
	return k.Month < other.Month
}

// Start returns the first instant of the month in UTC
func (k MonthKey) Start() time.Time {
	return time.Date(k.Year, k.Month, 1, 0, 0, 0, 0, time.UTC)
}

// AddMonths shifts the key by n calendar months
func (k MonthKey) AddMonths(n int) MonthKey {
	return MonthOf(k.Start().AddDate(0, n, 0))
}

// MonthlyAmounts holds one month's income and expense sums
type MonthlyAmounts struct {
	Income   decimal.Decimal
	Expenses decimal.Decimal
}

func (a MonthlyAmounts) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Income   json.Number `json:"income"`
		Expenses json.Number `json:"expenses"`
	}{jsonAmount(a.Income), jsonAmount(a.Expenses)})
}

type monthEntry struct {
	key     MonthKey
	amounts MonthlyAmounts
}

// MonthlyBreakdown is an ordered mapping from month to income/expense sums.
// A month's amounts are zeroed when the month is first added.
type MonthlyBreakdown struct {
	entries []monthEntry
	index   map[MonthKey]int
}

// Add accumulates amount into the month's bucket for typ. Unknown types only
// register the month.
func (b *MonthlyBreakdown) Add(key MonthKey, typ TransactionType, amount decimal.Decimal) {
	if b.index == nil {
		b.index = make(map[MonthKey]int)
	}
	i, ok := b.index[key]
	if !ok {
		i = len(b.entries)
		b.index[key] = i
		b.entries = append(b.entries, monthEntry{
			key:     key,
			amounts: MonthlyAmounts{Income: decimal.Zero, Expenses: decimal.Zero},
		})
	}
	switch typ {
	case TypeIncome:
		b.entries[i].amounts.Income = b.entries[i].amounts.Income.Add(amount)
	case TypeExpense:
		b.entries[i].amounts.Expenses = b.entries[i].amounts.Expenses.Add(amount)
	}
}

// Get returns the amounts for key
func (b MonthlyBreakdown) Get(key MonthKey) (MonthlyAmounts, bool) {
	i, ok := b.index[key]
	if !ok {
		return MonthlyAmounts{}, false
	}
	return b.entries[i].amounts, true
}

// Keys returns the months in output order
func (b MonthlyBreakdown) Keys() []MonthKey {
	keys := make([]MonthKey, len(b.entries))
	for i, e := range b.entries {
		keys[i] = e.key
	}
	return keys
}

// Len returns the number of months
func (b MonthlyBreakdown) Len() int {
	return len(b.entries)
}

// SortDescending orders months newest first
func (b *MonthlyBreakdown) SortDescending() {
	sort.SliceStable(b.entries, func(i, j int) bool {
		return b.entries[j].key.Before(b.entries[i].key)
	})
	for i, e := range b.entries {
		b.index[e.key] = i
	}
}

// MarshalJSON renders {"YYYY-MM": {"income": x, "expenses": y}} preserving order
func (b MonthlyBreakdown) MarshalJSON() ([]byte, error) {
	w := newObjectWriter()
	for _, e := range b.entries {
		if err := w.field(e.key.String(), e.amounts); err != nil {
			return nil, err
		}
	}
	return w.close(), nil
}

// CategoryStat is the sum and count of one category
type CategoryStat struct {
	Amount decimal.Decimal
	Count  int64
}

func (c CategoryStat) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Amount json.Number `json:"amount"`
		Count  int64       `json:"count"`
	}{jsonAmount(c.Amount), c.Count})
}

type categoryEntry struct {
	name string
	stat CategoryStat
}

// CategoryBucket is an ordered mapping from category name to its stat
type CategoryBucket struct {
	entries []categoryEntry
	index   map[string]int
}

// Set stores the stat for a category, keeping its first position
func (b *CategoryBucket) Set(name string, stat CategoryStat) {
	if b.index == nil {
		b.index = make(map[string]int)
	}
	if i, ok := b.index[name]; ok {
		b.entries[i].stat = stat
		return
	}
	b.index[name] = len(b.entries)
	b.entries = append(b.entries, categoryEntry{name: name, stat: stat})
}

// Get returns the stat for a category
func (b CategoryBucket) Get(name string) (CategoryStat, bool) {
	i, ok := b.index[name]
	if !ok {
		return CategoryStat{}, false
	}
	return b.entries[i].stat, true
}

// Names returns category names in output order
func (b CategoryBucket) Names() []string {
	names := make([]string, len(b.entries))
	for i, e := range b.entries {
		names[i] = e.name
	}
	return names
}

// Len returns the number of categories
func (b CategoryBucket) Len() int {
	return len(b.entries)
}

// SortByAmountDesc orders categories by descending amount. Ties keep their
// insertion order.
func (b *CategoryBucket) SortByAmountDesc() {
	sort.SliceStable(b.entries, func(i, j int) bool {
		return b.entries[i].stat.Amount.GreaterThan(b.entries[j].stat.Amount)
	})
	for i, e := range b.entries {
		b.index[e.name] = i
	}
}

// MarshalJSON renders {"category": {"amount": x, "count": n}} preserving order
func (b CategoryBucket) MarshalJSON() ([]byte, error) {
	w := newObjectWriter()
	for _, e := range b.entries {
		if err := w.field(e.name, e.stat); err != nil {
			return nil, err
		}
	}
	return w.close(), nil
}

// CategorySummary partitions category stats by transaction type. Expense
// categories are published under "expenses".
type CategorySummary struct {
	Income   CategoryBucket `json:"income"`
	Expenses CategoryBucket `json:"expenses"`
}

// Statistics is the per-user income/expense overview
type Statistics struct {
	TotalIncome       decimal.Decimal
	TotalExpenses     decimal.Decimal
	IncomeCount       int64
	ExpenseCount      int64
	Balance           decimal.Decimal
	TotalTransactions int64
	MonthlyBreakdown  MonthlyBreakdown
}

type statisticsJSON struct {
	TotalIncome       json.Number      `json:"total_income"`
	TotalExpenses     json.Number      `json:"total_expenses"`
	IncomeCount       int64            `json:"income_count"`
	ExpenseCount      int64            `json:"expense_count"`
	Balance           json.Number      `json:"balance"`
	TotalTransactions int64            `json:"total_transactions"`
	MonthlyBreakdown  MonthlyBreakdown `json:"monthly_breakdown"`
}

// MarshalJSON renders amounts as JSON numbers
func (s Statistics) MarshalJSON() ([]byte, error) {
	return json.Marshal(statisticsJSON{
		TotalIncome:       jsonAmount(s.TotalIncome),
		TotalExpenses:     jsonAmount(s.TotalExpenses),
		IncomeCount:       s.IncomeCount,
		ExpenseCount:      s.ExpenseCount,
		Balance:           jsonAmount(s.Balance),
		TotalTransactions: s.TotalTransactions,
		MonthlyBreakdown:  s.MonthlyBreakdown,
	})
}

type objectWriter struct {
	buf   bytes.Buffer
	first bool
}

func newObjectWriter() *objectWriter {
	w := &objectWriter{first: true}
	w.buf.WriteByte('{')
	return w
}

func (w *objectWriter) field(key string, value any) error {
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}
	v, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if !w.first {
		w.buf.WriteByte(',')
	}
	w.first = false
	w.buf.Write(k)
	w.buf.WriteByte(':')
	w.buf.Write(v)
	return nil
}

func (w *objectWriter) close() []byte {
	w.buf.WriteByte('}')
	return w.buf.Bytes()
}
