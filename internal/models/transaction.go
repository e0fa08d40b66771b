package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is either income or expense
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// Valid reports whether t is a known transaction type
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Transaction represents an income or expense entry
type Transaction struct {
	ID          int64
	UserID      int64
	Type        TransactionType
	Amount      decimal.Decimal
	Category    string
	Description string
	Date        time.Time
	CreatedAt   time.Time
}

type transactionJSON struct {
	ID          int64           `json:"id"`
	Type        TransactionType `json:"type"`
	Amount      json.Number     `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Date        string          `json:"date"`
	CreatedAt   string          `json:"created_at"`
}

// MarshalJSON renders the transaction in its outbound shape
func (t Transaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(transactionJSON{
		ID:          t.ID,
		Type:        t.Type,
		Amount:      jsonAmount(t.Amount),
		Category:    t.Category,
		Description: t.Description,
		Date:        t.Date.Format(DateLayout),
		CreatedAt:   formatTimestamp(t.CreatedAt),
	})
}

// TransactionFilter narrows a transaction listing. A nil Limit means no limit.
type TransactionFilter struct {
	Type     TransactionType
	Category string
	Limit    *int
	Offset   int
}
