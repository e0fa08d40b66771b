package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// GoalStatus filters goal listings
type GoalStatus string

const (
	GoalStatusActive    GoalStatus = "active"
	GoalStatusCompleted GoalStatus = "completed"
	GoalStatusAll       GoalStatus = "all"
)

// ParseGoalStatus maps a query value onto a status filter. Empty and unknown
// values select active goals.
func ParseGoalStatus(s string) GoalStatus {
	switch GoalStatus(s) {
	case GoalStatusCompleted:
		return GoalStatusCompleted
	case GoalStatusAll:
		return GoalStatusAll
	default:
		return GoalStatusActive
	}
}

// Goal represents a savings goal owned by a user
type Goal struct {
	ID            int64
	UserID        int64
	Title         string
	TargetAmount  decimal.Decimal
	CurrentAmount decimal.Decimal
	Deadline      time.Time
	IsCompleted   bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

var hundred = decimal.NewFromInt(100)

// Progress returns current/target as a percentage. It is not capped at 100
// and is 0 when the target is not positive.
func (g Goal) Progress() float64 {
	if !g.TargetAmount.IsPositive() {
		return 0
	}
	return g.CurrentAmount.Div(g.TargetAmount).Mul(hundred).InexactFloat64()
}

type goalJSON struct {
	ID          int64       `json:"id"`
	Title       string      `json:"title"`
	Target      json.Number `json:"target"`
	Current     json.Number `json:"current"`
	Deadline    string      `json:"deadline"`
	IsCompleted bool        `json:"is_completed"`
	CreatedAt   string      `json:"created_at"`
	UpdatedAt   string      `json:"updated_at"`
	Progress    float64     `json:"progress"`
}

// MarshalJSON renders the goal in its outbound shape
func (g Goal) MarshalJSON() ([]byte, error) {
	return json.Marshal(goalJSON{
		ID:          g.ID,
		Title:       g.Title,
		Target:      jsonAmount(g.TargetAmount),
		Current:     jsonAmount(g.CurrentAmount),
		Deadline:    g.Deadline.Format(DateLayout),
		IsCompleted: g.IsCompleted,
		CreatedAt:   formatTimestamp(g.CreatedAt),
		UpdatedAt:   formatTimestamp(g.UpdatedAt),
		Progress:    g.Progress(),
	})
}
