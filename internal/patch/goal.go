package patch

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Dan9191/finance-service/internal/request"
	"github.com/Dan9191/finance-service/internal/validation"
)

// GoalPatch is a sparse goal modification
type GoalPatch struct {
	Title       Field[string]
	Target      Field[decimal.Decimal]
	Current     Field[decimal.Decimal]
	Deadline    Field[time.Time]
	IsCompleted Field[bool]
}

// ParseGoal reads a goal patch from an update body. Fields that would fail
// creation are ignored; a deadline that is not a date at all is an error.
func ParseGoal(f request.Fields, today time.Time) (GoalPatch, error) {
	var p GoalPatch

	p.Title = textField(f, "title", validation.MaxTitleLength)

	if f.Has("target") {
		p.Target = Ignore[decimal.Decimal]()
		if d, ok, err := validation.ParseAmount(f, "target"); ok && err == nil && d.IsPositive() && validation.StorableAmount(d) {
			p.Target = Set(d)
		}
	}

	if f.Has("current") {
		p.Current = Ignore[decimal.Decimal]()
		if d, ok, err := validation.ParseAmount(f, "current"); ok && err == nil && !d.IsNegative() && validation.StorableAmount(d) {
			p.Current = Set(d)
		}
	}

	if f.Has("deadline") {
		p.Deadline = Ignore[time.Time]()
		if f.Raw("deadline") != nil {
			d, err := validation.Date(f, "deadline", "Invalid deadline date format")
			if err != nil {
				return GoalPatch{}, err
			}
			if validation.FutureDate(d, today) == nil {
				p.Deadline = Set(d)
			}
		}
	}

	if f.Has("is_completed") {
		p.IsCompleted = Ignore[bool]()
		if b, ok := f.Bool("is_completed"); ok {
			p.IsCompleted = Set(b)
		}
	}

	return p, nil
}

// Build reduces the patch to column assignments for goal id owned by userID.
// Every non-empty update is stamped with updated_at = now.
func (p GoalPatch) Build(id, userID int64, now time.Time) (Update, error) {
	var out []Assignment
	out = appendIfSet(out, ColTitle, p.Title)
	out = appendIfSet(out, ColTargetAmount, p.Target)
	out = appendIfSet(out, ColCurrentAmount, p.Current)
	out = appendIfSet(out, ColDeadline, p.Deadline)
	out = appendIfSet(out, ColIsCompleted, p.IsCompleted)
	if len(out) == 0 {
		return Update{}, errNoFields()
	}
	out = append(out, Assignment{Column: ColUpdatedAt, Value: now})
	return Update{ID: id, UserID: userID, Assignments: out}, nil
}

// GoalColumns are the columns a goal update may assign
var GoalColumns = []Column{ColTitle, ColTargetAmount, ColCurrentAmount, ColDeadline, ColIsCompleted, ColUpdatedAt}

