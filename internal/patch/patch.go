// Package patch turns sparse update bodies into typed patches and reduces
// them to the list of column assignments a store applies.
//
// Every patch field is tri-state: absent, present and valid, or present but
// invalid. Invalid fields are ignored rather than rejected, so an update that
// names only invalid fields is the same as one that names none.
package patch

import (
	"github.com/Dan9191/finance-service/internal/apperr"
)

// State is the tri-state of a patch field
type State int

const (
	Absent State = iota
	Valid
	Ignored
)

func (s State) String() string {
	switch s {
	case Valid:
		return "valid"
	case Ignored:
		return "ignored"
	default:
		return "absent"
	}
}

// Field is one optional patch value
type Field[T any] struct {
	State State
	Value T
}

// Set returns a valid field holding v
func Set[T any](v T) Field[T] {
	return Field[T]{State: Valid, Value: v}
}

// Ignore returns a present-but-invalid field
func Ignore[T any]() Field[T] {
	return Field[T]{State: Ignored}
}

// IsSet reports whether the field will be written
func (f Field[T]) IsSet() bool {
	return f.State == Valid
}

// Column names a writable column
type Column string

const (
	ColTitle           Column = "title"
	ColTargetAmount    Column = "target_amount"
	ColCurrentAmount   Column = "current_amount"
	ColDeadline        Column = "deadline_date"
	ColIsCompleted     Column = "is_completed"
	ColUpdatedAt       Column = "updated_at"
	ColType            Column = "type"
	ColAmount          Column = "amount"
	ColCategory        Column = "category"
	ColDescription     Column = "description"
	ColTransactionDate Column = "transaction_date"
)

// Assignment sets one column to a value
type Assignment struct {
	Column Column
	Value  any
}

// Update is a concrete modification of one owned record
type Update struct {
	ID          int64
	UserID      int64
	Assignments []Assignment
}

// Value returns the value assigned to col
func (u Update) Value(col Column) (any, bool) {
	for _, a := range u.Assignments {
		if a.Column == col {
			return a.Value, true
		}
	}
	return nil, false
}

// Columns lists the assigned columns in order
func (u Update) Columns() []Column {
	cols := make([]Column, len(u.Assignments))
	for i, a := range u.Assignments {
		cols[i] = a.Column
	}
	return cols
}

func appendIfSet[T any](out []Assignment, col Column, f Field[T]) []Assignment {
	if f.IsSet() {
		return append(out, Assignment{Column: col, Value: f.Value})
	}
	return out
}

func errNoFields() error {
	return apperr.New(apperr.NoFieldsToUpdate, "No valid fields to update")
}
