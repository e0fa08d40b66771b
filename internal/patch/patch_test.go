package patch

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dan9191/finance-service/internal/apperr"
	"github.com/Dan9191/finance-service/internal/models"
	"github.com/Dan9191/finance-service/internal/request"
)

var (
	today = time.Date(2025, 5, 10, 9, 0, 0, 0, time.UTC)
	now   = time.Date(2025, 5, 10, 9, 30, 0, 0, time.UTC)
)

func fields(t *testing.T, body string) request.Fields {
	t.Helper()
	var f request.Fields
	require.NoError(t, json.Unmarshal([]byte(body), &f))
	return f
}

func TestGoalPatch_FieldStates(t *testing.T) {
	p, err := ParseGoal(fields(t, `{
		"title": "  New title ",
		"target": -5,
		"current": "12.5",
		"is_completed": "yes"
	}`), today)
	require.NoError(t, err)

	assert.Equal(t, Valid, p.Title.State)
	assert.Equal(t, "New title", p.Title.Value)
	assert.Equal(t, Ignored, p.Target.State)
	assert.Equal(t, Valid, p.Current.State)
	assert.True(t, p.Current.Value.Equal(decimal.RequireFromString("12.5")))
	assert.Equal(t, Absent, p.Deadline.State)
	assert.Equal(t, Ignored, p.IsCompleted.State)
}

func TestGoalPatch_Build(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCols []Column
		wantKind apperr.Kind
	}{
		{
			name:     "empty body",
			body:     `{}`,
			wantKind: apperr.NoFieldsToUpdate,
		},
		{
			name:     "only invalid target behaves like no fields",
			body:     `{"target": -5}`,
			wantKind: apperr.NoFieldsToUpdate,
		},
		{
			name:     "invalid target skipped, rest applied",
			body:     `{"target": -5, "title": "Bike"}`,
			wantCols: []Column{ColTitle, ColUpdatedAt},
		},
		{
			name:     "is_completed alone still stamps updated_at",
			body:     `{"is_completed": true}`,
			wantCols: []Column{ColIsCompleted, ColUpdatedAt},
		},
		{
			name:     "zero current is valid",
			body:     `{"current": 0}`,
			wantCols: []Column{ColCurrentAmount, ColUpdatedAt},
		},
		{
			name:     "negative current is skipped",
			body:     `{"current": -1}`,
			wantKind: apperr.NoFieldsToUpdate,
		},
		{
			name:     "past deadline is skipped",
			body:     `{"deadline": "2025-05-10"}`,
			wantKind: apperr.NoFieldsToUpdate,
		},
		{
			name:     "date with bare Z suffix is malformed",
			body:     `{"title": "t", "target": 10, "current": 1, "deadline": "2026-01-01Z", "is_completed": false}`,
			wantKind: apperr.InvalidDate,
		},
		{
			name:     "all valid fields",
			body:     `{"title": "t", "target": 10, "current": 1, "deadline": "2026-01-01T00:00:00Z", "is_completed": false}`,
			wantCols: []Column{ColTitle, ColTargetAmount, ColCurrentAmount, ColDeadline, ColIsCompleted, ColUpdatedAt},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParseGoal(fields(t, tt.body), today)
			if err == nil {
				var u Update
				u, err = p.Build(4, 9, now)
				if err == nil {
					assert.Equal(t, int64(4), u.ID)
					assert.Equal(t, int64(9), u.UserID)
					assert.Equal(t, tt.wantCols, u.Columns())
					stamp, ok := u.Value(ColUpdatedAt)
					assert.True(t, ok)
					assert.Equal(t, now, stamp)
				}
			}
			if tt.wantKind != apperr.Internal {
				assert.Equal(t, tt.wantKind, apperr.KindOf(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGoalPatch_UnstorableValuesAreIgnored(t *testing.T) {
	p, err := ParseGoal(fields(t, `{
		"title": "`+strings.Repeat("t", 256)+`",
		"target": 1e13,
		"current": 0.001
	}`), today)
	require.NoError(t, err)

	assert.Equal(t, Ignored, p.Title.State)
	assert.Equal(t, Ignored, p.Target.State)
	assert.Equal(t, Ignored, p.Current.State)
	_, err = p.Build(1, 2, now)
	assert.Equal(t, apperr.NoFieldsToUpdate, apperr.KindOf(err))
}

func TestGoalPatch_MalformedDeadlineIsAnError(t *testing.T) {
	_, err := ParseGoal(fields(t, `{"title": "x", "deadline": "next week"}`), today)
	assert.Equal(t, apperr.InvalidDate, apperr.KindOf(err))
}

func TestTransactionPatch_Build(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCols []Column
		wantKind apperr.Kind
	}{
		{name: "empty", body: `{}`, wantKind: apperr.NoFieldsToUpdate},
		{name: "only invalid fields", body: `{"type": "gift", "amount": 0, "category": "  ", "description": 3}`, wantKind: apperr.NoFieldsToUpdate},
		{name: "amount only", body: `{"amount": "19.99"}`, wantCols: []Column{ColAmount}},
		{name: "unstorable amount is ignored", body: `{"amount": 10.005, "description": "Tea"}`, wantCols: []Column{ColDescription}},
		{name: "overlong category is ignored", body: `{"category": "` + strings.Repeat("c", 101) + `"}`, wantKind: apperr.NoFieldsToUpdate},
		{name: "type and date", body: `{"type": "income", "date": "2025-01-31"}`, wantCols: []Column{ColType, ColTransactionDate}},
		{name: "malformed date", body: `{"amount": 5, "date": "31/01/2025"}`, wantKind: apperr.InvalidDate},
		{name: "null date is ignored", body: `{"amount": 5, "date": null}`, wantCols: []Column{ColAmount}},
		{
			name:     "all fields",
			body:     `{"type": "expense", "amount": 3, "category": "Food", "description": "Tea", "date": "2025-02-01"}`,
			wantCols: []Column{ColType, ColAmount, ColCategory, ColDescription, ColTransactionDate},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParseTransaction(fields(t, tt.body))
			if err == nil {
				var u Update
				u, err = p.Build(1, 2)
				if err == nil {
					assert.Equal(t, tt.wantCols, u.Columns())
					_, stamped := u.Value(ColUpdatedAt)
					assert.False(t, stamped)
				}
			}
			if tt.wantKind != apperr.Internal {
				assert.Equal(t, tt.wantKind, apperr.KindOf(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTransactionPatch_Values(t *testing.T) {
	p, err := ParseTransaction(fields(t, `{"type": "income", "category": " Salary "}`))
	require.NoError(t, err)
	u, err := p.Build(1, 2)
	require.NoError(t, err)

	typ, _ := u.Value(ColType)
	assert.Equal(t, models.TypeIncome, typ)
	cat, _ := u.Value(ColCategory)
	assert.Equal(t, "Salary", cat)
}
