package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{MissingField, http.StatusBadRequest},
		{InvalidAmount, http.StatusBadRequest},
		{InvalidDate, http.StatusBadRequest},
		{DeadlinePast, http.StatusBadRequest},
		{InvalidEnum, http.StatusBadRequest},
		{InvalidUserID, http.StatusBadRequest},
		{NoFieldsToUpdate, http.StatusBadRequest},
		{MalformedInput, http.StatusBadRequest},
		{Unauthenticated, http.StatusUnauthorized},
		{InvalidCredentials, http.StatusUnauthorized},
		{NotFound, http.StatusNotFound},
		{Conflict, http.StatusConflict},
		{UnsupportedMethod, http.StatusMethodNotAllowed},
		{PersistenceFailure, http.StatusInternalServerError},
		{Internal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, Status(tt.kind))
		})
	}
}

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", New(NotFound, "Goal not found"))
	assert.Equal(t, NotFound, KindOf(wrapped))
	assert.True(t, Is(wrapped, NotFound))
	assert.Equal(t, Internal, KindOf(errors.New("boom")))
}

func TestPublicMessage_HidesCause(t *testing.T) {
	err := Persistence(errors.New(`pq: relation "goals" does not exist`))
	assert.Equal(t, "Database error", PublicMessage(err))
	assert.Contains(t, err.Error(), "relation")

	assert.Equal(t, "Internal server error", PublicMessage(errors.New("nil pointer")))
	assert.Equal(t, "Title is required", PublicMessage(New(MissingField, "Title is required")))
}
