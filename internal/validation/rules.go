// Package validation holds the field-level rules applied to inbound request
// bodies. Every rule is pure: it looks only at its input and returns either a
// normalized value or a classified error.
package validation

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/Dan9191/finance-service/internal/apperr"
	"github.com/Dan9191/finance-service/internal/models"
	"github.com/Dan9191/finance-service/internal/request"
)

const (
	// MinPasswordLength is the shortest accepted password
	MinPasswordLength = 6
	// MaxPasswordBytes is the longest password bcrypt can hash
	MaxPasswordBytes = 72

	// Column widths of the text fields
	MaxTitleLength    = 255
	MaxCategoryLength = 100
	MaxNameLength     = 255
	MaxEmailLength    = 255

	// AmountPlaces is the number of fractional digits an amount may carry
	AmountPlaces = 2
)

// MaxAmount is the largest amount a NUMERIC(15,2) column holds
var MaxAmount = decimal.New(1, 13).Sub(decimal.New(1, -AmountPlaces))

const amountRangeMessage = "Amount must have at most 2 decimal places and be below 10000000000000"

var dateLayouts = []string{
	models.DateLayout,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02 15:04:05Z07:00",
}

// Text returns the trimmed string value of key. Absent, non-string and blank
// values fail with MissingField.
func Text(f request.Fields, key, message string) (string, error) {
	s, ok := f.String(key)
	s = strings.TrimSpace(s)
	if !ok || s == "" {
		return "", apperr.New(apperr.MissingField, message)
	}
	return s, nil
}

// FitsLength reports whether s is at most limit characters long
func FitsLength(s string, limit int) bool {
	return utf8.RuneCountInString(s) <= limit
}

// BoundedText is Text with a maximum length in characters. Longer values
// fail with MalformedInput.
func BoundedText(f request.Fields, key string, limit int, message string) (string, error) {
	s, err := Text(f, key, message)
	if err != nil {
		return "", err
	}
	if !FitsLength(s, limit) {
		return "", apperr.New(apperr.MalformedInput, fmt.Sprintf("Field %s must be at most %d characters", key, limit))
	}
	return s, nil
}

// StorableAmount reports whether d fits the money columns without rounding
func StorableAmount(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(AmountPlaces)) && d.Abs().LessThanOrEqual(MaxAmount)
}

// ParseAmount parses a decimal given either as a JSON number or a numeric string
func ParseAmount(f request.Fields, key string) (decimal.Decimal, bool, error) {
	text, ok := f.Text(key)
	if !ok {
		return decimal.Zero, false, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil {
		return decimal.Zero, true, err
	}
	return d, true, nil
}

// PositiveAmount requires key to hold an amount greater than zero
func PositiveAmount(f request.Fields, key, message string) (decimal.Decimal, error) {
	d, ok, err := ParseAmount(f, key)
	if !ok || err != nil || !d.IsPositive() {
		return decimal.Zero, apperr.New(apperr.InvalidAmount, message)
	}
	if !StorableAmount(d) {
		return decimal.Zero, apperr.New(apperr.InvalidAmount, amountRangeMessage)
	}
	return d, nil
}

// ClampedAmount returns the amount at key, replacing absent and negative
// values with zero. Unparseable values fail with InvalidAmount.
func ClampedAmount(f request.Fields, key, message string) (decimal.Decimal, error) {
	d, ok, err := ParseAmount(f, key)
	if !ok {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, apperr.New(apperr.InvalidAmount, message)
	}
	if d.IsNegative() {
		return decimal.Zero, nil
	}
	if !StorableAmount(d) {
		return decimal.Zero, apperr.New(apperr.InvalidAmount, amountRangeMessage)
	}
	return d, nil
}

// ParseDate parses an ISO-8601 date or date-time, including a trailing Z, and
// returns the calendar date it falls on.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return models.CivilDate(t), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// Date parses the date at key
func Date(f request.Fields, key, message string) (time.Time, error) {
	s, ok := f.String(key)
	if !ok {
		return time.Time{}, apperr.New(apperr.InvalidDate, message)
	}
	d, err := ParseDate(s)
	if err != nil {
		return time.Time{}, apperr.Wrap(apperr.InvalidDate, message, err)
	}
	return d, nil
}

// FutureDate requires d to fall strictly after today
func FutureDate(d, today time.Time) error {
	if !models.CivilDate(d).After(models.CivilDate(today)) {
		return apperr.New(apperr.DeadlinePast, "Deadline must be in the future")
	}
	return nil
}

// TransactionType requires key to be "income" or "expense"
func TransactionType(f request.Fields, key string) (models.TransactionType, error) {
	s, _ := f.String(key)
	t := models.TransactionType(s)
	if !t.Valid() {
		return "", apperr.New(apperr.InvalidEnum, `Type must be "income" or "expense"`)
	}
	return t, nil
}

// NormalizeEmail trims and lowercases an email address
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
