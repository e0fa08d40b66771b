package validation

import (
	"strings"
	"time"

	"github.com/Dan9191/finance-service/internal/apperr"
	"github.com/Dan9191/finance-service/internal/models"
	"github.com/Dan9191/finance-service/internal/request"
)

// Registration is a validated sign-up form
type Registration struct {
	Email    string
	Password string
	Name     string
}

// Credentials is a validated login form
type Credentials struct {
	Email    string
	Password string
}

// NewRegistration validates a sign-up body
func NewRegistration(f request.Fields) (Registration, error) {
	email, _ := f.String("email")
	password, _ := f.String("password")
	name, _ := f.String("name")

	reg := Registration{
		Email:    NormalizeEmail(email),
		Password: password,
		Name:     strings.TrimSpace(name),
	}
	if reg.Email == "" || reg.Password == "" || reg.Name == "" {
		return Registration{}, apperr.New(apperr.MissingField, "Email, password and name are required")
	}
	if len(reg.Password) < MinPasswordLength {
		return Registration{}, apperr.New(apperr.WeakPassword, "Password must be at least 6 characters")
	}
	if len(reg.Password) > MaxPasswordBytes {
		return Registration{}, apperr.New(apperr.WeakPassword, "Password must be at most 72 bytes")
	}
	if !FitsLength(reg.Email, MaxEmailLength) || !FitsLength(reg.Name, MaxNameLength) {
		return Registration{}, apperr.New(apperr.MalformedInput, "Email and name must be at most 255 characters")
	}
	return reg, nil
}

// NewCredentials validates a login body
func NewCredentials(f request.Fields) (Credentials, error) {
	email, _ := f.String("email")
	password, _ := f.String("password")

	c := Credentials{Email: NormalizeEmail(email), Password: password}
	if c.Email == "" || c.Password == "" {
		return Credentials{}, apperr.New(apperr.MissingField, "Email and password are required")
	}
	return c, nil
}

// NewGoal validates a goal creation body. A negative current amount is
// stored as zero.
func NewGoal(f request.Fields, userID int64, today time.Time) (models.Goal, error) {
	title, err := BoundedText(f, "title", MaxTitleLength, "Title is required")
	if err != nil {
		return models.Goal{}, err
	}
	target, err := PositiveAmount(f, "target", "Target amount must be positive")
	if err != nil {
		return models.Goal{}, err
	}
	if s, ok := f.String("deadline"); !ok || strings.TrimSpace(s) == "" {
		return models.Goal{}, apperr.New(apperr.MissingField, "Deadline date is required")
	}
	deadline, err := Date(f, "deadline", "Invalid deadline date format")
	if err != nil {
		return models.Goal{}, err
	}
	if err := FutureDate(deadline, today); err != nil {
		return models.Goal{}, err
	}
	current, err := ClampedAmount(f, "current", "Current amount must be a number")
	if err != nil {
		return models.Goal{}, err
	}

	return models.Goal{
		UserID:        userID,
		Title:         title,
		TargetAmount:  target,
		CurrentAmount: current,
		Deadline:      deadline,
	}, nil
}

// NewTransaction validates a transaction creation body. A missing date
// defaults to today.
func NewTransaction(f request.Fields, userID int64, today time.Time) (models.Transaction, error) {
	typ, err := TransactionType(f, "type")
	if err != nil {
		return models.Transaction{}, err
	}
	amount, err := PositiveAmount(f, "amount", "Amount must be positive")
	if err != nil {
		return models.Transaction{}, err
	}
	category, err := BoundedText(f, "category", MaxCategoryLength, "Category and description are required")
	if err != nil {
		return models.Transaction{}, err
	}
	description, err := Text(f, "description", "Category and description are required")
	if err != nil {
		return models.Transaction{}, err
	}

	date := models.CivilDate(today)
	if s, ok := f.String("date"); ok {
		if strings.TrimSpace(s) != "" {
			date, err = Date(f, "date", "Invalid date format")
			if err != nil {
				return models.Transaction{}, err
			}
		}
	} else if f.Raw("date") != nil {
		return models.Transaction{}, apperr.New(apperr.InvalidDate, "Invalid date format")
	}

	return models.Transaction{
		UserID:      userID,
		Type:        typ,
		Amount:      amount,
		Category:    category,
		Description: description,
		Date:        date,
	}, nil
}
