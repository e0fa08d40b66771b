package service

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Dan9191/finance-service/internal/apperr"
	"github.com/Dan9191/finance-service/internal/models"
	"github.com/Dan9191/finance-service/internal/repository"
)

// Sessions runs fn against a store bound to one database connection
type Sessions interface {
	Session(ctx context.Context, fn func(repository.Store) error) error
}

// Notifier is told about account events
type Notifier interface {
	Welcome(ctx context.Context, user models.User) error
}

// TokenIssuer signs bearer tokens for a user
type TokenIssuer interface {
	Issue(userID int64) (string, error)
}

// DefaultMailTimeout bounds account emails sent inside a request
const DefaultMailTimeout = 5 * time.Second

// Service handles business logic
type Service struct {
	sessions    Sessions
	tokens      TokenIssuer
	notifier    Notifier
	mailTimeout time.Duration
	log         *logrus.Logger
	now         func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithNotifier sends account emails through n
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithMailTimeout overrides DefaultMailTimeout
func WithMailTimeout(d time.Duration) Option {
	return func(s *Service) { s.mailTimeout = d }
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService initializes a new service
func NewService(sessions Sessions, tokens TokenIssuer, log *logrus.Logger, opts ...Option) *Service {
	s := &Service{sessions: sessions, tokens: tokens, log: log, now: time.Now, mailTimeout: DefaultMailTimeout}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) today() time.Time {
	return models.CivilDate(s.now())
}

// run executes fn on one connection. Errors that are not already classified
// surface as persistence failures.
func (s *Service) run(ctx context.Context, fn func(repository.Store) error) error {
	err := s.sessions.Session(ctx, fn)
	if err == nil {
		return nil
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperr.Persistence(err)
}
