package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/Dan9191/finance-service/internal/apperr"
	"github.com/Dan9191/finance-service/internal/models"
	"github.com/Dan9191/finance-service/internal/repository"
	"github.com/Dan9191/finance-service/internal/validation"
)

// AuthResult is the signed-in user with a bearer token
type AuthResult struct {
	User  models.User
	Token string
}

func errEmailTaken() error {
	return apperr.New(apperr.Conflict, "User with this email already exists")
}

func errBadCredentials() error {
	return apperr.New(apperr.InvalidCredentials, "Invalid email or password")
}

// Register creates a new user with hashed password. The welcome email is
// sent before returning and is bounded by the service's mail timeout.
func (s *Service) Register(ctx context.Context, reg validation.Registration) (*AuthResult, error) {
	user := models.User{Email: reg.Email, Name: reg.Name}

	err := s.run(ctx, func(store repository.Store) error {
		taken, err := store.EmailExists(ctx, user.Email)
		if err != nil {
			return err
		}
		if taken {
			return errEmailTaken()
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return apperr.Wrap(apperr.WeakPassword, "Password must be at most 72 bytes", err)
		}
		if err != nil {
			return apperr.Wrap(apperr.Internal, "failed to hash password", err)
		}
		user.PasswordHash = string(hashed)

		// a concurrent registration can still win between the check and the insert
		if err := store.CreateUser(ctx, &user); errors.Is(err, repository.ErrDuplicate) {
			return errEmailTaken()
		} else if err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to generate token", err)
	}

	s.log.WithField("user_id", user.ID).Infof("User registered: %s", user.Email)
	if s.notifier != nil {
		mailCtx, cancel := context.WithTimeout(ctx, s.mailTimeout)
		defer cancel()
		if err := s.notifier.Welcome(mailCtx, user); err != nil {
			s.log.WithError(err).WithField("user_id", user.ID).Warn("Welcome email not sent")
		}
	}
	return &AuthResult{User: user, Token: token}, nil
}

// Login authenticates a user and returns a JWT token
func (s *Service) Login(ctx context.Context, creds validation.Credentials) (*AuthResult, error) {
	var user *models.User
	err := s.run(ctx, func(store repository.Store) error {
		var err error
		user, err = store.FindUserByEmail(ctx, creds.Email)
		if errors.Is(err, repository.ErrNotFound) {
			return errBadCredentials()
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		return nil, errBadCredentials()
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to generate token", err)
	}

	s.log.WithField("user_id", user.ID).Infof("User logged in: %s", user.Email)
	return &AuthResult{User: *user, Token: token}, nil
}
