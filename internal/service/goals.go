package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/Dan9191/finance-service/internal/apperr"
	"github.com/Dan9191/finance-service/internal/models"
	"github.com/Dan9191/finance-service/internal/patch"
	"github.com/Dan9191/finance-service/internal/repository"
	"github.com/Dan9191/finance-service/internal/request"
	"github.com/Dan9191/finance-service/internal/validation"
)

func errGoalNotFound() error {
	return apperr.New(apperr.NotFound, "Goal not found")
}

// ListGoals returns the user's goals with the given status, newest first
func (s *Service) ListGoals(ctx context.Context, userID int64, status models.GoalStatus) ([]models.Goal, error) {
	var goals []models.Goal
	err := s.run(ctx, func(store repository.Store) error {
		var err error
		goals, err = store.ListGoals(ctx, userID, status)
		return err
	})
	if err != nil {
		return nil, err
	}
	return goals, nil
}

// GetGoal returns one goal owned by the user
func (s *Service) GetGoal(ctx context.Context, userID, id int64) (*models.Goal, error) {
	var goal *models.Goal
	err := s.run(ctx, func(store repository.Store) error {
		var err error
		goal, err = store.GetGoal(ctx, userID, id)
		if errors.Is(err, repository.ErrNotFound) {
			return errGoalNotFound()
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return goal, nil
}

// CreateGoal validates and stores a new goal
func (s *Service) CreateGoal(ctx context.Context, userID int64, f request.Fields) (*models.Goal, error) {
	goal, err := validation.NewGoal(f, userID, s.today())
	if err != nil {
		return nil, err
	}

	err = s.run(ctx, func(store repository.Store) error {
		return store.CreateGoal(ctx, &goal)
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"user_id": userID, "goal_id": goal.ID}).Info("Goal created")
	return &goal, nil
}

// UpdateGoal applies a partial update to an owned goal. Ownership is
// checked before the body is looked at.
func (s *Service) UpdateGoal(ctx context.Context, userID, id int64, f request.Fields) (*models.Goal, error) {
	var goal *models.Goal
	err := s.run(ctx, func(store repository.Store) error {
		owned, err := store.GoalExists(ctx, userID, id)
		if err != nil {
			return err
		}
		if !owned {
			return errGoalNotFound()
		}

		p, err := patch.ParseGoal(f, s.today())
		if err != nil {
			return err
		}
		u, err := p.Build(id, userID, s.now().UTC())
		if err != nil {
			return err
		}

		goal, err = store.UpdateGoal(ctx, u)
		if errors.Is(err, repository.ErrNotFound) {
			return errGoalNotFound()
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"user_id": userID, "goal_id": id}).Info("Goal updated")
	return goal, nil
}

// DeleteGoal removes an owned goal
func (s *Service) DeleteGoal(ctx context.Context, userID, id int64) error {
	err := s.run(ctx, func(store repository.Store) error {
		deleted, err := store.DeleteGoal(ctx, userID, id)
		if err != nil {
			return err
		}
		if !deleted {
			return errGoalNotFound()
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{"user_id": userID, "goal_id": id}).Info("Goal deleted")
	return nil
}
