package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/Dan9191/finance-service/internal/analytics"
	"github.com/Dan9191/finance-service/internal/apperr"
	"github.com/Dan9191/finance-service/internal/export"
	"github.com/Dan9191/finance-service/internal/models"
	"github.com/Dan9191/finance-service/internal/patch"
	"github.com/Dan9191/finance-service/internal/repository"
	"github.com/Dan9191/finance-service/internal/request"
	"github.com/Dan9191/finance-service/internal/validation"
)

func errTransactionNotFound() error {
	return apperr.New(apperr.NotFound, "Transaction not found")
}

// ListTransactions returns the user's transactions matching filter
func (s *Service) ListTransactions(ctx context.Context, userID int64, filter models.TransactionFilter) ([]models.Transaction, error) {
	var txns []models.Transaction
	err := s.run(ctx, func(store repository.Store) error {
		var err error
		txns, err = store.ListTransactions(ctx, userID, filter)
		return err
	})
	if err != nil {
		return nil, err
	}
	return txns, nil
}

// CreateTransaction validates and stores a new transaction
func (s *Service) CreateTransaction(ctx context.Context, userID int64, f request.Fields) (*models.Transaction, error) {
	txn, err := validation.NewTransaction(f, userID, s.today())
	if err != nil {
		return nil, err
	}

	err = s.run(ctx, func(store repository.Store) error {
		return store.CreateTransaction(ctx, &txn)
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"user_id": userID, "transaction_id": txn.ID}).
		Infof("Transaction created: %s %s", txn.Type, txn.Amount)
	return &txn, nil
}

// UpdateTransaction applies a partial update to an owned transaction
func (s *Service) UpdateTransaction(ctx context.Context, userID, id int64, f request.Fields) (*models.Transaction, error) {
	var txn *models.Transaction
	err := s.run(ctx, func(store repository.Store) error {
		owned, err := store.TransactionExists(ctx, userID, id)
		if err != nil {
			return err
		}
		if !owned {
			return errTransactionNotFound()
		}

		p, err := patch.ParseTransaction(f)
		if err != nil {
			return err
		}
		u, err := p.Build(id, userID)
		if err != nil {
			return err
		}

		txn, err = store.UpdateTransaction(ctx, u)
		if errors.Is(err, repository.ErrNotFound) {
			return errTransactionNotFound()
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"user_id": userID, "transaction_id": id}).Info("Transaction updated")
	return txn, nil
}

// DeleteTransaction removes an owned transaction
func (s *Service) DeleteTransaction(ctx context.Context, userID, id int64) error {
	err := s.run(ctx, func(store repository.Store) error {
		deleted, err := store.DeleteTransaction(ctx, userID, id)
		if err != nil {
			return err
		}
		if !deleted {
			return errTransactionNotFound()
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{"user_id": userID, "transaction_id": id}).Info("Transaction deleted")
	return nil
}

// Statistics computes totals and the trailing monthly breakdown
func (s *Service) Statistics(ctx context.Context, userID int64) (models.Statistics, error) {
	from, to := analytics.Window(s.now(), analytics.TrailingMonths)

	var (
		totals  []models.TypeTotal
		monthly []models.MonthTypeTotal
	)
	err := s.run(ctx, func(store repository.Store) error {
		var err error
		if totals, err = store.TypeTotals(ctx, userID); err != nil {
			return err
		}
		monthly, err = store.MonthlyTotals(ctx, userID, from, to)
		return err
	})
	if err != nil {
		return models.Statistics{}, err
	}
	return analytics.Statistics(totals, monthly), nil
}

// CategorySummary groups the user's transactions by type and category
func (s *Service) CategorySummary(ctx context.Context, userID int64) (models.CategorySummary, error) {
	var rows []models.CategoryTotal
	err := s.run(ctx, func(store repository.Store) error {
		var err error
		rows, err = store.CategoryTotals(ctx, userID)
		return err
	})
	if err != nil {
		return models.CategorySummary{}, err
	}
	return analytics.CategorySummary(rows), nil
}

// ExportTransactions renders every matching transaction as XML
func (s *Service) ExportTransactions(ctx context.Context, userID int64, filter models.TransactionFilter) ([]byte, error) {
	filter.Limit = nil
	filter.Offset = 0

	txns, err := s.ListTransactions(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	out, err := export.TransactionsXML(txns, userID, s.now())
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to export transactions", err)
	}

	s.log.WithField("user_id", userID).Infof("Exported %d transactions", len(txns))
	return out, nil
}
