package service

import (
	"context"
	"fmt"

	"github.com/damon-houk/ledger-form/internal/domain/entity"
	"github.com/damon-houk/ledger-form/internal/domain/repository"
	"github.com/damon-houk/ledger-form/internal/infrastructure/logger"
)

// TransactionService handles business logic for transactions
type TransactionService struct {
	repo   repository.TransactionRepository
	logger logger.Logger
}

// NewTransactionService creates a new transaction service
func NewTransactionService(repo repository.TransactionRepository, log logger.Logger) *TransactionService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &TransactionService{repo: repo, logger: log}
}

// ListTransactions returns every stored transaction
func (s *TransactionService) ListTransactions(ctx context.Context) ([]entity.Transaction, error) {
	txs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, nil
}

// CreateTransaction validates and stores a new transaction. Any ID on the
// input is ignored; the repository assigns one.
func (s *TransactionService) CreateTransaction(ctx context.Context, input entity.Transaction) (*entity.Transaction, error) {
	tx := input
	tx.ID = ""

	if err := tx.Validate(); err != nil {
		return nil, err
	}

	id, err := s.repo.Store(ctx, &tx)
	if err != nil {
		return nil, fmt.Errorf("failed to store transaction: %w", err)
	}
	tx.ID = id

	s.logger.Debug("Transaction stored", map[string]interface{}{
		"id":       id.String(),
		"category": tx.Category,
	})

	return &tx, nil
}

// GetTransaction retrieves a transaction by ID
func (s *TransactionService) GetTransaction(ctx context.Context, id entity.ID) (*entity.Transaction, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateTransaction validates the input and overwrites the transaction with the given ID
func (s *TransactionService) UpdateTransaction(ctx context.Context, id entity.ID, input entity.Transaction) (*entity.Transaction, error) {
	tx := input
	tx.ID = id

	if err := tx.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, &tx); err != nil {
		return nil, fmt.Errorf("failed to update transaction %s: %w", id, err)
	}

	return &tx, nil
}

// DeleteTransaction removes the transaction with the given ID
func (s *TransactionService) DeleteTransaction(ctx context.Context, id entity.ID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete transaction %s: %w", id, err)
	}
	return nil
}
