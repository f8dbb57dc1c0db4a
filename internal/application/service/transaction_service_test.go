package service

import (
	"context"
	"errors"
	"testing"

	"github.com/damon-houk/ledger-form/internal/domain/entity"
	"github.com/damon-houk/ledger-form/internal/domain/repository"
	"github.com/damon-houk/ledger-form/internal/infrastructure/logger"
	"github.com/damon-houk/ledger-form/internal/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func groceries() entity.Transaction {
	return entity.Transaction{
		Amount:   decimal.RequireFromString("100.50"),
		Category: "Groceries",
		Date:     "2024-01-15",
	}
}

func TestCreateTransaction(t *testing.T) {
	repo := new(mocks.MockTransactionRepository)
	service := NewTransactionService(repo, logger.Nop())
	ctx := context.Background()

	t.Run("Valid transaction", func(t *testing.T) {
		// Setup
		input := groceries()
		input.ID = "client-supplied"

		// Mock expectations
		repo.On("Store", ctx, mock.MatchedBy(func(tx *entity.Transaction) bool {
			return tx.ID == "" && tx.Category == "Groceries" && tx.Amount.Equal(input.Amount)
		})).Return(entity.ID("1"), nil).Once()

		// Execute
		tx, err := service.CreateTransaction(ctx, input)

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, entity.ID("1"), tx.ID)
		assert.Equal(t, "2024-01-15", tx.Date)
		repo.AssertExpectations(t)
	})

	t.Run("Empty category", func(t *testing.T) {
		input := groceries()
		input.Category = ""

		tx, err := service.CreateTransaction(ctx, input)

		assert.Nil(t, tx)
		assert.True(t, errors.Is(err, entity.ErrInvalidTransaction))
		assert.Contains(t, err.Error(), "category must not be empty")
	})

	t.Run("Invalid date", func(t *testing.T) {
		input := groceries()
		input.Date = "yesterday"

		_, err := service.CreateTransaction(ctx, input)

		assert.True(t, errors.Is(err, entity.ErrInvalidTransaction))
	})

	t.Run("Repository error", func(t *testing.T) {
		repo.On("Store", ctx, mock.Anything).Return(entity.ID(""), errors.New("repository error")).Once()

		tx, err := service.CreateTransaction(ctx, groceries())

		assert.Nil(t, tx)
		assert.Error(t, err)
		assert.Equal(t, "failed to store transaction: repository error", err.Error())
		repo.AssertExpectations(t)
	})
}

func TestUpdateTransaction(t *testing.T) {
	repo := new(mocks.MockTransactionRepository)
	service := NewTransactionService(repo, logger.Nop())
	ctx := context.Background()

	t.Run("Overwrites record", func(t *testing.T) {
		repo.On("Update", ctx, mock.MatchedBy(func(tx *entity.Transaction) bool {
			return tx.ID == "3" && tx.Category == "Groceries"
		})).Return(nil).Once()

		tx, err := service.UpdateTransaction(ctx, "3", groceries())

		assert.NoError(t, err)
		assert.Equal(t, entity.ID("3"), tx.ID)
		repo.AssertExpectations(t)
	})

	t.Run("Not found", func(t *testing.T) {
		repo.On("Update", ctx, mock.Anything).Return(repository.ErrTransactionNotFound).Once()

		_, err := service.UpdateTransaction(ctx, "404", groceries())

		assert.True(t, errors.Is(err, repository.ErrTransactionNotFound))
		repo.AssertExpectations(t)
	})

	t.Run("Invalid input never reaches the repository", func(t *testing.T) {
		input := groceries()
		input.Date = ""

		_, err := service.UpdateTransaction(ctx, "3", input)

		assert.True(t, errors.Is(err, entity.ErrInvalidTransaction))
		repo.AssertNumberOfCalls(t, "Update", 2)
	})
}

func TestListAndDeleteTransaction(t *testing.T) {
	repo := new(mocks.MockTransactionRepository)
	service := NewTransactionService(repo, logger.Nop())
	ctx := context.Background()

	stored := groceries()
	stored.ID = "1"

	repo.On("List", ctx).Return([]entity.Transaction{stored}, nil).Once()
	repo.On("Delete", ctx, entity.ID("1")).Return(nil).Once()
	repo.On("Delete", ctx, entity.ID("1")).Return(repository.ErrTransactionNotFound).Once()

	txs, err := service.ListTransactions(ctx)
	assert.NoError(t, err)
	assert.Len(t, txs, 1)

	assert.NoError(t, service.DeleteTransaction(ctx, "1"))

	err = service.DeleteTransaction(ctx, "1")
	assert.True(t, errors.Is(err, repository.ErrTransactionNotFound))

	repo.AssertExpectations(t)
}
