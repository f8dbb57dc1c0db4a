package repository

import (
	"context"
	"errors"

	"github.com/damon-houk/ledger-form/internal/domain/entity"
)

// ErrTransactionNotFound is returned when no record matches an id
var ErrTransactionNotFound = errors.New("transaction not found")

// TransactionRepository defines the interface for transaction storage
type TransactionRepository interface {
	// List returns all transactions ordered by id
	List(ctx context.Context) ([]entity.Transaction, error)

	// Store assigns a new ID to the transaction, saves it and returns the ID
	Store(ctx context.Context, transaction *entity.Transaction) (entity.ID, error)

	// FindByID retrieves a transaction by its unique identifier
	FindByID(ctx context.Context, id entity.ID) (*entity.Transaction, error)

	// Update overwrites an existing transaction
	Update(ctx context.Context, transaction *entity.Transaction) error

	// Delete removes a transaction
	Delete(ctx context.Context, id entity.ID) error
}
