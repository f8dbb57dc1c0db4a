package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/damon-houk/ledger-form/internal/domain/entity"
)

// Error kinds reported by a LedgerClient
var (
	// ErrTransport means no response was received
	ErrTransport = errors.New("transport error")
	// ErrServer means the ledger answered with a non-success status
	ErrServer = errors.New("server error")
	// ErrValidation means the ledger rejected the payload
	ErrValidation = errors.New("validation error")
	// ErrNotFound means the referenced transaction no longer exists
	ErrNotFound = errors.New("transaction not found")
)

// LedgerClient defines the interface for the remote transaction collection.
// Each call is a single round trip; callers refresh their own state.
type LedgerClient interface {
	// List returns every transaction in the order the ledger keeps them
	List(ctx context.Context) ([]entity.Transaction, error)

	// Create submits a draft and returns the stored record
	Create(ctx context.Context, draft entity.Draft) (*entity.Transaction, error)

	// Update replaces the record with the given id
	Update(ctx context.Context, id entity.ID, draft entity.Draft) (*entity.Transaction, error)

	// Delete removes the record with the given id
	Delete(ctx context.Context, id entity.ID) error
}

// APIError describes a failed ledger call. It unwraps to one of the error
// kinds above and, for transport failures, to the underlying cause.
type APIError struct {
	Op         string
	StatusCode int
	Message    string
	Kind       error
	Err        error
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Op, e.Kind)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *APIError) Unwrap() []error {
	errs := []error{e.Kind}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}
