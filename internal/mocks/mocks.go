// internal/mocks/mocks.go
package mocks

import (
	"context"

	"github.com/damon-houk/ledger-form/internal/domain/entity"
	"github.com/stretchr/testify/mock"
)

// MockLedgerClient mocks the LedgerClient interface
type MockLedgerClient struct {
	mock.Mock
}

func (m *MockLedgerClient) List(ctx context.Context) ([]entity.Transaction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Transaction), args.Error(1)
}

func (m *MockLedgerClient) Create(ctx context.Context, draft entity.Draft) (*entity.Transaction, error) {
	args := m.Called(ctx, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Transaction), args.Error(1)
}

func (m *MockLedgerClient) Update(ctx context.Context, id entity.ID, draft entity.Draft) (*entity.Transaction, error) {
	args := m.Called(ctx, id, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Transaction), args.Error(1)
}

func (m *MockLedgerClient) Delete(ctx context.Context, id entity.ID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockTransactionRepository mocks the TransactionRepository interface
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) List(ctx context.Context) ([]entity.Transaction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) Store(ctx context.Context, tx *entity.Transaction) (entity.ID, error) {
	args := m.Called(ctx, tx)
	return args.Get(0).(entity.ID), args.Error(1)
}

func (m *MockTransactionRepository) FindByID(ctx context.Context, id entity.ID) (*entity.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) Update(ctx context.Context, tx *entity.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) Delete(ctx context.Context, id entity.ID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
