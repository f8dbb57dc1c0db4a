package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/damon-houk/ledger-form/internal/domain/entity"
	"github.com/damon-houk/ledger-form/internal/domain/repository"
	"github.com/dgraph-io/badger/v3"
)

const (
	txKeyPrefix = "tx:"
	sequenceKey = "seq:tx"

	// sequenceBandwidth is how many ids are leased from badger at a time
	sequenceBandwidth = 100
)

// BadgerTransactionRepository implements the transaction repository interface using BadgerDB
type BadgerTransactionRepository struct {
	db  *badger.DB
	seq *badger.Sequence
}

var _ repository.TransactionRepository = (*BadgerTransactionRepository)(nil)

// NewBadgerTransactionRepository creates a new BadgerDB transaction repository
func NewBadgerTransactionRepository(db *badger.DB) (*BadgerTransactionRepository, error) {
	seq, err := db.GetSequence([]byte(sequenceKey), sequenceBandwidth)
	if err != nil {
		return nil, fmt.Errorf("failed to open id sequence: %w", err)
	}
	return &BadgerTransactionRepository{db: db, seq: seq}, nil
}

// Close returns unused leased ids to the database. The DB itself is owned by the caller.
func (r *BadgerTransactionRepository) Close() error {
	return r.seq.Release()
}

// txKey zero-pads ids so that key order matches id order. Only canonical
// integers are ever stored, so any other id, "01" included, has no key.
func txKey(id entity.ID) ([]byte, bool) {
	n, ok := id.Uint()
	if !ok {
		return nil, false
	}
	return []byte(fmt.Sprintf("%s%020d", txKeyPrefix, n)), true
}

func notFound(id entity.ID) error {
	return fmt.Errorf("%w: %s", repository.ErrTransactionNotFound, id)
}

// List returns all transactions in id order
func (r *BadgerTransactionRepository) List(ctx context.Context) ([]entity.Transaction, error) {
	txs := []entity.Transaction{}

	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(txKeyPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var tx entity.Transaction
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &tx)
			})
			if err != nil {
				return fmt.Errorf("failed to decode transaction %s: %w", it.Item().Key(), err)
			}
			txs = append(txs, tx)
		}
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	return txs, nil
}

// Store assigns the next sequence number as the transaction's ID and saves it
func (r *BadgerTransactionRepository) Store(ctx context.Context, tx *entity.Transaction) (entity.ID, error) {
	n, err := r.seq.Next()
	if err != nil {
		return "", fmt.Errorf("failed to allocate transaction id: %w", err)
	}
	// badger sequences start at zero
	tx.ID = entity.ID(strconv.FormatUint(n+1, 10))

	if err := r.put(tx); err != nil {
		return "", fmt.Errorf("failed to store transaction: %w", err)
	}

	return tx.ID, nil
}

// FindByID retrieves a transaction by its unique identifier
func (r *BadgerTransactionRepository) FindByID(ctx context.Context, id entity.ID) (*entity.Transaction, error) {
	key, ok := txKey(id)
	if !ok {
		return nil, notFound(id)
	}

	var tx entity.Transaction

	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &tx)
		})
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, notFound(id)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to retrieve transaction: %w", err)
	}

	return &tx, nil
}

// Update overwrites an existing transaction
func (r *BadgerTransactionRepository) Update(ctx context.Context, tx *entity.Transaction) error {
	key, ok := txKey(tx.ID)
	if !ok {
		return notFound(tx.ID)
	}

	data, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction: %w", err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err != nil {
			return err
		}
		return txn.Set(key, data)
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return notFound(tx.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	return nil
}

// Delete removes a transaction
func (r *BadgerTransactionRepository) Delete(ctx context.Context, id entity.ID) error {
	key, ok := txKey(id)
	if !ok {
		return notFound(id)
	}

	err := r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err != nil {
			return err
		}
		return txn.Delete(key)
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return notFound(id)
	}
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return nil
}

func (r *BadgerTransactionRepository) put(tx *entity.Transaction) error {
	// Serialize transaction to JSON
	data, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction: %w", err)
	}

	key, ok := txKey(tx.ID)
	if !ok {
		return fmt.Errorf("non-canonical id %q", tx.ID)
	}

	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}
