// Package memory implements the transaction and account stores in process memory.
//
// The stores are not safe for concurrent use. A run touches each store from
// one goroutine at a time.
package memory

import (
	"context"

	"github.com/iho/txnflow/internal/domain"
)

// TransactionRepository implements usecase.TransactionStore.
type TransactionRepository struct {
	txns map[uint32]*domain.StoredTransaction
}

// NewTransactionRepository creates an empty TransactionRepository.
func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{
		txns: make(map[uint32]*domain.StoredTransaction),
	}
}

// Record stores a deposit or withdrawal. Ids are assumed unique; a repeated
// id replaces the earlier record.
func (r *TransactionRepository) Record(_ context.Context, txn *domain.Transaction) error {
	if !txn.Kind.MovesFunds() {
		return nil
	}

	stored, err := domain.NewStoredTransaction(txn)
	if err != nil {
		return err
	}

	r.txns[txn.ID] = stored
	return nil
}

// Get returns a copy of the stored transaction.
func (r *TransactionRepository) Get(_ context.Context, id uint32) (*domain.StoredTransaction, error) {
	stored, ok := r.txns[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}

	cp := *stored
	return &cp, nil
}

// SetDisputed updates the disputed flag.
func (r *TransactionRepository) SetDisputed(_ context.Context, id uint32, disputed bool) error {
	stored, ok := r.txns[id]
	if !ok {
		return domain.ErrTransactionNotFound
	}

	stored.Disputed = disputed
	return nil
}

// Discard removes a recorded transaction.
func (r *TransactionRepository) Discard(_ context.Context, id uint32) error {
	delete(r.txns, id)
	return nil
}

// Len returns the number of stored transactions.
func (r *TransactionRepository) Len() int {
	return len(r.txns)
}
