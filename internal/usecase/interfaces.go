package usecase

import (
	"context"

	"github.com/iho/txnflow/internal/domain"
)

// TransactionStore keeps accepted deposits and withdrawals for later disputes.
type TransactionStore interface {
	// Record stores deposits and withdrawals and ignores every other kind.
	// It fails with domain.ErrInvalidDepositTransaction or
	// domain.ErrInvalidWithdrawalTransaction when the amount is missing.
	Record(ctx context.Context, txn *domain.Transaction) error
	// Get returns a copy of a stored transaction or domain.ErrTransactionNotFound.
	Get(ctx context.Context, id uint32) (*domain.StoredTransaction, error)
	// SetDisputed flips the disputed flag of a stored transaction.
	SetDisputed(ctx context.Context, id uint32, disputed bool) error
	// Discard forgets a recorded transaction the account rejected, so it
	// cannot be disputed later. Unknown ids are ignored.
	Discard(ctx context.Context, id uint32) error
}

// AccountStore keeps one account per client.
type AccountStore interface {
	// GetOrCreate returns the client's account, creating an empty one on first use.
	GetOrCreate(ctx context.Context, client uint16) (*domain.Account, error)
	// Save persists an account returned by GetOrCreate after it was mutated.
	Save(ctx context.Context, client uint16, account *domain.Account) error
	// List returns a snapshot of every account, in no particular order.
	List(ctx context.Context) ([]domain.AccountSnapshot, error)
}

// TransactionSource yields input records in arrival order.
// Next returns io.EOF once the input is exhausted.
type TransactionSource interface {
	Next() (*domain.Transaction, error)
}

// SnapshotSink writes the final account states.
type SnapshotSink interface {
	Write(snapshots []domain.AccountSnapshot) error
}

// Retrier retries an operation on transient store failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}
