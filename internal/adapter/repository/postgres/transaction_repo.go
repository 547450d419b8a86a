package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/txnflow/internal/domain"
	"github.com/iho/txnflow/internal/infrastructure/postgres/generated"
	"github.com/iho/txnflow/internal/usecase"
)

// TransactionRepository implements usecase.TransactionStore.
type TransactionRepository struct {
	queries *generated.Queries
	runID   string
	retrier usecase.Retrier
}

// NewTransactionRepository creates a TransactionRepository scoped to one run.
func NewTransactionRepository(pool *pgxpool.Pool, runID string, retrier usecase.Retrier) *TransactionRepository {
	return newTransactionRepository(generated.New(pool), runID, retrier)
}

func newTransactionRepository(q *generated.Queries, runID string, retrier usecase.Retrier) *TransactionRepository {
	return &TransactionRepository{
		queries: q,
		runID:   runID,
		retrier: retrier,
	}
}

// Record stores a deposit or withdrawal. A repeated id replaces the earlier row.
func (r *TransactionRepository) Record(ctx context.Context, txn *domain.Transaction) error {
	if !txn.Kind.MovesFunds() {
		return nil
	}

	stored, err := domain.NewStoredTransaction(txn)
	if err != nil {
		return err
	}

	return retry(ctx, r.retrier, func() error {
		return r.queries.UpsertStoredTransaction(ctx, generated.UpsertStoredTransactionParams{
			RunID:  r.runID,
			ID:     int64(stored.ID),
			Client: int32(stored.Client),
			Kind:   string(stored.Kind),
			Amount: decimalToNumeric(stored.Amount),
		})
	})
}

// Get returns the stored transaction.
func (r *TransactionRepository) Get(ctx context.Context, id uint32) (*domain.StoredTransaction, error) {
	var row generated.StoredTransaction

	err := retry(ctx, r.retrier, func() error {
		var err error
		row, err = r.queries.GetStoredTransaction(ctx, generated.GetStoredTransactionParams{
			RunID: r.runID,
			ID:    int64(id),
		})
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}

		return nil, err
	}

	return rowToStoredTransaction(row)
}

// SetDisputed updates the disputed flag of an existing transaction.
func (r *TransactionRepository) SetDisputed(ctx context.Context, id uint32, disputed bool) error {
	var affected int64

	err := retry(ctx, r.retrier, func() error {
		var err error
		affected, err = r.queries.SetStoredTransactionDisputed(ctx, generated.SetStoredTransactionDisputedParams{
			RunID:    r.runID,
			ID:       int64(id),
			Disputed: disputed,
		})
		return err
	})
	if err != nil {
		return err
	}

	if affected == 0 {
		return domain.ErrTransactionNotFound
	}

	return nil
}

// Discard deletes a recorded transaction.
func (r *TransactionRepository) Discard(ctx context.Context, id uint32) error {
	return retry(ctx, r.retrier, func() error {
		return r.queries.DeleteStoredTransaction(ctx, generated.DeleteStoredTransactionParams{
			RunID: r.runID,
			ID:    int64(id),
		})
	})
}

func rowToStoredTransaction(row generated.StoredTransaction) (*domain.StoredTransaction, error) {
	kind, err := domain.ParseKind(row.Kind)
	if err != nil {
		return nil, fmt.Errorf("transaction %d: %w", row.ID, err)
	}

	return &domain.StoredTransaction{
		ID:       uint32(row.ID),
		Client:   uint16(row.Client),
		Kind:     kind,
		Amount:   numericToDecimal(row.Amount),
		Disputed: row.Disputed,
	}, nil
}
