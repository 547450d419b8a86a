package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/iho/txnflow/internal/domain"
	"github.com/iho/txnflow/internal/usecase"
)

// TransactionRepository implements usecase.TransactionStore.
type TransactionRepository struct {
	client  *redis.Client
	keys    keyspace
	retrier usecase.Retrier
}

// NewTransactionRepository creates a TransactionRepository for one run.
// A nil retrier runs every command once.
func NewTransactionRepository(client *redis.Client, prefix, runID string, retrier usecase.Retrier) *TransactionRepository {
	return &TransactionRepository{
		client:  client,
		keys:    newKeyspace(prefix, runID),
		retrier: retrier,
	}
}

// Record stores a deposit or withdrawal.
func (r *TransactionRepository) Record(ctx context.Context, txn *domain.Transaction) error {
	if !txn.Kind.MovesFunds() {
		return nil
	}

	stored, err := domain.NewStoredTransaction(txn)
	if err != nil {
		return err
	}

	return retry(ctx, r.retrier, func() error {
		return r.client.HSet(ctx, r.keys.transaction(stored.ID),
			"client", stored.Client,
			"kind", string(stored.Kind),
			"amount", stored.Amount.String(),
			"disputed", false,
		).Err()
	})
}

// Get returns the stored transaction.
func (r *TransactionRepository) Get(ctx context.Context, id uint32) (*domain.StoredTransaction, error) {
	var fields map[string]string

	err := retry(ctx, r.retrier, func() error {
		var err error
		fields, err = r.client.HGetAll(ctx, r.keys.transaction(id)).Result()
		return err
	})
	if err != nil {
		return nil, err
	}

	if len(fields) == 0 {
		return nil, domain.ErrTransactionNotFound
	}

	return hashToStoredTransaction(id, fields)
}

// SetDisputed updates the disputed flag of an existing transaction.
func (r *TransactionRepository) SetDisputed(ctx context.Context, id uint32, disputed bool) error {
	key := r.keys.transaction(id)

	return retry(ctx, r.retrier, func() error {
		n, err := r.client.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if n == 0 {
			return domain.ErrTransactionNotFound
		}

		return r.client.HSet(ctx, key, "disputed", disputed).Err()
	})
}

// Discard deletes a recorded transaction.
func (r *TransactionRepository) Discard(ctx context.Context, id uint32) error {
	return retry(ctx, r.retrier, func() error {
		return r.client.Del(ctx, r.keys.transaction(id)).Err()
	})
}

func hashToStoredTransaction(id uint32, fields map[string]string) (*domain.StoredTransaction, error) {
	client, err := strconv.ParseUint(fields["client"], 10, 16)
	if err != nil {
		return nil, fmt.Errorf("transaction %d: client: %w", id, err)
	}

	amount, err := decimal.NewFromString(fields["amount"])
	if err != nil {
		return nil, fmt.Errorf("transaction %d: amount: %w", id, err)
	}

	kind, err := domain.ParseKind(fields["kind"])
	if err != nil {
		return nil, fmt.Errorf("transaction %d: %w", id, err)
	}

	disputed, err := parseBool(fields["disputed"])
	if err != nil {
		return nil, fmt.Errorf("transaction %d: disputed: %w", id, err)
	}

	return &domain.StoredTransaction{
		ID:       id,
		Client:   uint16(client),
		Kind:     kind,
		Amount:   amount,
		Disputed: disputed,
	}, nil
}

// parseBool accepts the "1"/"0" go-redis writes for bool arguments.
func parseBool(s string) (bool, error) {
	if s == "" {
		return false, nil
	}
	return strconv.ParseBool(s)
}

func retry(ctx context.Context, r usecase.Retrier, op func() error) error {
	if r == nil {
		return op()
	}
	return r.Retry(ctx, op)
}
