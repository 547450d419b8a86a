package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/txnflow/internal/domain"
	"github.com/iho/txnflow/internal/infrastructure/postgres/generated"
	"github.com/iho/txnflow/internal/usecase"
)

// AccountRepository implements usecase.AccountStore.
type AccountRepository struct {
	queries *generated.Queries
	runID   string
	retrier usecase.Retrier
}

// NewAccountRepository creates an AccountRepository scoped to one run.
func NewAccountRepository(pool *pgxpool.Pool, runID string, retrier usecase.Retrier) *AccountRepository {
	return newAccountRepository(generated.New(pool), runID, retrier)
}

func newAccountRepository(q *generated.Queries, runID string, retrier usecase.Retrier) *AccountRepository {
	return &AccountRepository{
		queries: q,
		runID:   runID,
		retrier: retrier,
	}
}

// GetOrCreate loads the client's account, inserting an empty row on first use.
// The returned account is a copy; call Save to persist changes.
func (r *AccountRepository) GetOrCreate(ctx context.Context, client uint16) (*domain.Account, error) {
	var row generated.Account

	err := retry(ctx, r.retrier, func() error {
		var err error
		row, err = r.queries.GetOrCreateAccount(ctx, generated.GetOrCreateAccountParams{
			RunID:  r.runID,
			Client: int32(client),
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	return rowToAccount(row), nil
}

// Save writes the account balances and lock flag.
func (r *AccountRepository) Save(ctx context.Context, client uint16, account *domain.Account) error {
	return retry(ctx, r.retrier, func() error {
		return r.queries.UpdateAccount(ctx, generated.UpdateAccountParams{
			RunID:     r.runID,
			Client:    int32(client),
			Available: decimalToNumeric(account.Available),
			Held:      decimalToNumeric(account.Held),
			Locked:    account.Locked,
		})
	})
}

// List returns a snapshot of every account of the run.
func (r *AccountRepository) List(ctx context.Context) ([]domain.AccountSnapshot, error) {
	var rows []generated.Account

	err := retry(ctx, r.retrier, func() error {
		var err error
		rows, err = r.queries.ListAccounts(ctx, r.runID)
		return err
	})
	if err != nil {
		return nil, err
	}

	snapshots := make([]domain.AccountSnapshot, 0, len(rows))
	for _, row := range rows {
		snapshots = append(snapshots, rowToAccount(row).Snapshot(uint16(row.Client)))
	}

	return snapshots, nil
}

func rowToAccount(row generated.Account) *domain.Account {
	return &domain.Account{
		Available: numericToDecimal(row.Available),
		Held:      numericToDecimal(row.Held),
		Locked:    row.Locked,
	}
}

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	return decimal.NewFromBigInt(n.Int, n.Exp)
}

func retry(ctx context.Context, r usecase.Retrier, op func() error) error {
	if r == nil {
		return op()
	}
	return r.Retry(ctx, op)
}
