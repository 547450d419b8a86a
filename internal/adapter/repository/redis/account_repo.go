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

// AccountRepository implements usecase.AccountStore.
type AccountRepository struct {
	client  *redis.Client
	keys    keyspace
	retrier usecase.Retrier
}

// NewAccountRepository creates an AccountRepository for one run.
func NewAccountRepository(client *redis.Client, prefix, runID string, retrier usecase.Retrier) *AccountRepository {
	return &AccountRepository{
		client:  client,
		keys:    newKeyspace(prefix, runID),
		retrier: retrier,
	}
}

// GetOrCreate loads the client's account, creating it when absent.
// The returned account is a copy; call Save to persist changes.
func (r *AccountRepository) GetOrCreate(ctx context.Context, client uint16) (*domain.Account, error) {
	key := r.keys.account(client)
	var fields map[string]string

	err := retry(ctx, r.retrier, func() error {
		var err error
		fields, err = r.client.HGetAll(ctx, key).Result()
		return err
	})
	if err != nil {
		return nil, err
	}

	if len(fields) > 0 {
		return hashToAccount(client, fields)
	}

	acc := domain.NewAccount()
	if err := r.Save(ctx, client, acc); err != nil {
		return nil, err
	}

	return acc, nil
}

// Save writes the account and registers the client for List.
func (r *AccountRepository) Save(ctx context.Context, client uint16, account *domain.Account) error {
	return retry(ctx, r.retrier, func() error {
		_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, r.keys.account(client),
				"available", account.Available.String(),
				"held", account.Held.String(),
				"locked", account.Locked,
			)
			pipe.SAdd(ctx, r.keys.clients(), client)
			return nil
		})
		return err
	})
}

// List returns a snapshot of every account of the run.
func (r *AccountRepository) List(ctx context.Context) ([]domain.AccountSnapshot, error) {
	var members []string

	err := retry(ctx, r.retrier, func() error {
		var err error
		members, err = r.client.SMembers(ctx, r.keys.clients()).Result()
		return err
	})
	if err != nil {
		return nil, err
	}

	clients := make([]uint16, 0, len(members))
	for _, m := range members {
		c, err := strconv.ParseUint(m, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("client id %q: %w", m, err)
		}
		clients = append(clients, uint16(c))
	}

	var cmds []*redis.MapStringStringCmd
	err = retry(ctx, r.retrier, func() error {
		cmds = make([]*redis.MapStringStringCmd, len(clients))
		_, err := r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
			for i, c := range clients {
				cmds[i] = pipe.HGetAll(ctx, r.keys.account(c))
			}
			return nil
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	snapshots := make([]domain.AccountSnapshot, 0, len(clients))
	for i, c := range clients {
		acc, err := hashToAccount(c, cmds[i].Val())
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, acc.Snapshot(c))
	}

	return snapshots, nil
}

func hashToAccount(client uint16, fields map[string]string) (*domain.Account, error) {
	available, err := decimal.NewFromString(fields["available"])
	if err != nil {
		return nil, fmt.Errorf("account %d: available: %w", client, err)
	}

	held, err := decimal.NewFromString(fields["held"])
	if err != nil {
		return nil, fmt.Errorf("account %d: held: %w", client, err)
	}

	locked, err := parseBool(fields["locked"])
	if err != nil {
		return nil, fmt.Errorf("account %d: locked: %w", client, err)
	}

	return &domain.Account{Available: available, Held: held, Locked: locked}, nil
}
