package memory

import (
	"context"

	"github.com/iho/txnflow/internal/domain"
)

// AccountRepository implements usecase.AccountStore.
type AccountRepository struct {
	accounts map[uint16]*domain.Account
}

// NewAccountRepository creates an empty AccountRepository.
func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		accounts: make(map[uint16]*domain.Account),
	}
}

// GetOrCreate returns the live account for client. Mutations through the
// returned pointer are visible without Save.
func (r *AccountRepository) GetOrCreate(_ context.Context, client uint16) (*domain.Account, error) {
	acc, ok := r.accounts[client]
	if !ok {
		acc = domain.NewAccount()
		r.accounts[client] = acc
	}

	return acc, nil
}

// Save stores account for client.
func (r *AccountRepository) Save(_ context.Context, client uint16, account *domain.Account) error {
	r.accounts[client] = account
	return nil
}

// List returns a snapshot of every account.
func (r *AccountRepository) List(_ context.Context) ([]domain.AccountSnapshot, error) {
	snapshots := make([]domain.AccountSnapshot, 0, len(r.accounts))
	for client, acc := range r.accounts {
		snapshots = append(snapshots, acc.Snapshot(client))
	}

	return snapshots, nil
}
