package usecase

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/iho/txnflow/internal/domain"
)

// TransactionManager applies one transaction at a time to the stores.
// It is not safe for concurrent use; callers feed it in arrival order.
type TransactionManager struct {
	txStore      TransactionStore
	accountStore AccountStore
	policy       domain.ChargebackPolicy
}

func NewTransactionManager(
	txStore TransactionStore,
	accountStore AccountStore,
	policy domain.ChargebackPolicy,
) *TransactionManager {
	if policy == "" {
		policy = domain.ChargebackReverse
	}

	return &TransactionManager{
		txStore:      txStore,
		accountStore: accountStore,
		policy:       policy,
	}
}

// Process records txn, fetches the client's account and applies txn to it.
//
// Business rejections are returned as domain errors and leave no trace in
// account state. Any other error comes from a store and should abort the run.
func (m *TransactionManager) Process(ctx context.Context, txn *domain.Transaction) error {
	account, err := m.prepare(ctx, txn)
	if err != nil {
		return err
	}

	switch txn.Kind {
	case domain.KindDeposit:
		return m.applyFunds(ctx, txn, account, func() error {
			return account.Deposit(*txn.Amount)
		})
	case domain.KindWithdrawal:
		return m.applyFunds(ctx, txn, account, func() error {
			return account.Withdraw(*txn.Amount)
		})
	case domain.KindDispute:
		return m.dispute(ctx, txn, account)
	case domain.KindResolve:
		return m.resolve(ctx, txn, account)
	case domain.KindChargeback:
		return m.chargeback(ctx, txn, account)
	default:
		return fmt.Errorf("unsupported transaction type %q", txn.Kind)
	}
}

// prepare records the transaction and loads the account concurrently.
// The account is created even when recording is rejected.
func (m *TransactionManager) prepare(ctx context.Context, txn *domain.Transaction) (*domain.Account, error) {
	var (
		account   *domain.Account
		recordErr error
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := m.txStore.Record(gctx, txn)
		if domain.IsBusinessError(err) {
			recordErr = err
			return nil
		}
		if err != nil {
			return fmt.Errorf("record transaction %d: %w", txn.ID, err)
		}
		return nil
	})

	g.Go(func() error {
		acc, err := m.accountStore.GetOrCreate(gctx, txn.Client)
		if err != nil {
			return fmt.Errorf("get account %d: %w", txn.Client, err)
		}
		account = acc
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if recordErr != nil {
		return nil, recordErr
	}

	return account, nil
}

func (m *TransactionManager) dispute(ctx context.Context, txn *domain.Transaction, account *domain.Account) error {
	ref, err := m.lookup(ctx, txn)
	if err != nil {
		return err
	}

	if ref.Disputed {
		return domain.ErrTransactionAlreadyDisputed
	}

	if err := m.apply(ctx, txn.Client, account, func() error {
		return account.OpenDispute(ref)
	}); err != nil {
		return err
	}

	return m.setDisputed(ctx, ref.ID, true)
}

func (m *TransactionManager) resolve(ctx context.Context, txn *domain.Transaction, account *domain.Account) error {
	ref, err := m.lookup(ctx, txn)
	if err != nil {
		return err
	}

	if !ref.Disputed {
		return domain.ErrTransactionNotDisputed
	}

	if err := m.apply(ctx, txn.Client, account, func() error {
		return account.ResolveDispute(ref)
	}); err != nil {
		return err
	}

	return m.setDisputed(ctx, ref.ID, false)
}

// chargeback leaves the stored transaction disputed; the account lock is final.
func (m *TransactionManager) chargeback(ctx context.Context, txn *domain.Transaction, account *domain.Account) error {
	ref, err := m.lookup(ctx, txn)
	if err != nil {
		return err
	}

	if !ref.Disputed {
		return domain.ErrTransactionNotDisputed
	}

	return m.apply(ctx, txn.Client, account, func() error {
		return account.Chargeback(ref, m.policy)
	})
}

// lookup resolves the transaction referenced by txn, rejecting unknown ids
// and transactions owned by another client.
func (m *TransactionManager) lookup(ctx context.Context, txn *domain.Transaction) (*domain.StoredTransaction, error) {
	ref, err := m.txStore.Get(ctx, txn.ID)
	if errors.Is(err, domain.ErrTransactionNotFound) {
		return nil, &domain.InvalidTransactionRefError{ID: txn.ID}
	}
	if err != nil {
		return nil, fmt.Errorf("get transaction %d: %w", txn.ID, err)
	}

	if !ref.BelongsTo(txn.Client) {
		return nil, &domain.InvalidTransactionRefError{ID: txn.ID}
	}

	return ref, nil
}

// applyFunds applies a deposit or withdrawal. A rejected one is discarded from
// the transaction store since it never moved funds and must not be disputable.
func (m *TransactionManager) applyFunds(ctx context.Context, txn *domain.Transaction, account *domain.Account, mutate func() error) error {
	err := m.apply(ctx, txn.Client, account, mutate)
	if !domain.IsBusinessError(err) {
		return err
	}

	if derr := m.txStore.Discard(ctx, txn.ID); derr != nil {
		return fmt.Errorf("discard transaction %d: %w", txn.ID, derr)
	}

	return err
}

// apply runs mutate against account and persists the result only on success.
func (m *TransactionManager) apply(ctx context.Context, client uint16, account *domain.Account, mutate func() error) error {
	if err := mutate(); err != nil {
		return err
	}

	if err := m.accountStore.Save(ctx, client, account); err != nil {
		return fmt.Errorf("save account %d: %w", client, err)
	}

	return nil
}

func (m *TransactionManager) setDisputed(ctx context.Context, id uint32, disputed bool) error {
	if err := m.txStore.SetDisputed(ctx, id, disputed); err != nil {
		return fmt.Errorf("update transaction %d: %w", id, err)
	}
	return nil
}
