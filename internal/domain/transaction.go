package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Kind is the type of an incoming transaction record.
type Kind string

const (
	KindDeposit    Kind = "deposit"
	KindWithdrawal Kind = "withdrawal"
	KindDispute    Kind = "dispute"
	KindResolve    Kind = "resolve"
	KindChargeback Kind = "chargeback"
)

// ParseKind parses a transaction type, ignoring case and surrounding space.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case KindDeposit, KindWithdrawal, KindDispute, KindResolve, KindChargeback:
		return k, nil
	default:
		return "", fmt.Errorf("unknown transaction type %q", s)
	}
}

// MovesFunds reports whether records of this kind carry an amount and are
// kept for later reference.
func (k Kind) MovesFunds() bool {
	return k == KindDeposit || k == KindWithdrawal
}

// Transaction is a single input record.
//
// For disputes, resolves and chargebacks ID references an earlier deposit or
// withdrawal and Amount is nil.
type Transaction struct {
	ID     uint32
	Kind   Kind
	Client uint16
	Amount *decimal.Decimal
}

// Validate checks that deposits and withdrawals carry a positive amount.
func (t *Transaction) Validate() error {
	if !t.Kind.MovesFunds() {
		return nil
	}

	if t.Amount == nil {
		if t.Kind == KindDeposit {
			return ErrInvalidDepositTransaction
		}
		return ErrInvalidWithdrawalTransaction
	}

	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	return nil
}

// StoredTransaction is an accepted deposit or withdrawal kept for later
// disputes. Only Disputed changes after it is recorded.
type StoredTransaction struct {
	ID       uint32
	Client   uint16
	Kind     Kind
	Amount   decimal.Decimal
	Disputed bool
}

// NewStoredTransaction builds the stored form of a validated deposit or withdrawal.
func NewStoredTransaction(t *Transaction) (*StoredTransaction, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	if !t.Kind.MovesFunds() {
		return nil, fmt.Errorf("%s transactions are not stored", t.Kind)
	}

	return &StoredTransaction{
		ID:     t.ID,
		Client: t.Client,
		Kind:   t.Kind,
		Amount: *t.Amount,
	}, nil
}

// BelongsTo reports whether the stored transaction was made by client.
func (s *StoredTransaction) BelongsTo(client uint16) bool {
	return s.Client == client
}
