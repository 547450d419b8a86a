package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ChargebackPolicy decides what a chargeback does to a disputed withdrawal.
type ChargebackPolicy string

const (
	// ChargebackReverse returns the withdrawn amount to available funds.
	ChargebackReverse ChargebackPolicy = "reverse"
	// ChargebackRelease only drops the amount from held funds.
	ChargebackRelease ChargebackPolicy = "release"
)

// ParseChargebackPolicy parses a policy name.
func ParseChargebackPolicy(s string) (ChargebackPolicy, error) {
	switch p := ChargebackPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case ChargebackReverse, ChargebackRelease:
		return p, nil
	default:
		return "", fmt.Errorf("unknown chargeback policy %q", s)
	}
}

// Account is the balance state of a single client.
//
// Once Locked is set the account rejects every further mutation.
type Account struct {
	Available decimal.Decimal
	Held      decimal.Decimal
	Locked    bool
}

// NewAccount returns an empty, unlocked account.
func NewAccount() *Account {
	return &Account{
		Available: decimal.Zero,
		Held:      decimal.Zero,
	}
}

// Total returns available plus held funds.
func (a *Account) Total() decimal.Decimal {
	return a.Available.Add(a.Held)
}

// Deposit credits amount to available funds.
func (a *Account) Deposit(amount decimal.Decimal) error {
	if a.Locked {
		return ErrLockedAccount
	}

	a.Available = a.Available.Add(amount)
	return nil
}

// Withdraw debits amount from available funds if they cover it.
func (a *Account) Withdraw(amount decimal.Decimal) error {
	if a.Locked {
		return ErrLockedAccount
	}

	if a.Available.LessThan(amount) {
		return ErrInsufficientFunds
	}

	a.Available = a.Available.Sub(amount)
	return nil
}

// OpenDispute holds the amount of ref.
//
// A disputed deposit moves its amount from available to held. A disputed
// withdrawal has already left available, so only held grows.
func (a *Account) OpenDispute(ref *StoredTransaction) error {
	if a.Locked {
		return ErrLockedAccount
	}

	switch ref.Kind {
	case KindDeposit:
		a.Available = a.Available.Sub(ref.Amount)
		a.Held = a.Held.Add(ref.Amount)
	case KindWithdrawal:
		a.Held = a.Held.Add(ref.Amount)
	default:
		return fmt.Errorf("cannot dispute %s transaction", ref.Kind)
	}

	return nil
}

// ResolveDispute undoes OpenDispute for ref.
func (a *Account) ResolveDispute(ref *StoredTransaction) error {
	if a.Locked {
		return ErrLockedAccount
	}

	switch ref.Kind {
	case KindDeposit:
		a.Available = a.Available.Add(ref.Amount)
		a.Held = a.Held.Sub(ref.Amount)
	case KindWithdrawal:
		a.Held = a.Held.Sub(ref.Amount)
	default:
		return fmt.Errorf("cannot resolve %s transaction", ref.Kind)
	}

	return nil
}

// Chargeback settles the dispute on ref against the client and locks the account.
//
// A deposit chargeback removes the held amount for good. A withdrawal
// chargeback releases the held amount and, under ChargebackReverse, credits
// it back to available funds.
func (a *Account) Chargeback(ref *StoredTransaction, policy ChargebackPolicy) error {
	if a.Locked {
		return ErrLockedAccount
	}

	switch ref.Kind {
	case KindDeposit:
		a.Held = a.Held.Sub(ref.Amount)
	case KindWithdrawal:
		a.Held = a.Held.Sub(ref.Amount)
		if policy != ChargebackRelease {
			a.Available = a.Available.Add(ref.Amount)
		}
	default:
		return fmt.Errorf("cannot charge back %s transaction", ref.Kind)
	}

	a.Locked = true
	return nil
}

// Snapshot returns a read-only view of the account for output.
func (a *Account) Snapshot(client uint16) AccountSnapshot {
	return AccountSnapshot{
		Client:    client,
		Available: a.Available,
		Held:      a.Held,
		Total:     a.Total(),
		Locked:    a.Locked,
	}
}
