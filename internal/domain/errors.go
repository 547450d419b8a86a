package domain

import (
	"errors"
	"fmt"
)

var (
	// Account errors
	ErrInsufficientFunds = errors.New("insufficient funds for a withdrawal")
	ErrLockedAccount     = errors.New("attempted transaction on a locked account")

	// Transaction errors
	ErrInvalidDepositTransaction    = errors.New("deposit transaction must contain amount")
	ErrInvalidWithdrawalTransaction = errors.New("withdrawal transaction must contain amount")
	ErrInvalidTransactionRef        = errors.New("invalid transaction reference")
	ErrTransactionNotFound          = errors.New("transaction not found")
	ErrTransactionNotDisputed       = errors.New("referenced transaction is not under dispute")
	ErrTransactionAlreadyDisputed   = errors.New("referenced transaction is already under dispute")
	ErrInvalidAmount                = errors.New("amount must be positive")
)

// InvalidTransactionRefError reports a dispute, resolve or chargeback that
// references a transaction that does not exist or belongs to another client.
type InvalidTransactionRefError struct {
	ID uint32
}

func (e *InvalidTransactionRefError) Error() string {
	return fmt.Sprintf("transaction not found: %d", e.ID)
}

// Is lets errors.Is match the ErrInvalidTransactionRef sentinel.
func (e *InvalidTransactionRefError) Is(target error) bool {
	return target == ErrInvalidTransactionRef
}

// Reason returns a short label for err suitable for metrics and logs.
func Reason(err error) string {
	var refErr *InvalidTransactionRefError

	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ErrLockedAccount):
		return "locked_account"
	case errors.Is(err, ErrInvalidDepositTransaction), errors.Is(err, ErrInvalidWithdrawalTransaction):
		return "missing_amount"
	case errors.As(err, &refErr):
		return "invalid_ref"
	case errors.Is(err, ErrTransactionNotDisputed):
		return "not_disputed"
	case errors.Is(err, ErrTransactionAlreadyDisputed):
		return "already_disputed"
	case errors.Is(err, ErrInvalidAmount):
		return "invalid_amount"
	default:
		return "internal"
	}
}

// IsBusinessError reports whether err is a per-record rejection rather than
// a failure of the run itself.
func IsBusinessError(err error) bool {
	r := Reason(err)
	return r != "" && r != "internal"
}
