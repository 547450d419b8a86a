package domain

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

func amount(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		input   string
		want    Kind
		wantErr bool
	}{
		{"deposit", KindDeposit, false},
		{"Withdrawal", KindWithdrawal, false},
		{" DISPUTE ", KindDispute, false},
		{"resolve", KindResolve, false},
		{"chargeback", KindChargeback, false},
		{"transfer", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseKind(tt.input)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseKind(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseKind(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestTransaction_Validate(t *testing.T) {
	tests := []struct {
		name        string
		txn         Transaction
		expectError error
	}{
		{
			name: "deposit with amount",
			txn:  Transaction{ID: 1, Kind: KindDeposit, Client: 1, Amount: amount("1.5")},
		},
		{
			name:        "deposit without amount",
			txn:         Transaction{ID: 1, Kind: KindDeposit, Client: 1},
			expectError: ErrInvalidDepositTransaction,
		},
		{
			name:        "withdrawal without amount",
			txn:         Transaction{ID: 2, Kind: KindWithdrawal, Client: 1},
			expectError: ErrInvalidWithdrawalTransaction,
		},
		{
			name:        "deposit with zero amount",
			txn:         Transaction{ID: 3, Kind: KindDeposit, Client: 1, Amount: amount("0")},
			expectError: ErrInvalidAmount,
		},
		{
			name:        "withdrawal with negative amount",
			txn:         Transaction{ID: 4, Kind: KindWithdrawal, Client: 1, Amount: amount("-2")},
			expectError: ErrInvalidAmount,
		},
		{
			name: "dispute carries no amount",
			txn:  Transaction{ID: 1, Kind: KindDispute, Client: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.txn.Validate()
			if !errors.Is(err, tt.expectError) {
				t.Errorf("expected error %v, got %v", tt.expectError, err)
			}
		})
	}
}

func TestNewStoredTransaction(t *testing.T) {
	stored, err := NewStoredTransaction(&Transaction{ID: 9, Kind: KindWithdrawal, Client: 3, Amount: amount("2.5")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := &StoredTransaction{ID: 9, Client: 3, Kind: KindWithdrawal, Amount: decimal.RequireFromString("2.5")}
	if diff := cmp.Diff(want, stored, equateDecimals); diff != "" {
		t.Errorf("stored transaction mismatch (-want +got):\n%s", diff)
	}
	if !stored.BelongsTo(3) || stored.BelongsTo(4) {
		t.Error("BelongsTo does not match client")
	}

	if _, err := NewStoredTransaction(&Transaction{ID: 9, Kind: KindDispute, Client: 3}); err == nil {
		t.Error("expected error storing a dispute")
	}
}

func TestReason(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{ErrInsufficientFunds, "insufficient_funds"},
		{ErrLockedAccount, "locked_account"},
		{ErrInvalidDepositTransaction, "missing_amount"},
		{&InvalidTransactionRefError{ID: 4}, "invalid_ref"},
		{ErrTransactionNotDisputed, "not_disputed"},
		{ErrTransactionAlreadyDisputed, "already_disputed"},
		{errors.New("boom"), "internal"},
	}

	for _, tt := range tests {
		if got := Reason(tt.err); got != tt.want {
			t.Errorf("Reason(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}

	if IsBusinessError(errors.New("boom")) {
		t.Error("unexpected business classification for internal error")
	}
	if !IsBusinessError(&InvalidTransactionRefError{ID: 1}) {
		t.Error("expected invalid ref to be a business error")
	}
	if !errors.Is(&InvalidTransactionRefError{ID: 1}, ErrInvalidTransactionRef) {
		t.Error("expected InvalidTransactionRefError to match ErrInvalidTransactionRef")
	}
}

func TestAccountSnapshot_Equal(t *testing.T) {
	a := AccountSnapshot{Client: 1, Available: decimal.RequireFromString("1.23456"), Held: decimal.Zero, Total: decimal.RequireFromString("1.23456")}
	b := AccountSnapshot{Client: 1, Available: decimal.RequireFromString("1.2345"), Held: decimal.Zero, Total: decimal.RequireFromString("1.2345")}

	if !a.Equal(b) {
		t.Error("expected snapshots within tolerance to be equal")
	}

	b.Locked = true
	if a.Equal(b) {
		t.Error("expected locked mismatch to break equality")
	}

	c := a
	c.Held = decimal.RequireFromString("0.01")
	if a.Equal(c) {
		t.Error("expected held mismatch to break equality")
	}
}
