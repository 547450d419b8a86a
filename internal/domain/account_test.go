package domain

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

var equateDecimals = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func storedTx(kind Kind, amount string) *StoredTransaction {
	return &StoredTransaction{ID: 1, Client: 1, Kind: kind, Amount: dec(amount)}
}

func assertBalances(t *testing.T, acc *Account, available, held string) {
	t.Helper()

	if !acc.Available.Equal(dec(available)) {
		t.Errorf("expected available %s, got %s", available, acc.Available)
	}
	if !acc.Held.Equal(dec(held)) {
		t.Errorf("expected held %s, got %s", held, acc.Held)
	}
	if !acc.Total().Equal(acc.Available.Add(acc.Held)) {
		t.Errorf("total %s does not match available+held", acc.Total())
	}
}

func TestAccount_Deposit(t *testing.T) {
	acc := NewAccount()

	if err := acc.Deposit(dec("5.0")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertBalances(t, acc, "5", "0")
	if acc.Locked {
		t.Error("expected account to stay unlocked")
	}
}

func TestAccount_Withdraw(t *testing.T) {
	tests := []struct {
		name        string
		available   decimal.Decimal
		amount      decimal.Decimal
		expectError error
		expected    decimal.Decimal
	}{
		{
			name:      "withdraw less than available",
			available: dec("10"),
			amount:    dec("3.5"),
			expected:  dec("6.5"),
		},
		{
			name:      "withdraw exact available",
			available: dec("10"),
			amount:    dec("10"),
			expected:  dec("0"),
		},
		{
			name:        "withdraw more than available",
			available:   dec("5.0"),
			amount:      dec("6.0"),
			expectError: ErrInsufficientFunds,
			expected:    dec("5.0"),
		},
		{
			name:        "withdraw from empty account",
			available:   decimal.Zero,
			amount:      dec("0.0001"),
			expectError: ErrInsufficientFunds,
			expected:    decimal.Zero,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := &Account{Available: tt.available}

			err := acc.Withdraw(tt.amount)

			if !errors.Is(err, tt.expectError) {
				t.Fatalf("expected error %v, got %v", tt.expectError, err)
			}
			if !acc.Available.Equal(tt.expected) {
				t.Errorf("expected available %s, got %s", tt.expected, acc.Available)
			}
			if acc.Available.IsNegative() {
				t.Errorf("available went negative: %s", acc.Available)
			}
		})
	}
}

func TestAccount_DisputeLifecycle(t *testing.T) {
	tests := []struct {
		name string
		// starting balances
		available, held string
		ref             *StoredTransaction
		// after OpenDispute
		disputedAvailable, disputedHeld string
		// after Chargeback
		chargedAvailable, chargedHeld string
	}{
		{
			name:              "deposit",
			available:         "5.0",
			held:              "0",
			ref:               storedTx(KindDeposit, "5.0"),
			disputedAvailable: "0",
			disputedHeld:      "5",
			chargedAvailable:  "0",
			chargedHeld:       "0",
		},
		{
			name:              "withdrawal",
			available:         "7",
			held:              "0",
			ref:               storedTx(KindWithdrawal, "3"),
			disputedAvailable: "7",
			disputedHeld:      "3",
			chargedAvailable:  "10",
			chargedHeld:       "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name+" resolve restores balances", func(t *testing.T) {
			acc := &Account{Available: dec(tt.available), Held: dec(tt.held)}

			if err := acc.OpenDispute(tt.ref); err != nil {
				t.Fatalf("dispute: unexpected error: %v", err)
			}
			assertBalances(t, acc, tt.disputedAvailable, tt.disputedHeld)

			if err := acc.ResolveDispute(tt.ref); err != nil {
				t.Fatalf("resolve: unexpected error: %v", err)
			}
			assertBalances(t, acc, tt.available, tt.held)
			if acc.Locked {
				t.Error("resolve must not lock the account")
			}
		})

		t.Run(tt.name+" chargeback locks account", func(t *testing.T) {
			acc := &Account{Available: dec(tt.available), Held: dec(tt.held)}

			if err := acc.OpenDispute(tt.ref); err != nil {
				t.Fatalf("dispute: unexpected error: %v", err)
			}
			if err := acc.Chargeback(tt.ref, ChargebackReverse); err != nil {
				t.Fatalf("chargeback: unexpected error: %v", err)
			}
			assertBalances(t, acc, tt.chargedAvailable, tt.chargedHeld)
			if !acc.Locked {
				t.Error("expected account to be locked after chargeback")
			}
		})
	}
}

func TestAccount_ChargebackReleasePolicy(t *testing.T) {
	acc := &Account{Available: dec("7")}
	ref := storedTx(KindWithdrawal, "3")

	if err := acc.OpenDispute(ref); err != nil {
		t.Fatalf("dispute: unexpected error: %v", err)
	}
	if err := acc.Chargeback(ref, ChargebackRelease); err != nil {
		t.Fatalf("chargeback: unexpected error: %v", err)
	}

	assertBalances(t, acc, "7", "0")
	if !acc.Locked {
		t.Error("expected account to be locked after chargeback")
	}
}

func TestAccount_LockedRejectsEverything(t *testing.T) {
	ref := storedTx(KindDeposit, "1")

	ops := map[string]func(a *Account) error{
		"deposit":    func(a *Account) error { return a.Deposit(dec("1")) },
		"withdraw":   func(a *Account) error { return a.Withdraw(dec("1")) },
		"dispute":    func(a *Account) error { return a.OpenDispute(ref) },
		"resolve":    func(a *Account) error { return a.ResolveDispute(ref) },
		"chargeback": func(a *Account) error { return a.Chargeback(ref, ChargebackReverse) },
	}

	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			acc := &Account{Available: dec("10"), Held: dec("2"), Locked: true}

			if err := op(acc); !errors.Is(err, ErrLockedAccount) {
				t.Fatalf("expected ErrLockedAccount, got %v", err)
			}
			assertBalances(t, acc, "10", "2")
			if !acc.Locked {
				t.Error("account must stay locked")
			}
		})
	}
}

func TestAccount_Snapshot(t *testing.T) {
	acc := &Account{Available: dec("1.5"), Held: dec("2.25"), Locked: true}

	want := AccountSnapshot{
		Client:    7,
		Available: dec("1.5"),
		Held:      dec("2.25"),
		Total:     dec("3.75"),
		Locked:    true,
	}

	if diff := cmp.Diff(want, acc.Snapshot(7), equateDecimals); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestParseChargebackPolicy(t *testing.T) {
	tests := []struct {
		input   string
		want    ChargebackPolicy
		wantErr bool
	}{
		{"reverse", ChargebackReverse, false},
		{" RELEASE ", ChargebackRelease, false},
		{"ignore", "", true},
	}

	for _, tt := range tests {
		got, err := ParseChargebackPolicy(tt.input)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseChargebackPolicy(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseChargebackPolicy(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
