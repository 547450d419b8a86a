package csvio

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/txnflow/internal/domain"
)

func readAll(t *testing.T, d *Decoder) ([]*domain.Transaction, error) {
	t.Helper()

	var txns []*domain.Transaction
	for {
		txn, err := d.Next()
		if errors.Is(err, io.EOF) {
			return txns, nil
		}
		if err != nil {
			return txns, err
		}
		txns = append(txns, txn)
	}
}

func TestDecoder_Next(t *testing.T) {
	input := strings.Join([]string{
		"type, client, tx, amount",
		"deposit, 1, 1, 1.0",
		"Withdrawal,  2, 5,  0.1234 ",
		"dispute, 1, 1,",
		"resolve, 1, 1",
		"CHARGEBACK, 1, 1, 3.0",
	}, "\n")

	txns, err := readAll(t, NewDecoder(strings.NewReader(input)))
	require.NoError(t, err)
	require.Len(t, txns, 5)

	assert.Equal(t, domain.KindDeposit, txns[0].Kind)
	assert.Equal(t, uint16(1), txns[0].Client)
	assert.Equal(t, uint32(1), txns[0].ID)
	require.NotNil(t, txns[0].Amount)
	assert.True(t, txns[0].Amount.Equal(decimal.NewFromInt(1)))

	assert.Equal(t, domain.KindWithdrawal, txns[1].Kind)
	assert.Equal(t, uint16(2), txns[1].Client)
	require.NotNil(t, txns[1].Amount)
	assert.Equal(t, "0.1234", txns[1].Amount.String())

	assert.Equal(t, domain.KindDispute, txns[2].Kind)
	assert.Nil(t, txns[2].Amount)
	assert.Equal(t, domain.KindResolve, txns[3].Kind)
	assert.Nil(t, txns[3].Amount)
	assert.Equal(t, domain.KindChargeback, txns[4].Kind)
	assert.Nil(t, txns[4].Amount, "amounts on reference rows are ignored")
}

func TestDecoder_MissingAmountIsNotADecodeError(t *testing.T) {
	input := "type,client,tx,amount\ndeposit,1,1,\n"

	txns, err := readAll(t, NewDecoder(strings.NewReader(input)))
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Nil(t, txns[0].Amount)
	assert.ErrorIs(t, txns[0].Validate(), domain.ErrInvalidDepositTransaction)
}

func TestDecoder_ColumnOrderFromHeader(t *testing.T) {
	input := "client,tx,type,amount\n7,9,deposit,2.5\n"

	txns, err := readAll(t, NewDecoder(strings.NewReader(input)))
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, uint16(7), txns[0].Client)
	assert.Equal(t, uint32(9), txns[0].ID)
	assert.Equal(t, domain.KindDeposit, txns[0].Kind)
}

func TestDecoder_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  string
	}{
		{"unknown type", "type,client,tx,amount\ndeposit,1,1,1\ntransfer,1,2,1\n", "line 3"},
		{"client out of range", "type,client,tx,amount\ndeposit,70000,1,1\n", "line 2"},
		{"negative tx", "type,client,tx,amount\ndeposit,1,-1,1\n", "line 2"},
		{"bad amount", "type,client,tx,amount\ndeposit,1,1,abc\n", "line 2"},
		{"missing column", "type,client,amount\ndeposit,1,1\n", "line 1"},
		{"unbalanced quote", "type,client,tx,amount\n\"deposit,1,1,1\n", "line"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := readAll(t, NewDecoder(strings.NewReader(tt.input)))

			require.ErrorIs(t, err, ErrDeserialization)
			assert.Contains(t, err.Error(), tt.line)
		})
	}
}

func TestDecoder_EmptyInput(t *testing.T) {
	d := NewDecoder(strings.NewReader(""))

	_, err := d.Next()
	assert.ErrorIs(t, err, io.EOF)

	_, err = d.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestOpen(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.csv"))
	require.ErrorIs(t, err, ErrIO)

	path := filepath.Join(t.TempDir(), "in.csv")
	require.NoError(t, os.WriteFile(path, []byte("type,client,tx,amount\n"), 0o600))

	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()

	_, err = NewDecoder(f).Next()
	assert.ErrorIs(t, err, io.EOF)
}
