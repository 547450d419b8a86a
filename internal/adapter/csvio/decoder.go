// Package csvio reads transaction records from CSV and writes account
// snapshots back as CSV.
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iho/txnflow/internal/domain"
)

var (
	ErrIO              = errors.New("failed reading input")
	ErrDeserialization = errors.New("failed deserializing record in csv")
	ErrSerialization   = errors.New("failed serializing record in csv")
)

var inputColumns = []string{"type", "client", "tx", "amount"}

// Open opens the input file at path.
func Open(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrIO, path, err)
	}
	return f, nil
}

// Decoder implements usecase.TransactionSource over CSV input with a
// type,client,tx,amount header.
type Decoder struct {
	r       *csv.Reader
	columns map[string]int
	line    int
}

// NewDecoder creates a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	return &Decoder{r: cr}
}

// Next returns the next transaction or io.EOF at the end of input.
func (d *Decoder) Next() (*domain.Transaction, error) {
	if d.columns == nil {
		if err := d.readHeader(); err != nil {
			return nil, err
		}
	}

	record, err := d.r.Read()
	if errors.Is(err, io.EOF) {
		return nil, io.EOF
	}
	if err != nil {
		return nil, d.wrap(err)
	}
	d.line, _ = d.r.FieldPos(0)

	txn, err := d.parse(record)
	if err != nil {
		return nil, d.wrap(err)
	}

	return txn, nil
}

func (d *Decoder) readHeader() error {
	header, err := d.r.Read()
	if errors.Is(err, io.EOF) {
		d.columns = map[string]int{}
		return io.EOF
	}
	if err != nil {
		return d.wrap(err)
	}
	d.line, _ = d.r.FieldPos(0)

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	for _, name := range inputColumns[:3] {
		if _, ok := columns[name]; !ok {
			return d.wrap(fmt.Errorf("missing column %q", name))
		}
	}

	d.columns = columns
	return nil
}

func (d *Decoder) parse(record []string) (*domain.Transaction, error) {
	kind, err := domain.ParseKind(d.field(record, "type"))
	if err != nil {
		return nil, err
	}

	client, err := strconv.ParseUint(d.field(record, "client"), 10, 16)
	if err != nil {
		return nil, fmt.Errorf("client: %w", err)
	}

	id, err := strconv.ParseUint(d.field(record, "tx"), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("tx: %w", err)
	}

	txn := &domain.Transaction{
		ID:     uint32(id),
		Kind:   kind,
		Client: uint16(client),
	}

	if raw := d.field(record, "amount"); raw != "" && kind.MovesFunds() {
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("amount: %w", err)
		}
		txn.Amount = &amount
	}

	return txn, nil
}

// field returns the trimmed value of column name, or "" when the row is short.
func (d *Decoder) field(record []string, name string) string {
	i, ok := d.columns[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func (d *Decoder) wrap(err error) error {
	line := d.line
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		line = parseErr.Line
	}
	return fmt.Errorf("%w (line %d): %v", ErrDeserialization, line, err)
}
