package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/iho/txnflow/internal/domain"
)

// OutputPrecision is the number of fractional digits written for amounts.
const OutputPrecision = 4

var outputColumns = []string{"client", "available", "held", "total", "locked"}

// Encoder implements usecase.SnapshotSink writing CSV.
type Encoder struct {
	w *csv.Writer
}

// NewEncoder creates an Encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: csv.NewWriter(w)}
}

// Write writes a header followed by one row per snapshot.
func (e *Encoder) Write(snapshots []domain.AccountSnapshot) error {
	if err := e.w.Write(outputColumns); err != nil {
		return fmt.Errorf("%w: %v", ErrSerialization, err)
	}

	for _, s := range snapshots {
		row := []string{
			strconv.FormatUint(uint64(s.Client), 10),
			FormatAmount(s.Available),
			FormatAmount(s.Held),
			FormatAmount(s.Total),
			strconv.FormatBool(s.Locked),
		}
		if err := e.w.Write(row); err != nil {
			return fmt.Errorf("%w: client %d: %v", ErrSerialization, s.Client, err)
		}
	}

	e.w.Flush()
	if err := e.w.Error(); err != nil {
		return fmt.Errorf("%w: %v", ErrSerialization, err)
	}

	return nil
}

// FormatAmount truncates d to OutputPrecision digits.
func FormatAmount(d decimal.Decimal) string {
	return d.Truncate(OutputPrecision).StringFixed(OutputPrecision)
}
