package domain

import "github.com/shopspring/decimal"

// SnapshotTolerance is the largest amount difference Equal ignores.
var SnapshotTolerance = decimal.New(1, -4)

// AccountSnapshot is the final state of one client's account.
type AccountSnapshot struct {
	Client    uint16
	Available decimal.Decimal
	Held      decimal.Decimal
	Total     decimal.Decimal
	Locked    bool
}

// Equal compares two snapshots, treating amounts within SnapshotTolerance as equal.
func (s AccountSnapshot) Equal(other AccountSnapshot) bool {
	return s.Client == other.Client &&
		s.Locked == other.Locked &&
		approxEqual(s.Available, other.Available) &&
		approxEqual(s.Held, other.Held) &&
		approxEqual(s.Total, other.Total)
}

func approxEqual(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThan(SnapshotTolerance)
}
