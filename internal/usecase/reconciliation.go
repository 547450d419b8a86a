package usecase

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iho/txnflow/internal/domain"
)

// Discrepancy describes an account whose stored state breaks a balance rule.
type Discrepancy struct {
	Client uint16
	Reason string
}

func (d Discrepancy) String() string {
	return fmt.Sprintf("client %d: %s", d.Client, d.Reason)
}

// ReconciliationReport summarizes a reconciliation pass over final accounts.
type ReconciliationReport struct {
	TotalAccounts      int
	ReconciledAccounts int
	Discrepancies      []Discrepancy
}

// Consistent reports whether every account reconciled.
func (r ReconciliationReport) Consistent() bool {
	return len(r.Discrepancies) == 0
}

// Reconcile checks that each snapshot's total equals available plus held
// and that no funds are held below zero.
func Reconcile(snapshots []domain.AccountSnapshot) ReconciliationReport {
	report := ReconciliationReport{TotalAccounts: len(snapshots)}

	for _, s := range snapshots {
		d, ok := reconcileAccount(s)
		if !ok {
			report.Discrepancies = append(report.Discrepancies, d)
			continue
		}
		report.ReconciledAccounts++
	}

	return report
}

func reconcileAccount(s domain.AccountSnapshot) (Discrepancy, bool) {
	if sum := s.Available.Add(s.Held); !sum.Equal(s.Total) {
		return Discrepancy{
			Client: s.Client,
			Reason: fmt.Sprintf("total %s does not match available %s + held %s", s.Total, s.Available, s.Held),
		}, false
	}

	if s.Held.LessThan(decimal.Zero) {
		return Discrepancy{
			Client: s.Client,
			Reason: fmt.Sprintf("held funds are negative: %s", s.Held),
		}, false
	}

	return Discrepancy{}, true
}
