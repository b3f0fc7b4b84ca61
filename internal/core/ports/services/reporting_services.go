package services

import (
	"context"
	"time"

	"github.com/acctsys/voucherledger/internal/core/domain"
)

// ReportingSvcFacade serves the reconciliation queries. Reports tolerate
// transient staleness from in-flight writers but always balance over any
// fully committed set of vouchers.
type ReportingSvcFacade interface {
	// AccountLedger returns the ordered entries for an account with a
	// running balance in the uniform debit-positive convention.
	AccountLedger(ctx context.Context, accountCode string, start, end *time.Time) (*domain.AccountLedger, error)

	// TrialBalance aggregates per-account totals and reports whether the
	// ledger balances overall.
	TrialBalance(ctx context.Context, asOf *time.Time) (*domain.TrialBalance, error)
}
