package repositories

import (
	"context"
	"time"

	"github.com/acctsys/voucherledger/internal/core/domain"
)

// ReportingRepository serves the read-side reconciliation queries. Both
// queries exclude entry lines whose owning header is void, and both read only
// committed state, so the results always balance over any fully committed
// set of vouchers.
type ReportingRepository interface {
	// GetAccountEntryLines returns the non-void entry lines touching an
	// account within the optional date range, ordered by date then creation
	// time.
	GetAccountEntryLines(ctx context.Context, accountCode string, start, end *time.Time) ([]domain.EntryLine, error)

	// GetTrialBalanceRows aggregates per-account debit and credit totals over
	// all non-void entry lines up to the optional as-of date, ordered by
	// account code. Accounts with no activity are omitted.
	GetTrialBalanceRows(ctx context.Context, asOf *time.Time) ([]domain.TrialBalanceRow, error)
}
