package dto

import "time"

// AccountLedgerParams are the query parameters for an account ledger view.
type AccountLedgerParams struct {
	StartDate *time.Time `form:"startDate" time_format:"2006-01-02"`
	EndDate   *time.Time `form:"endDate" time_format:"2006-01-02"`
}

// TrialBalanceParams are the query parameters for a trial balance report.
type TrialBalanceParams struct {
	AsOf *time.Time `form:"asOf" time_format:"2006-01-02"`
}
