package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceCheck is the result of comparing the debit and credit totals of a
// single voucher's entry lines.
type BalanceCheck struct {
	Balanced     bool            `json:"balanced"`
	TotalDebits  decimal.Decimal `json:"totalDebits"`
	TotalCredits decimal.Decimal `json:"totalCredits"`
	Difference   decimal.Decimal `json:"difference"`
}

// SubsidiaryCheck compares the subsidiary-line total for a (number, account)
// pair against the corresponding entry-line amount.
type SubsidiaryCheck struct {
	Balanced        bool            `json:"balanced"`
	EntryTotal      decimal.Decimal `json:"entryTotal"`
	SubsidiaryTotal decimal.Decimal `json:"subsidiaryTotal"`
	Difference      decimal.Decimal `json:"difference"`
}

// LedgerRow is one entry line in an account ledger, annotated with the
// running balance after the line has been applied.
type LedgerRow struct {
	Kind           VoucherKind     `json:"kind"`
	Number         string          `json:"number"`
	Date           time.Time       `json:"date"`
	Description    string          `json:"description"`
	Amount         decimal.Decimal `json:"amount"`
	Side           EntrySide       `json:"side"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

// AccountLedger is the full ledger view of one account over a period.
// The running balance uses a uniform debit-positive convention for every
// account category; normal-balance signs are not applied per category.
type AccountLedger struct {
	Account      Account         `json:"account"`
	Rows         []LedgerRow     `json:"rows"`
	TotalDebits  decimal.Decimal `json:"totalDebits"`
	TotalCredits decimal.Decimal `json:"totalCredits"`
	Balance      decimal.Decimal `json:"balance"` // debits minus credits
	StartDate    *time.Time      `json:"startDate,omitempty"`
	EndDate      *time.Time      `json:"endDate,omitempty"`
}

// TrialBalanceRow aggregates the debits and credits of one account.
type TrialBalanceRow struct {
	AccountCode        string          `json:"accountCode"`
	AccountDescription string          `json:"accountDescription"`
	TotalDebits        decimal.Decimal `json:"totalDebits"`
	TotalCredits       decimal.Decimal `json:"totalCredits"`
	Balance            decimal.Decimal `json:"balance"` // debits minus credits
}

// TrialBalance is the full trial balance report. Balanced is true when the
// overall debit and credit totals agree within the currency tolerance.
type TrialBalance struct {
	Rows         []TrialBalanceRow `json:"rows"`
	TotalDebits  decimal.Decimal   `json:"totalDebits"`
	TotalCredits decimal.Decimal   `json:"totalCredits"`
	Difference   decimal.Decimal   `json:"difference"`
	Balanced     bool              `json:"balanced"`
	AsOf         *time.Time        `json:"asOf,omitempty"`
	GeneratedAt  time.Time         `json:"generatedAt"`
}
