package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// VoucherKind is the persisted transaction type ("VP" or "CV").
type VoucherKind string

// VoucherStatus is the persisted header status ("active", "paid", "void").
type VoucherStatus string

// EntrySide is the persisted debit/credit marker ("D" or "C").
type EntrySide string

// VoucherHeader is the persistence model for the ledger table. Sequence and
// Year are stored alongside the formatted number so the numbering generator
// can compute MAX(sequence) without parsing number strings, and so the
// UNIQUE(sequence, year) constraint can back it up.
type VoucherHeader struct {
	Kind        VoucherKind     `db:"type"`
	Number      string          `db:"number"`
	Sequence    int             `db:"sequence"`
	Year        int             `db:"year"`
	Date        time.Time       `db:"date"`
	PayeeCode   string          `db:"payee_code"`
	Payee       string          `db:"payee"`
	TotalAmount decimal.Decimal `db:"total_amount"`
	Description string          `db:"description"`
	DueDate     *time.Time      `db:"due_date"`
	CheckNumber string          `db:"check_number"`
	Status      VoucherStatus   `db:"status"`
	VoidReason  string          `db:"void_reason"`
	AuditFields
}

// EntryLine is the persistence model for the ledger_credit_debit table.
type EntryLine struct {
	Kind               VoucherKind     `db:"type"`
	Number             string          `db:"number"`
	Date               time.Time       `db:"date"`
	AccountCode        string          `db:"acct_code"`
	AccountDescription string          `db:"acct_description"`
	Amount             decimal.Decimal `db:"amount"`
	Side               EntrySide       `db:"acct_type"`
}

// SubsidiaryLine is the persistence model for the ledger_subcodes table.
type SubsidiaryLine struct {
	Kind                  VoucherKind     `db:"type"`
	Number                string          `db:"number"`
	Date                  time.Time       `db:"date"`
	AccountCode           string          `db:"acct_code"`
	SubsidiaryCode        string          `db:"subsidiary_code"`
	SubsidiaryDescription string          `db:"subsidiary_description"`
	Amount                decimal.Decimal `db:"amount"`
}
