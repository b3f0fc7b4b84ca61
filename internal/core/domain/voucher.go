package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// VoucherKind distinguishes the two transaction types the ledger records.
type VoucherKind string

const (
	// VoucherPayable records an obligation to pay a payee, not yet disbursed.
	VoucherPayable VoucherKind = "VP"
	// CheckVoucher records a disbursement, optionally settling a VP.
	CheckVoucher VoucherKind = "CV"
)

// ValidVoucherKind reports whether k is a known voucher kind.
func ValidVoucherKind(k VoucherKind) bool {
	return k == VoucherPayable || k == CheckVoucher
}

// VoucherStatus is the lifecycle state of a ledger header. Transitions only
// ever leave StatusActive: active->paid when a CV settles a VP, and
// active->void on voiding. Neither transition is reversible.
type VoucherStatus string

const (
	StatusActive VoucherStatus = "active"
	StatusPaid   VoucherStatus = "paid"
	StatusVoid   VoucherStatus = "void"
)

// EntrySide marks an entry line as a debit or a credit.
type EntrySide string

const (
	Debit  EntrySide = "D"
	Credit EntrySide = "C"
)

// VoucherHeader is the main ledger record for a VP or CV transaction. It
// exclusively owns its entry lines and subsidiary lines: they are created
// together, voided together, and never independently mutated.
type VoucherHeader struct {
	Kind        VoucherKind     `json:"kind"`
	Number      string          `json:"number"` // immutable once assigned, unique across kinds
	Sequence    int             `json:"sequence"`
	Year        int             `json:"year"`
	Date        time.Time       `json:"date"`
	PayeeCode   string          `json:"payeeCode"`
	Payee       string          `json:"payee"` // description snapshot at creation time
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Description string          `json:"description"`
	DueDate     *time.Time      `json:"dueDate,omitempty"`
	CheckNumber string          `json:"checkNumber,omitempty"` // CV only
	Status      VoucherStatus   `json:"status"`
	VoidReason  string          `json:"voidReason,omitempty"`
	AuditFields
}

// EntryLine is one debit or credit line owned by a voucher header. Amount is
// always positive; the side carries the sign. For every header the sum of
// debit lines equals the sum of credit lines within the currency tolerance.
type EntryLine struct {
	Kind               VoucherKind     `json:"kind"`
	Number             string          `json:"number"`
	Date               time.Time       `json:"date"`
	AccountCode        string          `json:"accountCode"`
	AccountDescription string          `json:"accountDescription"` // snapshot, survives account changes
	Amount             decimal.Decimal `json:"amount"`
	Side               EntrySide       `json:"side"`
}

// SubsidiaryLine attributes part of an entry line's amount to a finer
// subsidiary code. The sum of subsidiary lines for a (number, accountCode)
// pair should equal the entry line amount; this is checked on demand, not
// enforced at write time.
type SubsidiaryLine struct {
	Kind                  VoucherKind     `json:"kind"`
	Number                string          `json:"number"`
	Date                  time.Time       `json:"date"`
	AccountCode           string          `json:"accountCode"`
	SubsidiaryCode        string          `json:"subsidiaryCode"`
	SubsidiaryDescription string          `json:"subsidiaryDescription"`
	Amount                decimal.Decimal `json:"amount"`
}

// TransactionDetail bundles a voucher header with everything it owns plus a
// balance diagnostic, as returned by transaction lookups.
type TransactionDetail struct {
	Header          VoucherHeader    `json:"header"`
	EntryLines      []EntryLine      `json:"entryLines"`
	SubsidiaryLines []SubsidiaryLine `json:"subsidiaryLines"`
	BalanceCheck    BalanceCheck     `json:"balanceCheck"`
}

// FormatVoucherNumber renders a document number in the fixed wire format
// "1-{seq:03d}-{year}", e.g. "1-001-2025". The format carries no kind, so
// VP and CV draw from one sequence per year: a per-kind sequence would hand
// the first CV of a year the number the first VP already holds. Numbers sort
// as text only within a single year; the year is the trailing component.
func FormatVoucherNumber(sequence, year int) string {
	return fmt.Sprintf("1-%03d-%d", sequence, year)
}

// ParseVoucherNumber splits a document number into its sequence and year
// components. It accepts exactly the format produced by FormatVoucherNumber.
func ParseVoucherNumber(number string) (sequence, year int, err error) {
	parts := strings.Split(number, "-")
	if len(parts) != 3 || parts[0] != "1" {
		return 0, 0, fmt.Errorf("malformed voucher number %q", number)
	}
	sequence, err = strconv.Atoi(parts[1])
	if err != nil || sequence < 1 {
		return 0, 0, fmt.Errorf("malformed sequence in voucher number %q", number)
	}
	year, err = strconv.Atoi(parts[2])
	if err != nil || year < 1 {
		return 0, 0, fmt.Errorf("malformed year in voucher number %q", number)
	}
	return sequence, year, nil
}
