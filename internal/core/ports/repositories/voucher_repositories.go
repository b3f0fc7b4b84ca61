package repositories

import (
	"context"
	"time"

	"github.com/acctsys/voucherledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Settlement instructs SaveVoucher to mark a previously created voucher
// payable as paid within the same database transaction that commits the new
// check voucher, so the two writes are atomic.
type Settlement struct {
	VPNumber string
	PaidBy   string
}

// ListVouchersFilter narrows a voucher listing. Nil fields mean "any".
type ListVouchersFilter struct {
	Kind      *domain.VoucherKind
	Status    *domain.VoucherStatus
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
	NextToken *string
}

// VoucherRepository persists ledger headers together with the entry lines and
// subsidiary lines they own.
type VoucherRepository interface {
	// SaveVoucher atomically assigns the next document number for
	// (header.Kind, header.Date.Year()), inserts the header with all entry
	// and subsidiary lines, and applies the optional settlement. Everything
	// runs in one serializable transaction: a failure anywhere rolls the
	// whole unit back. Returns the assigned number.
	//
	// The number assignment races with concurrent creators; implementations
	// must guarantee uniqueness and return apperrors.ErrConflict once
	// retries are exhausted.
	SaveVoucher(ctx context.Context, header domain.VoucherHeader, lines []domain.EntryLine, subs []domain.SubsidiaryLine, settle *Settlement) (string, error)

	// NextNumber previews the next document number for year without
	// reserving it. VP and CV draw from one sequence per year. A lookup
	// failure is surfaced as an error, never papered over with sequence 1.
	NextNumber(ctx context.Context, year int) (string, error)

	// FindVoucherByNumber returns the header or apperrors.ErrNotFound.
	FindVoucherByNumber(ctx context.Context, number string) (*domain.VoucherHeader, error)

	// FindEntryLinesByNumber returns the entry lines owned by a header,
	// ordered debits first, in insertion order within each side.
	FindEntryLinesByNumber(ctx context.Context, number string) ([]domain.EntryLine, error)

	// FindSubsidiaryLinesByNumber returns the subsidiary lines owned by a header.
	FindSubsidiaryLinesByNumber(ctx context.Context, number string) ([]domain.SubsidiaryLine, error)

	// ListVouchers returns headers matching the filter, newest first, plus a
	// token for the next page when more rows exist.
	ListVouchers(ctx context.Context, filter ListVouchersFilter) ([]domain.VoucherHeader, *string, error)

	// VoidVoucher transitions a header from active to void, recording the
	// reason. It never touches the owned lines. Returns
	// apperrors.ErrNotFound, apperrors.ErrAlreadyVoid for a double void, or
	// apperrors.ErrConflict when the header is paid.
	VoidVoucher(ctx context.Context, number string, reason string, updatedBy string, at time.Time) error

	// GetEntryTotals sums the debit and credit entry lines of one header.
	GetEntryTotals(ctx context.Context, number string) (debits, credits decimal.Decimal, err error)

	// GetSubsidiaryTotals returns the entry-line total and subsidiary-line
	// total for a (number, accountCode) pair.
	GetSubsidiaryTotals(ctx context.Context, number string, accountCode string) (entryTotal, subTotal decimal.Decimal, err error)
}
