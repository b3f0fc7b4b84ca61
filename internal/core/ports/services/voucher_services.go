package services

import (
	"context"

	"github.com/acctsys/voucherledger/internal/core/domain"
	"github.com/acctsys/voucherledger/internal/dto"
)

// VoucherSvcFacade is the transaction orchestrator: it composes the account
// registry, the voucher repository and the audit recorder into atomic ledger
// operations.
type VoucherSvcFacade interface {
	// CreateVoucherPayable records a payment obligation. When the request
	// carries no entry lines a canonical expense/accounts-payable pair is
	// synthesized from the configured default accounts.
	CreateVoucherPayable(ctx context.Context, req dto.CreateVoucherPayableRequest, creator string) (*domain.VoucherHeader, error)

	// CreateCheckVoucher records a disbursement. When the request names a VP
	// number the referenced voucher payable is marked paid in the same
	// transaction; its total must match the CV total within the currency
	// tolerance.
	CreateCheckVoucher(ctx context.Context, req dto.CreateCheckVoucherRequest, creator string) (*domain.VoucherHeader, error)

	// GetTransaction returns the header, the lines it owns, and a balance
	// diagnostic.
	GetTransaction(ctx context.Context, number string) (*domain.TransactionDetail, error)

	// VoidTransaction transitions a header active->void, keeping all lines.
	VoidTransaction(ctx context.Context, number string, reason string, actor string) error

	// ListVouchers returns a filtered, cursor-paginated page of headers.
	ListVouchers(ctx context.Context, params dto.ListVouchersParams) (*dto.ListVouchersResponse, error)

	// NextNumber previews the next document number for year. The kind is
	// validated only; VP and CV share one number space per year.
	NextNumber(ctx context.Context, kind domain.VoucherKind, year int) (string, error)

	// ValidateBalance is the read-only debits-vs-credits diagnostic.
	ValidateBalance(ctx context.Context, number string) (*domain.BalanceCheck, error)

	// ValidateSubsidiaryTotal compares the subsidiary-line sum against the
	// entry-line amount for one account on one header.
	ValidateSubsidiaryTotal(ctx context.Context, number string, accountCode string) (*domain.SubsidiaryCheck, error)
}
