package services

import (
	"context"

	"github.com/acctsys/voucherledger/internal/core/domain"
	"github.com/acctsys/voucherledger/internal/dto"
)

// AccountSvcFacade is the chart-of-accounts registry consumed by handlers and
// by the voucher service for payee resolution.
type AccountSvcFacade interface {
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creator string) (*domain.Account, error)
	GetAccountByCode(ctx context.Context, code string) (*domain.Account, error)
	ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, error)
	DeactivateAccount(ctx context.Context, code string, actor string) error
}
