package repositories

import (
	"context"
	"time"

	"github.com/acctsys/voucherledger/internal/core/domain"
)

// ListAccountsFilter narrows an account listing. Nil fields mean "any".
type ListAccountsFilter struct {
	Type               *domain.AccountType
	Prefix             *string
	IncludeDeactivated bool
}

// AccountRepository persists the chart of accounts.
type AccountRepository interface {
	// SaveAccount inserts a new account. Returns apperrors.ErrDuplicate if the
	// code is already taken.
	SaveAccount(ctx context.Context, account domain.Account) error

	// FindAccountByCode returns the account with the given code regardless of
	// its lifecycle state, or apperrors.ErrNotFound.
	FindAccountByCode(ctx context.Context, code string) (*domain.Account, error)

	// ListAccounts returns accounts matching the filter, ordered by code.
	ListAccounts(ctx context.Context, filter ListAccountsFilter) ([]domain.Account, error)

	// DeactivateAccount soft-deactivates an account. Existing ledger lines
	// keep referencing it. Returns apperrors.ErrNotFound for unknown codes
	// and apperrors.ErrConflict if the account is already deactivated.
	DeactivateAccount(ctx context.Context, code string, updatedBy string, at time.Time) error
}
