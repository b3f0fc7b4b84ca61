package pgsql

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/acctsys/voucherledger/internal/apperrors"
	"github.com/acctsys/voucherledger/internal/core/domain"
	portsrepo "github.com/acctsys/voucherledger/internal/core/ports/repositories"
	"github.com/acctsys/voucherledger/internal/models"
	"github.com/acctsys/voucherledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolationCode = "23505"

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for chart-of-accounts data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountRepository = (*PgxAccountRepository)(nil)

// SaveAccount inserts a new account. A code collision maps to ErrDuplicate.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	modelAcc := mapping.ToModelAccount(account)
	query := `
		INSERT INTO acct_definition (acct_code, acct_description, acct_type, acct_prefix, status, created_at, created_by, updated_at, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		modelAcc.Code,
		modelAcc.Description,
		modelAcc.Type,
		modelAcc.Prefix,
		modelAcc.Status,
		modelAcc.CreatedAt,
		modelAcc.CreatedBy,
		modelAcc.LastUpdatedAt,
		modelAcc.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert account "+modelAcc.Code, err)
	}
	return nil
}

// FindAccountByCode returns the account with the given code, active or not.
func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	query := `
		SELECT acct_code, acct_description, acct_type, acct_prefix, status, created_at, created_by, updated_at, updated_by
		FROM acct_definition
		WHERE acct_code = $1;
	`
	var m models.Account
	err := r.Pool.QueryRow(ctx, query, code).Scan(
		&m.Code,
		&m.Description,
		&m.Type,
		&m.Prefix,
		&m.Status,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find account "+code, err)
	}

	account := mapping.ToDomainAccount(m)
	return &account, nil
}

// ListAccounts returns accounts matching the filter, ordered by code.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, filter portsrepo.ListAccountsFilter) ([]domain.Account, error) {
	query := `
		SELECT acct_code, acct_description, acct_type, acct_prefix, status, created_at, created_by, updated_at, updated_by
		FROM acct_definition
		WHERE 1=1
	`
	args := []interface{}{}
	if !filter.IncludeDeactivated {
		args = append(args, models.AccountStatus(domain.AccountStatusActive))
		query += ` AND status = $1`
	}
	if filter.Type != nil {
		args = append(args, models.AccountType(*filter.Type))
		query += ` AND acct_type = $` + strconv.Itoa(len(args))
	}
	if filter.Prefix != nil {
		args = append(args, *filter.Prefix)
		query += ` AND acct_prefix = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY acct_code;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query accounts", err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		var m models.Account
		if err := rows.Scan(
			&m.Code,
			&m.Description,
			&m.Type,
			&m.Prefix,
			&m.Status,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan account row", err)
		}
		accounts = append(accounts, mapping.ToDomainAccount(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating account rows", err)
	}

	return accounts, nil
}

// DeactivateAccount flips an active account to deactivated. Entry lines
// referencing the account are left untouched.
func (r *PgxAccountRepository) DeactivateAccount(ctx context.Context, code string, updatedBy string, at time.Time) error {
	query := `
		UPDATE acct_definition
		SET status = $2, updated_at = $3, updated_by = $4
		WHERE acct_code = $1 AND status = $5;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		code,
		models.AccountStatus(domain.AccountStatusDeactivated),
		at,
		updatedBy,
		models.AccountStatus(domain.AccountStatusActive),
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to deactivate account "+code, err)
	}
	if cmdTag.RowsAffected() > 0 {
		return nil
	}

	// Nothing updated: distinguish unknown code from already-deactivated.
	var status models.AccountStatus
	err = r.Pool.QueryRow(ctx, `SELECT status FROM acct_definition WHERE acct_code = $1;`, code).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFoundError("account " + code + " not found")
		}
		return apperrors.NewAppError(500, "failed to check account status for "+code, err)
	}
	return apperrors.ErrConflict
}
