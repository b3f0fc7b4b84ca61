package pgsql

import (
	"context"
	"strconv"
	"time"

	"github.com/acctsys/voucherledger/internal/apperrors"
	"github.com/acctsys/voucherledger/internal/core/domain"
	portsrepo "github.com/acctsys/voucherledger/internal/core/ports/repositories"
	"github.com/acctsys/voucherledger/internal/models"
	"github.com/acctsys/voucherledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxReportingRepository struct {
	BaseRepository
}

// newPgxReportingRepository creates the read-side repository for the
// reconciliation queries.
func newPgxReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepository {
	return &PgxReportingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReportingRepository = (*PgxReportingRepository)(nil)

// GetAccountEntryLines returns the entry lines touching one account, oldest
// first so a running balance can be accumulated in order. Lines owned by a
// void header are excluded by the join.
func (r *PgxReportingRepository) GetAccountEntryLines(ctx context.Context, accountCode string, start, end *time.Time) ([]domain.EntryLine, error) {
	query := `
		SELECT cd.type, cd.number, cd.date, cd.acct_code, cd.acct_description, cd.amount, cd.acct_type
		FROM ledger_credit_debit cd
		JOIN ledger l ON l.number = cd.number
		WHERE cd.acct_code = $1 AND l.status <> $2
	`
	args := []interface{}{accountCode, models.VoucherStatus(domain.StatusVoid)}
	if start != nil {
		args = append(args, *start)
		query += ` AND cd.date >= $` + strconv.Itoa(len(args))
	}
	if end != nil {
		args = append(args, *end)
		query += ` AND cd.date <= $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY cd.date, l.created_at, cd.id;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query ledger for account "+accountCode, err)
	}
	defer rows.Close()

	lines := []models.EntryLine{}
	for rows.Next() {
		var m models.EntryLine
		if err := rows.Scan(&m.Kind, &m.Number, &m.Date, &m.AccountCode, &m.AccountDescription, &m.Amount, &m.Side); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan account ledger row", err)
		}
		lines = append(lines, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating account ledger rows", err)
	}
	return mapping.ToDomainEntryLineSlice(lines), nil
}

// GetTrialBalanceRows aggregates debit and credit totals per account over all
// non-void entry lines, optionally limited to lines dated on or before asOf.
// Accounts whose totals are both zero are dropped.
func (r *PgxReportingRepository) GetTrialBalanceRows(ctx context.Context, asOf *time.Time) ([]domain.TrialBalanceRow, error) {
	query := `
		SELECT
			cd.acct_code,
			MAX(cd.acct_description),
			COALESCE(SUM(cd.amount) FILTER (WHERE cd.acct_type = 'D'), 0) AS debits,
			COALESCE(SUM(cd.amount) FILTER (WHERE cd.acct_type = 'C'), 0) AS credits
		FROM ledger_credit_debit cd
		JOIN ledger l ON l.number = cd.number
		WHERE l.status <> $1
	`
	args := []interface{}{models.VoucherStatus(domain.StatusVoid)}
	if asOf != nil {
		args = append(args, *asOf)
		query += ` AND cd.date <= $` + strconv.Itoa(len(args))
	}
	query += `
		GROUP BY cd.acct_code
		HAVING COALESCE(SUM(cd.amount) FILTER (WHERE cd.acct_type = 'D'), 0) <> 0
		    OR COALESCE(SUM(cd.amount) FILTER (WHERE cd.acct_type = 'C'), 0) <> 0
		ORDER BY cd.acct_code;
	`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query trial balance rows", err)
	}
	defer rows.Close()

	result := []domain.TrialBalanceRow{}
	for rows.Next() {
		var row domain.TrialBalanceRow
		if err := rows.Scan(&row.AccountCode, &row.AccountDescription, &row.TotalDebits, &row.TotalCredits); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan trial balance row", err)
		}
		row.Balance = row.TotalDebits.Sub(row.TotalCredits)
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating trial balance rows", err)
	}
	return result, nil
}
