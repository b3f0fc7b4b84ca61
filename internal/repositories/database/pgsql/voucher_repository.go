package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/acctsys/voucherledger/internal/apperrors"
	"github.com/acctsys/voucherledger/internal/core/domain"
	portsrepo "github.com/acctsys/voucherledger/internal/core/ports/repositories"
	"github.com/acctsys/voucherledger/internal/models"
	"github.com/acctsys/voucherledger/internal/utils/mapping"
	"github.com/acctsys/voucherledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// maxSaveAttempts bounds the retry loop around the serializable numbering
// transaction. Three attempts is enough to ride out a burst of concurrent
// creators without hiding a persistent conflict.
const maxSaveAttempts = 3

const voucherHeaderColumns = `type, number, sequence, year, date, payee_code, payee, total_amount, description, due_date, check_number, status, void_reason, created_at, created_by, updated_at, updated_by`

type PgxVoucherRepository struct {
	BaseRepository
}

// newPgxVoucherRepository creates a new repository for ledger headers and the
// lines they own.
func newPgxVoucherRepository(pool *pgxpool.Pool) portsrepo.VoucherRepository {
	return &PgxVoucherRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.VoucherRepository = (*PgxVoucherRepository)(nil)

// SaveVoucher assigns the next document number and inserts the header, entry
// lines, subsidiary lines and optional settlement in one serializable
// transaction. Serialization failures and unique violations on the number are
// retried with a fresh sequence; anything else aborts immediately.
func (r *PgxVoucherRepository) SaveVoucher(ctx context.Context, header domain.VoucherHeader, lines []domain.EntryLine, subs []domain.SubsidiaryLine, settle *portsrepo.Settlement) (string, error) {
	return saveVoucherWithRetry(maxSaveAttempts, func() (string, error) {
		return r.trySaveVoucher(ctx, header, lines, subs, settle)
	})
}

// saveVoucherWithRetry drives try up to attempts times, retrying only errors
// a fresh sequence can resolve. Exhaustion surfaces as ErrConflict.
func saveVoucherWithRetry(attempts int, try func() (string, error)) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		number, err := try()
		if err == nil {
			return number, nil
		}
		if !isRetryableSaveError(err) {
			return "", err
		}
		lastErr = err
	}
	return "", fmt.Errorf("%w: could not assign a unique number after %d attempts: %v", apperrors.ErrConflict, attempts, lastErr)
}

// isRetryableSaveError reports whether a failed save attempt may succeed with
// a freshly computed sequence: serialization failure (40001), deadlock
// (40P01), or the unique backstop on (sequence, year) firing (23505).
func isRetryableSaveError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case "40001", "40P01", uniqueViolationCode:
		return true
	}
	return false
}

func (r *PgxVoucherRepository) trySaveVoucher(ctx context.Context, header domain.VoucherHeader, lines []domain.EntryLine, subs []domain.SubsidiaryLine, settle *portsrepo.Settlement) (string, error) {
	tx, err := r.BeginSerializable(ctx)
	if err != nil {
		return "", err
	}
	defer r.Rollback(ctx, tx)

	year := header.Date.Year()
	sequence, err := nextSequenceTx(ctx, tx, year)
	if err != nil {
		return "", err
	}

	header.Sequence = sequence
	header.Year = year
	header.Number = domain.FormatVoucherNumber(sequence, year)

	if err := insertVoucherHeaderTx(ctx, tx, header); err != nil {
		return "", err
	}
	if err := insertEntryLinesTx(ctx, tx, header, lines); err != nil {
		return "", err
	}
	if err := insertSubsidiaryLinesTx(ctx, tx, header, subs); err != nil {
		return "", err
	}
	if settle != nil {
		if err := settleVoucherPayableTx(ctx, tx, *settle, header.LastUpdatedAt); err != nil {
			return "", err
		}
	}

	// Commit is where serializable transactions report conflicts; the wrapped
	// pg error stays visible to the retry check through Unwrap.
	if err := r.Commit(ctx, tx); err != nil {
		return "", err
	}
	return header.Number, nil
}

// nextSequenceTx computes the next per-year sequence inside tx. VP and CV
// share one sequence so document numbers, which carry no kind, stay unique
// across both. A query failure is surfaced, never replaced with a default
// sequence.
func nextSequenceTx(ctx context.Context, tx pgx.Tx, year int) (int, error) {
	var sequence int
	query := `SELECT COALESCE(MAX(sequence), 0) + 1 FROM ledger WHERE year = $1;`
	if err := tx.QueryRow(ctx, query, year).Scan(&sequence); err != nil {
		return 0, apperrors.NewAppError(500, fmt.Sprintf("failed to compute next sequence for %d", year), err)
	}
	return sequence, nil
}

func insertVoucherHeaderTx(ctx context.Context, tx pgx.Tx, header domain.VoucherHeader) error {
	m := mapping.ToModelVoucherHeader(header)
	query := `
		INSERT INTO ledger (` + voucherHeaderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err := tx.Exec(ctx, query,
		m.Kind, m.Number, m.Sequence, m.Year, m.Date,
		m.PayeeCode, m.Payee, m.TotalAmount, m.Description,
		m.DueDate, m.CheckNumber, m.Status, m.VoidReason,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			return err
		}
		return apperrors.NewAppError(500, "failed to insert ledger header "+m.Number, err)
	}
	return nil
}

func insertEntryLinesTx(ctx context.Context, tx pgx.Tx, header domain.VoucherHeader, lines []domain.EntryLine) error {
	batch := &pgx.Batch{}
	query := `
		INSERT INTO ledger_credit_debit (type, number, date, acct_code, acct_description, amount, acct_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	for _, line := range lines {
		line.Kind = header.Kind
		line.Number = header.Number
		line.Date = header.Date
		m := mapping.ToModelEntryLine(line)
		batch.Queue(query, m.Kind, m.Number, m.Date, m.AccountCode, m.AccountDescription, m.Amount, m.Side)
	}
	results := tx.SendBatch(ctx, batch)
	defer results.Close()
	for range lines {
		if _, err := results.Exec(); err != nil {
			return apperrors.NewAppError(500, "failed to insert entry line for "+header.Number, err)
		}
	}
	return nil
}

func insertSubsidiaryLinesTx(ctx context.Context, tx pgx.Tx, header domain.VoucherHeader, subs []domain.SubsidiaryLine) error {
	if len(subs) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	query := `
		INSERT INTO ledger_subcodes (type, number, date, acct_code, subsidiary_code, subsidiary_description, amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	for _, sub := range subs {
		sub.Kind = header.Kind
		sub.Number = header.Number
		sub.Date = header.Date
		m := mapping.ToModelSubsidiaryLine(sub)
		batch.Queue(query, m.Kind, m.Number, m.Date, m.AccountCode, m.SubsidiaryCode, m.SubsidiaryDescription, m.Amount)
	}
	results := tx.SendBatch(ctx, batch)
	defer results.Close()
	for range subs {
		if _, err := results.Exec(); err != nil {
			return apperrors.NewAppError(500, "failed to insert subsidiary line for "+header.Number, err)
		}
	}
	return nil
}

// settleVoucherPayableTx flips the settled VP to paid. The guard on status
// makes a lost race (someone else paid or voided the VP first) visible as a
// zero-row update, which aborts the whole save.
func settleVoucherPayableTx(ctx context.Context, tx pgx.Tx, settle portsrepo.Settlement, at time.Time) error {
	query := `
		UPDATE ledger
		SET status = $2, updated_at = $3, updated_by = $4
		WHERE number = $1 AND type = $5 AND status = $6;
	`
	cmdTag, err := tx.Exec(ctx, query,
		settle.VPNumber,
		models.VoucherStatus(domain.StatusPaid),
		at,
		settle.PaidBy,
		models.VoucherKind(domain.VoucherPayable),
		models.VoucherStatus(domain.StatusActive),
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to settle voucher payable "+settle.VPNumber, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: voucher payable %s is no longer active", apperrors.ErrConflict, settle.VPNumber)
	}
	return nil
}

// NextNumber previews the next document number for year without reserving it.
func (r *PgxVoucherRepository) NextNumber(ctx context.Context, year int) (string, error) {
	var sequence int
	query := `SELECT COALESCE(MAX(sequence), 0) + 1 FROM ledger WHERE year = $1;`
	if err := r.Pool.QueryRow(ctx, query, year).Scan(&sequence); err != nil {
		return "", apperrors.NewAppError(500, fmt.Sprintf("failed to compute next sequence for %d", year), err)
	}
	return domain.FormatVoucherNumber(sequence, year), nil
}

// FindVoucherByNumber returns the header or apperrors.ErrNotFound.
func (r *PgxVoucherRepository) FindVoucherByNumber(ctx context.Context, number string) (*domain.VoucherHeader, error) {
	query := `SELECT ` + voucherHeaderColumns + ` FROM ledger WHERE number = $1;`
	m, err := scanVoucherHeader(r.Pool.QueryRow(ctx, query, number))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find ledger header "+number, err)
	}
	header := mapping.ToDomainVoucherHeader(*m)
	return &header, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVoucherHeader(row rowScanner) (*models.VoucherHeader, error) {
	var m models.VoucherHeader
	err := row.Scan(
		&m.Kind, &m.Number, &m.Sequence, &m.Year, &m.Date,
		&m.PayeeCode, &m.Payee, &m.TotalAmount, &m.Description,
		&m.DueDate, &m.CheckNumber, &m.Status, &m.VoidReason,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// FindEntryLinesByNumber returns the entry lines of a header, debits first.
func (r *PgxVoucherRepository) FindEntryLinesByNumber(ctx context.Context, number string) ([]domain.EntryLine, error) {
	query := `
		SELECT type, number, date, acct_code, acct_description, amount, acct_type
		FROM ledger_credit_debit
		WHERE number = $1
		ORDER BY CASE acct_type WHEN 'D' THEN 0 ELSE 1 END, id;
	`
	rows, err := r.Pool.Query(ctx, query, number)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query entry lines for "+number, err)
	}
	defer rows.Close()

	lines := []models.EntryLine{}
	for rows.Next() {
		var m models.EntryLine
		if err := rows.Scan(&m.Kind, &m.Number, &m.Date, &m.AccountCode, &m.AccountDescription, &m.Amount, &m.Side); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan entry line row", err)
		}
		lines = append(lines, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating entry line rows", err)
	}
	return mapping.ToDomainEntryLineSlice(lines), nil
}

// FindSubsidiaryLinesByNumber returns the subsidiary lines of a header.
func (r *PgxVoucherRepository) FindSubsidiaryLinesByNumber(ctx context.Context, number string) ([]domain.SubsidiaryLine, error) {
	query := `
		SELECT type, number, date, acct_code, subsidiary_code, subsidiary_description, amount
		FROM ledger_subcodes
		WHERE number = $1
		ORDER BY acct_code, id;
	`
	rows, err := r.Pool.Query(ctx, query, number)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query subsidiary lines for "+number, err)
	}
	defer rows.Close()

	subs := []models.SubsidiaryLine{}
	for rows.Next() {
		var m models.SubsidiaryLine
		if err := rows.Scan(&m.Kind, &m.Number, &m.Date, &m.AccountCode, &m.SubsidiaryCode, &m.SubsidiaryDescription, &m.Amount); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan subsidiary line row", err)
		}
		subs = append(subs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating subsidiary line rows", err)
	}
	return mapping.ToDomainSubsidiaryLineSlice(subs), nil
}

// ListVouchers returns headers matching the filter, newest first, with a
// keyset cursor on (date, created_at).
func (r *PgxVoucherRepository) ListVouchers(ctx context.Context, filter portsrepo.ListVouchersFilter) ([]domain.VoucherHeader, *string, error) {
	query := `SELECT ` + voucherHeaderColumns + ` FROM ledger WHERE 1=1`
	args := []interface{}{}

	if filter.Kind != nil {
		args = append(args, models.VoucherKind(*filter.Kind))
		query += ` AND type = $` + strconv.Itoa(len(args))
	}
	if filter.Status != nil {
		args = append(args, models.VoucherStatus(*filter.Status))
		query += ` AND status = $` + strconv.Itoa(len(args))
	}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		query += ` AND date >= $` + strconv.Itoa(len(args))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		query += ` AND date <= $` + strconv.Itoa(len(args))
	}
	if filter.NextToken != nil && *filter.NextToken != "" {
		tokenDate, tokenCreatedAt, err := pagination.DecodeToken(*filter.NextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		args = append(args, tokenDate)
		dateArg := strconv.Itoa(len(args))
		args = append(args, tokenCreatedAt)
		createdArg := strconv.Itoa(len(args))
		query += ` AND (date, created_at) < ($` + dateArg + `, $` + createdArg + `)`
	}

	// Fetch one extra row to know whether another page exists.
	fetchLimit := filter.Limit + 1
	args = append(args, fetchLimit)
	query += ` ORDER BY date DESC, created_at DESC LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query ledger headers", err)
	}
	defer rows.Close()

	headers := []domain.VoucherHeader{}
	for rows.Next() {
		m, err := scanVoucherHeader(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan ledger header row", err)
		}
		headers = append(headers, mapping.ToDomainVoucherHeader(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating ledger header rows", err)
	}

	var nextToken *string
	if len(headers) == fetchLimit {
		headers = headers[:filter.Limit]
		last := headers[len(headers)-1]
		token := pagination.EncodeToken(last.Date, last.CreatedAt)
		nextToken = &token
	}
	return headers, nextToken, nil
}

// VoidVoucher transitions a header from active to void. The lines it owns are
// kept untouched; reconciliation queries exclude them by joining on status.
func (r *PgxVoucherRepository) VoidVoucher(ctx context.Context, number string, reason string, updatedBy string, at time.Time) error {
	query := `
		UPDATE ledger
		SET status = $2, void_reason = $3, updated_at = $4, updated_by = $5
		WHERE number = $1 AND status = $6;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		number,
		models.VoucherStatus(domain.StatusVoid),
		reason,
		at,
		updatedBy,
		models.VoucherStatus(domain.StatusActive),
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to void ledger header "+number, err)
	}
	if cmdTag.RowsAffected() > 0 {
		return nil
	}

	// Zero rows: work out which precondition failed.
	var status models.VoucherStatus
	err = r.Pool.QueryRow(ctx, `SELECT status FROM ledger WHERE number = $1;`, number).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFoundError("transaction " + number + " not found")
		}
		return apperrors.NewAppError(500, "failed to check status of ledger header "+number, err)
	}
	switch domain.VoucherStatus(status) {
	case domain.StatusVoid:
		return apperrors.ErrAlreadyVoid
	case domain.StatusPaid:
		return fmt.Errorf("%w: transaction %s is paid and cannot be voided", apperrors.ErrConflict, number)
	}
	return apperrors.ErrConflict
}

// GetEntryTotals sums the debit and credit entry lines of one header.
func (r *PgxVoucherRepository) GetEntryTotals(ctx context.Context, number string) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE acct_type = 'D'), 0),
			COALESCE(SUM(amount) FILTER (WHERE acct_type = 'C'), 0)
		FROM ledger_credit_debit
		WHERE number = $1;
	`
	var debits, credits decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, number).Scan(&debits, &credits); err != nil {
		return decimal.Zero, decimal.Zero, apperrors.NewAppError(500, "failed to total entry lines for "+number, err)
	}
	return debits, credits, nil
}

// GetSubsidiaryTotals returns the entry-line total and subsidiary-line total
// for a (number, accountCode) pair.
func (r *PgxVoucherRepository) GetSubsidiaryTotals(ctx context.Context, number string, accountCode string) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT
			COALESCE((SELECT SUM(amount) FROM ledger_credit_debit WHERE number = $1 AND acct_code = $2), 0),
			COALESCE((SELECT SUM(amount) FROM ledger_subcodes WHERE number = $1 AND acct_code = $2), 0);
	`
	var entryTotal, subTotal decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, number, accountCode).Scan(&entryTotal, &subTotal); err != nil {
		return decimal.Zero, decimal.Zero, apperrors.NewAppError(500, "failed to total subsidiary lines for "+number, err)
	}
	return entryTotal, subTotal, nil
}
