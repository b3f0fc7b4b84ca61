package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/acctsys/voucherledger/internal/core/domain"
	portsrepo "github.com/acctsys/voucherledger/internal/core/ports/repositories"
	portssvc "github.com/acctsys/voucherledger/internal/core/ports/services"
	"github.com/acctsys/voucherledger/internal/middleware"
	"github.com/acctsys/voucherledger/internal/utils/accounting"
)

// reportingService serves the reconciliation queries. Voided vouchers are
// excluded from every aggregate; the repository applies that filter at query
// time so both reports follow one policy.
type reportingService struct {
	reportingRepo portsrepo.ReportingRepository
	accountRepo   portsrepo.AccountRepository
}

// NewReportingService creates the reporting service.
func NewReportingService(reportingRepo portsrepo.ReportingRepository, accountRepo portsrepo.AccountRepository) portssvc.ReportingSvcFacade {
	return &reportingService{
		reportingRepo: reportingRepo,
		accountRepo:   accountRepo,
	}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// AccountLedger returns the ordered entries for one account with a running
// balance. The running balance is uniformly debit-positive: debits add,
// credits subtract, for every account category alike. Normal-balance signs
// per category are deliberately not applied.
func (s *reportingService) AccountLedger(ctx context.Context, accountCode string, start, end *time.Time) (*domain.AccountLedger, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByCode(ctx, accountCode)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", accountCode, err)
	}

	lines, err := s.reportingRepo.GetAccountEntryLines(ctx, accountCode, start, end)
	if err != nil {
		logger.Error("Failed to load account entry lines", slog.String("account_code", accountCode), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to load ledger for account %s: %w", accountCode, err)
	}

	rows := make([]domain.LedgerRow, len(lines))
	running := decimal.Zero
	totalDebits := decimal.Zero
	totalCredits := decimal.Zero
	for i, line := range lines {
		if line.Side == domain.Debit {
			running = running.Add(line.Amount)
			totalDebits = totalDebits.Add(line.Amount)
		} else {
			running = running.Sub(line.Amount)
			totalCredits = totalCredits.Add(line.Amount)
		}
		rows[i] = domain.LedgerRow{
			Kind:           line.Kind,
			Number:         line.Number,
			Date:           line.Date,
			Description:    line.AccountDescription,
			Amount:         line.Amount,
			Side:           line.Side,
			RunningBalance: running,
		}
	}

	logger.Debug("Account ledger assembled",
		slog.String("account_code", accountCode),
		slog.Int("row_count", len(rows)))

	return &domain.AccountLedger{
		Account:      *account,
		Rows:         rows,
		TotalDebits:  totalDebits,
		TotalCredits: totalCredits,
		Balance:      totalDebits.Sub(totalCredits),
		StartDate:    start,
		EndDate:      end,
	}, nil
}

// TrialBalance aggregates per-account totals over all non-void vouchers and
// reports whether the ledger balances overall within the currency tolerance.
func (s *reportingService) TrialBalance(ctx context.Context, asOf *time.Time) (*domain.TrialBalance, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	rows, err := s.reportingRepo.GetTrialBalanceRows(ctx, asOf)
	if err != nil {
		logger.Error("Failed to load trial balance rows", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to load trial balance: %w", err)
	}

	totalDebits := decimal.Zero
	totalCredits := decimal.Zero
	for _, row := range rows {
		totalDebits = totalDebits.Add(row.TotalDebits)
		totalCredits = totalCredits.Add(row.TotalCredits)
	}
	diff := totalDebits.Sub(totalCredits).Abs()

	report := &domain.TrialBalance{
		Rows:         rows,
		TotalDebits:  totalDebits,
		TotalCredits: totalCredits,
		Difference:   diff,
		Balanced:     diff.LessThan(accounting.Tolerance),
		AsOf:         asOf,
		GeneratedAt:  time.Now().UTC(),
	}

	logger.Info("Trial balance generated",
		slog.Int("row_count", len(rows)),
		slog.Bool("balanced", report.Balanced))
	return report, nil
}
