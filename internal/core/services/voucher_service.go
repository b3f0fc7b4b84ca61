package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/acctsys/voucherledger/internal/apperrors"
	"github.com/acctsys/voucherledger/internal/core/domain"
	portsrepo "github.com/acctsys/voucherledger/internal/core/ports/repositories"
	portssvc "github.com/acctsys/voucherledger/internal/core/ports/services"
	"github.com/acctsys/voucherledger/internal/dto"
	"github.com/acctsys/voucherledger/internal/middleware"
	"github.com/acctsys/voucherledger/internal/platform/config"
	"github.com/acctsys/voucherledger/internal/utils/accounting"
)

const defaultListLimit = 20

// voucherService is the transaction orchestrator. It validates against the
// account registry, enforces the double-entry balance invariant before any
// persistence, delegates the atomic write (including number assignment and VP
// settlement) to the voucher repository, and emits best-effort audit events
// after commit.
type voucherService struct {
	voucherRepo portsrepo.VoucherRepository
	accountSvc  portssvc.AccountSvcFacade
	audit       portssvc.AuditRecorder
	defaults    config.DefaultAccounts
}

// NewVoucherService creates the transaction orchestrator. The default-account
// mapping is injected so the canonical entry-pair synthesis is testable policy.
func NewVoucherService(voucherRepo portsrepo.VoucherRepository, accountSvc portssvc.AccountSvcFacade, audit portssvc.AuditRecorder, defaults config.DefaultAccounts) portssvc.VoucherSvcFacade {
	return &voucherService{
		voucherRepo: voucherRepo,
		accountSvc:  accountSvc,
		audit:       audit,
		defaults:    defaults,
	}
}

var _ portssvc.VoucherSvcFacade = (*voucherService)(nil)

// resolvePayee looks up the payee account and rejects missing or deactivated ones.
func (s *voucherService) resolvePayee(ctx context.Context, payeeCode string) (*domain.Account, error) {
	payee, err := s.accountSvc.GetAccountByCode(ctx, payeeCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: payee account %s", apperrors.ErrNotFound, payeeCode)
		}
		return nil, fmt.Errorf("failed to resolve payee %s: %w", payeeCode, err)
	}
	if !payee.IsActive() {
		return nil, fmt.Errorf("%w: payee account %s is deactivated", apperrors.ErrValidation, payeeCode)
	}
	return payee, nil
}

// buildEntryLines converts request inputs to domain lines, rounding every
// amount once and snapshotting the registered account description when the
// caller did not provide one. The repository stamps the assigned number.
func (s *voucherService) buildEntryLines(ctx context.Context, kind domain.VoucherKind, date time.Time, inputs []dto.EntryLineInput) ([]domain.EntryLine, error) {
	lines := make([]domain.EntryLine, len(inputs))
	for i, in := range inputs {
		description := in.AccountDescription
		if description == "" {
			account, err := s.accountSvc.GetAccountByCode(ctx, in.AccountCode)
			if err != nil {
				if errors.Is(err, apperrors.ErrNotFound) {
					return nil, fmt.Errorf("%w: entry line account %s is not registered", apperrors.ErrValidation, in.AccountCode)
				}
				return nil, fmt.Errorf("failed to resolve entry line account %s: %w", in.AccountCode, err)
			}
			description = account.Description
		}
		lines[i] = domain.EntryLine{
			Kind:               kind,
			Date:               date,
			AccountCode:        in.AccountCode,
			AccountDescription: description,
			Amount:             accounting.RoundCurrency(in.Amount),
			Side:               domain.EntrySide(in.Side),
		}
	}
	return lines, nil
}

// buildSubsidiaryLines converts request inputs to domain subsidiary lines.
func buildSubsidiaryLines(kind domain.VoucherKind, date time.Time, inputs []dto.SubsidiaryLineInput) []domain.SubsidiaryLine {
	subs := make([]domain.SubsidiaryLine, len(inputs))
	for i, in := range inputs {
		subs[i] = domain.SubsidiaryLine{
			Kind:                  kind,
			Date:                  date,
			AccountCode:           in.AccountCode,
			SubsidiaryCode:        in.SubsidiaryCode,
			SubsidiaryDescription: in.SubsidiaryDescription,
			Amount:                accounting.RoundCurrency(in.Amount),
		}
	}
	return subs
}

// defaultEntryPair synthesizes the canonical two-line entry for a voucher
// without explicit lines, from the injected default-account mapping.
func defaultEntryPair(kind domain.VoucherKind, date time.Time, amount decimal.Decimal, debitCode, debitDesc, creditCode, creditDesc string) []domain.EntryLine {
	return []domain.EntryLine{
		{
			Kind:               kind,
			Date:               date,
			AccountCode:        debitCode,
			AccountDescription: debitDesc,
			Amount:             amount,
			Side:               domain.Debit,
		},
		{
			Kind:               kind,
			Date:               date,
			AccountCode:        creditCode,
			AccountDescription: creditDesc,
			Amount:             amount,
			Side:               domain.Credit,
		},
	}
}

// CreateVoucherPayable records a payment obligation as a balanced set of
// ledger rows in one atomic write.
func (s *voucherService) CreateVoucherPayable(ctx context.Context, req dto.CreateVoucherPayableRequest, creator string) (*domain.VoucherHeader, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	amount := accounting.RoundCurrency(req.TotalAmount)
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: total amount must be positive", apperrors.ErrValidation)
	}

	payee, err := s.resolvePayee(ctx, req.PayeeCode)
	if err != nil {
		return nil, err
	}

	var lines []domain.EntryLine
	if len(req.EntryLines) > 0 {
		lines, err = s.buildEntryLines(ctx, domain.VoucherPayable, req.Date, req.EntryLines)
		if err != nil {
			return nil, err
		}
		if err := accounting.ValidateEntryBalance(lines, amount); err != nil {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrUnbalanced, err.Error())
		}
	} else {
		lines = defaultEntryPair(domain.VoucherPayable, req.Date, amount,
			s.defaults.VPDebitCode, s.defaults.VPDebitDescription,
			s.defaults.VPCreditCode, s.defaults.VPCreditDesc)
	}
	subs := buildSubsidiaryLines(domain.VoucherPayable, req.Date, req.SubsidiaryLines)

	now := time.Now().UTC()
	header := domain.VoucherHeader{
		Kind:        domain.VoucherPayable,
		Date:        req.Date,
		PayeeCode:   payee.Code,
		Payee:       payee.Description,
		TotalAmount: amount,
		Description: req.Description,
		DueDate:     req.DueDate,
		Status:      domain.StatusActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creator,
			LastUpdatedAt: now,
			LastUpdatedBy: creator,
		},
	}

	number, err := s.voucherRepo.SaveVoucher(ctx, header, lines, subs, nil)
	if err != nil {
		logger.Error("Failed to save voucher payable", slog.String("payee_code", payee.Code), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save voucher payable: %w", err)
	}
	header.Number = number

	s.recordAudit(ctx, domain.AuditEvent{
		EventID:    uuid.NewString(),
		Actor:      creator,
		Action:     domain.ActionCreateVoucherPayable,
		EntityType: "ledger",
		EntityID:   number,
		NewValues: map[string]any{
			"type":         string(domain.VoucherPayable),
			"number":       number,
			"payee_code":   payee.Code,
			"total_amount": amount.StringFixed(2),
			"description":  req.Description,
		},
		OccurredAt: now,
	})

	logger.Info("Voucher payable created",
		slog.String("number", number),
		slog.String("payee", payee.Description),
		slog.String("total_amount", amount.StringFixed(2)))
	return &header, nil
}

// validateSettlement checks that the referenced VP can be settled by a CV of
// the given amount. Partial settlement is not modeled: the amounts must match
// within the currency tolerance or the create is rejected.
func (s *voucherService) validateSettlement(ctx context.Context, vpNumber string, cvAmount decimal.Decimal) (*domain.VoucherHeader, error) {
	vp, err := s.voucherRepo.FindVoucherByNumber(ctx, vpNumber)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: voucher payable %s", apperrors.ErrNotFound, vpNumber)
		}
		return nil, fmt.Errorf("failed to look up voucher payable %s: %w", vpNumber, err)
	}
	if vp.Kind != domain.VoucherPayable {
		return nil, fmt.Errorf("%w: %s is not a voucher payable", apperrors.ErrValidation, vpNumber)
	}
	switch vp.Status {
	case domain.StatusVoid:
		return nil, fmt.Errorf("%w: voucher payable %s is void", apperrors.ErrConflict, vpNumber)
	case domain.StatusPaid:
		return nil, fmt.Errorf("%w: voucher payable %s is already paid", apperrors.ErrConflict, vpNumber)
	}
	if !accounting.WithinTolerance(vp.TotalAmount, cvAmount) {
		return nil, fmt.Errorf("%w: check amount %s does not match voucher payable %s amount %s; partial settlement is not supported",
			apperrors.ErrValidation, cvAmount.StringFixed(2), vpNumber, vp.TotalAmount.StringFixed(2))
	}
	return vp, nil
}

// CreateCheckVoucher records a disbursement. When a VP number is given the
// referenced obligation is marked paid in the same database transaction that
// commits the CV.
func (s *voucherService) CreateCheckVoucher(ctx context.Context, req dto.CreateCheckVoucherRequest, creator string) (*domain.VoucherHeader, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	amount := accounting.RoundCurrency(req.TotalAmount)
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: total amount must be positive", apperrors.ErrValidation)
	}

	payee, err := s.resolvePayee(ctx, req.PayeeCode)
	if err != nil {
		return nil, err
	}

	var settle *portsrepo.Settlement
	if req.VPNumber != "" {
		if _, err := s.validateSettlement(ctx, req.VPNumber, amount); err != nil {
			return nil, err
		}
		settle = &portsrepo.Settlement{VPNumber: req.VPNumber, PaidBy: creator}
	}

	var lines []domain.EntryLine
	if len(req.EntryLines) > 0 {
		lines, err = s.buildEntryLines(ctx, domain.CheckVoucher, req.Date, req.EntryLines)
		if err != nil {
			return nil, err
		}
		if err := accounting.ValidateEntryBalance(lines, amount); err != nil {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrUnbalanced, err.Error())
		}
	} else {
		creditCode := s.defaults.CVCreditCode
		creditDesc := s.defaults.CVCreditDesc
		if req.BankAccount != "" {
			creditCode = req.BankAccount
			creditDesc = "Bank - " + req.BankAccount
		}
		lines = defaultEntryPair(domain.CheckVoucher, req.Date, amount,
			s.defaults.CVDebitCode, s.defaults.CVDebitDescription,
			creditCode, creditDesc)
	}
	subs := buildSubsidiaryLines(domain.CheckVoucher, req.Date, req.SubsidiaryLines)

	description := req.Description
	if description == "" {
		description = "Check payment to " + payee.Description
	}
	if req.CheckNumber != "" {
		description += " - Check #" + req.CheckNumber
	}
	if req.VPNumber != "" {
		description += " - Payment for " + req.VPNumber
	}

	now := time.Now().UTC()
	header := domain.VoucherHeader{
		Kind:        domain.CheckVoucher,
		Date:        req.Date,
		PayeeCode:   payee.Code,
		Payee:       payee.Description,
		TotalAmount: amount,
		Description: description,
		CheckNumber: req.CheckNumber,
		Status:      domain.StatusActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creator,
			LastUpdatedAt: now,
			LastUpdatedBy: creator,
		},
	}

	number, err := s.voucherRepo.SaveVoucher(ctx, header, lines, subs, settle)
	if err != nil {
		logger.Error("Failed to save check voucher", slog.String("payee_code", payee.Code), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save check voucher: %w", err)
	}
	header.Number = number

	s.recordAudit(ctx, domain.AuditEvent{
		EventID:    uuid.NewString(),
		Actor:      creator,
		Action:     domain.ActionCreateCheckVoucher,
		EntityType: "ledger",
		EntityID:   number,
		NewValues: map[string]any{
			"type":         string(domain.CheckVoucher),
			"number":       number,
			"payee_code":   payee.Code,
			"total_amount": amount.StringFixed(2),
			"check_number": req.CheckNumber,
			"vp_number":    req.VPNumber,
		},
		OccurredAt: now,
	})

	logger.Info("Check voucher created",
		slog.String("number", number),
		slog.String("payee", payee.Description),
		slog.String("total_amount", amount.StringFixed(2)),
		slog.String("settles", req.VPNumber))
	return &header, nil
}

// GetTransaction returns the header with the lines it owns plus a balance
// diagnostic computed from the returned lines.
func (s *voucherService) GetTransaction(ctx context.Context, number string) (*domain.TransactionDetail, error) {
	header, err := s.voucherRepo.FindVoucherByNumber(ctx, number)
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction %s: %w", number, err)
	}

	lines, err := s.voucherRepo.FindEntryLinesByNumber(ctx, number)
	if err != nil {
		return nil, fmt.Errorf("failed to load entry lines for %s: %w", number, err)
	}
	subs, err := s.voucherRepo.FindSubsidiaryLinesByNumber(ctx, number)
	if err != nil {
		return nil, fmt.Errorf("failed to load subsidiary lines for %s: %w", number, err)
	}

	return &domain.TransactionDetail{
		Header:          *header,
		EntryLines:      lines,
		SubsidiaryLines: subs,
		BalanceCheck:    accounting.CheckBalance(lines),
	}, nil
}

// VoidTransaction marks a header void, keeping every owned line for the
// audit trail. Only active headers can be voided.
func (s *voucherService) VoidTransaction(ctx context.Context, number string, reason string, actor string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if reason == "" {
		return fmt.Errorf("%w: a void reason is required", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	if err := s.voucherRepo.VoidVoucher(ctx, number, reason, actor, now); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrAlreadyVoid) && !errors.Is(err, apperrors.ErrConflict) {
			logger.Error("Failed to void transaction", slog.String("number", number), slog.String("error", err.Error()))
		}
		return fmt.Errorf("failed to void transaction %s: %w", number, err)
	}

	s.recordAudit(ctx, domain.AuditEvent{
		EventID:    uuid.NewString(),
		Actor:      actor,
		Action:     domain.ActionVoidTransaction,
		EntityType: "ledger",
		EntityID:   number,
		OldValues:  map[string]any{"status": string(domain.StatusActive)},
		NewValues:  map[string]any{"status": string(domain.StatusVoid), "void_reason": reason},
		OccurredAt: now,
	})

	logger.Info("Transaction voided", slog.String("number", number), slog.String("reason", reason))
	return nil
}

// ListVouchers returns a filtered, cursor-paginated page of headers.
func (s *voucherService) ListVouchers(ctx context.Context, params dto.ListVouchersParams) (*dto.ListVouchersResponse, error) {
	filter := portsrepo.ListVouchersFilter{
		StartDate: params.StartDate,
		EndDate:   params.EndDate,
		Limit:     params.Limit,
		NextToken: params.NextToken,
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if params.Kind != nil {
		kind := domain.VoucherKind(*params.Kind)
		if !domain.ValidVoucherKind(kind) {
			return nil, fmt.Errorf("%w: unknown voucher kind %q", apperrors.ErrValidation, *params.Kind)
		}
		filter.Kind = &kind
	}
	if params.Status != nil {
		status := domain.VoucherStatus(*params.Status)
		filter.Status = &status
	}

	headers, nextToken, err := s.voucherRepo.ListVouchers(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list vouchers: %w", err)
	}

	return &dto.ListVouchersResponse{
		Vouchers:  dto.ToVoucherResponses(headers),
		NextToken: nextToken,
	}, nil
}

// NextNumber previews the next document number for year without reserving
// it. Concurrent creators may claim it first. VP and CV share one number
// space per year, so the kind only gates the request.
func (s *voucherService) NextNumber(ctx context.Context, kind domain.VoucherKind, year int) (string, error) {
	if !domain.ValidVoucherKind(kind) {
		return "", fmt.Errorf("%w: unknown voucher kind %q", apperrors.ErrValidation, kind)
	}
	number, err := s.voucherRepo.NextNumber(ctx, year)
	if err != nil {
		return "", fmt.Errorf("failed to compute next number for %d: %w", year, err)
	}
	return number, nil
}

// ValidateBalance is the read-only debits-vs-credits diagnostic over the
// persisted entry lines of one header.
func (s *voucherService) ValidateBalance(ctx context.Context, number string) (*domain.BalanceCheck, error) {
	if _, err := s.voucherRepo.FindVoucherByNumber(ctx, number); err != nil {
		return nil, fmt.Errorf("failed to find transaction %s: %w", number, err)
	}
	debits, credits, err := s.voucherRepo.GetEntryTotals(ctx, number)
	if err != nil {
		return nil, fmt.Errorf("failed to total entry lines for %s: %w", number, err)
	}
	diff := debits.Sub(credits).Abs()
	return &domain.BalanceCheck{
		Balanced:     diff.LessThan(accounting.Tolerance),
		TotalDebits:  debits,
		TotalCredits: credits,
		Difference:   diff,
	}, nil
}

// ValidateSubsidiaryTotal compares the subsidiary-line sum against the
// entry-line amount for one account on one header. The invariant is soft:
// checked here on demand, never enforced at write time.
func (s *voucherService) ValidateSubsidiaryTotal(ctx context.Context, number string, accountCode string) (*domain.SubsidiaryCheck, error) {
	if _, err := s.voucherRepo.FindVoucherByNumber(ctx, number); err != nil {
		return nil, fmt.Errorf("failed to find transaction %s: %w", number, err)
	}
	entryTotal, subTotal, err := s.voucherRepo.GetSubsidiaryTotals(ctx, number, accountCode)
	if err != nil {
		return nil, fmt.Errorf("failed to total subsidiary lines for %s/%s: %w", number, accountCode, err)
	}
	diff := entryTotal.Sub(subTotal).Abs()
	return &domain.SubsidiaryCheck{
		Balanced:        diff.LessThan(accounting.Tolerance),
		EntryTotal:      entryTotal,
		SubsidiaryTotal: subTotal,
		Difference:      diff,
	}, nil
}

// recordAudit ships an audit event, logging and swallowing any failure. The
// financial write has already committed by the time this runs.
func (s *voucherService) recordAudit(ctx context.Context, event domain.AuditEvent) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(ctx, event); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Audit record failed",
			slog.String("action", event.Action),
			slog.String("entity_id", event.EntityID),
			slog.String("error", err.Error()))
	}
}
