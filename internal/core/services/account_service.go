package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/acctsys/voucherledger/internal/apperrors"
	"github.com/acctsys/voucherledger/internal/core/domain"
	portsrepo "github.com/acctsys/voucherledger/internal/core/ports/repositories"
	portssvc "github.com/acctsys/voucherledger/internal/core/ports/services"
	"github.com/acctsys/voucherledger/internal/dto"
	"github.com/acctsys/voucherledger/internal/middleware"
)

// accountService implements the chart-of-accounts registry.
type accountService struct {
	accountRepo portsrepo.AccountRepository
	audit       portssvc.AuditRecorder
}

// NewAccountService creates the account registry service.
func NewAccountService(accountRepo portsrepo.AccountRepository, audit portssvc.AuditRecorder) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo: accountRepo,
		audit:       audit,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount registers a new chart-of-accounts entry.
func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creator string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	code := strings.TrimSpace(req.Code)
	if code == "" {
		return nil, fmt.Errorf("%w: account code is required", apperrors.ErrValidation)
	}
	accountType := domain.AccountType(req.Type)
	if !domain.ValidAccountType(accountType) {
		return nil, fmt.Errorf("%w: unknown account type %q, must be one of %v", apperrors.ErrValidation, req.Type, domain.KnownAccountTypes())
	}

	now := time.Now().UTC()
	account := domain.Account{
		Code:        code,
		Description: strings.TrimSpace(req.Description),
		Type:        accountType,
		Prefix:      strings.TrimSpace(req.Prefix),
		Status:      domain.AccountStatusActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creator,
			LastUpdatedAt: now,
			LastUpdatedBy: creator,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("Account code already taken", slog.String("code", code))
			return nil, fmt.Errorf("%w: account code %s is already taken", apperrors.ErrDuplicate, code)
		}
		logger.Error("Failed to save account", slog.String("code", code), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save account %s: %w", code, err)
	}

	s.recordAudit(ctx, domain.AuditEvent{
		EventID:    uuid.NewString(),
		Actor:      creator,
		Action:     domain.ActionCreateAccount,
		EntityType: "acct_definition",
		EntityID:   code,
		NewValues: map[string]any{
			"code":        code,
			"description": account.Description,
			"type":        string(account.Type),
			"prefix":      account.Prefix,
		},
		OccurredAt: now,
	})

	logger.Info("Account created", slog.String("code", code), slog.String("type", string(account.Type)))
	return &account, nil
}

// GetAccountByCode returns an account regardless of lifecycle state, so
// historical lines referencing deactivated accounts keep resolving.
func (s *accountService) GetAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", code, err)
	}
	return account, nil
}

// ListAccounts returns accounts matching the given filters, ordered by code.
func (s *accountService) ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, error) {
	filter := portsrepo.ListAccountsFilter{
		Prefix:             params.Prefix,
		IncludeDeactivated: params.IncludeDeactivated,
	}
	if params.Type != nil {
		accountType := domain.AccountType(*params.Type)
		if !domain.ValidAccountType(accountType) {
			return nil, fmt.Errorf("%w: unknown account type %q, must be one of %v", apperrors.ErrValidation, *params.Type, domain.KnownAccountTypes())
		}
		filter.Type = &accountType
	}

	accounts, err := s.accountRepo.ListAccounts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// DeactivateAccount soft-deactivates an account. No cascade: entry lines that
// reference the account are untouched.
func (s *accountService) DeactivateAccount(ctx context.Context, code string, actor string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	if err := s.accountRepo.DeactivateAccount(ctx, code, actor, now); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrConflict) {
			logger.Error("Failed to deactivate account", slog.String("code", code), slog.String("error", err.Error()))
		}
		return fmt.Errorf("failed to deactivate account %s: %w", code, err)
	}

	s.recordAudit(ctx, domain.AuditEvent{
		EventID:    uuid.NewString(),
		Actor:      actor,
		Action:     domain.ActionDeactivateAccount,
		EntityType: "acct_definition",
		EntityID:   code,
		OldValues:  map[string]any{"status": string(domain.AccountStatusActive)},
		NewValues:  map[string]any{"status": string(domain.AccountStatusDeactivated)},
		OccurredAt: now,
	})

	logger.Info("Account deactivated", slog.String("code", code))
	return nil
}

// recordAudit ships an audit event, logging and swallowing any failure.
func (s *accountService) recordAudit(ctx context.Context, event domain.AuditEvent) {
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
