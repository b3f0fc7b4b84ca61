package dto

import (
	"time"

	"github.com/acctsys/voucherledger/internal/core/domain"
)

// CreateAccountRequest is the payload for registering a chart-of-accounts entry.
type CreateAccountRequest struct {
	Code        string `json:"code" binding:"required,max=50"`
	Description string `json:"description" binding:"required,max=255"`
	Type        string `json:"type" binding:"required,oneof=COMPANY CUSTOMER EMPLOYEE VENDOR SUBSIDIARY"`
	Prefix      string `json:"prefix" binding:"max=10"`
}

// ListAccountsParams are the query parameters for listing accounts.
type ListAccountsParams struct {
	Type               *string `form:"type"`
	Prefix             *string `form:"prefix"`
	IncludeDeactivated bool    `form:"includeDeactivated"`
}

// AccountResponse is the API representation of an account.
type AccountResponse struct {
	Code        string    `json:"code"`
	Description string    `json:"description"`
	Type        string    `json:"type"`
	Prefix      string    `json:"prefix,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ToAccountResponse converts a domain Account to its API representation.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		Code:        a.Code,
		Description: a.Description,
		Type:        string(a.Type),
		Prefix:      a.Prefix,
		Status:      string(a.Status),
		CreatedAt:   a.CreatedAt,
	}
}

// ToAccountResponses converts a slice of domain Accounts.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	out := make([]AccountResponse, len(accounts))
	for i := range accounts {
		out[i] = ToAccountResponse(&accounts[i])
	}
	return out
}
