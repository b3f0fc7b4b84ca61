package dto

import (
	"time"

	"github.com/acctsys/voucherledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// EntryLineInput is one debit or credit line on a create request. The account
// description is optional; when omitted the service snapshots the registered
// account description.
type EntryLineInput struct {
	AccountCode        string          `json:"accountCode" binding:"required,max=50"`
	AccountDescription string          `json:"accountDescription" binding:"max=255"`
	Amount             decimal.Decimal `json:"amount" binding:"required"`
	Side               string          `json:"side" binding:"required,oneof=D C"`
}

// SubsidiaryLineInput attributes part of an entry line to a subsidiary code.
type SubsidiaryLineInput struct {
	AccountCode           string          `json:"accountCode" binding:"required,max=50"`
	SubsidiaryCode        string          `json:"subsidiaryCode" binding:"required,max=50"`
	SubsidiaryDescription string          `json:"subsidiaryDescription" binding:"max=255"`
	Amount                decimal.Decimal `json:"amount" binding:"required"`
}

// CreateVoucherPayableRequest is the payload for recording a payment obligation.
type CreateVoucherPayableRequest struct {
	Date            time.Time             `json:"date" binding:"required"`
	PayeeCode       string                `json:"payeeCode" binding:"required,max=50"`
	TotalAmount     decimal.Decimal       `json:"totalAmount" binding:"required"`
	Description     string                `json:"description"`
	DueDate         *time.Time            `json:"dueDate,omitempty"`
	EntryLines      []EntryLineInput      `json:"entryLines,omitempty" binding:"omitempty,dive"`
	SubsidiaryLines []SubsidiaryLineInput `json:"subsidiaryLines,omitempty" binding:"omitempty,dive"`
}

// CreateCheckVoucherRequest is the payload for recording a disbursement,
// optionally settling a voucher payable.
type CreateCheckVoucherRequest struct {
	Date            time.Time             `json:"date" binding:"required"`
	PayeeCode       string                `json:"payeeCode" binding:"required,max=50"`
	TotalAmount     decimal.Decimal       `json:"totalAmount" binding:"required"`
	Description     string                `json:"description"`
	VPNumber        string                `json:"vpNumber,omitempty"`
	CheckNumber     string                `json:"checkNumber,omitempty"`
	BankAccount     string                `json:"bankAccount,omitempty"`
	EntryLines      []EntryLineInput      `json:"entryLines,omitempty" binding:"omitempty,dive"`
	SubsidiaryLines []SubsidiaryLineInput `json:"subsidiaryLines,omitempty" binding:"omitempty,dive"`
}

// VoidVoucherRequest carries the reason for voiding a transaction.
type VoidVoucherRequest struct {
	Reason string `json:"reason" binding:"required,max=255"`
}

// ListVouchersParams are the query parameters for listing vouchers.
type ListVouchersParams struct {
	Kind      *string    `form:"kind" binding:"omitempty,voucherkind"`
	Status    *string    `form:"status" binding:"omitempty,oneof=active paid void"`
	StartDate *time.Time `form:"startDate" time_format:"2006-01-02"`
	EndDate   *time.Time `form:"endDate" time_format:"2006-01-02"`
	Limit     int        `form:"limit"`
	NextToken *string    `form:"nextToken"`
}

// CreateVoucherResponse is the structured result of a create operation.
type CreateVoucherResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Number  string `json:"number,omitempty"`
}

// VoucherResponse is the API representation of a ledger header.
type VoucherResponse struct {
	Kind        string          `json:"kind"`
	Number      string          `json:"number"`
	Date        time.Time       `json:"date"`
	PayeeCode   string          `json:"payeeCode"`
	Payee       string          `json:"payee"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Description string          `json:"description,omitempty"`
	DueDate     *time.Time      `json:"dueDate,omitempty"`
	CheckNumber string          `json:"checkNumber,omitempty"`
	Status      string          `json:"status"`
	VoidReason  string          `json:"voidReason,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	CreatedBy   string          `json:"createdBy,omitempty"`
}

// ListVouchersResponse is a page of vouchers plus the cursor for the next page.
type ListVouchersResponse struct {
	Vouchers  []VoucherResponse `json:"vouchers"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// TransactionDetailResponse is the composite returned by transaction lookups.
type TransactionDetailResponse struct {
	Header          VoucherResponse         `json:"header"`
	EntryLines      []domain.EntryLine      `json:"entryLines"`
	SubsidiaryLines []domain.SubsidiaryLine `json:"subsidiaryLines"`
	BalanceCheck    domain.BalanceCheck     `json:"balanceCheck"`
	IsBalanced      bool                    `json:"isBalanced"`
}

// ToVoucherResponse converts a domain VoucherHeader to its API representation.
func ToVoucherResponse(h *domain.VoucherHeader) VoucherResponse {
	return VoucherResponse{
		Kind:        string(h.Kind),
		Number:      h.Number,
		Date:        h.Date,
		PayeeCode:   h.PayeeCode,
		Payee:       h.Payee,
		TotalAmount: h.TotalAmount,
		Description: h.Description,
		DueDate:     h.DueDate,
		CheckNumber: h.CheckNumber,
		Status:      string(h.Status),
		VoidReason:  h.VoidReason,
		CreatedAt:   h.CreatedAt,
		CreatedBy:   h.CreatedBy,
	}
}

// ToVoucherResponses converts a slice of domain VoucherHeaders.
func ToVoucherResponses(headers []domain.VoucherHeader) []VoucherResponse {
	out := make([]VoucherResponse, len(headers))
	for i := range headers {
		out[i] = ToVoucherResponse(&headers[i])
	}
	return out
}

// ToTransactionDetailResponse converts a domain TransactionDetail.
func ToTransactionDetailResponse(d *domain.TransactionDetail) TransactionDetailResponse {
	return TransactionDetailResponse{
		Header:          ToVoucherResponse(&d.Header),
		EntryLines:      d.EntryLines,
		SubsidiaryLines: d.SubsidiaryLines,
		BalanceCheck:    d.BalanceCheck,
		IsBalanced:      d.BalanceCheck.Balanced,
	}
}
