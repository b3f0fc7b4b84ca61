package domain

import "time"

// AuditEvent is a fire-and-forget record emitted after a financial write has
// committed. Delivery is best effort: a failing audit collaborator must never
// undo a committed write.
type AuditEvent struct {
	EventID    string         `json:"eventID"`
	Actor      string         `json:"actor"`
	Action     string         `json:"action"`
	EntityType string         `json:"entityType"`
	EntityID   string         `json:"entityID"`
	OldValues  map[string]any `json:"oldValues,omitempty"`
	NewValues  map[string]any `json:"newValues,omitempty"`
	OccurredAt time.Time      `json:"occurredAt"`
}

// Audit action names emitted by the voucher service.
const (
	ActionCreateVoucherPayable = "CREATE_VOUCHER_PAYABLE"
	ActionCreateCheckVoucher   = "CREATE_CHECK_VOUCHER"
	ActionVoidTransaction      = "VOID_TRANSACTION"
	ActionCreateAccount        = "CREATE_ACCOUNT"
	ActionDeactivateAccount    = "DEACTIVATE_ACCOUNT"
)
