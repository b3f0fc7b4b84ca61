package domain

// AccountType classifies an account in the chart of accounts by the kind of
// entity or purpose it represents.
type AccountType string

const (
	Company    AccountType = "COMPANY"
	Customer   AccountType = "CUSTOMER"
	Employee   AccountType = "EMPLOYEE"
	Vendor     AccountType = "VENDOR"
	Subsidiary AccountType = "SUBSIDIARY"
)

// AccountStatus is the lifecycle state of an account. Accounts are never hard
// deleted; a deactivated account keeps resolving for historical entry lines
// but cannot be used as a payee on new vouchers.
type AccountStatus string

const (
	AccountStatusActive      AccountStatus = "ACTIVE"
	AccountStatusDeactivated AccountStatus = "DEACTIVATED"
)

// Account represents a chart-of-accounts entry. Code is the unique business
// key referenced by ledger headers, entry lines and subsidiary lines.
type Account struct {
	Code        string        `json:"code"`
	Description string        `json:"description"`
	Type        AccountType   `json:"type"`
	Prefix      string        `json:"prefix"` // classification prefix, e.g. "10" for bank accounts
	Status      AccountStatus `json:"status"`
	AuditFields
}

// IsActive reports whether the account may be used on new vouchers.
func (a Account) IsActive() bool {
	return a.Status == AccountStatusActive
}

// KnownAccountTypes lists the valid account classifications.
func KnownAccountTypes() []AccountType {
	return []AccountType{Company, Customer, Employee, Vendor, Subsidiary}
}

// ValidAccountType reports whether t is a known classification.
func ValidAccountType(t AccountType) bool {
	for _, known := range KnownAccountTypes() {
		if t == known {
			return true
		}
	}
	return false
}
