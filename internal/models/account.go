package models

// AccountType classifies a chart-of-accounts entry.
type AccountType string

// AccountStatus is the persisted lifecycle state of an account.
type AccountStatus string

// Account is the persistence model for the acct_definition table.
type Account struct {
	Code        string        `db:"acct_code"`
	Description string        `db:"acct_description"`
	Type        AccountType   `db:"acct_type"`
	Prefix      string        `db:"acct_prefix"`
	Status      AccountStatus `db:"status"`
	AuditFields
}
