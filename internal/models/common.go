package models

import "time"

// AuditFields holds the audit columns shared by all persisted tables.
type AuditFields struct {
	CreatedAt     time.Time `db:"created_at"`
	CreatedBy     string    `db:"created_by"`
	LastUpdatedAt time.Time `db:"updated_at"`
	LastUpdatedBy string    `db:"updated_by"`
}
