package services

import (
	"context"

	"github.com/acctsys/voucherledger/internal/core/domain"
)

// AuditRecorder is the external audit collaborator. Recording is best effort:
// callers log a failure and move on; a failed record never rolls back the
// financial write it describes.
type AuditRecorder interface {
	Record(ctx context.Context, event domain.AuditEvent) error
}
