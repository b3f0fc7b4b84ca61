package services

import (
	"context"
	"log/slog"

	"github.com/acctsys/voucherledger/internal/core/domain"
	portssvc "github.com/acctsys/voucherledger/internal/core/ports/services"
)

// slogAuditRecorder ships audit events to the structured log. The real audit
// collaborator lives outside this service; this recorder is the default sink
// so every deployment has a durable-enough trail even without one.
type slogAuditRecorder struct {
	logger *slog.Logger
}

// NewSlogAuditRecorder creates an audit recorder backed by the given logger.
func NewSlogAuditRecorder(logger *slog.Logger) portssvc.AuditRecorder {
	return &slogAuditRecorder{logger: logger}
}

var _ portssvc.AuditRecorder = (*slogAuditRecorder)(nil)

func (r *slogAuditRecorder) Record(_ context.Context, event domain.AuditEvent) error {
	r.logger.Info("audit",
		slog.String("event_id", event.EventID),
		slog.String("actor", event.Actor),
		slog.String("action", event.Action),
		slog.String("entity_type", event.EntityType),
		slog.String("entity_id", event.EntityID),
		slog.Any("old_values", event.OldValues),
		slog.Any("new_values", event.NewValues),
		slog.Time("occurred_at", event.OccurredAt),
	)
	return nil
}
