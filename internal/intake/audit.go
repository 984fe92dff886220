package intake

import (
	"context"

	"go.uber.org/zap"

	"github.com/acidni/intake-service/internal/events"
)

// AuditSubscriber writes a structured audit trail for pipeline events.
// It is the only durable record for rejected submissions, which never
// reach an external sink.
type AuditSubscriber struct {
	logger *zap.Logger
}

// NewAuditSubscriber creates the subscriber.
func NewAuditSubscriber(logger *zap.Logger) *AuditSubscriber {
	return &AuditSubscriber{logger: logger}
}

// Register subscribes to pipeline events.
func (a *AuditSubscriber) Register(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	dispatcher.Subscribe(events.EventSubmissionAccepted, a.handleAccepted)
	dispatcher.Subscribe(events.EventSubmissionRejected, a.handleRejected)
	dispatcher.Subscribe(events.EventTicketDispatched, a.handleDispatched)
}

func (a *AuditSubscriber) handleAccepted(ctx context.Context, event events.Event) error {
	a.logger.Info("SubmissionAccepted", zap.String("kind", string(event.Kind)), zap.Any("payload", event.Payload))
	return nil
}

func (a *AuditSubscriber) handleRejected(ctx context.Context, event events.Event) error {
	a.logger.Info("SubmissionRejected", zap.String("kind", string(event.Kind)), zap.Any("payload", event.Payload))
	return nil
}

func (a *AuditSubscriber) handleDispatched(ctx context.Context, event events.Event) error {
	a.logger.Info("TicketDispatched",
		zap.String("kind", string(event.Kind)),
		zap.String("ticket_id", event.TicketID),
		zap.Any("payload", event.Payload))
	return nil
}
