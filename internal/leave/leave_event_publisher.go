package leave

import (
	"context"

	"go-hrpay/internal/events"
	"go-hrpay/internal/messaging/kafka"
)

type EventPublisher interface {
	PublishLeaveApproved(ctx context.Context, event events.LeaveLifecycleEvent) error
}

type noopEventPublisher struct{}

func (noopEventPublisher) PublishLeaveApproved(context.Context, events.LeaveLifecycleEvent) error {
	return nil
}

type outboxEventPublisher struct {
	outbox kafka.OutboxRepository
}

// NewOutboxEventPublisher queues lifecycle events on the outbox for the
// relay worker.
func NewOutboxEventPublisher(outbox kafka.OutboxRepository) EventPublisher {
	return &outboxEventPublisher{outbox: outbox}
}

func (p *outboxEventPublisher) PublishLeaveApproved(ctx context.Context, event events.LeaveLifecycleEvent) error {
	event.EventType = events.LeaveApprovedEventType
	return kafka.Enqueue(ctx, p.outbox, kafka.OutboxMessage{
		RequestID:     event.RequestID,
		AggregateType: "leave_request",
		AggregateID:   event.LeaveRequestID,
		EventType:     events.LeaveApprovedEventType,
		Topic:         events.LeaveLifecycleTopic,
		Payload:       event,
	})
}
