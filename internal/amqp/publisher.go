package amqp

import (
	"context"

	applog "trust/internal/log"
	"trust/internal/store"
)

// Publisher is the part of Client the store subscriber needs.
type Publisher interface {
	PublishDataChanged(ctx context.Context, msg *DataChangedMessage) error
}

// MessageFromEvent maps a store event onto the wire message.
func MessageFromEvent(ev store.Event) *DataChangedMessage {
	return &DataChangedMessage{
		Op:        ev.Op,
		Entity:    ev.Entity,
		EntityID:  ev.EntityID,
		Members:   ev.Members,
		Donations: ev.Donations,
		FundTotal: ev.FundTotal,
		Persisted: ev.SaveErr == nil,
		Timestamp: ev.At,
	}
}

// ChangeSubscriber returns a store subscriber that publishes every change.
// Publish failures are logged and never reach the mutation's caller: the
// data is already saved locally.
func ChangeSubscriber(p Publisher, logger *applog.Logger) store.Subscriber {
	if logger == nil {
		logger = applog.FromContext(context.Background())
	}
	logger = logger.WithComponent(applog.ComponentAMQP)

	return func(ctx context.Context, ev store.Event) {
		// Outlive the request that triggered the change.
		ctx = context.WithoutCancel(ctx)
		if err := p.PublishDataChanged(ctx, MessageFromEvent(ev)); err != nil {
			logger.ErrorContext(ctx, "Failed to publish data changed message",
				applog.NewFields().
					WithError(err).
					WithErrorType(applog.ErrorTypeNetwork).
					WithOperation(applog.OpPublish).
					ToSlice()...)
		}
	}
}
