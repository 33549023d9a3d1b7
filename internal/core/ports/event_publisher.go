package ports

import (
	"context"

	"github.com/ironbrigade/recruitment-portal/internal/core/domain"
)

// EventPublisher delivers workflow events to the message broker.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.ApplicationEvent) error
}

// EventDispatcher accepts events for asynchronous publication. Enqueue must not block.
type EventDispatcher interface {
	Enqueue(event domain.ApplicationEvent)
}
