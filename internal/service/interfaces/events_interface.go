package interfaces

import (
	"context"

	"loan-case-tracker/internal/pkg/models"
)

// EventSink delivers one serialised event. Key is the case id.
type EventSink interface {
	Publish(ctx context.Context, key string, msg []byte) error
}

// CaseEventPublisher is what the case store emits mutations to.
type CaseEventPublisher interface {
	Publish(ctx context.Context, event models.CaseEvent)
}
