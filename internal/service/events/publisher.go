package events

import (
	"context"
	"encoding/json"
	"time"

	"loan-case-tracker/internal/pkg/log_messages"
	"loan-case-tracker/internal/pkg/logger"
	"loan-case-tracker/internal/pkg/models"
	"loan-case-tracker/internal/service/interfaces"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type namedSink struct {
	name string
	sink interfaces.EventSink
}

// Publisher fans case events out to every configured sink. A failing sink is
// logged and does not stop the others.
type Publisher struct {
	sinks []namedSink
	now   func() time.Time
}

func NewPublisher() *Publisher {
	return &Publisher{now: time.Now}
}

// AddSink registers a sink under name. Nil sinks are ignored.
func (p *Publisher) AddSink(name string, sink interfaces.EventSink) *Publisher {
	if sink != nil {
		p.sinks = append(p.sinks, namedSink{name: name, sink: sink})
	}
	return p
}

func (p *Publisher) Sinks() int {
	return len(p.sinks)
}

func (p *Publisher) Publish(ctx context.Context, event models.CaseEvent) {
	if len(p.sinks) == 0 {
		return
	}
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = p.now()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		logger.CtxError(ctx, log_messages.CaseEventPublishFailed, err, zap.String("case_id", event.CaseID))
		return
	}

	for _, s := range p.sinks {
		if err := s.sink.Publish(ctx, event.CaseID, payload); err != nil {
			logger.CtxError(ctx, log_messages.CaseEventPublishFailed, err,
				zap.String("sink", s.name),
				zap.String("case_id", event.CaseID),
				zap.String("type", event.Type),
			)
		}
	}
}

// NewEvent builds an event for c.
func NewEvent(eventType string, c models.LoanCase, documentType string) models.CaseEvent {
	return models.CaseEvent{
		Type:       eventType,
		CaseID:     c.ID,
		Status:     c.Status,
		TeamMember: c.TeamMember,
		Document:   documentType,
	}
}
