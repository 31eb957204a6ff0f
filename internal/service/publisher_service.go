package service

import (
	"context"
	"encoding/json"
	"fmt"

	"stockflow/internal/pkg/logger"
	"stockflow/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// IPublisherService announces committed document writes.
type IPublisherService interface {
	Publish(ctx context.Context, event events.DocumentEvent)
}

// EventPublisher is an external bus such as NATS.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type publisherService struct {
	topicName string
	pubSub    message.Publisher
	external  EventPublisher
	logger    logger.ILogger
}

// NewPublisherService publishes to the in-process topic and, when external is
// not nil, to the external bus as well.
func NewPublisherService(topicName string, pubSub message.Publisher, external EventPublisher, log logger.ILogger) IPublisherService {
	return &publisherService{
		topicName: topicName,
		pubSub:    pubSub,
		external:  external,
		logger:    log,
	}
}

// Publish never fails the caller: the write it reports is already committed.
func (p *publisherService) Publish(ctx context.Context, event events.DocumentEvent) {
	if err := p.publishLocal(ctx, event); err != nil {
		p.logger.Warn("PUBLISHER", "Failed to publish event in process", map[string]interface{}{
			"type":  event.EventType(),
			"kind":  event.Kind,
			"error": err.Error(),
		})
	}
	if p.external == nil {
		return
	}
	if err := p.external.Publish(ctx, event); err != nil {
		p.logger.Warn("PUBLISHER", "Failed to publish event externally", map[string]interface{}{
			"type":  event.EventType(),
			"kind":  event.Kind,
			"error": err.Error(),
		})
	}
}

func (p *publisherService) publishLocal(ctx context.Context, event events.DocumentEvent) error {
	payload, err := json.Marshal(event.Payload())
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	return p.pubSub.Publish(p.topicName, msg)
}
