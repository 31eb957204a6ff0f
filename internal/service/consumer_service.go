package service

import (
	"context"
	"encoding/json"

	"stockflow/internal/pkg/logger"
	"stockflow/pkg/document"
	"stockflow/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
	Handle(ctx context.Context, event events.Event) error
}

// Invalidator drops cached query results under a key prefix.
type Invalidator interface {
	Invalidate(prefix document.QueryKey)
}

type consumerService struct {
	pubSub       message.Subscriber
	topicName    string
	invalidators []Invalidator
	logger       logger.ILogger
}

// NewConsumerService invalidates every given cache for the kind and store of
// each document event it receives.
func NewConsumerService(pubSub message.Subscriber, topicName string, log logger.ILogger, invalidators ...Invalidator) IConsumerService {
	return &consumerService{
		pubSub:       pubSub,
		topicName:    topicName,
		invalidators: invalidators,
		logger:       log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	var payload map[string]interface{}
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("CONSUMER", "Failed to unmarshal message", map[string]interface{}{"error": err.Error()})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	event, err := events.DocumentEventFrom("", payload)
	if err != nil {
		cs.logger.Error("CONSUMER", "Dropping malformed document event", map[string]interface{}{"error": err.Error()})
		msg.Ack()
		return
	}
	cs.invalidate(event)
	msg.Ack()
}

// Handle serves events from the external bus. Malformed events are logged
// and acknowledged.
func (cs *consumerService) Handle(_ context.Context, event events.Event) error {
	de, err := events.DocumentEventFrom(event.EventType(), event.Payload())
	if err != nil {
		cs.logger.Error("CONSUMER", "Dropping malformed document event", map[string]interface{}{"error": err.Error()})
		return nil
	}
	cs.invalidate(de)
	return nil
}

func (cs *consumerService) invalidate(event events.DocumentEvent) {
	prefix := document.BaseKey(document.Kind(event.Kind), event.StoreID)
	for _, inv := range cs.invalidators {
		inv.Invalidate(prefix)
	}
	cs.logger.Debug("CONSUMER", "Invalidated cached queries", map[string]interface{}{
		"type":  event.EventType(),
		"kind":  event.Kind,
		"store": event.StoreID,
		"ids":   event.IDs,
	})
}
