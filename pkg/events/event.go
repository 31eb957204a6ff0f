package events

import "time"

// Event is anything that can travel over the event bus. Payload must be
// JSON-encodable; subscribers receive it back as a RawEvent.
type Event interface {
	EventType() string
	Payload() map[string]any
	Timestamp() time.Time
}

// RawEvent is an event decoded off a transport whose concrete type is not
// known yet. DocumentEventFrom turns it back into a DocumentEvent.
type RawEvent struct {
	Type       string
	Data       map[string]any
	ReceivedAt time.Time
}

func (e RawEvent) EventType() string       { return e.Type }
func (e RawEvent) Payload() map[string]any { return e.Data }
func (e RawEvent) Timestamp() time.Time    { return e.ReceivedAt }
