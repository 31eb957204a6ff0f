package events

import (
	"fmt"
	"time"
)

const (
	DocumentCreated = "DOCUMENT_CREATED"
	DocumentUpdated = "DOCUMENT_UPDATED"
	DocumentDeleted = "DOCUMENT_DELETED"
)

// DocumentEvent reports a write to one or more documents of a kind within a
// store.
type DocumentEvent struct {
	Type       string
	Kind       string
	StoreID    string
	IDs        []string
	OccurredAt time.Time
}

func NewDocumentEvent(eventType, kind, storeID string, ids ...string) DocumentEvent {
	out := make([]string, len(ids))
	copy(out, ids)
	return DocumentEvent{Type: eventType, Kind: kind, StoreID: storeID, IDs: out, OccurredAt: time.Now().UTC()}
}

func (e DocumentEvent) EventType() string { return e.Type }

func (e DocumentEvent) Timestamp() time.Time { return e.OccurredAt }

func (e DocumentEvent) Payload() map[string]any {
	ids := make([]interface{}, 0, len(e.IDs))
	for _, id := range e.IDs {
		ids = append(ids, id)
	}
	return map[string]interface{}{
		"type":        e.Type,
		"kind":        e.Kind,
		"store_id":    e.StoreID,
		"ids":         ids,
		"occurred_at": e.OccurredAt.Format(time.RFC3339Nano),
	}
}

// DocumentEventFrom rebuilds a DocumentEvent from a decoded payload.
func DocumentEventFrom(eventType string, payload map[string]interface{}) (DocumentEvent, error) {
	kind, _ := payload["kind"].(string)
	storeID, _ := payload["store_id"].(string)
	if kind == "" || storeID == "" {
		return DocumentEvent{}, fmt.Errorf("document event %s: missing kind or store_id", eventType)
	}
	if t, ok := payload["type"].(string); ok && t != "" {
		eventType = t
	}

	e := DocumentEvent{Type: eventType, Kind: kind, StoreID: storeID}
	if raw, ok := payload["ids"].([]interface{}); ok {
		for _, v := range raw {
			if id, ok := v.(string); ok {
				e.IDs = append(e.IDs, id)
			}
		}
	}
	if ts, ok := payload["occurred_at"].(string); ok {
		if parsed, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			e.OccurredAt = parsed
		}
	}
	return e, nil
}
