package remote

import (
	"fmt"
	"time"

	"stockflow/pkg/document"

	"github.com/google/uuid"
)

func stringField(doc document.Document, field document.FieldName) *string {
	if v, ok := doc[field].(string); ok {
		return &v
	}
	return nil
}

func boolField(doc document.Document, field document.FieldName) *bool {
	if v, ok := doc[field].(bool); ok {
		return &v
	}
	return nil
}

func floatField(doc document.Document, field document.FieldName) *float64 {
	var f float64
	switch v := doc[field].(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	default:
		return nil
	}
	return &f
}

func timeField(doc document.Document, field document.FieldName) (*time.Time, error) {
	switch v := doc[field].(type) {
	case time.Time:
		return &v, nil
	case *time.Time:
		return v, nil
	case string:
		for _, layout := range []string{time.RFC3339, time.DateOnly} {
			if t, err := time.Parse(layout, v); err == nil {
				return &t, nil
			}
		}
		return nil, fmt.Errorf("%s: %q is not a date", field, v)
	}
	return nil, nil
}

// referenceID reads the counterparty from the association field, which the
// draft edits, and falls back to the flat id field.
func referenceID(doc document.Document) (*uuid.UUID, error) {
	raw := ""
	switch ref := doc[document.FieldOtherParty].(type) {
	case document.Reference:
		raw = ref.ID
	case *document.Reference:
		if ref != nil {
			raw = ref.ID
		}
	}
	if raw == "" {
		raw = doc.String(document.FieldOtherPartyID)
	}
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", document.FieldOtherParty, err)
	}
	return &id, nil
}
