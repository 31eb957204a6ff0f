package specification

import (
	"gorm.io/gorm"

	"stockflow/pkg/document"
)

// Specification defines the interface for query specifications
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}

// InMemory is implemented by specifications the memory repositories can
// evaluate. Rows carry the entity's client fields plus FieldStore and
// FieldKind.
type InMemory interface {
	Filter(rows []document.Document) ([]document.Document, error)
}

// Row fields the memory repositories add for store and kind scoping.
const (
	FieldStore document.FieldName = "_store"
	FieldKind  document.FieldName = "_kind"
)

func keep(rows []document.Document, pred func(document.Document) bool) []document.Document {
	out := make([]document.Document, 0, len(rows))
	for _, r := range rows {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}
