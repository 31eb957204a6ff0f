package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"stockflow/pkg/document"
)

// ByID filters by ID
type ByID struct {
	ID uuid.UUID
}

func (s ByID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id = ?", s.ID)
}

func (s ByID) Filter(rows []document.Document) ([]document.Document, error) {
	id := s.ID.String()
	return keep(rows, func(r document.Document) bool { return r.ID() == id }), nil
}

// ByIDs filters by a list of IDs
type ByIDs struct {
	IDs []uuid.UUID
}

func (s ByIDs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id IN ?", s.IDs)
}

func (s ByIDs) Filter(rows []document.Document) ([]document.Document, error) {
	ids := make(map[string]bool, len(s.IDs))
	for _, id := range s.IDs {
		ids[id.String()] = true
	}
	return keep(rows, func(r document.Document) bool { return ids[r.ID()] }), nil
}

// ByStore scopes a query to the rows owned by one store.
type ByStore struct {
	StoreID string
}

func (s ByStore) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("store_id = ?", s.StoreID)
}

func (s ByStore) Filter(rows []document.Document) ([]document.Document, error) {
	return keep(rows, func(r document.Document) bool { return r[FieldStore] == s.StoreID }), nil
}

// ByKind distinguishes the kinds sharing a table, e.g. outbound and inbound
// invoices.
type ByKind struct {
	Kind document.Kind
}

func (s ByKind) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("type = ?", string(s.Kind))
}

func (s ByKind) Filter(rows []document.Document) ([]document.Document, error) {
	return keep(rows, func(r document.Document) bool { return r[FieldKind] == string(s.Kind) }), nil
}
