package entity

import (
	"time"

	"github.com/google/uuid"

	"stockflow/pkg/document"
)

// Invoice is a shipment between the store and another party. Outbound
// invoices go to customers, inbound invoices come from suppliers.
type Invoice struct {
	Id             uuid.UUID
	StoreId        string
	Kind           document.Kind
	InvoiceNumber  int64
	Status         string
	OtherPartyId   uuid.UUID
	OtherPartyName string
	Comment        string
	TheirReference string
	Colour         string
	OnHold         bool
	RequisitionId  *uuid.UUID
	Lines          []InvoiceLine
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	FinalisedAt    *time.Time
}

// InvoiceLine is one item shipped on an invoice, counted in packs.
type InvoiceLine struct {
	Id            uuid.UUID
	ItemId        string
	ItemName      string
	BatchName     string
	PackSize      float64
	NumberOfPacks float64
	Note          string
}

func (l InvoiceLine) TotalUnits() float64 {
	return l.PackSize * l.NumberOfPacks
}
