package entity

import (
	"time"

	"github.com/google/uuid"

	"stockflow/pkg/document"
)

type Requisition struct {
	Id                uuid.UUID
	StoreId           string
	Kind              document.Kind
	RequisitionNumber int64
	Status            string
	OtherPartyId      uuid.UUID
	OtherPartyName    string
	Comment           string
	TheirReference    string
	Colour            string
	MinMonthsOfStock  float64
	MaxMonthsOfStock  float64
	Lines             []RequisitionLine
	CreatedAt         time.Time
	UpdatedAt         *time.Time
	SentAt            *time.Time
	FinalisedAt       *time.Time
}

type RequisitionLine struct {
	Id                uuid.UUID
	ItemId            string
	ItemName          string
	RequestedQuantity float64
	SupplyQuantity    float64
	SuppliedQuantity  float64
}

// RemainingToSupply is what is still owed on the line.
func (l RequisitionLine) RemainingToSupply() float64 {
	if r := l.SupplyQuantity - l.SuppliedQuantity; r > 0 {
		return r
	}
	return 0
}
