package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// RequisitionLine is stored inside the requisition row as JSON.
type RequisitionLine struct {
	Id                uuid.UUID `json:"id"`
	ItemId            string    `json:"item_id"`
	ItemName          string    `json:"item_name"`
	RequestedQuantity float64   `json:"requested_quantity"`
	SupplyQuantity    float64   `json:"supply_quantity"`
	SuppliedQuantity  float64   `json:"supplied_quantity"`
}

type Requisition struct {
	Id                uuid.UUID                            `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	StoreId           string                               `gorm:"type:varchar(64);not null;index:idx_requisitions_store_type"`
	Type              string                               `gorm:"type:varchar(32);not null;index:idx_requisitions_store_type"`
	RequisitionNumber int64                                `gorm:"not null"`
	Status            string                               `gorm:"type:varchar(32);not null"`
	OtherPartyId      uuid.UUID                            `gorm:"type:uuid;not null;index"`
	OtherPartyName    string                               `gorm:"type:varchar(255)"`
	Comment           string                               `gorm:"type:text"`
	TheirReference    string                               `gorm:"type:varchar(255)"`
	Colour            string                               `gorm:"type:varchar(16)"`
	MinMonthsOfStock  float64                              `gorm:"not null;default:0"`
	MaxMonthsOfStock  float64                              `gorm:"not null;default:0"`
	Lines             datatypes.JSONSlice[RequisitionLine] `gorm:"type:jsonb"`
	CreatedAt         time.Time                            `gorm:"autoCreateTime"`
	UpdatedAt         time.Time                            `gorm:"autoUpdateTime"`
	SentAt            *time.Time
	FinalisedAt       *time.Time
}

func (Requisition) TableName() string {
	return "requisitions"
}
