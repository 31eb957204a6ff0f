package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// InvoiceLine is stored inside the invoice row as JSON.
type InvoiceLine struct {
	Id            uuid.UUID `json:"id"`
	ItemId        string    `json:"item_id"`
	ItemName      string    `json:"item_name"`
	BatchName     string    `json:"batch,omitempty"`
	PackSize      float64   `json:"pack_size"`
	NumberOfPacks float64   `json:"number_of_packs"`
	Note          string    `json:"note,omitempty"`
}

type Invoice struct {
	Id             uuid.UUID                        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	StoreId        string                           `gorm:"type:varchar(64);not null;index:idx_invoices_store_type"`
	Type           string                           `gorm:"type:varchar(32);not null;index:idx_invoices_store_type"`
	InvoiceNumber  int64                            `gorm:"not null"`
	Status         string                           `gorm:"type:varchar(32);not null"`
	OtherPartyId   uuid.UUID                        `gorm:"type:uuid;not null;index"`
	OtherPartyName string                           `gorm:"type:varchar(255)"`
	Comment        string                           `gorm:"type:text"`
	TheirReference string                           `gorm:"type:varchar(255)"`
	Colour         string                           `gorm:"type:varchar(16)"`
	OnHold         bool                             `gorm:"not null;default:false"`
	RequisitionId  *uuid.UUID                       `gorm:"type:uuid;index"`
	Lines          datatypes.JSONSlice[InvoiceLine] `gorm:"type:jsonb"`
	CreatedAt      time.Time                        `gorm:"autoCreateTime"`
	UpdatedAt      time.Time                        `gorm:"autoUpdateTime"`
	FinalisedAt    *time.Time
}

func (Invoice) TableName() string {
	return "invoices"
}
