package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// StocktakeLine is stored inside the stocktake row as JSON.
type StocktakeLine struct {
	Id                    uuid.UUID `json:"id"`
	ItemId                string    `json:"item_id"`
	ItemName              string    `json:"item_name"`
	PackSize              float64   `json:"pack_size"`
	SnapshotNumberOfPacks float64   `json:"snapshot_number_of_packs"`
	CountedNumberOfPacks  *float64  `json:"counted_number_of_packs,omitempty"`
	Comment               string    `json:"comment,omitempty"`
}

type Stocktake struct {
	Id              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	StoreId         string    `gorm:"type:varchar(64);not null;index"`
	StocktakeNumber int64     `gorm:"not null"`
	Status          string    `gorm:"type:varchar(32);not null"`
	Description     string    `gorm:"type:text"`
	Comment         string    `gorm:"type:text"`
	StocktakeDate   *datatypes.Date
	IsLocked        bool                               `gorm:"not null;default:false"`
	Lines           datatypes.JSONSlice[StocktakeLine] `gorm:"type:jsonb"`
	CreatedAt       time.Time                          `gorm:"autoCreateTime"`
	UpdatedAt       time.Time                          `gorm:"autoUpdateTime"`
	FinalisedAt     *time.Time
}

func (Stocktake) TableName() string {
	return "stocktakes"
}
