package dto

import (
	"time"

	"github.com/google/uuid"
)

type StocktakeLineResponse struct {
	Id                    uuid.UUID `json:"id"`
	ItemId                string    `json:"itemId"`
	ItemName              string    `json:"itemName"`
	PackSize              float64   `json:"packSize"`
	SnapshotNumberOfPacks float64   `json:"snapshotNumberOfPacks"`
	CountedNumberOfPacks  *float64  `json:"countedNumberOfPacks"`
	Difference            float64   `json:"difference"`
	Comment               string    `json:"comment"`
}

type StocktakeResponse struct {
	Id                uuid.UUID               `json:"id"`
	StocktakeNumber   int64                   `json:"stocktakeNumber"`
	Status            string                  `json:"status"`
	Description       string                  `json:"description"`
	Comment           string                  `json:"comment"`
	StocktakeDate     *time.Time              `json:"stocktakeDate,omitempty"`
	IsLocked          bool                    `json:"isLocked"`
	Lines             []StocktakeLineResponse `json:"lines"`
	CreatedDatetime   time.Time               `json:"createdDatetime"`
	FinalisedDatetime *time.Time              `json:"finalisedDatetime,omitempty"`
}

type CreateStocktakeRequest struct {
	Id            *uuid.UUID `json:"id"`
	Description   string     `json:"description" validate:"max=1000"`
	Comment       string     `json:"comment" validate:"max=1000"`
	StocktakeDate *time.Time `json:"stocktakeDate"`
}

type UpdateStocktakeRequest struct {
	Id            uuid.UUID  `json:"id"`
	Status        *string    `json:"status"`
	Description   *string    `json:"description" validate:"omitempty,max=1000"`
	Comment       *string    `json:"comment" validate:"omitempty,max=1000"`
	StocktakeDate *time.Time `json:"stocktakeDate"`
	IsLocked      *bool      `json:"isLocked"`
}

type InsertStocktakeLineRequest struct {
	Id                    *uuid.UUID `json:"id"`
	ItemId                string     `json:"itemId" validate:"required"`
	ItemName              string     `json:"itemName" validate:"required"`
	PackSize              float64    `json:"packSize" validate:"gt=0"`
	SnapshotNumberOfPacks float64    `json:"snapshotNumberOfPacks" validate:"gte=0"`
	CountedNumberOfPacks  *float64   `json:"countedNumberOfPacks" validate:"omitempty,gte=0"`
	Comment               string     `json:"comment" validate:"max=1000"`
}

type UpdateStocktakeLineRequest struct {
	CountedNumberOfPacks *float64 `json:"countedNumberOfPacks" validate:"omitempty,gte=0"`
	Comment              *string  `json:"comment" validate:"omitempty,max=1000"`
}
