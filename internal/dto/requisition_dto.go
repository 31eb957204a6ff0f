package dto

import (
	"time"

	"github.com/google/uuid"
)

type RequisitionLineResponse struct {
	Id                uuid.UUID `json:"id"`
	ItemId            string    `json:"itemId"`
	ItemName          string    `json:"itemName"`
	RequestedQuantity float64   `json:"requestedQuantity"`
	SupplyQuantity    float64   `json:"supplyQuantity"`
	SuppliedQuantity  float64   `json:"suppliedQuantity"`
	RemainingToSupply float64   `json:"remainingToSupply"`
}

type RequisitionResponse struct {
	Id                uuid.UUID                 `json:"id"`
	RequisitionNumber int64                     `json:"requisitionNumber"`
	Status            string                    `json:"status"`
	OtherParty        NameReference             `json:"otherParty"`
	OtherPartyId      uuid.UUID                 `json:"otherPartyId"`
	OtherPartyName    string                    `json:"otherPartyName"`
	Comment           string                    `json:"comment"`
	TheirReference    string                    `json:"theirReference"`
	Colour            string                    `json:"colour"`
	MinMonthsOfStock  float64                   `json:"minMonthsOfStock"`
	MaxMonthsOfStock  float64                   `json:"maxMonthsOfStock"`
	Lines             []RequisitionLineResponse `json:"lines"`
	CreatedDatetime   time.Time                 `json:"createdDatetime"`
	SentDatetime      *time.Time                `json:"sentDatetime,omitempty"`
	FinalisedDatetime *time.Time                `json:"finalisedDatetime,omitempty"`
}

type RequisitionLineRequest struct {
	ItemId            string  `json:"itemId" validate:"required"`
	ItemName          string  `json:"itemName" validate:"required"`
	RequestedQuantity float64 `json:"requestedQuantity" validate:"gte=0"`
	SupplyQuantity    float64 `json:"supplyQuantity" validate:"gte=0"`
}

type CreateRequisitionRequest struct {
	Id               *uuid.UUID               `json:"id"`
	OtherPartyId     uuid.UUID                `json:"otherPartyId" validate:"required"`
	Comment          string                   `json:"comment" validate:"max=1000"`
	TheirReference   string                   `json:"theirReference" validate:"max=255"`
	Colour           string                   `json:"colour" validate:"omitempty,hexcolor"`
	MinMonthsOfStock float64                  `json:"minMonthsOfStock" validate:"gte=0"`
	MaxMonthsOfStock float64                  `json:"maxMonthsOfStock" validate:"gte=0"`
	Lines            []RequisitionLineRequest `json:"lines" validate:"dive"`
}

type UpdateRequisitionRequest struct {
	Id               uuid.UUID  `json:"id"`
	Status           *string    `json:"status"`
	OtherPartyId     *uuid.UUID `json:"otherPartyId"`
	Comment          *string    `json:"comment" validate:"omitempty,max=1000"`
	TheirReference   *string    `json:"theirReference" validate:"omitempty,max=255"`
	Colour           *string    `json:"colour" validate:"omitempty,hexcolor"`
	MinMonthsOfStock *float64   `json:"minMonthsOfStock" validate:"omitempty,gte=0"`
	MaxMonthsOfStock *float64   `json:"maxMonthsOfStock" validate:"omitempty,gte=0"`
}
