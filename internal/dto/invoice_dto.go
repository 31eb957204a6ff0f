package dto

import (
	"time"

	"github.com/google/uuid"
)

type InvoiceLineResponse struct {
	Id            uuid.UUID `json:"id"`
	ItemId        string    `json:"itemId"`
	ItemName      string    `json:"itemName"`
	BatchName     string    `json:"batch"`
	PackSize      float64   `json:"packSize"`
	NumberOfPacks float64   `json:"numberOfPacks"`
	TotalUnits    float64   `json:"totalUnits"`
	Note          string    `json:"note"`
}

type InvoiceResponse struct {
	Id                uuid.UUID             `json:"id"`
	InvoiceNumber     int64                 `json:"invoiceNumber"`
	Status            string                `json:"status"`
	OtherParty        NameReference         `json:"otherParty"`
	OtherPartyId      uuid.UUID             `json:"otherPartyId"`
	OtherPartyName    string                `json:"otherPartyName"`
	Comment           string                `json:"comment"`
	TheirReference    string                `json:"theirReference"`
	Colour            string                `json:"colour"`
	OnHold            bool                  `json:"onHold"`
	RequisitionId     *uuid.UUID            `json:"requisitionId,omitempty"`
	Lines             []InvoiceLineResponse `json:"lines"`
	CreatedDatetime   time.Time             `json:"createdDatetime"`
	FinalisedDatetime *time.Time            `json:"finalisedDatetime,omitempty"`
}

type CreateInvoiceRequest struct {
	Id             *uuid.UUID `json:"id"`
	OtherPartyId   uuid.UUID  `json:"otherPartyId" validate:"required"`
	Comment        string     `json:"comment" validate:"max=1000"`
	TheirReference string     `json:"theirReference" validate:"max=255"`
	Colour         string     `json:"colour" validate:"omitempty,hexcolor"`
}

// UpdateInvoiceRequest carries only the fields to change; nil means keep.
type UpdateInvoiceRequest struct {
	Id             uuid.UUID  `json:"id"`
	Status         *string    `json:"status"`
	OtherPartyId   *uuid.UUID `json:"otherPartyId"`
	Comment        *string    `json:"comment" validate:"omitempty,max=1000"`
	TheirReference *string    `json:"theirReference" validate:"omitempty,max=255"`
	Colour         *string    `json:"colour" validate:"omitempty,hexcolor"`
	OnHold         *bool      `json:"onHold"`
}

// InsertInvoiceLineRequest adds a line. Number of packs below one is
// rejected by the service with NumberOfPacksBelowOne.
type InsertInvoiceLineRequest struct {
	Id            *uuid.UUID `json:"id"`
	ItemId        string     `json:"itemId" validate:"required"`
	ItemName      string     `json:"itemName" validate:"required"`
	BatchName     string     `json:"batch" validate:"max=255"`
	PackSize      float64    `json:"packSize" validate:"gt=0"`
	NumberOfPacks float64    `json:"numberOfPacks"`
	Note          string     `json:"note" validate:"max=1000"`
}

type UpdateInvoiceLineRequest struct {
	BatchName     *string  `json:"batch" validate:"omitempty,max=255"`
	PackSize      *float64 `json:"packSize" validate:"omitempty,gt=0"`
	NumberOfPacks *float64 `json:"numberOfPacks"`
	Note          *string  `json:"note" validate:"omitempty,max=1000"`
}
