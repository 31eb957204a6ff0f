package mapper

import (
	"time"

	"stockflow/internal/dto"
	"stockflow/internal/entity"
	"stockflow/internal/model"
	"stockflow/pkg/document"
)

type RequisitionMapper struct{}

func NewRequisitionMapper() *RequisitionMapper {
	return &RequisitionMapper{}
}

func (m *RequisitionMapper) ToEntity(r *model.Requisition) *entity.Requisition {
	if r == nil {
		return nil
	}
	var updatedAt *time.Time
	if !r.UpdatedAt.IsZero() {
		t := r.UpdatedAt
		updatedAt = &t
	}
	lines := make([]entity.RequisitionLine, 0, len(r.Lines))
	for _, l := range r.Lines {
		lines = append(lines, entity.RequisitionLine{
			Id:                l.Id,
			ItemId:            l.ItemId,
			ItemName:          l.ItemName,
			RequestedQuantity: l.RequestedQuantity,
			SupplyQuantity:    l.SupplyQuantity,
			SuppliedQuantity:  l.SuppliedQuantity,
		})
	}
	return &entity.Requisition{
		Id:                r.Id,
		StoreId:           r.StoreId,
		Kind:              document.Kind(r.Type),
		RequisitionNumber: r.RequisitionNumber,
		Status:            r.Status,
		OtherPartyId:      r.OtherPartyId,
		OtherPartyName:    r.OtherPartyName,
		Comment:           r.Comment,
		TheirReference:    r.TheirReference,
		Colour:            r.Colour,
		MinMonthsOfStock:  r.MinMonthsOfStock,
		MaxMonthsOfStock:  r.MaxMonthsOfStock,
		Lines:             lines,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         updatedAt,
		SentAt:            r.SentAt,
		FinalisedAt:       r.FinalisedAt,
	}
}

func (m *RequisitionMapper) ToModel(r *entity.Requisition) *model.Requisition {
	if r == nil {
		return nil
	}
	var updatedAt time.Time
	if r.UpdatedAt != nil {
		updatedAt = *r.UpdatedAt
	}
	lines := make([]model.RequisitionLine, 0, len(r.Lines))
	for _, l := range r.Lines {
		lines = append(lines, model.RequisitionLine{
			Id:                l.Id,
			ItemId:            l.ItemId,
			ItemName:          l.ItemName,
			RequestedQuantity: l.RequestedQuantity,
			SupplyQuantity:    l.SupplyQuantity,
			SuppliedQuantity:  l.SuppliedQuantity,
		})
	}
	return &model.Requisition{
		Id:                r.Id,
		StoreId:           r.StoreId,
		Type:              string(r.Kind),
		RequisitionNumber: r.RequisitionNumber,
		Status:            r.Status,
		OtherPartyId:      r.OtherPartyId,
		OtherPartyName:    r.OtherPartyName,
		Comment:           r.Comment,
		TheirReference:    r.TheirReference,
		Colour:            r.Colour,
		MinMonthsOfStock:  r.MinMonthsOfStock,
		MaxMonthsOfStock:  r.MaxMonthsOfStock,
		Lines:             lines,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         updatedAt,
		SentAt:            r.SentAt,
		FinalisedAt:       r.FinalisedAt,
	}
}

func (m *RequisitionMapper) ToEntities(requisitions []*model.Requisition) []*entity.Requisition {
	entities := make([]*entity.Requisition, len(requisitions))
	for i, r := range requisitions {
		entities[i] = m.ToEntity(r)
	}
	return entities
}

func (m *RequisitionMapper) ToResponse(r *entity.Requisition) *dto.RequisitionResponse {
	lines := make([]dto.RequisitionLineResponse, 0, len(r.Lines))
	for _, l := range r.Lines {
		lines = append(lines, dto.RequisitionLineResponse{
			Id:                l.Id,
			ItemId:            l.ItemId,
			ItemName:          l.ItemName,
			RequestedQuantity: l.RequestedQuantity,
			SupplyQuantity:    l.SupplyQuantity,
			SuppliedQuantity:  l.SuppliedQuantity,
			RemainingToSupply: l.RemainingToSupply(),
		})
	}
	return &dto.RequisitionResponse{
		Id:                r.Id,
		RequisitionNumber: r.RequisitionNumber,
		Status:            r.Status,
		OtherParty:        dto.NameReference{Id: r.OtherPartyId, Name: r.OtherPartyName},
		OtherPartyId:      r.OtherPartyId,
		OtherPartyName:    r.OtherPartyName,
		Comment:           r.Comment,
		TheirReference:    r.TheirReference,
		Colour:            r.Colour,
		MinMonthsOfStock:  r.MinMonthsOfStock,
		MaxMonthsOfStock:  r.MaxMonthsOfStock,
		Lines:             lines,
		CreatedDatetime:   r.CreatedAt,
		SentDatetime:      r.SentAt,
		FinalisedDatetime: r.FinalisedAt,
	}
}

func (m *RequisitionMapper) ToDocument(r *entity.Requisition) document.Document {
	return m.ResponseToDocument(m.ToResponse(r))
}

// ResponseToDocument keeps lines as []dto.RequisitionLineResponse; lines are
// read-only on the client.
func (m *RequisitionMapper) ResponseToDocument(r *dto.RequisitionResponse) document.Document {
	d := document.Document{
		document.FieldID:                r.Id.String(),
		document.FieldRequisitionNumber: r.RequisitionNumber,
		document.FieldStatus:            r.Status,
		document.FieldOtherParty:        document.Reference{ID: r.OtherPartyId.String(), Name: r.OtherPartyName},
		document.FieldOtherPartyID:      r.OtherPartyId.String(),
		document.FieldOtherPartyName:    r.OtherPartyName,
		document.FieldComment:           r.Comment,
		document.FieldTheirReference:    r.TheirReference,
		document.FieldColour:            r.Colour,
		document.FieldMinMonthsOfStock:  r.MinMonthsOfStock,
		document.FieldMaxMonthsOfStock:  r.MaxMonthsOfStock,
		document.FieldLines:             r.Lines,
		document.FieldCreatedAt:         r.CreatedDatetime,
	}
	if r.SentDatetime != nil {
		d[document.FieldSentAt] = *r.SentDatetime
	}
	if r.FinalisedDatetime != nil {
		d[document.FieldFinalisedAt] = *r.FinalisedDatetime
	}
	return d
}
