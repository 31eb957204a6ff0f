package mapper

import (
	"time"

	"stockflow/internal/dto"
	"stockflow/internal/entity"
	"stockflow/internal/model"
	"stockflow/pkg/document"
)

type InvoiceMapper struct{}

func NewInvoiceMapper() *InvoiceMapper {
	return &InvoiceMapper{}
}

func (m *InvoiceMapper) ToEntity(i *model.Invoice) *entity.Invoice {
	if i == nil {
		return nil
	}
	var updatedAt *time.Time
	if !i.UpdatedAt.IsZero() {
		t := i.UpdatedAt
		updatedAt = &t
	}
	lines := make([]entity.InvoiceLine, 0, len(i.Lines))
	for _, l := range i.Lines {
		lines = append(lines, entity.InvoiceLine(l))
	}
	return &entity.Invoice{
		Id:             i.Id,
		StoreId:        i.StoreId,
		Kind:           document.Kind(i.Type),
		InvoiceNumber:  i.InvoiceNumber,
		Status:         i.Status,
		OtherPartyId:   i.OtherPartyId,
		OtherPartyName: i.OtherPartyName,
		Comment:        i.Comment,
		TheirReference: i.TheirReference,
		Colour:         i.Colour,
		OnHold:         i.OnHold,
		RequisitionId:  i.RequisitionId,
		Lines:          lines,
		CreatedAt:      i.CreatedAt,
		UpdatedAt:      updatedAt,
		FinalisedAt:    i.FinalisedAt,
	}
}

func (m *InvoiceMapper) ToModel(i *entity.Invoice) *model.Invoice {
	if i == nil {
		return nil
	}
	var updatedAt time.Time
	if i.UpdatedAt != nil {
		updatedAt = *i.UpdatedAt
	}
	lines := make([]model.InvoiceLine, 0, len(i.Lines))
	for _, l := range i.Lines {
		lines = append(lines, model.InvoiceLine(l))
	}
	return &model.Invoice{
		Id:             i.Id,
		StoreId:        i.StoreId,
		Type:           string(i.Kind),
		InvoiceNumber:  i.InvoiceNumber,
		Status:         i.Status,
		OtherPartyId:   i.OtherPartyId,
		OtherPartyName: i.OtherPartyName,
		Comment:        i.Comment,
		TheirReference: i.TheirReference,
		Colour:         i.Colour,
		OnHold:         i.OnHold,
		RequisitionId:  i.RequisitionId,
		Lines:          lines,
		CreatedAt:      i.CreatedAt,
		UpdatedAt:      updatedAt,
		FinalisedAt:    i.FinalisedAt,
	}
}

func (m *InvoiceMapper) ToEntities(invoices []*model.Invoice) []*entity.Invoice {
	entities := make([]*entity.Invoice, len(invoices))
	for i, inv := range invoices {
		entities[i] = m.ToEntity(inv)
	}
	return entities
}

func (m *InvoiceMapper) ToResponse(i *entity.Invoice) *dto.InvoiceResponse {
	lines := make([]dto.InvoiceLineResponse, 0, len(i.Lines))
	for _, l := range i.Lines {
		lines = append(lines, dto.InvoiceLineResponse{
			Id:            l.Id,
			ItemId:        l.ItemId,
			ItemName:      l.ItemName,
			BatchName:     l.BatchName,
			PackSize:      l.PackSize,
			NumberOfPacks: l.NumberOfPacks,
			TotalUnits:    l.TotalUnits(),
			Note:          l.Note,
		})
	}
	return &dto.InvoiceResponse{
		Id:                i.Id,
		InvoiceNumber:     i.InvoiceNumber,
		Status:            i.Status,
		OtherParty:        dto.NameReference{Id: i.OtherPartyId, Name: i.OtherPartyName},
		OtherPartyId:      i.OtherPartyId,
		OtherPartyName:    i.OtherPartyName,
		Comment:           i.Comment,
		TheirReference:    i.TheirReference,
		Colour:            i.Colour,
		OnHold:            i.OnHold,
		RequisitionId:     i.RequisitionId,
		Lines:             lines,
		CreatedDatetime:   i.CreatedAt,
		FinalisedDatetime: i.FinalisedAt,
	}
}

// ToDocument exposes the invoice under the field names clients filter and
// sort on.
func (m *InvoiceMapper) ToDocument(i *entity.Invoice) document.Document {
	return m.ResponseToDocument(m.ToResponse(i))
}

func (m *InvoiceMapper) ResponseToDocument(r *dto.InvoiceResponse) document.Document {
	d := document.Document{
		document.FieldID:             r.Id.String(),
		document.FieldInvoiceNumber:  r.InvoiceNumber,
		document.FieldStatus:         r.Status,
		document.FieldOtherParty:     document.Reference{ID: r.OtherPartyId.String(), Name: r.OtherPartyName},
		document.FieldOtherPartyID:   r.OtherPartyId.String(),
		document.FieldOtherPartyName: r.OtherPartyName,
		document.FieldComment:        r.Comment,
		document.FieldTheirReference: r.TheirReference,
		document.FieldColour:         r.Colour,
		document.FieldOnHold:         r.OnHold,
		document.FieldCreatedAt:      r.CreatedDatetime,
		document.FieldLines:          r.Lines,
	}
	if r.FinalisedDatetime != nil {
		d[document.FieldFinalisedAt] = *r.FinalisedDatetime
	}
	return d
}
