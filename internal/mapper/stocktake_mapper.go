package mapper

import (
	"time"

	"gorm.io/datatypes"

	"stockflow/internal/dto"
	"stockflow/internal/entity"
	"stockflow/internal/model"
	"stockflow/pkg/document"
)

type StocktakeMapper struct{}

func NewStocktakeMapper() *StocktakeMapper {
	return &StocktakeMapper{}
}

func (m *StocktakeMapper) ToEntity(s *model.Stocktake) *entity.Stocktake {
	if s == nil {
		return nil
	}
	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}
	var date *time.Time
	if s.StocktakeDate != nil {
		t := time.Time(*s.StocktakeDate)
		date = &t
	}
	lines := make([]entity.StocktakeLine, 0, len(s.Lines))
	for _, l := range s.Lines {
		lines = append(lines, entity.StocktakeLine{
			Id:                    l.Id,
			ItemId:                l.ItemId,
			ItemName:              l.ItemName,
			PackSize:              l.PackSize,
			SnapshotNumberOfPacks: l.SnapshotNumberOfPacks,
			CountedNumberOfPacks:  copyFloat(l.CountedNumberOfPacks),
			Comment:               l.Comment,
		})
	}
	return &entity.Stocktake{
		Id:              s.Id,
		StoreId:         s.StoreId,
		StocktakeNumber: s.StocktakeNumber,
		Status:          s.Status,
		Description:     s.Description,
		Comment:         s.Comment,
		StocktakeDate:   date,
		IsLocked:        s.IsLocked,
		Lines:           lines,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       updatedAt,
		FinalisedAt:     s.FinalisedAt,
	}
}

func (m *StocktakeMapper) ToModel(s *entity.Stocktake) *model.Stocktake {
	if s == nil {
		return nil
	}
	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}
	var date *datatypes.Date
	if s.StocktakeDate != nil {
		d := datatypes.Date(*s.StocktakeDate)
		date = &d
	}
	lines := make([]model.StocktakeLine, 0, len(s.Lines))
	for _, l := range s.Lines {
		lines = append(lines, model.StocktakeLine{
			Id:                    l.Id,
			ItemId:                l.ItemId,
			ItemName:              l.ItemName,
			PackSize:              l.PackSize,
			SnapshotNumberOfPacks: l.SnapshotNumberOfPacks,
			CountedNumberOfPacks:  copyFloat(l.CountedNumberOfPacks),
			Comment:               l.Comment,
		})
	}
	return &model.Stocktake{
		Id:              s.Id,
		StoreId:         s.StoreId,
		StocktakeNumber: s.StocktakeNumber,
		Status:          s.Status,
		Description:     s.Description,
		Comment:         s.Comment,
		StocktakeDate:   date,
		IsLocked:        s.IsLocked,
		Lines:           lines,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       updatedAt,
		FinalisedAt:     s.FinalisedAt,
	}
}

func (m *StocktakeMapper) ToEntities(stocktakes []*model.Stocktake) []*entity.Stocktake {
	entities := make([]*entity.Stocktake, len(stocktakes))
	for i, s := range stocktakes {
		entities[i] = m.ToEntity(s)
	}
	return entities
}

func (m *StocktakeMapper) ToResponse(s *entity.Stocktake) *dto.StocktakeResponse {
	lines := make([]dto.StocktakeLineResponse, 0, len(s.Lines))
	for _, l := range s.Lines {
		lines = append(lines, dto.StocktakeLineResponse{
			Id:                    l.Id,
			ItemId:                l.ItemId,
			ItemName:              l.ItemName,
			PackSize:              l.PackSize,
			SnapshotNumberOfPacks: l.SnapshotNumberOfPacks,
			CountedNumberOfPacks:  copyFloat(l.CountedNumberOfPacks),
			Difference:            l.Difference(),
			Comment:               l.Comment,
		})
	}
	return &dto.StocktakeResponse{
		Id:                s.Id,
		StocktakeNumber:   s.StocktakeNumber,
		Status:            s.Status,
		Description:       s.Description,
		Comment:           s.Comment,
		StocktakeDate:     s.StocktakeDate,
		IsLocked:          s.IsLocked,
		Lines:             lines,
		CreatedDatetime:   s.CreatedAt,
		FinalisedDatetime: s.FinalisedAt,
	}
}

func (m *StocktakeMapper) ToDocument(s *entity.Stocktake) document.Document {
	return m.ResponseToDocument(m.ToResponse(s))
}

func (m *StocktakeMapper) ResponseToDocument(r *dto.StocktakeResponse) document.Document {
	d := document.Document{
		document.FieldID:              r.Id.String(),
		document.FieldStocktakeNumber: r.StocktakeNumber,
		document.FieldStatus:          r.Status,
		document.FieldDescription:     r.Description,
		document.FieldComment:         r.Comment,
		document.FieldIsLocked:        r.IsLocked,
		document.FieldCreatedAt:       r.CreatedDatetime,
		document.FieldLines:           r.Lines,
	}
	if r.StocktakeDate != nil {
		d[document.FieldStocktakeDate] = *r.StocktakeDate
	}
	if r.FinalisedDatetime != nil {
		d[document.FieldFinalisedAt] = *r.FinalisedDatetime
	}
	return d
}

func copyFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
