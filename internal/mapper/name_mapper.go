package mapper

import (
	"stockflow/internal/entity"
	"stockflow/internal/model"
)

type NameMapper struct{}

func NewNameMapper() *NameMapper {
	return &NameMapper{}
}

func (m *NameMapper) ToEntity(n *model.Name) *entity.Name {
	if n == nil {
		return nil
	}
	return &entity.Name{Id: n.Id, Code: n.Code, Name: n.Name, IsCustomer: n.IsCustomer, IsSupplier: n.IsSupplier}
}

func (m *NameMapper) ToModel(n *entity.Name) *model.Name {
	if n == nil {
		return nil
	}
	return &model.Name{Id: n.Id, Code: n.Code, Name: n.Name, IsCustomer: n.IsCustomer, IsSupplier: n.IsSupplier}
}

func (m *NameMapper) ToEntities(names []*model.Name) []*entity.Name {
	entities := make([]*entity.Name, len(names))
	for i, n := range names {
		entities[i] = m.ToEntity(n)
	}
	return entities
}
