package implementation

import (
	"context"
	"errors"

	"stockflow/internal/entity"
	"stockflow/internal/mapper"
	"stockflow/internal/model"
	"stockflow/internal/repository/contract"
	"stockflow/internal/repository/specification"

	"gorm.io/gorm"
)

type NameRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.NameMapper
}

func NewNameRepository(db *gorm.DB) contract.NameRepository {
	return &NameRepositoryImpl{
		db:     db,
		mapper: mapper.NewNameMapper(),
	}
}

func (r *NameRepositoryImpl) Create(ctx context.Context, name *entity.Name) error {
	m := r.mapper.ToModel(name)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*name = *r.mapper.ToEntity(m)
	return nil
}

func (r *NameRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Name, error) {
	var m model.Name
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *NameRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Name, error) {
	var models []*model.Name
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
