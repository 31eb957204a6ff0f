package implementation

import (
	"context"
	"errors"

	"stockflow/internal/entity"
	"stockflow/internal/mapper"
	"stockflow/internal/model"
	"stockflow/internal/repository/contract"
	"stockflow/internal/repository/specification"
	"stockflow/pkg/document"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RequisitionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.RequisitionMapper
}

func NewRequisitionRepository(db *gorm.DB) contract.RequisitionRepository {
	return &RequisitionRepositoryImpl{
		db:     db,
		mapper: mapper.NewRequisitionMapper(),
	}
}

func (r *RequisitionRepositoryImpl) Create(ctx context.Context, requisition *entity.Requisition) error {
	m := r.mapper.ToModel(requisition)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*requisition = *r.mapper.ToEntity(m)
	return nil
}

func (r *RequisitionRepositoryImpl) Update(ctx context.Context, requisition *entity.Requisition) error {
	m := r.mapper.ToModel(requisition)
	// Save writes zero values too (empty comment, zero months of stock).
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*requisition = *r.mapper.ToEntity(m)
	return nil
}

func (r *RequisitionRepositoryImpl) Delete(ctx context.Context, ids ...uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&model.Requisition{}).Error
}

func (r *RequisitionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Requisition, error) {
	var m model.Requisition
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *RequisitionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Requisition, error) {
	var models []*model.Requisition
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *RequisitionRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.Requisition{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *RequisitionRepositoryImpl) NextNumber(ctx context.Context, storeId string, kind document.Kind) (int64, error) {
	var max int64
	err := r.db.WithContext(ctx).Model(&model.Requisition{}).
		Where("store_id = ? AND type = ?", storeId, string(kind)).
		Select("COALESCE(MAX(requisition_number), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}
