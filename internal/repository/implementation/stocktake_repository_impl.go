package implementation

import (
	"context"
	"errors"

	"stockflow/internal/entity"
	"stockflow/internal/mapper"
	"stockflow/internal/model"
	"stockflow/internal/repository/contract"
	"stockflow/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StocktakeRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.StocktakeMapper
}

func NewStocktakeRepository(db *gorm.DB) contract.StocktakeRepository {
	return &StocktakeRepositoryImpl{
		db:     db,
		mapper: mapper.NewStocktakeMapper(),
	}
}

func (r *StocktakeRepositoryImpl) Create(ctx context.Context, stocktake *entity.Stocktake) error {
	m := r.mapper.ToModel(stocktake)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*stocktake = *r.mapper.ToEntity(m)
	return nil
}

func (r *StocktakeRepositoryImpl) Update(ctx context.Context, stocktake *entity.Stocktake) error {
	m := r.mapper.ToModel(stocktake)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*stocktake = *r.mapper.ToEntity(m)
	return nil
}

func (r *StocktakeRepositoryImpl) Delete(ctx context.Context, ids ...uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&model.Stocktake{}).Error
}

func (r *StocktakeRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Stocktake, error) {
	var m model.Stocktake
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *StocktakeRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Stocktake, error) {
	var models []*model.Stocktake
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *StocktakeRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.Stocktake{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *StocktakeRepositoryImpl) NextNumber(ctx context.Context, storeId string) (int64, error) {
	var max int64
	err := r.db.WithContext(ctx).Model(&model.Stocktake{}).
		Where("store_id = ?", storeId).
		Select("COALESCE(MAX(stocktake_number), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}
