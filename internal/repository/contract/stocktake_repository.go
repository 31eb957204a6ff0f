package contract

import (
	"context"

	"stockflow/internal/entity"
	"stockflow/internal/repository/specification"

	"github.com/google/uuid"
)

type StocktakeRepository interface {
	Create(ctx context.Context, stocktake *entity.Stocktake) error
	Update(ctx context.Context, stocktake *entity.Stocktake) error
	Delete(ctx context.Context, ids ...uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Stocktake, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Stocktake, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	NextNumber(ctx context.Context, storeId string) (int64, error)
}
