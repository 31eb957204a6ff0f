package contract

import (
	"context"

	"stockflow/internal/entity"
	"stockflow/internal/repository/specification"
	"stockflow/pkg/document"

	"github.com/google/uuid"
)

type RequisitionRepository interface {
	Create(ctx context.Context, requisition *entity.Requisition) error
	Update(ctx context.Context, requisition *entity.Requisition) error
	Delete(ctx context.Context, ids ...uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Requisition, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Requisition, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	NextNumber(ctx context.Context, storeId string, kind document.Kind) (int64, error)
}
