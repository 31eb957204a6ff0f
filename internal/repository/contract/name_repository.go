package contract

import (
	"context"

	"stockflow/internal/entity"
	"stockflow/internal/repository/specification"
)

type NameRepository interface {
	Create(ctx context.Context, name *entity.Name) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Name, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Name, error)
}
