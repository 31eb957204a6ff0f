package contract

import (
	"context"

	"stockflow/internal/entity"
	"stockflow/internal/repository/specification"
	"stockflow/pkg/document"

	"github.com/google/uuid"
)

type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	Update(ctx context.Context, invoice *entity.Invoice) error
	Delete(ctx context.Context, ids ...uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Invoice, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Invoice, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	NextNumber(ctx context.Context, storeId string, kind document.Kind) (int64, error)
}
