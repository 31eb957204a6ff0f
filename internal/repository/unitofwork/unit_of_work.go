package unitofwork

import (
	"context"

	"stockflow/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	InvoiceRepository() contract.InvoiceRepository
	RequisitionRepository() contract.RequisitionRepository
	StocktakeRepository() contract.StocktakeRepository
	NameRepository() contract.NameRepository
}
