package unitofwork

import (
	"context"
	"fmt"
	"sync"

	"stockflow/internal/repository/contract"
	"stockflow/internal/repository/memory"
)

type memoryRepositoryFactory struct {
	store *memory.Store
	// writes serializes transactions. Nothing is undone on rollback.
	writes sync.Mutex
}

// NewMemoryRepositoryFactory serves every unit of work from store.
func NewMemoryRepositoryFactory(store *memory.Store) RepositoryFactory {
	return &memoryRepositoryFactory{store: store}
}

func (f *memoryRepositoryFactory) NewUnitOfWork(ctx context.Context) UnitOfWork {
	return &memoryUnitOfWork{factory: f}
}

type memoryUnitOfWork struct {
	factory *memoryRepositoryFactory
	inTx    bool
}

func (u *memoryUnitOfWork) Begin(ctx context.Context) error {
	if u.inTx {
		return fmt.Errorf("transaction already started")
	}
	u.factory.writes.Lock()
	u.inTx = true
	return nil
}

func (u *memoryUnitOfWork) Commit() error {
	if !u.inTx {
		return fmt.Errorf("no transaction to commit")
	}
	u.inTx = false
	u.factory.writes.Unlock()
	return nil
}

// Rollback releases the transaction. Writes already made are kept.
func (u *memoryUnitOfWork) Rollback() error {
	if !u.inTx {
		return fmt.Errorf("no transaction to rollback")
	}
	u.inTx = false
	u.factory.writes.Unlock()
	return nil
}

func (u *memoryUnitOfWork) InvoiceRepository() contract.InvoiceRepository {
	return u.factory.store.Invoices()
}

func (u *memoryUnitOfWork) RequisitionRepository() contract.RequisitionRepository {
	return u.factory.store.Requisitions()
}

func (u *memoryUnitOfWork) StocktakeRepository() contract.StocktakeRepository {
	return u.factory.store.Stocktakes()
}

func (u *memoryUnitOfWork) NameRepository() contract.NameRepository {
	return u.factory.store.Names()
}
