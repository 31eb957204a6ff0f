package memory

import (
	"context"

	"stockflow/internal/entity"
	"stockflow/internal/mapper"
	"stockflow/internal/repository/contract"
	"stockflow/internal/repository/specification"
	"stockflow/pkg/document"

	"github.com/google/uuid"
)

// Store owns one table per entity. Repositories handed out by a Store share
// its data.
type Store struct {
	invoices     *InvoiceRepository
	requisitions *RequisitionRepository
	stocktakes   *StocktakeRepository
	names        *NameRepository
}

func NewStore() *Store {
	return &Store{
		invoices:     NewInvoiceRepository(),
		requisitions: NewRequisitionRepository(),
		stocktakes:   NewStocktakeRepository(),
		names:        NewNameRepository(),
	}
}

func (s *Store) Invoices() contract.InvoiceRepository         { return s.invoices }
func (s *Store) Requisitions() contract.RequisitionRepository { return s.requisitions }
func (s *Store) Stocktakes() contract.StocktakeRepository     { return s.stocktakes }
func (s *Store) Names() contract.NameRepository               { return s.names }

func withScope(d document.Document, storeID string, kind document.Kind) document.Document {
	d[specification.FieldStore] = storeID
	d[specification.FieldKind] = string(kind)
	return d
}

type InvoiceRepository struct {
	t *table[entity.Invoice]
}

func NewInvoiceRepository() *InvoiceRepository {
	m := mapper.NewInvoiceMapper()
	return &InvoiceRepository{t: newTable(
		func(e *entity.Invoice) uuid.UUID { return e.Id },
		func(e *entity.Invoice) document.Document { return withScope(m.ToDocument(e), e.StoreId, e.Kind) },
		func(e *entity.Invoice) *entity.Invoice {
			c := *e
			c.Lines = append([]entity.InvoiceLine(nil), e.Lines...)
			return &c
		},
	)}
}

func (r *InvoiceRepository) Create(_ context.Context, invoice *entity.Invoice) error {
	return r.t.create(invoice)
}

func (r *InvoiceRepository) Update(_ context.Context, invoice *entity.Invoice) error {
	r.t.update(invoice)
	return nil
}

func (r *InvoiceRepository) Delete(_ context.Context, ids ...uuid.UUID) error {
	r.t.delete(ids...)
	return nil
}

func (r *InvoiceRepository) FindOne(_ context.Context, specs ...specification.Specification) (*entity.Invoice, error) {
	return r.t.findOne(specs...)
}

func (r *InvoiceRepository) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.Invoice, error) {
	return r.t.find(specs...)
}

func (r *InvoiceRepository) Count(_ context.Context, specs ...specification.Specification) (int64, error) {
	return r.t.count(specs...)
}

func (r *InvoiceRepository) NextNumber(_ context.Context, storeId string, kind document.Kind) (int64, error) {
	return r.t.nextNumber(func(e *entity.Invoice) int64 { return e.InvoiceNumber },
		specification.ByStore{StoreID: storeId}, specification.ByKind{Kind: kind})
}

type RequisitionRepository struct {
	t *table[entity.Requisition]
}

func NewRequisitionRepository() *RequisitionRepository {
	m := mapper.NewRequisitionMapper()
	return &RequisitionRepository{t: newTable(
		func(e *entity.Requisition) uuid.UUID { return e.Id },
		func(e *entity.Requisition) document.Document { return withScope(m.ToDocument(e), e.StoreId, e.Kind) },
		func(e *entity.Requisition) *entity.Requisition {
			c := *e
			c.Lines = append([]entity.RequisitionLine(nil), e.Lines...)
			return &c
		},
	)}
}

func (r *RequisitionRepository) Create(_ context.Context, requisition *entity.Requisition) error {
	return r.t.create(requisition)
}

func (r *RequisitionRepository) Update(_ context.Context, requisition *entity.Requisition) error {
	r.t.update(requisition)
	return nil
}

func (r *RequisitionRepository) Delete(_ context.Context, ids ...uuid.UUID) error {
	r.t.delete(ids...)
	return nil
}

func (r *RequisitionRepository) FindOne(_ context.Context, specs ...specification.Specification) (*entity.Requisition, error) {
	return r.t.findOne(specs...)
}

func (r *RequisitionRepository) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.Requisition, error) {
	return r.t.find(specs...)
}

func (r *RequisitionRepository) Count(_ context.Context, specs ...specification.Specification) (int64, error) {
	return r.t.count(specs...)
}

func (r *RequisitionRepository) NextNumber(_ context.Context, storeId string, kind document.Kind) (int64, error) {
	return r.t.nextNumber(func(e *entity.Requisition) int64 { return e.RequisitionNumber },
		specification.ByStore{StoreID: storeId}, specification.ByKind{Kind: kind})
}

type StocktakeRepository struct {
	t *table[entity.Stocktake]
}

func NewStocktakeRepository() *StocktakeRepository {
	m := mapper.NewStocktakeMapper()
	return &StocktakeRepository{t: newTable(
		func(e *entity.Stocktake) uuid.UUID { return e.Id },
		func(e *entity.Stocktake) document.Document {
			return withScope(m.ToDocument(e), e.StoreId, document.KindStocktake)
		},
		func(e *entity.Stocktake) *entity.Stocktake {
			c := *e
			c.Lines = make([]entity.StocktakeLine, len(e.Lines))
			for i, l := range e.Lines {
				if l.CountedNumberOfPacks != nil {
					n := *l.CountedNumberOfPacks
					l.CountedNumberOfPacks = &n
				}
				c.Lines[i] = l
			}
			return &c
		},
	)}
}

func (r *StocktakeRepository) Create(_ context.Context, stocktake *entity.Stocktake) error {
	return r.t.create(stocktake)
}

func (r *StocktakeRepository) Update(_ context.Context, stocktake *entity.Stocktake) error {
	r.t.update(stocktake)
	return nil
}

func (r *StocktakeRepository) Delete(_ context.Context, ids ...uuid.UUID) error {
	r.t.delete(ids...)
	return nil
}

func (r *StocktakeRepository) FindOne(_ context.Context, specs ...specification.Specification) (*entity.Stocktake, error) {
	return r.t.findOne(specs...)
}

func (r *StocktakeRepository) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.Stocktake, error) {
	return r.t.find(specs...)
}

func (r *StocktakeRepository) Count(_ context.Context, specs ...specification.Specification) (int64, error) {
	return r.t.count(specs...)
}

func (r *StocktakeRepository) NextNumber(_ context.Context, storeId string) (int64, error) {
	return r.t.nextNumber(func(e *entity.Stocktake) int64 { return e.StocktakeNumber },
		specification.ByStore{StoreID: storeId})
}

type NameRepository struct {
	t *table[entity.Name]
}

func NewNameRepository() *NameRepository {
	return &NameRepository{t: newTable(
		func(e *entity.Name) uuid.UUID { return e.Id },
		func(e *entity.Name) document.Document {
			return document.Document{
				document.FieldID: e.Id.String(),
				"code":           e.Code,
				"name":           e.Name,
				"isCustomer":     e.IsCustomer,
				"isSupplier":     e.IsSupplier,
			}
		},
		func(e *entity.Name) *entity.Name { c := *e; return &c },
	)}
}

func (r *NameRepository) Create(_ context.Context, name *entity.Name) error {
	return r.t.create(name)
}

func (r *NameRepository) FindOne(_ context.Context, specs ...specification.Specification) (*entity.Name, error) {
	return r.t.findOne(specs...)
}

func (r *NameRepository) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.Name, error) {
	return r.t.find(specs...)
}
