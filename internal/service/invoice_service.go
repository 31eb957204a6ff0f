package service

import (
	"context"
	"time"

	"stockflow/internal/dto"
	"stockflow/internal/entity"
	"stockflow/internal/mapper"
	"stockflow/internal/repository/specification"
	"stockflow/internal/repository/unitofwork"
	"stockflow/pkg/document"
	"stockflow/pkg/events"
	"stockflow/pkg/listquery"
	"stockflow/pkg/status"

	"github.com/google/uuid"
)

// IInvoiceService serves one invoice kind: outbound or inbound shipments.
type IInvoiceService interface {
	Kind() document.Kind
	Get(ctx context.Context, storeId string, id uuid.UUID) (*dto.InvoiceResponse, error)
	List(ctx context.Context, storeId string, q listquery.ListQuery) (*dto.ListResponse[*dto.InvoiceResponse], error)
	Insert(ctx context.Context, storeId string, req *dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error)
	Update(ctx context.Context, storeId string, req *dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error)
	Delete(ctx context.Context, storeId string, ids []uuid.UUID) (*dto.DeleteResponse, error)
	InsertLine(ctx context.Context, storeId string, invoiceId uuid.UUID, req *dto.InsertInvoiceLineRequest) (*dto.InvoiceResponse, error)
	UpdateLine(ctx context.Context, storeId string, invoiceId, lineId uuid.UUID, req *dto.UpdateInvoiceLineRequest) (*dto.InvoiceResponse, error)
	DeleteLine(ctx context.Context, storeId string, invoiceId, lineId uuid.UUID) (*dto.InvoiceResponse, error)
}

type invoiceService struct {
	kind             document.Kind
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	statuses         *status.Table
	mapper           *mapper.InvoiceMapper
}

func NewInvoiceService(
	kind document.Kind,
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	statuses *status.Table,
) IInvoiceService {
	return &invoiceService{
		kind:             kind,
		uowFactory:       uowFactory,
		publisherService: publisherService,
		statuses:         statuses,
		mapper:           mapper.NewInvoiceMapper(),
	}
}

func (s *invoiceService) Kind() document.Kind { return s.kind }

func (s *invoiceService) find(ctx context.Context, uow unitofwork.UnitOfWork, storeId string, id uuid.UUID) (*entity.Invoice, error) {
	invoice, err := uow.InvoiceRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.ByStore{StoreID: storeId},
		specification.ByKind{Kind: s.kind},
	)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, notFound(s.kind, id)
	}
	return invoice, nil
}

func (s *invoiceService) Get(ctx context.Context, storeId string, id uuid.UUID) (*dto.InvoiceResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	invoice, err := s.find(ctx, uow, storeId, id)
	if err != nil {
		return nil, err
	}
	return s.mapper.ToResponse(invoice), nil
}

func (s *invoiceService) List(ctx context.Context, storeId string, q listquery.ListQuery) (*dto.ListResponse[*dto.InvoiceResponse], error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	scope := specification.ByStore{StoreID: storeId}
	kind := specification.ByKind{Kind: s.kind}
	matching := specification.MatchingQuery{Query: q, Columns: specification.InvoiceColumns}

	total, err := uow.InvoiceRepository().Count(ctx, scope, kind, matching)
	if err != nil {
		return nil, err
	}
	invoices, err := uow.InvoiceRepository().FindAll(ctx, scope, kind, matching,
		specification.QueryPage{Query: q, Columns: specification.InvoiceColumns})
	if err != nil {
		return nil, err
	}

	items := make([]*dto.InvoiceResponse, 0, len(invoices))
	for _, invoice := range invoices {
		items = append(items, s.mapper.ToResponse(invoice))
	}
	return &dto.ListResponse[*dto.InvoiceResponse]{Items: items, TotalCount: total}, nil
}

func (s *invoiceService) Insert(ctx context.Context, storeId string, req *dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	name, err := checkOtherParty(ctx, uow, s.kind, req.OtherPartyId)
	if err != nil {
		return nil, err
	}
	initial, err := firstStatus(s.statuses, s.kind)
	if err != nil {
		return nil, err
	}
	number, err := uow.InvoiceRepository().NextNumber(ctx, storeId, s.kind)
	if err != nil {
		return nil, err
	}

	id := uuid.New()
	if req.Id != nil {
		id = *req.Id
	}
	invoice := entity.Invoice{
		Id:             id,
		StoreId:        storeId,
		Kind:           s.kind,
		InvoiceNumber:  number,
		Status:         initial,
		OtherPartyId:   name.Id,
		OtherPartyName: name.Name,
		Comment:        req.Comment,
		TheirReference: req.TheirReference,
		Colour:         req.Colour,
		CreatedAt:      time.Now().UTC(),
	}
	if err := uow.InvoiceRepository().Create(ctx, &invoice); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.publisherService.Publish(ctx, events.NewDocumentEvent(events.DocumentCreated, string(s.kind), storeId, invoice.Id.String()))
	return s.mapper.ToResponse(&invoice), nil
}

func (s *invoiceService) Update(ctx context.Context, storeId string, req *dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	invoice, err := s.find(ctx, uow, storeId, req.Id)
	if err != nil {
		return nil, err
	}
	if !s.statuses.IsEditable(s.kind, status.Status(invoice.Status)) {
		return nil, document.Reject(document.CannotEditInvoice, "invoice %d is %s", invoice.InvoiceNumber, invoice.Status)
	}

	if req.OnHold != nil {
		invoice.OnHold = *req.OnHold
	}
	if changed(req.OtherPartyId, invoice.OtherPartyId) {
		name, err := checkOtherParty(ctx, uow, s.kind, *req.OtherPartyId)
		if err != nil {
			return nil, err
		}
		invoice.OtherPartyId = name.Id
		invoice.OtherPartyName = name.Name
	}
	if req.Comment != nil {
		invoice.Comment = *req.Comment
	}
	if req.TheirReference != nil {
		invoice.TheirReference = *req.TheirReference
	}
	if req.Colour != nil {
		invoice.Colour = *req.Colour
	}

	now := time.Now().UTC()
	if changed(req.Status, invoice.Status) {
		if invoice.OnHold {
			return nil, document.Reject(document.CannotChangeStatusOfInvoiceOnHold, "invoice %d is on hold", invoice.InvoiceNumber)
		}
		if err := checkStatusChange(s.statuses, s.kind, invoice.Status, *req.Status); err != nil {
			return nil, err
		}
		invoice.Status = *req.Status
		if s.statuses.IsTerminal(s.kind, status.Status(invoice.Status)) {
			invoice.FinalisedAt = &now
		}
	}
	invoice.UpdatedAt = &now

	if err := uow.InvoiceRepository().Update(ctx, invoice); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.publisherService.Publish(ctx, events.NewDocumentEvent(events.DocumentUpdated, string(s.kind), storeId, invoice.Id.String()))
	return s.mapper.ToResponse(invoice), nil
}

// Delete removes every invoice in ids or none of them.
func (s *invoiceService) Delete(ctx context.Context, storeId string, ids []uuid.UUID) (*dto.DeleteResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	deleted := make([]string, 0, len(ids))
	for _, id := range ids {
		invoice, err := s.find(ctx, uow, storeId, id)
		if err != nil {
			return nil, err
		}
		if !s.statuses.IsEditable(s.kind, status.Status(invoice.Status)) {
			return nil, document.Reject(document.CannotEditInvoice, "invoice %d is %s", invoice.InvoiceNumber, invoice.Status)
		}
		deleted = append(deleted, id.String())
	}
	if err := uow.InvoiceRepository().Delete(ctx, ids...); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.publisherService.Publish(ctx, events.NewDocumentEvent(events.DocumentDeleted, string(s.kind), storeId, deleted...))
	return &dto.DeleteResponse{Ids: ids}, nil
}
