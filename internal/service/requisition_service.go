package service

import (
	"context"
	"fmt"
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

// IRequisitionService serves request requisitions (store asks a supplier)
// or response requisitions (a customer asks the store).
type IRequisitionService interface {
	Kind() document.Kind
	Get(ctx context.Context, storeId string, id uuid.UUID) (*dto.RequisitionResponse, error)
	List(ctx context.Context, storeId string, q listquery.ListQuery) (*dto.ListResponse[*dto.RequisitionResponse], error)
	Insert(ctx context.Context, storeId string, req *dto.CreateRequisitionRequest) (*dto.RequisitionResponse, error)
	Update(ctx context.Context, storeId string, req *dto.UpdateRequisitionRequest) (*dto.RequisitionResponse, error)
	Delete(ctx context.Context, storeId string, ids []uuid.UUID) (*dto.DeleteResponse, error)
	CreateOutboundFromResponse(ctx context.Context, storeId string, id uuid.UUID) (*dto.InvoiceResponse, error)
}

type requisitionService struct {
	kind             document.Kind
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	statuses         *status.Table
	mapper           *mapper.RequisitionMapper
	invoiceMapper    *mapper.InvoiceMapper
}

func NewRequisitionService(
	kind document.Kind,
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	statuses *status.Table,
) IRequisitionService {
	return &requisitionService{
		kind:             kind,
		uowFactory:       uowFactory,
		publisherService: publisherService,
		statuses:         statuses,
		mapper:           mapper.NewRequisitionMapper(),
		invoiceMapper:    mapper.NewInvoiceMapper(),
	}
}

func (s *requisitionService) Kind() document.Kind { return s.kind }

func (s *requisitionService) find(ctx context.Context, uow unitofwork.UnitOfWork, storeId string, id uuid.UUID) (*entity.Requisition, error) {
	requisition, err := uow.RequisitionRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.ByStore{StoreID: storeId},
		specification.ByKind{Kind: s.kind},
	)
	if err != nil {
		return nil, err
	}
	if requisition == nil {
		return nil, notFound(s.kind, id)
	}
	return requisition, nil
}

func (s *requisitionService) editable(r *entity.Requisition) error {
	if s.statuses.IsEditable(s.kind, status.Status(r.Status)) {
		return nil
	}
	return document.Reject(document.CannotEditRequisition, "requisition %d is %s", r.RequisitionNumber, r.Status)
}

func (s *requisitionService) Get(ctx context.Context, storeId string, id uuid.UUID) (*dto.RequisitionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	requisition, err := s.find(ctx, uow, storeId, id)
	if err != nil {
		return nil, err
	}
	return s.mapper.ToResponse(requisition), nil
}

func (s *requisitionService) List(ctx context.Context, storeId string, q listquery.ListQuery) (*dto.ListResponse[*dto.RequisitionResponse], error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	scope := specification.ByStore{StoreID: storeId}
	kind := specification.ByKind{Kind: s.kind}
	matching := specification.MatchingQuery{Query: q, Columns: specification.RequisitionColumns}

	total, err := uow.RequisitionRepository().Count(ctx, scope, kind, matching)
	if err != nil {
		return nil, err
	}
	requisitions, err := uow.RequisitionRepository().FindAll(ctx, scope, kind, matching,
		specification.QueryPage{Query: q, Columns: specification.RequisitionColumns})
	if err != nil {
		return nil, err
	}

	items := make([]*dto.RequisitionResponse, 0, len(requisitions))
	for _, requisition := range requisitions {
		items = append(items, s.mapper.ToResponse(requisition))
	}
	return &dto.ListResponse[*dto.RequisitionResponse]{Items: items, TotalCount: total}, nil
}

func (s *requisitionService) Insert(ctx context.Context, storeId string, req *dto.CreateRequisitionRequest) (*dto.RequisitionResponse, error) {
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
	number, err := uow.RequisitionRepository().NextNumber(ctx, storeId, s.kind)
	if err != nil {
		return nil, err
	}

	id := uuid.New()
	if req.Id != nil {
		id = *req.Id
	}
	lines := make([]entity.RequisitionLine, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, entity.RequisitionLine{
			Id:                uuid.New(),
			ItemId:            l.ItemId,
			ItemName:          l.ItemName,
			RequestedQuantity: l.RequestedQuantity,
			SupplyQuantity:    l.SupplyQuantity,
		})
	}
	requisition := entity.Requisition{
		Id:                id,
		StoreId:           storeId,
		Kind:              s.kind,
		RequisitionNumber: number,
		Status:            initial,
		OtherPartyId:      name.Id,
		OtherPartyName:    name.Name,
		Comment:           req.Comment,
		TheirReference:    req.TheirReference,
		Colour:            req.Colour,
		MinMonthsOfStock:  req.MinMonthsOfStock,
		MaxMonthsOfStock:  req.MaxMonthsOfStock,
		Lines:             lines,
		CreatedAt:         time.Now().UTC(),
	}
	if err := uow.RequisitionRepository().Create(ctx, &requisition); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.publisherService.Publish(ctx, events.NewDocumentEvent(events.DocumentCreated, string(s.kind), storeId, requisition.Id.String()))
	return s.mapper.ToResponse(&requisition), nil
}

func (s *requisitionService) Update(ctx context.Context, storeId string, req *dto.UpdateRequisitionRequest) (*dto.RequisitionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	requisition, err := s.find(ctx, uow, storeId, req.Id)
	if err != nil {
		return nil, err
	}
	if err := s.editable(requisition); err != nil {
		return nil, err
	}

	if changed(req.OtherPartyId, requisition.OtherPartyId) {
		// The customer of a response requisition is whoever sent the request.
		if s.kind == document.KindResponseRequisition {
			return nil, document.Reject(document.CannotEditRequisition, "cannot change the customer of requisition %d", requisition.RequisitionNumber)
		}
		name, err := checkOtherParty(ctx, uow, s.kind, *req.OtherPartyId)
		if err != nil {
			return nil, err
		}
		requisition.OtherPartyId = name.Id
		requisition.OtherPartyName = name.Name
	}
	if req.Comment != nil {
		requisition.Comment = *req.Comment
	}
	if req.TheirReference != nil {
		requisition.TheirReference = *req.TheirReference
	}
	if req.Colour != nil {
		requisition.Colour = *req.Colour
	}
	if req.MinMonthsOfStock != nil {
		requisition.MinMonthsOfStock = *req.MinMonthsOfStock
	}
	if req.MaxMonthsOfStock != nil {
		requisition.MaxMonthsOfStock = *req.MaxMonthsOfStock
	}

	now := time.Now().UTC()
	if changed(req.Status, requisition.Status) {
		if err := checkStatusChange(s.statuses, s.kind, requisition.Status, *req.Status); err != nil {
			return nil, err
		}
		requisition.Status = *req.Status
		switch status.Status(requisition.Status) {
		case status.Sent:
			requisition.SentAt = &now
		case status.Finalised:
			requisition.FinalisedAt = &now
		}
	}
	requisition.UpdatedAt = &now

	if err := uow.RequisitionRepository().Update(ctx, requisition); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.publisherService.Publish(ctx, events.NewDocumentEvent(events.DocumentUpdated, string(s.kind), storeId, requisition.Id.String()))
	return s.mapper.ToResponse(requisition), nil
}

func (s *requisitionService) Delete(ctx context.Context, storeId string, ids []uuid.UUID) (*dto.DeleteResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	deleted := make([]string, 0, len(ids))
	for _, id := range ids {
		requisition, err := s.find(ctx, uow, storeId, id)
		if err != nil {
			return nil, err
		}
		if err := s.editable(requisition); err != nil {
			return nil, err
		}
		deleted = append(deleted, id.String())
	}
	if err := uow.RequisitionRepository().Delete(ctx, ids...); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.publisherService.Publish(ctx, events.NewDocumentEvent(events.DocumentDeleted, string(s.kind), storeId, deleted...))
	return &dto.DeleteResponse{Ids: ids}, nil
}

// CreateOutboundFromResponse ships whatever a response requisition still owes
// the customer as a new draft outbound invoice, and marks those quantities as
// supplied.
func (s *requisitionService) CreateOutboundFromResponse(ctx context.Context, storeId string, id uuid.UUID) (*dto.InvoiceResponse, error) {
	if s.kind != document.KindResponseRequisition {
		return nil, document.Reject(document.CannotEditRequisition, "only response requisitions can be supplied")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	requisition, err := s.find(ctx, uow, storeId, id)
	if err != nil {
		return nil, err
	}
	if err := s.editable(requisition); err != nil {
		return nil, err
	}

	var supplied []entity.InvoiceLine
	for i := range requisition.Lines {
		line := &requisition.Lines[i]
		if owed := line.RemainingToSupply(); owed > 0 {
			line.SuppliedQuantity += owed
			supplied = append(supplied, entity.InvoiceLine{
				Id:            uuid.New(),
				ItemId:        line.ItemId,
				ItemName:      line.ItemName,
				PackSize:      1,
				NumberOfPacks: owed,
			})
		}
	}
	if len(supplied) == 0 {
		return nil, document.Reject(document.NothingRemainingToSupply, "requisition %d has nothing left to supply", requisition.RequisitionNumber)
	}

	initial, err := firstStatus(s.statuses, document.KindOutboundShipment)
	if err != nil {
		return nil, err
	}
	number, err := uow.InvoiceRepository().NextNumber(ctx, storeId, document.KindOutboundShipment)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	invoice := entity.Invoice{
		Id:             uuid.New(),
		StoreId:        storeId,
		Kind:           document.KindOutboundShipment,
		InvoiceNumber:  number,
		Status:         initial,
		OtherPartyId:   requisition.OtherPartyId,
		OtherPartyName: requisition.OtherPartyName,
		Comment:        fmt.Sprintf("Created from requisition %d", requisition.RequisitionNumber),
		TheirReference: requisition.TheirReference,
		RequisitionId:  &requisition.Id,
		Lines:          supplied,
		CreatedAt:      now,
	}
	if err := uow.InvoiceRepository().Create(ctx, &invoice); err != nil {
		return nil, err
	}
	requisition.UpdatedAt = &now
	if err := uow.RequisitionRepository().Update(ctx, requisition); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.publisherService.Publish(ctx, events.NewDocumentEvent(events.DocumentCreated, string(document.KindOutboundShipment), storeId, invoice.Id.String()))
	s.publisherService.Publish(ctx, events.NewDocumentEvent(events.DocumentUpdated, string(s.kind), storeId, requisition.Id.String()))
	return s.invoiceMapper.ToResponse(&invoice), nil
}
