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

type IStocktakeService interface {
	Get(ctx context.Context, storeId string, id uuid.UUID) (*dto.StocktakeResponse, error)
	List(ctx context.Context, storeId string, q listquery.ListQuery) (*dto.ListResponse[*dto.StocktakeResponse], error)
	Insert(ctx context.Context, storeId string, req *dto.CreateStocktakeRequest) (*dto.StocktakeResponse, error)
	Update(ctx context.Context, storeId string, req *dto.UpdateStocktakeRequest) (*dto.StocktakeResponse, error)
	Delete(ctx context.Context, storeId string, ids []uuid.UUID) (*dto.DeleteResponse, error)
	InsertLine(ctx context.Context, storeId string, stocktakeId uuid.UUID, req *dto.InsertStocktakeLineRequest) (*dto.StocktakeResponse, error)
	UpdateLine(ctx context.Context, storeId string, stocktakeId, lineId uuid.UUID, req *dto.UpdateStocktakeLineRequest) (*dto.StocktakeResponse, error)
	DeleteLine(ctx context.Context, storeId string, stocktakeId, lineId uuid.UUID) (*dto.StocktakeResponse, error)
}

type stocktakeService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	statuses         *status.Table
	mapper           *mapper.StocktakeMapper
}

func NewStocktakeService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	statuses *status.Table,
) IStocktakeService {
	return &stocktakeService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		statuses:         statuses,
		mapper:           mapper.NewStocktakeMapper(),
	}
}

const stocktakeKind = document.KindStocktake

func (s *stocktakeService) find(ctx context.Context, uow unitofwork.UnitOfWork, storeId string, id uuid.UUID) (*entity.Stocktake, error) {
	stocktake, err := uow.StocktakeRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.ByStore{StoreID: storeId},
	)
	if err != nil {
		return nil, err
	}
	if stocktake == nil {
		return nil, notFound(stocktakeKind, id)
	}
	return stocktake, nil
}

func (s *stocktakeService) Get(ctx context.Context, storeId string, id uuid.UUID) (*dto.StocktakeResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	stocktake, err := s.find(ctx, uow, storeId, id)
	if err != nil {
		return nil, err
	}
	return s.mapper.ToResponse(stocktake), nil
}

func (s *stocktakeService) List(ctx context.Context, storeId string, q listquery.ListQuery) (*dto.ListResponse[*dto.StocktakeResponse], error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	scope := specification.ByStore{StoreID: storeId}
	matching := specification.MatchingQuery{Query: q, Columns: specification.StocktakeColumns}

	total, err := uow.StocktakeRepository().Count(ctx, scope, matching)
	if err != nil {
		return nil, err
	}
	stocktakes, err := uow.StocktakeRepository().FindAll(ctx, scope, matching,
		specification.QueryPage{Query: q, Columns: specification.StocktakeColumns})
	if err != nil {
		return nil, err
	}

	items := make([]*dto.StocktakeResponse, 0, len(stocktakes))
	for _, stocktake := range stocktakes {
		items = append(items, s.mapper.ToResponse(stocktake))
	}
	return &dto.ListResponse[*dto.StocktakeResponse]{Items: items, TotalCount: total}, nil
}

func (s *stocktakeService) Insert(ctx context.Context, storeId string, req *dto.CreateStocktakeRequest) (*dto.StocktakeResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	initial, err := firstStatus(s.statuses, stocktakeKind)
	if err != nil {
		return nil, err
	}
	number, err := uow.StocktakeRepository().NextNumber(ctx, storeId)
	if err != nil {
		return nil, err
	}

	id := uuid.New()
	if req.Id != nil {
		id = *req.Id
	}
	stocktake := entity.Stocktake{
		Id:              id,
		StoreId:         storeId,
		StocktakeNumber: number,
		Status:          initial,
		Description:     req.Description,
		Comment:         req.Comment,
		StocktakeDate:   req.StocktakeDate,
		CreatedAt:       time.Now().UTC(),
	}
	if err := uow.StocktakeRepository().Create(ctx, &stocktake); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.publisherService.Publish(ctx, events.NewDocumentEvent(events.DocumentCreated, string(stocktakeKind), storeId, stocktake.Id.String()))
	return s.mapper.ToResponse(&stocktake), nil
}

// Update rejects edits to a finalised stocktake. A locked stocktake accepts
// only the change that unlocks it.
func (s *stocktakeService) Update(ctx context.Context, storeId string, req *dto.UpdateStocktakeRequest) (*dto.StocktakeResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	stocktake, err := s.find(ctx, uow, storeId, req.Id)
	if err != nil {
		return nil, err
	}
	if !s.statuses.IsEditable(stocktakeKind, status.Status(stocktake.Status)) {
		return nil, document.Reject(document.CannotEditStocktake, "stocktake %d is %s", stocktake.StocktakeNumber, stocktake.Status)
	}

	locked := stocktake.IsLocked
	if req.IsLocked != nil {
		locked = *req.IsLocked
	}
	others := changed(req.Description, stocktake.Description) ||
		changed(req.Comment, stocktake.Comment) ||
		changed(req.Status, stocktake.Status) ||
		timeChanged(req.StocktakeDate, stocktake.StocktakeDate)
	if locked && others {
		return nil, document.Reject(document.CannotEditStocktake, "stocktake %d is locked", stocktake.StocktakeNumber)
	}

	stocktake.IsLocked = locked
	if req.Description != nil {
		stocktake.Description = *req.Description
	}
	if req.Comment != nil {
		stocktake.Comment = *req.Comment
	}
	if timeChanged(req.StocktakeDate, stocktake.StocktakeDate) {
		stocktake.StocktakeDate = req.StocktakeDate
	}

	now := time.Now().UTC()
	if changed(req.Status, stocktake.Status) {
		if err := checkStatusChange(s.statuses, stocktakeKind, stocktake.Status, *req.Status); err != nil {
			return nil, err
		}
		stocktake.Status = *req.Status
		if s.statuses.IsTerminal(stocktakeKind, status.Status(stocktake.Status)) {
			stocktake.FinalisedAt = &now
		}
	}
	stocktake.UpdatedAt = &now

	if err := uow.StocktakeRepository().Update(ctx, stocktake); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.publisherService.Publish(ctx, events.NewDocumentEvent(events.DocumentUpdated, string(stocktakeKind), storeId, stocktake.Id.String()))
	return s.mapper.ToResponse(stocktake), nil
}

func (s *stocktakeService) Delete(ctx context.Context, storeId string, ids []uuid.UUID) (*dto.DeleteResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	deleted := make([]string, 0, len(ids))
	for _, id := range ids {
		stocktake, err := s.find(ctx, uow, storeId, id)
		if err != nil {
			return nil, err
		}
		if !s.statuses.IsEditable(stocktakeKind, status.Status(stocktake.Status)) || stocktake.IsLocked {
			return nil, document.Reject(document.CannotEditStocktake, "stocktake %d cannot be deleted", stocktake.StocktakeNumber)
		}
		deleted = append(deleted, id.String())
	}
	if err := uow.StocktakeRepository().Delete(ctx, ids...); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.publisherService.Publish(ctx, events.NewDocumentEvent(events.DocumentDeleted, string(stocktakeKind), storeId, deleted...))
	return &dto.DeleteResponse{Ids: ids}, nil
}
