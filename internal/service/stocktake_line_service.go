package service

import (
	"context"
	"time"

	"stockflow/internal/dto"
	"stockflow/internal/entity"
	"stockflow/pkg/document"
	"stockflow/pkg/events"
	"stockflow/pkg/status"

	"github.com/google/uuid"
)

// editLines loads a stocktake whose lines may change: editable and not
// locked.
func (s *stocktakeService) editLines(ctx context.Context, storeId string, stocktakeId uuid.UUID, edit func(stocktake *entity.Stocktake) error) (*dto.StocktakeResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	stocktake, err := s.find(ctx, uow, storeId, stocktakeId)
	if err != nil {
		return nil, err
	}
	if !s.statuses.IsEditable(stocktakeKind, status.Status(stocktake.Status)) {
		return nil, document.Reject(document.CannotEditStocktake, "stocktake %d is %s", stocktake.StocktakeNumber, stocktake.Status)
	}
	if stocktake.IsLocked {
		return nil, document.Reject(document.CannotEditStocktake, "stocktake %d is locked", stocktake.StocktakeNumber)
	}
	if err := edit(stocktake); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
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

func stocktakeLineIndex(stocktake *entity.Stocktake, lineId uuid.UUID) int {
	for i, l := range stocktake.Lines {
		if l.Id == lineId {
			return i
		}
	}
	return -1
}

func (s *stocktakeService) InsertLine(ctx context.Context, storeId string, stocktakeId uuid.UUID, req *dto.InsertStocktakeLineRequest) (*dto.StocktakeResponse, error) {
	return s.editLines(ctx, storeId, stocktakeId, func(stocktake *entity.Stocktake) error {
		id := uuid.New()
		if req.Id != nil {
			id = *req.Id
		}
		if stocktakeLineIndex(stocktake, id) >= 0 {
			return document.Reject(document.LineAlreadyExists, "line %s already exists", id)
		}
		stocktake.Lines = append(stocktake.Lines, entity.StocktakeLine{
			Id:                    id,
			ItemId:                req.ItemId,
			ItemName:              req.ItemName,
			PackSize:              req.PackSize,
			SnapshotNumberOfPacks: req.SnapshotNumberOfPacks,
			CountedNumberOfPacks:  req.CountedNumberOfPacks,
			Comment:               req.Comment,
		})
		return nil
	})
}

func (s *stocktakeService) UpdateLine(ctx context.Context, storeId string, stocktakeId, lineId uuid.UUID, req *dto.UpdateStocktakeLineRequest) (*dto.StocktakeResponse, error) {
	return s.editLines(ctx, storeId, stocktakeId, func(stocktake *entity.Stocktake) error {
		i := stocktakeLineIndex(stocktake, lineId)
		if i < 0 {
			return document.Reject(document.RecordNotFound, "line %s not found", lineId)
		}
		if req.CountedNumberOfPacks != nil {
			counted := *req.CountedNumberOfPacks
			stocktake.Lines[i].CountedNumberOfPacks = &counted
		}
		if req.Comment != nil {
			stocktake.Lines[i].Comment = *req.Comment
		}
		return nil
	})
}

func (s *stocktakeService) DeleteLine(ctx context.Context, storeId string, stocktakeId, lineId uuid.UUID) (*dto.StocktakeResponse, error) {
	return s.editLines(ctx, storeId, stocktakeId, func(stocktake *entity.Stocktake) error {
		i := stocktakeLineIndex(stocktake, lineId)
		if i < 0 {
			return document.Reject(document.RecordNotFound, "line %s not found", lineId)
		}
		stocktake.Lines = append(stocktake.Lines[:i], stocktake.Lines[i+1:]...)
		return nil
	})
}
