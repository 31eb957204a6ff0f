package remote

import (
	"context"
	"fmt"

	"stockflow/internal/dto"
	"stockflow/pkg/document"

	"github.com/google/uuid"
)

// LineInput is a line change for invoices and stocktakes. A nil pointer
// leaves the value alone on update. Invoices ignore the stocktake counts and
// stocktakes ignore batch and packs.
type LineInput struct {
	Id                    *uuid.UUID
	ItemId                string
	ItemName              string
	BatchName             *string
	PackSize              *float64
	NumberOfPacks         *float64
	SnapshotNumberOfPacks *float64
	CountedNumberOfPacks  *float64
	Note                  *string
}

func valueOr[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}

func documentID(key document.QueryKey) (uuid.UUID, error) {
	id, err := uuid.Parse(key.Target)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid document id %q: %w", key.Target, err)
	}
	return id, nil
}

// InsertLine adds a line to the document of key and returns the document.
func (s *Source) InsertLine(ctx context.Context, key document.QueryKey, in LineInput) (document.Document, error) {
	id, err := documentID(key)
	if err != nil {
		return nil, err
	}

	if svc, ok := s.services.Invoices[key.Kind]; ok {
		res, err := svc.InsertLine(ctx, key.Scope, id, &dto.InsertInvoiceLineRequest{
			Id:            in.Id,
			ItemId:        in.ItemId,
			ItemName:      in.ItemName,
			BatchName:     valueOr(in.BatchName, ""),
			PackSize:      valueOr(in.PackSize, 1),
			NumberOfPacks: valueOr(in.NumberOfPacks, 0),
			Note:          valueOr(in.Note, ""),
		})
		if err != nil {
			return nil, err
		}
		return s.invoices.ResponseToDocument(res), nil
	}
	if key.Kind == document.KindStocktake && s.services.Stocktakes != nil {
		res, err := s.services.Stocktakes.InsertLine(ctx, key.Scope, id, &dto.InsertStocktakeLineRequest{
			Id:                    in.Id,
			ItemId:                in.ItemId,
			ItemName:              in.ItemName,
			PackSize:              valueOr(in.PackSize, 1),
			SnapshotNumberOfPacks: valueOr(in.SnapshotNumberOfPacks, 0),
			CountedNumberOfPacks:  in.CountedNumberOfPacks,
			Comment:               valueOr(in.Note, ""),
		})
		if err != nil {
			return nil, err
		}
		return s.stocktakes.ResponseToDocument(res), nil
	}
	return nil, fmt.Errorf("%w %s lines", ErrUnsupportedKind, key.Kind)
}

// UpdateLine changes line lineId of the document of key.
func (s *Source) UpdateLine(ctx context.Context, key document.QueryKey, lineId uuid.UUID, in LineInput) (document.Document, error) {
	id, err := documentID(key)
	if err != nil {
		return nil, err
	}

	if svc, ok := s.services.Invoices[key.Kind]; ok {
		res, err := svc.UpdateLine(ctx, key.Scope, id, lineId, &dto.UpdateInvoiceLineRequest{
			BatchName:     in.BatchName,
			PackSize:      in.PackSize,
			NumberOfPacks: in.NumberOfPacks,
			Note:          in.Note,
		})
		if err != nil {
			return nil, err
		}
		return s.invoices.ResponseToDocument(res), nil
	}
	if key.Kind == document.KindStocktake && s.services.Stocktakes != nil {
		res, err := s.services.Stocktakes.UpdateLine(ctx, key.Scope, id, lineId, &dto.UpdateStocktakeLineRequest{
			CountedNumberOfPacks: in.CountedNumberOfPacks,
			Comment:              in.Note,
		})
		if err != nil {
			return nil, err
		}
		return s.stocktakes.ResponseToDocument(res), nil
	}
	return nil, fmt.Errorf("%w %s lines", ErrUnsupportedKind, key.Kind)
}

// DeleteLine removes line lineId from the document of key.
func (s *Source) DeleteLine(ctx context.Context, key document.QueryKey, lineId uuid.UUID) (document.Document, error) {
	id, err := documentID(key)
	if err != nil {
		return nil, err
	}

	if svc, ok := s.services.Invoices[key.Kind]; ok {
		res, err := svc.DeleteLine(ctx, key.Scope, id, lineId)
		if err != nil {
			return nil, err
		}
		return s.invoices.ResponseToDocument(res), nil
	}
	if key.Kind == document.KindStocktake && s.services.Stocktakes != nil {
		res, err := s.services.Stocktakes.DeleteLine(ctx, key.Scope, id, lineId)
		if err != nil {
			return nil, err
		}
		return s.stocktakes.ResponseToDocument(res), nil
	}
	return nil, fmt.Errorf("%w %s lines", ErrUnsupportedKind, key.Kind)
}
