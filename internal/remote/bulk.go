package remote

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"stockflow/pkg/document"
	"stockflow/pkg/selection"
)

// Row is a listed document addressed by its id.
type Row struct {
	document.Document
}

func (r Row) RowID() string {
	id, _ := r.Document[document.FieldID].(string)
	return id
}

func (p Page) Rows() []Row {
	rows := make([]Row, 0, len(p.Documents))
	for _, doc := range p.Documents {
		rows = append(rows, Row{Document: doc})
	}
	return rows
}

// TableKey names the selection table of a document list.
func TableKey(kind document.Kind, storeId string) string {
	return document.BaseKey(kind, storeId).String()
}

// DeleteSelected deletes the rows of page that are selected under tableKey.
// On success the deleted rows are deselected and every cached page of the
// kind is dropped. Selected ids the page does not show are left alone.
func (l *Lister) DeleteSelected(ctx context.Context, kind document.Kind, storeId string, sel *selection.Store, tableKey string, page Page) ([]uuid.UUID, error) {
	rows := selection.SelectedRows(sel, tableKey, page.Rows())
	if len(rows) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		id, err := uuid.Parse(row.RowID())
		if err != nil {
			return nil, fmt.Errorf("row %q: %w", row.RowID(), document.ErrNotFound)
		}
		ids = append(ids, id)
	}

	deleted, err := l.delete(ctx, kind, storeId, ids)
	if err != nil {
		return nil, err
	}
	deselect := make([]string, 0, len(deleted))
	for _, id := range deleted {
		deselect = append(deselect, id.String())
	}
	sel.SetAll(tableKey, deselect, false)
	l.Invalidate(document.BaseKey(kind, storeId))
	return deleted, nil
}

func (l *Lister) delete(ctx context.Context, kind document.Kind, storeId string, ids []uuid.UUID) ([]uuid.UUID, error) {
	if svc, ok := l.services.Invoices[kind]; ok {
		res, err := svc.Delete(ctx, storeId, ids)
		if err != nil {
			return nil, err
		}
		return res.Ids, nil
	}
	if svc, ok := l.services.Requisitions[kind]; ok {
		res, err := svc.Delete(ctx, storeId, ids)
		if err != nil {
			return nil, err
		}
		return res.Ids, nil
	}
	if kind == document.KindStocktake && l.services.Stocktakes != nil {
		res, err := l.services.Stocktakes.Delete(ctx, storeId, ids)
		if err != nil {
			return nil, err
		}
		return res.Ids, nil
	}
	return nil, fmt.Errorf("%w %s", ErrUnsupportedKind, kind)
}
