package remote

import (
	"context"
	"fmt"

	"stockflow/internal/mapper"
	"stockflow/pkg/document"
	"stockflow/pkg/listquery"
	"stockflow/pkg/querycache"
)

// Page is one cached page of a document list.
type Page struct {
	Documents  []document.Document
	TotalCount int64
}

// Lister serves document lists through a query cache keyed by
// document.ListKey, so equal queries share one fetch.
type Lister struct {
	services     Services
	cache        *querycache.Cache[Page]
	invoices     *mapper.InvoiceMapper
	requisitions *mapper.RequisitionMapper
	stocktakes   *mapper.StocktakeMapper
}

func NewLister(services Services, cache *querycache.Cache[Page]) *Lister {
	return &Lister{
		services:     services,
		cache:        cache,
		invoices:     mapper.NewInvoiceMapper(),
		requisitions: mapper.NewRequisitionMapper(),
		stocktakes:   mapper.NewStocktakeMapper(),
	}
}

func (l *Lister) List(ctx context.Context, kind document.Kind, storeId string, q listquery.ListQuery) (Page, error) {
	key := document.ListKey(kind, storeId, q.Key())
	return l.cache.Fetch(ctx, key, func(ctx context.Context) (Page, error) {
		return l.fetch(ctx, kind, storeId, q)
	})
}

// Invalidate drops every cached page under prefix.
func (l *Lister) Invalidate(prefix document.QueryKey) {
	l.cache.Invalidate(prefix)
}

func (l *Lister) fetch(ctx context.Context, kind document.Kind, storeId string, q listquery.ListQuery) (Page, error) {
	if svc, ok := l.services.Invoices[kind]; ok {
		res, err := svc.List(ctx, storeId, q)
		if err != nil {
			return Page{}, err
		}
		docs := make([]document.Document, 0, len(res.Items))
		for _, item := range res.Items {
			docs = append(docs, l.invoices.ResponseToDocument(item))
		}
		return Page{Documents: docs, TotalCount: res.TotalCount}, nil
	}
	if svc, ok := l.services.Requisitions[kind]; ok {
		res, err := svc.List(ctx, storeId, q)
		if err != nil {
			return Page{}, err
		}
		docs := make([]document.Document, 0, len(res.Items))
		for _, item := range res.Items {
			docs = append(docs, l.requisitions.ResponseToDocument(item))
		}
		return Page{Documents: docs, TotalCount: res.TotalCount}, nil
	}
	if kind == document.KindStocktake && l.services.Stocktakes != nil {
		res, err := l.services.Stocktakes.List(ctx, storeId, q)
		if err != nil {
			return Page{}, err
		}
		docs := make([]document.Document, 0, len(res.Items))
		for _, item := range res.Items {
			docs = append(docs, l.stocktakes.ResponseToDocument(item))
		}
		return Page{Documents: docs, TotalCount: res.TotalCount}, nil
	}
	return Page{}, fmt.Errorf("%w %s", ErrUnsupportedKind, kind)
}
