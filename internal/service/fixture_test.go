package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"stockflow/internal/entity"
	"stockflow/internal/repository/memory"
	"stockflow/internal/repository/unitofwork"
	"stockflow/pkg/document"
	"stockflow/pkg/events"
)

const storeId = "store-1"

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.DocumentEvent
}

func (p *recordingPublisher) Publish(_ context.Context, event events.DocumentEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) published() []events.DocumentEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.DocumentEvent(nil), p.events...)
}

type fixture struct {
	factory   unitofwork.RepositoryFactory
	publisher *recordingPublisher
	customer  *entity.Name
	supplier  *entity.Name
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		factory:   unitofwork.NewMemoryRepositoryFactory(memory.NewStore()),
		publisher: &recordingPublisher{},
		customer:  &entity.Name{Id: uuid.New(), Code: "C1", Name: "Central Clinic", IsCustomer: true},
		supplier:  &entity.Name{Id: uuid.New(), Code: "S1", Name: "Wholesale Ltd", IsSupplier: true},
	}
	uow := f.factory.NewUnitOfWork(context.Background())
	for _, n := range []*entity.Name{f.customer, f.supplier} {
		require.NoError(t, uow.NameRepository().Create(context.Background(), n))
	}
	return f
}

func ptr[T any](v T) *T { return &v }

func requireKind(t *testing.T, err error, kind document.ErrorKind) {
	t.Helper()
	require.Error(t, err)
	got, ok := document.KindOf(err)
	require.True(t, ok, "expected a domain error, got %v", err)
	require.Equal(t, kind, got)
}
