package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockflow/internal/entity"
	"stockflow/internal/model"
	"stockflow/internal/repository/specification"
	"stockflow/internal/repository/unitofwork"
	"stockflow/pkg/database"
	"stockflow/pkg/document"
	"stockflow/pkg/listquery"
)

func TestGormRepositories(t *testing.T) {
	// Load .env from root
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.Open(dsn, database.DefaultPool, false)
	require.NoError(t, err)
	require.NoError(t, gormDB.AutoMigrate(model.All()...))

	ctx := context.Background()
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	storeId := "it-" + uuid.NewString()

	customer := &entity.Name{Id: uuid.New(), Code: "IT" + storeId[3:9], Name: "Integration Clinic", IsCustomer: true}
	require.NoError(t, uowFactory.NewUnitOfWork(ctx).NameRepository().Create(ctx, customer))

	t.Run("Invoice numbering and lists", func(t *testing.T) {
		uow := uowFactory.NewUnitOfWork(ctx)
		repo := uow.InvoiceRepository()

		for _, comment := range []string{"alpha", "beta"} {
			n, err := repo.NextNumber(ctx, storeId, document.KindOutboundShipment)
			require.NoError(t, err)
			require.NoError(t, repo.Create(ctx, &entity.Invoice{
				Id:             uuid.New(),
				StoreId:        storeId,
				Kind:           document.KindOutboundShipment,
				InvoiceNumber:  n,
				Status:         "DRAFT",
				OtherPartyId:   customer.Id,
				OtherPartyName: customer.Name,
				Comment:        comment,
				CreatedAt:      time.Now().UTC(),
			}))
		}

		q := listquery.New(string(document.FieldInvoiceNumber), 10).
			WithFilter(string(document.FieldComment), listquery.Like, "ALP")
		scope := []specification.Specification{
			specification.ByStore{StoreID: storeId},
			specification.ByKind{Kind: document.KindOutboundShipment},
			specification.MatchingQuery{Query: q, Columns: specification.InvoiceColumns},
		}
		count, err := repo.Count(ctx, scope...)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		found, err := repo.FindAll(ctx, append(scope, specification.QueryPage{Query: q, Columns: specification.InvoiceColumns})...)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, int64(1), found[0].InvoiceNumber)
	})

	t.Run("Requisition lines survive a round trip", func(t *testing.T) {
		uow := uowFactory.NewUnitOfWork(ctx)
		require.NoError(t, uow.Begin(ctx))
		defer uow.Rollback()

		id := uuid.New()
		require.NoError(t, uow.RequisitionRepository().Create(ctx, &entity.Requisition{
			Id:                id,
			StoreId:           storeId,
			Kind:              document.KindResponseRequisition,
			RequisitionNumber: 1,
			Status:            "NEW",
			OtherPartyId:      customer.Id,
			Lines:             []entity.RequisitionLine{{Id: uuid.New(), ItemId: "a", ItemName: "A", SupplyQuantity: 3}},
			CreatedAt:         time.Now().UTC(),
		}))

		got, err := uow.RequisitionRepository().FindOne(ctx, specification.ByID{ID: id})
		require.NoError(t, err)
		require.NotNil(t, got)
		require.Len(t, got.Lines, 1)
		assert.Equal(t, 3.0, got.Lines[0].RemainingToSupply())
	})

	t.Run("Stocktake lines keep uncounted packs", func(t *testing.T) {
		uow := uowFactory.NewUnitOfWork(ctx)
		require.NoError(t, uow.Begin(ctx))
		defer uow.Rollback()

		counted := 4.0
		id := uuid.New()
		require.NoError(t, uow.StocktakeRepository().Create(ctx, &entity.Stocktake{
			Id:              id,
			StoreId:         storeId,
			StocktakeNumber: 1,
			Status:          "NEW",
			Lines: []entity.StocktakeLine{
				{Id: uuid.New(), ItemId: "a", ItemName: "A", PackSize: 1, SnapshotNumberOfPacks: 5, CountedNumberOfPacks: &counted},
				{Id: uuid.New(), ItemId: "b", ItemName: "B", PackSize: 1, SnapshotNumberOfPacks: 2},
			},
			CreatedAt: time.Now().UTC(),
		}))

		got, err := uow.StocktakeRepository().FindOne(ctx, specification.ByID{ID: id})
		require.NoError(t, err)
		require.NotNil(t, got)
		require.Len(t, got.Lines, 2)
		assert.Equal(t, -1.0, got.Lines[0].Difference())
		assert.Nil(t, got.Lines[1].CountedNumberOfPacks)
	})

	t.Run("Unknown list fields are rejected", func(t *testing.T) {
		q := listquery.New("secret", 10)
		_, err := uowFactory.NewUnitOfWork(ctx).StocktakeRepository().FindAll(ctx,
			specification.QueryPage{Query: q, Columns: specification.StocktakeColumns})
		assert.ErrorIs(t, err, listquery.ErrUnknownField)
	})
}
