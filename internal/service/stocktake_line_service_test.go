package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockflow/internal/dto"
	"stockflow/pkg/document"
	"stockflow/pkg/status"
)

func TestStocktakeLinesCount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	stocktakes := NewStocktakeService(f.factory, f.publisher, status.Default)
	st, err := stocktakes.Insert(ctx, storeId, &dto.CreateStocktakeRequest{Description: "count"})
	require.NoError(t, err)

	withLine, err := stocktakes.InsertLine(ctx, storeId, st.Id, &dto.InsertStocktakeLineRequest{
		ItemId: "para", ItemName: "Paracetamol 500mg", PackSize: 100, SnapshotNumberOfPacks: 12,
	})
	require.NoError(t, err)
	require.Len(t, withLine.Lines, 1)
	line := withLine.Lines[0]
	assert.Nil(t, line.CountedNumberOfPacks)
	assert.Zero(t, line.Difference)

	counted, err := stocktakes.UpdateLine(ctx, storeId, st.Id, line.Id, &dto.UpdateStocktakeLineRequest{CountedNumberOfPacks: ptr(10.0)})
	require.NoError(t, err)
	require.NotNil(t, counted.Lines[0].CountedNumberOfPacks)
	assert.Equal(t, 10.0, *counted.Lines[0].CountedNumberOfPacks)
	assert.Equal(t, -2.0, counted.Lines[0].Difference)

	_, err = stocktakes.Update(ctx, storeId, &dto.UpdateStocktakeRequest{Id: st.Id, IsLocked: ptr(true)})
	require.NoError(t, err)
	_, err = stocktakes.UpdateLine(ctx, storeId, st.Id, line.Id, &dto.UpdateStocktakeLineRequest{CountedNumberOfPacks: ptr(11.0)})
	requireKind(t, err, document.CannotEditStocktake)
	_, err = stocktakes.DeleteLine(ctx, storeId, st.Id, line.Id)
	requireKind(t, err, document.CannotEditStocktake)

	_, err = stocktakes.Update(ctx, storeId, &dto.UpdateStocktakeRequest{Id: st.Id, IsLocked: ptr(false)})
	require.NoError(t, err)
	fetched, err := stocktakes.Get(ctx, storeId, st.Id)
	require.NoError(t, err)
	assert.Equal(t, 10.0, *fetched.Lines[0].CountedNumberOfPacks)

	emptied, err := stocktakes.DeleteLine(ctx, storeId, st.Id, line.Id)
	require.NoError(t, err)
	assert.Empty(t, emptied.Lines)
}

func TestStocktakeLineRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	stocktakes := NewStocktakeService(f.factory, f.publisher, status.Default)
	st, err := stocktakes.Insert(ctx, storeId, &dto.CreateStocktakeRequest{})
	require.NoError(t, err)

	_, err = stocktakes.InsertLine(ctx, storeId, uuid.New(), &dto.InsertStocktakeLineRequest{ItemId: "para", ItemName: "Paracetamol", PackSize: 1})
	requireKind(t, err, document.RecordNotFound)

	lineId := uuid.New()
	_, err = stocktakes.InsertLine(ctx, storeId, st.Id, &dto.InsertStocktakeLineRequest{Id: &lineId, ItemId: "para", ItemName: "Paracetamol", PackSize: 1})
	require.NoError(t, err)
	_, err = stocktakes.InsertLine(ctx, storeId, st.Id, &dto.InsertStocktakeLineRequest{Id: &lineId, ItemId: "para", ItemName: "Paracetamol", PackSize: 1})
	requireKind(t, err, document.LineAlreadyExists)

	_, err = stocktakes.UpdateLine(ctx, storeId, st.Id, uuid.New(), &dto.UpdateStocktakeLineRequest{Comment: ptr("x")})
	requireKind(t, err, document.RecordNotFound)

	_, err = stocktakes.Update(ctx, storeId, &dto.UpdateStocktakeRequest{Id: st.Id, Status: ptr("FINALISED")})
	require.NoError(t, err)
	_, err = stocktakes.InsertLine(ctx, storeId, st.Id, &dto.InsertStocktakeLineRequest{ItemId: "para", ItemName: "Paracetamol", PackSize: 1})
	requireKind(t, err, document.CannotEditStocktake)
}
