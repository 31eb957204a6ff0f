package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockflow/internal/dto"
	"stockflow/pkg/document"
	"stockflow/pkg/status"
)

func TestStocktakeLock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	stocktakes := NewStocktakeService(f.factory, f.publisher, status.Default)
	st, err := stocktakes.Insert(ctx, storeId, &dto.CreateStocktakeRequest{Description: "count"})
	require.NoError(t, err)
	assert.Equal(t, "NEW", st.Status)
	assert.Equal(t, int64(1), st.StocktakeNumber)

	_, err = stocktakes.Update(ctx, storeId, &dto.UpdateStocktakeRequest{Id: st.Id, IsLocked: ptr(true), Comment: ptr("x")})
	requireKind(t, err, document.CannotEditStocktake)

	locked, err := stocktakes.Update(ctx, storeId, &dto.UpdateStocktakeRequest{Id: st.Id, IsLocked: ptr(true)})
	require.NoError(t, err)
	assert.True(t, locked.IsLocked)

	_, err = stocktakes.Update(ctx, storeId, &dto.UpdateStocktakeRequest{Id: st.Id, Description: ptr("recount")})
	requireKind(t, err, document.CannotEditStocktake)

	// Repeating current values is not an edit.
	_, err = stocktakes.Update(ctx, storeId, &dto.UpdateStocktakeRequest{Id: st.Id, IsLocked: ptr(true), Description: ptr("count")})
	require.NoError(t, err)

	_, err = stocktakes.Delete(ctx, storeId, []uuid.UUID{st.Id})
	requireKind(t, err, document.CannotEditStocktake)

	unlocked, err := stocktakes.Update(ctx, storeId, &dto.UpdateStocktakeRequest{Id: st.Id, IsLocked: ptr(false), Description: ptr("recount")})
	require.NoError(t, err)
	assert.False(t, unlocked.IsLocked)
	assert.Equal(t, "recount", unlocked.Description)
}

func TestStocktakeFinalised(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	stocktakes := NewStocktakeService(f.factory, f.publisher, status.Default)
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	st, err := stocktakes.Insert(ctx, storeId, &dto.CreateStocktakeRequest{StocktakeDate: &date})
	require.NoError(t, err)

	done, err := stocktakes.Update(ctx, storeId, &dto.UpdateStocktakeRequest{Id: st.Id, Status: ptr("FINALISED")})
	require.NoError(t, err)
	assert.NotNil(t, done.FinalisedDatetime)

	_, err = stocktakes.Update(ctx, storeId, &dto.UpdateStocktakeRequest{Id: st.Id, Comment: ptr("late")})
	requireKind(t, err, document.CannotEditStocktake)

	_, err = stocktakes.Update(ctx, storeId, &dto.UpdateStocktakeRequest{Id: st.Id, Status: ptr("NEW")})
	requireKind(t, err, document.CannotEditStocktake)
}
