package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockflow/internal/bootstrap"
	"stockflow/internal/config"
	"stockflow/internal/dto"
	"stockflow/internal/entity"
	"stockflow/internal/pkg/serverutils"
	"stockflow/internal/repository/memory"
	"stockflow/internal/repository/unitofwork"
)

const secret = "test-secret"

type apiClient struct {
	t     *testing.T
	srv   *Server
	token string
}

type envelope struct {
	Success bool            `json:"success"`
	Kind    string          `json:"kind"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *apiClient) do(method, path string, body any) (int, envelope) {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.srv.GetApp().Test(req, -1)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	if len(raw) > 0 {
		require.NoError(c.t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func newTestServer(t *testing.T) (*apiClient, *entity.Name) {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		App: config.AppConfig{
			Environment:        "test",
			LogFilePath:        filepath.Join(dir, "app.log"),
			EventLogFilePath:   filepath.Join(dir, "events.log"),
			CorsAllowedOrigins: "*",
		},
		Cache: config.CacheConfig{TTL: time.Minute, CleanupInterval: time.Minute, DefaultPageSize: 20},
		Auth:  config.AuthConfig{JWTSecret: secret},
	}

	store := memory.NewStore()
	customer := &entity.Name{Id: uuid.New(), Name: "Clinic", IsCustomer: true}
	require.NoError(t, store.Names().Create(context.Background(), customer))

	container := bootstrap.NewContainer(unitofwork.NewMemoryRepositoryFactory(store), cfg)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(func() {
		cancel()
		container.Close()
	})
	require.NoError(t, container.Start(ctx))

	token, err := serverutils.SignStoreToken(secret, "store-1")
	require.NoError(t, err)
	return &apiClient{t: t, srv: New(cfg, container), token: token}, customer
}

func TestRequiresToken(t *testing.T) {
	c, _ := newTestServer(t)
	c.token = ""
	code, _ := c.do(http.MethodGet, "/api/outbound-shipment/v1", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	c.token = "garbage"
	code, _ = c.do(http.MethodGet, "/api/outbound-shipment/v1", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = c.do(http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestInvoiceLifecycle(t *testing.T) {
	c, customer := newTestServer(t)

	code, env := c.do(http.MethodPost, "/api/outbound-shipment/v1", dto.CreateInvoiceRequest{OtherPartyId: customer.Id, Colour: "#ff0000"})
	require.Equal(t, http.StatusCreated, code, env.Message)
	created := decode[dto.InvoiceResponse](t, env)
	assert.Equal(t, "DRAFT", created.Status)

	code, env = c.do(http.MethodPost, "/api/outbound-shipment/v1", map[string]any{"otherPartyId": customer.Id, "colour": "red"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = c.do(http.MethodGet, "/api/outbound-shipment/v1", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(1), decode[dto.ListResponse[dto.InvoiceResponse]](t, env).TotalCount)

	code, _ = c.do(http.MethodPost, "/api/outbound-shipment/v1", dto.CreateInvoiceRequest{OtherPartyId: customer.Id})
	require.Equal(t, http.StatusCreated, code)

	// The cached list is dropped once the created event has been consumed.
	assert.Eventually(t, func() bool {
		_, env := c.do(http.MethodGet, "/api/outbound-shipment/v1", nil)
		return decode[dto.ListResponse[dto.InvoiceResponse]](t, env).TotalCount == 2
	}, 2*time.Second, 20*time.Millisecond)

	path := "/api/outbound-shipment/v1/" + created.Id.String()
	code, env = c.do(http.MethodPatch, path, map[string]any{"status": "FINALISED"})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "InvalidStatusChange", env.Kind)

	code, env = c.do(http.MethodPatch, path, map[string]any{"status": "CONFIRMED", "comment": "packed"})
	require.Equal(t, http.StatusOK, code, env.Message)
	assert.Equal(t, "packed", decode[dto.InvoiceResponse](t, env).Comment)

	code, env = c.do(http.MethodPatch, path, map[string]any{"status": "DRAFT"})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "CannotReverseStatus", env.Kind)

	code, env = c.do(http.MethodGet, "/api/inbound-shipment/v1/"+created.Id.String(), nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "RecordNotFound", env.Kind)

	code, _ = c.do(http.MethodGet, "/api/outbound-shipment/v1/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestListQueryParameters(t *testing.T) {
	c, customer := newTestServer(t)
	for _, comment := range []string{"alpha", "beta", "gamma"} {
		code, _ := c.do(http.MethodPost, "/api/outbound-shipment/v1", dto.CreateInvoiceRequest{OtherPartyId: customer.Id, Comment: comment})
		require.Equal(t, http.StatusCreated, code)
	}

	code, env := c.do(http.MethodGet, "/api/outbound-shipment/v1?sort=comment&desc=true&first=2", nil)
	require.Equal(t, http.StatusOK, code)
	page := decode[dto.ListResponse[dto.InvoiceResponse]](t, env)
	assert.Equal(t, int64(3), page.TotalCount)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "gamma", page.Items[0].Comment)

	code, env = c.do(http.MethodGet, "/api/outbound-shipment/v1?filter.comment.like=ET", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(1), decode[dto.ListResponse[dto.InvoiceResponse]](t, env).TotalCount)

	code, _ = c.do(http.MethodGet, "/api/outbound-shipment/v1?filter.secret.equalTo=x", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = c.do(http.MethodGet, "/api/outbound-shipment/v1?filter.comment.matches=x", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestResponseRequisitionSupply(t *testing.T) {
	c, customer := newTestServer(t)

	code, env := c.do(http.MethodPost, "/api/response-requisition/v1", dto.CreateRequisitionRequest{
		OtherPartyId: customer.Id,
		Lines: []dto.RequisitionLineRequest{
			{ItemId: "a", ItemName: "Amoxicillin", RequestedQuantity: 10, SupplyQuantity: 10},
		},
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	requisition := decode[dto.RequisitionResponse](t, env)

	path := "/api/response-requisition/v1/" + requisition.Id.String() + "/outbound"
	code, env = c.do(http.MethodPost, path, nil)
	require.Equal(t, http.StatusCreated, code, env.Message)
	invoice := decode[dto.InvoiceResponse](t, env)
	assert.Equal(t, requisition.Id, *invoice.RequisitionId)
	require.Len(t, invoice.Lines, 1)
	assert.Equal(t, float64(10), invoice.Lines[0].TotalUnits)

	code, env = c.do(http.MethodPost, path, nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "NothingRemainingToSupply", env.Kind)
}

func TestDeleteStocktakes(t *testing.T) {
	c, _ := newTestServer(t)

	code, env := c.do(http.MethodPost, "/api/stocktake/v1", dto.CreateStocktakeRequest{Description: "count"})
	require.Equal(t, http.StatusCreated, code)
	st := decode[dto.StocktakeResponse](t, env)

	code, _ = c.do(http.MethodDelete, "/api/stocktake/v1", dto.DeleteRequest{})
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = c.do(http.MethodDelete, "/api/stocktake/v1", dto.DeleteRequest{Ids: []uuid.UUID{st.Id}})
	require.Equal(t, http.StatusOK, code, env.Message)

	code, _ = c.do(http.MethodGet, "/api/stocktake/v1/"+st.Id.String(), nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestInvoiceLineRoutes(t *testing.T) {
	c, customer := newTestServer(t)

	code, env := c.do(http.MethodPost, "/api/outbound-shipment/v1", dto.CreateInvoiceRequest{OtherPartyId: customer.Id})
	require.Equal(t, http.StatusCreated, code, env.Message)
	invoice := decode[dto.InvoiceResponse](t, env)
	lines := "/api/outbound-shipment/v1/" + invoice.Id.String() + "/lines"

	code, env = c.do(http.MethodPost, lines, map[string]any{"itemId": "a", "itemName": "Amoxicillin", "packSize": 10, "numberOfPacks": 0})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "NumberOfPacksBelowOne", env.Kind)

	code, env = c.do(http.MethodPost, lines, map[string]any{"itemId": "a", "itemName": "Amoxicillin", "packSize": 10, "numberOfPacks": 2})
	require.Equal(t, http.StatusCreated, code, env.Message)
	withLine := decode[dto.InvoiceResponse](t, env)
	require.Len(t, withLine.Lines, 1)
	line := lines + "/" + withLine.Lines[0].Id.String()

	code, env = c.do(http.MethodPatch, line, map[string]any{"numberOfPacks": 4})
	require.Equal(t, http.StatusOK, code, env.Message)
	assert.Equal(t, float64(40), decode[dto.InvoiceResponse](t, env).Lines[0].TotalUnits)

	code, _ = c.do(http.MethodPatch, lines+"/not-a-uuid", map[string]any{"numberOfPacks": 4})
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = c.do(http.MethodDelete, line, nil)
	require.Equal(t, http.StatusOK, code, env.Message)
	assert.Empty(t, decode[dto.InvoiceResponse](t, env).Lines)

	code, env = c.do(http.MethodDelete, line, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "RecordNotFound", env.Kind)
}

func TestStocktakeLineRoutes(t *testing.T) {
	c, _ := newTestServer(t)

	code, env := c.do(http.MethodPost, "/api/stocktake/v1", dto.CreateStocktakeRequest{Description: "count"})
	require.Equal(t, http.StatusCreated, code)
	st := decode[dto.StocktakeResponse](t, env)
	lines := "/api/stocktake/v1/" + st.Id.String() + "/lines"

	code, env = c.do(http.MethodPost, lines, map[string]any{"itemId": "p", "itemName": "Paracetamol", "packSize": 1, "snapshotNumberOfPacks": 5})
	require.Equal(t, http.StatusCreated, code, env.Message)
	line := lines + "/" + decode[dto.StocktakeResponse](t, env).Lines[0].Id.String()

	code, env = c.do(http.MethodPatch, line, map[string]any{"countedNumberOfPacks": 7})
	require.Equal(t, http.StatusOK, code, env.Message)
	assert.Equal(t, float64(2), decode[dto.StocktakeResponse](t, env).Lines[0].Difference)

	code, _ = c.do(http.MethodPatch, "/api/stocktake/v1/"+st.Id.String(), map[string]any{"isLocked": true})
	require.Equal(t, http.StatusOK, code)
	code, env = c.do(http.MethodDelete, line, nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "CannotEditStocktake", env.Kind)
}
