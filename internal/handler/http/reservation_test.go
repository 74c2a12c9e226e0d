package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ruzaikr/screencloud-takehome/internal/domain"
)

// ---------------------------------------------------------------------------
// CheckFeasibility
// ---------------------------------------------------------------------------

func TestCheckFeasibility_ValidReturns200(t *testing.T) {
	svc, deps := testOrderService(t)
	router := setupOrderRouter(NewOrderHandler(svc, testLogger()), NewReservationHandler(svc, testLogger()))

	expectFulfillableOrder(deps)
	deps.pool.ExpectBegin()
	deps.pool.ExpectRollback()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations?reserve=false", orderRequestBody(t, 2))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Data)
	data := resp.Data.(map[string]any)
	assert.Equal(t, true, data["is_valid"])
	assert.Equal(t, float64(30000), data["total_price_cents"])
	assert.Equal(t, float64(0), data["shipping_cost_cents"])
}

func TestCheckFeasibility_ShippingCeilingReportsInvalid(t *testing.T) {
	svc, deps := testOrderService(t)
	router := setupOrderRouter(NewOrderHandler(svc, testLogger()), NewReservationHandler(svc, testLogger()))

	ids := []string{testProductID}
	deps.products.On("GetByIDs", mock.Anything, ids).Return(map[string]domain.Product{
		testProductID: {ID: testProductID, Name: "Ballast", UnitPriceCents: 1000, WeightGrams: 100000},
	}, nil)
	deps.products.On("GetDiscountsByProductIDs", mock.Anything, ids).
		Return(map[string][]domain.VolumeDiscount{}, nil)
	deps.warehouses.On("List", mock.Anything).Return([]domain.Warehouse{
		{ID: "wh-1", Name: "Remote", Latitude: 0, Longitude: 10},
	}, nil)
	deps.inventory.On("GetForUpdate", mock.Anything, mock.Anything, ids).
		Return(domain.StockSnapshot{"wh-1": {testProductID: 50}}, nil)
	deps.reservations.On("GetReservedQuantities", mock.Anything, mock.Anything, ids).
		Return(domain.StockSnapshot{}, nil)

	deps.pool.ExpectBegin()
	deps.pool.ExpectRollback()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", orderRequestBody(t, 1))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Data)
	data := resp.Data.(map[string]any)
	assert.Equal(t, false, data["is_valid"])
	assert.Contains(t, data["message"], "exceeds maximum allowed")
}

func TestCheckFeasibility_InsufficientInventoryReturns409(t *testing.T) {
	svc, deps := testOrderService(t)
	router := setupOrderRouter(NewOrderHandler(svc, testLogger()), NewReservationHandler(svc, testLogger()))

	expectFulfillableOrder(deps)
	deps.pool.ExpectBegin()
	deps.pool.ExpectRollback()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", orderRequestBody(t, 100))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "CONFLICT", resp.Error.Code)
}

func TestCheckFeasibility_MalformedProductIDReturns400(t *testing.T) {
	svc, deps := testOrderService(t)
	router := setupOrderRouter(NewOrderHandler(svc, testLogger()), NewReservationHandler(svc, testLogger()))

	body, err := json.Marshal(map[string]any{
		"destination": map[string]float64{"latitude": 0, "longitude": 0},
		"items":       []map[string]any{{"product_id": "not-a-uuid", "quantity": 1}},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_PARAMETER", resp.Error.Code)

	deps.products.AssertNotCalled(t, "GetByIDs", mock.Anything, mock.Anything)
}

func TestCheckFeasibility_ReserveTrueReturns400(t *testing.T) {
	svc, _ := testOrderService(t)
	router := setupOrderRouter(NewOrderHandler(svc, testLogger()), NewReservationHandler(svc, testLogger()))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations?reserve=true", orderRequestBody(t, 1))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "not supported")
}
