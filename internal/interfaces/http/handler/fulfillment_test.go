package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	fulfillmentapp "github.com/erp/ledger/internal/application/fulfillment"
	stockapp "github.com/erp/ledger/internal/application/stock"
	"github.com/erp/ledger/internal/interfaces/http/dto"
	"github.com/erp/ledger/internal/testsupport/memrepo"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFulfillmentTestRouter(t *testing.T) (*gin.Engine, *stockapp.StockService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	productRepo := memrepo.NewProductRepo()
	movementRepo := memrepo.NewMovementRepo()
	orderRepo := memrepo.NewOrderRepo()
	shipmentRepo := memrepo.NewShipmentRepo()
	returnRepo := memrepo.NewReturnRepo()

	stockSvc := stockapp.NewStockService(productRepo, movementRepo,
		stockapp.NewNoOpTransactionScope(productRepo, movementRepo))

	scope := fulfillmentapp.NewNoOpTransactionScope(orderRepo, shipmentRepo, returnRepo, productRepo, movementRepo)
	orderSvc := fulfillmentapp.NewOrderService(orderRepo, productRepo, scope)
	shipmentSvc := fulfillmentapp.NewShipmentService(shipmentRepo, scope)
	returnSvc := fulfillmentapp.NewReturnService(returnRepo, orderRepo, scope)

	engine := gin.New()
	api := engine.Group("/api/v1")
	NewFulfillmentHandler(orderSvc, shipmentSvc, returnSvc).RegisterRoutes(api)
	NewStockHandler(stockSvc).RegisterRoutes(api)
	return engine, stockSvc
}

func seedFulfillmentProduct(t *testing.T, engine *gin.Engine, reference string, onHand int64) {
	t.Helper()
	w := doJSON(t, engine, http.MethodPost, "/api/v1/products", gin.H{
		"reference": reference,
		"name":      "Product " + reference,
		"unit":      "pcs",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	if onHand > 0 {
		w = doJSON(t, engine, http.MethodPost, "/api/v1/movements", gin.H{
			"product_reference": reference,
			"type":              "IN",
			"quantity":          onHand,
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	return data
}

func createOrderViaAPI(t *testing.T, engine *gin.Engine, orderNumber string) string {
	t.Helper()
	w := doJSON(t, engine, http.MethodPost, "/api/v1/orders", gin.H{
		"order_number":  orderNumber,
		"customer_name": "Acme Industries",
		"lines": []gin.H{
			{"product_reference": "PRD-100", "ordered_qty": 4},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	return decodeData(t, w)["id"].(string)
}

func TestFulfillmentHandler_OrderLifecycle(t *testing.T) {
	engine, _ := newFulfillmentTestRouter(t)
	seedFulfillmentProduct(t, engine, "PRD-100", 10)

	orderID := createOrderViaAPI(t, engine, "SO-001")

	w := doJSON(t, engine, http.MethodPost, "/api/v1/orders/"+orderID+"/confirm", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "CONFIRMED", decodeData(t, w)["status"])

	w = doJSON(t, engine, http.MethodPost, "/api/v1/orders/"+orderID+"/reserve", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "RESERVED", data["status"])
	assert.Equal(t, "RESERVED", data["stock_state"])
}

func TestFulfillmentHandler_RejectsOutOfSequenceTransition(t *testing.T) {
	engine, _ := newFulfillmentTestRouter(t)
	seedFulfillmentProduct(t, engine, "PRD-100", 10)

	orderID := createOrderViaAPI(t, engine, "SO-002")

	// Reserve on a NEW order must be rejected and leave the order unchanged
	w := doJSON(t, engine, http.MethodPost, "/api/v1/orders/"+orderID+"/reserve", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, engine, http.MethodGet, "/api/v1/orders/"+orderID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "NEW", decodeData(t, w)["status"])
}

func TestFulfillmentHandler_BackorderStockState(t *testing.T) {
	engine, _ := newFulfillmentTestRouter(t)
	seedFulfillmentProduct(t, engine, "PRD-100", 0)

	orderID := createOrderViaAPI(t, engine, "SO-003")

	w := doJSON(t, engine, http.MethodPost, "/api/v1/orders/"+orderID+"/confirm", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, engine, http.MethodPost, "/api/v1/orders/"+orderID+"/reserve", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "BACKORDER", decodeData(t, w)["stock_state"])
}

func TestFulfillmentHandler_CreateOrderValidation(t *testing.T) {
	engine, _ := newFulfillmentTestRouter(t)

	t.Run("rejects order without lines", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodPost, "/api/v1/orders", gin.H{
			"order_number":  "SO-010",
			"customer_name": "Acme Industries",
			"lines":         []gin.H{},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects malformed order id", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodPost, "/api/v1/orders/not-a-uuid/confirm", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
