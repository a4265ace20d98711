// internal/interfaces/http/handlers/stock_test.go
package handlers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/procurement-backend/internal/domain/order"
	"github.com/your-org/procurement-backend/internal/domain/stock"
	"github.com/your-org/procurement-backend/internal/interfaces/http/routes"
	"github.com/your-org/procurement-backend/internal/testutil"
	"gorm.io/gorm"
)

func setupStockTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	cfg := testutil.TestConfig(t)

	r := testutil.SetupRouter()
	api := r.Group("/api")
	routes.SetupStockRoutes(api, db, cfg)
	routes.SetupOrderRoutes(api, db, cfg)
	return r, db
}

func TestGetStockWithReservations(t *testing.T) {
	r, db := setupStockTest(t)
	prod := testutil.SeedProduct(t, db, "Insole", 2000, 25)
	sup := testutil.SeedSupplier(t, db, "Foam Works")

	// A pending order reserves quantity against the product
	w := testutil.DoRequest(r, http.MethodPost, "/api/orders/create", gin.H{
		"products":          []gin.H{{"product_id": prod.ID, "quantity": 8}},
		"supplier_id":       sup.ID,
		"expected_delivery": time.Now().AddDate(0, 0, 14).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = testutil.DoRequest(r, http.MethodGet, "/api/stock", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := testutil.ParseResponse(w)
	data, ok := resp["data"].([]interface{})
	require.True(t, ok)
	require.Len(t, data, 1)

	entry := data[0].(map[string]interface{})
	assert.Equal(t, float64(25), entry["current_stock"])
	assert.Equal(t, "Insole", entry["product_name"])

	reserved, ok := entry["reserved_for"].([]interface{})
	require.True(t, ok)
	require.Len(t, reserved, 1)
	assert.Equal(t, float64(8), reserved[0].(map[string]interface{})["quantity"])
}

func TestLowStockEndpoint(t *testing.T) {
	r, db := setupStockTest(t)
	prod := testutil.SeedProduct(t, db, "Scarce", 2000, 10)

	var st stock.Stock
	require.NoError(t, db.Where("product_id = ?", prod.ID).First(&st).Error)

	// Operator correction below the threshold
	w := testutil.DoRequest(r, http.MethodPut, fmt.Sprintf("/api/stock/%d", st.ID), gin.H{
		"current_stock": 2,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = testutil.DoRequest(r, http.MethodGet, "/api/stock/low-stock", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := testutil.ParseResponse(w)
	data := resp["data"].([]interface{})
	require.Len(t, data, 1)
	assert.Equal(t, string(stock.StatusLowStock), data[0].(map[string]interface{})["status"])
}

func TestUpdateStockRejectsNegative(t *testing.T) {
	r, db := setupStockTest(t)
	prod := testutil.SeedProduct(t, db, "Insole", 2000, 10)

	var st stock.Stock
	require.NoError(t, db.Where("product_id = ?", prod.ID).First(&st).Error)

	w := testutil.DoRequest(r, http.MethodPut, fmt.Sprintf("/api/stock/%d", st.ID), gin.H{
		"current_stock": -5,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderStatusErrorMapping(t *testing.T) {
	r, db := setupStockTest(t)
	prod := testutil.SeedProduct(t, db, "Insole", 2000, 10)
	sup := testutil.SeedSupplier(t, db, "Foam Works")

	w := testutil.DoRequest(r, http.MethodPost, "/api/orders/create", gin.H{
		"products":          []gin.H{{"product_id": prod.ID, "quantity": 2}},
		"supplier_id":       sup.ID,
		"expected_delivery": time.Now().AddDate(0, 0, 14).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var ord order.Order
	require.NoError(t, db.First(&ord).Error)

	// Unknown label -> 400
	w = testutil.DoRequest(r, http.MethodPut, fmt.Sprintf("/api/orders/%d/status", ord.ID), gin.H{
		"status": "Teleported",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown order -> 404
	w = testutil.DoRequest(r, http.MethodPut, "/api/orders/99999/status", gin.H{
		"status": "Received",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Double mark-paid -> 409
	w = testutil.DoRequest(r, http.MethodPut, fmt.Sprintf("/api/orders/%d/mark-paid", ord.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = testutil.DoRequest(r, http.MethodPut, fmt.Sprintf("/api/orders/%d/mark-paid", ord.ID), nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}
