// internal/domain/production/service_test.go
package production_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/procurement-backend/internal/domain/order"
	"github.com/your-org/procurement-backend/internal/domain/product"
	"github.com/your-org/procurement-backend/internal/domain/production"
	"github.com/your-org/procurement-backend/internal/domain/stock"
	"github.com/your-org/procurement-backend/internal/pkg/apperrors"
	"github.com/your-org/procurement-backend/internal/testutil"
	"gorm.io/gorm"
)

type testEnv struct {
	db             *gorm.DB
	orderService   *order.Service
	productService *product.Service
	service        *production.Service
	supplierSeq    int
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	cfg := testutil.TestConfig(t)
	stockService := stock.NewService(db, cfg)
	orderService := order.NewService(db, cfg, stockService)
	return &testEnv{
		db:             db,
		orderService:   orderService,
		productService: product.NewService(db, cfg, stockService),
		service:        production.NewService(db, cfg, orderService),
	}
}

func uintPtr(v uint) *uint { return &v }

func (e *testEnv) createOrder(t *testing.T, productID uint, qty int) *order.Order {
	t.Helper()
	e.supplierSeq++
	sup := testutil.SeedSupplier(t, e.db, fmt.Sprintf("Mold Co %d", e.supplierSeq))
	ord, err := e.orderService.Create(&order.CreateOrderRequest{
		Items:            []order.LineItemRequest{{ProductID: uintPtr(productID), Quantity: qty}},
		SupplierID:       uintPtr(sup.ID),
		ExpectedDelivery: time.Now().AddDate(0, 0, 7),
	})
	require.NoError(t, err)
	return ord
}

func TestStartFromOrder(t *testing.T) {
	env := newEnv(t)
	prod := testutil.SeedProduct(t, env.db, "Comfort Insole", 1800, 30)
	ord := env.createOrder(t, prod.ID, 6)

	run, err := env.service.StartFromOrder(ord.ID, "")
	require.NoError(t, err)
	assert.Equal(t, production.StatusInProduction, run.Status)
	assert.Equal(t, production.DefaultPackagingProcess, run.PackagingProcess)
	require.Len(t, run.Items, 1)
	assert.Equal(t, 6, run.Items[0].Quantity)

	// The order follows the production run
	reloaded, err := env.orderService.Get(ord.ID)
	require.NoError(t, err)
	assert.Equal(t, order.OrderStatusInProduction, reloaded.Status)
}

func TestStartFromOrderTwiceConflicts(t *testing.T) {
	env := newEnv(t)
	prod := testutil.SeedProduct(t, env.db, "Comfort Insole", 1800, 30)
	ord := env.createOrder(t, prod.ID, 6)

	_, err := env.service.StartFromOrder(ord.ID, "Vacuum pack")
	require.NoError(t, err)

	_, err = env.service.StartFromOrder(ord.ID, "Vacuum pack")
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestStartFromUnknownOrder(t *testing.T) {
	env := newEnv(t)

	_, err := env.service.StartFromOrder(99999, "")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestAdvancePropagatesOrderStatus(t *testing.T) {
	env := newEnv(t)
	prod := testutil.SeedProduct(t, env.db, "Comfort Insole", 1800, 30)
	ord := env.createOrder(t, prod.ID, 6)

	run, err := env.service.StartFromOrder(ord.ID, "")
	require.NoError(t, err)

	run, err = env.service.Advance(run.ID, production.StatusPackaging, "First batch boxed")
	require.NoError(t, err)
	assert.Equal(t, production.StatusPackaging, run.Status)
	assert.Equal(t, "First batch boxed", run.Comments)
	assert.Nil(t, run.EndDate)

	reloaded, err := env.orderService.Get(ord.ID)
	require.NoError(t, err)
	assert.Equal(t, order.OrderStatusPackaging, reloaded.Status)

	run, err = env.service.Advance(run.ID, production.StatusCompleted, "")
	require.NoError(t, err)
	require.NotNil(t, run.EndDate)
	assert.WithinDuration(t, time.Now(), *run.EndDate, time.Minute)

	reloaded, err = env.orderService.Get(ord.ID)
	require.NoError(t, err)
	assert.Equal(t, order.OrderStatusCompleted, reloaded.Status)
}

func TestAdvanceRejectsUnknownLabel(t *testing.T) {
	env := newEnv(t)
	prod := testutil.SeedProduct(t, env.db, "Comfort Insole", 1800, 30)
	ord := env.createOrder(t, prod.ID, 6)

	run, err := env.service.StartFromOrder(ord.ID, "")
	require.NoError(t, err)

	_, err = env.service.Advance(run.ID, "Shipped", "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestUpdateComments(t *testing.T) {
	env := newEnv(t)
	prod := testutil.SeedProduct(t, env.db, "Comfort Insole", 1800, 30)
	ord := env.createOrder(t, prod.ID, 6)

	run, err := env.service.StartFromOrder(ord.ID, "")
	require.NoError(t, err)

	run, err = env.service.UpdateComments(run.ID, "Waiting on material delivery")
	require.NoError(t, err)
	assert.Equal(t, "Waiting on material delivery", run.Comments)
}

func TestQueryOmitsRunsWithOnlyDeletedProducts(t *testing.T) {
	env := newEnv(t)
	kept := testutil.SeedProduct(t, env.db, "Kept Insole", 1800, 30)
	doomed := testutil.SeedProduct(t, env.db, "Doomed Insole", 1800, 30)

	keptOrder := env.createOrder(t, kept.ID, 2)
	doomedOrder := env.createOrder(t, doomed.ID, 3)

	_, err := env.service.StartFromOrder(keptOrder.ID, "")
	require.NoError(t, err)
	_, err = env.service.StartFromOrder(doomedOrder.ID, "")
	require.NoError(t, err)

	require.NoError(t, env.productService.Delete(doomed.ID))

	runs, err := env.service.Query(false)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, keptOrder.ID, runs[0].OrderID)

	// The orphaned run still exists, it just stays out of listings
	var count int64
	require.NoError(t, env.db.Model(&production.Production{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestQueryExcludeCompleted(t *testing.T) {
	env := newEnv(t)
	prod := testutil.SeedProduct(t, env.db, "Comfort Insole", 1800, 60)

	active := env.createOrder(t, prod.ID, 2)
	finished := env.createOrder(t, prod.ID, 3)

	_, err := env.service.StartFromOrder(active.ID, "")
	require.NoError(t, err)
	run, err := env.service.StartFromOrder(finished.ID, "")
	require.NoError(t, err)
	_, err = env.service.Advance(run.ID, production.StatusCompleted, "")
	require.NoError(t, err)

	runs, err := env.service.Query(true)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, active.ID, runs[0].OrderID)
}
