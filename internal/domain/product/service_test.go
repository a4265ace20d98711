// internal/domain/product/service_test.go
package product_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/procurement-backend/internal/domain/product"
	"github.com/your-org/procurement-backend/internal/domain/stock"
	"github.com/your-org/procurement-backend/internal/pkg/apperrors"
	"github.com/your-org/procurement-backend/internal/testutil"
	"gorm.io/gorm"
)

func newProductService(t *testing.T) (*product.Service, *stock.Service, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	cfg := testutil.TestConfig(t)
	stockService := stock.NewService(db, cfg)
	return product.NewService(db, cfg, stockService), stockService, db
}

func createRequest(name, asin, sku string) *product.CreateProductRequest {
	return &product.CreateProductRequest{
		Name:                 name,
		ProductionProcess:    "Injection molding",
		RequiredMaterials:    []string{"EVA foam", "Gel"},
		PackagingType:        "Poly bag",
		QuantityPerMasterBox: 48,
		Price:                1999,
		ASIN:                 asin,
		SKU:                  sku,
		InitialStock:         12,
	}
}

func TestCreateProductSeedsStock(t *testing.T) {
	svc, stockService, _ := newProductService(t)

	prod, err := svc.Create(createRequest("Sport Insole", "B000TEST01", "SKU-001"))
	require.NoError(t, err)
	assert.Equal(t, []string{"EVA foam", "Gel"}, []string(prod.RequiredMaterials))

	st, err := stockService.GetByProduct(prod.ID)
	require.NoError(t, err)
	assert.Equal(t, 12, st.CurrentStock)
	assert.Equal(t, stock.DefaultMinimumThreshold, st.MinimumStockThreshold)
	assert.Equal(t, stock.StatusInStock, st.Status)
}

func TestCreateProductValidation(t *testing.T) {
	svc, _, _ := newProductService(t)

	bad := createRequest("Bad", "B000TEST02", "SKU-002")
	bad.Price = 0
	_, err := svc.Create(bad)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	bad = createRequest("Bad", "B000TEST02", "SKU-002")
	bad.QuantityPerMasterBox = -1
	_, err = svc.Create(bad)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	bad = createRequest("Bad", "B000TEST02", "SKU-002")
	bad.InitialStock = -5
	_, err = svc.Create(bad)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestCreateProductUniqueness(t *testing.T) {
	svc, _, _ := newProductService(t)

	_, err := svc.Create(createRequest("Sport Insole", "B000TEST03", "SKU-003"))
	require.NoError(t, err)

	_, err = svc.Create(createRequest("Sport Insole", "B000TEST04", "SKU-004"))
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = svc.Create(createRequest("Other Name", "B000TEST03", "SKU-004"))
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = svc.Create(createRequest("Other Name", "B000TEST04", "SKU-003"))
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestCreateProductUnknownSupplier(t *testing.T) {
	svc, _, _ := newProductService(t)

	req := createRequest("Sport Insole", "B000TEST05", "SKU-005")
	req.SupplierIDs = []uint{12345}
	_, err := svc.Create(req)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUpdateProduct(t *testing.T) {
	svc, _, db := newProductService(t)
	sup := testutil.SeedSupplier(t, db, "Foam Works")

	prod, err := svc.Create(createRequest("Sport Insole", "B000TEST06", "SKU-006"))
	require.NoError(t, err)

	newName := "Sport Insole v2"
	newPrice := int64(2499)
	updated, err := svc.Update(prod.ID, &product.UpdateProductRequest{
		Name:        &newName,
		Price:       &newPrice,
		SupplierIDs: []uint{sup.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, "Sport Insole v2", updated.Name)
	assert.Equal(t, int64(2499), updated.Price)

	reloaded, err := svc.Get(prod.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Suppliers, 1)
	assert.Equal(t, "Foam Works", reloaded.Suppliers[0].Name)
}

func TestDeleteProductCascadesStock(t *testing.T) {
	svc, stockService, _ := newProductService(t)

	prod, err := svc.Create(createRequest("Sport Insole", "B000TEST07", "SKU-007"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(prod.ID))

	_, err = svc.Get(prod.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	// No orphaned stock row
	_, err = stockService.GetByProduct(prod.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
