// internal/domain/supplier/service_test.go
package supplier_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/procurement-backend/internal/domain/supplier"
	"github.com/your-org/procurement-backend/internal/pkg/apperrors"
	"github.com/your-org/procurement-backend/internal/testutil"
)

func newSupplierService(t *testing.T) *supplier.Service {
	t.Helper()
	db := testutil.SetupTestDB(t)
	cfg := testutil.TestConfig(t)
	return supplier.NewService(db, cfg)
}

func TestCreateSupplier(t *testing.T) {
	svc := newSupplierService(t)

	sup, err := svc.Create(&supplier.CreateSupplierRequest{
		Name:          "Foam Works",
		ContactPerson: "Ana",
		Email:         "ana@foamworks.example",
		TaxID:         "B12345678",
	})
	require.NoError(t, err)
	assert.NotZero(t, sup.ID)

	_, err = svc.Create(&supplier.CreateSupplierRequest{Name: "Foam Works"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestGetUnknownSupplier(t *testing.T) {
	svc := newSupplierService(t)

	_, err := svc.Get(99999)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUpdateSupplier(t *testing.T) {
	svc := newSupplierService(t)

	sup, err := svc.Create(&supplier.CreateSupplierRequest{Name: "Foam Works"})
	require.NoError(t, err)

	phone := "600123456"
	updated, err := svc.Update(sup.ID, &supplier.UpdateSupplierRequest{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "600123456", updated.Phone)
	assert.Equal(t, "Foam Works", updated.Name)
}

func TestDeleteSupplier(t *testing.T) {
	svc := newSupplierService(t)

	sup, err := svc.Create(&supplier.CreateSupplierRequest{Name: "Foam Works"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(sup.ID))

	_, err = svc.Get(sup.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	list, err := svc.List()
	require.NoError(t, err)
	assert.Empty(t, list)
}
