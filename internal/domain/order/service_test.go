// internal/domain/order/service_test.go
package order_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/procurement-backend/internal/domain/order"
	"github.com/your-org/procurement-backend/internal/domain/stock"
	"github.com/your-org/procurement-backend/internal/pkg/apperrors"
	"github.com/your-org/procurement-backend/internal/testutil"
	"gorm.io/gorm"
)

func newOrderService(t *testing.T) (*order.Service, *stock.Service, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	cfg := testutil.TestConfig(t)
	stockService := stock.NewService(db, cfg)
	return order.NewService(db, cfg, stockService), stockService, db
}

func uintPtr(v uint) *uint { return &v }

func TestCreateOrder(t *testing.T) {
	svc, _, db := newOrderService(t)
	prod := testutil.SeedProduct(t, db, "Gel Insole", 2500, 20)
	sup := testutil.SeedSupplier(t, db, "Acme Materials")

	ord, err := svc.Create(&order.CreateOrderRequest{
		Items: []order.LineItemRequest{
			{ProductID: uintPtr(prod.ID), Quantity: 4},
			{CustomProduct: "Sample mold", Quantity: 1},
		},
		SupplierID:       uintPtr(sup.ID),
		ExpectedDelivery: time.Now().AddDate(0, 0, 14),
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(ord.OrderNumber, "ORD-"), "got %s", ord.OrderNumber)
	assert.Equal(t, order.OrderStatusPending, ord.Status)
	assert.Equal(t, order.PaymentStatusPending, ord.PaymentStatus)
	// Custom line contributes nothing to the invoice
	assert.Equal(t, int64(2500*4), ord.InvoiceAmount)
	require.Len(t, ord.Items, 2)

	// Due date follows the order date by the payment term
	expectedDue := ord.OrderDate.AddDate(0, 0, order.PaymentTermDays)
	assert.WithinDuration(t, expectedDue, ord.PaymentDueDate, time.Minute)
}

func TestCreateOrderNumbersAreDistinct(t *testing.T) {
	svc, _, db := newOrderService(t)
	prod := testutil.SeedProduct(t, db, "Gel Insole", 2500, 20)
	sup := testutil.SeedSupplier(t, db, "Acme Materials")

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		ord, err := svc.Create(&order.CreateOrderRequest{
			Items:            []order.LineItemRequest{{ProductID: uintPtr(prod.ID), Quantity: 1}},
			SupplierID:       uintPtr(sup.ID),
			ExpectedDelivery: time.Now().AddDate(0, 0, 7),
		})
		require.NoError(t, err)
		assert.False(t, seen[ord.OrderNumber], "duplicate order number %s", ord.OrderNumber)
		seen[ord.OrderNumber] = true
	}
}

func TestCreateOrderValidation(t *testing.T) {
	svc, _, db := newOrderService(t)
	prod := testutil.SeedProduct(t, db, "Gel Insole", 2500, 20)
	sup := testutil.SeedSupplier(t, db, "Acme Materials")

	delivery := time.Now().AddDate(0, 0, 7)

	tests := []struct {
		name string
		req  *order.CreateOrderRequest
	}{
		{
			"no line items",
			&order.CreateOrderRequest{SupplierID: uintPtr(sup.ID), ExpectedDelivery: delivery},
		},
		{
			"line with both product and custom product",
			&order.CreateOrderRequest{
				Items:            []order.LineItemRequest{{ProductID: uintPtr(prod.ID), CustomProduct: "x", Quantity: 1}},
				SupplierID:       uintPtr(sup.ID),
				ExpectedDelivery: delivery,
			},
		},
		{
			"line with neither product nor custom product",
			&order.CreateOrderRequest{
				Items:            []order.LineItemRequest{{Quantity: 1}},
				SupplierID:       uintPtr(sup.ID),
				ExpectedDelivery: delivery,
			},
		},
		{
			"non-positive quantity",
			&order.CreateOrderRequest{
				Items:            []order.LineItemRequest{{ProductID: uintPtr(prod.ID), Quantity: 0}},
				SupplierID:       uintPtr(sup.ID),
				ExpectedDelivery: delivery,
			},
		},
		{
			"both supplier and custom supplier",
			&order.CreateOrderRequest{
				Items:            []order.LineItemRequest{{ProductID: uintPtr(prod.ID), Quantity: 1}},
				SupplierID:       uintPtr(sup.ID),
				CustomSupplier:   "Someone",
				ExpectedDelivery: delivery,
			},
		},
		{
			"no supplier at all",
			&order.CreateOrderRequest{
				Items:            []order.LineItemRequest{{ProductID: uintPtr(prod.ID), Quantity: 1}},
				ExpectedDelivery: delivery,
			},
		},
		{
			"missing expected delivery",
			&order.CreateOrderRequest{
				Items:      []order.LineItemRequest{{ProductID: uintPtr(prod.ID), Quantity: 1}},
				SupplierID: uintPtr(sup.ID),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(tt.req)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		})
	}
}

func TestCreateOrderUnknownProduct(t *testing.T) {
	svc, _, db := newOrderService(t)
	sup := testutil.SeedSupplier(t, db, "Acme Materials")

	_, err := svc.Create(&order.CreateOrderRequest{
		Items:            []order.LineItemRequest{{ProductID: uintPtr(99999), Quantity: 1}},
		SupplierID:       uintPtr(sup.ID),
		ExpectedDelivery: time.Now().AddDate(0, 0, 7),
	})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCreateOrderDuplicateInvoiceNumber(t *testing.T) {
	svc, _, db := newOrderService(t)
	prod := testutil.SeedProduct(t, db, "Gel Insole", 2500, 20)
	sup := testutil.SeedSupplier(t, db, "Acme Materials")

	req := &order.CreateOrderRequest{
		Items:            []order.LineItemRequest{{ProductID: uintPtr(prod.ID), Quantity: 1}},
		SupplierID:       uintPtr(sup.ID),
		ExpectedDelivery: time.Now().AddDate(0, 0, 7),
		InvoiceNumber:    "INV-2026-001",
	}
	_, err := svc.Create(req)
	require.NoError(t, err)

	_, err = svc.Create(req)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestTransitionStatusStockRoundTrip(t *testing.T) {
	svc, stockService, db := newOrderService(t)
	prod := testutil.SeedProduct(t, db, "Gel Insole", 2500, 10)
	sup := testutil.SeedSupplier(t, db, "Acme Materials")

	ord, err := svc.Create(&order.CreateOrderRequest{
		Items:            []order.LineItemRequest{{ProductID: uintPtr(prod.ID), Quantity: 5}},
		SupplierID:       uintPtr(sup.ID),
		ExpectedDelivery: time.Now().AddDate(0, 0, 7),
	})
	require.NoError(t, err)

	// Receiving commits the quantities
	ord, err = svc.TransitionStatus(ord.ID, order.OrderStatusReceived)
	require.NoError(t, err)
	assert.Equal(t, order.OrderStatusReceived, ord.Status)

	st, err := stockService.GetByProduct(prod.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, st.CurrentStock)

	// Cancelling gives them back
	ord, err = svc.TransitionStatus(ord.ID, order.OrderStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, order.OrderStatusCancelled, ord.Status)

	st, err = stockService.GetByProduct(prod.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, st.CurrentStock)
}

func TestTransitionStatusReceivedResetsPayment(t *testing.T) {
	svc, _, db := newOrderService(t)
	prod := testutil.SeedProduct(t, db, "Gel Insole", 2500, 10)
	sup := testutil.SeedSupplier(t, db, "Acme Materials")

	ord, err := svc.Create(&order.CreateOrderRequest{
		Items:            []order.LineItemRequest{{ProductID: uintPtr(prod.ID), Quantity: 1}},
		SupplierID:       uintPtr(sup.ID),
		ExpectedDelivery: time.Now().AddDate(0, 0, 7),
	})
	require.NoError(t, err)

	_, err = svc.MarkPaid(ord.ID)
	require.NoError(t, err)

	// Receipt wipes the paid flag. Historical behavior the frontend relies on.
	ord, err = svc.TransitionStatus(ord.ID, order.OrderStatusReceived)
	require.NoError(t, err)
	assert.Equal(t, order.PaymentStatusPending, ord.PaymentStatus)
}

func TestTransitionStatusInsufficientStock(t *testing.T) {
	svc, stockService, db := newOrderService(t)
	prod := testutil.SeedProduct(t, db, "Gel Insole", 2500, 3)
	sup := testutil.SeedSupplier(t, db, "Acme Materials")

	ord, err := svc.Create(&order.CreateOrderRequest{
		Items:            []order.LineItemRequest{{ProductID: uintPtr(prod.ID), Quantity: 5}},
		SupplierID:       uintPtr(sup.ID),
		ExpectedDelivery: time.Now().AddDate(0, 0, 7),
	})
	require.NoError(t, err)

	_, err = svc.TransitionStatus(ord.ID, order.OrderStatusReceived)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	// Nothing deducted
	st, err := stockService.GetByProduct(prod.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, st.CurrentStock)
}

func TestTransitionStatusRejectsUnknownLabel(t *testing.T) {
	svc, _, db := newOrderService(t)
	prod := testutil.SeedProduct(t, db, "Gel Insole", 2500, 10)
	sup := testutil.SeedSupplier(t, db, "Acme Materials")

	ord, err := svc.Create(&order.CreateOrderRequest{
		Items:            []order.LineItemRequest{{ProductID: uintPtr(prod.ID), Quantity: 1}},
		SupplierID:       uintPtr(sup.ID),
		ExpectedDelivery: time.Now().AddDate(0, 0, 7),
	})
	require.NoError(t, err)

	_, err = svc.TransitionStatus(ord.ID, "Shipped")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestMarkPaidTwiceConflicts(t *testing.T) {
	svc, _, db := newOrderService(t)
	prod := testutil.SeedProduct(t, db, "Gel Insole", 2500, 10)
	sup := testutil.SeedSupplier(t, db, "Acme Materials")

	ord, err := svc.Create(&order.CreateOrderRequest{
		Items:            []order.LineItemRequest{{ProductID: uintPtr(prod.ID), Quantity: 1}},
		SupplierID:       uintPtr(sup.ID),
		ExpectedDelivery: time.Now().AddDate(0, 0, 7),
	})
	require.NoError(t, err)

	_, err = svc.MarkPaid(ord.ID)
	require.NoError(t, err)

	_, err = svc.MarkPaid(ord.ID)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestSweepOverdue(t *testing.T) {
	svc, _, db := newOrderService(t)
	prod := testutil.SeedProduct(t, db, "Gel Insole", 2500, 10)
	sup := testutil.SeedSupplier(t, db, "Acme Materials")

	ord, err := svc.Create(&order.CreateOrderRequest{
		Items:            []order.LineItemRequest{{ProductID: uintPtr(prod.ID), Quantity: 1}},
		SupplierID:       uintPtr(sup.ID),
		ExpectedDelivery: time.Now().AddDate(0, 0, 7),
	})
	require.NoError(t, err)

	paid, err := svc.Create(&order.CreateOrderRequest{
		Items:            []order.LineItemRequest{{ProductID: uintPtr(prod.ID), Quantity: 1}},
		SupplierID:       uintPtr(sup.ID),
		ExpectedDelivery: time.Now().AddDate(0, 0, 7),
	})
	require.NoError(t, err)
	_, err = svc.MarkPaid(paid.ID)
	require.NoError(t, err)

	// Nothing overdue yet
	overdue, err := svc.SweepOverdue(time.Now())
	require.NoError(t, err)
	assert.Empty(t, overdue)

	// Past the payment term both are due, but only the unpaid one flips
	future := time.Now().AddDate(0, 0, order.PaymentTermDays+1)
	overdue, err = svc.SweepOverdue(future)
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, ord.ID, overdue[0].ID)
	assert.Equal(t, order.PaymentStatusOverdue, overdue[0].PaymentStatus)
}

func TestTotalOwed(t *testing.T) {
	svc, _, db := newOrderService(t)
	prod := testutil.SeedProduct(t, db, "Gel Insole", 2500, 10)
	sup := testutil.SeedSupplier(t, db, "Acme Materials")

	for i := 0; i < 2; i++ {
		_, err := svc.Create(&order.CreateOrderRequest{
			Items:            []order.LineItemRequest{{ProductID: uintPtr(prod.ID), Quantity: 2}},
			SupplierID:       uintPtr(sup.ID),
			ExpectedDelivery: time.Now().AddDate(0, 0, 7),
		})
		require.NoError(t, err)
	}

	total, err := svc.TotalOwed()
	require.NoError(t, err)
	assert.Equal(t, int64(2*2*2500), total)
}

func TestListFilters(t *testing.T) {
	svc, _, db := newOrderService(t)
	prodA := testutil.SeedProduct(t, db, "Insole A", 1000, 10)
	prodB := testutil.SeedProduct(t, db, "Insole B", 2000, 10)
	sup := testutil.SeedSupplier(t, db, "Acme Materials")

	ordA, err := svc.Create(&order.CreateOrderRequest{
		Items:            []order.LineItemRequest{{ProductID: uintPtr(prodA.ID), Quantity: 1}},
		SupplierID:       uintPtr(sup.ID),
		ExpectedDelivery: time.Now().AddDate(0, 0, 7),
	})
	require.NoError(t, err)

	_, err = svc.Create(&order.CreateOrderRequest{
		Items:            []order.LineItemRequest{{ProductID: uintPtr(prodB.ID), Quantity: 1}},
		SupplierID:       uintPtr(sup.ID),
		ExpectedDelivery: time.Now().AddDate(0, 0, 7),
	})
	require.NoError(t, err)

	byProduct, err := svc.List(order.ListParams{ProductID: prodA.ID})
	require.NoError(t, err)
	require.Len(t, byProduct, 1)
	assert.Equal(t, ordA.ID, byProduct[0].ID)

	now := time.Now()
	byMonth, err := svc.List(order.ListParams{Month: int(now.Month()), Year: now.Year()})
	require.NoError(t, err)
	assert.Len(t, byMonth, 2)

	pending, err := svc.List(order.ListParams{PaymentStatus: order.PaymentStatusPaid})
	require.NoError(t, err)
	assert.Empty(t, pending)
}
