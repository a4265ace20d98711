// internal/domain/order/service.go
package order

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/procurement-backend/internal/config"
	"github.com/your-org/procurement-backend/internal/domain/product"
	"github.com/your-org/procurement-backend/internal/domain/stock"
	"github.com/your-org/procurement-backend/internal/pkg/apperrors"
	"gorm.io/gorm"
)

// ReminderMailer sends a payment reminder for an overdue order. Wired in from
// the mail package when reminders are enabled; nil otherwise.
type ReminderMailer interface {
	SendPaymentReminder(o *Order) error
}

// Service handles purchase order business logic
type Service struct {
	db           *gorm.DB
	config       *config.Config
	stockService *stock.Service
	mailer       ReminderMailer
	logger       *logrus.Logger
}

// NewService creates a new order service
func NewService(db *gorm.DB, cfg *config.Config, stockService *stock.Service) *Service {
	return &Service{
		db:           db,
		config:       cfg,
		stockService: stockService,
		logger:       logrus.New(),
	}
}

// SetMailer attaches the payment reminder mailer
func (s *Service) SetMailer(m ReminderMailer) {
	s.mailer = m
}

// LineItemRequest represents one requested order line
type LineItemRequest struct {
	ProductID     *uint  `json:"product_id"`
	CustomProduct string `json:"custom_product"`
	Quantity      int    `json:"quantity" binding:"required"`
}

// CreateOrderRequest represents order creation data
type CreateOrderRequest struct {
	Items            []LineItemRequest `json:"products" binding:"required"`
	SupplierID       *uint             `json:"supplier_id"`
	CustomSupplier   string            `json:"custom_supplier"`
	ExpectedDelivery time.Time         `json:"expected_delivery"`
	EstimatedArrival *time.Time        `json:"estimated_arrival"`
	InvoiceNumber    string            `json:"invoice_number"`
}

// ListParams represents order list query filters
type ListParams struct {
	ProductID     uint
	Month         int
	Year          int
	Status        OrderStatus
	PaymentStatus PaymentStatus
}

// Create validates and persists a new purchase order. The invoice amount is
// the sum of price*quantity over line items that reference a catalog product;
// custom-product lines contribute zero.
func (s *Service) Create(req *CreateOrderRequest) (*Order, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: order needs at least one line item", apperrors.ErrInvalidInput)
	}
	for i, item := range req.Items {
		hasProduct := item.ProductID != nil
		hasCustom := item.CustomProduct != ""
		if hasProduct == hasCustom {
			return nil, fmt.Errorf("%w: line item %d must reference either a product or a custom product name",
				apperrors.ErrInvalidInput, i+1)
		}
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: line item %d quantity must be positive", apperrors.ErrInvalidInput, i+1)
		}
	}
	hasSupplier := req.SupplierID != nil
	hasCustomSupplier := req.CustomSupplier != ""
	if hasSupplier == hasCustomSupplier {
		return nil, fmt.Errorf("%w: order must reference either a supplier or a custom supplier name",
			apperrors.ErrInvalidInput)
	}
	if req.ExpectedDelivery.IsZero() {
		return nil, fmt.Errorf("%w: expected delivery date is required", apperrors.ErrInvalidInput)
	}

	// Invoice numbers are unique across all orders
	if req.InvoiceNumber != "" {
		var existing Order
		if err := s.db.Where("invoice_number = ?", req.InvoiceNumber).First(&existing).Error; err == nil {
			return nil, fmt.Errorf("%w: invoice number '%s' already in use", apperrors.ErrConflict, req.InvoiceNumber)
		}
	}

	// Resolve referenced products and accumulate the invoice amount
	var invoiceAmount int64
	items := make([]OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		orderItem := OrderItem{
			ProductID:     item.ProductID,
			CustomProduct: item.CustomProduct,
			Quantity:      item.Quantity,
		}
		if item.ProductID != nil {
			var prod product.Product
			if err := s.db.First(&prod, *item.ProductID).Error; err != nil {
				return nil, fmt.Errorf("%w: product %d", apperrors.ErrNotFound, *item.ProductID)
			}
			orderItem.UnitPrice = prod.Price
			orderItem.TotalPrice = prod.Price * int64(item.Quantity)
			invoiceAmount += orderItem.TotalPrice
		}
		items = append(items, orderItem)
	}

	now := time.Now()
	estimatedArrival := now.AddDate(0, 0, DefaultArrivalDays)
	if req.EstimatedArrival != nil {
		estimatedArrival = *req.EstimatedArrival
	}

	ord := &Order{
		SupplierID:       req.SupplierID,
		CustomSupplier:   req.CustomSupplier,
		OrderDate:        now,
		ExpectedDelivery: req.ExpectedDelivery,
		EstimatedArrival: estimatedArrival,
		InvoiceAmount:    invoiceAmount,
		Status:           OrderStatusPending,
		PaymentStatus:    PaymentStatusPending,
		PaymentDueDate:   now.AddDate(0, 0, PaymentTermDays),
		Items:            items,
	}
	if req.InvoiceNumber != "" {
		ord.InvoiceNumber = &req.InvoiceNumber
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	// Order numbers come from a database sequence so concurrent creates can
	// never hand out the same number
	var seq int64
	if err := tx.Raw("SELECT nextval('order_number_seq')").Scan(&seq).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to allocate order number: %w", err)
	}
	ord.OrderNumber = fmt.Sprintf("ORD-%d", seq)

	if err := tx.Create(ord).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit order transaction: %w", err)
	}

	// Load complete order with relationships
	if err := s.db.Preload("Items.Product").Preload("Supplier").First(ord, ord.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to load complete order: %w", err)
	}

	return ord, nil
}

// Get retrieves an order with its items, products and supplier
func (s *Service) Get(id uint) (*Order, error) {
	var ord Order
	if err := s.db.Preload("Items.Product").Preload("Supplier").First(&ord, id).Error; err != nil {
		return nil, fmt.Errorf("%w: order %d", apperrors.ErrNotFound, id)
	}
	return &ord, nil
}

// List retrieves orders with filtering, newest first
func (s *Service) List(params ListParams) ([]Order, error) {
	query := s.db.Model(&Order{}).
		Preload("Items.Product").
		Preload("Supplier")

	if params.ProductID > 0 {
		query = query.Joins("JOIN order_items ON order_items.order_id = orders.id").
			Where("order_items.product_id = ?", params.ProductID).
			Distinct("orders.*")
	}
	if params.Month >= 1 && params.Month <= 12 {
		query = query.Where("EXTRACT(MONTH FROM order_date) = ?", params.Month)
	}
	if params.Year > 0 {
		query = query.Where("EXTRACT(YEAR FROM order_date) = ?", params.Year)
	}
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.PaymentStatus != "" {
		query = query.Where("payment_status = ?", params.PaymentStatus)
	}

	var orders []Order
	if err := query.Order("order_date DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve orders: %w", err)
	}
	return orders, nil
}

// TransitionStatus applies a status change with its side effects. The target
// only has to be a valid label; any label is reachable from any state, which
// mirrors the behavior the frontend has always depended on.
func (s *Service) TransitionStatus(id uint, newStatus OrderStatus) (*Order, error) {
	if !ValidStatus(newStatus) {
		return nil, fmt.Errorf("%w: invalid status value '%s'", apperrors.ErrInvalidInput, newStatus)
	}

	ord, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	switch newStatus {
	case OrderStatusReceived:
		// Stock is committed lazily at receipt, not at order time. Check all
		// lines before touching any so a short line leaves nothing half-applied.
		for _, item := range ord.Items {
			if item.ProductID == nil {
				continue
			}
			st, err := s.stockService.GetByProduct(*item.ProductID)
			if err != nil {
				return nil, err
			}
			if st.CurrentStock < item.Quantity {
				return nil, fmt.Errorf("%w: not enough stock for product %d (available %d, requested %d)",
					apperrors.ErrConflict, *item.ProductID, st.CurrentStock, item.Quantity)
			}
		}
		for _, item := range ord.Items {
			if item.ProductID == nil {
				continue
			}
			if _, err := s.stockService.Adjust(*item.ProductID, -item.Quantity); err != nil {
				return nil, err
			}
		}
		// Receipt resets the payment status even when the invoice was prepaid.
		// Long-standing behavior; kept as is.
		ord.PaymentStatus = PaymentStatusPending

	case OrderStatusCancelled:
		// Give the committed quantities back to the ledger
		for _, item := range ord.Items {
			if item.ProductID == nil {
				continue
			}
			if _, err := s.stockService.Adjust(*item.ProductID, item.Quantity); err != nil {
				return nil, err
			}
		}
	}

	ord.Status = newStatus
	if err := s.db.Save(ord).Error; err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	return ord, nil
}

// MarkPaid marks the order's invoice as paid
func (s *Service) MarkPaid(id uint) (*Order, error) {
	ord, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if ord.PaymentStatus == PaymentStatusPaid {
		return nil, fmt.Errorf("%w: order %s is already paid", apperrors.ErrConflict, ord.OrderNumber)
	}

	ord.PaymentStatus = PaymentStatusPaid
	if err := s.db.Save(ord).Error; err != nil {
		return nil, fmt.Errorf("failed to update payment status: %w", err)
	}

	return ord, nil
}

// SweepOverdue flags every pending invoice past its due date as overdue.
// Orders are processed independently; one failure does not stop the sweep.
func (s *Service) SweepOverdue(now time.Time) ([]Order, error) {
	var candidates []Order
	if err := s.db.Preload("Items.Product").Preload("Supplier").
		Where("payment_status = ? AND payment_due_date < ?", PaymentStatusPending, now).
		Find(&candidates).Error; err != nil {
		return nil, fmt.Errorf("failed to find overdue orders: %w", err)
	}

	overdue := make([]Order, 0, len(candidates))
	for i := range candidates {
		ord := &candidates[i]
		result := s.db.Model(&Order{}).Where("id = ?", ord.ID).
			UpdateColumn("payment_status", PaymentStatusOverdue)
		if result.Error != nil {
			s.logger.WithFields(logrus.Fields{
				"order_id":     ord.ID,
				"order_number": ord.OrderNumber,
				"error":        result.Error,
			}).Warn("Failed to flag order as overdue, continuing sweep")
			continue
		}
		ord.PaymentStatus = PaymentStatusOverdue

		if s.mailer != nil {
			if err := s.mailer.SendPaymentReminder(ord); err != nil {
				s.logger.WithFields(logrus.Fields{
					"order_id": ord.ID,
					"error":    err,
				}).Warn("Failed to send payment reminder")
			}
		}

		overdue = append(overdue, *ord)
	}

	return overdue, nil
}

// PendingPayments retrieves all orders with an unpaid invoice
func (s *Service) PendingPayments() ([]Order, error) {
	var orders []Order
	if err := s.db.Preload("Items.Product").Preload("Supplier").
		Where("payment_status = ?", PaymentStatusPending).
		Order("payment_due_date ASC").
		Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve pending payments: %w", err)
	}
	return orders, nil
}

// TotalOwed sums the invoice amounts over all pending-payment orders
func (s *Service) TotalOwed() (int64, error) {
	var total int64
	if err := s.db.Model(&Order{}).
		Where("payment_status = ?", PaymentStatusPending).
		Select("COALESCE(SUM(invoice_amount), 0)").
		Scan(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to sum pending invoices: %w", err)
	}
	return total, nil
}

// PendingForProduct retrieves pending orders that reserve a given product,
// used by the stock listing to show what the reserved quantities are for
func (s *Service) PendingForProduct(productID uint) ([]Order, error) {
	var orders []Order
	if err := s.db.Preload("Items.Product").Preload("Supplier").
		Joins("JOIN order_items ON order_items.order_id = orders.id").
		Where("order_items.product_id = ? AND orders.status = ?", productID, OrderStatusPending).
		Distinct("orders.*").
		Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve pending orders for product: %w", err)
	}
	return orders, nil
}
