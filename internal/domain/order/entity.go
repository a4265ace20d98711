// internal/domain/order/entity.go
package order

import (
	"time"

	"github.com/your-org/procurement-backend/internal/domain/product"
	"github.com/your-org/procurement-backend/internal/domain/supplier"
	"gorm.io/gorm"
)

// OrderStatus represents the purchase order status
type OrderStatus string

const (
	OrderStatusPending      OrderStatus = "Pending"
	OrderStatusReceived     OrderStatus = "Received"
	OrderStatusInProduction OrderStatus = "In Production"
	OrderStatusPackaging    OrderStatus = "Packaging"
	OrderStatusCompleted    OrderStatus = "Completed"
	OrderStatusCancelled    OrderStatus = "Cancelled"
)

// PaymentStatus represents the invoice payment status
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "Pending"
	PaymentStatusPaid      PaymentStatus = "Paid"
	PaymentStatusOverdue   PaymentStatus = "Overdue"
	PaymentStatusCancelled PaymentStatus = "Cancelled"
)

// PaymentTermDays is added to the order date to derive the payment due date
const PaymentTermDays = 60

// DefaultArrivalDays is the estimated-arrival fallback applied at creation
const DefaultArrivalDays = 7

// Order represents a purchase order
type Order struct {
	ID             uint          `gorm:"primaryKey" json:"id"`
	OrderNumber    string        `gorm:"uniqueIndex;not null;size:50" json:"order_number"`
	SupplierID     *uint         `gorm:"index" json:"supplier_id"` // Nullable for custom suppliers
	CustomSupplier string        `gorm:"size:255" json:"custom_supplier"`
	OrderDate      time.Time     `json:"order_date"`
	ExpectedDelivery time.Time   `json:"expected_delivery"`
	EstimatedArrival time.Time   `json:"estimated_arrival"`
	InvoiceAmount  int64         `gorm:"not null;default:0" json:"invoice_amount"` // In cents
	InvoiceNumber  *string       `gorm:"uniqueIndex;size:100" json:"invoice_number"`
	Status         OrderStatus   `gorm:"not null;default:'Pending'" json:"status"`
	PaymentStatus  PaymentStatus `gorm:"not null;default:'Pending'" json:"payment_status"`
	PaymentDueDate time.Time     `json:"payment_due_date"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Supplier *supplier.Supplier `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	Items    []OrderItem        `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
}

// OrderItem represents one line of a purchase order. Exactly one of
// ProductID and CustomProduct is set.
type OrderItem struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	OrderID       uint      `gorm:"not null;index" json:"order_id"`
	ProductID     *uint     `gorm:"index" json:"product_id"`
	CustomProduct string    `gorm:"size:255" json:"custom_product"`
	Quantity      int       `gorm:"not null" json:"quantity"`
	UnitPrice     int64     `gorm:"default:0" json:"unit_price"`  // In cents; zero for custom products
	TotalPrice    int64     `gorm:"default:0" json:"total_price"` // Quantity * UnitPrice
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Relationships
	Product *product.Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// TableName overrides
func (Order) TableName() string     { return "orders" }
func (OrderItem) TableName() string { return "order_items" }

// ValidStatus reports whether the value is one of the order status labels.
// Any valid label may be set from any current state; the enum check is the
// only gate, matching the historically permissive behavior.
func ValidStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusReceived, OrderStatusInProduction,
		OrderStatusPackaging, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether the order reached a final state
func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusCompleted || o.Status == OrderStatusCancelled
}

// GetFormattedInvoiceAmount returns the invoice amount as float
func (o *Order) GetFormattedInvoiceAmount() float64 {
	return float64(o.InvoiceAmount) / 100
}

// SupplierName returns the catalog supplier name or the custom stand-in
func (o *Order) SupplierName() string {
	if o.Supplier != nil {
		return o.Supplier.Name
	}
	if o.CustomSupplier != "" {
		return o.CustomSupplier
	}
	return "Unknown Supplier"
}

// ProductName returns the catalog product name or the custom stand-in
func (i *OrderItem) ProductName() string {
	if i.Product != nil {
		return i.Product.Name
	}
	if i.CustomProduct != "" {
		return i.CustomProduct
	}
	return "Unknown Product"
}
