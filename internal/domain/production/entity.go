// internal/domain/production/entity.go
package production

import (
	"time"

	"github.com/your-org/procurement-backend/internal/domain/product"
	"gorm.io/gorm"
)

// Status represents the production workflow status
type Status string

const (
	StatusPending      Status = "Pending"
	StatusInProduction Status = "In Production"
	StatusPackaging    Status = "Packaging"
	StatusCompleted    Status = "Completed"
)

// DefaultPackagingProcess is applied when the caller does not name one
const DefaultPackagingProcess = "Standard"

// Production represents a production run started from a purchase order.
// An order has at most one production run.
type Production struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	OrderID          uint           `gorm:"uniqueIndex;not null" json:"order_id"`
	Status           Status         `gorm:"not null;default:'Pending'" json:"status"`
	StartDate        time.Time      `json:"start_date"`
	EndDate          *time.Time     `json:"end_date"`
	PackagingProcess string         `gorm:"size:100;default:'Standard'" json:"packaging_process"`
	Comments         string         `gorm:"type:text" json:"comments"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Items []ProductionItem `gorm:"foreignKey:ProductionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
}

// ProductionItem is a line copied from the originating order at start time
type ProductionItem struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ProductionID  uint      `gorm:"not null;index" json:"production_id"`
	ProductID     *uint     `gorm:"index" json:"product_id"`
	CustomProduct string    `gorm:"size:255" json:"custom_product"`
	Quantity      int       `gorm:"not null" json:"quantity"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Relationships
	Product *product.Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// TableName overrides
func (Production) TableName() string     { return "productions" }
func (ProductionItem) TableName() string { return "production_items" }

// ValidStatus reports whether the value is one of the production status labels
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusInProduction, StatusPackaging, StatusCompleted:
		return true
	}
	return false
}

// IsCompleted reports whether the run has finished
func (p *Production) IsCompleted() bool {
	return p.Status == StatusCompleted
}

// ProductName returns the catalog product name or the custom stand-in
func (i *ProductionItem) ProductName() string {
	if i.Product != nil {
		return i.Product.Name
	}
	if i.CustomProduct != "" {
		return i.CustomProduct
	}
	return "Unknown Product"
}
