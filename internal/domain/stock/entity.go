// internal/domain/stock/entity.go
package stock

import (
	"time"

	"gorm.io/gorm"
)

// Status represents the human-facing stock level label
type Status string

const (
	StatusInStock    Status = "In Stock"
	StatusLowStock   Status = "Low Stock"
	StatusOutOfStock Status = "Out of Stock"
)

// DefaultMinimumThreshold is applied when a stock row is seeded without one
const DefaultMinimumThreshold = 5

// Stock represents the stock level for a single product (1:1)
type Stock struct {
	ID                    uint           `gorm:"primaryKey" json:"id"`
	ProductID             uint           `gorm:"uniqueIndex;not null" json:"product_id"`
	CurrentStock          int            `gorm:"not null;default:0" json:"current_stock"`
	ReservedStock         int            `gorm:"default:0" json:"reserved_stock"`
	MinimumStockThreshold int            `gorm:"not null;default:5" json:"minimum_stock_threshold"`
	Status                Status         `gorm:"not null;default:'In Stock'" json:"status"`
	LastUpdated           time.Time      `json:"last_updated"`
	CreatedAt             time.Time      `json:"created_at"`
	UpdatedAt             time.Time      `json:"updated_at"`
	DeletedAt             gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides
func (Stock) TableName() string { return "stocks" }

// RecomputeStatus derives the status label from the current quantity.
// Out of Stock wins over Low Stock when the quantity is zero or negative.
func (s *Stock) RecomputeStatus() {
	if s.CurrentStock <= 0 {
		s.Status = StatusOutOfStock
	} else if s.CurrentStock < s.MinimumStockThreshold {
		s.Status = StatusLowStock
	} else {
		s.Status = StatusInStock
	}
}

// BeforeSave hook so the status label is always derived, never caller-supplied
func (s *Stock) BeforeSave(tx *gorm.DB) error {
	s.RecomputeStatus()
	return nil
}

// IsOutOfStock checks whether nothing is available
func (s *Stock) IsOutOfStock() bool {
	return s.CurrentStock <= 0
}

// IsLowStock checks whether the quantity is below the reorder threshold
func (s *Stock) IsLowStock() bool {
	return s.CurrentStock > 0 && s.CurrentStock < s.MinimumStockThreshold
}
