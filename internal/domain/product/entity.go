// internal/domain/product/entity.go
package product

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/your-org/procurement-backend/internal/domain/supplier"
	"gorm.io/gorm"
)

// StringList is a JSON-encoded list of strings stored in a single column
type StringList []string

// Value implements driver.Valuer
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type for StringList: %T", value)
	}
}

// Product represents a catalog product
type Product struct {
	ID                    uint       `gorm:"primaryKey" json:"id"`
	Name                  string     `gorm:"uniqueIndex;not null;size:255" json:"name"`
	ProductionProcess     string     `gorm:"not null;type:text" json:"production_process"`
	RequiredMaterials     StringList `gorm:"type:text" json:"required_materials"`
	PackagingType         string     `gorm:"not null;size:100" json:"packaging_type"`
	QuantityPerMasterBox  int        `gorm:"not null" json:"quantity_per_master_box"`
	Price                 int64      `gorm:"not null" json:"price"` // In cents
	ASIN                  string     `gorm:"uniqueIndex;not null;size:20" json:"asin"`
	SKU                   string     `gorm:"uniqueIndex;not null;size:100" json:"sku"`
	ManufacturerReference string     `gorm:"size:100" json:"manufacturer_reference"`
	InitialStock          int        `gorm:"default:0" json:"initial_stock"` // Seeds the stock row at creation, unused afterwards
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
	DeletedAt             gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Suppliers []supplier.Supplier `gorm:"many2many:product_suppliers;" json:"suppliers,omitempty"`
}

// TableName overrides
func (Product) TableName() string { return "products" }

// GetFormattedPrice returns the unit price as float
func (p *Product) GetFormattedPrice() float64 {
	return float64(p.Price) / 100
}
