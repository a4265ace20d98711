// internal/domain/stock/service.go
package stock

import (
	"fmt"
	"time"

	"github.com/your-org/procurement-backend/internal/config"
	"github.com/your-org/procurement-backend/internal/pkg/apperrors"
	"gorm.io/gorm"
)

// Service handles stock ledger business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new stock service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// ListParams represents stock query filters
type ListParams struct {
	Status    Status
	ProductID uint
}

// StockView is a stock row joined with its product's identity for listings
type StockView struct {
	Stock
	ProductName string `json:"product_name"`
	ProductSKU  string `json:"product_sku"`
}

// statusCase derives the status label inside the UPDATE itself so the quantity
// change and its label stay consistent without a second round trip.
const statusCase = "CASE WHEN current_stock + ? <= 0 THEN 'Out of Stock' " +
	"WHEN current_stock + ? < minimum_stock_threshold THEN 'Low Stock' " +
	"ELSE 'In Stock' END"

// Adjust applies a signed quantity delta to a product's stock as a single
// guarded UPDATE. The guard keeps the quantity from going below zero; callers
// that need to apply the same delta twice get it applied twice.
func (s *Service) Adjust(productID uint, delta int) (*Stock, error) {
	var st Stock
	if err := s.db.Where("product_id = ?", productID).First(&st).Error; err != nil {
		return nil, fmt.Errorf("%w: stock record for product %d", apperrors.ErrNotFound, productID)
	}

	result := s.db.Model(&Stock{}).
		Where("product_id = ? AND current_stock + ? >= 0", productID, delta).
		UpdateColumns(map[string]interface{}{
			"current_stock": gorm.Expr("current_stock + ?", delta),
			"status":        gorm.Expr(statusCase, delta, delta),
			"last_updated":  time.Now(),
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to adjust stock: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: not enough stock for product %d (available %d, requested %d)",
			apperrors.ErrConflict, productID, st.CurrentStock, -delta)
	}

	if err := s.db.Where("product_id = ?", productID).First(&st).Error; err != nil {
		return nil, fmt.Errorf("failed to reload stock: %w", err)
	}
	return &st, nil
}

// SetAbsolute overwrites the current quantity (operator correction)
func (s *Service) SetAbsolute(productID uint, value int) (*Stock, error) {
	if value < 0 {
		return nil, fmt.Errorf("%w: stock quantity cannot be negative", apperrors.ErrInvalidInput)
	}

	var st Stock
	if err := s.db.Where("product_id = ?", productID).First(&st).Error; err != nil {
		return nil, fmt.Errorf("%w: stock record for product %d", apperrors.ErrNotFound, productID)
	}

	st.CurrentStock = value
	st.LastUpdated = time.Now()
	if err := s.db.Save(&st).Error; err != nil {
		return nil, fmt.Errorf("failed to update stock: %w", err)
	}

	return &st, nil
}

// SetAbsoluteByID overwrites the quantity addressing the stock row directly
func (s *Service) SetAbsoluteByID(stockID uint, value int) (*Stock, error) {
	var st Stock
	if err := s.db.First(&st, stockID).Error; err != nil {
		return nil, fmt.Errorf("%w: stock %d", apperrors.ErrNotFound, stockID)
	}
	return s.SetAbsolute(st.ProductID, value)
}

// EnsureExists seeds the stock row for a newly created product
func (s *Service) EnsureExists(productID uint, initialValue, threshold int) (*Stock, error) {
	var existing Stock
	if err := s.db.Where("product_id = ?", productID).First(&existing).Error; err == nil {
		return nil, fmt.Errorf("%w: stock record for product %d already exists", apperrors.ErrConflict, productID)
	}

	if threshold <= 0 {
		threshold = DefaultMinimumThreshold
	}

	st := &Stock{
		ProductID:             productID,
		CurrentStock:          initialValue,
		MinimumStockThreshold: threshold,
		LastUpdated:           time.Now(),
	}
	if err := s.db.Create(st).Error; err != nil {
		return nil, fmt.Errorf("failed to create stock record: %w", err)
	}

	return st, nil
}

// GetByProduct retrieves the stock row for a product
func (s *Service) GetByProduct(productID uint) (*Stock, error) {
	var st Stock
	if err := s.db.Where("product_id = ?", productID).First(&st).Error; err != nil {
		return nil, fmt.Errorf("%w: stock record for product %d", apperrors.ErrNotFound, productID)
	}
	return &st, nil
}

// Query retrieves stock rows joined with product identity, optionally filtered
// by status or product. Read-only.
func (s *Service) Query(params ListParams) ([]StockView, error) {
	query := s.db.Table("stocks").
		Select("stocks.*, products.name AS product_name, products.sku AS product_sku").
		Joins("LEFT JOIN products ON products.id = stocks.product_id AND products.deleted_at IS NULL").
		Where("stocks.deleted_at IS NULL")

	if params.Status != "" {
		query = query.Where("stocks.status = ?", params.Status)
	}
	if params.ProductID > 0 {
		query = query.Where("stocks.product_id = ?", params.ProductID)
	}

	var views []StockView
	if err := query.Order("stocks.last_updated DESC").Scan(&views).Error; err != nil {
		return nil, fmt.Errorf("failed to query stock: %w", err)
	}
	return views, nil
}

// DeleteByProduct removes the stock row when its product is deleted
func (s *Service) DeleteByProduct(productID uint) error {
	result := s.db.Where("product_id = ?", productID).Delete(&Stock{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete stock record: %w", result.Error)
	}
	return nil
}
