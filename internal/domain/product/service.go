// internal/domain/product/service.go
package product

import (
	"fmt"

	"github.com/your-org/procurement-backend/internal/config"
	"github.com/your-org/procurement-backend/internal/domain/stock"
	"github.com/your-org/procurement-backend/internal/domain/supplier"
	"github.com/your-org/procurement-backend/internal/pkg/apperrors"
	"gorm.io/gorm"
)

// Service handles product business logic
type Service struct {
	db           *gorm.DB
	config       *config.Config
	stockService *stock.Service
}

// NewService creates a new product service
func NewService(db *gorm.DB, cfg *config.Config, stockService *stock.Service) *Service {
	return &Service{
		db:           db,
		config:       cfg,
		stockService: stockService,
	}
}

// CreateProductRequest represents product creation data
type CreateProductRequest struct {
	Name                  string   `json:"name" binding:"required"`
	ProductionProcess     string   `json:"production_process" binding:"required"`
	RequiredMaterials     []string `json:"required_materials"`
	PackagingType         string   `json:"packaging_type" binding:"required"`
	QuantityPerMasterBox  int      `json:"quantity_per_master_box" binding:"required"`
	Price                 int64    `json:"price" binding:"required"` // In cents
	ASIN                  string   `json:"asin" binding:"required"`
	SKU                   string   `json:"sku" binding:"required"`
	SupplierIDs           []uint   `json:"supplier_ids"`
	ManufacturerReference string   `json:"manufacturer_reference"`
	InitialStock          int      `json:"initial_stock"`
	MinimumStockThreshold int      `json:"minimum_stock_threshold"`
}

// UpdateProductRequest represents product update data
type UpdateProductRequest struct {
	Name                  *string  `json:"name"`
	ProductionProcess     *string  `json:"production_process"`
	RequiredMaterials     []string `json:"required_materials"`
	PackagingType         *string  `json:"packaging_type"`
	QuantityPerMasterBox  *int     `json:"quantity_per_master_box"`
	Price                 *int64   `json:"price"`
	ManufacturerReference *string  `json:"manufacturer_reference"`
	SupplierIDs           []uint   `json:"supplier_ids"`
}

// Create creates a new product and seeds its stock row
func (s *Service) Create(req *CreateProductRequest) (*Product, error) {
	if req.QuantityPerMasterBox <= 0 {
		return nil, fmt.Errorf("%w: quantity per master box must be a positive number", apperrors.ErrInvalidInput)
	}
	if req.Price <= 0 {
		return nil, fmt.Errorf("%w: price must be a positive number", apperrors.ErrInvalidInput)
	}
	if req.InitialStock < 0 {
		return nil, fmt.Errorf("%w: initial stock cannot be negative", apperrors.ErrInvalidInput)
	}

	// Uniqueness pre-checks so the caller gets a useful message instead of a
	// bare constraint violation
	var existing Product
	if err := s.db.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		return nil, fmt.Errorf("%w: product '%s' already exists", apperrors.ErrConflict, req.Name)
	}
	if err := s.db.Where("asin = ?", req.ASIN).First(&existing).Error; err == nil {
		return nil, fmt.Errorf("%w: ASIN '%s' already in use", apperrors.ErrConflict, req.ASIN)
	}
	if err := s.db.Where("sku = ?", req.SKU).First(&existing).Error; err == nil {
		return nil, fmt.Errorf("%w: SKU '%s' already in use", apperrors.ErrConflict, req.SKU)
	}

	suppliers, err := s.resolveSuppliers(req.SupplierIDs)
	if err != nil {
		return nil, err
	}

	prod := &Product{
		Name:                  req.Name,
		ProductionProcess:     req.ProductionProcess,
		RequiredMaterials:     StringList(req.RequiredMaterials),
		PackagingType:         req.PackagingType,
		QuantityPerMasterBox:  req.QuantityPerMasterBox,
		Price:                 req.Price,
		ASIN:                  req.ASIN,
		SKU:                   req.SKU,
		ManufacturerReference: req.ManufacturerReference,
		InitialStock:          req.InitialStock,
		Suppliers:             suppliers,
	}

	if err := s.db.Create(prod).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	// Every product owns exactly one stock row, seeded from the initial value
	if _, err := s.stockService.EnsureExists(prod.ID, req.InitialStock, req.MinimumStockThreshold); err != nil {
		return nil, fmt.Errorf("failed to seed stock for product %d: %w", prod.ID, err)
	}

	return prod, nil
}

// List retrieves all products with their suppliers
func (s *Service) List() ([]Product, error) {
	var products []Product
	if err := s.db.Preload("Suppliers").Order("name ASC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}
	return products, nil
}

// Get retrieves a product by ID
func (s *Service) Get(id uint) (*Product, error) {
	var prod Product
	if err := s.db.Preload("Suppliers").First(&prod, id).Error; err != nil {
		return nil, fmt.Errorf("%w: product %d", apperrors.ErrNotFound, id)
	}
	return &prod, nil
}

// Update updates an existing product. The initial-stock value is not
// updatable; stock corrections go through the stock ledger.
func (s *Service) Update(id uint, req *UpdateProductRequest) (*Product, error) {
	prod, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		var existing Product
		if err := s.db.Where("name = ? AND id <> ?", *req.Name, id).First(&existing).Error; err == nil {
			return nil, fmt.Errorf("%w: product '%s' already exists", apperrors.ErrConflict, *req.Name)
		}
		prod.Name = *req.Name
	}
	if req.ProductionProcess != nil {
		prod.ProductionProcess = *req.ProductionProcess
	}
	if req.RequiredMaterials != nil {
		prod.RequiredMaterials = StringList(req.RequiredMaterials)
	}
	if req.PackagingType != nil {
		prod.PackagingType = *req.PackagingType
	}
	if req.QuantityPerMasterBox != nil {
		if *req.QuantityPerMasterBox <= 0 {
			return nil, fmt.Errorf("%w: quantity per master box must be a positive number", apperrors.ErrInvalidInput)
		}
		prod.QuantityPerMasterBox = *req.QuantityPerMasterBox
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return nil, fmt.Errorf("%w: price must be a positive number", apperrors.ErrInvalidInput)
		}
		prod.Price = *req.Price
	}
	if req.ManufacturerReference != nil {
		prod.ManufacturerReference = *req.ManufacturerReference
	}
	if req.SupplierIDs != nil {
		suppliers, err := s.resolveSuppliers(req.SupplierIDs)
		if err != nil {
			return nil, err
		}
		if err := s.db.Model(prod).Association("Suppliers").Replace(suppliers); err != nil {
			return nil, fmt.Errorf("failed to update product suppliers: %w", err)
		}
	}

	if err := s.db.Save(prod).Error; err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return prod, nil
}

// Delete removes a product and cascades to its stock row so no orphaned
// stock remains
func (s *Service) Delete(id uint) error {
	prod, err := s.Get(id)
	if err != nil {
		return err
	}

	if err := s.db.Delete(prod).Error; err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	if err := s.stockService.DeleteByProduct(id); err != nil {
		return err
	}

	return nil
}

// resolveSuppliers loads the referenced suppliers, failing if any is missing
func (s *Service) resolveSuppliers(ids []uint) ([]supplier.Supplier, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var suppliers []supplier.Supplier
	if err := s.db.Where("id IN ?", ids).Find(&suppliers).Error; err != nil {
		return nil, fmt.Errorf("failed to resolve suppliers: %w", err)
	}
	if len(suppliers) != len(ids) {
		return nil, fmt.Errorf("%w: one or more referenced suppliers do not exist", apperrors.ErrNotFound)
	}
	return suppliers, nil
}
