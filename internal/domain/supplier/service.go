// internal/domain/supplier/service.go
package supplier

import (
	"fmt"

	"github.com/your-org/procurement-backend/internal/config"
	"github.com/your-org/procurement-backend/internal/pkg/apperrors"
	"gorm.io/gorm"
)

// Service handles supplier business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new supplier service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// CreateSupplierRequest represents supplier creation data
type CreateSupplierRequest struct {
	Name          string `json:"name" binding:"required"`
	ContactPerson string `json:"contact_person"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	TaxID         string `json:"tax_id"`
}

// UpdateSupplierRequest represents supplier update data
type UpdateSupplierRequest struct {
	Name          *string `json:"name"`
	ContactPerson *string `json:"contact_person"`
	Email         *string `json:"email"`
	Phone         *string `json:"phone"`
	Address       *string `json:"address"`
	TaxID         *string `json:"tax_id"`
}

// Create creates a new supplier
func (s *Service) Create(req *CreateSupplierRequest) (*Supplier, error) {
	// Supplier names are unique
	var existing Supplier
	if err := s.db.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		return nil, fmt.Errorf("%w: supplier '%s' already exists", apperrors.ErrConflict, req.Name)
	}

	sup := &Supplier{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		TaxID:         req.TaxID,
	}

	if err := s.db.Create(sup).Error; err != nil {
		return nil, fmt.Errorf("failed to create supplier: %w", err)
	}

	return sup, nil
}

// List retrieves all suppliers
func (s *Service) List() ([]Supplier, error) {
	var suppliers []Supplier
	if err := s.db.Order("name ASC").Find(&suppliers).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve suppliers: %w", err)
	}
	return suppliers, nil
}

// Get retrieves a supplier by ID
func (s *Service) Get(id uint) (*Supplier, error) {
	var sup Supplier
	if err := s.db.First(&sup, id).Error; err != nil {
		return nil, fmt.Errorf("%w: supplier %d", apperrors.ErrNotFound, id)
	}
	return &sup, nil
}

// Update updates an existing supplier
func (s *Service) Update(id uint, req *UpdateSupplierRequest) (*Supplier, error) {
	sup, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		var existing Supplier
		if err := s.db.Where("name = ? AND id <> ?", *req.Name, id).First(&existing).Error; err == nil {
			return nil, fmt.Errorf("%w: supplier '%s' already exists", apperrors.ErrConflict, *req.Name)
		}
		sup.Name = *req.Name
	}
	if req.ContactPerson != nil {
		sup.ContactPerson = *req.ContactPerson
	}
	if req.Email != nil {
		sup.Email = *req.Email
	}
	if req.Phone != nil {
		sup.Phone = *req.Phone
	}
	if req.Address != nil {
		sup.Address = *req.Address
	}
	if req.TaxID != nil {
		sup.TaxID = *req.TaxID
	}

	if err := s.db.Save(sup).Error; err != nil {
		return nil, fmt.Errorf("failed to update supplier: %w", err)
	}

	return sup, nil
}

// Delete removes a supplier
func (s *Service) Delete(id uint) error {
	sup, err := s.Get(id)
	if err != nil {
		return err
	}

	if err := s.db.Delete(sup).Error; err != nil {
		return fmt.Errorf("failed to delete supplier: %w", err)
	}

	return nil
}
