// internal/domain/production/service.go
package production

import (
	"fmt"
	"time"

	"github.com/your-org/procurement-backend/internal/config"
	"github.com/your-org/procurement-backend/internal/domain/order"
	"github.com/your-org/procurement-backend/internal/pkg/apperrors"
	"gorm.io/gorm"
)

// Service handles production workflow business logic
type Service struct {
	db           *gorm.DB
	config       *config.Config
	orderService *order.Service
}

// NewService creates a new production service
func NewService(db *gorm.DB, cfg *config.Config, orderService *order.Service) *Service {
	return &Service{
		db:           db,
		config:       cfg,
		orderService: orderService,
	}
}

// StartRequest represents the data to start a production run
type StartRequest struct {
	OrderID          uint   `json:"order_id" binding:"required"`
	PackagingProcess string `json:"packaging_process"`
}

// AdvanceRequest represents a production status change
type AdvanceRequest struct {
	Status   Status `json:"status" binding:"required"`
	Comments string `json:"comments"`
}

// StartFromOrder creates the production run for an order, copying the order's
// line items so later order edits do not rewrite production history. The
// order itself moves to In Production.
func (s *Service) StartFromOrder(orderID uint, packagingProcess string) (*Production, error) {
	ord, err := s.orderService.Get(orderID)
	if err != nil {
		return nil, err
	}

	var existing Production
	if err := s.db.Where("order_id = ?", orderID).First(&existing).Error; err == nil {
		return nil, fmt.Errorf("%w: order %s is already in production", apperrors.ErrConflict, ord.OrderNumber)
	}

	if packagingProcess == "" {
		packagingProcess = DefaultPackagingProcess
	}

	items := make([]ProductionItem, 0, len(ord.Items))
	for _, item := range ord.Items {
		items = append(items, ProductionItem{
			ProductID:     item.ProductID,
			CustomProduct: item.CustomProduct,
			Quantity:      item.Quantity,
		})
	}

	prod := &Production{
		OrderID:          orderID,
		Status:           StatusInProduction,
		StartDate:        time.Now(),
		PackagingProcess: packagingProcess,
		Items:            items,
	}

	if err := s.db.Create(prod).Error; err != nil {
		return nil, fmt.Errorf("failed to create production run: %w", err)
	}

	if _, err := s.orderService.TransitionStatus(orderID, order.OrderStatusInProduction); err != nil {
		return nil, err
	}

	return prod, nil
}

// Get retrieves a production run with its items
func (s *Service) Get(id uint) (*Production, error) {
	var prod Production
	if err := s.db.Preload("Items.Product").First(&prod, id).Error; err != nil {
		return nil, fmt.Errorf("%w: production %d", apperrors.ErrNotFound, id)
	}
	return &prod, nil
}

// Advance moves a production run to a new status and propagates the matching
// order status. Completion stamps the end date.
func (s *Service) Advance(id uint, newStatus Status, comments string) (*Production, error) {
	if !ValidStatus(newStatus) {
		return nil, fmt.Errorf("%w: invalid production status '%s'", apperrors.ErrInvalidInput, newStatus)
	}

	prod, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	prod.Status = newStatus
	if comments != "" {
		prod.Comments = comments
	}

	switch newStatus {
	case StatusCompleted:
		now := time.Now()
		prod.EndDate = &now
	}

	if err := s.db.Save(prod).Error; err != nil {
		return nil, fmt.Errorf("failed to update production status: %w", err)
	}

	switch newStatus {
	case StatusCompleted:
		if _, err := s.orderService.TransitionStatus(prod.OrderID, order.OrderStatusCompleted); err != nil {
			return nil, err
		}
	case StatusPackaging:
		if _, err := s.orderService.TransitionStatus(prod.OrderID, order.OrderStatusPackaging); err != nil {
			return nil, err
		}
	}

	return prod, nil
}

// UpdateComments overwrites the free-form comments on a production run
func (s *Service) UpdateComments(id uint, comments string) (*Production, error) {
	prod, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	prod.Comments = comments
	if err := s.db.Save(prod).Error; err != nil {
		return nil, fmt.Errorf("failed to update production comments: %w", err)
	}

	return prod, nil
}

// Query retrieves production runs, newest first. Line items whose product was
// deleted are filtered from the result, and a run left with no items is
// omitted rather than deleted.
func (s *Service) Query(excludeCompleted bool) ([]Production, error) {
	query := s.db.Preload("Items.Product")
	if excludeCompleted {
		query = query.Where("status <> ?", StatusCompleted)
	}

	var runs []Production
	if err := query.Order("start_date DESC").Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve production runs: %w", err)
	}

	result := make([]Production, 0, len(runs))
	for _, run := range runs {
		surviving := make([]ProductionItem, 0, len(run.Items))
		for _, item := range run.Items {
			if item.ProductID != nil && item.Product == nil {
				continue // product deleted since the run started
			}
			surviving = append(surviving, item)
		}
		if len(surviving) == 0 {
			continue
		}
		run.Items = surviving
		result = append(result, run)
	}

	return result, nil
}
