// internal/interfaces/http/handlers/production.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/procurement-backend/internal/config"
	"github.com/your-org/procurement-backend/internal/domain/order"
	"github.com/your-org/procurement-backend/internal/domain/production"
	"github.com/your-org/procurement-backend/internal/domain/stock"
	"gorm.io/gorm"
)

// ProductionHandler handles production workflow endpoints
type ProductionHandler struct {
	productionService *production.Service
	config            *config.Config
}

// NewProductionHandler creates a new production handler
func NewProductionHandler(db *gorm.DB, cfg *config.Config) *ProductionHandler {
	stockService := stock.NewService(db, cfg)
	orderService := order.NewService(db, cfg, stockService)
	return &ProductionHandler{
		productionService: production.NewService(db, cfg, orderService),
		config:            cfg,
	}
}

// StartProduction handles POST /production/start and
// POST /production/send-to-production
func (h *ProductionHandler) StartProduction(c *gin.Context) {
	var req production.StartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	prod, err := h.productionService.StartFromOrder(req.OrderID, req.PackagingProcess)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Production started successfully",
		"data":    prod,
	})
}

// GetProduction handles GET /production
func (h *ProductionHandler) GetProduction(c *gin.Context) {
	excludeCompleted := c.Query("exclude_completed") == "true"

	runs, err := h.productionService.Query(excludeCompleted)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Production runs retrieved successfully",
		"data":    runs,
	})
}

// UpdateProductionStatus handles PUT /production/:id/status
func (h *ProductionHandler) UpdateProductionStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req production.AdvanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	prod, err := h.productionService.Advance(id, req.Status, req.Comments)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Production status updated successfully",
		"data":    prod,
	})
}

// updateCommentsRequest carries free-form production comments
type updateCommentsRequest struct {
	Comments string `json:"comments"`
}

// UpdateProductionComments handles PUT /production/:id/comments
func (h *ProductionHandler) UpdateProductionComments(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req updateCommentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	prod, err := h.productionService.UpdateComments(id, req.Comments)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Production comments updated successfully",
		"data":    prod,
	})
}
