// internal/interfaces/http/handlers/stock.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/procurement-backend/internal/config"
	"github.com/your-org/procurement-backend/internal/domain/order"
	"github.com/your-org/procurement-backend/internal/domain/stock"
	"gorm.io/gorm"
)

// StockHandler handles stock ledger endpoints
type StockHandler struct {
	stockService *stock.Service
	orderService *order.Service
	config       *config.Config
}

// NewStockHandler creates a new stock handler
func NewStockHandler(db *gorm.DB, cfg *config.Config) *StockHandler {
	stockService := stock.NewService(db, cfg)
	return &StockHandler{
		stockService: stockService,
		orderService: order.NewService(db, cfg, stockService),
		config:       cfg,
	}
}

// reservation names a pending order holding quantity against a product
type reservation struct {
	OrderID     uint   `json:"order_id"`
	OrderNumber string `json:"order_number"`
	Quantity    int    `json:"quantity"`
}

// stockEntry is a stock listing row with its pending-order reservations
type stockEntry struct {
	stock.StockView
	ReservedFor []reservation `json:"reserved_for"`
}

// GetStock handles GET /stock
func (h *StockHandler) GetStock(c *gin.Context) {
	views, err := h.stockService.Query(stock.ListParams{
		Status: stock.Status(c.Query("status")),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	entries := make([]stockEntry, 0, len(views))
	for _, view := range views {
		entry := stockEntry{StockView: view, ReservedFor: []reservation{}}

		pending, err := h.orderService.PendingForProduct(view.ProductID)
		if err != nil {
			respondError(c, err)
			return
		}
		for _, ord := range pending {
			for _, item := range ord.Items {
				if item.ProductID != nil && *item.ProductID == view.ProductID {
					entry.ReservedFor = append(entry.ReservedFor, reservation{
						OrderID:     ord.ID,
						OrderNumber: ord.OrderNumber,
						Quantity:    item.Quantity,
					})
				}
			}
		}

		entries = append(entries, entry)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Stock retrieved successfully",
		"data":    entries,
	})
}

// GetLowStock handles GET /stock/low-stock
func (h *StockHandler) GetLowStock(c *gin.Context) {
	views, err := h.stockService.Query(stock.ListParams{Status: stock.StatusLowStock})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Low stock retrieved successfully",
		"data":    views,
	})
}

// GetOutOfStock handles GET /stock/out-of-stock
func (h *StockHandler) GetOutOfStock(c *gin.Context) {
	views, err := h.stockService.Query(stock.ListParams{Status: stock.StatusOutOfStock})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Out of stock retrieved successfully",
		"data":    views,
	})
}

// updateStockRequest carries an operator stock correction
type updateStockRequest struct {
	CurrentStock *int `json:"current_stock" binding:"required"`
}

// UpdateStock handles PUT /stock/:id
func (h *StockHandler) UpdateStock(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req updateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	st, err := h.stockService.SetAbsoluteByID(id, *req.CurrentStock)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Stock updated successfully",
		"data":    st,
	})
}
