// internal/interfaces/http/handlers/order.go
package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/your-org/procurement-backend/internal/config"
	"github.com/your-org/procurement-backend/internal/domain/order"
	"github.com/your-org/procurement-backend/internal/domain/stock"
	"github.com/your-org/procurement-backend/internal/pkg/email"
	"github.com/your-org/procurement-backend/internal/pkg/excel"
	"github.com/your-org/procurement-backend/internal/pkg/pdf"
	"gorm.io/gorm"
)

// OrderHandler handles purchase order endpoints
type OrderHandler struct {
	orderService *order.Service
	pdfService   *pdf.Service
	excelService *excel.Service
	config       *config.Config
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(db *gorm.DB, cfg *config.Config) *OrderHandler {
	stockService := stock.NewService(db, cfg)
	orderService := order.NewService(db, cfg, stockService)

	mailer := email.NewService(cfg)
	if mailer.Enabled() {
		orderService.SetMailer(mailer)
	}

	return &OrderHandler{
		orderService: orderService,
		pdfService:   pdf.NewService(cfg),
		excelService: excel.NewService(cfg),
		config:       cfg,
	}
}

// CreateOrder handles POST /orders/create
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req order.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	ord, err := h.orderService.Create(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order created successfully",
		"data":    ord,
	})
}

// GetOrders handles GET /orders
func (h *OrderHandler) GetOrders(c *gin.Context) {
	params := order.ListParams{
		Status:        order.OrderStatus(c.Query("status")),
		PaymentStatus: order.PaymentStatus(c.Query("payment_status")),
	}
	if v, err := strconv.ParseUint(c.Query("product_id"), 10, 32); err == nil {
		params.ProductID = uint(v)
	}
	if v, err := strconv.Atoi(c.Query("month")); err == nil {
		params.Month = v
	}
	if v, err := strconv.Atoi(c.Query("year")); err == nil {
		params.Year = v
	}

	orders, err := h.orderService.List(params)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Orders retrieved successfully",
		"data":    orders,
	})
}

// GetOrder handles GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ord, err := h.orderService.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order retrieved successfully",
		"data":    ord,
	})
}

// updateStatusRequest carries an order status change
type updateStatusRequest struct {
	Status order.OrderStatus `json:"status" binding:"required"`
}

// UpdateOrderStatus handles PUT /orders/:id/status
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	ord, err := h.orderService.TransitionStatus(id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order status updated successfully",
		"data":    ord,
	})
}

// MarkOrderPaid handles PUT /orders/:id/mark-paid
func (h *OrderHandler) MarkOrderPaid(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ord, err := h.orderService.MarkPaid(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order marked as paid",
		"data":    ord,
	})
}

// GetOverduePayments handles GET /orders/overdue-payments. Reading the list
// runs the sweep, so anything past due is flagged by the time it is returned.
func (h *OrderHandler) GetOverduePayments(c *gin.Context) {
	overdue, err := h.orderService.SweepOverdue(time.Now())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Overdue payments retrieved successfully",
		"data":    overdue,
	})
}

// GetPendingPayments handles GET /orders/pending-payments
func (h *OrderHandler) GetPendingPayments(c *gin.Context) {
	orders, err := h.orderService.PendingPayments()
	if err != nil {
		respondError(c, err)
		return
	}

	total, err := h.orderService.TotalOwed()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Pending payments retrieved successfully",
		"data":       orders,
		"total_owed": total,
	})
}

// GenerateOrderPDF handles GET /orders/:id/generate-pdf
func (h *OrderHandler) GenerateOrderPDF(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ord, err := h.orderService.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}

	buf, err := h.pdfService.GeneratePurchaseOrder(ord)
	if err != nil {
		respondError(c, fmt.Errorf("failed to generate PDF: %w", err))
		return
	}

	filename := fmt.Sprintf("%s.pdf", ord.OrderNumber)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// GenerateOrdersExcel handles GET /orders/generate-excel
func (h *OrderHandler) GenerateOrdersExcel(c *gin.Context) {
	params := order.ListParams{
		Status:        order.OrderStatus(c.Query("status")),
		PaymentStatus: order.PaymentStatus(c.Query("payment_status")),
	}
	if v, err := strconv.Atoi(c.Query("month")); err == nil {
		params.Month = v
	}
	if v, err := strconv.Atoi(c.Query("year")); err == nil {
		params.Year = v
	}

	orders, err := h.orderService.List(params)
	if err != nil {
		respondError(c, err)
		return
	}

	buf, err := h.excelService.GeneratePurchaseOrders(orders)
	if err != nil {
		respondError(c, fmt.Errorf("failed to generate workbook: %w", err))
		return
	}

	filename := fmt.Sprintf("purchase-orders-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
