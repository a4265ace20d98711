// internal/interfaces/http/handlers/dashboard.go
package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/your-org/procurement-backend/internal/config"
	"github.com/your-org/procurement-backend/internal/domain/analytics"
	"github.com/your-org/procurement-backend/internal/infrastructure/database/redis"
	"gorm.io/gorm"
)

// DashboardHandler handles dashboard and analytics endpoints
type DashboardHandler struct {
	analyticsService *analytics.Service
	config           *config.Config
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(db *gorm.DB, cfg *config.Config, cache *redis.Client) *DashboardHandler {
	return &DashboardHandler{
		analyticsService: analytics.NewService(db, cfg, cache),
		config:           cfg,
	}
}

// GetDashboard handles GET /dashboard
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	stats, err := h.analyticsService.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Dashboard stats retrieved successfully",
		"data":    stats,
	})
}

// GetMonthlyPurchases handles GET /dashboard/monthly-purchases
func (h *DashboardHandler) GetMonthlyPurchases(c *gin.Context) {
	now := time.Now()
	month := int(now.Month())
	year := now.Year()
	if v, err := strconv.Atoi(c.Query("month")); err == nil {
		month = v
	}
	if v, err := strconv.Atoi(c.Query("year")); err == nil {
		year = v
	}

	orders, err := h.analyticsService.MonthlyPurchases(month, year)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Monthly purchases retrieved successfully",
		"data":    orders,
	})
}

// GetStockSummary handles GET /dashboard/stock-summary
func (h *DashboardHandler) GetStockSummary(c *gin.Context) {
	summary, err := h.analyticsService.StockSummary()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Stock summary retrieved successfully",
		"data":    summary,
	})
}

// GetOngoingProduction handles GET /dashboard/ongoing-production
func (h *DashboardHandler) GetOngoingProduction(c *gin.Context) {
	runs, err := h.analyticsService.OngoingProduction()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Ongoing production retrieved successfully",
		"data":    runs,
	})
}
