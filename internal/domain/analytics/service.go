// internal/domain/analytics/service.go
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/procurement-backend/internal/config"
	"github.com/your-org/procurement-backend/internal/domain/order"
	"github.com/your-org/procurement-backend/internal/domain/production"
	"github.com/your-org/procurement-backend/internal/domain/stock"
	"github.com/your-org/procurement-backend/internal/infrastructure/database/redis"
	"gorm.io/gorm"
)

// dashboardCacheKey and TTL for the dashboard aggregate
const (
	dashboardCacheKey = "dashboard:stats"
	dashboardCacheTTL = 2 * time.Minute
)

// Service computes dashboard aggregates over orders, stock and production
type Service struct {
	db     *gorm.DB
	config *config.Config
	cache  *redis.Client
	logger *logrus.Logger
}

// NewService creates a new analytics service. The cache client may be nil, in
// which case every call recomputes.
func NewService(db *gorm.DB, cfg *config.Config, cache *redis.Client) *Service {
	return &Service{
		db:     db,
		config: cfg,
		cache:  cache,
		logger: logrus.New(),
	}
}

// MonthlyFinance is one month of purchase volume and invoice totals
type MonthlyFinance struct {
	Month         string `json:"month"`
	OrderCount    int64  `json:"order_count"`
	InvoiceAmount int64  `json:"invoice_amount"` // In cents
}

// MonthlyStock is one month of stock movement snapshots
type MonthlyStock struct {
	Month      string `json:"month"`
	TotalStock int64  `json:"total_stock"`
}

// ProductionSplit is the pending vs completed order breakdown
type ProductionSplit struct {
	Pending   int64 `json:"pending"`
	Completed int64 `json:"completed"`
}

// DashboardStats is the aggregate payload behind the dashboard page
type DashboardStats struct {
	TotalPurchases    int64            `json:"total_purchases"`
	PendingPayments   int64            `json:"pending_payments"` // In cents
	TotalStockItems   int64            `json:"total_stock_items"`
	OngoingProduction int64            `json:"ongoing_production"`
	FinanceTrends     []MonthlyFinance `json:"finance_trends"`
	ProductionData    ProductionSplit  `json:"production_data"`
	StockTrends       []MonthlyStock   `json:"stock_trends"`
	GeneratedAt       time.Time        `json:"generated_at"`
}

// Dashboard returns the dashboard aggregate, served from cache when fresh
func (s *Service) Dashboard(ctx context.Context) (*DashboardStats, error) {
	if s.cache != nil {
		var cached DashboardStats
		if err := s.cache.GetJSON(ctx, dashboardCacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	stats := &DashboardStats{GeneratedAt: time.Now()}

	if err := s.db.Model(&order.Order{}).Count(&stats.TotalPurchases).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	if err := s.db.Model(&order.Order{}).
		Where("payment_status = ?", order.PaymentStatusPending).
		Select("COALESCE(SUM(invoice_amount), 0)").
		Scan(&stats.PendingPayments).Error; err != nil {
		return nil, fmt.Errorf("failed to sum pending payments: %w", err)
	}

	if err := s.db.Model(&stock.Stock{}).Count(&stats.TotalStockItems).Error; err != nil {
		return nil, fmt.Errorf("failed to count stock items: %w", err)
	}

	if err := s.db.Model(&production.Production{}).
		Where("status <> ?", production.StatusCompleted).
		Count(&stats.OngoingProduction).Error; err != nil {
		return nil, fmt.Errorf("failed to count ongoing production: %w", err)
	}

	financeTrends, err := s.financeTrends()
	if err != nil {
		return nil, err
	}
	stats.FinanceTrends = financeTrends

	if err := s.db.Model(&order.Order{}).
		Where("status = ?", order.OrderStatusPending).
		Count(&stats.ProductionData.Pending).Error; err != nil {
		return nil, fmt.Errorf("failed to count pending orders: %w", err)
	}
	if err := s.db.Model(&order.Order{}).
		Where("status = ?", order.OrderStatusCompleted).
		Count(&stats.ProductionData.Completed).Error; err != nil {
		return nil, fmt.Errorf("failed to count completed orders: %w", err)
	}

	stockTrends, err := s.stockTrends()
	if err != nil {
		return nil, err
	}
	stats.StockTrends = stockTrends

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, dashboardCacheKey, stats, dashboardCacheTTL); err != nil {
			s.logger.WithField("error", err).Warn("Failed to cache dashboard stats")
		}
	}

	return stats, nil
}

// financeTrends aggregates order count and invoice volume per month over the
// trailing year
func (s *Service) financeTrends() ([]MonthlyFinance, error) {
	var trends []MonthlyFinance
	since := time.Now().AddDate(-1, 0, 0)
	if err := s.db.Model(&order.Order{}).
		Select("TO_CHAR(order_date, 'YYYY-MM') AS month, COUNT(*) AS order_count, COALESCE(SUM(invoice_amount), 0) AS invoice_amount").
		Where("order_date >= ?", since).
		Group("TO_CHAR(order_date, 'YYYY-MM')").
		Order("month ASC").
		Scan(&trends).Error; err != nil {
		return nil, fmt.Errorf("failed to compute finance trends: %w", err)
	}
	return trends, nil
}

// stockTrends aggregates total stock per update month. A proxy for movement
// history; the ledger keeps no per-transaction log.
func (s *Service) stockTrends() ([]MonthlyStock, error) {
	var trends []MonthlyStock
	since := time.Now().AddDate(-1, 0, 0)
	if err := s.db.Model(&stock.Stock{}).
		Select("TO_CHAR(last_updated, 'YYYY-MM') AS month, COALESCE(SUM(current_stock), 0) AS total_stock").
		Where("last_updated >= ?", since).
		Group("TO_CHAR(last_updated, 'YYYY-MM')").
		Order("month ASC").
		Scan(&trends).Error; err != nil {
		return nil, fmt.Errorf("failed to compute stock trends: %w", err)
	}
	return trends, nil
}

// MonthlyPurchases returns orders placed in a given month
func (s *Service) MonthlyPurchases(month, year int) ([]order.Order, error) {
	if month < 1 || month > 12 || year <= 0 {
		return nil, fmt.Errorf("invalid month/year: %d/%d", month, year)
	}

	var orders []order.Order
	if err := s.db.Preload("Items.Product").Preload("Supplier").
		Where("EXTRACT(MONTH FROM order_date) = ? AND EXTRACT(YEAR FROM order_date) = ?", month, year).
		Order("order_date DESC").
		Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve monthly purchases: %w", err)
	}
	return orders, nil
}

// StockSummary returns counts per stock status label
func (s *Service) StockSummary() (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	if err := s.db.Model(&stock.Stock{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to summarize stock: %w", err)
	}

	summary := map[string]int64{
		string(stock.StatusInStock):    0,
		string(stock.StatusLowStock):   0,
		string(stock.StatusOutOfStock): 0,
	}
	for _, r := range rows {
		summary[r.Status] = r.Count
	}
	return summary, nil
}

// OngoingProduction returns production runs that have not completed
func (s *Service) OngoingProduction() ([]production.Production, error) {
	var runs []production.Production
	if err := s.db.Preload("Items.Product").
		Where("status <> ?", production.StatusCompleted).
		Order("start_date DESC").
		Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve ongoing production: %w", err)
	}
	return runs, nil
}
