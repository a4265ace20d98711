// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/procurement-backend/internal/config"
	"github.com/your-org/procurement-backend/internal/infrastructure/database/redis"
	"github.com/your-org/procurement-backend/internal/interfaces/http/handlers"
	"gorm.io/gorm"
)

// SetupRoutes wires all API route groups
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	SetupSupplierRoutes(rg, db, cfg)
	SetupProductRoutes(rg, db, cfg)
	SetupStockRoutes(rg, db, cfg)
	SetupOrderRoutes(rg, db, cfg)
	SetupProductionRoutes(rg, db, cfg)
	SetupDashboardRoutes(rg, db, redisClient, cfg)
}

// SetupSupplierRoutes sets up supplier related routes
func SetupSupplierRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	supplierHandler := handlers.NewSupplierHandler(db, cfg)

	suppliers := rg.Group("/suppliers")
	{
		suppliers.POST("/add", supplierHandler.CreateSupplier)
		suppliers.GET("", supplierHandler.GetSuppliers)
		suppliers.GET("/:id", supplierHandler.GetSupplier)
		suppliers.PUT("/:id", supplierHandler.UpdateSupplier)
		suppliers.DELETE("/:id", supplierHandler.DeleteSupplier)
	}
}

// SetupProductRoutes sets up product catalog routes
func SetupProductRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	productHandler := handlers.NewProductHandler(db, cfg)

	products := rg.Group("/products")
	{
		products.POST("/add", productHandler.CreateProduct)
		products.GET("", productHandler.GetProducts)
		products.GET("/:id", productHandler.GetProduct)
		products.PUT("/:id", productHandler.UpdateProduct)
		products.DELETE("/:id", productHandler.DeleteProduct)
	}
}

// SetupStockRoutes sets up stock ledger routes
func SetupStockRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	stockHandler := handlers.NewStockHandler(db, cfg)

	stock := rg.Group("/stock")
	{
		stock.GET("", stockHandler.GetStock)
		stock.GET("/low-stock", stockHandler.GetLowStock)
		stock.GET("/out-of-stock", stockHandler.GetOutOfStock)
		stock.PUT("/:id", stockHandler.UpdateStock)
	}
}

// SetupOrderRoutes sets up purchase order routes
func SetupOrderRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	orderHandler := handlers.NewOrderHandler(db, cfg)

	orders := rg.Group("/orders")
	{
		orders.POST("/create", orderHandler.CreateOrder)
		orders.GET("", orderHandler.GetOrders)

		// Static paths before the :id wildcard
		orders.GET("/overdue-payments", orderHandler.GetOverduePayments)
		orders.GET("/pending-payments", orderHandler.GetPendingPayments)
		orders.GET("/generate-excel", orderHandler.GenerateOrdersExcel)

		orders.GET("/:id", orderHandler.GetOrder)
		orders.PUT("/:id/status", orderHandler.UpdateOrderStatus)
		orders.PUT("/:id/mark-paid", orderHandler.MarkOrderPaid)
		orders.GET("/:id/generate-pdf", orderHandler.GenerateOrderPDF)
	}
}

// SetupProductionRoutes sets up production workflow routes
func SetupProductionRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	productionHandler := handlers.NewProductionHandler(db, cfg)

	production := rg.Group("/production")
	{
		production.POST("/start", productionHandler.StartProduction)
		production.POST("/send-to-production", productionHandler.StartProduction)
		production.GET("", productionHandler.GetProduction)
		production.PUT("/:id/status", productionHandler.UpdateProductionStatus)
		production.PUT("/:id/comments", productionHandler.UpdateProductionComments)
	}
}

// SetupDashboardRoutes sets up dashboard and analytics routes
func SetupDashboardRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	dashboardHandler := handlers.NewDashboardHandler(db, cfg, redisClient)
	orderHandler := handlers.NewOrderHandler(db, cfg)

	dashboard := rg.Group("/dashboard")
	{
		dashboard.GET("", dashboardHandler.GetDashboard)
		dashboard.GET("/monthly-purchases", dashboardHandler.GetMonthlyPurchases)
		dashboard.GET("/pending-payments", orderHandler.GetPendingPayments)
		dashboard.GET("/stock-summary", dashboardHandler.GetStockSummary)
		dashboard.GET("/ongoing-production", dashboardHandler.GetOngoingProduction)
	}
}
