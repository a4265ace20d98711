// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"github.com/your-org/procurement-backend/internal/domain/order"
	"github.com/your-org/procurement-backend/internal/domain/product"
	"github.com/your-org/procurement-backend/internal/domain/production"
	"github.com/your-org/procurement-backend/internal/domain/stock"
	"github.com/your-org/procurement-backend/internal/domain/supplier"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	// Models in dependency order
	models := []interface{}{
		&supplier.Supplier{},

		&product.Product{},
		&stock.Stock{},

		&order.Order{},
		&order.OrderItem{},

		&production.Production{},
		&production.ProductionItem{},
	}

	for _, model := range models {
		log.Printf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateSequences creates the sequences used for number allocation. Order
// numbers start at 1001 so they line up with the historical ORD-100x series.
func (m *Migration) CreateSequences() error {
	sequences := []string{
		"CREATE SEQUENCE IF NOT EXISTS order_number_seq START 1001",
	}

	for _, seq := range sequences {
		if err := m.db.Exec(seq).Error; err != nil {
			return fmt.Errorf("failed to create sequence: %w", err)
		}
	}

	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	log.Println("🔄 Creating additional database indexes...")

	indexes := []string{
		// Order indexes
		"CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status)",
		"CREATE INDEX IF NOT EXISTS idx_orders_payment_status ON orders(payment_status)",
		"CREATE INDEX IF NOT EXISTS idx_orders_payment_due ON orders(payment_status, payment_due_date)",
		"CREATE INDEX IF NOT EXISTS idx_orders_order_date ON orders(order_date DESC)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_product ON order_items(product_id)",

		// Stock indexes
		"CREATE INDEX IF NOT EXISTS idx_stocks_status ON stocks(status)",

		// Production indexes
		"CREATE INDEX IF NOT EXISTS idx_productions_status ON productions(status)",
		"CREATE INDEX IF NOT EXISTS idx_production_items_product ON production_items(product_id)",

		// Product indexes
		"CREATE INDEX IF NOT EXISTS idx_products_name ON products(name)",
	}

	for _, index := range indexes {
		if err := m.db.Exec(index).Error; err != nil {
			log.Printf("Warning: failed to create index: %v", err)
		}
	}

	log.Println("✅ Database indexes created successfully")
	return nil
}

// GetTableInfo logs row counts per table, handy in development
func (m *Migration) GetTableInfo() {
	tables := []string{"suppliers", "products", "stocks", "orders", "order_items", "productions", "production_items"}

	for _, table := range tables {
		var count int64
		if err := m.db.Table(table).Count(&count).Error; err != nil {
			log.Printf("Table %s: error counting rows: %v", table, err)
			continue
		}
		log.Printf("Table %s: %d rows", table, count)
	}
}
