// internal/pkg/excel/service.go
package excel

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
	"github.com/your-org/procurement-backend/internal/config"
	"github.com/your-org/procurement-backend/internal/domain/order"
)

// Service handles Excel workbook generation
type Service struct {
	config *config.Config
}

// NewService creates a new Excel service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
	}
}

const sheetName = "Purchase Orders"

var headers = []string{
	"Order Number", "Order Date", "Supplier", "Product", "Quantity",
	"Unit Price (EUR)", "Total (EUR)", "Expected Delivery", "Status",
	"Payment Status", "Payment Due",
}

// GeneratePurchaseOrders builds a workbook with one row per order line item
func (s *Service) GeneratePurchaseOrders(orders []order.Order) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheetName)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to compute cell name: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("failed to style header: %w", err)
		}
	}

	row := 2
	for i := range orders {
		ord := &orders[i]
		for j := range ord.Items {
			item := &ord.Items[j]
			values := []interface{}{
				ord.OrderNumber,
				ord.OrderDate.Format("02/01/2006"),
				ord.SupplierName(),
				item.ProductName(),
				item.Quantity,
				float64(item.UnitPrice) / 100,
				float64(item.TotalPrice) / 100,
				ord.ExpectedDelivery.Format("02/01/2006"),
				string(ord.Status),
				string(ord.PaymentStatus),
				ord.PaymentDueDate.Format("02/01/2006"),
			}
			for col, value := range values {
				cell, err := excelize.CoordinatesToCellName(col+1, row)
				if err != nil {
					return nil, fmt.Errorf("failed to compute cell name: %w", err)
				}
				if err := f.SetCellValue(sheetName, cell, value); err != nil {
					return nil, fmt.Errorf("failed to write row: %w", err)
				}
			}
			row++
		}
	}

	// Widen the text-heavy columns
	if err := f.SetColWidth(sheetName, "A", "D", 22); err != nil {
		return nil, fmt.Errorf("failed to set column width: %w", err)
	}
	if err := f.SetColWidth(sheetName, "H", "K", 16); err != nil {
		return nil, fmt.Errorf("failed to set column width: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf, nil
}
