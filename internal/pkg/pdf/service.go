// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/procurement-backend/internal/config"
	"github.com/your-org/procurement-backend/internal/domain/order"
)

// Service handles PDF generation
type Service struct {
	config *config.Config
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
	}
}

// GeneratePurchaseOrder renders a purchase order document for sending to the
// supplier
func (s *Service) GeneratePurchaseOrder(ord *order.Order) (*bytes.Buffer, error) {
	lines := make([]lineData, 0, len(ord.Items))
	for i := range ord.Items {
		item := &ord.Items[i]
		lines = append(lines, lineData{
			Product:    item.ProductName(),
			Quantity:   item.Quantity,
			UnitPrice:  formatEUR(item.UnitPrice),
			TotalPrice: formatEUR(item.TotalPrice),
		})
	}

	data := purchaseOrderData{
		OrderNumber:      ord.OrderNumber,
		OrderDate:        ord.OrderDate.Format("02/01/2006"),
		ExpectedDelivery: ord.ExpectedDelivery.Format("02/01/2006"),
		PaymentDueDate:   ord.PaymentDueDate.Format("02/01/2006"),
		SupplierName:     ord.SupplierName(),
		Lines:            lines,
		InvoiceAmount:    formatEUR(ord.InvoiceAmount),
		Company: companyInfo{
			Name:    s.config.Company.Name,
			TaxID:   s.config.Company.TaxID,
			Address: s.config.Company.Address,
			Phone:   s.config.Company.Phone,
			Email:   s.config.Company.Email,
			ShipTo:  s.config.Company.ShipTo,
		},
	}
	if ord.Supplier != nil {
		data.SupplierContact = ord.Supplier.ContactPerson
		data.SupplierEmail = ord.Supplier.Email
		data.SupplierAddress = ord.Supplier.Address
		data.SupplierTaxID = ord.Supplier.TaxID
	}

	htmlContent, err := s.generateHTML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.Grayscale.Set(false)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)
	page.Zoom.Set(0.95)

	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

// generateHTML generates HTML content from template
func (s *Service) generateHTML(data purchaseOrderData) (string, error) {
	tmpl := template.Must(template.New("purchase-order").Parse(purchaseOrderTemplate))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

func formatEUR(cents int64) string {
	return fmt.Sprintf("%.2f €", float64(cents)/100)
}

// purchaseOrderData represents the data passed to the document template
type purchaseOrderData struct {
	OrderNumber      string
	OrderDate        string
	ExpectedDelivery string
	PaymentDueDate   string
	SupplierName     string
	SupplierContact  string
	SupplierEmail    string
	SupplierAddress  string
	SupplierTaxID    string
	Lines            []lineData
	InvoiceAmount    string
	Company          companyInfo
}

type lineData struct {
	Product    string
	Quantity   int
	UnitPrice  string
	TotalPrice string
}

type companyInfo struct {
	Name    string
	TaxID   string
	Address string
	Phone   string
	Email   string
	ShipTo  string
}

// Purchase order HTML template
const purchaseOrderTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Purchase Order {{.OrderNumber}}</title>
    <style>
        body {
            font-family: Arial, sans-serif;
            margin: 0;
            padding: 20px;
            color: #333;
        }
        .header {
            display: flex;
            justify-content: space-between;
            margin-bottom: 30px;
            border-bottom: 2px solid #eee;
            padding-bottom: 20px;
        }
        .company-info {
            flex: 1;
        }
        .order-info {
            text-align: right;
            flex: 1;
        }
        .order-title {
            font-size: 28px;
            font-weight: bold;
            color: #2563eb;
            margin-bottom: 10px;
        }
        .parties {
            display: flex;
            justify-content: space-between;
            margin-bottom: 30px;
        }
        .party {
            flex: 1;
            margin-right: 20px;
        }
        .party h3 {
            border-bottom: 1px solid #ddd;
            padding-bottom: 5px;
            font-size: 14px;
            text-transform: uppercase;
            color: #555;
        }
        table.items {
            width: 100%;
            border-collapse: collapse;
            margin-bottom: 30px;
        }
        table.items th {
            background: #f4f4f5;
            text-align: left;
            padding: 8px;
            border-bottom: 2px solid #ddd;
            font-size: 12px;
            text-transform: uppercase;
        }
        table.items td {
            padding: 8px;
            border-bottom: 1px solid #eee;
        }
        .amount {
            text-align: right;
        }
        .total-row td {
            font-weight: bold;
            border-top: 2px solid #333;
        }
        .dates {
            margin-bottom: 30px;
            font-size: 13px;
        }
        .dates span {
            margin-right: 30px;
        }
    </style>
</head>
<body>
    <div class="header">
        <div class="company-info">
            <h2>{{.Company.Name}}</h2>
            <p>NIF: {{.Company.TaxID}}<br>
            {{.Company.Address}}<br>
            Tel: {{.Company.Phone}}<br>
            {{.Company.Email}}</p>
        </div>
        <div class="order-info">
            <div class="order-title">Purchase Order</div>
            <p><strong>{{.OrderNumber}}</strong><br>
            Date: {{.OrderDate}}</p>
        </div>
    </div>

    <div class="parties">
        <div class="party">
            <h3>Supplier</h3>
            <p><strong>{{.SupplierName}}</strong><br>
            {{if .SupplierContact}}{{.SupplierContact}}<br>{{end}}
            {{if .SupplierAddress}}{{.SupplierAddress}}<br>{{end}}
            {{if .SupplierTaxID}}NIF: {{.SupplierTaxID}}<br>{{end}}
            {{if .SupplierEmail}}{{.SupplierEmail}}{{end}}</p>
        </div>
        <div class="party">
            <h3>Ship To</h3>
            <p>{{.Company.ShipTo}}</p>
        </div>
    </div>

    <div class="dates">
        <span><strong>Expected delivery:</strong> {{.ExpectedDelivery}}</span>
        <span><strong>Payment due:</strong> {{.PaymentDueDate}}</span>
    </div>

    <table class="items">
        <thead>
            <tr>
                <th>Product</th>
                <th class="amount">Quantity</th>
                <th class="amount">Unit Price</th>
                <th class="amount">Total</th>
            </tr>
        </thead>
        <tbody>
            {{range .Lines}}
            <tr>
                <td>{{.Product}}</td>
                <td class="amount">{{.Quantity}}</td>
                <td class="amount">{{.UnitPrice}}</td>
                <td class="amount">{{.TotalPrice}}</td>
            </tr>
            {{end}}
            <tr class="total-row">
                <td colspan="3" class="amount">Total</td>
                <td class="amount">{{.InvoiceAmount}}</td>
            </tr>
        </tbody>
    </table>
</body>
</html>
`
