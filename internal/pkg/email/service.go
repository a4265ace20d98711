// internal/pkg/email/service.go
package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"

	"github.com/your-org/procurement-backend/internal/config"
	"github.com/your-org/procurement-backend/internal/domain/order"
)

// Service sends payment reminder mail over SMTP. Disabled entirely unless
// EMAIL_ENABLED is set.
type Service struct {
	config *config.Config
}

// NewService creates a new email service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
	}
}

// Enabled reports whether outgoing mail is configured
func (s *Service) Enabled() bool {
	return s.config.Email.Enabled && s.config.Email.SMTPHost != ""
}

// SendPaymentReminder notifies the configured recipient that an invoice went
// overdue
func (s *Service) SendPaymentReminder(ord *order.Order) error {
	if !s.Enabled() {
		return nil
	}

	data := reminderData{
		OrderNumber:    ord.OrderNumber,
		SupplierName:   ord.SupplierName(),
		InvoiceAmount:  fmt.Sprintf("%.2f €", ord.GetFormattedInvoiceAmount()),
		PaymentDueDate: ord.PaymentDueDate.Format("02/01/2006"),
	}
	if ord.InvoiceNumber != nil {
		data.InvoiceNumber = *ord.InvoiceNumber
	}

	htmlContent, err := s.renderReminder(data)
	if err != nil {
		return fmt.Errorf("failed to render reminder template: %w", err)
	}

	subject := fmt.Sprintf("Payment overdue: %s (%s)", ord.OrderNumber, ord.SupplierName())
	return s.send(s.config.Email.NotifyTo, subject, htmlContent)
}

// send delivers a single HTML mail via SMTP
func (s *Service) send(to, subject, htmlBody string) error {
	addr := fmt.Sprintf("%s:%d", s.config.Email.SMTPHost, s.config.Email.SMTPPort)

	var auth smtp.Auth
	if s.config.Email.SMTPUser != "" {
		auth = smtp.PlainAuth("", s.config.Email.SMTPUser, s.config.Email.SMTPPass, s.config.Email.SMTPHost)
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s <%s>\r\n", s.config.Email.FromName, s.config.Email.FromEmail)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	if err := smtp.SendMail(addr, auth, s.config.Email.FromEmail, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}

func (s *Service) renderReminder(data reminderData) (string, error) {
	tmpl := template.Must(template.New("reminder").Parse(reminderTemplate))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

type reminderData struct {
	OrderNumber    string
	SupplierName   string
	InvoiceNumber  string
	InvoiceAmount  string
	PaymentDueDate string
}

const reminderTemplate = `
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
    <h2>Payment overdue</h2>
    <p>The invoice for purchase order <strong>{{.OrderNumber}}</strong> is past its due date.</p>
    <table cellpadding="6">
        <tr><td><strong>Supplier</strong></td><td>{{.SupplierName}}</td></tr>
        {{if .InvoiceNumber}}<tr><td><strong>Invoice</strong></td><td>{{.InvoiceNumber}}</td></tr>{{end}}
        <tr><td><strong>Amount</strong></td><td>{{.InvoiceAmount}}</td></tr>
        <tr><td><strong>Due date</strong></td><td>{{.PaymentDueDate}}</td></tr>
    </table>
</body>
</html>
`
