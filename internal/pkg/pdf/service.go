// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/burger-pizza/internal/config"
	"github.com/your-org/burger-pizza/internal/domain/order"
)

// Service renders order receipts
type Service struct {
	config *config.Config
	tmpl   *template.Template
}

// NewService creates a new receipt service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
		tmpl:   template.Must(template.New("receipt").Parse(receiptTemplate)),
	}
}

// GenerateReceipt renders a PDF receipt for a submitted order. It needs the
// wkhtmltopdf binary on PATH.
func (s *Service) GenerateReceipt(sub *order.Submission) (*bytes.Buffer, error) {
	htmlContent, err := s.RenderHTML(sub)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.PageSize.Set(wkhtmltopdf.PageSizeA4)

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

// RenderHTML renders the receipt as an HTML document
func (s *Service) RenderHTML(sub *order.Submission) (string, error) {
	data := ReceiptData{
		ReceiptNumber: fmt.Sprintf("RCT-%s", sub.OrderNumber),
		OrderDate:     sub.SubmittedAt.Format("02/01/2006 15:04"),
		Order:         sub,
		Lines:         sub.Lines(),
		Company: CompanyInfo{
			Name:    s.config.Receipt.CompanyName,
			Address: s.config.Receipt.CompanyAddress,
			Phone:   s.config.Receipt.CompanyPhone,
			Email:   s.config.Receipt.CompanyEmail,
		},
	}

	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// ReceiptData represents the data passed to the receipt template
type ReceiptData struct {
	ReceiptNumber string            `json:"receipt_number"`
	OrderDate     string            `json:"order_date"`
	Order         *order.Submission `json:"order"`
	Lines         []order.Line      `json:"lines"`
	Company       CompanyInfo       `json:"company"`
}

// CompanyInfo represents company information
type CompanyInfo struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

const receiptTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Reçu {{.ReceiptNumber}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 0; padding: 20px; color: #333; }
        .header { border-bottom: 2px solid #eee; padding-bottom: 16px; margin-bottom: 24px; }
        .title { font-size: 24px; font-weight: bold; color: #c2410c; }
        .items { width: 100%; border-collapse: collapse; margin-bottom: 24px; }
        .items th, .items td { border: 1px solid #ddd; padding: 8px; text-align: left; }
        .items th { background-color: #f8f9fa; }
        .num { text-align: right !important; width: 80px; }
        .total-row td { font-size: 16px; font-weight: bold; border-top: 2px solid #333; }
        .footer { margin-top: 40px; text-align: center; color: #666; font-size: 12px; }
    </style>
</head>
<body>
    <div class="header">
        <h1>{{.Company.Name}}</h1>
        {{if .Company.Address}}<p>{{.Company.Address}}</p>{{end}}
        {{if .Company.Phone}}<p>Tél : {{.Company.Phone}}</p>{{end}}
        <div class="title">REÇU</div>
        <p><strong>Reçu n° :</strong> {{.ReceiptNumber}}</p>
        <p><strong>Commande n° :</strong> {{.Order.OrderNumber}}</p>
        <p><strong>Date :</strong> {{.OrderDate}}</p>
    </div>

    <div>
        <p><strong>{{.Order.Contact.Name}}</strong></p>
        <p>{{.Order.Contact.Address}}</p>
        <p>{{.Order.Contact.Mobile}}</p>
        <p>{{.Order.Contact.Email}}</p>
        {{with .Order.Contact.Location}}<p>Position : {{printf "%.5f" .Lat}}, {{printf "%.5f" .Lng}}</p>{{end}}
    </div>

    <table class="items">
        <thead>
            <tr>
                <th>Article</th>
                <th class="num">Qté</th>
                <th class="num">Prix</th>
                <th class="num">Total</th>
            </tr>
        </thead>
        <tbody>
            {{range .Lines}}
            <tr>
                <td>{{.Name}}</td>
                <td class="num">{{.Quantity}}</td>
                <td class="num">{{.UnitPrice.StringFixed 2}}</td>
                <td class="num">{{.Total.StringFixed 2}}</td>
            </tr>
            {{end}}
            <tr class="total-row">
                <td colspan="3">Total ({{.Order.Currency}})</td>
                <td class="num">{{.Order.Total.StringFixed 2}}</td>
            </tr>
        </tbody>
    </table>

    <div class="footer">
        <p>Merci pour votre commande !</p>
        {{if .Company.Email}}<p>Une question ? {{.Company.Email}}</p>{{end}}
    </div>
</body>
</html>
`
