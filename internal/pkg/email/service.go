// internal/pkg/email/service.go
package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/burger-pizza/internal/config"
)

const sendGridURL = "https://api.sendgrid.com/v3/mail/send"

// EmailService handles all email operations
type EmailService struct {
	config      *config.Config
	logger      logrus.FieldLogger
	templates   map[string]*template.Template
	client      *http.Client
	sendGridURL string
}

// NewEmailService creates a new email service
func NewEmailService(cfg *config.Config, logger logrus.FieldLogger) *EmailService {
	service := &EmailService{
		config:    cfg,
		logger:    logger,
		templates: make(map[string]*template.Template),
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		sendGridURL: sendGridURL,
	}

	service.loadTemplates()

	return service
}

// SendEmail sends an email using the configured provider
func (s *EmailService) SendEmail(ctx context.Context, email *Email) error {
	switch s.config.External.Email.Provider {
	case "smtp":
		return s.sendSMTPEmail(email)
	case "sendgrid":
		return s.sendSendGridEmail(ctx, email)
	default:
		return fmt.Errorf("unsupported email provider: %s", s.config.External.Email.Provider)
	}
}

// SendOrderConfirmationEmail sends order confirmation email
func (s *EmailService) SendOrderConfirmationEmail(ctx context.Context, data OrderConfirmationData) error {
	email, err := s.BuildOrderConfirmation(data)
	if err != nil {
		return err
	}
	return s.SendEmail(ctx, email)
}

// BuildOrderConfirmation renders the confirmation message without sending it
func (s *EmailService) BuildOrderConfirmation(data OrderConfirmationData) (*Email, error) {
	data.EmailTemplateData = GetBaseTemplateData(
		s.config.External.Email.FromName,
		data.UserName,
		data.UserEmail,
	)

	htmlContent, err := s.renderTemplate(string(EmailTypeOrderConfirmation), data)
	if err != nil {
		return nil, fmt.Errorf("failed to render order confirmation template: %w", err)
	}

	return &Email{
		To:          []string{data.UserEmail},
		Subject:     fmt.Sprintf("Confirmation de commande - %s", data.OrderNumber),
		HTMLContent: htmlContent,
		Type:        EmailTypeOrderConfirmation,
		Data: map[string]interface{}{
			"order_number": data.OrderNumber,
			"order_total":  data.OrderTotal,
		},
	}, nil
}

// loadTemplates loads templates from the template directory, falling back to
// the built-in ones
func (s *EmailService) loadTemplates() {
	templateDir := s.config.External.Email.TemplateDir
	if templateDir == "" {
		templateDir = "./templates/emails"
	}

	for name, fallback := range fallbackTemplates {
		templatePath := filepath.Join(templateDir, name+".html")
		tmpl, err := template.ParseFiles(templatePath)
		if err != nil {
			s.logger.WithField("template", name).Debug("Using built-in email template")
			tmpl = template.Must(template.New(name).Parse(fallback))
		}
		s.templates[name] = tmpl
	}
}

// renderTemplate renders an email template with data
func (s *EmailService) renderTemplate(templateName string, data interface{}) (string, error) {
	tmpl, exists := s.templates[templateName]
	if !exists {
		return "", fmt.Errorf("template %s not found", templateName)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", templateName, err)
	}

	return buf.String(), nil
}

var fallbackTemplates = map[string]string{
	string(EmailTypeOrderConfirmation): `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.SiteName}}</title>
</head>
<body style="font-family: Arial, sans-serif; margin: 0; padding: 20px; background-color: #f4f4f4;">
    <div style="max-width: 600px; margin: 0 auto; background-color: white; padding: 20px; border-radius: 8px;">
        <h1 style="color: #333;">{{.SiteName}}</h1>
        <p>Bonjour {{.UserName}},</p>
        <p>Votre commande <strong>{{.OrderNumber}}</strong> du {{.OrderDate}} a bien été reçue.</p>
        <table style="width: 100%; border-collapse: collapse;">
            {{range .Items}}
            <tr>
                <td>{{.Quantity}} × {{.Name}}</td>
                <td style="text-align: right;">{{.Total}}</td>
            </tr>
            {{end}}
            <tr>
                <td><strong>Total</strong></td>
                <td style="text-align: right;"><strong>{{.OrderTotal}} {{.Currency}}</strong></td>
            </tr>
        </table>
        <p>Livraison : {{.DeliveryAddress}}</p>
        {{if .MapURL}}<p><a href="{{.MapURL}}">Voir le point de livraison</a></p>{{end}}
        <p>Nous vous contacterons au {{.Mobile}} si besoin.</p>
        <hr>
        <p style="font-size: 12px; color: #666;">&copy; {{.Year}} {{.SiteName}}</p>
    </div>
</body>
</html>`,
}
