// internal/pkg/email/order_sink.go
package email

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/burger-pizza/internal/domain/order"
	"github.com/your-org/burger-pizza/internal/pkg/redact"
)

// OrderSink mails a confirmation to the customer for every submitted order
type OrderSink struct {
	service *EmailService
	logger  logrus.FieldLogger
}

// NewOrderSink wraps an email service as an order sink
func NewOrderSink(service *EmailService, logger logrus.FieldLogger) *OrderSink {
	return &OrderSink{service: service, logger: logger}
}

// Submit implements order.Sink
func (s *OrderSink) Submit(ctx context.Context, sub order.Submission) error {
	if sub.Contact.Email == "" {
		return fmt.Errorf("order %s has no email address", sub.OrderNumber)
	}

	if err := s.service.SendOrderConfirmationEmail(ctx, ConfirmationData(sub)); err != nil {
		return fmt.Errorf("failed to send order confirmation: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"order_number": sub.OrderNumber,
		"email_fp":     redact.Fingerprint(sub.Contact.Email),
	}).Info("Order confirmation sent")

	return nil
}

// ConfirmationData maps a submission onto the confirmation template,
// grouping units of the same item into one line
func ConfirmationData(sub order.Submission) OrderConfirmationData {
	data := OrderConfirmationData{
		EmailTemplateData: EmailTemplateData{
			UserName:  sub.Contact.Name,
			UserEmail: sub.Contact.Email,
		},
		OrderNumber:     sub.OrderNumber,
		OrderDate:       sub.SubmittedAt.Format("02/01/2006 15:04"),
		OrderTotal:      sub.Total.StringFixed(2),
		Currency:        sub.Currency,
		DeliveryAddress: sub.Contact.Address,
		Mobile:          sub.Contact.Mobile,
	}

	for _, line := range sub.Lines() {
		data.Items = append(data.Items, OrderItem{
			Name:     line.Name,
			Quantity: line.Quantity,
			Price:    line.UnitPrice.StringFixed(2),
			Total:    line.Total.StringFixed(2),
			ImageURL: line.ImageRef,
		})
	}

	if loc := sub.Contact.Location; loc != nil {
		data.MapURL = fmt.Sprintf("https://www.openstreetmap.org/?mlat=%f&mlon=%f#map=17/%f/%f", loc.Lat, loc.Lng, loc.Lat, loc.Lng)
	}

	return data
}
