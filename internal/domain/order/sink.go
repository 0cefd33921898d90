// internal/domain/order/sink.go
package order

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/your-org/burger-pizza/internal/pkg/redact"
)

// Sink receives submitted orders
type Sink interface {
	Submit(ctx context.Context, sub Submission) error
}

// SinkFunc adapts a function to Sink
type SinkFunc func(ctx context.Context, sub Submission) error

// Submit calls f
func (f SinkFunc) Submit(ctx context.Context, sub Submission) error {
	return f(ctx, sub)
}

// MultiSink sends a submission to each sink in order and stops at the first
// failure
type MultiSink []Sink

// Submit implements Sink
func (m MultiSink) Submit(ctx context.Context, sub Submission) error {
	for _, sink := range m {
		if err := sink.Submit(ctx, sub); err != nil {
			return err
		}
	}
	return nil
}

// LogSink acknowledges orders in the application log
type LogSink struct {
	logger logrus.FieldLogger
}

// NewLogSink creates a log sink
func NewLogSink(logger logrus.FieldLogger) *LogSink {
	return &LogSink{logger: logger}
}

// Submit implements Sink
func (l *LogSink) Submit(ctx context.Context, sub Submission) error {
	fields := logrus.Fields{
		"order_number": sub.OrderNumber,
		"session_id":   sub.SessionID,
		"items":        len(sub.Items),
		"total":        sub.Total.StringFixed(2),
		"currency":     sub.Currency,
		"email_fp":     redact.Fingerprint(sub.Contact.Email),
		"mobile_fp":    redact.Fingerprint(sub.Contact.Mobile),
		"has_location": sub.Contact.Location != nil,
	}
	l.logger.WithFields(fields).Info("Order placed successfully")
	return nil
}
