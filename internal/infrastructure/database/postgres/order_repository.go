// internal/infrastructure/database/postgres/order_repository.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/burger-pizza/internal/domain/order"
	"gorm.io/gorm"
)

// OrderRecord is a submitted order as stored in the database
type OrderRecord struct {
	ID           uint            `gorm:"primaryKey"`
	OrderNumber  string          `gorm:"uniqueIndex;not null;size:50"`
	SessionID    string          `gorm:"not null;size:64"`
	Total        decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Currency     string          `gorm:"size:3;not null"`
	ContactName  string          `gorm:"size:255;not null"`
	ContactEmail string          `gorm:"size:255;not null"`
	Mobile       string          `gorm:"size:50;not null"`
	Address      string          `gorm:"type:text;not null"`
	Latitude     *float64
	Longitude    *float64
	SubmittedAt  time.Time `gorm:"not null"`
	CreatedAt    time.Time
	Items        []OrderItemRecord `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// TableName overrides the table name
func (OrderRecord) TableName() string {
	return "orders"
}

// OrderItemRecord is one cart unit of a stored order
type OrderItemRecord struct {
	ID        uint            `gorm:"primaryKey"`
	OrderID   uint            `gorm:"not null;index"`
	Position  int             `gorm:"not null"`
	ItemID    int             `gorm:"not null"`
	Name      string          `gorm:"size:255;not null"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	ImageRef  string          `gorm:"size:500"`
}

// TableName overrides the table name
func (OrderItemRecord) TableName() string {
	return "order_items"
}

// OrderRepository stores submitted orders. It is an order.Sink.
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Submit implements order.Sink
func (r *OrderRepository) Submit(ctx context.Context, sub order.Submission) error {
	record := toRecord(sub)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&record).Error
	})
	if err != nil {
		return fmt.Errorf("failed to store order %s: %w", sub.OrderNumber, err)
	}

	return nil
}

// FindByNumber loads a stored order
func (r *OrderRepository) FindByNumber(ctx context.Context, number string) (*order.Submission, error) {
	var record OrderRecord
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("order_number = ?", number).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, order.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load order %s: %w", number, err)
	}

	sub := fromRecord(record)
	return &sub, nil
}

func toRecord(sub order.Submission) OrderRecord {
	record := OrderRecord{
		OrderNumber:  sub.OrderNumber,
		SessionID:    sub.SessionID,
		Total:        sub.Total,
		Currency:     sub.Currency,
		ContactName:  sub.Contact.Name,
		ContactEmail: sub.Contact.Email,
		Mobile:       sub.Contact.Mobile,
		Address:      sub.Contact.Address,
		SubmittedAt:  sub.SubmittedAt,
		Items:        make([]OrderItemRecord, len(sub.Items)),
	}

	if loc := sub.Contact.Location; loc != nil {
		lat, lng := loc.Lat, loc.Lng
		record.Latitude = &lat
		record.Longitude = &lng
	}

	for i, entry := range sub.Items {
		record.Items[i] = OrderItemRecord{
			Position:  i,
			ItemID:    entry.ItemID,
			Name:      entry.Name,
			UnitPrice: entry.UnitPrice,
			ImageRef:  entry.ImageRef,
		}
	}

	return record
}

func fromRecord(record OrderRecord) order.Submission {
	sub := order.Submission{
		OrderNumber: record.OrderNumber,
		SessionID:   record.SessionID,
		Total:       record.Total,
		Currency:    record.Currency,
		Contact: order.ContactInfo{
			Name:    record.ContactName,
			Email:   record.ContactEmail,
			Mobile:  record.Mobile,
			Address: record.Address,
		},
		SubmittedAt: record.SubmittedAt,
		Items:       make([]order.CartEntry, len(record.Items)),
	}

	if record.Latitude != nil && record.Longitude != nil {
		sub.Contact.Location = &order.Location{Lat: *record.Latitude, Lng: *record.Longitude}
	}

	for i, item := range record.Items {
		sub.Items[i] = order.CartEntry{
			ItemID:    item.ItemID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			ImageRef:  item.ImageRef,
		}
	}

	return sub
}
