// internal/domain/order/entity.go
package order

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/burger-pizza/internal/domain/catalog"
)

var (
	// ErrInvalidPhase is returned when an operation is not allowed in the current phase
	ErrInvalidPhase = errors.New("operation not allowed in current phase")
	// ErrUnknownField is returned for contact fields the form does not have
	ErrUnknownField = errors.New("unknown contact field")
	// ErrSessionNotFound is returned by stores that have no record of a session
	ErrSessionNotFound = errors.New("session not found")
	// ErrOrderNotFound is returned when no order has the requested number
	ErrOrderNotFound = errors.New("order not found")
)

// Phase is the step of the ordering flow that is currently active
type Phase string

const (
	PhaseBrowsing Phase = "browsing"
	PhaseCheckout Phase = "checkout"
)

// CartEntry is one unit of a catalog item, copied at the moment it was added
type CartEntry struct {
	ItemID    int             `json:"item_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	ImageRef  string          `json:"image_ref"`
}

func entryFrom(item catalog.Item) CartEntry {
	return CartEntry{
		ItemID:    item.ID,
		Name:      item.Name,
		UnitPrice: item.UnitPrice,
		ImageRef:  item.ImageRef,
	}
}

// Snapshot is the cart and total captured on entry into checkout. It is for
// display only; the cart stays the source of truth until submission.
type Snapshot struct {
	Items []CartEntry     `json:"items"`
	Total decimal.Decimal `json:"total"`
}

// Location is a delivery point
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ContactInfo holds the checkout form fields
type ContactInfo struct {
	Name     string    `json:"name" validate:"required"`
	Email    string    `json:"email" validate:"required"`
	Mobile   string    `json:"mobile" validate:"required"`
	Address  string    `json:"address" validate:"required"`
	Location *Location `json:"location"`
}

func (c ContactInfo) clone() ContactInfo {
	out := c
	if c.Location != nil {
		loc := *c.Location
		out.Location = &loc
	}
	return out
}

// ContactField names one editable field of ContactInfo
type ContactField string

const (
	FieldName    ContactField = "name"
	FieldEmail   ContactField = "email"
	FieldMobile  ContactField = "mobile"
	FieldAddress ContactField = "address"
)

// ParseContactField validates a field name coming from a surface
func ParseContactField(name string) (ContactField, error) {
	switch f := ContactField(name); f {
	case FieldName, FieldEmail, FieldMobile, FieldAddress:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
}

// State is an immutable view of a session, handed to observers and surfaces
type State struct {
	SessionID     string          `json:"session_id"`
	Version       uint64          `json:"version"`
	Phase         Phase           `json:"phase"`
	Cart          []CartEntry     `json:"cart"`
	ItemCount     int             `json:"item_count"`
	Total         decimal.Decimal `json:"total"`
	Currency      string          `json:"currency"`
	Snapshot      *Snapshot       `json:"snapshot,omitempty"`
	Contact       ContactInfo     `json:"contact"`
	LocationError string          `json:"location_error,omitempty"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Submission is the order record emitted when a checkout is submitted
type Submission struct {
	OrderNumber string          `json:"order_number"`
	SessionID   string          `json:"session_id"`
	Items       []CartEntry     `json:"items"`
	Total       decimal.Decimal `json:"total"`
	Currency    string          `json:"currency"`
	Contact     ContactInfo     `json:"contact"`
	SubmittedAt time.Time       `json:"submitted_at"`
}

// Line groups the units of one item within a submission
type Line struct {
	ItemID    int             `json:"item_id"`
	Name      string          `json:"name"`
	ImageRef  string          `json:"image_ref"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Total     decimal.Decimal `json:"total"`
}

// Lines returns one line per distinct item, in order of first appearance
func (s Submission) Lines() []Line {
	var lines []Line
	index := make(map[int]int)
	for _, entry := range s.Items {
		if i, ok := index[entry.ItemID]; ok {
			lines[i].Quantity++
			lines[i].Total = lines[i].Total.Add(entry.UnitPrice)
			continue
		}
		index[entry.ItemID] = len(lines)
		lines = append(lines, Line{
			ItemID:    entry.ItemID,
			Name:      entry.Name,
			ImageRef:  entry.ImageRef,
			UnitPrice: entry.UnitPrice,
			Quantity:  1,
			Total:     entry.UnitPrice,
		})
	}
	return lines
}

// Observer receives the new state after every mutation
type Observer func(State)

func sumPrices(entries []CartEntry) decimal.Decimal {
	total := decimal.Zero
	for _, entry := range entries {
		total = total.Add(entry.UnitPrice)
	}
	return total
}

func copyEntries(entries []CartEntry) []CartEntry {
	out := make([]CartEntry, len(entries))
	copy(out, entries)
	return out
}
