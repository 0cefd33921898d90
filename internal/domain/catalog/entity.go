// internal/domain/catalog/entity.go
package catalog

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested catalog item does not exist
var ErrNotFound = errors.New("catalog item not found")

// Item represents a purchasable catalog entry. Items are immutable once the
// provider has been built.
type Item struct {
	ID        int             `json:"id" yaml:"id"`
	Name      string          `json:"name" yaml:"name"`
	UnitPrice decimal.Decimal `json:"unit_price" yaml:"unit_price"`
	ImageRef  string          `json:"image_ref" yaml:"image_ref"`
}

// Provider supplies the fixed, ordered catalog
type Provider interface {
	Items() []Item
	Lookup(id int) (Item, bool)
}
