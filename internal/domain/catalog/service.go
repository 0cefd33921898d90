// internal/domain/catalog/service.go
package catalog

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// StaticProvider serves a catalog fixed at construction time
type StaticProvider struct {
	items []Item
	index map[int]int
}

// NewStaticProvider validates items and builds a provider over a private copy
func NewStaticProvider(items []Item) (*StaticProvider, error) {
	p := &StaticProvider{
		items: make([]Item, len(items)),
		index: make(map[int]int, len(items)),
	}
	copy(p.items, items)

	for i, item := range p.items {
		if _, dup := p.index[item.ID]; dup {
			return nil, fmt.Errorf("duplicate catalog id %d", item.ID)
		}
		if item.Name == "" {
			return nil, fmt.Errorf("catalog item %d has no name", item.ID)
		}
		if item.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("catalog item %d has negative price %s", item.ID, item.UnitPrice)
		}
		p.index[item.ID] = i
	}

	return p, nil
}

// Items returns the catalog in its fixed order
func (p *StaticProvider) Items() []Item {
	out := make([]Item, len(p.items))
	copy(out, p.items)
	return out
}

// Lookup finds an item by id
func (p *StaticProvider) Lookup(id int) (Item, bool) {
	i, ok := p.index[id]
	if !ok {
		return Item{}, false
	}
	return p.items[i], true
}

// DefaultItems returns the house menu
func DefaultItems() []Item {
	return []Item{
		{ID: 1, Name: "Burger Classique", UnitPrice: decimal.RequireFromString("8.99"), ImageRef: "https://picsum.photos/200/300?random=1"},
		{ID: 2, Name: "Pizza Margherita", UnitPrice: decimal.RequireFromString("12.99"), ImageRef: "https://picsum.photos/200/300?random=2"},
		{ID: 3, Name: "Burger Végétarien", UnitPrice: decimal.RequireFromString("9.99"), ImageRef: "https://picsum.photos/200/300?random=3"},
		{ID: 4, Name: "Pizza Pepperoni", UnitPrice: decimal.RequireFromString("14.99"), ImageRef: "https://picsum.photos/200/300?random=4"},
	}
}

type catalogFile struct {
	Items []struct {
		ID        int    `yaml:"id"`
		Name      string `yaml:"name"`
		UnitPrice string `yaml:"unit_price"`
		ImageRef  string `yaml:"image_ref"`
	} `yaml:"items"`
}

// LoadFile reads a YAML catalog of the form:
//
//	items:
//	  - id: 1
//	    name: Burger Classique
//	    unit_price: "8.99"
//	    image_ref: https://...
func LoadFile(path string) (*StaticProvider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file %s: %w", path, err)
	}

	if len(file.Items) == 0 {
		return nil, fmt.Errorf("catalog file %s has no items", path)
	}

	items := make([]Item, 0, len(file.Items))
	for _, raw := range file.Items {
		price, err := decimal.NewFromString(raw.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("catalog item %d has invalid price %q: %w", raw.ID, raw.UnitPrice, err)
		}
		items = append(items, Item{
			ID:        raw.ID,
			Name:      raw.Name,
			UnitPrice: price,
			ImageRef:  raw.ImageRef,
		})
	}

	return NewStaticProvider(items)
}

// Load returns the catalog from path, or the house menu when path is empty
func Load(path string) (*StaticProvider, error) {
	if path == "" {
		return NewStaticProvider(DefaultItems())
	}
	return LoadFile(path)
}
