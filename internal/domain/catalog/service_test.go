package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	p, err := Load("")
	require.NoError(t, err)

	items := p.Items()
	require.Len(t, items, 4)
	assert.Equal(t, "Burger Classique", items[0].Name)
	assert.True(t, items[1].UnitPrice.Equal(decimal.RequireFromString("12.99")))

	item, ok := p.Lookup(3)
	require.True(t, ok)
	assert.Equal(t, "Burger Végétarien", item.Name)

	_, ok = p.Lookup(42)
	assert.False(t, ok)
}

func TestItemsReturnsCopy(t *testing.T) {
	p, err := NewStaticProvider(DefaultItems())
	require.NoError(t, err)

	items := p.Items()
	items[0].Name = "changed"

	assert.Equal(t, "Burger Classique", p.Items()[0].Name)
}

func TestNewStaticProviderRejectsBadItems(t *testing.T) {
	_, err := NewStaticProvider([]Item{
		{ID: 1, Name: "a", UnitPrice: decimal.NewFromInt(1)},
		{ID: 1, Name: "b", UnitPrice: decimal.NewFromInt(2)},
	})
	assert.ErrorContains(t, err, "duplicate")

	_, err = NewStaticProvider([]Item{{ID: 1, Name: "a", UnitPrice: decimal.NewFromInt(-1)}})
	assert.ErrorContains(t, err, "negative")

	_, err = NewStaticProvider([]Item{{ID: 1, UnitPrice: decimal.Zero}})
	assert.ErrorContains(t, err, "no name")
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	content := `items:
  - id: 10
    name: Tacos
    unit_price: "7.50"
    image_ref: tacos.png
  - id: 11
    name: Salade
    unit_price: "0"
    image_ref: salade.png
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	p, err := LoadFile(path)
	require.NoError(t, err)

	items := p.Items()
	require.Len(t, items, 2)
	assert.Equal(t, 10, items[0].ID)
	assert.True(t, items[0].UnitPrice.Equal(decimal.RequireFromString("7.5")))
	assert.True(t, items[1].UnitPrice.IsZero())
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("items: []\n"), 0o600))
	_, err = LoadFile(empty)
	assert.ErrorContains(t, err, "no items")

	badPrice := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(badPrice, []byte("items:\n  - id: 1\n    name: x\n    unit_price: abc\n"), 0o600))
	_, err = LoadFile(badPrice)
	assert.ErrorContains(t, err, "invalid price")
}
