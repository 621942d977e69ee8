package seed

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/rl1809/vending/internal/core/domain"
)

const DefaultPreset = "expanded"

var ErrUnknownPreset = errors.New("unknown inventory preset")

type entry struct {
	Name     string `yaml:"name"`
	Price    string `yaml:"price"`
	Quantity int    `yaml:"quantity"`
}

var presets = map[string][]entry{
	"default": {
		{"chips", "1.50", 10},
		{"soda", "2.00", 25},
		{"water", "1.00", 8},
		{"candy", "1.25", 15},
		{"cookies", "2.50", 12},
		{"juice", "2.75", 18},
	},
	"expanded": {
		{"chips", "1.50", 20},
		{"pretzels", "1.75", 15},
		{"nuts", "2.25", 10},
		{"crackers", "1.25", 18},
		{"candy", "1.25", 25},
		{"cookies", "2.50", 12},
		{"granola bar", "2.00", 16},
		{"soda", "2.00", 30},
		{"water", "1.00", 40},
		{"juice", "2.75", 20},
		{"energy drink", "3.50", 8},
		{"coffee", "2.25", 15},
		{"tea", "1.75", 12},
		{"fruit cup", "3.00", 6},
		{"yogurt", "2.50", 10},
		{"trail mix", "3.25", 8},
	},
	"minimal": {
		{"chips", "1.50", 5},
		{"soda", "2.00", 3},
		{"water", "1.00", 2},
	},
	"empty": {},
}

// Presets lists the preset names in a stable order.
func Presets() []string {
	return []string{"default", "minimal", "expanded", "empty"}
}

func NewInventory(preset string) (*domain.Inventory, error) {
	entries, ok := presets[preset]
	if !ok {
		return nil, fmt.Errorf("%w: %q, available presets: %s",
			ErrUnknownPreset, preset, strings.Join(Presets(), ", "))
	}
	return build(entries)
}

func NewMachine(preset string) (*domain.VendingMachine, error) {
	inv, err := NewInventory(preset)
	if err != nil {
		return nil, err
	}
	return domain.NewVendingMachine(inv), nil
}

type file struct {
	Items []entry `yaml:"items"`
}

// LoadFile reads an inventory from a YAML document of the form
//
//	items:
//	  - name: chips
//	    price: "1.50"
//	    quantity: 10
func LoadFile(path string) (*domain.Inventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*domain.Inventory, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return build(f.Items)
}

func build(entries []entry) (*domain.Inventory, error) {
	inv := domain.NewInventory()
	for _, e := range entries {
		if strings.TrimSpace(e.Name) == "" {
			return nil, errors.New("seed item without a name")
		}
		price, err := decimal.NewFromString(strings.TrimSpace(e.Price))
		if err != nil {
			return nil, fmt.Errorf("item %q: invalid price %q: %w", e.Name, e.Price, err)
		}
		if price.IsNegative() || e.Quantity < 0 {
			return nil, fmt.Errorf("item %q: price and quantity cannot be negative", e.Name)
		}
		inv.AddItem(domain.NewItem(e.Name, price, e.Quantity))
	}
	return inv, nil
}
