package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// NormalizeName produces the inventory lookup key.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Inventory keeps items keyed by normalized name in insertion order.
type Inventory struct {
	items map[string]*Item
	order []string
}

func NewInventory() *Inventory {
	return &Inventory{items: make(map[string]*Item)}
}

// AddItem inserts or replaces an item. A replaced item keeps its original position.
func (inv *Inventory) AddItem(item *Item) {
	key := NormalizeName(item.Name)
	if _, ok := inv.items[key]; !ok {
		inv.order = append(inv.order, key)
	}
	inv.items[key] = item
}

func (inv *Inventory) GetItem(name string) (*Item, bool) {
	item, ok := inv.items[NormalizeName(name)]
	return item, ok
}

// FindItem tries an exact match first and then falls back to the first item, in insertion
// order, whose normalized name contains the query. Ambiguous queries are not disambiguated.
func (inv *Inventory) FindItem(name string) (*Item, bool) {
	query := NormalizeName(name)
	if item, ok := inv.items[query]; ok {
		return item, true
	}
	for _, key := range inv.order {
		if strings.Contains(key, query) {
			return inv.items[key], true
		}
	}
	return nil, false
}

func (inv *Inventory) ListAvailableItems() []*Item {
	available := make([]*Item, 0, len(inv.order))
	for _, key := range inv.order {
		if item := inv.items[key]; item.IsAvailable() {
			available = append(available, item)
		}
	}
	return available
}

// Items returns every item, including sold out ones.
func (inv *Inventory) Items() []*Item {
	all := make([]*Item, 0, len(inv.order))
	for _, key := range inv.order {
		all = append(all, inv.items[key])
	}
	return all
}

func (inv *Inventory) Len() int {
	return len(inv.order)
}

type Summary struct {
	Items        int
	Units        int
	TotalValue   decimal.Decimal
	AveragePrice decimal.Decimal
}

// Summary aggregates the items currently available for sale.
func (inv *Inventory) Summary() Summary {
	s := Summary{TotalValue: decimal.Zero, AveragePrice: decimal.Zero}
	for _, item := range inv.ListAvailableItems() {
		s.Items++
		s.Units += item.Quantity
		s.TotalValue = s.TotalValue.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	if s.Units > 0 {
		s.AveragePrice = s.TotalValue.DivRound(decimal.NewFromInt(int64(s.Units)), 2)
	}
	return s
}
