package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrInvalidSnapshot = errors.New("invalid snapshot")

// Snapshot is the persisted value of a machine: its items in insertion order and its balance.
type Snapshot struct {
	Items   []Item          `json:"items"`
	Balance decimal.Decimal `json:"balance"`
}

func (m *VendingMachine) Snapshot() Snapshot {
	items := m.inventory.Items()
	s := Snapshot{Items: make([]Item, 0, len(items)), Balance: m.balance}
	for _, item := range items {
		s.Items = append(s.Items, *item)
	}
	return s
}

// Restore replaces the machine's inventory and balance with the snapshot contents.
func (m *VendingMachine) Restore(s Snapshot) error {
	if s.Balance.IsNegative() {
		return fmt.Errorf("%w: negative balance %s", ErrInvalidSnapshot, s.Balance)
	}
	inventory := NewInventory()
	for _, item := range s.Items {
		if item.Price.IsNegative() || item.Quantity < 0 {
			return fmt.Errorf("%w: item %q has price %s and quantity %d",
				ErrInvalidSnapshot, item.Name, item.Price, item.Quantity)
		}
		inventory.AddItem(&Item{Name: item.Name, Price: item.Price, Quantity: item.Quantity})
	}
	m.inventory = inventory
	m.balance = s.Balance
	return nil
}

// NewVendingMachineFromSnapshot builds a machine directly from a snapshot.
func NewVendingMachineFromSnapshot(s Snapshot) (*VendingMachine, error) {
	m := NewVendingMachine(nil)
	if err := m.Restore(s); err != nil {
		return nil, err
	}
	return m, nil
}
