package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type Item struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// NewItem panics on a negative price or quantity; seed data with either is a programming error.
func NewItem(name string, price decimal.Decimal, quantity int) *Item {
	if price.IsNegative() {
		panic(fmt.Sprintf("item %q: negative price %s", name, price))
	}
	if quantity < 0 {
		panic(fmt.Sprintf("item %q: negative quantity %d", name, quantity))
	}
	return &Item{Name: name, Price: price, Quantity: quantity}
}

func (i *Item) IsAvailable() bool {
	return i.Quantity > 0
}

// PurchaseOne takes a single unit out of stock, never going below zero.
func (i *Item) PurchaseOne() bool {
	if !i.IsAvailable() {
		return false
	}
	i.Quantity--
	return true
}
