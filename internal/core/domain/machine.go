package domain

import (
	"github.com/shopspring/decimal"
)

const moneyPlaces = 2

// VendingMachine owns an inventory and the customer's balance. It is not safe for concurrent
// use; callers serialize access per machine.
type VendingMachine struct {
	inventory *Inventory
	balance   decimal.Decimal
}

func NewVendingMachine(inventory *Inventory) *VendingMachine {
	if inventory == nil {
		inventory = NewInventory()
	}
	return &VendingMachine{inventory: inventory, balance: decimal.Zero}
}

func (m *VendingMachine) Inventory() *Inventory {
	return m.inventory
}

func (m *VendingMachine) Balance() decimal.Decimal {
	return m.balance
}

// InsertMoney credits positive amounts. Zero and negative amounts are ignored.
func (m *VendingMachine) InsertMoney(amount decimal.Decimal) {
	if !amount.IsPositive() {
		return
	}
	m.balance = m.balance.Add(amount)
}

// Refund returns the whole balance and zeroes it.
func (m *VendingMachine) Refund() decimal.Decimal {
	refund := m.balance
	m.balance = decimal.Zero
	return refund
}

// PurchaseQuantity buys up to qty units of the named item. When stock is short it buys what is
// in stock; the funds check is against the cost of that stock-capped quantity and fails the
// whole purchase rather than buying fewer units.
func (m *VendingMachine) PurchaseQuantity(itemName string, qty any) PurchaseResult {
	requested := CoerceQuantity(qty)
	if requested <= 0 {
		return failure(ReasonInvalidQuantity, requested)
	}

	item, ok := m.inventory.FindItem(itemName)
	if !ok {
		return failure(ReasonNotFound, requested)
	}

	available := item.Quantity
	toBuy := min(requested, available)
	if toBuy == 0 {
		return failure(ReasonOutOfStock, requested)
	}

	totalCost := cost(item.Price, toBuy)
	if m.balance.LessThan(totalCost) {
		return PurchaseResult{
			Reason:    ReasonInsufficientFunds,
			Requested: requested,
			Required:  totalCost,
			Balance:   m.balance.Round(moneyPlaces),
			Available: available,
		}
	}

	bought := 0
	for i := 0; i < toBuy; i++ {
		if item.PurchaseOne() {
			bought++
		}
	}
	charged := cost(item.Price, bought)
	m.balance = m.balance.Sub(charged).Round(moneyPlaces)

	return PurchaseResult{
		Success:          true,
		Requested:        requested,
		Item:             item.Name,
		UnitPrice:        item.Price,
		Bought:           bought,
		TotalCost:        charged,
		RemainingBalance: m.balance,
	}
}

// cost rounds half away from zero, which is half-up for the non-negative prices used here.
func cost(price decimal.Decimal, units int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(units))).Round(moneyPlaces)
}
