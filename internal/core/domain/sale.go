package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale records a completed purchase for the sales ledger.
type Sale struct {
	ID        string
	MachineID string
	Item      string
	UnitPrice decimal.Decimal
	Requested int
	Bought    int
	TotalCost decimal.Decimal
	CreatedAt time.Time
}

func NewSale(machineID string, res PurchaseResult) Sale {
	return Sale{
		ID:        uuid.NewString(),
		MachineID: machineID,
		Item:      res.Item,
		UnitPrice: res.UnitPrice,
		Requested: res.Requested,
		Bought:    res.Bought,
		TotalCost: res.TotalCost,
		CreatedAt: time.Now().UTC(),
	}
}
