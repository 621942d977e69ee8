package domain

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

type Reason string

const (
	ReasonInvalidQuantity   Reason = "invalid_quantity"
	ReasonNotFound          Reason = "not_found"
	ReasonOutOfStock        Reason = "out_of_stock"
	ReasonInsufficientFunds Reason = "insufficient_funds"

	// ReasonInvalidAmount is reported by the caller boundary for deposits it cannot parse.
	ReasonInvalidAmount Reason = "invalid_amount"
)

// PurchaseResult is the outcome of a purchase attempt. Business failures are reported here
// rather than as errors.
type PurchaseResult struct {
	Success   bool   `json:"success"`
	Reason    Reason `json:"reason,omitempty"`
	Requested int    `json:"requested"`

	Item             string          `json:"item,omitempty"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	Bought           int             `json:"bought"`
	TotalCost        decimal.Decimal `json:"total_cost"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`

	// Set for insufficient_funds.
	Required  decimal.Decimal `json:"required"`
	Balance   decimal.Decimal `json:"balance"`
	Available int             `json:"available"`
}

func failure(reason Reason, requested int) PurchaseResult {
	return PurchaseResult{Reason: reason, Requested: requested}
}

// MarshalJSON only emits the fields that belong to the outcome.
func (r PurchaseResult) MarshalJSON() ([]byte, error) {
	switch {
	case r.Success:
		return json.Marshal(struct {
			Success          bool            `json:"success"`
			Item             string          `json:"item"`
			UnitPrice        decimal.Decimal `json:"unit_price"`
			Requested        int             `json:"requested"`
			Bought           int             `json:"bought"`
			TotalCost        decimal.Decimal `json:"total_cost"`
			RemainingBalance decimal.Decimal `json:"remaining_balance"`
		}{true, r.Item, r.UnitPrice, r.Requested, r.Bought, r.TotalCost, r.RemainingBalance})
	case r.Reason == ReasonInsufficientFunds:
		return json.Marshal(struct {
			Success   bool            `json:"success"`
			Reason    Reason          `json:"reason"`
			Required  decimal.Decimal `json:"required"`
			Balance   decimal.Decimal `json:"balance"`
			Requested int             `json:"requested"`
			Available int             `json:"available"`
		}{false, r.Reason, r.Required, r.Balance, r.Requested, r.Available})
	default:
		return json.Marshal(struct {
			Success   bool   `json:"success"`
			Reason    Reason `json:"reason"`
			Requested int    `json:"requested"`
		}{false, r.Reason, r.Requested})
	}
}
