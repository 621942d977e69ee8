package port

import (
	"context"

	"github.com/rl1809/vending/internal/core/domain"
)

type SaleRepository interface {
	// CreateSale appends a completed purchase to the ledger
	CreateSale(ctx context.Context, sale domain.Sale) error

	// ListSales returns the most recent sales of a machine, newest first.
	// A limit of zero or less means no limit.
	ListSales(ctx context.Context, machineID string, limit int) ([]domain.Sale, error)
}
