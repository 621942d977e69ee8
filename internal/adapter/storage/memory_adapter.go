package storage

import (
	"context"
	"sync"

	"github.com/rl1809/vending/internal/core/domain"
)

// MemoryAdapter is a process-local sales ledger used when no database is configured.
type MemoryAdapter struct {
	mu    sync.Mutex
	sales []domain.Sale
}

func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{}
}

func (m *MemoryAdapter) CreateSale(ctx context.Context, sale domain.Sale) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sales = append(m.sales, sale)
	return nil
}

func (m *MemoryAdapter) ListSales(ctx context.Context, machineID string, limit int) ([]domain.Sale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []domain.Sale
	for i := len(m.sales) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		if m.sales[i].MachineID == machineID {
			out = append(out, m.sales[i])
		}
	}
	return out, nil
}
