package service

import (
	"context"
	"errors"
	"io"
	"math"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/vending/internal/core/domain"
	"github.com/rl1809/vending/internal/port"
)

type mockSnapshotStore struct {
	mu        sync.Mutex
	snapshots map[string]domain.Snapshot
	saves     int
	err       error
}

func newMockSnapshotStore() *mockSnapshotStore {
	return &mockSnapshotStore{snapshots: make(map[string]domain.Snapshot)}
}

func (m *mockSnapshotStore) Save(ctx context.Context, machineID string, snapshot domain.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.err != nil {
		return m.err
	}
	m.snapshots[machineID] = snapshot
	return nil
}

func (m *mockSnapshotStore) Load(ctx context.Context, machineID string) (domain.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snapshot, ok := m.snapshots[machineID]
	if !ok {
		return domain.Snapshot{}, port.ErrSnapshotNotFound
	}
	return snapshot, nil
}

type mockSaleRepo struct {
	mu    sync.Mutex
	sales []domain.Sale
	err   error
}

func (m *mockSaleRepo) CreateSale(ctx context.Context, sale domain.Sale) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sales = append(m.sales, sale)
	return nil
}

func (m *mockSaleRepo) ListSales(ctx context.Context, machineID string, limit int) ([]domain.Sale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sales, nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestService(t *testing.T, opts ...Option) *VendingService {
	inv := domain.NewInventory()
	inv.AddItem(domain.NewItem("chips", dec("1.50"), 10))
	inv.AddItem(domain.NewItem("candy", dec("1.25"), 2))
	inv.AddItem(domain.NewItem("soda", dec("2.00"), 0))

	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	svc := NewVendingService("test", domain.NewVendingMachine(inv), 100, opts...)
	t.Cleanup(svc.Close)
	return svc
}

func drain(svc *VendingService) {
	go func() {
		for range svc.GetSaleQueue() {
		}
	}()
}

func TestInsertMoney(t *testing.T) {
	svc := newTestService(t)

	t.Run("parses number from text", func(t *testing.T) {
		res := svc.InsertMoney(context.Background(), "$2.50 please")
		require.True(t, res.Success)
		assert.True(t, res.Inserted.Equal(dec("2.50")))
		assert.True(t, res.Balance.Equal(dec("2.50")))
	})

	t.Run("rejects text without a number", func(t *testing.T) {
		res := svc.InsertMoney(context.Background(), "a coin")
		assert.False(t, res.Success)
		assert.Equal(t, domain.ReasonInvalidAmount, res.Reason)
		assert.Equal(t, "a coin", res.Input)
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		res := svc.InsertMoney(context.Background(), "-5")
		assert.Equal(t, domain.ReasonInvalidAmount, res.Reason)
	})

	assert.True(t, svc.Balance(context.Background()).Equal(dec("2.50")))
}

func TestPurchase_QueuesSale(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	svc.InsertMoney(ctx, "5")

	res := svc.Purchase(ctx, "chips", "2")
	require.True(t, res.Success)

	sale := <-svc.GetSaleQueue()
	assert.Equal(t, "test", sale.MachineID)
	assert.Equal(t, "chips", sale.Item)
	assert.Equal(t, 2, sale.Bought)
	assert.True(t, sale.TotalCost.Equal(dec("3.00")))
	assert.NotEmpty(t, sale.ID)
}

func TestPurchase_DeclinedDoesNotQueue(t *testing.T) {
	svc := newTestService(t)

	res := svc.Purchase(context.Background(), "chips", "1")

	assert.Equal(t, domain.ReasonInsufficientFunds, res.Reason)
	assert.Empty(t, svc.GetSaleQueue())
}

func TestPurchase_DefaultsQuantity(t *testing.T) {
	svc := newTestService(t)
	drain(svc)
	ctx := context.Background()
	svc.InsertMoney(ctx, "10")

	for _, raw := range []string{"", "some", "1"} {
		res := svc.Purchase(ctx, "chips", raw)
		require.True(t, res.Success, "quantity %q", raw)
		assert.Equal(t, 1, res.Bought)
	}
}

func TestPurchase_EmptyName(t *testing.T) {
	svc := newTestService(t)
	svc.InsertMoney(context.Background(), "10")

	res := svc.Purchase(context.Background(), "  ", "1")

	assert.Equal(t, domain.ReasonNotFound, res.Reason)
}

func TestPurchaseMany(t *testing.T) {
	svc := newTestService(t)
	drain(svc)
	ctx := context.Background()
	svc.InsertMoney(ctx, "20")

	lines := svc.PurchaseMany(ctx, "2 chips and 3 candy, soda")

	require.Len(t, lines, 3)
	assert.Equal(t, "chips", lines[0].Name)
	assert.Equal(t, 2, lines[0].Result.Bought)
	assert.Equal(t, "candy", lines[1].Name)
	assert.Equal(t, 3, lines[1].Quantity)
	assert.Equal(t, 2, lines[1].Result.Bought)
	assert.Equal(t, domain.ReasonOutOfStock, lines[2].Result.Reason)
	assert.True(t, svc.Balance(ctx).Equal(dec("14.50")))
}

func TestRefund(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	svc.InsertMoney(ctx, "3.25")

	assert.True(t, svc.Refund(ctx).Equal(dec("3.25")))
	assert.True(t, svc.Refund(ctx).IsZero())
}

func TestInventory_ReturnsCopies(t *testing.T) {
	svc := newTestService(t)

	items := svc.Inventory(context.Background())
	require.Len(t, items, 2)
	items[0].Quantity = 0

	again := svc.Inventory(context.Background())
	assert.Equal(t, 10, again[0].Quantity)
}

func TestSnapshots(t *testing.T) {
	store := newMockSnapshotStore()
	svc := newTestService(t, WithSnapshotStore(store))
	drain(svc)
	ctx := context.Background()

	svc.InsertMoney(ctx, "2")
	svc.Purchase(ctx, "chips", "1")
	svc.Purchase(ctx, "soda", "1")
	assert.Equal(t, 2, store.saves, "declined purchases do not snapshot")

	saved := store.snapshots["test"]
	assert.True(t, saved.Balance.Equal(dec("0.50")))
	assert.Equal(t, 9, saved.Items[0].Quantity)

	restored := NewVendingService("test", domain.NewVendingMachine(nil), 10,
		WithSnapshotStore(store), WithLogger(quietLogger()))
	defer restored.Close()
	ok, err := restored.Restore(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, restored.Balance(ctx).Equal(dec("0.50")))
	assert.Len(t, restored.Inventory(ctx), 2)
}

func TestSnapshots_SaveErrorIsNotFatal(t *testing.T) {
	store := newMockSnapshotStore()
	store.err = errors.New("disk full")
	svc := newTestService(t, WithSnapshotStore(store))

	res := svc.InsertMoney(context.Background(), "1")

	assert.True(t, res.Success)
	assert.Error(t, svc.Save(context.Background()))
}

func TestRestore_NothingSaved(t *testing.T) {
	svc := newTestService(t, WithSnapshotStore(newMockSnapshotStore()))

	ok, err := svc.Restore(context.Background())

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Len(t, svc.Inventory(context.Background()), 2)
}

func TestPurchase_Concurrent(t *testing.T) {
	svc := newTestService(t)
	drain(svc)
	ctx := context.Background()
	svc.InsertMoney(ctx, "100")

	var successCount atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if svc.Purchase(ctx, "chips", "1").Success {
				successCount.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(10), successCount.Load())
	assert.True(t, svc.Balance(ctx).Equal(dec("85.00")))
}

func TestSaleWorkers(t *testing.T) {
	repo := &mockSaleRepo{}
	queue := make(chan domain.Sale, 10)
	for i := 0; i < 5; i++ {
		queue <- domain.Sale{ID: string(rune('a' + i))}
	}
	close(queue)

	StartSaleWorkers(3, queue, repo, quietLogger()).Wait()

	assert.Len(t, repo.sales, 5)
}

func TestSaleWorkers_ErrorsAreLogged(t *testing.T) {
	repo := &mockSaleRepo{err: errors.New("db down")}
	queue := make(chan domain.Sale, 1)
	queue <- domain.Sale{ID: "x"}
	close(queue)

	StartSaleWorkers(1, queue, repo, quietLogger()).Wait()

	assert.Empty(t, repo.sales)
}

func TestParseOrder(t *testing.T) {
	cases := []struct {
		in   string
		want []OrderLine
	}{
		{"chips", []OrderLine{{"chips", 1}}},
		{"2 chips and 3 candy bars", []OrderLine{{"chips", 2}, {"candy bars", 3}}},
		{"granola bar 4", []OrderLine{{"granola bar", 4}}},
		{"water, 2 soda & tea", []OrderLine{{"water", 1}, {"soda", 2}, {"tea", 1}}},
		{"", []OrderLine{{"", 1}}},
		{"99999999999999999999 chips", []OrderLine{{"chips", math.MaxInt}}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ParseOrder(tc.in), "input %q", tc.in)
	}
}

func TestParseAmount(t *testing.T) {
	amount, ok := ParseAmount("insert $1.75")
	require.True(t, ok)
	assert.True(t, amount.Equal(dec("1.75")))

	amount, ok = ParseAmount("2 dollars and 5 cents")
	require.True(t, ok)
	assert.True(t, amount.Equal(dec("2")))

	_, ok = ParseAmount("nothing")
	assert.False(t, ok)
}
