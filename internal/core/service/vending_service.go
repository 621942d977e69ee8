package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/rl1809/vending/internal/core/domain"
	"github.com/rl1809/vending/internal/port"
)

var amountPattern = regexp.MustCompile(`[-+]?\d*\.?\d+`)

// DepositResult reports the outcome of a deposit made through the service.
type DepositResult struct {
	Success  bool            `json:"success"`
	Reason   domain.Reason   `json:"reason,omitempty"`
	Input    string          `json:"input,omitempty"`
	Inserted decimal.Decimal `json:"inserted"`
	Balance  decimal.Decimal `json:"balance"`
}

// LineResult is one line of a multi-item purchase request.
type LineResult struct {
	Name     string                `json:"name"`
	Quantity int                   `json:"quantity"`
	Result   domain.PurchaseResult `json:"result"`
}

// VendingService is the caller-facing boundary of one machine. It serializes access to the
// machine, parses loose user input, snapshots state after every change and queues completed
// sales for the ledger.
type VendingService struct {
	mu        sync.Mutex
	machineID string
	machine   *domain.VendingMachine
	snapshots port.SnapshotStore
	saleQueue chan domain.Sale
	log       logrus.FieldLogger
	closed    bool
}

type Option func(*VendingService)

// WithSnapshotStore enables best-effort snapshots after each mutation.
func WithSnapshotStore(store port.SnapshotStore) Option {
	return func(s *VendingService) {
		s.snapshots = store
	}
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(s *VendingService) {
		s.log = log
	}
}

func NewVendingService(machineID string, machine *domain.VendingMachine, queueSize int, opts ...Option) *VendingService {
	s := &VendingService{
		machineID: machineID,
		machine:   machine,
		saleQueue: make(chan domain.Sale, queueSize),
		log:       logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithField("machine", machineID)
	return s
}

func (s *VendingService) MachineID() string {
	return s.machineID
}

// Restore replaces the machine state with the stored snapshot. It reports false when no
// snapshot store is configured or nothing was saved yet.
func (s *VendingService) Restore(ctx context.Context) (bool, error) {
	if s.snapshots == nil {
		return false, nil
	}
	snapshot, err := s.snapshots.Load(ctx, s.machineID)
	if errors.Is(err, port.ErrSnapshotNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.machine.Restore(snapshot); err != nil {
		return false, err
	}
	s.log.WithField("balance", snapshot.Balance.StringFixed(2)).Info("restored machine snapshot")
	return true, nil
}

// Inventory returns copies of the items currently for sale.
func (s *VendingService) Inventory(ctx context.Context) []domain.Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	available := s.machine.Inventory().ListAvailableItems()
	items := make([]domain.Item, 0, len(available))
	for _, item := range available {
		items = append(items, *item)
	}
	return items
}

func (s *VendingService) Balance(ctx context.Context) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.Balance()
}

// InsertMoney takes the first number found in the input text. Input without a positive
// number is rejected with invalid_amount.
func (s *VendingService) InsertMoney(ctx context.Context, raw string) DepositResult {
	amount, ok := ParseAmount(raw)
	if !ok || !amount.IsPositive() {
		s.log.WithField("input", raw).Warn("rejected deposit")
		return DepositResult{Reason: domain.ReasonInvalidAmount, Input: raw}
	}

	s.mu.Lock()
	s.machine.InsertMoney(amount)
	balance := s.machine.Balance()
	s.saveLocked(ctx)
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		"amount":  amount.StringFixed(2),
		"balance": balance.StringFixed(2),
	}).Info("money inserted")
	return DepositResult{Success: true, Inserted: amount, Balance: balance}
}

// Purchase buys quantity units of item. A quantity that cannot be parsed counts as 1.
func (s *VendingService) Purchase(ctx context.Context, item string, quantity string) domain.PurchaseResult {
	return s.purchase(ctx, item, ParseQuantity(quantity))
}

func (s *VendingService) purchase(ctx context.Context, item string, qty int) domain.PurchaseResult {
	// An empty name is a substring of every item name.
	if qty > 0 && strings.TrimSpace(item) == "" {
		return domain.PurchaseResult{Reason: domain.ReasonNotFound, Requested: qty}
	}

	s.mu.Lock()
	res := s.machine.PurchaseQuantity(item, qty)
	if res.Success {
		s.saveLocked(ctx)
		s.enqueueLocked(domain.NewSale(s.machineID, res))
	}
	s.mu.Unlock()

	entry := s.log.WithFields(logrus.Fields{"item": item, "requested": res.Requested})
	if !res.Success {
		entry.WithField("reason", res.Reason).Info("purchase declined")
		return res
	}
	entry.WithFields(logrus.Fields{
		"bought":    res.Bought,
		"totalCost": res.TotalCost.StringFixed(2),
	}).Info("purchase completed")
	return res
}

// PurchaseMany handles requests such as "2 chips and 3 candy". Each line is bought
// independently; a failing line does not undo the others.
func (s *VendingService) PurchaseMany(ctx context.Context, request string) []LineResult {
	lines := ParseOrder(request)
	results := make([]LineResult, 0, len(lines))
	for _, line := range lines {
		results = append(results, LineResult{
			Name:     line.Name,
			Quantity: line.Quantity,
			Result:   s.purchase(ctx, line.Name, line.Quantity),
		})
	}
	return results
}

func (s *VendingService) Refund(ctx context.Context) decimal.Decimal {
	s.mu.Lock()
	amount := s.machine.Refund()
	s.saveLocked(ctx)
	s.mu.Unlock()

	s.log.WithField("amount", amount.StringFixed(2)).Info("balance refunded")
	return amount
}

// Save writes a snapshot immediately.
func (s *VendingService) Save(ctx context.Context) error {
	if s.snapshots == nil {
		return nil
	}
	s.mu.Lock()
	snapshot := s.machine.Snapshot()
	s.mu.Unlock()
	return s.snapshots.Save(ctx, s.machineID, snapshot)
}

func (s *VendingService) saveLocked(ctx context.Context) {
	if s.snapshots == nil {
		return
	}
	if err := s.snapshots.Save(ctx, s.machineID, s.machine.Snapshot()); err != nil {
		s.log.WithError(err).Warn("failed to save snapshot")
	}
}

func (s *VendingService) enqueueLocked(sale domain.Sale) {
	if s.closed {
		s.log.WithField("sale", sale.ID).Warn("service closed, dropping ledger entry")
		return
	}
	select {
	case s.saleQueue <- sale:
	default:
		s.log.WithField("sale", sale.ID).Error("sale queue full, dropping ledger entry")
	}
}

func (s *VendingService) GetSaleQueue() <-chan domain.Sale {
	return s.saleQueue
}

// Close stops accepting ledger entries and closes the sale queue so workers can drain it.
func (s *VendingService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.saleQueue)
	}
}

// ParseAmount extracts the first decimal number from free text such as "$2.50" or "2 dollars".
func ParseAmount(raw string) (decimal.Decimal, bool) {
	match := amountPattern.FindString(raw)
	if match == "" {
		return decimal.Zero, false
	}
	amount, err := decimal.NewFromString(match)
	if err != nil {
		return decimal.Zero, false
	}
	return amount, true
}

// ParseQuantity reads a unit count the way the machine does, defaulting to 1.
func ParseQuantity(raw string) int {
	if strings.TrimSpace(raw) == "" {
		return 1
	}
	return domain.CoerceQuantity(raw)
}

type OrderLine struct {
	Name     string
	Quantity int
}

var (
	orderSeparator = regexp.MustCompile(`\s*(?:,|&|\band\b)\s*`)
	leadingCount   = regexp.MustCompile(`^(\d+)\s+(.+)$`)
	trailingCount  = regexp.MustCompile(`^(.+?)\s+(\d+)$`)
)

// ParseOrder splits "2 chips and 3 candy" or "chips 2, soda" into lines. A line without a
// count is one unit.
func ParseOrder(text string) []OrderLine {
	var lines []OrderLine
	for _, part := range orderSeparator.Split(strings.TrimSpace(text), -1) {
		if part == "" {
			continue
		}
		lines = append(lines, parseLine(part))
	}
	if len(lines) == 0 {
		return []OrderLine{{Name: strings.TrimSpace(text), Quantity: 1}}
	}
	return lines
}

func parseLine(part string) OrderLine {
	if m := leadingCount.FindStringSubmatch(part); m != nil {
		return OrderLine{Name: m[2], Quantity: domain.CoerceQuantity(m[1])}
	}
	if m := trailingCount.FindStringSubmatch(part); m != nil {
		return OrderLine{Name: m[1], Quantity: domain.CoerceQuantity(m[2])}
	}
	return OrderLine{Name: part, Quantity: 1}
}
