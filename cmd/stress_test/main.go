package main

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/rl1809/vending/internal/adapter/storage"
	"github.com/rl1809/vending/internal/core/domain"
	"github.com/rl1809/vending/internal/core/service"
)

const (
	redisAddr     = "localhost:6379"
	machineID     = "stress-test"
	itemName      = "chips"
	itemPrice     = "1.50"
	initialStock  = 20
	totalRequests = 50
	queueSize     = 100
)

func main() {
	ctx := context.Background()
	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)

	// Initialize Redis
	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.WithError(err).Fatal("failed to connect redis")
	}
	defer rdb.Close()
	snapshots := storage.NewRedisAdapter(rdb, 0)

	inv := domain.NewInventory()
	inv.AddItem(domain.NewItem(itemName, decimal.RequireFromString(itemPrice), initialStock))
	vending := service.NewVendingService(machineID, domain.NewVendingMachine(inv), queueSize,
		service.WithSnapshotStore(snapshots), service.WithLogger(log))

	ledger := storage.NewMemoryAdapter()
	workers := service.StartSaleWorkers(4, vending.GetSaleQueue(), ledger, log)

	// Enough money for every request
	deposit := decimal.RequireFromString(itemPrice).Mul(decimal.NewFromInt(totalRequests))
	vending.InsertMoney(ctx, deposit.String())

	var successCount atomic.Int32
	var failCount atomic.Int32

	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if vending.Purchase(ctx, itemName, "1").Success {
				successCount.Add(1)
			} else {
				failCount.Add(1)
			}
		}()
	}

	wg.Wait()
	elapsed := time.Since(start)

	vending.Close()
	workers.Wait()

	success := successCount.Load()
	fail := failCount.Load()
	sales, _ := ledger.ListSales(ctx, machineID, 0)

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Initial Stock:    %d\n", initialStock)
	fmt.Printf("Total Requests:   %d\n", totalRequests)
	fmt.Printf("Successful:       %d\n", success)
	fmt.Printf("Failed:           %d\n", fail)
	fmt.Printf("Ledger Entries:   %d\n", len(sales))
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("==========================================")

	ok := true
	if success != int32(initialStock) || fail != int32(totalRequests-initialStock) {
		fmt.Printf("FAIL: Expected %d success/%d fail, got %d/%d\n",
			initialStock, totalRequests-initialStock, success, fail)
		ok = false
	}

	snapshot, err := snapshots.Load(ctx, machineID)
	if err != nil {
		fmt.Printf("FAIL: could not load snapshot: %v\n", err)
		os.Exit(1)
	}
	restored, err := domain.NewVendingMachineFromSnapshot(snapshot)
	if err != nil {
		fmt.Printf("FAIL: snapshot does not restore: %v\n", err)
		os.Exit(1)
	}
	item, found := restored.Inventory().GetItem(itemName)
	if !found {
		fmt.Printf("FAIL: %s missing from snapshot\n", itemName)
		os.Exit(1)
	}
	expectedBalance := deposit.Sub(decimal.RequireFromString(itemPrice).Mul(decimal.NewFromInt(initialStock)))
	fmt.Printf("Snapshot Stock:   %d\n", item.Quantity)
	fmt.Printf("Snapshot Balance: %s\n", restored.Balance().StringFixed(2))

	if item.IsAvailable() || !restored.Balance().Equal(expectedBalance) {
		fmt.Printf("FAIL: Expected stock 0 and balance %s\n", expectedBalance.StringFixed(2))
		ok = false
	}
	if !ok {
		os.Exit(1)
	}
	fmt.Println("PASS: stock depleted exactly once per unit and balance is consistent")
}
