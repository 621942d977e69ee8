package service

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rl1809/vending/internal/core/domain"
	"github.com/rl1809/vending/internal/port"
)

const saleWriteTimeout = 5 * time.Second

// StartSaleWorkers persists queued sales with count workers. The returned WaitGroup is done once
// the queue is closed and drained.
func StartSaleWorkers(count int, queue <-chan domain.Sale, repo port.SaleRepository, log logrus.FieldLogger) *sync.WaitGroup {
	var wg sync.WaitGroup
	for i := 0; i < count; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			saleWorkerLoop(id, queue, repo, log)
		}(i)
	}
	return &wg
}

func saleWorkerLoop(id int, queue <-chan domain.Sale, repo port.SaleRepository, log logrus.FieldLogger) {
	for sale := range queue {
		ctx, cancel := context.WithTimeout(context.Background(), saleWriteTimeout)
		entry := log.WithFields(logrus.Fields{"worker": id, "sale": sale.ID})

		if err := repo.CreateSale(ctx, sale); err != nil {
			entry.WithError(err).Error("failed to record sale")
		} else {
			entry.Debug("recorded sale")
		}

		cancel()
	}
}
