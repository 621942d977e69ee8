package app

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/rl1809/vending/internal/adapter/storage"
	"github.com/rl1809/vending/internal/config"
	"github.com/rl1809/vending/internal/core/domain"
	"github.com/rl1809/vending/internal/core/service"
	"github.com/rl1809/vending/internal/port"
	"github.com/rl1809/vending/internal/seed"
)

// App owns one vending service and the connections behind it.
type App struct {
	Config  *config.Config
	Service *service.VendingService
	Sales   port.SaleRepository

	log     *logrus.Logger
	workers *sync.WaitGroup
	rdb     *redis.Client
	db      *sql.DB
}

func New(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*App, error) {
	a := &App{Config: cfg, log: log}

	machine, err := newMachine(cfg)
	if err != nil {
		return nil, err
	}

	opts := []service.Option{service.WithLogger(log)}
	store, err := a.snapshotStore(ctx)
	if err != nil {
		a.closeConnections()
		return nil, err
	}
	if store != nil {
		opts = append(opts, service.WithSnapshotStore(store))
	}

	if a.Sales, err = a.saleRepository(ctx); err != nil {
		a.closeConnections()
		return nil, err
	}

	a.Service = service.NewVendingService(cfg.MachineID, machine, cfg.QueueSize, opts...)
	if _, err := a.Service.Restore(ctx); err != nil {
		a.closeConnections()
		return nil, err
	}

	a.workers = service.StartSaleWorkers(cfg.Workers, a.Service.GetSaleQueue(), a.Sales, log)
	log.WithFields(logrus.Fields{
		"machine":  cfg.MachineID,
		"workers":  cfg.Workers,
		"snapshot": cfg.SnapshotBackend,
	}).Info("vending machine ready")
	return a, nil
}

func newMachine(cfg *config.Config) (*domain.VendingMachine, error) {
	if cfg.SeedFile != "" {
		inv, err := seed.LoadFile(cfg.SeedFile)
		if err != nil {
			return nil, err
		}
		return domain.NewVendingMachine(inv), nil
	}
	return seed.NewMachine(cfg.Preset)
}

func (a *App) snapshotStore(ctx context.Context) (port.SnapshotStore, error) {
	switch a.Config.SnapshotBackend {
	case config.SnapshotFile:
		return storage.NewFileAdapter(a.Config.SnapshotDir), nil
	case config.SnapshotRedis:
		a.rdb = redis.NewClient(&redis.Options{
			Addr:     a.Config.RedisAddr,
			Password: a.Config.RedisPassword,
			DB:       a.Config.RedisDB,
		})
		if err := a.rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		a.log.WithField("addr", a.Config.RedisAddr).Info("connected to redis")
		return storage.NewRedisAdapter(a.rdb, a.Config.SnapshotTTL), nil
	default:
		return nil, nil
	}
}

func (a *App) saleRepository(ctx context.Context) (port.SaleRepository, error) {
	if a.Config.MySQLDSN == "" {
		return storage.NewMemoryAdapter(), nil
	}

	dsn, err := storage.MySQLDSN(a.Config.MySQLDSN)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	a.db = db
	db.SetMaxOpenConns(a.Config.Workers * 2)
	db.SetMaxIdleConns(a.Config.Workers)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping mysql: %w", err)
	}
	adapter := storage.NewMySQLAdapter(db)
	if err := adapter.Migrate(ctx); err != nil {
		return nil, err
	}
	a.log.Info("connected to mysql")
	return adapter, nil
}

// Close saves a final snapshot, drains the sale queue and closes connections.
func (a *App) Close(ctx context.Context) {
	if err := a.Service.Save(ctx); err != nil {
		a.log.WithError(err).Warn("failed to save final snapshot")
	}
	a.Service.Close()
	a.workers.Wait()
	a.log.Info("sale workers stopped")
	a.closeConnections()
}

func (a *App) closeConnections() {
	if a.rdb != nil {
		a.rdb.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}
