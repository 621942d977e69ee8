package storage

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/vending/internal/core/domain"
)

func getMySQLDB(t *testing.T) *sql.DB {
	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		dsn = "root:root@tcp(localhost:3306)/vending"
	}
	dsn, err := MySQLDSN(dsn)
	if err != nil {
		t.Fatalf("bad MYSQL_DSN: %v", err)
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Skipf("MySQL not available: %v", err)
	}

	return db
}

func TestMySQLAdapter_CreateAndListSales(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	adapter := NewMySQLAdapter(db)
	require.NoError(t, adapter.Migrate(ctx))

	machineID := "test-" + uuid.NewString()[:8]
	defer db.ExecContext(ctx, `DELETE FROM sales WHERE machine_id = ?`, machineID)

	older := domain.Sale{
		ID:        uuid.NewString(),
		MachineID: machineID,
		Item:      "chips",
		UnitPrice: decimal.RequireFromString("1.50"),
		Requested: 3,
		Bought:    2,
		TotalCost: decimal.RequireFromString("3.00"),
		CreatedAt: time.Now().UTC().Add(-time.Minute).Truncate(time.Microsecond),
	}
	newer := older
	newer.ID = uuid.NewString()
	newer.Item = "soda"
	newer.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)

	require.NoError(t, adapter.CreateSale(ctx, older))
	require.NoError(t, adapter.CreateSale(ctx, newer))

	sales, err := adapter.ListSales(ctx, machineID, 10)
	require.NoError(t, err)
	require.Len(t, sales, 2)
	assert.Equal(t, "soda", sales[0].Item)
	assert.Equal(t, "chips", sales[1].Item)
	assert.True(t, sales[1].TotalCost.Equal(older.TotalCost))
	assert.Equal(t, 2, sales[1].Bought)

	all, err := adapter.ListSales(ctx, machineID, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	latest, err := adapter.ListSales(ctx, machineID, 1)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, "soda", latest[0].Item)
}

func TestMySQLDSN(t *testing.T) {
	dsn, err := MySQLDSN("vending:secret@tcp(db:3306)/vending?charset=utf8mb4")
	require.NoError(t, err)

	cfg, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.True(t, cfg.ParseTime)
	assert.Equal(t, "db:3306", cfg.Addr)
	assert.Equal(t, "vending", cfg.DBName)
	assert.Equal(t, "secret", cfg.Passwd)

	_, err = MySQLDSN("not a dsn")
	assert.Error(t, err)
}

func TestMySQLAdapter_DuplicateSale(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	adapter := NewMySQLAdapter(db)
	require.NoError(t, adapter.Migrate(ctx))

	sale := domain.Sale{
		ID:        uuid.NewString(),
		MachineID: "test-dup",
		Item:      "water",
		UnitPrice: decimal.RequireFromString("1.00"),
		Requested: 1,
		Bought:    1,
		TotalCost: decimal.RequireFromString("1.00"),
		CreatedAt: time.Now().UTC(),
	}
	defer db.ExecContext(ctx, `DELETE FROM sales WHERE id = ?`, sale.ID)

	require.NoError(t, adapter.CreateSale(ctx, sale))
	assert.Error(t, adapter.CreateSale(ctx, sale))
}
