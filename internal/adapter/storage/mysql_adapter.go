package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"

	"github.com/rl1809/vending/internal/core/domain"
)

const createSalesTable = `
CREATE TABLE IF NOT EXISTS sales (
	id          CHAR(36)       NOT NULL PRIMARY KEY,
	machine_id  VARCHAR(64)    NOT NULL,
	item        VARCHAR(255)   NOT NULL,
	unit_price  DECIMAL(12, 4) NOT NULL,
	requested   INT            NOT NULL,
	bought      INT            NOT NULL,
	total_cost  DECIMAL(12, 2) NOT NULL,
	created_at  DATETIME(6)    NOT NULL,
	INDEX idx_sales_machine_created (machine_id, created_at)
)`

// MySQLDSN returns dsn with parseTime enabled so created_at scans into time.Time.
func MySQLDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}

type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

// Migrate creates the sales table when it does not exist.
func (m *MySQLAdapter) Migrate(ctx context.Context) error {
	if _, err := m.db.ExecContext(ctx, createSalesTable); err != nil {
		return fmt.Errorf("create sales table: %w", err)
	}
	return nil
}

func (m *MySQLAdapter) CreateSale(ctx context.Context, sale domain.Sale) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO sales (id, machine_id, item, unit_price, requested, bought, total_cost, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sale.ID, sale.MachineID, sale.Item, sale.UnitPrice.String(), sale.Requested, sale.Bought,
		sale.TotalCost.StringFixed(2), sale.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// ListSales returns the newest sales first. A limit of zero or less returns all of them.
func (m *MySQLAdapter) ListSales(ctx context.Context, machineID string, limit int) ([]domain.Sale, error) {
	query := `
		SELECT id, machine_id, item, unit_price, requested, bought, total_cost, created_at
		FROM sales WHERE machine_id = ?
		ORDER BY created_at DESC`
	args := []any{machineID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sales: %w", err)
	}
	defer rows.Close()

	var sales []domain.Sale
	for rows.Next() {
		var (
			s                    domain.Sale
			unitPrice, totalCost string
		)
		if err := rows.Scan(&s.ID, &s.MachineID, &s.Item, &unitPrice, &s.Requested, &s.Bought,
			&totalCost, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		if s.UnitPrice, err = decimal.NewFromString(unitPrice); err != nil {
			return nil, fmt.Errorf("parse unit price: %w", err)
		}
		if s.TotalCost, err = decimal.NewFromString(totalCost); err != nil {
			return nil, fmt.Errorf("parse total cost: %w", err)
		}
		sales = append(sales, s)
	}
	return sales, rows.Err()
}
