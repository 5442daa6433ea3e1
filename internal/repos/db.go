package repos

import (
	"context"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/renantorres0/smartcommerce/internal/domain"
	applog "github.com/renantorres0/smartcommerce/internal/log"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// OpenDB connects to the configured store and makes sure the ledger tables exist.
func OpenDB(driver, dsn string) (*sqlx.DB, error) {
	schema, ok := schemas[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
	if driver == DriverMySQL {
		var err error
		if dsn, err = mysqlDSN(dsn); err != nil {
			return nil, err
		}
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	switch driver {
	case DriverSQLite:
		// One connection: keeps :memory: databases alive and serializes writers.
		db.SetMaxOpenConns(1)
		db.SetConnMaxLifetime(0)
	default:
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}
	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := ensureSchema(db, schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// mysqlDSN turns on the options the ledger relies on: DATETIME scanning into
// time.Time and RowsAffected counting matched rather than changed rows.
func mysqlDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", err
	}
	cfg.ParseTime = true
	cfg.ClientFoundRows = true
	cfg.Loc = time.UTC
	return cfg.FormatDSN(), nil
}

func ensureSchema(db *sqlx.DB, stmts []string) error {
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("schema: %w", err)
		}
	}
	return nil
}

var schemas = map[string][]string{
	DriverSQLite: {
		`PRAGMA foreign_keys = ON`,
		`CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  brand TEXT,
  quantity INTEGER NOT NULL,
  cost_price NUMERIC NOT NULL CHECK (cost_price >= 0),
  sale_price NUMERIC NOT NULL CHECK (sale_price >= 0),
  created_at DATETIME NOT NULL,
  updated_at DATETIME NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS idx_products_name ON products(LOWER(name))`,
		`CREATE TABLE IF NOT EXISTS sales(
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE RESTRICT,
  quantity INTEGER NOT NULL CHECK (quantity > 0),
  total_amount NUMERIC NOT NULL,
  created_at DATETIME NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS idx_sales_product    ON sales(product_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sales_created_at ON sales(created_at)`,
		// product_id is deliberately not a foreign key: movements may dangle.
		`CREATE TABLE IF NOT EXISTS movements(
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  type TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  unit_cost NUMERIC NOT NULL,
  created_at DATETIME NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS idx_movements_product ON movements(product_id)`,
	},
	DriverPostgres: {
		`CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  brand TEXT,
  quantity INTEGER NOT NULL,
  cost_price NUMERIC NOT NULL CHECK (cost_price >= 0),
  sale_price NUMERIC NOT NULL CHECK (sale_price >= 0),
  created_at TIMESTAMPTZ NOT NULL,
  updated_at TIMESTAMPTZ NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS idx_products_name ON products(LOWER(name))`,
		`CREATE TABLE IF NOT EXISTS sales(
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE RESTRICT,
  quantity INTEGER NOT NULL CHECK (quantity > 0),
  total_amount NUMERIC NOT NULL,
  created_at TIMESTAMPTZ NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS idx_sales_product    ON sales(product_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sales_created_at ON sales(created_at)`,
		`CREATE TABLE IF NOT EXISTS movements(
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  type TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  unit_cost NUMERIC NOT NULL,
  created_at TIMESTAMPTZ NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS idx_movements_product ON movements(product_id)`,
	},
	DriverMySQL: {
		`CREATE TABLE IF NOT EXISTS products(
  id VARCHAR(36) PRIMARY KEY,
  name VARCHAR(255) NOT NULL,
  brand VARCHAR(255),
  quantity INT NOT NULL,
  cost_price DECIMAL(14,4) NOT NULL CHECK (cost_price >= 0),
  sale_price DECIMAL(14,4) NOT NULL CHECK (sale_price >= 0),
  created_at DATETIME(6) NOT NULL,
  updated_at DATETIME(6) NOT NULL,
  INDEX idx_products_name (name)
)`,
		`CREATE TABLE IF NOT EXISTS sales(
  id VARCHAR(36) PRIMARY KEY,
  product_id VARCHAR(36) NOT NULL,
  quantity INT NOT NULL CHECK (quantity > 0),
  total_amount DECIMAL(14,4) NOT NULL,
  created_at DATETIME(6) NOT NULL,
  INDEX idx_sales_product (product_id),
  INDEX idx_sales_created_at (created_at),
  FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE RESTRICT
)`,
		`CREATE TABLE IF NOT EXISTS movements(
  id VARCHAR(36) PRIMARY KEY,
  product_id VARCHAR(36) NOT NULL,
  type VARCHAR(32) NOT NULL,
  quantity INT NOT NULL,
  unit_cost DECIMAL(14,4) NOT NULL,
  created_at DATETIME(6) NOT NULL,
  INDEX idx_movements_product (product_id)
)`,
	},
}

// SeedDemo inserts a few products, with their opening PURCHASE movements, into an empty catalog.
// Safe to run on every startup.
func SeedDemo(ctx context.Context, db *sqlx.DB) error {
	var n int
	if err := db.GetContext(ctx, &n, `SELECT COUNT(*) FROM products`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	applog.Info(nil, "seed.demo", map[string]any{"products": 3})

	demo := []domain.Product{
		{Name: "Camiseta Básica", Brand: "Hering", Quantity: 20, CostPrice: decimal.RequireFromString("18.00"), SalePrice: decimal.RequireFromString("39.90")},
		{Name: "Tênis Corrida", Brand: "Olympikus", Quantity: 6, CostPrice: decimal.RequireFromString("120.00"), SalePrice: decimal.RequireFromString("249.90")},
		{Name: "Boné", Brand: "", Quantity: 2, CostPrice: decimal.RequireFromString("15.00"), SalePrice: decimal.RequireFromString("35.00")},
	}
	return InTx(ctx, db, func(tx *sqlx.Tx) error {
		products := NewProductRepo(db).WithTx(tx)
		movements := NewMovementRepo(db).WithTx(tx)
		for i := range demo {
			p := &demo[i]
			if err := products.Create(ctx, p); err != nil {
				return err
			}
			if _, err := movements.Append(ctx, p.ID, domain.MovementPurchase, p.Quantity, p.CostPrice); err != nil {
				return err
			}
		}
		return nil
	})
}
