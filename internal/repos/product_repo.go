package repos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/renantorres0/smartcommerce/internal/domain"
)

// ProductRepo is the catalog half of the Catalog Store: product records and their
// editable fields. Stock arithmetic lives on InventoryRepo.
type ProductRepo struct{ db sqlx.ExtContext }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

// WithTx binds the repo to an open transaction.
func (r *ProductRepo) WithTx(tx *sqlx.Tx) *ProductRepo { return &ProductRepo{db: tx} }

const productColumns = `
    id, name, COALESCE(brand,'') AS brand, quantity, cost_price, sale_price,
    created_at, updated_at`

// Create inserts p, filling in its id and timestamps.
func (r *ProductRepo) Create(ctx context.Context, p *domain.Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now

	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
	  INSERT INTO products(id, name, brand, quantity, cost_price, sale_price, created_at, updated_at)
	  VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`), p.ID, p.Name, p.Brand, p.Quantity, p.CostPrice, p.SalePrice, p.CreatedAt, p.UpdatedAt)
	return domain.Storage("insert product", err)
}

func (r *ProductRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	var p domain.Product
	err := sqlx.GetContext(ctx, r.db, &p, r.db.Rebind(`
	  SELECT`+productColumns+`
	  FROM products
	  WHERE id = ?
	`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Product{}, domain.Storage("get product", err)
	}
	return p, nil
}

func (r *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	out := []domain.Product{}
	err := sqlx.SelectContext(ctx, r.db, &out, `
	  SELECT`+productColumns+`
	  FROM products
	  ORDER BY name, created_at
	`)
	if err != nil {
		return nil, domain.Storage("list products", err)
	}
	return out, nil
}

// Update overwrites every editable field of the product.
func (r *ProductRepo) Update(ctx context.Context, id string, in domain.ProductInput) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
	  UPDATE products
	  SET name = ?, brand = ?, quantity = ?, cost_price = ?, sale_price = ?, updated_at = ?
	  WHERE id = ?
	`), in.Name, in.Brand, in.Quantity, in.CostPrice, in.SalePrice, time.Now().UTC(), id)
	if err != nil {
		return domain.Storage("update product", err)
	}
	return expectOne(res, "product "+id)
}

// expectOne turns a zero-row write into ErrNotFound.
func expectOne(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return domain.Storage("rows affected", err)
	}
	if n != 1 {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	return nil
}
