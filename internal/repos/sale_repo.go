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

// SaleRepo is the sales ledger. A row exists exactly while the sale is in effect.
type SaleRepo struct{ db sqlx.ExtContext }

func NewSaleRepo(db *sqlx.DB) *SaleRepo { return &SaleRepo{db: db} }

func (r *SaleRepo) WithTx(tx *sqlx.Tx) *SaleRepo { return &SaleRepo{db: tx} }

// Record inserts s, filling in its id and timestamp.
func (r *SaleRepo) Record(ctx context.Context, s *domain.Sale) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	s.CreatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
	  INSERT INTO sales(id, product_id, quantity, total_amount, created_at)
	  VALUES (?, ?, ?, ?, ?)
	`), s.ID, s.ProductID, s.Quantity, s.TotalAmount, s.CreatedAt)
	return domain.Storage("insert sale", err)
}

func (r *SaleRepo) Get(ctx context.Context, id string) (domain.Sale, error) {
	var s domain.Sale
	err := sqlx.GetContext(ctx, r.db, &s, r.db.Rebind(`
	  SELECT id, product_id, quantity, total_amount, created_at
	  FROM sales
	  WHERE id = ?
	`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Sale{}, fmt.Errorf("sale %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Sale{}, domain.Storage("get sale", err)
	}
	return s, nil
}

// List returns the newest sales first, joined with their product for display.
func (r *SaleRepo) List(ctx context.Context, limit int) ([]domain.SaleView, error) {
	if limit <= 0 {
		limit = 100
	}
	out := []domain.SaleView{}
	err := sqlx.SelectContext(ctx, r.db, &out, r.db.Rebind(`
	  SELECT s.id, s.product_id, s.quantity, s.total_amount, s.created_at,
	         p.name AS product_name, COALESCE(p.brand,'') AS product_brand
	  FROM sales s
	  JOIN products p ON p.id = s.product_id
	  ORDER BY s.created_at DESC, s.id
	  LIMIT ?
	`), limit)
	if err != nil {
		return nil, domain.Storage("list sales", err)
	}
	return out, nil
}

// Delete removes one sale row. Zero rows deleted is ErrNotFound.
func (r *SaleRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM sales WHERE id = ?`), id)
	if err != nil {
		return domain.Storage("delete sale", err)
	}
	return expectOne(res, "sale "+id)
}
