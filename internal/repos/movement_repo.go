package repos

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/renantorres0/smartcommerce/internal/domain"
)

// MovementRepo is the append-only movement journal. Entries are never
// updated or deleted, and product_id is not checked here.
type MovementRepo struct{ db sqlx.ExtContext }

func NewMovementRepo(db *sqlx.DB) *MovementRepo { return &MovementRepo{db: db} }

func (r *MovementRepo) WithTx(tx *sqlx.Tx) *MovementRepo { return &MovementRepo{db: tx} }

func (r *MovementRepo) Append(ctx context.Context, productID string, t domain.MovementType, qty int, unitCost decimal.Decimal) (domain.Movement, error) {
	m := domain.Movement{
		ID:        uuid.NewString(),
		ProductID: productID,
		Type:      t,
		Quantity:  qty,
		UnitCost:  unitCost,
		CreatedAt: time.Now().UTC(),
	}
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
	  INSERT INTO movements(id, product_id, type, quantity, unit_cost, created_at)
	  VALUES (?, ?, ?, ?, ?, ?)
	`), m.ID, m.ProductID, string(m.Type), m.Quantity, m.UnitCost, m.CreatedAt)
	if err != nil {
		return domain.Movement{}, domain.Storage("insert movement", err)
	}
	return m, nil
}

type MovementFilter struct {
	ProductID string
	Type      domain.MovementType
	Limit     int
}

// List returns journal entries newest first.
func (r *MovementRepo) List(ctx context.Context, f MovementFilter) ([]domain.Movement, error) {
	var (
		where []string
		args  []any
	)
	if f.ProductID != "" {
		where = append(where, "product_id = ?")
		args = append(args, f.ProductID)
	}
	if f.Type != "" {
		where = append(where, "type = ?")
		args = append(args, string(f.Type))
	}
	q := `SELECT id, product_id, type, quantity, unit_cost, created_at FROM movements`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY created_at DESC, id"
	if f.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, f.Limit)
	}

	out := []domain.Movement{}
	if err := sqlx.SelectContext(ctx, r.db, &out, r.db.Rebind(q), args...); err != nil {
		return nil, domain.Storage("list movements", err)
	}
	return out, nil
}

// SignedTotal sums the journal for one product, each entry signed by
// MovementType.Signed.
func (r *MovementRepo) SignedTotal(ctx context.Context, productID string) (int, error) {
	var rows []struct {
		Type     domain.MovementType `db:"type"`
		Quantity int                 `db:"quantity"`
	}
	err := sqlx.SelectContext(ctx, r.db, &rows, r.db.Rebind(`
	  SELECT type, quantity
	  FROM movements
	  WHERE product_id = ?
	`), productID)
	if err != nil {
		return 0, domain.Storage("sum movements", err)
	}
	total := 0
	for _, row := range rows {
		total += row.Type.Signed(row.Quantity)
	}
	return total, nil
}
