package repos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/renantorres0/smartcommerce/internal/domain"
)

// InventoryRepo does stock arithmetic on product quantities. It never
// refuses a negative result on its own; callers decide.
type InventoryRepo struct{ db sqlx.ExtContext }

func NewInventoryRepo(db *sqlx.DB) *InventoryRepo { return &InventoryRepo{db: db} }

func (r *InventoryRepo) WithTx(tx *sqlx.Tx) *InventoryRepo { return &InventoryRepo{db: tx} }

// Qty returns current stock for a product.
func (r *InventoryRepo) Qty(ctx context.Context, productID string) (int, error) {
	var qty int
	err := sqlx.GetContext(ctx, r.db, &qty, r.db.Rebind(`SELECT quantity FROM products WHERE id = ?`), productID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("product %s: %w", productID, domain.ErrNotFound)
	}
	if err != nil {
		return 0, domain.Storage("read quantity", err)
	}
	return qty, nil
}

// AdjustQuantity adds delta (possibly negative) to the product's stock.
func (r *InventoryRepo) AdjustQuantity(ctx context.Context, productID string, delta int) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE products
		SET quantity = quantity + ?, updated_at = ?
		WHERE id = ?
	`), delta, time.Now().UTC(), productID)
	if err != nil {
		return domain.Storage("adjust quantity", err)
	}
	return expectOne(res, "product "+productID)
}

// DecrementIfAvailable subtracts "by" units only if enough stock exists, in one
// statement, so concurrent sellers cannot both pass the check.
// Returns ErrInsufficientStock when the guard rejects the update.
func (r *InventoryRepo) DecrementIfAvailable(ctx context.Context, productID string, by int) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE products
		SET quantity = quantity - ?, updated_at = ?
		WHERE id = ? AND quantity >= ?
	`), by, time.Now().UTC(), productID, by)
	if err != nil {
		return domain.Storage("decrement quantity", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.Storage("rows affected", err)
	}
	if n == 0 {
		return fmt.Errorf("product %s: %w", productID, domain.ErrInsufficientStock)
	}
	return nil
}
