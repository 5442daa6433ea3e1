package services

import (
	"context"
	"fmt"
	"slices"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/renantorres0/smartcommerce/internal/domain"
	"github.com/renantorres0/smartcommerce/internal/lock"
	"github.com/renantorres0/smartcommerce/internal/repos"
	"github.com/renantorres0/smartcommerce/internal/validate"
)

const (
	StatusInStock    = "IN_STOCK"
	StatusLowStock   = "LOW_STOCK"
	StatusOutOfStock = "OUT_OF_STOCK"

	lowStockBelow = 5
)

// Availability converts qty to IN_STOCK / LOW_STOCK / OUT_OF_STOCK.
func (s *LedgerService) Availability(ctx context.Context, productID string) (domain.Availability, error) {
	qty, err := s.Inv.Qty(ctx, productID)
	if err != nil {
		return domain.Availability{}, err
	}
	return AvailabilityOf(qty), nil
}

// AvailabilityOf classifies a stock level.
func AvailabilityOf(qty int) domain.Availability {
	status := StatusOutOfStock
	switch {
	case qty >= lowStockBelow:
		status = StatusInStock
	case qty > 0:
		status = StatusLowStock
	}
	return domain.Availability{Status: status, Qty: max(qty, 0)}
}

// ApplyInventoryEdit overwrites a product's editable fields. A stock increase
// is journaled as a PURCHASE at the previous cost.
func (s *LedgerService) ApplyInventoryEdit(ctx context.Context, productID string, in domain.ProductInput) error {
	return s.ApplyInventoryEdits(ctx, []domain.InventoryEdit{{ProductID: productID, ProductInput: in}})
}

// ApplyInventoryEdits saves a batch of edits in one transaction. The first
// failing row aborts the batch and comes back as a *domain.LineError.
func (s *LedgerService) ApplyInventoryEdits(ctx context.Context, edits []domain.InventoryEdit) error {
	if len(edits) == 0 {
		return nil
	}
	edits = slices.Clone(edits)
	keys := make([]string, 0, len(edits))
	for i := range edits {
		e := &edits[i]
		id, ok := validate.ID(e.ProductID)
		if !ok {
			return lineErr(len(edits), i, fmt.Errorf("%w: invalid product id", domain.ErrConstraintViolation))
		}
		in, err := validate.ProductInput(e.ProductInput)
		if err != nil {
			return lineErr(len(edits), i, err)
		}
		e.ProductID, e.ProductInput = id, in
		keys = append(keys, lock.Key(id))
	}

	release, err := lock.AcquireAll(ctx, s.Locks, keys...)
	if err != nil {
		return err
	}
	defer release()

	return repos.InTx(ctx, s.DB, func(tx *sqlx.Tx) error {
		for i, e := range edits {
			if err := s.applyEditTx(ctx, tx, e); err != nil {
				return lineErr(len(edits), i, err)
			}
		}
		return nil
	})
}

// lineErr only tags errors with a row index when there is more than one row.
func lineErr(rows, i int, err error) error {
	if rows == 1 {
		return err
	}
	return &domain.LineError{Line: i, Err: err}
}

func (s *LedgerService) applyEditTx(ctx context.Context, tx *sqlx.Tx, e domain.InventoryEdit) error {
	products := s.Products.WithTx(tx)
	prev, err := products.Get(ctx, e.ProductID)
	if err != nil {
		return err
	}

	delta := e.Quantity - prev.Quantity
	switch {
	case delta > 0:
		if _, err := s.Movements.WithTx(tx).Append(ctx, e.ProductID, domain.MovementPurchase, delta, prev.CostPrice); err != nil {
			return err
		}
	case delta < 0 && s.FullJournal:
		if _, err := s.Movements.WithTx(tx).Append(ctx, e.ProductID, domain.MovementAdjustment, delta, prev.CostPrice); err != nil {
			return err
		}
	}
	return products.Update(ctx, e.ProductID, e.ProductInput)
}

// AppendMovement journals a movement for an existing product. It does not
// change stock.
func (s *LedgerService) AppendMovement(ctx context.Context, productID, kind string, qty int, unitCost decimal.Decimal) (domain.Movement, error) {
	t, err := domain.ParseMovementType(kind)
	if err != nil {
		return domain.Movement{}, err
	}
	if qty <= 0 {
		return domain.Movement{}, fmt.Errorf("%w: quantity must be positive", domain.ErrConstraintViolation)
	}
	if !validate.Money(unitCost) {
		return domain.Movement{}, fmt.Errorf("%w: unit cost must not be negative", domain.ErrConstraintViolation)
	}
	if _, err := s.Products.Get(ctx, productID); err != nil {
		return domain.Movement{}, err
	}
	return s.Movements.Append(ctx, productID, t, qty, unitCost)
}

// AuditStock compares stored stock with the signed movement journal.
func (s *LedgerService) AuditStock(ctx context.Context, productID string) (domain.StockAudit, error) {
	p, err := s.Products.Get(ctx, productID)
	if err != nil {
		return domain.StockAudit{}, err
	}
	total, err := s.Movements.SignedTotal(ctx, productID)
	if err != nil {
		return domain.StockAudit{}, err
	}
	return domain.StockAudit{
		ProductID:    productID,
		Quantity:     p.Quantity,
		JournalTotal: total,
		Consistent:   total == p.Quantity,
	}, nil
}

func (s *LedgerService) ListMovements(ctx context.Context, f repos.MovementFilter) ([]domain.Movement, error) {
	return s.Movements.List(ctx, f)
}
