package services

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/renantorres0/smartcommerce/internal/domain"
	"github.com/renantorres0/smartcommerce/internal/lock"
	"github.com/renantorres0/smartcommerce/internal/repos"
	"github.com/renantorres0/smartcommerce/internal/validate"
)

// Checkout sells every line of the draft in one transaction. A failing line
// aborts the whole order and is reported as a *domain.LineError.
func (s *LedgerService) Checkout(ctx context.Context, draft domain.DraftOrder) (domain.Receipt, error) {
	if len(draft.Lines) == 0 {
		return domain.Receipt{}, fmt.Errorf("%w: empty order", domain.ErrConstraintViolation)
	}
	keys := make([]string, 0, len(draft.Lines))
	for i, l := range draft.Lines {
		if err := validate.SaleLine(l.ProductID, l.Quantity, l.TotalAmount); err != nil {
			return domain.Receipt{}, &domain.LineError{Line: i, Err: err}
		}
		keys = append(keys, lock.Key(l.ProductID))
	}

	release, err := lock.AcquireAll(ctx, s.Locks, keys...)
	if err != nil {
		return domain.Receipt{}, err
	}
	defer release()

	receipt := domain.Receipt{Sales: make([]domain.Sale, 0, len(draft.Lines)), Total: draft.Total()}
	err = repos.InTx(ctx, s.DB, func(tx *sqlx.Tx) error {
		for i, l := range draft.Lines {
			sale, err := s.sellTx(ctx, tx, l.ProductID, l.Quantity, l.TotalAmount)
			if err != nil {
				return &domain.LineError{Line: i, Err: err}
			}
			receipt.Sales = append(receipt.Sales, sale)
		}
		return nil
	})
	if err != nil {
		return domain.Receipt{}, err
	}
	return receipt, nil
}
