package services

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/renantorres0/smartcommerce/internal/domain"
	"github.com/renantorres0/smartcommerce/internal/lock"
	"github.com/renantorres0/smartcommerce/internal/repos"
	"github.com/renantorres0/smartcommerce/internal/validate"
)

// LedgerService runs every stock-changing operation: one lock, one transaction.
type LedgerService struct {
	DB        *sqlx.DB
	Products  *repos.ProductRepo
	Inv       *repos.InventoryRepo
	Sales     *repos.SaleRepo
	Movements *repos.MovementRepo
	Locks     lock.Locker

	// FullJournal also writes SALE, REVERSAL and negative ADJUSTMENT movements.
	FullJournal bool
}

func NewLedgerService(db *sqlx.DB, locks lock.Locker, fullJournal bool) *LedgerService {
	if locks == nil {
		locks = lock.NewLocal()
	}
	return &LedgerService{
		DB:          db,
		Products:    repos.NewProductRepo(db),
		Inv:         repos.NewInventoryRepo(db),
		Sales:       repos.NewSaleRepo(db),
		Movements:   repos.NewMovementRepo(db),
		Locks:       locks,
		FullJournal: fullJournal,
	}
}

// Sell records a sale and takes its units out of stock.
func (s *LedgerService) Sell(ctx context.Context, productID string, qty int, total decimal.Decimal) (domain.Sale, error) {
	if err := validate.SaleLine(productID, qty, total); err != nil {
		return domain.Sale{}, err
	}
	release, err := s.Locks.Acquire(ctx, lock.Key(productID))
	if err != nil {
		return domain.Sale{}, err
	}
	defer release()

	var sale domain.Sale
	err = repos.InTx(ctx, s.DB, func(tx *sqlx.Tx) error {
		sale, err = s.sellTx(ctx, tx, productID, qty, total)
		return err
	})
	if err != nil {
		return domain.Sale{}, err
	}
	return sale, nil
}

func (s *LedgerService) sellTx(ctx context.Context, tx *sqlx.Tx, productID string, qty int, total decimal.Decimal) (domain.Sale, error) {
	inv := s.Inv.WithTx(tx)
	have, err := inv.Qty(ctx, productID)
	if err != nil {
		return domain.Sale{}, err
	}
	if have < qty {
		return domain.Sale{}, fmt.Errorf("product %s: have %d, want %d: %w", productID, have, qty, domain.ErrInsufficientStock)
	}
	if err := inv.DecrementIfAvailable(ctx, productID, qty); err != nil {
		return domain.Sale{}, err
	}

	sale := domain.Sale{ProductID: productID, Quantity: qty, TotalAmount: total}
	if err := s.Sales.WithTx(tx).Record(ctx, &sale); err != nil {
		return domain.Sale{}, err
	}

	if s.FullJournal {
		if err := s.journalAtCost(ctx, tx, productID, domain.MovementSale, qty); err != nil {
			return domain.Sale{}, err
		}
	}
	return sale, nil
}

// ReverseSale deletes a sale and puts its units back in stock. The sale must
// exist and match the given product and quantity.
func (s *LedgerService) ReverseSale(ctx context.Context, saleID, productID string, qty int) error {
	if _, ok := validate.ID(saleID); !ok {
		return fmt.Errorf("%w: invalid sale id", domain.ErrConstraintViolation)
	}
	if err := validate.SaleLine(productID, qty, decimal.Zero); err != nil {
		return err
	}
	release, err := s.Locks.Acquire(ctx, lock.Key(productID))
	if err != nil {
		return err
	}
	defer release()

	return repos.InTx(ctx, s.DB, func(tx *sqlx.Tx) error {
		sales := s.Sales.WithTx(tx)
		sale, err := sales.Get(ctx, saleID)
		if err != nil {
			return err
		}
		if sale.ProductID != productID || sale.Quantity != qty {
			return fmt.Errorf("%w: sale %s is %d x %s", domain.ErrConstraintViolation, saleID, sale.Quantity, sale.ProductID)
		}
		if err := s.Inv.WithTx(tx).AdjustQuantity(ctx, productID, qty); err != nil {
			return err
		}
		if err := sales.Delete(ctx, saleID); err != nil {
			return err
		}
		if s.FullJournal {
			return s.journalAtCost(ctx, tx, productID, domain.MovementReversal, qty)
		}
		return nil
	})
}

func (s *LedgerService) ListSales(ctx context.Context, limit int) ([]domain.SaleView, error) {
	return s.Sales.List(ctx, limit)
}

// journalAtCost appends a movement valued at the product's current cost price.
func (s *LedgerService) journalAtCost(ctx context.Context, tx *sqlx.Tx, productID string, t domain.MovementType, qty int) error {
	p, err := s.Products.WithTx(tx).Get(ctx, productID)
	if err != nil {
		return err
	}
	_, err = s.Movements.WithTx(tx).Append(ctx, productID, t, qty, p.CostPrice)
	return err
}
