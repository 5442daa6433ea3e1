package services

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/renantorres0/smartcommerce/internal/domain"
	"github.com/renantorres0/smartcommerce/internal/repos"
	"github.com/renantorres0/smartcommerce/internal/validate"
)

func (s *LedgerService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.Products.List(ctx)
}

func (s *LedgerService) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	return s.Products.Get(ctx, id)
}

// CreateProduct adds a product; opening stock is journaled as a PURCHASE at the entered cost.
func (s *LedgerService) CreateProduct(ctx context.Context, in domain.ProductInput) (domain.Product, error) {
	in, err := validate.ProductInput(in)
	if err != nil {
		return domain.Product{}, err
	}
	p := domain.Product{
		Name:      in.Name,
		Brand:     in.Brand,
		Quantity:  in.Quantity,
		CostPrice: in.CostPrice,
		SalePrice: in.SalePrice,
	}
	err = repos.InTx(ctx, s.DB, func(tx *sqlx.Tx) error {
		if err := s.Products.WithTx(tx).Create(ctx, &p); err != nil {
			return err
		}
		if p.Quantity > 0 {
			_, err := s.Movements.WithTx(tx).Append(ctx, p.ID, domain.MovementPurchase, p.Quantity, p.CostPrice)
			return err
		}
		return nil
	})
	if err != nil {
		return domain.Product{}, err
	}
	return p, nil
}
