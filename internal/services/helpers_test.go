package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/renantorres0/smartcommerce/internal/domain"
	"github.com/renantorres0/smartcommerce/internal/lock"
	"github.com/renantorres0/smartcommerce/internal/repos"
	"github.com/renantorres0/smartcommerce/internal/services"
)

func newLedger(t *testing.T, fullJournal bool) *services.LedgerService {
	t.Helper()
	db, err := repos.OpenDB(repos.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return services.NewLedgerService(db, lock.NewLocal(), fullJournal)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// mustProduct creates a product the way the catalog screen does: opening
// stock becomes a PURCHASE.
func mustProduct(t *testing.T, svc *services.LedgerService, qty int, cost, price string) domain.Product {
	t.Helper()
	p, err := svc.CreateProduct(context.Background(), domain.ProductInput{
		Name: "Fone de Ouvido", Brand: "JBL", Quantity: qty,
		CostPrice: dec(cost), SalePrice: dec(price),
	})
	require.NoError(t, err)
	return p
}

func qtyOf(t *testing.T, svc *services.LedgerService, id string) int {
	t.Helper()
	p, err := svc.GetProduct(context.Background(), id)
	require.NoError(t, err)
	return p.Quantity
}

func salesCount(t *testing.T, svc *services.LedgerService) int {
	t.Helper()
	sales, err := svc.ListSales(context.Background(), 0)
	require.NoError(t, err)
	return len(sales)
}

func movementsOf(t *testing.T, svc *services.LedgerService, id string) []domain.Movement {
	t.Helper()
	mv, err := svc.ListMovements(context.Background(), repos.MovementFilter{ProductID: id})
	require.NoError(t, err)
	return mv
}
