package repos

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renantorres0/smartcommerce/internal/domain"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := OpenDB(DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seedProduct(t *testing.T, db *sqlx.DB, name string, qty int) domain.Product {
	t.Helper()
	p := domain.Product{
		Name:      name,
		Brand:     "Acme",
		Quantity:  qty,
		CostPrice: decimal.RequireFromString("4.00"),
		SalePrice: decimal.RequireFromString("9.50"),
	}
	require.NoError(t, NewProductRepo(db).Create(context.Background(), &p))
	return p
}

func TestOpenDBRejectsUnknownDriver(t *testing.T) {
	_, err := OpenDB("oracle", "whatever")
	assert.Error(t, err)
}

func TestProductCreateGetUpdate(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewProductRepo(db)

	p := seedProduct(t, db, "Caneca", 3)
	require.NotEmpty(t, p.ID)

	got, err := repo.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Caneca", got.Name)
	assert.Equal(t, 3, got.Quantity)
	assert.True(t, got.SalePrice.Equal(decimal.RequireFromString("9.5")))

	err = repo.Update(ctx, p.ID, domain.ProductInput{
		Name: "Caneca Grande", Quantity: 7,
		CostPrice: decimal.RequireFromString("5"), SalePrice: decimal.RequireFromString("12.25"),
	})
	require.NoError(t, err)

	got, err = repo.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Caneca Grande", got.Name)
	assert.Equal(t, "", got.Brand)
	assert.Equal(t, 7, got.Quantity)

	_, err = repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	err = repo.Update(ctx, "missing", domain.ProductInput{Name: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductListOrderedByName(t *testing.T) {
	db := newTestDB(t)
	seedProduct(t, db, "Zebra", 1)
	seedProduct(t, db, "Abacaxi", 1)

	list, err := NewProductRepo(db).List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Abacaxi", list[0].Name)
}

func TestInventoryAdjustAndGuardedDecrement(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	inv := NewInventoryRepo(db)
	p := seedProduct(t, db, "Lápis", 5)

	require.NoError(t, inv.AdjustQuantity(ctx, p.ID, -7))
	qty, err := inv.Qty(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, -2, qty, "adjust does not clamp")

	require.NoError(t, inv.AdjustQuantity(ctx, p.ID, 4))
	err = inv.DecrementIfAvailable(ctx, p.ID, 3)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	require.NoError(t, inv.DecrementIfAvailable(ctx, p.ID, 2))
	qty, _ = inv.Qty(ctx, p.ID)
	assert.Equal(t, 0, qty)

	assert.ErrorIs(t, inv.AdjustQuantity(ctx, "missing", 1), domain.ErrNotFound)
	_, err = inv.Qty(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSaleRecordListDelete(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	sales := NewSaleRepo(db)
	p := seedProduct(t, db, "Régua", 10)

	s := domain.Sale{ProductID: p.ID, Quantity: 2, TotalAmount: decimal.RequireFromString("19.00")}
	require.NoError(t, sales.Record(ctx, &s))
	require.NotEmpty(t, s.ID)

	got, err := sales.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Quantity)
	assert.True(t, got.TotalAmount.Equal(decimal.RequireFromString("19")))

	views, err := sales.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Régua", views[0].ProductName)
	assert.Equal(t, "Acme", views[0].ProductBrand)

	require.NoError(t, sales.Delete(ctx, s.ID))
	assert.ErrorIs(t, sales.Delete(ctx, s.ID), domain.ErrNotFound)
	_, err = sales.Get(ctx, s.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSaleRequiresExistingProduct(t *testing.T) {
	db := newTestDB(t)
	s := domain.Sale{ProductID: "ghost", Quantity: 1, TotalAmount: decimal.Zero}
	err := NewSaleRepo(db).Record(context.Background(), &s)
	assert.ErrorIs(t, err, domain.ErrStorageFailure)
}

func TestMovementJournal(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	mv := NewMovementRepo(db)

	_, err := mv.Append(ctx, "p1", domain.MovementPurchase, 10, decimal.RequireFromString("2.5"))
	require.NoError(t, err)
	_, err = mv.Append(ctx, "p1", domain.MovementSale, 3, decimal.Zero)
	require.NoError(t, err)
	_, err = mv.Append(ctx, "p1", domain.MovementAdjustment, -2, decimal.Zero)
	require.NoError(t, err)
	_, err = mv.Append(ctx, "p1", domain.MovementReversal, 1, decimal.Zero)
	require.NoError(t, err)
	_, err = mv.Append(ctx, "p2", domain.MovementPurchase, 1, decimal.Zero)
	require.NoError(t, err)

	all, err := mv.List(ctx, MovementFilter{ProductID: "p1"})
	require.NoError(t, err)
	assert.Len(t, all, 4)

	purchases, err := mv.List(ctx, MovementFilter{Type: domain.MovementPurchase})
	require.NoError(t, err)
	assert.Len(t, purchases, 2)

	limited, err := mv.List(ctx, MovementFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	total, err := mv.SignedTotal(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 6, total, "10 - 3 - 2 + 1")

	total, err = mv.SignedTotal(ctx, "nobody")
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}

func TestInTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	p := seedProduct(t, db, "Borracha", 4)

	err := InTx(ctx, db, func(tx *sqlx.Tx) error {
		if err := NewInventoryRepo(db).WithTx(tx).AdjustQuantity(ctx, p.ID, -4); err != nil {
			return err
		}
		return domain.ErrConstraintViolation
	})
	assert.ErrorIs(t, err, domain.ErrConstraintViolation)

	qty, err := NewInventoryRepo(db).Qty(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, qty)
}

func TestSeedDemoOnlyOnEmptyCatalog(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	require.NoError(t, SeedDemo(ctx, db))
	require.NoError(t, SeedDemo(ctx, db))

	list, err := NewProductRepo(db).List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 3)

	for _, p := range list {
		total, err := NewMovementRepo(db).SignedTotal(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, p.Quantity, total, p.Name)
	}
}
