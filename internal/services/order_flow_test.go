package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renantorres0/smartcommerce/internal/domain"
)

func TestCheckoutSellsEveryLine(t *testing.T) {
	ctx := context.Background()
	svc := newLedger(t, false)
	a := mustProduct(t, svc, 5, "1", "3")
	b := mustProduct(t, svc, 2, "4", "10")

	receipt, err := svc.Checkout(ctx, domain.DraftOrder{Lines: []domain.DraftLine{
		{ProductID: a.ID, Quantity: 2, TotalAmount: dec("6")},
		{ProductID: b.ID, Quantity: 2, TotalAmount: dec("20")},
	}})
	require.NoError(t, err)
	assert.Len(t, receipt.Sales, 2)
	assert.True(t, receipt.Total.Equal(dec("26")))
	assert.Equal(t, 3, qtyOf(t, svc, a.ID))
	assert.Equal(t, 0, qtyOf(t, svc, b.ID))
	assert.Equal(t, 2, salesCount(t, svc))
}

func TestCheckoutRollsBackOnShortLine(t *testing.T) {
	ctx := context.Background()
	svc := newLedger(t, false)
	a := mustProduct(t, svc, 5, "1", "3")
	b := mustProduct(t, svc, 1, "4", "10")

	_, err := svc.Checkout(ctx, domain.DraftOrder{Lines: []domain.DraftLine{
		{ProductID: a.ID, Quantity: 2, TotalAmount: dec("6")},
		{ProductID: b.ID, Quantity: 3, TotalAmount: dec("30")},
	}})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	var le *domain.LineError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, 1, le.Line)

	assert.Equal(t, 5, qtyOf(t, svc, a.ID))
	assert.Equal(t, 1, qtyOf(t, svc, b.ID))
	assert.Equal(t, 0, salesCount(t, svc))
}

func TestCheckoutSameProductTwice(t *testing.T) {
	ctx := context.Background()
	svc := newLedger(t, false)
	a := mustProduct(t, svc, 3, "1", "3")

	_, err := svc.Checkout(ctx, domain.DraftOrder{Lines: []domain.DraftLine{
		{ProductID: a.ID, Quantity: 2, TotalAmount: dec("6")},
		{ProductID: a.ID, Quantity: 2, TotalAmount: dec("6")},
	}})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 3, qtyOf(t, svc, a.ID))
}

func TestCheckoutRejectsEmptyAndInvalid(t *testing.T) {
	ctx := context.Background()
	svc := newLedger(t, false)

	_, err := svc.Checkout(ctx, domain.DraftOrder{})
	assert.ErrorIs(t, err, domain.ErrConstraintViolation)

	_, err = svc.Checkout(ctx, domain.DraftOrder{Lines: []domain.DraftLine{{ProductID: "p", Quantity: 0}}})
	assert.ErrorIs(t, err, domain.ErrConstraintViolation)
	var le *domain.LineError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, 0, le.Line)
}
