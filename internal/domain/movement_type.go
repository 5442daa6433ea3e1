package domain

import (
	"fmt"
	"strings"
)

// MovementType tags a Movement Log entry. Stored as free text so new
// variants need no schema change.
type MovementType string

const (
	MovementPurchase   MovementType = "PURCHASE"
	MovementSale       MovementType = "SALE"
	MovementAdjustment MovementType = "ADJUSTMENT"
	MovementReversal   MovementType = "REVERSAL"
)

var movementTypes = []MovementType{MovementPurchase, MovementSale, MovementAdjustment, MovementReversal}

func ParseMovementType(s string) (MovementType, error) {
	t := MovementType(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range movementTypes {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: unknown movement type %q", ErrConstraintViolation, s)
}

// Signed returns the stock effect of qty units of this movement type.
// ADJUSTMENT quantities are already signed.
func (t MovementType) Signed(qty int) int {
	switch t {
	case MovementSale:
		return -qty
	default:
		return qty
	}
}
