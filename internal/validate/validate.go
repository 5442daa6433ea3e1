package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/renantorres0/smartcommerce/internal/domain"
)

var reID = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ID validates a resource identifier (product and sale ids are uuids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Name validates a displayable product name with a reasonable max length.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len([]rune(s)) > 120 {
		return "", false
	}
	return s, true
}

// Brand is optional; only the length is checked.
func Brand(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, len([]rune(s)) <= 80
}

func Money(d decimal.Decimal) bool { return !d.IsNegative() }

// Limit parses a list page size, clamping to [1, 500] with 100 as default.
func Limit(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 100
	}
	if n > 500 {
		return 500
	}
	return n
}

// ProductInput normalizes the editable product fields and rejects values the
// catalog must never hold.
func ProductInput(in domain.ProductInput) (domain.ProductInput, error) {
	var ok bool
	if in.Name, ok = Name(in.Name); !ok {
		return in, violation("name is required")
	}
	if in.Brand, ok = Brand(in.Brand); !ok {
		return in, violation("brand too long")
	}
	if in.Quantity < 0 {
		return in, violation("quantity must not be negative")
	}
	if !Money(in.CostPrice) || !Money(in.SalePrice) {
		return in, violation("prices must not be negative")
	}
	return in, nil
}

// SaleLine checks the arguments shared by a sale and a checkout line.
func SaleLine(productID string, qty int, total decimal.Decimal) error {
	if _, ok := ID(productID); !ok {
		return violation("invalid product id")
	}
	if qty <= 0 {
		return violation("quantity must be positive")
	}
	if !Money(total) {
		return violation("total must not be negative")
	}
	return nil
}

func violation(msg string) error {
	return fmt.Errorf("%w: %s", domain.ErrConstraintViolation, msg)
}
