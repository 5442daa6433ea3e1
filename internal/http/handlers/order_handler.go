package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/renantorres0/smartcommerce/internal/domain"
	applog "github.com/renantorres0/smartcommerce/internal/log"
	"github.com/renantorres0/smartcommerce/internal/messages"
	"github.com/renantorres0/smartcommerce/internal/services"
)

// OrderHandler takes a caller-owned draft order and sells it in one go.
type OrderHandler struct {
	Ledger *services.LedgerService
	Msg    *messages.Translator
}

// POST /api/v1/checkout
func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	var draft domain.DraftOrder
	if err := c.BodyParser(&draft); err != nil {
		return badBody(c, h.Msg, "checkout", err)
	}
	fields := map[string]any{"lines": len(draft.Lines), "total": draft.Total().String()}
	receipt, err := h.Ledger.Checkout(c.UserContext(), draft)
	if err != nil {
		return fail(c, h.Msg, "checkout", err, fields)
	}
	ids := make([]string, 0, len(receipt.Sales))
	for _, s := range receipt.Sales {
		ids = append(ids, s.ID)
	}
	fields["sale_ids"] = ids
	applog.Audit(c, "checkout", fields)
	return reply(c, fiber.StatusCreated, h.Msg.OK(lang(c), messages.CheckoutDone, nil, receipt))
}
