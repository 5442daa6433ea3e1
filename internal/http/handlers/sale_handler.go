package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/renantorres0/smartcommerce/internal/domain"
	applog "github.com/renantorres0/smartcommerce/internal/log"
	"github.com/renantorres0/smartcommerce/internal/messages"
	"github.com/renantorres0/smartcommerce/internal/services"
	"github.com/renantorres0/smartcommerce/internal/validate"
)

type SaleHandler struct {
	Ledger *services.LedgerService
	Msg    *messages.Translator
}

type sellRequest struct {
	ProductID   string          `json:"product_id"`
	Quantity    int             `json:"quantity"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

type reverseRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// GET /api/v1/sales?limit=
func (h *SaleHandler) List(c *fiber.Ctx) error {
	sales, err := h.Ledger.ListSales(c.UserContext(), validate.Limit(c.Query("limit")))
	if err != nil {
		return fail(c, h.Msg, "sale.list", err, nil)
	}
	return reply(c, fiber.StatusOK, domain.Result{OK: true, Code: domain.CodeOK, Data: sales})
}

// POST /api/v1/sales
func (h *SaleHandler) Sell(c *fiber.Ctx) error {
	var req sellRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, h.Msg, "sale.record", err)
	}
	fields := map[string]any{"product": req.ProductID, "qty": req.Quantity, "total": req.TotalAmount.String()}
	sale, err := h.Ledger.Sell(c.UserContext(), req.ProductID, req.Quantity, req.TotalAmount)
	if err != nil {
		return fail(c, h.Msg, "sale.record", err, fields)
	}
	fields["sale_id"] = sale.ID
	applog.Audit(c, "sale.record", fields)
	return reply(c, fiber.StatusCreated, h.Msg.OK(lang(c), messages.SaleRecorded, nil, sale))
}

// POST /api/v1/sales/:id/reverse
func (h *SaleHandler) Reverse(c *fiber.Ctx) error {
	id := c.Params("id")
	var req reverseRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, h.Msg, "sale.reverse", err)
	}
	fields := map[string]any{"sale_id": id, "product": req.ProductID, "qty": req.Quantity}
	if err := h.Ledger.ReverseSale(c.UserContext(), id, req.ProductID, req.Quantity); err != nil {
		return fail(c, h.Msg, "sale.reverse", err, fields)
	}
	applog.Audit(c, "sale.reverse", fields)
	return reply(c, fiber.StatusOK, h.Msg.OK(lang(c), messages.SaleReversed, nil, nil))
}
