package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/renantorres0/smartcommerce/internal/domain"
	applog "github.com/renantorres0/smartcommerce/internal/log"
	"github.com/renantorres0/smartcommerce/internal/messages"
	"github.com/renantorres0/smartcommerce/internal/repos"
	"github.com/renantorres0/smartcommerce/internal/services"
	"github.com/renantorres0/smartcommerce/internal/validate"
)

type MovementHandler struct {
	Ledger *services.LedgerService
	Msg    *messages.Translator
}

type movementRequest struct {
	ProductID string          `json:"product_id"`
	Type      string          `json:"type"`
	Quantity  int             `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// GET /api/v1/movements?product_id=&type=&limit=
func (h *MovementHandler) List(c *fiber.Ctx) error {
	f := repos.MovementFilter{
		ProductID: c.Query("product_id"),
		Limit:     validate.Limit(c.Query("limit")),
	}
	if t := c.Query("type"); t != "" {
		mt, err := domain.ParseMovementType(t)
		if err != nil {
			return fail(c, h.Msg, "movement.list", err, map[string]any{"type": t})
		}
		f.Type = mt
	}
	list, err := h.Ledger.ListMovements(c.UserContext(), f)
	if err != nil {
		return fail(c, h.Msg, "movement.list", err, nil)
	}
	return reply(c, fiber.StatusOK, domain.Result{OK: true, Code: domain.CodeOK, Data: list})
}

// POST /api/v1/movements
func (h *MovementHandler) Append(c *fiber.Ctx) error {
	var req movementRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, h.Msg, "movement.append", err)
	}
	fields := map[string]any{"product": req.ProductID, "type": req.Type, "qty": req.Quantity}
	m, err := h.Ledger.AppendMovement(c.UserContext(), req.ProductID, req.Type, req.Quantity, req.UnitCost)
	if err != nil {
		return fail(c, h.Msg, "movement.append", err, fields)
	}
	fields["movement_id"] = m.ID
	applog.Audit(c, "movement.append", fields)
	return reply(c, fiber.StatusCreated, h.Msg.OK(lang(c), messages.MovementRecorded, nil, m))
}
