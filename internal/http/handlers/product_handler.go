package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/renantorres0/smartcommerce/internal/domain"
	applog "github.com/renantorres0/smartcommerce/internal/log"
	"github.com/renantorres0/smartcommerce/internal/messages"
	"github.com/renantorres0/smartcommerce/internal/services"
	"github.com/renantorres0/smartcommerce/internal/validate"
)

var errBadProductID = fmt.Errorf("%w: invalid product id", domain.ErrConstraintViolation)

type ProductHandler struct {
	Ledger *services.LedgerService
	Msg    *messages.Translator
}

// GET /api/v1/products
func (h *ProductHandler) List(c *fiber.Ctx) error {
	list, err := h.Ledger.ListProducts(c.UserContext())
	if err != nil {
		return fail(c, h.Msg, "product.list", err, nil)
	}
	return reply(c, fiber.StatusOK, domain.Result{OK: true, Code: domain.CodeOK, Data: list})
}

// GET /api/v1/products/:id
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fail(c, h.Msg, "product.get", errBadProductID, map[string]any{"product": c.Params("id")})
	}
	p, err := h.Ledger.GetProduct(c.UserContext(), id)
	if err != nil {
		return fail(c, h.Msg, "product.get", err, map[string]any{"product": id})
	}
	return reply(c, fiber.StatusOK, domain.Result{OK: true, Code: domain.CodeOK, Data: p})
}

// POST /api/v1/products
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in domain.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c, h.Msg, "product.create", err)
	}
	p, err := h.Ledger.CreateProduct(c.UserContext(), in)
	if err != nil {
		return fail(c, h.Msg, "product.create", err, map[string]any{"name": in.Name})
	}
	applog.Audit(c, "product.create", map[string]any{
		"product": p.ID, "name": p.Name, "qty": p.Quantity, "cost": p.CostPrice.String(),
	})
	return reply(c, fiber.StatusCreated, h.Msg.OK(lang(c), messages.ProductCreated, map[string]any{"Name": p.Name}, p))
}

// PUT /api/v1/products/:id
func (h *ProductHandler) Edit(c *fiber.Ctx) error {
	id := c.Params("id")
	var in domain.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c, h.Msg, "inventory.edit", err)
	}
	fields := map[string]any{"product": id, "qty": in.Quantity}
	if err := h.Ledger.ApplyInventoryEdit(c.UserContext(), id, in); err != nil {
		return fail(c, h.Msg, "inventory.edit", err, fields)
	}
	applog.Audit(c, "inventory.edit", fields)
	return reply(c, fiber.StatusOK, h.Msg.OK(lang(c), messages.InventorySaved, nil, nil))
}

// GET /api/v1/products/:id/audit
func (h *ProductHandler) Audit(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fail(c, h.Msg, "product.audit", errBadProductID, map[string]any{"product": c.Params("id")})
	}
	a, err := h.Ledger.AuditStock(c.UserContext(), id)
	if err != nil {
		return fail(c, h.Msg, "product.audit", err, map[string]any{"product": id})
	}
	if !a.Consistent {
		applog.Info(c, "product.audit.drift", map[string]any{
			"product": a.ProductID, "qty": a.Quantity, "journal": a.JournalTotal,
		})
	}
	return reply(c, fiber.StatusOK, domain.Result{OK: true, Code: domain.CodeOK, Data: a})
}
