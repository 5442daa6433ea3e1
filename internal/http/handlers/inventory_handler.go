package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/renantorres0/smartcommerce/internal/domain"
	applog "github.com/renantorres0/smartcommerce/internal/log"
	"github.com/renantorres0/smartcommerce/internal/messages"
	"github.com/renantorres0/smartcommerce/internal/services"
	"github.com/renantorres0/smartcommerce/internal/validate"
)

type InventoryHandler struct {
	Ledger *services.LedgerService
	Msg    *messages.Translator
}

type stockRow struct {
	domain.Product
	Status string
}

// GET /
func (h *InventoryHandler) StockPage(c *fiber.Ctx) error {
	ctx := c.UserContext()
	products, err := h.Ledger.ListProducts(ctx)
	if err != nil {
		applog.Error(c, "stock.list.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load stock"})
	}
	sales, err := h.Ledger.ListSales(ctx, 20)
	if err != nil {
		applog.Error(c, "sales.list.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load sales"})
	}

	rows := make([]stockRow, 0, len(products))
	for _, p := range products {
		rows = append(rows, stockRow{Product: p, Status: services.AvailabilityOf(p.Quantity).Status})
	}
	return render(c, "stock", fiber.Map{"Rows": rows, "Sales": sales})
}

// GET /api/v1/availability?productId=
func (h *InventoryHandler) Check(c *fiber.Ctx) error {
	productID, ok := validate.ID(c.Query("productId"))
	if !ok {
		return fail(c, h.Msg, "inventory.check", domain.ErrConstraintViolation, map[string]any{
			"product": strings.TrimSpace(c.Query("productId")),
		})
	}
	avail, err := h.Ledger.Availability(c.UserContext(), productID)
	if err != nil {
		return fail(c, h.Msg, "inventory.check", err, map[string]any{"product": productID})
	}
	return reply(c, fiber.StatusOK, domain.Result{OK: true, Code: domain.CodeOK, Data: avail})
}

// PUT /api/v1/inventory saves the whole stock table at once.
func (h *InventoryHandler) BulkEdit(c *fiber.Ctx) error {
	var edits []domain.InventoryEdit
	if err := c.BodyParser(&edits); err != nil {
		return badBody(c, h.Msg, "inventory.bulk_edit", err)
	}
	fields := map[string]any{"rows": len(edits)}
	if err := h.Ledger.ApplyInventoryEdits(c.UserContext(), edits); err != nil {
		return fail(c, h.Msg, "inventory.bulk_edit", err, fields)
	}
	applog.Audit(c, "inventory.bulk_edit", fields)
	return reply(c, fiber.StatusOK, h.Msg.OK(lang(c), messages.InventorySaved, nil, nil))
}
