package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/renantorres0/smartcommerce/internal/domain"
	applog "github.com/renantorres0/smartcommerce/internal/log"
)

// NewApp builds the fiber app with the shared middleware stack and error page.
// Routes are added by Register.
func NewApp(views fiber.Views, extra ...fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		Views:        views,
		ErrorHandler: ErrorHandler,
		BodyLimit:    1 << 20, // 1 MiB
	})
	app.Use(requestid.New())
	for _, h := range extra {
		app.Use(h)
	}
	app.Use(helmet.New())
	return app
}

// ErrorHandler logs the failure and shows a friendly message without internals.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	if fe, ok := err.(*fiber.Error); ok {
		status = fe.Code
	}
	applog.Error(c, "server.error", err, map[string]any{"status": status})

	const friendly = "Something went wrong. Please try again."
	if strings.HasPrefix(c.Path(), "/api/") {
		return c.Status(status).JSON(domain.Result{Code: domain.CodeStorageFailure, Message: friendly})
	}
	if rerr := c.Status(status).Render("notfound", fiber.Map{"Message": friendly}); rerr != nil {
		return c.Status(status).SendString(friendly)
	}
	return nil
}

// Register mounts every route. apiMax caps requests per IP per minute on the API.
func Register(app *fiber.App, deps *Deps, apiMax int) {
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Get("/", deps.InventoryHandler.StockPage)

	api := app.Group("/api/v1", limiter.New(limiter.Config{
		Max:        apiMax,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.api.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(domain.Result{Code: "RATE_LIMITED", Message: "rate limit exceeded, retry soon"})
		},
	}))

	api.Get("/products", deps.ProductHandler.List)
	api.Post("/products", deps.ProductHandler.Create)
	api.Get("/products/:id", deps.ProductHandler.Get)
	api.Put("/products/:id", deps.ProductHandler.Edit)
	api.Get("/products/:id/audit", deps.ProductHandler.Audit)
	api.Put("/inventory", deps.InventoryHandler.BulkEdit)
	api.Get("/availability", deps.InventoryHandler.Check)

	api.Get("/sales", deps.SaleHandler.List)
	api.Post("/sales", deps.SaleHandler.Sell)
	api.Post("/sales/:id/reverse", deps.SaleHandler.Reverse)
	api.Post("/checkout", deps.OrderHandler.Checkout)

	api.Get("/movements", deps.MovementHandler.List)
	api.Post("/movements", deps.MovementHandler.Append)
}

// NotFound is the catch-all; mount it after every route.
func NotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Page not found"})
}
