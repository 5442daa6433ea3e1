package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/renantorres0/smartcommerce/internal/domain"
	applog "github.com/renantorres0/smartcommerce/internal/log"
	"github.com/renantorres0/smartcommerce/internal/messages"
)

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	return c.Render(tmpl, data)
}

func lang(c *fiber.Ctx) string { return c.Get(fiber.HeaderAcceptLanguage) }

// StatusFor maps a result code onto an HTTP status.
func StatusFor(code string) int {
	switch code {
	case domain.CodeOK:
		return fiber.StatusOK
	case domain.CodeNotFound:
		return fiber.StatusNotFound
	case domain.CodeInsufficientStock:
		return fiber.StatusConflict
	case domain.CodeConstraintViolation:
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func reply(c *fiber.Ctx, status int, res domain.Result) error {
	return c.Status(status).JSON(res)
}

// fail writes the Result for err and logs it by kind: storage failures as
// errors, bad input as security events, the rest as info.
func fail(c *fiber.Ctx, msg *messages.Translator, action string, err error, fields map[string]any) error {
	res := msg.Fail(lang(c), err)
	c.Status(StatusFor(res.Code))

	f := make(map[string]any, len(fields)+2)
	for k, v := range fields {
		f[k] = v
	}
	f["code"] = res.Code
	switch res.Code {
	case domain.CodeStorageFailure:
		applog.Error(c, action+".fail", err, f)
	case domain.CodeConstraintViolation:
		f["error"] = err.Error()
		applog.Security(c, action+".invalid", f)
	default:
		f["error"] = err.Error()
		applog.Info(c, action+".rejected", f)
	}
	return c.JSON(res)
}

func badBody(c *fiber.Ctx, msg *messages.Translator, action string, err error) error {
	return fail(c, msg, action, fmt.Errorf("%w: body: %v", domain.ErrConstraintViolation, err), nil)
}
