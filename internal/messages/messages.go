// Package messages turns ledger outcomes into localized Result values.
package messages

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"github.com/renantorres0/smartcommerce/internal/domain"
)

const (
	SaleRecorded     = "sale.recorded"
	SaleReversed     = "sale.reversed"
	CheckoutDone     = "checkout.done"
	ProductCreated   = "product.created"
	InventorySaved   = "inventory.saved"
	MovementRecorded = "movement.recorded"
)

//go:embed locales/*.json
var locales embed.FS

type Translator struct {
	bundle *goi18n.Bundle
}

// New loads the bundled locales. defaultLocale answers requests whose
// Accept-Language matches nothing we ship.
func New(defaultLocale string) (*Translator, error) {
	tag, err := language.Parse(defaultLocale)
	if err != nil {
		return nil, fmt.Errorf("DEFAULT_LOCALE %q: %w", defaultLocale, err)
	}
	bundle := goi18n.NewBundle(tag)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	files, err := locales.ReadDir("locales")
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		if _, err := bundle.LoadMessageFileFS(locales, "locales/"+f.Name()); err != nil {
			return nil, fmt.Errorf("load %s: %w", f.Name(), err)
		}
	}
	return &Translator{bundle: bundle}, nil
}

// Languages lists the BCP 47 tags that have a message file.
func (t *Translator) Languages() []string {
	var out []string
	for _, tag := range t.bundle.LanguageTags() {
		out = append(out, tag.String())
	}
	return out
}

// Text localizes one message. Unknown ids come back as the id itself.
func (t *Translator) Text(acceptLanguage, id string, data map[string]any) string {
	loc := goi18n.NewLocalizer(t.bundle, acceptLanguage)
	msg, err := loc.Localize(&goi18n.LocalizeConfig{MessageID: id, TemplateData: data})
	if err != nil {
		return id
	}
	return msg
}

// OK builds a successful Result.
func (t *Translator) OK(acceptLanguage, id string, tmpl map[string]any, data any) domain.Result {
	return domain.Result{
		OK:      true,
		Code:    domain.CodeOK,
		Message: t.Text(acceptLanguage, id, tmpl),
		Data:    data,
	}
}

// Fail builds the Result for a failed operation. Line errors keep their row
// number. Expected failures carry their cause as Detail; storage failures
// never expose driver text.
func (t *Translator) Fail(acceptLanguage string, err error) domain.Result {
	code := domain.KindOf(err)

	var le *domain.LineError
	cause := err
	if errors.As(err, &le) {
		cause = le.Err
	}
	tmpl := map[string]any{"Detail": ""}
	if code != domain.CodeStorageFailure && cause != nil {
		tmpl["Detail"] = detail(cause)
	}
	msg := t.Text(acceptLanguage, "error."+strings.ToLower(code), tmpl)

	if le != nil {
		msg = t.Text(acceptLanguage, "error.line", map[string]any{"Line": le.Line + 1, "Message": msg})
	}
	return domain.Result{OK: false, Code: code, Message: msg}
}

var sentinels = []error{
	domain.ErrNotFound,
	domain.ErrInsufficientStock,
	domain.ErrConstraintViolation,
}

// detail strips the taxonomy word from an error's text, leaving what failed:
// "product p1: not found" gives "product p1".
func detail(err error) string {
	s := err.Error()
	for _, e := range sentinels {
		s = strings.TrimPrefix(s, e.Error()+": ")
		s = strings.TrimSuffix(s, ": "+e.Error())
		if s == e.Error() {
			return ""
		}
	}
	return s
}
