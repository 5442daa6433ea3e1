package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/renantorres0/smartcommerce/internal/config"
	"github.com/renantorres0/smartcommerce/internal/http/handlers"
	"github.com/renantorres0/smartcommerce/internal/lock"
	applog "github.com/renantorres0/smartcommerce/internal/log"
	"github.com/renantorres0/smartcommerce/internal/messages"
	"github.com/renantorres0/smartcommerce/internal/repos"
	"github.com/renantorres0/smartcommerce/web"
)

type testEnv struct {
	app  *fiber.App
	deps *handlers.Deps
	logs *observer.ObservedLogs
}

func newTestEnv(t *testing.T, cfg config.Config, apiMax int) *testEnv {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	applog.SetLogger(zap.New(core))
	t.Cleanup(func() { applog.SetLogger(nil) })

	db, err := repos.OpenDB(repos.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	msg, err := messages.New("en")
	require.NoError(t, err)

	deps := handlers.NewDeps(db, cfg, lock.NewLocal(), msg)
	app := handlers.NewApp(web.Engine())
	handlers.Register(app, deps, apiMax)
	return &testEnv{app: app, deps: deps, logs: logs}
}

// apiResult mirrors domain.Result with the payload left raw.
type apiResult struct {
	OK      bool            `json:"ok"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (e *testEnv) call(t *testing.T, method, path string, body any, acceptLang string) (int, apiResult) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			b, err := json.Marshal(body)
			require.NoError(t, err)
			raw = string(b)
		}
		rd = bytes.NewBufferString(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if acceptLang != "" {
		req.Header.Set("Accept-Language", acceptLang)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var res apiResult
	b, _ := io.ReadAll(resp.Body)
	if len(b) > 0 && b[0] == '{' {
		require.NoError(t, json.Unmarshal(b, &res), string(b))
	}
	return resp.StatusCode, res
}

func decodeData(t *testing.T, res apiResult, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(res.Data, out), string(res.Data))
}

// createProduct goes through the API and returns the new id.
func (e *testEnv) createProduct(t *testing.T, name string, qty int, cost, price string) string {
	t.Helper()
	status, res := e.call(t, "POST", "/api/v1/products", map[string]any{
		"name": name, "brand": "Nike", "quantity": qty, "cost_price": cost, "sale_price": price,
	}, "")
	require.Equal(t, fiber.StatusCreated, status, res.Message)
	var p struct {
		ID string `json:"id"`
	}
	decodeData(t, res, &p)
	require.NotEmpty(t, p.ID)
	return p.ID
}

// fieldsOf returns the "fields" map of the only entry logged under action.
func fieldsOf(t *testing.T, logs *observer.ObservedLogs, action string) map[string]any {
	t.Helper()
	entries := logs.FilterMessage(action).All()
	require.Len(t, entries, 1, action)
	f, _ := entries[0].ContextMap()["fields"].(map[string]any)
	return f
}
