package http

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/LerianStudio/lib-safeguard/safeguard/guard"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, g *guard.Guard) *fiber.App {
	t.Helper()

	app := fiber.New()
	app.Use(WithGuardRecover(g))

	app.Get("/ok", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/boom", func(_ *fiber.Ctx) error {
		panic("handler exploded")
	})

	return app
}

func TestWithGuardRecoverPassesThroughNormalRequests(t *testing.T) {
	t.Parallel()

	g := guard.MustNew(guard.WithRegistry(guard.NewRegistry()))
	app := newTestApp(t, g)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/ok", nil))
	require.NoError(t, err)

	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))

	assert.Empty(t, g.Records())
}

func TestWithGuardRecoverConvertsPanicTo500(t *testing.T) {
	t.Parallel()

	g := guard.MustNew(
		guard.WithRegistry(guard.NewRegistry()),
		guard.WithMessage("request handling failed"),
	)
	app := newTestApp(t, g)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/boom", nil))
	require.NoError(t, err)

	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "request handling failed")

	records := g.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "handler exploded", records[0].Message)
}

func TestWithGuardRecoverSkipsNonMatchingPanics(t *testing.T) {
	t.Parallel()

	g := guard.MustNew(
		guard.WithRegistry(guard.NewRegistry()),
		guard.WithOnly(guard.OfType[int]()),
	)

	app := fiber.New()

	// Outer safety net proving the panic escaped the guard middleware.
	var escaped any

	app.Use(func(c *fiber.Ctx) error {
		var err error

		func() {
			defer func() { escaped = recover() }()

			err = c.Next()
		}()

		if escaped != nil {
			return c.SendStatus(fiber.StatusBadGateway)
		}

		return err
	})
	app.Use(WithGuardRecover(g))
	app.Get("/boom", func(_ *fiber.Ctx) error {
		panic("not an int")
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/boom", nil))
	require.NoError(t, err)

	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "not an int", escaped)
	assert.Empty(t, g.Records())
}
