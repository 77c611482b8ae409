package http

import (
	"github.com/LerianStudio/lib-safeguard/safeguard/guard"
	"github.com/gofiber/fiber/v2"
)

// WithGuardRecover is a middleware that runs the downstream chain under g.
// A panic intercepted by the guard produces a 500 response carrying the
// record context; the record itself lands in the guard's histories as usual.
//
// The guard should be suppressing: with suppression disabled the panic is
// re-raised after recording and handling falls to Fiber's own machinery.
func WithGuardRecover(g *guard.Guard) fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope := g.ScopeContext(c.UserContext())

		var nextErr error

		scope.Do(func() {
			nextErr = c.Next()
		})

		records := scope.Records()
		if len(records) == 0 {
			return nextErr
		}

		rec := records[len(records)-1]

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"code":    fiber.StatusInternalServerError,
			"title":   "Internal Server Error",
			"message": rec.Context,
		})
	}
}
