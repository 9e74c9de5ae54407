package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/linguabot/linguabot/app/controllers"
	"github.com/linguabot/linguabot/internal/pkg/constants"
	"github.com/linguabot/linguabot/internal/pkg/statistics"
)

type HttpRouter struct {
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// Payment provider callbacks. Signature verification happens inside the
	// handler against the raw request body.
	app.Post(constants.StripeWebhookRoute, controllers.HandleStripeWebhook)

	// Aggregate usage counters, cached in Redis
	app.Get(constants.StatsRoute, func(c *fiber.Ctx) error {
		return c.JSON(statistics.GetStatisticsData())
	})

	// Liveness probe
	app.Get(constants.HealthRoute, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
}
