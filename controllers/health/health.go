package healthController

import (
	"time"

	"internlab/database"
	"internlab/middleware"

	"github.com/gofiber/fiber/v2"
)

func status(err error) string {
	if err != nil {
		return "down"
	}
	return "up"
}

func Health(c *fiber.Ctx) error {
	dbErr := database.Ping()
	cacheErr := database.PingCache(c.Context())

	cache := status(cacheErr)
	if database.Cache == nil {
		cache = "disabled"
	}

	code, overall := fiber.StatusOK, "ok"
	if dbErr != nil {
		code, overall = fiber.StatusServiceUnavailable, "degraded"
	}
	return middleware.JsonResponse(c, code, dbErr == nil, "Health check.", fiber.Map{
		"status":    overall,
		"timestamp": time.Now().UTC(),
		"database":  status(dbErr),
		"cache":     cache,
	})
}
