package routes

import (
	"github.com/busmitra/busmitra/pkg/feed"
	"github.com/busmitra/busmitra/pkg/tracker"
	"github.com/gofiber/fiber/v2"
)

func GTFSRealtimeRouter(router fiber.Router, t *tracker.Tracker) {
	router.Get("/vehicle-positions", vehiclePositions(t))
}

func vehiclePositions(t *tracker.Tracker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		vehicles, err := t.ActiveVehicles(c.UserContext())
		if err != nil {
			return errorResponse(c, fiber.StatusInternalServerError, err)
		}

		data, err := feed.MarshalVehiclePositions(vehicles, t.Now())
		if err != nil {
			return errorResponse(c, fiber.StatusInternalServerError, err)
		}

		c.Set(fiber.HeaderContentType, feed.ContentType)
		return c.Send(data)
	}
}
