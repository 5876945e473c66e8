package routes

import (
	"github.com/busmitra/busmitra/pkg/tracker"
	"github.com/busmitra/busmitra/pkg/transit"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

const ingestErrorResponse = "Err"

// LogRouter accepts position reports from devices, by query string on GET or by body on POST
func LogRouter(router fiber.Router, t *tracker.Tracker) {
	router.Get("/", ingestPosition(t))
	router.Post("/", ingestPosition(t))
}

func ingestPosition(t *tracker.Tracker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		params, err := requestParams(c)
		if err != nil {
			log.Error().Err(err).Msg("Failed to read position report")

			c.Status(fiber.StatusInternalServerError)
			return c.SendString(ingestErrorResponse)
		}

		result, err := t.Ingest(c.UserContext(), params)
		if err != nil {
			log.Error().Err(err).Str("vehicle", params.Get(tracker.FieldVehicleID, tracker.FieldVehicleIDFallback)).Msg("Failed to ingest position report")

			c.Status(fiber.StatusInternalServerError)
			return c.SendString(ingestErrorResponse)
		}

		return c.SendString(string(result))
	}
}

func ActiveDrivers(t *tracker.Tracker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		vehicles, err := t.ActiveVehicles(c.UserContext())
		if err != nil {
			return errorResponse(c, fiber.StatusInternalServerError, err)
		}

		return c.JSON(fiber.Map{
			"drivers": vehicles,
		})
	}
}

func routeBuses(t *tracker.Tracker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		vehicles, err := t.ActiveVehiclesOnRoute(c.UserContext(), c.Params("code"))
		if err != nil {
			return errorResponse(c, fiber.StatusInternalServerError, err)
		}

		return c.JSON(fiber.Map{
			"buses": vehicles,
		})
	}
}

func HistoryRouter(router fiber.Router, t *tracker.Tracker) {
	router.Get("/:id", getHistory(t))
}

func getHistory(t *tracker.Tracker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		vehicleID := c.Params("id")

		records, err := t.History(c.UserContext(), vehicleID)
		if err != nil {
			return errorResponse(c, fiber.StatusInternalServerError, err)
		}

		if c.Query("format") == "csv" {
			c.Attachment(vehicleID + ".csv")

			return transit.WriteTrailCSV(c, records)
		}

		return c.JSON(fiber.Map{
			"trail": records,
		})
	}
}
