package routes

import (
	"github.com/busmitra/busmitra/pkg/symbols"
	"github.com/gofiber/fiber/v2"
)

func ListSymbols(c *fiber.Ctx) error {
	library, err := symbols.ByCategory(c.Query("category"))
	if err != nil {
		return errorResponse(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(fiber.Map{
		"symbols": library,
	})
}
