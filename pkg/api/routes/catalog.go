package routes

import (
	"errors"

	"github.com/busmitra/busmitra/pkg/catalog"
	"github.com/busmitra/busmitra/pkg/tracker"
	"github.com/busmitra/busmitra/pkg/transit"
	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
)

func StopsRouter(router fiber.Router, service *catalog.Service) {
	router.Get("/", listStops(service))
	router.Post("/", createStop(service))
}

func listStops(service *catalog.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stops, err := service.Store.ListStops(c.UserContext())
		if err != nil {
			return errorResponse(c, fiber.StatusInternalServerError, err)
		}

		return c.JSON(fiber.Map{
			"stops": stops,
		})
	}
}

func createStop(service *catalog.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		params, err := requestParams(c)
		if err != nil {
			return errorResponse(c, fiber.StatusBadRequest, err)
		}

		stop, err := service.CreateStop(c.UserContext(), params)
		if errors.Is(err, catalog.ErrStopFieldsRequired) {
			return errorResponse(c, fiber.StatusBadRequest, err)
		} else if err != nil {
			return errorResponse(c, fiber.StatusInternalServerError, err)
		}

		return c.JSON(fiber.Map{
			"success": true,
			"stop":    stop,
		})
	}
}

// RoutesRouter serves the route catalogue and the live buses running on each route
func RoutesRouter(router fiber.Router, service *catalog.Service, t *tracker.Tracker) {
	router.Get("/", listRoutes(service))
	router.Post("/", createRoute(service))
	router.Get("/:code/stops", listRouteStops(service))
	router.Get("/:code/buses", routeBuses(t))
}

func listRoutes(service *catalog.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		routes, err := service.Store.ListRoutes(c.UserContext())
		if err != nil {
			return errorResponse(c, fiber.StatusInternalServerError, err)
		}

		return c.JSON(fiber.Map{
			"routes": routes,
		})
	}
}

func createRoute(service *catalog.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var route transit.Route
		if err := c.BodyParser(&route); err != nil {
			return errorResponse(c, fiber.StatusBadRequest, err)
		}

		if err := service.Store.InsertRoute(c.UserContext(), &route); err != nil {
			return errorResponse(c, fiber.StatusInternalServerError, err)
		}

		return c.JSON(fiber.Map{
			"success": true,
			"id":      route.ID,
		})
	}
}

func listRouteStops(service *catalog.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stops, err := service.Store.ListRouteStops(c.UserContext(), c.Params("code"))
		if err != nil {
			return errorResponse(c, fiber.StatusInternalServerError, err)
		}

		return c.JSON(fiber.Map{
			"stops": stops,
		})
	}
}

func BusesRouter(router fiber.Router, service *catalog.Service) {
	router.Get("/:id/profile", getProfile(service))
	router.Post("/:id/profile", saveProfile(service))
}

func getProfile(service *catalog.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		profile, err := service.Store.FindProfile(c.UserContext(), c.Params("id"))
		if err != nil {
			return errorResponse(c, fiber.StatusInternalServerError, err)
		}

		if profile == nil {
			return c.JSON(fiber.Map{
				"profile": nil,
			})
		}

		groups := []string{"basic", "detailed"}
		if c.Query("view") == "basic" {
			groups = []string{"basic"}
		}

		profileReduced, err := sheriff.Marshal(&sheriff.Options{
			Groups: groups,
		}, profile)
		if err != nil {
			c.SendStatus(fiber.StatusInternalServerError)
			return c.JSON(fiber.Map{
				"error": "Sherrif could not reduce Profile",
			})
		}

		return c.JSON(fiber.Map{
			"profile": profileReduced,
		})
	}
}

func saveProfile(service *catalog.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var update transit.ProfileUpdate
		if err := c.BodyParser(&update); err != nil {
			return errorResponse(c, fiber.StatusBadRequest, err)
		}

		profile, err := service.SaveProfile(c.UserContext(), c.Params("id"), update)
		if err != nil {
			return errorResponse(c, fiber.StatusInternalServerError, err)
		}

		return c.JSON(fiber.Map{
			"success": true,
			"profile": profile,
		})
	}
}

type annotationsRequest struct {
	Elements []interface{} `json:"elements"`
}

func AnnotationsRouter(router fiber.Router, service *catalog.Service) {
	router.Get("/", getAnnotations(service))
	router.Post("/", saveAnnotations(service))
}

func getAnnotations(service *catalog.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		elements, err := service.Annotations(c.UserContext())
		if err != nil {
			return errorResponse(c, fiber.StatusInternalServerError, err)
		}

		return c.JSON(fiber.Map{
			"success": true,
			"data":    elements,
		})
	}
}

func saveAnnotations(service *catalog.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var request annotationsRequest
		if err := c.BodyParser(&request); err != nil {
			return errorResponse(c, fiber.StatusBadRequest, err)
		}

		if err := service.SaveAnnotations(c.UserContext(), request.Elements); err != nil {
			return errorResponse(c, fiber.StatusInternalServerError, err)
		}

		return c.JSON(fiber.Map{
			"success": true,
		})
	}
}

func FavoritesRouter(router fiber.Router, service *catalog.Service) {
	router.Post("/toggle", toggleFavorite(service))
	router.Get("/:deviceId", listFavorites(service))
}

func toggleFavorite(service *catalog.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		params, err := requestParams(c)
		if err != nil {
			return errorResponse(c, fiber.StatusBadRequest, err)
		}

		saved, err := service.ToggleFavorite(c.UserContext(), params["deviceId"], params["vehicleId"])
		if errors.Is(err, catalog.ErrFavoriteFieldsRequired) {
			return errorResponse(c, fiber.StatusBadRequest, err)
		} else if err != nil {
			return errorResponse(c, fiber.StatusInternalServerError, err)
		}

		return c.JSON(fiber.Map{
			"saved": saved,
		})
	}
}

func listFavorites(service *catalog.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		favorites, err := service.Store.ListFavorites(c.UserContext(), c.Params("deviceId"))
		if err != nil {
			return errorResponse(c, fiber.StatusInternalServerError, err)
		}

		return c.JSON(fiber.Map{
			"favorites": favorites,
		})
	}
}

func Search(service *catalog.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		results, err := service.Search(c.UserContext(), c.Query("q"))
		if err != nil {
			return errorResponse(c, fiber.StatusInternalServerError, err)
		}

		return c.JSON(results)
	}
}
