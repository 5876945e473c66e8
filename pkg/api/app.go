package api

import (
	"github.com/busmitra/busmitra/pkg/api/routes"
	"github.com/busmitra/busmitra/pkg/catalog"
	"github.com/busmitra/busmitra/pkg/tracker"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// BodyLimit allows for profile saves carrying base64 photos
const BodyLimit = 50 * 1024 * 1024

// Services are the dependencies shared by every request handler
type Services struct {
	Tracker *tracker.Tracker
	Catalog *catalog.Service
}

func NewApp(services Services) *fiber.App {
	webApp := fiber.New(fiber.Config{
		AppName:               "busmitra",
		BodyLimit:             BodyLimit,
		DisableStartupMessage: true,
	})

	webApp.Use(NewLogger("/log", "/active-drivers"))
	webApp.Use(recover.New())
	webApp.Use(cors.New())

	webApp.Get("version", routes.APIVersion)

	routes.LogRouter(webApp.Group("/log"), services.Tracker)
	webApp.Get("/active-drivers", routes.ActiveDrivers(services.Tracker))
	routes.HistoryRouter(webApp.Group("/history"), services.Tracker)
	routes.GTFSRealtimeRouter(webApp.Group("/gtfs-rt"), services.Tracker)

	routes.StopsRouter(webApp.Group("/stops"), services.Catalog)
	routes.RoutesRouter(webApp.Group("/routes"), services.Catalog, services.Tracker)
	routes.BusesRouter(webApp.Group("/buses"), services.Catalog)
	routes.AnnotationsRouter(webApp.Group("/annotations"), services.Catalog)
	routes.FavoritesRouter(webApp.Group("/favorites"), services.Catalog)
	webApp.Get("/search", routes.Search(services.Catalog))
	webApp.Get("/symbols", routes.ListSymbols)

	return webApp
}

func SetupServer(listen string, services Services) error {
	return NewApp(services).Listen(listen)
}
