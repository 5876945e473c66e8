package catalog

import (
	"context"

	"github.com/busmitra/busmitra/pkg/transit"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Store interface {
	ListStops(ctx context.Context) ([]transit.Stop, error)
	// ListRouteStops returns the stops of one route ordered by sequence
	ListRouteStops(ctx context.Context, routeCode string) ([]transit.Stop, error)
	InsertStop(ctx context.Context, stop *transit.Stop) error

	ListRoutes(ctx context.Context) ([]transit.Route, error)
	InsertRoute(ctx context.Context, route *transit.Route) error

	FindProfile(ctx context.Context, vehicleID string) (*transit.Profile, error)
	UpsertProfile(ctx context.Context, vehicleID string, update transit.ProfileUpdate) (*transit.Profile, error)
	// SetVehicleRouteCode updates an existing vehicle state only, it never creates one
	SetVehicleRouteCode(ctx context.Context, vehicleID string, routeCode string) error

	LatestAnnotation(ctx context.Context) (*transit.Annotation, error)
	ReplaceAnnotations(ctx context.Context, annotation *transit.Annotation) error

	FindFavorite(ctx context.Context, deviceID string, vehicleID string) (*transit.Favorite, error)
	InsertFavorite(ctx context.Context, favorite *transit.Favorite) error
	DeleteFavorite(ctx context.Context, id primitive.ObjectID) error
	ListFavorites(ctx context.Context, deviceID string) ([]transit.Favorite, error)

	// The Search* methods match a case-insensitive literal substring
	SearchVehicles(ctx context.Context, query string) ([]transit.VehicleState, error)
	SearchRoutes(ctx context.Context, query string) ([]transit.Route, error)
	SearchStops(ctx context.Context, query string) ([]transit.Stop, error)
}
