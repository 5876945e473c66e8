package tracker

import (
	"context"
	"time"

	"github.com/busmitra/busmitra/pkg/transit"
)

// VehicleStateUpdate is the set of fields written by one ingestion. An empty RouteCode leaves the
// stored route code untouched.
type VehicleStateUpdate struct {
	VehicleID string

	Lat   float64
	Lon   float64
	Speed float64

	LastUpdated time.Time
	Status      string

	RouteCode string
}

type Store interface {
	InsertPosition(ctx context.Context, record *transit.PositionRecord) error
	FindProfile(ctx context.Context, vehicleID string) (*transit.Profile, error)
	UpsertVehicleState(ctx context.Context, update VehicleStateUpdate) error

	// FindVehiclesUpdatedSince returns vehicles with lastUpdated >= since, limited to one route
	// when routeCode is not empty
	FindVehiclesUpdatedSince(ctx context.Context, since time.Time, routeCode string) ([]transit.VehicleState, error)

	// FindPositions returns the newest records for the vehicle, newest first
	FindPositions(ctx context.Context, vehicleID string, limit int64) ([]transit.PositionRecord, error)

	FindPositionsBefore(ctx context.Context, cutoff time.Time) ([]transit.PositionRecord, error)
	DeletePositionsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
