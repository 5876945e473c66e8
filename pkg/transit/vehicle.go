package transit

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const VehicleStatusActive = "active"

// VehicleState is the last known position of a single vehicle. There is at most one per VehicleID.
type VehicleState struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`

	VehicleID string `bson:"vehicleId" json:"vehicleId"`

	Lat   float64 `bson:"lat" json:"lat"`
	Lon   float64 `bson:"lon" json:"lon"`
	Speed float64 `bson:"speed" json:"speed"`

	LastUpdated time.Time `bson:"lastUpdated" json:"lastUpdated"`
	Status      string    `bson:"status" json:"status"`

	RouteCode string `bson:"routeCode,omitempty" json:"routeCode,omitempty"`
}

func (v *VehicleState) IsFresh(now time.Time, window time.Duration) bool {
	return !v.LastUpdated.Before(now.Add(-window))
}
