package transit

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Params holds the raw fields of a request exactly as they were received
type Params map[string]string

// Get returns the first non-empty value of the given keys
func (p Params) Get(keys ...string) string {
	for _, key := range keys {
		if value := p[key]; value != "" {
			return value
		}
	}

	return ""
}

// PositionRecord is an append-only history entry written once per accepted position report
type PositionRecord struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`

	VehicleID string    `bson:"vehicleId" json:"vehicleId"`
	Lat       float64   `bson:"lat" json:"lat"`
	Lon       float64   `bson:"lon" json:"lon"`
	SpeedKph  float64   `bson:"speedKph" json:"speedKph"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`

	RawParams Params `bson:"rawParams" json:"rawParams"`
}
