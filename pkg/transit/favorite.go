package transit

import "go.mongodb.org/mongo-driver/bson/primitive"

type Favorite struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`

	DeviceID  string `bson:"deviceId" json:"deviceId"`
	VehicleID string `bson:"vehicleId" json:"vehicleId"`
}
