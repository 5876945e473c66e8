package transit

import "go.mongodb.org/mongo-driver/bson/primitive"

const DefaultStopRouteCode = "General"

type Stop struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`

	Name      string  `bson:"name" json:"name"`
	Lat       float64 `bson:"lat" json:"lat"`
	Lon       float64 `bson:"lon" json:"lon"`
	RouteCode string  `bson:"routeCode" json:"routeCode"`
	Sequence  int     `bson:"sequence" json:"sequence"`
}
