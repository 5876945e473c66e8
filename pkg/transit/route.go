package transit

import "go.mongodb.org/mongo-driver/bson/primitive"

type Route struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`

	Name  string `bson:"name" json:"name"`
	Code  string `bson:"code" json:"code"`
	Color string `bson:"color,omitempty" json:"color,omitempty"`

	// Polyline as [lat, lon] pairs
	Coordinates [][]float64 `bson:"coordinates,omitempty" json:"coordinates,omitempty"`

	Distance string `bson:"distance,omitempty" json:"distance,omitempty"`
	Duration string `bson:"duration,omitempty" json:"duration,omitempty"`
}
