package transit

import "go.mongodb.org/mongo-driver/bson/primitive"

// Profile is descriptive metadata about a vehicle. Only RouteCode matters to ingestion.
type Profile struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty" groups:"basic,detailed"`

	VehicleID string `bson:"vehicleId" json:"vehicleId" groups:"basic,detailed"`
	RouteCode string `bson:"routeCode,omitempty" json:"routeCode,omitempty" groups:"basic,detailed"`

	Type          string   `bson:"type,omitempty" json:"type,omitempty" groups:"basic,detailed"`
	Fare          float64  `bson:"fare,omitempty" json:"fare,omitempty" groups:"basic,detailed"`
	Rating        float64  `bson:"rating,omitempty" json:"rating,omitempty" groups:"basic,detailed"`
	DriverName    string   `bson:"driverName,omitempty" json:"driverName,omitempty" groups:"basic,detailed"`
	ContactNumber string   `bson:"contactNumber,omitempty" json:"contactNumber,omitempty" groups:"basic,detailed"`
	Amenities     []string `bson:"amenities,omitempty" json:"amenities,omitempty" groups:"basic,detailed"`

	// Base64 encoded images, can be very large
	Photos []string `bson:"photos,omitempty" json:"photos,omitempty" groups:"detailed"`
}

// ProfileUpdate carries the fields of a profile save request. Empty fields are left untouched.
// VehicleID always comes from the request path, never from the body.
type ProfileUpdate struct {
	VehicleID string `bson:"vehicleId" json:"-"`

	RouteCode     string   `bson:"routeCode,omitempty" json:"routeCode"`
	Type          string   `bson:"type,omitempty" json:"type"`
	Fare          float64  `bson:"fare,omitempty" json:"fare"`
	Rating        float64  `bson:"rating,omitempty" json:"rating"`
	DriverName    string   `bson:"driverName,omitempty" json:"driverName"`
	ContactNumber string   `bson:"contactNumber,omitempty" json:"contactNumber"`
	Amenities     []string `bson:"amenities,omitempty" json:"amenities"`
	Photos        []string `bson:"photos,omitempty" json:"photos"`
}
