package tracker

import (
	"math"
	"strconv"
	"strings"

	"github.com/busmitra/busmitra/pkg/transit"
)

// Field names sent by the GPS logger firmware
const (
	FieldVehicleID         = "bus_id"
	FieldVehicleIDFallback = "aid"
	FieldLatitude          = "lat"
	FieldLongitude         = "lon"
	FieldSpeed             = "spd_kph"
)

// UnknownVehicleID is used when a report carries neither identifier field
const UnknownVehicleID = "unknown"

type PositionReport struct {
	VehicleID string

	Lat      float64
	Lon      float64
	SpeedKph float64

	Raw transit.Params
}

func ParseReport(params transit.Params) PositionReport {
	vehicleID := params.Get(FieldVehicleID, FieldVehicleIDFallback)
	if vehicleID == "" {
		vehicleID = UnknownVehicleID
	}

	// Parsing is strict: "40kph" is not a number and counts as missing
	speed := parseFloat(params[FieldSpeed])
	if math.IsNaN(speed) || math.IsInf(speed, 0) {
		speed = 0
	}

	return PositionReport{
		VehicleID: vehicleID,
		Lat:       parseFloat(params[FieldLatitude]),
		Lon:       parseFloat(params[FieldLongitude]),
		SpeedKph:  speed,
		Raw:       params,
	}
}

// Valid reports whether both coordinates are usable. A coordinate of exactly 0 is treated the same
// as a missing one, so positions on the equator or the prime meridian are dropped.
func (r PositionReport) Valid() bool {
	return usableCoordinate(r.Lat) && usableCoordinate(r.Lon)
}

func usableCoordinate(value float64) bool {
	return value != 0 && !math.IsNaN(value) && !math.IsInf(value, 0)
}

// parseFloat returns NaN for anything that is not a finite number, so "inf" and "Infinity" are
// as unusable as "abc"
func parseFloat(value string) float64 {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsInf(parsed, 0) {
		return math.NaN()
	}

	return parsed
}
