// Package feed publishes live vehicle states as a GTFS-Realtime vehicle positions feed.
package feed

import (
	"time"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/busmitra/busmitra/pkg/transit"
	"google.golang.org/protobuf/proto"
)

const GTFSRealtimeVersion = "2.0"

const ContentType = "application/x-protobuf"

// VehiclePositions builds a full dataset feed message with one entity per vehicle
func VehiclePositions(vehicles []transit.VehicleState, now time.Time) *gtfs.FeedMessage {
	message := &gtfs.FeedMessage{
		Header: &gtfs.FeedHeader{
			GtfsRealtimeVersion: proto.String(GTFSRealtimeVersion),
			Incrementality:      gtfs.FeedHeader_FULL_DATASET.Enum(),
			Timestamp:           proto.Uint64(uint64(now.Unix())),
		},
		Entity: make([]*gtfs.FeedEntity, 0, len(vehicles)),
	}

	for _, vehicle := range vehicles {
		position := &gtfs.VehiclePosition{
			Vehicle: &gtfs.VehicleDescriptor{
				Id:    proto.String(vehicle.VehicleID),
				Label: proto.String(vehicle.VehicleID),
			},
			Position: &gtfs.Position{
				Latitude:  proto.Float32(float32(vehicle.Lat)),
				Longitude: proto.Float32(float32(vehicle.Lon)),
				Speed:     proto.Float32(float32(kphToMetresPerSecond(vehicle.Speed))),
			},
			Timestamp: proto.Uint64(uint64(vehicle.LastUpdated.Unix())),
		}

		if vehicle.RouteCode != "" {
			position.Trip = &gtfs.TripDescriptor{
				RouteId: proto.String(vehicle.RouteCode),
			}
		}

		message.Entity = append(message.Entity, &gtfs.FeedEntity{
			Id:      proto.String(vehicle.VehicleID),
			Vehicle: position,
		})
	}

	return message
}

// MarshalVehiclePositions returns the protobuf wire encoding of VehiclePositions
func MarshalVehiclePositions(vehicles []transit.VehicleState, now time.Time) ([]byte, error) {
	return proto.Marshal(VehiclePositions(vehicles, now))
}

func kphToMetresPerSecond(kph float64) float64 {
	return kph / 3.6
}
