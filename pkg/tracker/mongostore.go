package tracker

import (
	"context"
	"errors"
	"time"

	"github.com/busmitra/busmitra/pkg/database"
	"github.com/busmitra/busmitra/pkg/transit"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoStore struct {
	vehicles *mongo.Collection
	logs     *mongo.Collection
	profiles *mongo.Collection
}

func NewMongoStore(db *database.Instance) *MongoStore {
	return &MongoStore{
		vehicles: db.Collection(database.VehiclesCollection),
		logs:     db.Collection(database.LogsCollection),
		profiles: db.Collection(database.ProfilesCollection),
	}
}

func (s *MongoStore) InsertPosition(ctx context.Context, record *transit.PositionRecord) error {
	_, err := s.logs.InsertOne(ctx, record)

	return err
}

func (s *MongoStore) FindProfile(ctx context.Context, vehicleID string) (*transit.Profile, error) {
	var profile *transit.Profile
	err := s.profiles.FindOne(ctx, bson.M{"vehicleId": vehicleID}).Decode(&profile)

	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}

	return profile, err
}

func (s *MongoStore) UpsertVehicleState(ctx context.Context, update VehicleStateUpdate) error {
	updateMap := bson.M{
		"lat":         update.Lat,
		"lon":         update.Lon,
		"speed":       update.Speed,
		"lastUpdated": update.LastUpdated,
		"status":      update.Status,
	}
	if update.RouteCode != "" {
		updateMap["routeCode"] = update.RouteCode
	}

	_, err := s.vehicles.UpdateOne(
		ctx,
		bson.M{"vehicleId": update.VehicleID},
		bson.M{"$set": updateMap},
		options.Update().SetUpsert(true),
	)

	return err
}

func (s *MongoStore) FindVehiclesUpdatedSince(ctx context.Context, since time.Time, routeCode string) ([]transit.VehicleState, error) {
	query := bson.M{"lastUpdated": bson.M{"$gte": since}}
	if routeCode != "" {
		query["routeCode"] = routeCode
	}

	cursor, err := s.vehicles.Find(ctx, query)
	if err != nil {
		return nil, err
	}

	return database.DecodeAll[transit.VehicleState](ctx, cursor)
}

func (s *MongoStore) FindPositions(ctx context.Context, vehicleID string, limit int64) ([]transit.PositionRecord, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(limit)

	cursor, err := s.logs.Find(ctx, bson.M{"vehicleId": vehicleID}, opts)
	if err != nil {
		return nil, err
	}

	return database.DecodeAll[transit.PositionRecord](ctx, cursor)
}

func (s *MongoStore) FindPositionsBefore(ctx context.Context, cutoff time.Time) ([]transit.PositionRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})

	cursor, err := s.logs.Find(ctx, bson.M{"timestamp": bson.M{"$lt": cutoff}}, opts)
	if err != nil {
		return nil, err
	}

	return database.DecodeAll[transit.PositionRecord](ctx, cursor)
}

func (s *MongoStore) DeletePositionsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.logs.DeleteMany(ctx, bson.M{"timestamp": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, err
	}

	return result.DeletedCount, nil
}
