package catalog

import (
	"context"
	"errors"
	"regexp"

	"github.com/busmitra/busmitra/pkg/database"
	"github.com/busmitra/busmitra/pkg/transit"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoStore struct {
	db *database.Instance
}

func NewMongoStore(db *database.Instance) *MongoStore {
	return &MongoStore{db: db}
}

func (s *MongoStore) ListStops(ctx context.Context) ([]transit.Stop, error) {
	return find[transit.Stop](ctx, s.db.Collection(database.StopsCollection), bson.M{})
}

func (s *MongoStore) ListRouteStops(ctx context.Context, routeCode string) ([]transit.Stop, error) {
	opts := options.Find().SetSort(bson.D{{Key: "sequence", Value: 1}})

	return find[transit.Stop](ctx, s.db.Collection(database.StopsCollection), bson.M{"routeCode": routeCode}, opts)
}

func (s *MongoStore) InsertStop(ctx context.Context, stop *transit.Stop) error {
	result, err := s.db.Collection(database.StopsCollection).InsertOne(ctx, stop)
	if err != nil {
		return err
	}

	stop.ID, _ = result.InsertedID.(primitive.ObjectID)

	return nil
}

func (s *MongoStore) ListRoutes(ctx context.Context) ([]transit.Route, error) {
	return find[transit.Route](ctx, s.db.Collection(database.RoutesCollection), bson.M{})
}

func (s *MongoStore) InsertRoute(ctx context.Context, route *transit.Route) error {
	result, err := s.db.Collection(database.RoutesCollection).InsertOne(ctx, route)
	if err != nil {
		return err
	}

	route.ID, _ = result.InsertedID.(primitive.ObjectID)

	return nil
}

func (s *MongoStore) FindProfile(ctx context.Context, vehicleID string) (*transit.Profile, error) {
	var profile *transit.Profile
	err := s.db.Collection(database.ProfilesCollection).FindOne(ctx, bson.M{"vehicleId": vehicleID}).Decode(&profile)

	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}

	return profile, err
}

func (s *MongoStore) UpsertProfile(ctx context.Context, vehicleID string, update transit.ProfileUpdate) (*transit.Profile, error) {
	update.VehicleID = vehicleID
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var profile *transit.Profile
	err := s.db.Collection(database.ProfilesCollection).FindOneAndUpdate(
		ctx,
		bson.M{"vehicleId": vehicleID},
		bson.M{"$set": update},
		opts,
	).Decode(&profile)

	return profile, err
}

func (s *MongoStore) SetVehicleRouteCode(ctx context.Context, vehicleID string, routeCode string) error {
	_, err := s.db.Collection(database.VehiclesCollection).UpdateOne(
		ctx,
		bson.M{"vehicleId": vehicleID},
		bson.M{"$set": bson.M{"routeCode": routeCode}},
	)

	return err
}

func (s *MongoStore) LatestAnnotation(ctx context.Context) (*transit.Annotation, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "updatedAt", Value: -1}})

	var annotation *transit.Annotation
	err := s.db.Collection(database.AnnotationsCollection).FindOne(ctx, bson.M{}, opts).Decode(&annotation)

	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}

	return annotation, err
}

// ReplaceAnnotations keeps a single saved design: everything is deleted before the new one is written
func (s *MongoStore) ReplaceAnnotations(ctx context.Context, annotation *transit.Annotation) error {
	collection := s.db.Collection(database.AnnotationsCollection)

	if _, err := collection.DeleteMany(ctx, bson.M{}); err != nil {
		return err
	}

	_, err := collection.InsertOne(ctx, annotation)

	return err
}

func (s *MongoStore) FindFavorite(ctx context.Context, deviceID string, vehicleID string) (*transit.Favorite, error) {
	var favorite *transit.Favorite
	err := s.db.Collection(database.FavoritesCollection).FindOne(ctx, bson.M{"deviceId": deviceID, "vehicleId": vehicleID}).Decode(&favorite)

	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}

	return favorite, err
}

func (s *MongoStore) InsertFavorite(ctx context.Context, favorite *transit.Favorite) error {
	result, err := s.db.Collection(database.FavoritesCollection).InsertOne(ctx, favorite)
	if err != nil {
		return err
	}

	favorite.ID, _ = result.InsertedID.(primitive.ObjectID)

	return nil
}

func (s *MongoStore) DeleteFavorite(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.db.Collection(database.FavoritesCollection).DeleteOne(ctx, bson.M{"_id": id})

	return err
}

func (s *MongoStore) ListFavorites(ctx context.Context, deviceID string) ([]transit.Favorite, error) {
	return find[transit.Favorite](ctx, s.db.Collection(database.FavoritesCollection), bson.M{"deviceId": deviceID})
}

func (s *MongoStore) SearchVehicles(ctx context.Context, query string) ([]transit.VehicleState, error) {
	return find[transit.VehicleState](ctx, s.db.Collection(database.VehiclesCollection), bson.M{"vehicleId": substringRegex(query)})
}

func (s *MongoStore) SearchRoutes(ctx context.Context, query string) ([]transit.Route, error) {
	return find[transit.Route](ctx, s.db.Collection(database.RoutesCollection), bson.M{"name": substringRegex(query)})
}

func (s *MongoStore) SearchStops(ctx context.Context, query string) ([]transit.Stop, error) {
	return find[transit.Stop](ctx, s.db.Collection(database.StopsCollection), bson.M{"name": substringRegex(query)})
}

func substringRegex(query string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
}

func find[T any](ctx context.Context, collection *mongo.Collection, filter interface{}, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}

	return database.DecodeAll[T](ctx, cursor)
}
