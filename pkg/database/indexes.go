package database

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (i *Instance) createIndexes() {
	i.createVehicleIndexes()
	i.createLogIndexes()
	i.createCatalogIndexes()
}

func (i *Instance) createVehicleIndexes() {
	// Vehicles
	_, err := i.Collection(VehiclesCollection).Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "vehicleId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "lastUpdated", Value: 1}},
		},
		{
			Keys: bson.D{
				{Key: "routeCode", Value: 1},
				{Key: "lastUpdated", Value: 1},
			},
		},
	}, options.CreateIndexes())
	if err != nil {
		log.Error().Err(err).Msg("Creating Index")
	}

	// Bus Profiles
	_, err = i.Collection(ProfilesCollection).Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "vehicleId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}, options.CreateIndexes())
	if err != nil {
		log.Error().Err(err).Msg("Creating Index")
	}
}

func (i *Instance) createLogIndexes() {
	// No TTL here, history is only ever pruned by the archiver when a retention is configured
	_, err := i.Collection(LogsCollection).Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "vehicleId", Value: 1},
				{Key: "timestamp", Value: -1},
			},
		},
		{
			Keys: bson.D{{Key: "timestamp", Value: 1}},
		},
	}, options.CreateIndexes())
	if err != nil {
		log.Error().Err(err).Msg("Creating Index")
	}
}

func (i *Instance) createCatalogIndexes() {
	// Stops
	_, err := i.Collection(StopsCollection).Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "routeCode", Value: 1},
				{Key: "sequence", Value: 1},
			},
		},
	}, options.CreateIndexes())
	if err != nil {
		log.Error().Err(err).Msg("Creating Index")
	}

	// Favorites
	_, err = i.Collection(FavoritesCollection).Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "deviceId", Value: 1},
				{Key: "vehicleId", Value: 1},
			},
		},
	}, options.CreateIndexes())
	if err != nil {
		log.Error().Err(err).Msg("Creating Index")
	}
}
