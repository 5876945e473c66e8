package database

import (
	"context"
	"time"

	"github.com/busmitra/busmitra/pkg/util"
	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultMongoConnectionString = "mongodb://localhost:27017/"
const defaultMongoDatabase = "busmitra"

// Collection names are shared with the existing deployment, do not rename
const (
	VehiclesCollection    = "vehicles"
	LogsCollection        = "logs"
	ProfilesCollection    = "busprofiles"
	RoutesCollection      = "routes"
	StopsCollection       = "stops"
	AnnotationsCollection = "annotations"
	FavoritesCollection   = "favorites"
)

type Instance struct {
	Client   *mongo.Client
	Database *mongo.Database
}

// Connect opens the MongoDB connection, retrying the initial ping with exponential backoff, and
// makes sure the indexes exist. The returned Instance is meant to be shared by every request.
func Connect() (*Instance, error) {
	connectionString := util.GetSetting("MONGODB_CONNECTION", defaultMongoConnectionString)
	dbName := util.GetSetting("MONGODB_DATABASE", defaultMongoDatabase)

	clientOptions := options.Client().
		ApplyURI(connectionString).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})

	client, err := mongo.Connect(context.Background(), clientOptions)
	if err != nil {
		return nil, err
	}

	retryBackoff := backoff.NewExponentialBackOff()
	retryBackoff.MaxElapsedTime = 1 * time.Minute

	err = backoff.RetryNotify(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		return client.Ping(ctx, nil)
	}, retryBackoff, func(err error, next time.Duration) {
		log.Warn().Err(err).Str("retry", next.String()).Msg("MongoDB not reachable yet")
	})
	if err != nil {
		client.Disconnect(context.Background())
		return nil, err
	}

	instance := &Instance{
		Client:   client,
		Database: client.Database(dbName),
	}

	instance.createIndexes()

	log.Info().Str("database", dbName).Msg("Connected to MongoDB")

	return instance, nil
}

func (i *Instance) Collection(collectionName string) *mongo.Collection {
	return i.Database.Collection(collectionName)
}

func (i *Instance) Disconnect(ctx context.Context) error {
	return i.Client.Disconnect(ctx)
}
