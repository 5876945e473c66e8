package api

import (
	"context"
	"time"

	"github.com/busmitra/busmitra/pkg/archiver"
	"github.com/busmitra/busmitra/pkg/catalog"
	"github.com/busmitra/busmitra/pkg/database"
	"github.com/busmitra/busmitra/pkg/elastic_client"
	"github.com/busmitra/busmitra/pkg/tracker"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

const archiveInterval = time.Hour

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "web-api",
		Usage: "Provides the tracking web API",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run web api server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Value: ":5000",
						Usage: "listen target for the web server",
					},
					&cli.StringFlag{
						Name:  "history-retention",
						Usage: "ISO8601 duration of position history to keep, history is kept forever when unset",
					},
					&cli.StringFlag{
						Name:  "archive-directory",
						Usage: "write pruned history to this directory as CSV before deleting it",
					},
				},
				Action: func(c *cli.Context) error {
					db, err := database.Connect()
					if err != nil {
						return err
					}
					defer db.Disconnect(context.Background())

					elasticClient, err := elastic_client.Connect(false)
					if err != nil {
						return err
					}
					defer elasticClient.Close(context.Background())

					trackerStore := tracker.NewMongoStore(db)

					vehicleTracker := tracker.New(trackerStore)
					if elasticClient != nil {
						vehicleTracker.Events = elastic_client.IngestEvents{Client: elasticClient}
					}

					if retention := c.String("history-retention"); retention != "" {
						duration, err := archiver.ParseRetention(retention)
						if err != nil {
							return err
						}

						historyArchiver := &archiver.Archiver{
							Store:           trackerStore,
							Retention:       duration,
							OutputDirectory: c.String("archive-directory"),
						}

						ctx, cancel := context.WithCancel(c.Context)
						defer cancel()

						go historyArchiver.RunPeriodically(ctx, archiveInterval)

						log.Info().Str("retention", retention).Msg("Position history pruning enabled")
					}

					return SetupServer(c.String("listen"), Services{
						Tracker: vehicleTracker,
						Catalog: catalog.NewService(catalog.NewMongoStore(db)),
					})
				},
			},
		},
	}
}
