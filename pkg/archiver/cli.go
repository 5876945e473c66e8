package archiver

import (
	"context"

	"github.com/busmitra/busmitra/pkg/database"
	"github.com/busmitra/busmitra/pkg/tracker"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "archiver",
		Usage: "Prunes old position history",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "prune position history once",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "history-retention",
						Usage:    "ISO8601 duration of history to keep, eg. P30D",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "archive-directory",
						Usage: "write pruned records to this directory as CSV before deleting them",
					},
				},
				Action: func(c *cli.Context) error {
					retention, err := ParseRetention(c.String("history-retention"))
					if err != nil {
						return err
					}

					db, err := database.Connect()
					if err != nil {
						return err
					}
					defer db.Disconnect(context.Background())

					archiver := &Archiver{
						Store:           tracker.NewMongoStore(db),
						Retention:       retention,
						OutputDirectory: c.String("archive-directory"),
					}

					_, err = archiver.Perform(c.Context)

					return err
				},
			},
		},
	}
}
