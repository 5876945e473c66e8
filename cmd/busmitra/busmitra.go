package main

import (
	"os"
	"time"

	"github.com/busmitra/busmitra/pkg/api"
	"github.com/busmitra/busmitra/pkg/archiver"
	"github.com/busmitra/busmitra/pkg/symbols"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	_ "time/tzdata"
)

func main() {
	if os.Getenv("BUSMITRA_LOG_FORMAT") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	if os.Getenv("BUSMITRA_DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	app := &cli.App{
		Name:        "busmitra",
		Description: "Live bus tracking backend - GPS ingestion, vehicle state and route catalogue",

		Commands: []*cli.Command{
			api.RegisterCLI(),
			archiver.RegisterCLI(),
			symbols.RegisterCLI(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}
