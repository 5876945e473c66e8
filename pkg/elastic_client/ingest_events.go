package elastic_client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/busmitra/busmitra/pkg/tracker"
	"github.com/rs/zerolog/log"
)

// IngestEvents indexes every ingestion outcome into a weekly index
type IngestEvents struct {
	Client *Client
}

func IngestEventsIndexName(timestamp time.Time) string {
	yearNumber, weekNumber := timestamp.ISOWeek()

	return fmt.Sprintf("busmitra-ingest-events-%d-%d", yearNumber, weekNumber)
}

func (e IngestEvents) RecordIngest(event tracker.IngestEvent) {
	if e.Client == nil {
		return
	}

	elasticEvent, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal ingest event")
		return
	}

	e.Client.IndexRequest(IngestEventsIndexName(event.Timestamp), bytes.NewReader(elasticEvent))
}
