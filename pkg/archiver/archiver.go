package archiver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"github.com/busmitra/busmitra/pkg/transit"
	"github.com/rs/zerolog/log"
	iso8601 "github.com/senseyeio/duration"
)

type HistoryStore interface {
	FindPositionsBefore(ctx context.Context, cutoff time.Time) ([]transit.PositionRecord, error)
	DeletePositionsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Archiver prunes position history older than Retention. When OutputDirectory is set the pruned
// records are written there as CSV first, and nothing is deleted if that write fails.
type Archiver struct {
	Store           HistoryStore
	Retention       iso8601.Duration
	OutputDirectory string

	Now func() time.Time
}

func ParseRetention(retention string) (iso8601.Duration, error) {
	duration, err := iso8601.ParseISO8601(retention)
	if err != nil {
		return duration, fmt.Errorf("invalid history retention %q: %w", retention, err)
	}

	now := time.Now()
	if !duration.Shift(now).After(now) {
		return duration, errors.New("history retention must be longer than zero")
	}

	return duration, nil
}

func (a *Archiver) Cutoff() time.Time {
	now := a.now()

	return now.Add(-a.Retention.Shift(now).Sub(now))
}

func (a *Archiver) Perform(ctx context.Context) (int64, error) {
	cutOffTime := a.Cutoff()

	log.Info().Time("cutoff", cutOffTime).Msg("Pruning position history")

	if a.OutputDirectory != "" {
		records, err := a.Store.FindPositionsBefore(ctx, cutOffTime)
		if err != nil {
			return 0, err
		}

		if len(records) == 0 {
			log.Info().Msg("No position history older than cutoff")
			return 0, nil
		}

		if err := a.writeBundle(records); err != nil {
			return 0, err
		}
	}

	deleted, err := a.Store.DeletePositionsBefore(ctx, cutOffTime)
	if err != nil {
		return 0, err
	}

	log.Info().Int64("deleted", deleted).Msg("Position history pruned")

	return deleted, nil
}

// RunPeriodically prunes once per interval until the context is cancelled
func (a *Archiver) RunPeriodically(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := a.Perform(ctx); err != nil {
			log.Error().Err(err).Msg("Failed to prune position history")
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (a *Archiver) writeBundle(records []transit.PositionRecord) error {
	filename := strings.ReplaceAll(fmt.Sprintf("%s.csv", a.now().Format(time.RFC3339)), ":", "-")

	file, err := os.Create(path.Join(a.OutputDirectory, filename))
	if err != nil {
		return err
	}

	if err := transit.WriteTrailCSV(file, records); err != nil {
		file.Close()
		return err
	}

	log.Info().Str("file", filename).Int("records", len(records)).Msg("Archived position history")

	return file.Close()
}

func (a *Archiver) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}

	return a.Now()
}
