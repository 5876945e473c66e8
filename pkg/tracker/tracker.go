package tracker

import (
	"context"
	"time"

	"github.com/busmitra/busmitra/pkg/transit"
)

// FreshnessWindow is how recently a vehicle must have reported to count as active
const FreshnessWindow = 30 * time.Minute

// HistoryLimit is the maximum number of position records returned for one vehicle
const HistoryLimit = 100

type Result string

const (
	ResultOK      Result = "OK"
	ResultIgnored Result = "Ignored"
)

// Tracker owns the live vehicle state. Every call goes straight to the Store; concurrent writes for
// the same vehicle are serialised by the store's upsert, last writer wins.
type Tracker struct {
	Store  Store
	Events EventRecorder
	Now    func() time.Time
}

func New(store Store) *Tracker {
	return &Tracker{
		Store:  store,
		Events: NoopEventRecorder{},
		Now:    time.Now,
	}
}

// Ingest records one position report. Reports without usable coordinates are acknowledged as
// ignored and leave no trace in the store.
//
// The history append and the state upsert are separate writes. If the second one fails the first
// is not rolled back; the next accepted report for the vehicle overwrites the state anyway.
func (t *Tracker) Ingest(ctx context.Context, params transit.Params) (Result, error) {
	report := ParseReport(params)
	now := t.Now()

	if !report.Valid() {
		t.Events.RecordIngest(IngestEvent{
			Timestamp: now,
			VehicleID: report.VehicleID,
			Outcome:   IngestOutcomeIgnored,
		})

		return ResultIgnored, nil
	}

	err := t.Store.InsertPosition(ctx, &transit.PositionRecord{
		VehicleID: report.VehicleID,
		Lat:       report.Lat,
		Lon:       report.Lon,
		SpeedKph:  report.SpeedKph,
		Timestamp: now,
		RawParams: report.Raw,
	})
	if err != nil {
		t.recordFailure(now, report, err)
		return "", err
	}

	routeCode, err := t.RouteCode(ctx, report.VehicleID)
	if err != nil {
		t.recordFailure(now, report, err)
		return "", err
	}

	err = t.Store.UpsertVehicleState(ctx, VehicleStateUpdate{
		VehicleID:   report.VehicleID,
		Lat:         report.Lat,
		Lon:         report.Lon,
		Speed:       report.SpeedKph,
		LastUpdated: now,
		Status:      transit.VehicleStatusActive,
		RouteCode:   routeCode,
	})
	if err != nil {
		t.recordFailure(now, report, err)
		return "", err
	}

	t.Events.RecordIngest(IngestEvent{
		Timestamp: now,
		VehicleID: report.VehicleID,
		Outcome:   IngestOutcomeAccepted,
		RouteCode: routeCode,
		SpeedKph:  report.SpeedKph,
		Location:  []float64{report.Lon, report.Lat},
	})

	return ResultOK, nil
}

// RouteCode returns the route code from the vehicle's profile, or "" when there is no profile
func (t *Tracker) RouteCode(ctx context.Context, vehicleID string) (string, error) {
	profile, err := t.Store.FindProfile(ctx, vehicleID)
	if err != nil {
		return "", err
	}

	if profile == nil {
		return "", nil
	}

	return profile.RouteCode, nil
}

func (t *Tracker) ActiveVehicles(ctx context.Context) ([]transit.VehicleState, error) {
	return t.Store.FindVehiclesUpdatedSince(ctx, t.freshnessCutoff(), "")
}

func (t *Tracker) ActiveVehiclesOnRoute(ctx context.Context, routeCode string) ([]transit.VehicleState, error) {
	if routeCode == "" {
		return []transit.VehicleState{}, nil
	}

	return t.Store.FindVehiclesUpdatedSince(ctx, t.freshnessCutoff(), routeCode)
}

func (t *Tracker) History(ctx context.Context, vehicleID string) ([]transit.PositionRecord, error) {
	return t.Store.FindPositions(ctx, vehicleID, HistoryLimit)
}

func (t *Tracker) freshnessCutoff() time.Time {
	return t.Now().Add(-FreshnessWindow)
}

func (t *Tracker) recordFailure(now time.Time, report PositionReport, err error) {
	t.Events.RecordIngest(IngestEvent{
		Timestamp: now,
		VehicleID: report.VehicleID,
		Outcome:   IngestOutcomeFailed,
		Error:     err.Error(),
	})
}
