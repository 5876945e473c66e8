// Package trackertest provides an in-memory tracker.Store for tests.
package trackertest

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/busmitra/busmitra/pkg/tracker"
	"github.com/busmitra/busmitra/pkg/transit"
)

type MemoryStore struct {
	mu sync.Mutex

	Vehicles  map[string]*transit.VehicleState
	Positions []transit.PositionRecord
	Profiles  map[string]*transit.Profile

	// Err, when set, is returned by every write
	Err error
	// UpsertErr, when set, is returned by UpsertVehicleState only
	UpsertErr error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		Vehicles: map[string]*transit.VehicleState{},
		Profiles: map[string]*transit.Profile{},
	}
}

func (s *MemoryStore) PutProfile(profile transit.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Profiles[profile.VehicleID] = &profile
}

func (s *MemoryStore) PutVehicle(vehicle transit.VehicleState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Vehicles[vehicle.VehicleID] = &vehicle
}

func (s *MemoryStore) Vehicle(vehicleID string) (transit.VehicleState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	vehicle, ok := s.Vehicles[vehicleID]
	if !ok {
		return transit.VehicleState{}, false
	}

	return *vehicle, true
}

func (s *MemoryStore) PositionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.Positions)
}

func (s *MemoryStore) InsertPosition(_ context.Context, record *transit.PositionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return s.Err
	}

	s.Positions = append(s.Positions, *record)

	return nil
}

func (s *MemoryStore) FindProfile(_ context.Context, vehicleID string) (*transit.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, ok := s.Profiles[vehicleID]
	if !ok {
		return nil, nil
	}

	copied := *profile
	return &copied, nil
}

func (s *MemoryStore) UpsertVehicleState(_ context.Context, update tracker.VehicleStateUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return s.Err
	}
	if s.UpsertErr != nil {
		return s.UpsertErr
	}

	vehicle, ok := s.Vehicles[update.VehicleID]
	if !ok {
		vehicle = &transit.VehicleState{VehicleID: update.VehicleID}
		s.Vehicles[update.VehicleID] = vehicle
	}

	vehicle.Lat = update.Lat
	vehicle.Lon = update.Lon
	vehicle.Speed = update.Speed
	vehicle.LastUpdated = update.LastUpdated
	vehicle.Status = update.Status
	if update.RouteCode != "" {
		vehicle.RouteCode = update.RouteCode
	}

	return nil
}

func (s *MemoryStore) FindVehiclesUpdatedSince(_ context.Context, since time.Time, routeCode string) ([]transit.VehicleState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	vehicles := []transit.VehicleState{}
	for _, vehicle := range s.Vehicles {
		if vehicle.LastUpdated.Before(since) {
			continue
		}
		if routeCode != "" && vehicle.RouteCode != routeCode {
			continue
		}

		vehicles = append(vehicles, *vehicle)
	}

	sort.Slice(vehicles, func(i, j int) bool {
		return vehicles[i].VehicleID < vehicles[j].VehicleID
	})

	return vehicles, nil
}

func (s *MemoryStore) FindPositions(_ context.Context, vehicleID string, limit int64) ([]transit.PositionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := []transit.PositionRecord{}
	for _, record := range s.Positions {
		if record.VehicleID == vehicleID {
			records = append(records, record)
		}
	}

	// Newest first, later inserts first on equal timestamps like an _id descending sort
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.After(records[j].Timestamp)
	})
	for start := 0; start < len(records); {
		end := start + 1
		for end < len(records) && records[end].Timestamp.Equal(records[start].Timestamp) {
			end++
		}
		slices.Reverse(records[start:end])
		start = end
	}

	if int64(len(records)) > limit {
		records = records[:limit]
	}

	return records, nil
}

func (s *MemoryStore) FindPositionsBefore(_ context.Context, cutoff time.Time) ([]transit.PositionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := []transit.PositionRecord{}
	for _, record := range s.Positions {
		if record.Timestamp.Before(cutoff) {
			records = append(records, record)
		}
	}

	return records, nil
}

func (s *MemoryStore) DeletePositionsBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return 0, s.Err
	}

	kept := s.Positions[:0]
	var deleted int64
	for _, record := range s.Positions {
		if record.Timestamp.Before(cutoff) {
			deleted++
			continue
		}

		kept = append(kept, record)
	}
	s.Positions = kept

	return deleted, nil
}

// Clock is a settable time source for Tracker.Now
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock(now time.Time) *Clock {
	return &Clock{now: now}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

// RecordingEvents keeps every ingest event in memory
type RecordingEvents struct {
	mu     sync.Mutex
	Events []tracker.IngestEvent
}

func (r *RecordingEvents) RecordIngest(event tracker.IngestEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Events = append(r.Events, event)
}

var _ tracker.Store = (*MemoryStore)(nil)
var _ tracker.EventRecorder = (*RecordingEvents)(nil)
