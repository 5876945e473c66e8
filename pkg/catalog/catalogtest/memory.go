// Package catalogtest provides an in-memory catalog.Store for tests.
package catalogtest

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/busmitra/busmitra/pkg/catalog"
	"github.com/busmitra/busmitra/pkg/transit"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MemoryStore struct {
	mu sync.Mutex

	Stops       []transit.Stop
	Routes      []transit.Route
	Profiles    map[string]*transit.Profile
	Vehicles    map[string]*transit.VehicleState
	Annotations []transit.Annotation
	Favorites   []transit.Favorite

	// Err, when set, is returned by every method
	Err error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		Profiles: map[string]*transit.Profile{},
		Vehicles: map[string]*transit.VehicleState{},
	}
}

func (s *MemoryStore) ListStops(_ context.Context) ([]transit.Stop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}

	return append([]transit.Stop{}, s.Stops...), nil
}

func (s *MemoryStore) ListRouteStops(_ context.Context, routeCode string) ([]transit.Stop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}

	stops := []transit.Stop{}
	for _, stop := range s.Stops {
		if stop.RouteCode == routeCode {
			stops = append(stops, stop)
		}
	}

	sort.SliceStable(stops, func(i, j int) bool {
		return stops[i].Sequence < stops[j].Sequence
	})

	return stops, nil
}

func (s *MemoryStore) InsertStop(_ context.Context, stop *transit.Stop) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return s.Err
	}

	stop.ID = primitive.NewObjectID()
	s.Stops = append(s.Stops, *stop)

	return nil
}

func (s *MemoryStore) ListRoutes(_ context.Context) ([]transit.Route, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}

	return append([]transit.Route{}, s.Routes...), nil
}

func (s *MemoryStore) InsertRoute(_ context.Context, route *transit.Route) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return s.Err
	}

	route.ID = primitive.NewObjectID()
	s.Routes = append(s.Routes, *route)

	return nil
}

func (s *MemoryStore) FindProfile(_ context.Context, vehicleID string) (*transit.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}

	profile, ok := s.Profiles[vehicleID]
	if !ok {
		return nil, nil
	}

	copied := *profile
	return &copied, nil
}

func (s *MemoryStore) UpsertProfile(_ context.Context, vehicleID string, update transit.ProfileUpdate) (*transit.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}

	profile, ok := s.Profiles[vehicleID]
	if !ok {
		profile = &transit.Profile{ID: primitive.NewObjectID(), VehicleID: vehicleID}
		s.Profiles[vehicleID] = profile
	}

	if update.RouteCode != "" {
		profile.RouteCode = update.RouteCode
	}
	if update.Type != "" {
		profile.Type = update.Type
	}
	if update.Fare != 0 {
		profile.Fare = update.Fare
	}
	if update.Rating != 0 {
		profile.Rating = update.Rating
	}
	if update.DriverName != "" {
		profile.DriverName = update.DriverName
	}
	if update.ContactNumber != "" {
		profile.ContactNumber = update.ContactNumber
	}
	if len(update.Amenities) > 0 {
		profile.Amenities = update.Amenities
	}
	if len(update.Photos) > 0 {
		profile.Photos = update.Photos
	}

	copied := *profile
	return &copied, nil
}

func (s *MemoryStore) SetVehicleRouteCode(_ context.Context, vehicleID string, routeCode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return s.Err
	}

	if vehicle, ok := s.Vehicles[vehicleID]; ok {
		vehicle.RouteCode = routeCode
	}

	return nil
}

func (s *MemoryStore) LatestAnnotation(_ context.Context) (*transit.Annotation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}

	var latest *transit.Annotation
	for i := range s.Annotations {
		if latest == nil || s.Annotations[i].UpdatedAt.After(latest.UpdatedAt) {
			latest = &s.Annotations[i]
		}
	}

	return latest, nil
}

func (s *MemoryStore) ReplaceAnnotations(_ context.Context, annotation *transit.Annotation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return s.Err
	}

	annotation.ID = primitive.NewObjectID()
	s.Annotations = []transit.Annotation{*annotation}

	return nil
}

func (s *MemoryStore) FindFavorite(_ context.Context, deviceID string, vehicleID string) (*transit.Favorite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}

	for _, favorite := range s.Favorites {
		if favorite.DeviceID == deviceID && favorite.VehicleID == vehicleID {
			found := favorite
			return &found, nil
		}
	}

	return nil, nil
}

func (s *MemoryStore) InsertFavorite(_ context.Context, favorite *transit.Favorite) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return s.Err
	}

	favorite.ID = primitive.NewObjectID()
	s.Favorites = append(s.Favorites, *favorite)

	return nil
}

func (s *MemoryStore) DeleteFavorite(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return s.Err
	}

	for i, favorite := range s.Favorites {
		if favorite.ID == id {
			s.Favorites = append(s.Favorites[:i], s.Favorites[i+1:]...)
			break
		}
	}

	return nil
}

func (s *MemoryStore) ListFavorites(_ context.Context, deviceID string) ([]transit.Favorite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}

	favorites := []transit.Favorite{}
	for _, favorite := range s.Favorites {
		if favorite.DeviceID == deviceID {
			favorites = append(favorites, favorite)
		}
	}

	return favorites, nil
}

func (s *MemoryStore) SearchVehicles(_ context.Context, query string) ([]transit.VehicleState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}

	vehicles := []transit.VehicleState{}
	for _, vehicle := range s.Vehicles {
		if containsFold(vehicle.VehicleID, query) {
			vehicles = append(vehicles, *vehicle)
		}
	}

	sort.Slice(vehicles, func(i, j int) bool {
		return vehicles[i].VehicleID < vehicles[j].VehicleID
	})

	return vehicles, nil
}

func (s *MemoryStore) SearchRoutes(_ context.Context, query string) ([]transit.Route, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}

	routes := []transit.Route{}
	for _, route := range s.Routes {
		if containsFold(route.Name, query) {
			routes = append(routes, route)
		}
	}

	return routes, nil
}

func (s *MemoryStore) SearchStops(_ context.Context, query string) ([]transit.Stop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}

	stops := []transit.Stop{}
	for _, stop := range s.Stops {
		if containsFold(stop.Name, query) {
			stops = append(stops, stop)
		}
	}

	return stops, nil
}

func containsFold(value string, query string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(query))
}

var _ catalog.Store = (*MemoryStore)(nil)
