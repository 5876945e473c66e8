package catalog

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/busmitra/busmitra/pkg/transit"
	"github.com/busmitra/busmitra/pkg/util"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
)

var ErrStopFieldsRequired = errors.New("Name, Latitude and Longitude are required!")
var ErrFavoriteFieldsRequired = errors.New("deviceId and vehicleId are required")

// Service holds the plain CRUD operations around stops, routes, profiles, annotations and favourites
type Service struct {
	Store Store
	Now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{
		Store: store,
		Now:   time.Now,
	}
}

// NewStop builds a stop from raw request fields. Name, lat and lon are required and a zero
// coordinate counts as missing. routeCode defaults to General and sequence to 0.
func NewStop(params transit.Params) (*transit.Stop, error) {
	name := strings.TrimSpace(params["name"])
	lat := parseFloat(params["lat"])
	lon := parseFloat(params["lon"])

	if name == "" || lat == 0 || lon == 0 || math.IsNaN(lat) || math.IsNaN(lon) {
		return nil, ErrStopFieldsRequired
	}

	routeCode := params["routeCode"]
	if routeCode == "" {
		routeCode = transit.DefaultStopRouteCode
	}

	sequence, err := strconv.Atoi(strings.TrimSpace(params["sequence"]))
	if err != nil {
		sequence = 0
	}

	return &transit.Stop{
		Name:      name,
		Lat:       lat,
		Lon:       lon,
		RouteCode: routeCode,
		Sequence:  sequence,
	}, nil
}

func (s *Service) CreateStop(ctx context.Context, params transit.Params) (*transit.Stop, error) {
	stop, err := NewStop(params)
	if err != nil {
		return nil, err
	}

	if err := s.Store.InsertStop(ctx, stop); err != nil {
		return nil, err
	}

	log.Info().Str("name", stop.Name).Str("routeCode", stop.RouteCode).Msg("New stop added")

	return stop, nil
}

// SaveProfile upserts the profile and, when a route code was given, copies it onto the live vehicle
// state so the map reflects the new route without waiting for the next position report
func (s *Service) SaveProfile(ctx context.Context, vehicleID string, update transit.ProfileUpdate) (*transit.Profile, error) {
	update.Amenities = util.CleanStrings(update.Amenities)

	profile, err := s.Store.UpsertProfile(ctx, vehicleID, update)
	if err != nil {
		return nil, err
	}

	if update.RouteCode != "" {
		if err := s.Store.SetVehicleRouteCode(ctx, vehicleID, update.RouteCode); err != nil {
			return nil, err
		}
	}

	log.Info().Str("vehicle", vehicleID).Msg("Profile updated")

	return profile, nil
}

// Annotations returns the elements of the most recent saved map design, or an empty list
func (s *Service) Annotations(ctx context.Context) ([]interface{}, error) {
	annotation, err := s.Store.LatestAnnotation(ctx)
	if err != nil {
		return nil, err
	}

	if annotation == nil || annotation.Elements == nil {
		return []interface{}{}, nil
	}

	return annotation.Elements, nil
}

func (s *Service) SaveAnnotations(ctx context.Context, elements []interface{}) error {
	if elements == nil {
		elements = []interface{}{}
	}

	return s.Store.ReplaceAnnotations(ctx, &transit.Annotation{
		Version:   transit.AnnotationVersion,
		UpdatedAt: s.Now(),
		Elements:  elements,
	})
}

// ToggleFavorite removes the favourite if it exists and creates it otherwise. It returns whether
// the vehicle is saved afterwards.
func (s *Service) ToggleFavorite(ctx context.Context, deviceID string, vehicleID string) (bool, error) {
	if deviceID == "" || vehicleID == "" {
		return false, ErrFavoriteFieldsRequired
	}

	existing, err := s.Store.FindFavorite(ctx, deviceID, vehicleID)
	if err != nil {
		return false, err
	}

	if existing != nil {
		return false, s.Store.DeleteFavorite(ctx, existing.ID)
	}

	err = s.Store.InsertFavorite(ctx, &transit.Favorite{DeviceID: deviceID, VehicleID: vehicleID})

	return err == nil, err
}

type SearchResults struct {
	Buses  []transit.VehicleState `json:"buses"`
	Routes []transit.Route        `json:"routes"`
	Stops  []transit.Stop         `json:"stops"`
}

// Search looks the query up in vehicles, routes and stops concurrently
func (s *Service) Search(ctx context.Context, query string) (*SearchResults, error) {
	query = strings.ToLower(query)
	results := &SearchResults{}

	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()

	p.Go(func(ctx context.Context) error {
		buses, err := s.Store.SearchVehicles(ctx, query)
		results.Buses = buses
		return err
	})
	p.Go(func(ctx context.Context) error {
		routes, err := s.Store.SearchRoutes(ctx, query)
		results.Routes = routes
		return err
	})
	p.Go(func(ctx context.Context) error {
		stops, err := s.Store.SearchStops(ctx, query)
		results.Stops = stops
		return err
	})

	if err := p.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func parseFloat(value string) float64 {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsInf(parsed, 0) {
		return math.NaN()
	}

	return parsed
}
