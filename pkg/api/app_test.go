package api_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/busmitra/busmitra/pkg/api"
	"github.com/busmitra/busmitra/pkg/catalog"
	"github.com/busmitra/busmitra/pkg/catalog/catalogtest"
	"github.com/busmitra/busmitra/pkg/tracker"
	"github.com/busmitra/busmitra/pkg/tracker/trackertest"
	"github.com/busmitra/busmitra/pkg/transit"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
)

var testNow = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

type testServer struct {
	app       *fiber.App
	positions *trackertest.MemoryStore
	catalog   *catalogtest.MemoryStore
	clock     *trackertest.Clock
}

func newTestServer() *testServer {
	positions := trackertest.NewMemoryStore()
	catalogStore := catalogtest.NewMemoryStore()
	clock := trackertest.NewClock(testNow)

	vehicleTracker := tracker.New(positions)
	vehicleTracker.Now = clock.Now

	catalogService := catalog.NewService(catalogStore)
	catalogService.Now = clock.Now

	return &testServer{
		app: api.NewApp(api.Services{
			Tracker: vehicleTracker,
			Catalog: catalogService,
		}),
		positions: positions,
		catalog:   catalogStore,
		clock:     clock,
	}
}

func (s *testServer) do(t *testing.T, req *http.Request) (int, string) {
	t.Helper()

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, string(body)
}

func (s *testServer) doJSON(t *testing.T, req *http.Request) (int, map[string]interface{}) {
	t.Helper()

	status, body := s.do(t, req)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(body), &decoded), body)

	return status, decoded
}

func jsonRequest(method string, target string, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	return req
}

func TestLogQueryString(t *testing.T) {
	server := newTestServer()

	status, body := server.do(t, httptest.NewRequest(http.MethodGet, "/log?bus_id=V1&lat=12.9&lon=77.5&spd_kph=40", nil))

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "OK", body)

	vehicle, ok := server.positions.Vehicle("V1")
	require.True(t, ok)
	assert.Equal(t, 12.9, vehicle.Lat)
	assert.Equal(t, 77.5, vehicle.Lon)
	assert.Equal(t, 40.0, vehicle.Speed)
	assert.Equal(t, transit.VehicleStatusActive, vehicle.Status)
	assert.Equal(t, 1, server.positions.PositionCount())
	assert.Equal(t, "40", server.positions.Positions[0].RawParams["spd_kph"])
}

func TestLogFormWithoutContentType(t *testing.T) {
	server := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/log", strings.NewReader("aid=V3&lat=12.1&lon=77.2"))
	req.Header.Del("Content-Type")

	status, body := server.do(t, req)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "OK", body)

	vehicle, ok := server.positions.Vehicle("V3")
	require.True(t, ok)
	assert.Equal(t, 12.1, vehicle.Lat)
	assert.Equal(t, 0.0, vehicle.Speed)
}

func TestLogFormURLEncoded(t *testing.T) {
	server := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/log", strings.NewReader("bus_id=V5&lat=13.0&lon=77.6&spd_kph=abc"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	status, body := server.do(t, req)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "OK", body)

	vehicle, ok := server.positions.Vehicle("V5")
	require.True(t, ok)
	assert.Equal(t, 0.0, vehicle.Speed)
}

func TestLogJSON(t *testing.T) {
	server := newTestServer()

	status, body := server.do(t, jsonRequest(http.MethodPost, "/log", `{"bus_id":"V4","lat":12.5,"lon":77.1,"spd_kph":"22.5"}`))

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "OK", body)

	vehicle, ok := server.positions.Vehicle("V4")
	require.True(t, ok)
	assert.Equal(t, 12.5, vehicle.Lat)
	assert.Equal(t, 22.5, vehicle.Speed)
}

func TestLogIgnored(t *testing.T) {
	server := newTestServer()

	status, body := server.do(t, httptest.NewRequest(http.MethodGet, "/log?bus_id=V2&lat=0&lon=77.5", nil))

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Ignored", body)
	assert.Equal(t, 0, server.positions.PositionCount())

	_, ok := server.positions.Vehicle("V2")
	assert.False(t, ok)
}

func TestLogInfiniteValues(t *testing.T) {
	server := newTestServer()

	for _, target := range []string{
		"/log?bus_id=V1&lat=inf&lon=77.5",
		"/log?bus_id=V1&lat=12.9&lon=Infinity",
		"/log?bus_id=V1&lat=-inf&lon=-inf",
	} {
		status, body := server.do(t, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "Ignored", body, target)
	}
	assert.Equal(t, 0, server.positions.PositionCount())

	status, body := server.do(t, httptest.NewRequest(http.MethodGet, "/log?bus_id=V1&lat=12.9&lon=77.5&spd_kph=inf", nil))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "OK", body)

	status, decoded := server.doJSON(t, httptest.NewRequest(http.MethodGet, "/active-drivers", nil))
	assert.Equal(t, http.StatusOK, status)

	drivers := decoded["drivers"].([]interface{})
	require.Len(t, drivers, 1)
	assert.Equal(t, 0.0, drivers[0].(map[string]interface{})["speed"])

	status, _ = server.doJSON(t, httptest.NewRequest(http.MethodGet, "/history/V1", nil))
	assert.Equal(t, http.StatusOK, status)
}

func TestLogJSONWithoutFields(t *testing.T) {
	server := newTestServer()

	for _, body := range []string{`[]`, `"x"`, `42`, `null`} {
		status, response := server.do(t, jsonRequest(http.MethodPost, "/log", body))
		assert.Equal(t, http.StatusOK, status, body)
		assert.Equal(t, "Ignored", response, body)
	}
	assert.Equal(t, 0, server.positions.PositionCount())
}

func TestLogStoreFailure(t *testing.T) {
	server := newTestServer()
	server.positions.Err = assert.AnError

	status, body := server.do(t, httptest.NewRequest(http.MethodGet, "/log?bus_id=V1&lat=12.9&lon=77.5", nil))

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Err", body)
}

func TestLogUsesProfileRouteCode(t *testing.T) {
	server := newTestServer()
	server.positions.PutProfile(transit.Profile{VehicleID: "V1", RouteCode: "R1"})

	server.do(t, httptest.NewRequest(http.MethodGet, "/log?bus_id=V1&lat=12.9&lon=77.5", nil))

	status, decoded := server.doJSON(t, httptest.NewRequest(http.MethodGet, "/routes/R1/buses", nil))
	assert.Equal(t, http.StatusOK, status)

	buses := decoded["buses"].([]interface{})
	require.Len(t, buses, 1)
	assert.Equal(t, "V1", buses[0].(map[string]interface{})["vehicleId"])
	assert.Equal(t, "R1", buses[0].(map[string]interface{})["routeCode"])
}

func TestActiveDrivers(t *testing.T) {
	server := newTestServer()
	server.positions.PutVehicle(transit.VehicleState{VehicleID: "FRESH", LastUpdated: testNow.Add(-29 * time.Minute)})
	server.positions.PutVehicle(transit.VehicleState{VehicleID: "STALE", LastUpdated: testNow.Add(-31 * time.Minute)})

	status, decoded := server.doJSON(t, httptest.NewRequest(http.MethodGet, "/active-drivers", nil))

	assert.Equal(t, http.StatusOK, status)

	drivers := decoded["drivers"].([]interface{})
	require.Len(t, drivers, 1)
	assert.Equal(t, "FRESH", drivers[0].(map[string]interface{})["vehicleId"])
}

func TestActiveDriversEmpty(t *testing.T) {
	server := newTestServer()

	_, body := server.do(t, httptest.NewRequest(http.MethodGet, "/active-drivers", nil))

	assert.JSONEq(t, `{"drivers":[]}`, body)
}

func TestHistory(t *testing.T) {
	server := newTestServer()

	for i := 0; i < 3; i++ {
		server.do(t, httptest.NewRequest(http.MethodGet, "/log?bus_id=V1&lat=12.9&lon=77.5", nil))
		server.clock.Advance(time.Minute)
	}

	status, decoded := server.doJSON(t, httptest.NewRequest(http.MethodGet, "/history/V1", nil))
	assert.Equal(t, http.StatusOK, status)

	trail := decoded["trail"].([]interface{})
	require.Len(t, trail, 3)

	first, err := time.Parse(time.RFC3339, trail[0].(map[string]interface{})["timestamp"].(string))
	require.NoError(t, err)
	assert.True(t, first.Equal(testNow.Add(2*time.Minute)))
}

func TestHistoryCSV(t *testing.T) {
	server := newTestServer()
	server.do(t, httptest.NewRequest(http.MethodGet, "/log?bus_id=V1&lat=12.9&lon=77.5&spd_kph=10", nil))

	req := httptest.NewRequest(http.MethodGet, "/history/V1?format=csv", nil)
	resp, err := server.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "V1.csv")

	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "vehicle_id,lat,lon,speed_kph,timestamp", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "V1,12.9,77.5,10,"))
}

func TestStops(t *testing.T) {
	server := newTestServer()

	status, decoded := server.doJSON(t, jsonRequest(http.MethodPost, "/stops", `{"name":"Central"}`))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Name, Latitude and Longitude are required!", decoded["error"])

	status, decoded = server.doJSON(t, jsonRequest(http.MethodPost, "/stops", `{"name":"Central","lat":12.97,"lon":77.59,"routeCode":"R1","sequence":"2"}`))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, decoded["success"])
	assert.Equal(t, "R1", decoded["stop"].(map[string]interface{})["routeCode"])

	server.do(t, jsonRequest(http.MethodPost, "/stops", `{"name":"Depot","lat":12.9,"lon":77.5,"routeCode":"R1","sequence":1}`))
	server.do(t, jsonRequest(http.MethodPost, "/stops", `{"name":"Market","lat":12.8,"lon":77.4}`))

	_, decoded = server.doJSON(t, httptest.NewRequest(http.MethodGet, "/stops", nil))
	assert.Len(t, decoded["stops"], 3)

	_, decoded = server.doJSON(t, httptest.NewRequest(http.MethodGet, "/routes/R1/stops", nil))
	stops := decoded["stops"].([]interface{})
	require.Len(t, stops, 2)
	assert.Equal(t, "Depot", stops[0].(map[string]interface{})["name"])
	assert.Equal(t, "Central", stops[1].(map[string]interface{})["name"])

	_, decoded = server.doJSON(t, httptest.NewRequest(http.MethodGet, "/routes/General/stops", nil))
	assert.Len(t, decoded["stops"], 1)
}

func TestRoutes(t *testing.T) {
	server := newTestServer()

	status, decoded := server.doJSON(t, jsonRequest(http.MethodPost, "/routes", `{"name":"Majestic - Airport","code":"R1","coordinates":[[12.97,77.59],[13.19,77.70]],"distance":"35 km"}`))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, decoded["success"])
	assert.NotEmpty(t, decoded["id"])

	_, decoded = server.doJSON(t, httptest.NewRequest(http.MethodGet, "/routes", nil))
	routes := decoded["routes"].([]interface{})
	require.Len(t, routes, 1)
	assert.Equal(t, "R1", routes[0].(map[string]interface{})["code"])
	assert.Len(t, routes[0].(map[string]interface{})["coordinates"], 2)
}

func TestProfile(t *testing.T) {
	server := newTestServer()

	_, body := server.do(t, httptest.NewRequest(http.MethodGet, "/buses/MJH01/profile", nil))
	assert.JSONEq(t, `{"profile":null}`, body)

	status, decoded := server.doJSON(t, jsonRequest(http.MethodPost, "/buses/MJH01/profile",
		`{"vehicleId":"OTHER","routeCode":"R1","type":"AC Sleeper","fare":150,"photos":["aGVsbG8="]}`))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, decoded["success"])

	profile := decoded["profile"].(map[string]interface{})
	assert.Equal(t, "MJH01", profile["vehicleId"])
	assert.Equal(t, 150.0, profile["fare"])

	_, decoded = server.doJSON(t, httptest.NewRequest(http.MethodGet, "/buses/MJH01/profile", nil))
	profile = decoded["profile"].(map[string]interface{})
	assert.Equal(t, "AC Sleeper", profile["type"])
	assert.Len(t, profile["photos"], 1)

	_, decoded = server.doJSON(t, httptest.NewRequest(http.MethodGet, "/buses/MJH01/profile?view=basic", nil))
	profile = decoded["profile"].(map[string]interface{})
	assert.Equal(t, "R1", profile["routeCode"])
	assert.NotContains(t, profile, "photos")
}

func TestProfileSyncsVehicleRoute(t *testing.T) {
	server := newTestServer()
	server.catalog.Vehicles["MJH01"] = &transit.VehicleState{VehicleID: "MJH01"}

	server.do(t, jsonRequest(http.MethodPost, "/buses/MJH01/profile", `{"routeCode":"R9"}`))

	assert.Equal(t, "R9", server.catalog.Vehicles["MJH01"].RouteCode)
}

func TestAnnotations(t *testing.T) {
	server := newTestServer()

	_, body := server.do(t, httptest.NewRequest(http.MethodGet, "/annotations", nil))
	assert.JSONEq(t, `{"success":true,"data":[]}`, body)

	_, body = server.do(t, jsonRequest(http.MethodPost, "/annotations", `{"elements":[{"type":"symbol","icon":"hump","lat":12.9,"lon":77.5}]}`))
	assert.JSONEq(t, `{"success":true}`, body)

	_, body = server.do(t, httptest.NewRequest(http.MethodGet, "/annotations", nil))
	assert.JSONEq(t, `{"success":true,"data":[{"type":"symbol","icon":"hump","lat":12.9,"lon":77.5}]}`, body)

	require.Len(t, server.catalog.Annotations, 1)
	assert.Equal(t, transit.AnnotationVersion, server.catalog.Annotations[0].Version)
}

func TestFavorites(t *testing.T) {
	server := newTestServer()

	_, body := server.do(t, jsonRequest(http.MethodPost, "/favorites/toggle", `{"deviceId":"phone-1","vehicleId":"V1"}`))
	assert.JSONEq(t, `{"saved":true}`, body)

	_, decoded := server.doJSON(t, httptest.NewRequest(http.MethodGet, "/favorites/phone-1", nil))
	favorites := decoded["favorites"].([]interface{})
	require.Len(t, favorites, 1)
	assert.Equal(t, "V1", favorites[0].(map[string]interface{})["vehicleId"])

	_, body = server.do(t, jsonRequest(http.MethodPost, "/favorites/toggle", `{"deviceId":"phone-1","vehicleId":"V1"}`))
	assert.JSONEq(t, `{"saved":false}`, body)

	_, body = server.do(t, httptest.NewRequest(http.MethodGet, "/favorites/phone-1", nil))
	assert.JSONEq(t, `{"favorites":[]}`, body)

	status, _ := server.do(t, jsonRequest(http.MethodPost, "/favorites/toggle", `{"deviceId":"phone-1"}`))
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestSearch(t *testing.T) {
	server := newTestServer()
	server.catalog.Vehicles["MJH01"] = &transit.VehicleState{VehicleID: "MJH01"}
	server.catalog.Routes = []transit.Route{{Name: "Majestic - Airport", Code: "R1"}}
	server.catalog.Stops = []transit.Stop{{Name: "Hebbal"}}

	status, decoded := server.doJSON(t, httptest.NewRequest(http.MethodGet, "/search?q=maj", nil))

	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, decoded["buses"], 0)
	assert.Len(t, decoded["routes"], 1)
	assert.Len(t, decoded["stops"], 0)
}

func TestSearchStoreFailure(t *testing.T) {
	server := newTestServer()
	server.catalog.Err = assert.AnError

	status, decoded := server.doJSON(t, httptest.NewRequest(http.MethodGet, "/search?q=maj", nil))

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, assert.AnError.Error(), decoded["error"])
}

func TestSymbols(t *testing.T) {
	server := newTestServer()

	_, decoded := server.doJSON(t, httptest.NewRequest(http.MethodGet, "/symbols", nil))
	assert.Len(t, decoded["symbols"], 20)

	_, decoded = server.doJSON(t, httptest.NewRequest(http.MethodGet, "/symbols?category=warning", nil))
	assert.Len(t, decoded["symbols"], 4)
}

func TestGTFSRealtimeVehiclePositions(t *testing.T) {
	server := newTestServer()
	server.positions.PutVehicle(transit.VehicleState{VehicleID: "V1", Lat: 12.9, Lon: 77.5, Speed: 36, LastUpdated: testNow.Add(-time.Minute), RouteCode: "R1"})
	server.positions.PutVehicle(transit.VehicleState{VehicleID: "OLD", Lat: 12.9, Lon: 77.5, LastUpdated: testNow.Add(-time.Hour)})

	resp, err := server.app.Test(httptest.NewRequest(http.MethodGet, "/gtfs-rt/vehicle-positions", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "application/x-protobuf", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var message gtfs.FeedMessage
	require.NoError(t, proto.Unmarshal(body, &message))

	require.Len(t, message.GetEntity(), 1)
	assert.Equal(t, "V1", message.GetEntity()[0].GetId())
	assert.Equal(t, "R1", message.GetEntity()[0].GetVehicle().GetTrip().GetRouteId())
}

func TestVersion(t *testing.T) {
	server := newTestServer()

	status, decoded := server.doJSON(t, httptest.NewRequest(http.MethodGet, "/version", nil))

	assert.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, decoded["version"])
}

func TestUnknownPath(t *testing.T) {
	server := newTestServer()

	status, _ := server.do(t, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	assert.Equal(t, http.StatusNotFound, status)
}
