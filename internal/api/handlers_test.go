package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skylive/airportal/internal/airports"
	"github.com/skylive/airportal/internal/config"
	"github.com/skylive/airportal/internal/feeds"
	"github.com/skylive/airportal/internal/snapshot"
	"github.com/skylive/airportal/internal/weather"
	"github.com/skylive/airportal/pkg/logger"
)

const apiTestSeed = `{
	"airports": [{
		"icao": "LPPT",
		"name": "Lisbon",
		"lat": 38.7813,
		"lon": -9.1359,
		"stands": [{"name": "101", "lat": 38.7701, "lon": -9.1301}],
		"runways": [{"ident": "02", "heading_deg": 20.0}, {"ident": "20", "heading_deg": 200.0}]
	}]
}`

// newTestAPI wires a router against real services backed by local fakes:
// a seeded on-disk store, a weather API stub, and a feeds stub.
func newTestAPI(t *testing.T) *httptest.Server {
	t.Helper()
	log := logger.NewNop()

	store, err := airports.NewStore(filepath.Join(t.TempDir(), "airports.db"), log)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	seedPath := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(seedPath, []byte(apiTestSeed), 0o644))
	require.NoError(t, store.SeedFromJSON(seedPath))

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/metar":
			w.Write([]byte("LPPT 121400Z 20010KT 9999 FEW030 22/14 Q1018"))
		case "/taf":
			w.Write([]byte("TAF LPPT 121100Z 1212/1318 20010KT 9999"))
		case "/flights":
			w.Write([]byte(`[{"callsign": "TAP123", "lat": 38.77012, "lon": -9.13012, "departure": "LPPT", "arrival": "EDDF", "onGround": true, "gs": 0}]`))
		case "/atc":
			w.Write([]byte(`[{"callsign": "LPPT_TWR"}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(upstream.Close)

	weatherService := weather.NewService(weather.Config{
		APIBaseURL:            upstream.URL,
		RequestTimeoutSeconds: 5,
		CacheExpiryMinutes:    15,
	}, "", log)

	feedClient := feeds.NewClient(feeds.ClientConfig{
		FlightsURL:            upstream.URL + "/flights",
		OnlineATCURL:          upstream.URL + "/atc",
		RequestTimeoutSeconds: 5,
	}, log)

	snapshotService := snapshot.NewService(store, feedClient, weatherService, log)

	cfg := &config.Config{}
	cfg.Server.CORSAllowedOrigins = []string{"*"}

	router := NewRouter(store, snapshotService, weatherService, cfg, log)
	server := httptest.NewServer(router.Routes())
	t.Cleanup(server.Close)
	return server
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestGetAirportEndpoint(t *testing.T) {
	server := newTestAPI(t)

	var airport airports.AirportModel
	status := getJSON(t, server.URL+"/api/v1/airports/lppt/", &airport)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "LPPT", airport.ICAO)
	assert.Equal(t, "Lisbon", airport.Name)
	assert.Len(t, airport.Stands, 1)
	assert.Len(t, airport.Runways, 2)
}

func TestGetAirportNotFound(t *testing.T) {
	server := newTestAPI(t)
	status := getJSON(t, server.URL+"/api/v1/airports/XXXX/", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestGetAirportLiveEndpoint(t *testing.T) {
	server := newTestAPI(t)

	var payload snapshot.LivePayload
	status := getJSON(t, server.URL+"/api/v1/airports/LPPT/live", &payload)
	assert.Equal(t, http.StatusOK, status)

	assert.Contains(t, payload.METAR, "20010KT")
	assert.True(t, payload.HasTrafficData)
	assert.False(t, payload.StandsUnavailable)
	require.Len(t, payload.Stands, 1)
	assert.True(t, payload.Stands[0].Occupied)
	require.Len(t, payload.Outbound, 1)
	assert.Equal(t, "TAP123", payload.Outbound[0].Callsign)
	require.Len(t, payload.ATC, 1)
	assert.Equal(t, "LPPT_TWR", payload.ATC[0].Controller.Callsign)
}

func TestGetAirportSnapshotEndpoint(t *testing.T) {
	server := newTestAPI(t)

	var snap snapshot.LiveSnapshot
	status := getJSON(t, server.URL+"/api/v1/airports/LPPT/snapshot", &snap)
	assert.Equal(t, http.StatusOK, status)

	assert.Equal(t, "LPPT", snap.ICAO)
	assert.False(t, snap.GeneratedAt.IsZero())
	require.NotNil(t, snap.METAR)
	require.Len(t, snap.Runways, 2)
	assert.True(t, snap.Runways[1].IsFavored) // runway 20 into the 200-degree wind
}

func TestGetAirspaceEndpoint(t *testing.T) {
	server := newTestAPI(t)

	var overview struct {
		Airports []snapshot.AirportActivity `json:"airports"`
	}
	status := getJSON(t, server.URL+"/api/v1/airspace", &overview)
	assert.Equal(t, http.StatusOK, status)
	require.Len(t, overview.Airports, 1)
	assert.Equal(t, "LPPT", overview.Airports[0].ICAO)
	assert.Equal(t, 1, overview.Airports[0].OutboundCount)
	assert.Equal(t, 1, overview.Airports[0].OnlineATC)
}

func TestGetHealthEndpoint(t *testing.T) {
	server := newTestAPI(t)

	var health map[string]any
	status := getJSON(t, server.URL+"/api/v1/health", &health)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", health["status"])
	assert.Contains(t, health, "weather_cache")
}

func TestCORSHeaders(t *testing.T) {
	server := newTestAPI(t)

	req, err := http.NewRequest(http.MethodGet, server.URL+"/api/v1/health", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://portal.example")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestCORSPreflight(t *testing.T) {
	server := newTestAPI(t)

	req, err := http.NewRequest(http.MethodOptions, server.URL+"/api/v1/health", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://portal.example")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}
