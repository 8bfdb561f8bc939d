package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skylive/airportal/internal/airports"
	"github.com/skylive/airportal/internal/weather"
)

func f64(v float64) *float64 { return &v }

func testAirport() *airports.AirportModel {
	return &airports.AirportModel{
		ICAO: "LPPT",
		Name: "Lisbon",
		Lat:  38.7813,
		Lon:  -9.1359,
		Stands: []airports.Stand{
			{ID: 1, Name: "101", Lat: 38.7701, Lon: -9.1301},
			{ID: 2, Name: "102", Lat: 38.7710, Lon: -9.1310},
		},
		Runways: []airports.Runway{
			{ID: 1, Ident: "02", HeadingDeg: f64(20)},
			{ID: 2, Ident: "20", HeadingDeg: f64(200)},
		},
	}
}

func fullBundle() FeedBundle {
	return FeedBundle{
		Weather: &weather.MetarTaf{
			METAR: "LPPT 121400Z 20010KT 9999 FEW030 22/14 Q1018",
			TAF:   "TAF LPPT 121100Z 1212/1318 20010KT 9999 FM130300 02005KT",
		},
		Flights: []any{
			map[string]any{
				"callsign": "TAP123", "lat": 38.77012, "lon": -9.13012,
				"departure": "LPPT", "arrival": "EDDF",
				"onGround": true, "gs": 0.0,
			},
			map[string]any{
				"callsign": "TAP456", "lat": 39.5, "lon": -9.0,
				"departure": "EDDF", "arrival": "LPPT",
			},
		},
		OnlineATC: []any{
			map[string]any{"callsign": "LPPT_TWR", "lat": 38.78, "lon": -9.13, "frequency": 118.1},
			map[string]any{"callsign": "EGLL_TWR", "lat": 51.47, "lon": -0.45},
		},
	}
}

func TestBuildFullBundle(t *testing.T) {
	snap, err := Build(testAirport(), fullBundle())
	require.NoError(t, err)

	assert.Equal(t, "LPPT", snap.ICAO)
	assert.True(t, snap.GeneratedAt.IsZero()) // caller stamps it

	// Weather decoded
	require.NotNil(t, snap.METAR)
	assert.Equal(t, 200.0, *snap.METAR.WindDirectionDeg)
	require.Len(t, snap.TAF, 2)

	// Runway 20 (heading 200) faces straight into the 200-degree wind
	require.Len(t, snap.Runways, 2)
	assert.False(t, snap.Runways[0].IsFavored)
	assert.True(t, snap.Runways[1].IsFavored)

	// Stand 101 occupied by the parked TAP123
	assert.False(t, snap.StandsUnavailable)
	require.Len(t, snap.Stands, 2)
	assert.True(t, snap.Stands[0].Occupied)
	assert.False(t, snap.Stands[1].Occupied)

	// Traffic split
	assert.True(t, snap.HasTrafficData)
	require.Len(t, snap.Inbound, 1)
	assert.Equal(t, "TAP456", snap.Inbound[0].Callsign)
	require.Len(t, snap.Outbound, 1)
	assert.Equal(t, "TAP123", snap.Outbound[0].Callsign)
	assert.Equal(t, "On Stand", snap.Outbound[0].PhaseLabel)

	// Only the Lisbon controller matches
	require.Len(t, snap.ATC, 1)
	assert.Equal(t, "LPPT_TWR", snap.ATC[0].Controller.Callsign)
}

func TestBuildIsDeterministic(t *testing.T) {
	airport := testAirport()
	bundle := fullBundle()

	first, err := Build(airport, bundle)
	require.NoError(t, err)
	second, err := Build(airport, bundle)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestBuildNilAirport(t *testing.T) {
	_, err := Build(nil, FeedBundle{})
	assert.Error(t, err)
}

func TestBuildEmptyBundleDegradesEveryFacet(t *testing.T) {
	snap, err := Build(testAirport(), FeedBundle{})
	require.NoError(t, err)

	assert.Empty(t, snap.METARRaw)
	assert.Nil(t, snap.METAR)
	assert.Empty(t, snap.TAF)

	// No wind: runways listed, none favored
	require.Len(t, snap.Runways, 2)
	for _, adv := range snap.Runways {
		assert.False(t, adv.IsFavored)
	}

	assert.True(t, snap.StandsUnavailable)
	assert.False(t, snap.HasTrafficData)
	assert.Empty(t, snap.Inbound)
	assert.Empty(t, snap.Outbound)
	assert.Empty(t, snap.ATC)
}

func TestBuildWhazzupFallback(t *testing.T) {
	bundle := FeedBundle{
		Whazzup: map[string]any{
			"clients": map[string]any{
				"pilots": []any{
					map[string]any{"callsign": "TAP789", "latitude": 38.77, "longitude": -9.13, "arrival": "LPPT"},
				},
				"atcs": []any{
					map[string]any{"callsign": "LPPT_GND"},
				},
			},
		},
	}

	snap, err := Build(testAirport(), bundle)
	require.NoError(t, err)

	assert.True(t, snap.HasTrafficData)
	require.Len(t, snap.Inbound, 1)
	assert.Equal(t, "TAP789", snap.Inbound[0].Callsign)
	require.Len(t, snap.ATC, 1)
	assert.Equal(t, "LPPT_GND", snap.ATC[0].Controller.Callsign)
}

func TestBuildEmptyTrafficFeedIsNotUnavailable(t *testing.T) {
	// An empty list is a real answer: traffic data present, zero flights
	snap, err := Build(testAirport(), FeedBundle{Flights: []any{}})
	require.NoError(t, err)

	assert.True(t, snap.HasTrafficData)
	assert.Empty(t, snap.Inbound)
	// Zero positioned flights still means occupancy cannot be confirmed
	assert.True(t, snap.StandsUnavailable)
}

func TestPayloadProjection(t *testing.T) {
	snap, err := Build(testAirport(), fullBundle())
	require.NoError(t, err)

	payload := snap.Payload()
	assert.Equal(t, snap.METARRaw, payload.METAR)
	assert.Equal(t, snap.TAFRaw, payload.TAF)
	assert.Equal(t, snap.Stands, payload.Stands)
	assert.Equal(t, snap.HasTrafficData, payload.HasTrafficData)
	assert.Len(t, payload.ATC, 1)
}
