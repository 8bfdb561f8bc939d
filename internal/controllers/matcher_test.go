package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skylive/airportal/internal/feeds"
)

func f64(v float64) *float64 { return &v }

const (
	centerLat = 38.7813
	centerLon = -9.1359
)

func TestMatchByCallsign(t *testing.T) {
	ctrls := []feeds.TrackedController{
		{Callsign: "LPPT_TWR", FrequencyMHz: f64(118.1)},
		{Callsign: "LPPR_TWR"},
	}

	matched := Match(ctrls, "LPPT", centerLat, centerLon)
	require.Len(t, matched, 1)
	assert.Equal(t, "LPPT_TWR", matched[0].Controller.Callsign)
	assert.Nil(t, matched[0].DistanceM)
}

func TestMatchCallsignCaseInsensitive(t *testing.T) {
	ctrls := []feeds.TrackedController{{Callsign: "lppt_gnd"}}

	matched := Match(ctrls, "lppt", centerLat, centerLon)
	require.Len(t, matched, 1)
	assert.Equal(t, "lppt_gnd", matched[0].Controller.Callsign)
}

func TestMatchByProximity(t *testing.T) {
	ctrls := []feeds.TrackedController{
		// About 5nm north of the center, no ICAO in the callsign
		{Callsign: "LIS_CTR", Lat: f64(centerLat + 0.0833), Lon: f64(centerLon)},
		// Well beyond 10nm
		{Callsign: "OPO_CTR", Lat: f64(centerLat + 1.0), Lon: f64(centerLon)},
	}

	matched := Match(ctrls, "LPPT", centerLat, centerLon)
	require.Len(t, matched, 1)
	assert.Equal(t, "LIS_CTR", matched[0].Controller.Callsign)
	require.NotNil(t, matched[0].DistanceM)
	assert.LessOrEqual(t, *matched[0].DistanceM, ProximityRadiusM)
}

func TestMatchJustOutsideRadius(t *testing.T) {
	// About 11nm away: callsign match alone keeps it in
	ctrls := []feeds.TrackedController{
		{Callsign: "LPPT_APP", Lat: f64(centerLat + 0.1833), Lon: f64(centerLon)},
		{Callsign: "EUR_CTR", Lat: f64(centerLat + 0.1833), Lon: f64(centerLon)},
	}

	matched := Match(ctrls, "LPPT", centerLat, centerLon)
	require.Len(t, matched, 1)
	assert.Equal(t, "LPPT_APP", matched[0].Controller.Callsign)
	require.NotNil(t, matched[0].DistanceM)
	assert.Greater(t, *matched[0].DistanceM, ProximityRadiusM)
}

func TestMatchSortedByDistance(t *testing.T) {
	ctrls := []feeds.TrackedController{
		{Callsign: "LPPT_CTR"}, // no position, sorts last
		{Callsign: "LPPT_APP", Lat: f64(centerLat + 0.05), Lon: f64(centerLon)},
		{Callsign: "LPPT_TWR", Lat: f64(centerLat + 0.01), Lon: f64(centerLon)},
	}

	matched := Match(ctrls, "LPPT", centerLat, centerLon)
	require.Len(t, matched, 3)
	assert.Equal(t, "LPPT_TWR", matched[0].Controller.Callsign)
	assert.Equal(t, "LPPT_APP", matched[1].Controller.Callsign)
	assert.Equal(t, "LPPT_CTR", matched[2].Controller.Callsign)
}

func TestMatchEmptyICAO(t *testing.T) {
	ctrls := []feeds.TrackedController{{Callsign: "LPPT_TWR"}}
	assert.Nil(t, Match(ctrls, "", centerLat, centerLon))
	assert.Nil(t, Match(ctrls, "  ", centerLat, centerLon))
}

func TestMatchNoControllers(t *testing.T) {
	assert.Empty(t, Match(nil, "LPPT", centerLat, centerLon))
}
