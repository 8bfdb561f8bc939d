// Package snapshot composes the live airport operations picture from the
// static airport model and the raw network feeds.
package snapshot

import (
	"fmt"

	"github.com/skylive/airportal/internal/airports"
	"github.com/skylive/airportal/internal/controllers"
	"github.com/skylive/airportal/internal/feeds"
	"github.com/skylive/airportal/internal/occupancy"
	"github.com/skylive/airportal/internal/runways"
	"github.com/skylive/airportal/internal/traffic"
	"github.com/skylive/airportal/internal/weather"
)

// Build derives a LiveSnapshot from the airport model and a feed bundle.
// Pure over its inputs: identical inputs yield identical snapshots, and
// GeneratedAt is left for the caller to stamp. Each facet degrades to its
// empty/unavailable variant when its feed is missing; a nil airport is the
// only error, since that is a caller contract violation rather than an
// upstream outage.
func Build(airport *airports.AirportModel, bundle FeedBundle) (*LiveSnapshot, error) {
	if airport == nil {
		return nil, fmt.Errorf("airport model is required")
	}

	snap := &LiveSnapshot{ICAO: airport.ICAO}

	if bundle.Weather != nil {
		snap.METARRaw = bundle.Weather.METAR
		snap.TAFRaw = bundle.Weather.TAF
		if bundle.Weather.METAR != "" {
			decoded := weather.DecodeMETAR(bundle.Weather.METAR)
			snap.METAR = &decoded
		}
		snap.TAF = weather.DecodeTAF(bundle.Weather.TAF)
	}

	// Wind for runway scoring comes from the decoded METAR; with no METAR
	// (or variable wind) no runway is favored
	var windDir, windSpeed *float64
	if snap.METAR != nil {
		windDir = snap.METAR.WindDirectionDeg
		windSpeed = snap.METAR.WindSpeedKt
	}
	snap.Runways = runways.Advise(windDir, windSpeed, airport.Runways)

	flights, hasTraffic := normalizeTraffic(bundle)
	snap.HasTrafficData = hasTraffic

	occupancyResult := occupancy.Match(airport.Stands, flights)
	snap.Stands = occupancyResult.Stands
	snap.StandsUnavailable = occupancyResult.Unavailable

	snap.Inbound, snap.Outbound = traffic.SplitByAirport(flights, airport.ICAO)

	ctrls := normalizeControllers(bundle)
	centerLat, centerLon := airport.Center()
	snap.ATC = controllers.Match(ctrls, airport.ICAO, centerLat, centerLon)

	return snap, nil
}

// normalizeTraffic resolves the flight list: the dedicated flights feed
// wins, the whazzup bundle's pilots are the fallback. The second return
// distinguishes "no traffic" from "no traffic feed".
func normalizeTraffic(bundle FeedBundle) ([]feeds.TrackedFlight, bool) {
	if bundle.Flights != nil {
		return feeds.NormalizeFlights(bundle.Flights), true
	}
	if bundle.Whazzup != nil {
		return feeds.NormalizeFlights(bundle.Whazzup), true
	}
	return nil, false
}

// normalizeControllers resolves the controller list with the same
// dedicated-feed-first fallback as traffic
func normalizeControllers(bundle FeedBundle) []feeds.TrackedController {
	if bundle.OnlineATC != nil {
		return feeds.NormalizeControllers(bundle.OnlineATC)
	}
	if bundle.Whazzup != nil {
		return feeds.NormalizeControllers(bundle.Whazzup)
	}
	return nil
}
