// Package controllers determines which online controllers are working a
// given airport.
package controllers

import (
	"math"
	"sort"
	"strings"

	"github.com/skylive/airportal/internal/feeds"
	"github.com/skylive/airportal/internal/geo"
)

// ProximityRadiusM is the distance from the airport center within which a
// controller counts as online for the airport even without a callsign
// match: 10 nautical miles. Operationally tuned, keep in sync with the UI.
const ProximityRadiusM = 10 * geo.MetersPerNM // 18,520 m

// OnlineController is a controller matched to an airport, with the distance
// used for ordering
type OnlineController struct {
	Controller feeds.TrackedController `json:"controller"`
	DistanceM  *float64                `json:"distance_m,omitempty"` // nil when matched by callsign only
}

// Match returns the controllers online for the airport: callsign contains
// the ICAO (case-insensitive), or position within ProximityRadiusM of the
// airport center. Sorted ascending by distance; callsign-only matches with
// no resolvable position sort last.
func Match(ctrls []feeds.TrackedController, icao string, centerLat, centerLon float64) []OnlineController {
	icao = strings.ToUpper(strings.TrimSpace(icao))
	if icao == "" {
		return nil
	}

	var matched []OnlineController
	for _, ctrl := range ctrls {
		byCallsign := strings.Contains(strings.ToUpper(ctrl.Callsign), icao)

		var dist *float64
		if ctrl.HasPosition() {
			d := geo.HaversineMeters(*ctrl.Lat, *ctrl.Lon, centerLat, centerLon)
			dist = &d
		}

		byProximity := dist != nil && *dist <= ProximityRadiusM
		if !byCallsign && !byProximity {
			continue
		}
		matched = append(matched, OnlineController{Controller: ctrl, DistanceM: dist})
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return sortDistance(matched[i]) < sortDistance(matched[j])
	})
	return matched
}

func sortDistance(c OnlineController) float64 {
	if c.DistanceM == nil {
		return math.Inf(1)
	}
	return *c.DistanceM
}
