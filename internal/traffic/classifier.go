// Package traffic derives display labels and inbound/outbound grouping for
// tracked flights.
package traffic

import (
	"strings"

	"github.com/skylive/airportal/internal/feeds"
)

// TaxiMinSpeedKt is the ground speed above which an on-ground aircraft is
// labeled as taxiing rather than parked
const TaxiMinSpeedKt = 10.0

// ClassifiedFlight is a tracked flight with its resolved phase label
type ClassifiedFlight struct {
	feeds.TrackedFlight
	PhaseLabel string `json:"phase_label"`
}

// PhaseLabel resolves the human-facing flight-phase label. An explicit state
// from the feed wins; otherwise the label is derived from ground status and
// ground speed. This is a display heuristic only - it approximates, and does
// not guarantee, the actual flight phase.
func PhaseLabel(f feeds.TrackedFlight) string {
	if f.ExplicitState != "" {
		return f.ExplicitState
	}

	onGround := f.OnGround != nil && *f.OnGround
	if onGround {
		if f.GroundSpeedKt != nil && *f.GroundSpeedKt > TaxiMinSpeedKt {
			return "Taxi"
		}
		return "On Stand"
	}
	return "En Route"
}

// SplitByAirport groups flights into inbound and outbound lists for one
// airport by their filed route. Flights with the airport as both ends (local
// circuits) appear in both lists.
func SplitByAirport(flights []feeds.TrackedFlight, icao string) (inbound, outbound []ClassifiedFlight) {
	icao = strings.ToUpper(strings.TrimSpace(icao))
	for _, f := range flights {
		classified := ClassifiedFlight{TrackedFlight: f, PhaseLabel: PhaseLabel(f)}
		if f.ArrivalICAO == icao {
			inbound = append(inbound, classified)
		}
		if f.DepartureICAO == icao {
			outbound = append(outbound, classified)
		}
	}
	return inbound, outbound
}
