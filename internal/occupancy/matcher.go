// Package occupancy assigns stands an occupied/free state by nearest
// flight position.
package occupancy

import (
	"github.com/skylive/airportal/internal/airports"
	"github.com/skylive/airportal/internal/feeds"
	"github.com/skylive/airportal/internal/geo"
)

// OccupancyThresholdM is the stand occupancy distance threshold. A stand is
// occupied when the nearest flight is strictly closer than this.
// Operationally tuned: do not change without a product decision.
const OccupancyThresholdM = 40.0

// StandOccupancy is the live state of a single stand
type StandOccupancy struct {
	Stand      airports.Stand       `json:"stand"`
	Occupied   bool                 `json:"occupied"`
	Occupant   *feeds.TrackedFlight `json:"occupant,omitempty"`
	DistanceM  *float64             `json:"distance_m,omitempty"` // Distance to the occupant
}

// Result carries the per-stand states plus an availability marker so
// callers can tell "confirmed free" apart from "could not check".
type Result struct {
	Stands      []StandOccupancy `json:"stands"`
	Unavailable bool             `json:"unavailable"` // True when no position-bearing flights were available
}

// Match computes the occupancy state of every stand against the given
// flights. Matching is nearest-neighbor by distance only; an aircraft
// taxiing between adjacent stands may briefly match more than one stand.
// That is a known approximation inherited from the matching rule, not a
// defect to compensate for here.
func Match(stands []airports.Stand, flights []feeds.TrackedFlight) Result {
	positioned := make([]*feeds.TrackedFlight, 0, len(flights))
	for i := range flights {
		if flights[i].HasPosition() {
			positioned = append(positioned, &flights[i])
		}
	}

	result := Result{
		Stands:      make([]StandOccupancy, 0, len(stands)),
		Unavailable: len(positioned) == 0,
	}

	for _, stand := range stands {
		occ := StandOccupancy{Stand: stand}
		var nearest *feeds.TrackedFlight
		var nearestDist float64
		for _, flight := range positioned {
			dist := geo.HaversineMeters(stand.Lat, stand.Lon, *flight.Lat, *flight.Lon)
			if nearest == nil || dist < nearestDist {
				nearest = flight
				nearestDist = dist
			}
		}
		if nearest != nil && nearestDist < OccupancyThresholdM {
			occ.Occupied = true
			occ.Occupant = nearest
			occ.DistanceM = &nearestDist
		}
		result.Stands = append(result.Stands, occ)
	}

	return result
}
