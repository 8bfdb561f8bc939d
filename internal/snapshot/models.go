package snapshot

import (
	"time"

	"github.com/skylive/airportal/internal/controllers"
	"github.com/skylive/airportal/internal/occupancy"
	"github.com/skylive/airportal/internal/runways"
	"github.com/skylive/airportal/internal/traffic"
	"github.com/skylive/airportal/internal/weather"
)

// FeedBundle carries the raw inputs of one snapshot computation. Any field
// may be nil: a missing feed degrades the facets that depend on it and
// nothing else.
type FeedBundle struct {
	Weather   *weather.MetarTaf // Raw METAR/TAF text, nil when the weather fetch failed
	Whazzup   any               // Combined pilots/controllers bundle, shape-tolerant
	Flights   any               // Tracked flights list, shape-tolerant
	OnlineATC any               // Online controllers list, shape-tolerant
}

// LiveSnapshot is the consistent operational picture of one airport at one
// poll. A brand-new value is produced per poll; nothing is mutated after
// construction.
type LiveSnapshot struct {
	ICAO        string    `json:"icao"`
	GeneratedAt time.Time `json:"generated_at"`

	METARRaw string               `json:"metar,omitempty"`
	TAFRaw   string               `json:"taf,omitempty"`
	METAR    *weather.ParsedMETAR `json:"metar_decoded,omitempty"`
	TAF      []weather.TAFPeriod  `json:"taf_periods,omitempty"`

	Stands            []occupancy.StandOccupancy `json:"stands"`
	StandsUnavailable bool                       `json:"stands_unavailable"` // Live occupancy could not be checked

	Runways []runways.Advisory `json:"runways"`

	ATC []controllers.OnlineController `json:"atc"`

	Inbound        []traffic.ClassifiedFlight `json:"inbound"`
	Outbound       []traffic.ClassifiedFlight `json:"outbound"`
	HasTrafficData bool                       `json:"has_traffic_data"` // False when the traffic feed was unavailable
}

// LivePayload is the wire shape of the poll endpoint: the subset of the
// snapshot the live panels re-render every interval.
type LivePayload struct {
	METAR             string                         `json:"metar"`
	TAF               string                         `json:"taf"`
	Stands            []occupancy.StandOccupancy     `json:"stands"`
	StandsUnavailable bool                           `json:"stands_unavailable"`
	Inbound           []traffic.ClassifiedFlight     `json:"inbound"`
	Outbound          []traffic.ClassifiedFlight     `json:"outbound"`
	ATC               []controllers.OnlineController `json:"atc"`
	HasTrafficData    bool                           `json:"has_traffic_data"`
}

// Payload projects the snapshot onto the poll endpoint shape
func (s *LiveSnapshot) Payload() LivePayload {
	return LivePayload{
		METAR:             s.METARRaw,
		TAF:               s.TAFRaw,
		Stands:            s.Stands,
		StandsUnavailable: s.StandsUnavailable,
		Inbound:           s.Inbound,
		Outbound:          s.Outbound,
		ATC:               s.ATC,
		HasTrafficData:    s.HasTrafficData,
	}
}
