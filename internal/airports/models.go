package airports

// AirportModel is the static operational model of one airport. Immutable
// once assembled: snapshot computations may hold it without copying.
type AirportModel struct {
	ICAO                   string         `json:"icao"`
	Name                   string         `json:"name"`
	Lat                    float64        `json:"lat"`
	Lon                    float64        `json:"lon"`
	ElevationFt            *int           `json:"elevation_ft,omitempty"`
	Stands                 []Stand        `json:"stands"`
	Runways                []Runway       `json:"runways"`
	Frequencies            []ATCFrequency `json:"frequencies"`
	MagneticDeclinationDeg float64        `json:"magnetic_declination_deg"` // +East, -West, at the reference point
}

// Stand is a single parking stand with its surveyed coordinate
type Stand struct {
	ID   int64   `json:"id"`
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// Runway is a single runway end. Heading and length are optional in the
// source data; a missing heading is derived from the identifier downstream.
type Runway struct {
	ID            int64    `json:"id"`
	Ident         string   `json:"ident"`
	HeadingDeg    *float64 `json:"heading_deg,omitempty"`
	LengthM       *float64 `json:"length_m,omitempty"`
	HoldingPoints []string `json:"holding_points,omitempty"`
}

// ATCFrequency is a published ATC station frequency for the airport
type ATCFrequency struct {
	Station      string  `json:"station"`
	FrequencyMHz float64 `json:"frequency_mhz"`
}

// Center returns the reference coordinate for proximity matching: the mean
// of the stand coordinates when stands exist, else the airport's own
// coordinate.
func (a *AirportModel) Center() (lat, lon float64) {
	if len(a.Stands) == 0 {
		return a.Lat, a.Lon
	}
	var sumLat, sumLon float64
	for _, stand := range a.Stands {
		sumLat += stand.Lat
		sumLon += stand.Lon
	}
	n := float64(len(a.Stands))
	return sumLat / n, sumLon / n
}
