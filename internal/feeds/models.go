package feeds

// TrackedFlight is the canonical flight record derived from any of the
// supported upstream feed shapes. Produced fresh on every poll and never
// persisted; optional fields are nil/empty when no candidate resolved.
type TrackedFlight struct {
	Callsign      string   `json:"callsign"`
	Lat           *float64 `json:"lat,omitempty"`
	Lon           *float64 `json:"lon,omitempty"`
	GroundSpeedKt *float64 `json:"ground_speed_kt,omitempty"`
	AltitudeFt    *float64 `json:"altitude_ft,omitempty"`
	DepartureICAO string   `json:"departure_icao,omitempty"`
	ArrivalICAO   string   `json:"arrival_icao,omitempty"`
	AircraftType  string   `json:"aircraft_type,omitempty"`
	ExplicitState string   `json:"explicit_state,omitempty"`
	OnGround      *bool    `json:"on_ground,omitempty"`
}

// HasPosition reports whether the flight carries a resolvable coordinate
func (f *TrackedFlight) HasPosition() bool {
	return f.Lat != nil && f.Lon != nil
}

// TrackedController is the canonical controller record derived from any of
// the supported upstream feed shapes
type TrackedController struct {
	Callsign     string   `json:"callsign"`
	Lat          *float64 `json:"lat,omitempty"`
	Lon          *float64 `json:"lon,omitempty"`
	FrequencyMHz *float64 `json:"frequency_mhz,omitempty"`
}

// HasPosition reports whether the controller carries a resolvable coordinate
func (c *TrackedController) HasPosition() bool {
	return c.Lat != nil && c.Lon != nil
}
