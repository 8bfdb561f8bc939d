package feeds

import (
	"math"
	"strconv"
	"strings"
)

// Field candidate tables. Upstream producers and historical API versions
// disagree on where each logical field lives, so every field is an ordered
// list of dotted lookup paths, first match wins. The order is part of the
// contract: earlier paths correspond to newer/more specific producers.
var (
	flightCallsignPaths = []string{"callsign", "cs", "flight", "name"}
	flightLatPaths      = []string{"lastTrack.latitude", "lastTrack.lat", "location.latitude", "location.lat", "position.latitude", "position.lat", "latitude", "lat"}
	flightLonPaths      = []string{"lastTrack.longitude", "lastTrack.lon", "location.longitude", "location.lon", "position.longitude", "position.lon", "longitude", "lon"}
	flightGSPaths       = []string{"lastTrack.groundSpeed", "groundSpeed", "ground_speed", "gs", "speed", "velocity"}
	flightAltPaths      = []string{"lastTrack.altitude", "altitude", "alt", "alt_baro"}
	flightDepPaths      = []string{"flightPlan.departureId", "departure", "dep", "origin"}
	flightArrPaths      = []string{"flightPlan.arrivalId", "arrival", "arr", "destination"}
	flightTypePaths     = []string{"flightPlan.aircraftId", "aircraftType", "aircraft_type", "aircraft", "type"}
	flightStatePaths    = []string{"state", "status", "phase", "flightPhase"}
	flightOnGroundPaths = []string{"lastTrack.onGround", "onGround", "on_ground", "ground"}

	controllerCallsignPaths = []string{"callsign", "cs", "name"}
	controllerLatPaths      = []string{"lastTrack.latitude", "lastTrack.lat", "position.latitude", "position.lat", "latitude", "lat"}
	controllerLonPaths      = []string{"lastTrack.longitude", "lastTrack.lon", "position.longitude", "position.lon", "longitude", "lon"}
	controllerFreqPaths     = []string{"atcSession.frequency", "frequencyMHz", "frequency_mhz", "frequency", "freq"}

	// List containers: a feed payload may be a bare array or an array
	// wrapped under one of these keys
	genericListPaths    = []string{"data", "result", "items"}
	pilotListPaths      = []string{"clients.pilots", "pilots"}
	controllerListPaths = []string{"clients.atcs", "clients.controllers", "atcs", "controllers"}
)

// NormalizeFlights converts an arbitrary upstream pilots/flights payload into
// canonical TrackedFlight records. Records that carry neither a callsign nor
// a position are dropped; everything else degrades field by field.
func NormalizeFlights(raw any) []TrackedFlight {
	items := unwrapList(raw, append(pilotListPaths, genericListPaths...))
	flights := make([]TrackedFlight, 0, len(items))
	for _, item := range items {
		rec, ok := item.(map[string]any)
		if !ok {
			continue
		}
		f := TrackedFlight{
			Callsign:      firstString(rec, flightCallsignPaths),
			Lat:           firstNumber(rec, flightLatPaths),
			Lon:           firstNumber(rec, flightLonPaths),
			GroundSpeedKt: firstNumber(rec, flightGSPaths),
			AltitudeFt:    firstNumber(rec, flightAltPaths),
			DepartureICAO: strings.ToUpper(firstString(rec, flightDepPaths)),
			ArrivalICAO:   strings.ToUpper(firstString(rec, flightArrPaths)),
			AircraftType:  firstString(rec, flightTypePaths),
			ExplicitState: firstString(rec, flightStatePaths),
			OnGround:      firstBool(rec, flightOnGroundPaths),
		}
		if f.Callsign == "" && !f.HasPosition() {
			continue
		}
		flights = append(flights, f)
	}
	return flights
}

// NormalizeControllers converts an arbitrary upstream ATC payload into
// canonical TrackedController records
func NormalizeControllers(raw any) []TrackedController {
	items := unwrapList(raw, append(controllerListPaths, genericListPaths...))
	controllers := make([]TrackedController, 0, len(items))
	for _, item := range items {
		rec, ok := item.(map[string]any)
		if !ok {
			continue
		}
		c := TrackedController{
			Callsign:     firstString(rec, controllerCallsignPaths),
			Lat:          firstNumber(rec, controllerLatPaths),
			Lon:          firstNumber(rec, controllerLonPaths),
			FrequencyMHz: firstNumber(rec, controllerFreqPaths),
		}
		if c.Callsign == "" && !c.HasPosition() {
			continue
		}
		controllers = append(controllers, c)
	}
	return controllers
}

// unwrapList finds "the list" inside a payload: a bare array, or an array
// under one of the given wrapper paths. Anything else is an empty list.
func unwrapList(raw any, paths []string) []any {
	if raw == nil {
		return nil
	}
	if items, ok := raw.([]any); ok {
		return items
	}
	rec, ok := raw.(map[string]any)
	if !ok {
		return nil
	}
	for _, path := range paths {
		if v, ok := lookupPath(rec, path); ok {
			if items, ok := v.([]any); ok {
				return items
			}
		}
	}
	return nil
}

// lookupPath resolves a dotted path against nested maps
func lookupPath(rec map[string]any, path string) (any, bool) {
	cur := any(rec)
	for _, key := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// firstNumber returns the first candidate that coerces to a finite number
func firstNumber(rec map[string]any, paths []string) *float64 {
	for _, path := range paths {
		v, ok := lookupPath(rec, path)
		if !ok {
			continue
		}
		if n, ok := coerceNumber(v); ok {
			return &n
		}
	}
	return nil
}

// firstString returns the first candidate that is a non-empty string
func firstString(rec map[string]any, paths []string) string {
	for _, path := range paths {
		v, ok := lookupPath(rec, path)
		if !ok {
			continue
		}
		if s, ok := v.(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		}
	}
	return ""
}

// firstBool returns the first candidate that is a bool
func firstBool(rec map[string]any, paths []string) *bool {
	for _, path := range paths {
		v, ok := lookupPath(rec, path)
		if !ok {
			continue
		}
		if b, ok := v.(bool); ok {
			return &b
		}
	}
	return nil
}

// coerceNumber accepts the numeric encodings seen across feed versions:
// JSON numbers, integral types, and numeric strings. NaN/Inf are rejected.
func coerceNumber(v any) (float64, bool) {
	var n float64
	switch val := v.(type) {
	case float64:
		n = val
	case float32:
		n = float64(val)
	case int:
		n = float64(val)
	case int64:
		n = float64(val)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false
		}
		n = parsed
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}
