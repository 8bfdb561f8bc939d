package geo

import "math"

const (
	// EarthRadiusM is the mean Earth radius used for great-circle distances.
	// Fine for airport-surface distances; not suitable for long-range geodesy.
	EarthRadiusM = 6371000.0

	// MetersPerNM is the length of one nautical mile in meters
	MetersPerNM = 1852.0
)

// HaversineMeters returns the great-circle distance in meters between two points
func HaversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusM * c
}

// MetersToNM converts meters to nautical miles
func MetersToNM(meters float64) float64 {
	return meters / MetersPerNM
}

// NMToMeters converts nautical miles to meters
func NMToMeters(nm float64) float64 {
	return nm * MetersPerNM
}

// HeadwindComponentKt returns the signed headwind component in knots for the
// given wind and runway heading. Positive is headwind, negative is tailwind.
// Returns (0, false) when either direction is unknown (calm/variable wind).
func HeadwindComponentKt(windDirDeg, windSpeedKt *float64, runwayHeadingDeg *float64) (float64, bool) {
	if windDirDeg == nil || windSpeedKt == nil || runwayHeadingDeg == nil {
		return 0, false
	}
	angleDiff := math.Abs(math.Mod(*windDirDeg-*runwayHeadingDeg+540, 360) - 180)
	return math.Cos(angleDiff*math.Pi/180) * *windSpeedKt, true
}

// NormalizeHeading maps an arbitrary heading to the 1..360 range.
// 0 maps to 360: a runway heading is never reported as zero.
func NormalizeHeading(raw float64) float64 {
	h := math.Mod(math.Mod(raw, 360)+360, 360)
	if h == 0 {
		return 360
	}
	return h
}

// BearingDeg returns the initial great-circle bearing from point 1 to point 2,
// normalized to [0, 360)
func BearingDeg(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	y := math.Sin(dLon) * math.Cos(lat2Rad)
	x := math.Cos(lat1Rad)*math.Sin(lat2Rad) - math.Sin(lat1Rad)*math.Cos(lat2Rad)*math.Cos(dLon)

	bearing := math.Atan2(y, x) * 180 / math.Pi
	return math.Mod(bearing+360, 360)
}
