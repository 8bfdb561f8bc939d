package weather

import (
	"regexp"
	"strconv"
	"strings"
)

// METAR token patterns. Extraction is order-independent: each group is
// searched over the whole report, so producers that reorder tokens still
// decode. Visibility is the exception (see extractVisibility).
var (
	reWind     = regexp.MustCompile(`\b(\d{3}|VRB)(\d{2,3})(G\d{2,3})?KT\b`)
	reTempDew  = regexp.MustCompile(`\b(M?\d{2})/(M?\d{2})\b`)
	rePressure = regexp.MustCompile(`\b([QA])(\d{4})\b`)
	reCloud    = regexp.MustCompile(`\b(FEW|SCT|BKN|OVC)(\d{3})\b`)

	reVisMeters = regexp.MustCompile(`^\d{4}$`)
	reVisSM     = regexp.MustCompile(`^\d{1,2}SM$`)

	// Present weather groups, matched token-by-token so that intensity
	// prefixes ("+"/"-") are never silently dropped
	reWeatherGroup = regexp.MustCompile(`^([+-])?(TS|SH|FZ)?(DZ|RA|SN|SG|PL|GR|GS|BR|FG|FU|VA|DU|SA|HZ|SQ|FC|SS|DS)$`)
	reWeatherLoose = regexp.MustCompile(`^([+-])?(TS|SH|FZ)?([A-Z]{2})$`)
)

// phenomenonLabels maps METAR phenomenon codes to human labels.
// Pure data: new codes are additions here, not logic changes.
var phenomenonLabels = map[string]string{
	"DZ": "Drizzle",
	"RA": "Rain",
	"SN": "Snow",
	"SG": "Snow Grains",
	"PL": "Ice Pellets",
	"GR": "Hail",
	"GS": "Small Hail",
	"BR": "Mist",
	"FG": "Fog",
	"FU": "Smoke",
	"VA": "Volcanic Ash",
	"DU": "Dust",
	"SA": "Sand",
	"HZ": "Haze",
	"SQ": "Squalls",
	"FC": "Funnel Cloud",
	"SS": "Sandstorm",
	"DS": "Duststorm",
}

var descriptorLabels = map[string]string{
	"TS": "Thunderstorm",
	"SH": "Showers",
	"FZ": "Freezing",
}

var intensityLabels = map[string]string{
	"+": "Heavy",
	"-": "Light",
}

// DecodeMETAR parses a raw METAR string into structured fields. An empty
// input yields an empty result; a token that matches no known pattern
// leaves its field unset and decoding continues.
func DecodeMETAR(raw string) ParsedMETAR {
	var m ParsedMETAR
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return m
	}

	m.WindDirectionDeg, m.WindSpeedKt, m.GustKt = extractWind(raw)
	m.Visibility = extractVisibility(strings.Fields(raw))
	m.CloudLayers = extractClouds(raw)
	m.PresentWeather = extractPresentWeather(strings.Fields(raw))

	if match := reTempDew.FindStringSubmatch(raw); match != nil {
		if t, ok := parseSignedTemp(match[1]); ok {
			m.TemperatureC = &t
		}
		if d, ok := parseSignedTemp(match[2]); ok {
			m.DewpointC = &d
		}
	}

	if match := rePressure.FindStringSubmatch(raw); match != nil {
		value, err := strconv.Atoi(match[2])
		if err == nil {
			switch match[1] {
			case "Q":
				m.QNHhPa = &value
			case "A":
				inHg := float64(value) / 100.0
				m.AltimeterInHg = &inHg
			}
		}
	}

	return m
}

// extractWind decodes the wind group. A "VRB" direction decodes with a nil
// direction (variable), keeping speed and gust.
func extractWind(raw string) (dir, speed, gust *float64) {
	match := reWind.FindStringSubmatch(raw)
	if match == nil {
		return nil, nil, nil
	}

	if match[1] != "VRB" {
		if d, err := strconv.ParseFloat(match[1], 64); err == nil {
			dir = &d
		}
	}
	if s, err := strconv.ParseFloat(match[2], 64); err == nil {
		speed = &s
	}
	if match[3] != "" {
		if g, err := strconv.ParseFloat(strings.TrimPrefix(match[3], "G"), 64); err == nil {
			gust = &g
		}
	}
	return dir, speed, gust
}

// extractVisibility returns the first standalone 4-digit token (meters) or
// N/NN SM token. Token-wise matching keeps day/time, wind, and validity
// groups from being claimed: none of those are bare 4-digit tokens.
func extractVisibility(tokens []string) string {
	for _, token := range tokens {
		if reVisMeters.MatchString(token) || reVisSM.MatchString(token) {
			return token
		}
	}
	return ""
}

// extractClouds returns every cloud layer group in order of appearance
func extractClouds(raw string) []CloudLayer {
	matches := reCloud.FindAllStringSubmatch(raw, -1)
	if matches == nil {
		return nil
	}
	layers := make([]CloudLayer, 0, len(matches))
	for _, match := range matches {
		height, err := strconv.Atoi(match[2])
		if err != nil {
			continue
		}
		layers = append(layers, CloudLayer{
			Code:            match[0],
			Type:            match[1],
			HeightHundredFt: height,
		})
	}
	return layers
}

// extractPresentWeather scans tokens for weather groups and maps each to a
// human label. Groups with a recognizable shape but an unknown phenomenon
// code pass through as the raw code.
func extractPresentWeather(tokens []string) []string {
	var labels []string
	for _, token := range tokens {
		if match := reWeatherGroup.FindStringSubmatch(token); match != nil {
			labels = append(labels, composeWeatherLabel(match[1], match[2], match[3]))
			continue
		}
		if match := reWeatherLoose.FindStringSubmatch(token); match != nil {
			// Shape of a weather group, phenomenon not in the table
			if _, known := phenomenonLabels[match[3]]; !known && (match[1] != "" || match[2] != "") {
				labels = append(labels, token)
			}
		}
	}
	return labels
}

// composeWeatherLabel joins intensity, descriptor, and phenomenon labels
func composeWeatherLabel(intensity, descriptor, phenomenon string) string {
	parts := make([]string, 0, 3)
	if label, ok := intensityLabels[intensity]; ok {
		parts = append(parts, label)
	}
	if label, ok := descriptorLabels[descriptor]; ok {
		parts = append(parts, label)
	}
	if label, ok := phenomenonLabels[phenomenon]; ok {
		parts = append(parts, label)
	} else {
		parts = append(parts, phenomenon)
	}
	return strings.Join(parts, " ")
}

// parseSignedTemp parses a METAR temperature group ("12", "M05")
func parseSignedTemp(s string) (int, bool) {
	negative := strings.HasPrefix(s, "M")
	value, err := strconv.Atoi(strings.TrimPrefix(s, "M"))
	if err != nil {
		return 0, false
	}
	if negative {
		value = -value
	}
	return value, true
}
