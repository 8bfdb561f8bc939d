// Package runways scores runways against the current surface wind and
// selects the favored runway for the live airport view.
package runways

import (
	"regexp"
	"strconv"

	"github.com/skylive/airportal/internal/airports"
	"github.com/skylive/airportal/internal/geo"
)

var reRunwayIdent = regexp.MustCompile(`^(\d{2})`)

// Advisory is the per-runway wind assessment
type Advisory struct {
	Runway     airports.Runway `json:"runway"`
	HeadingDeg *float64        `json:"heading_deg,omitempty"` // Resolved heading used for scoring
	HeadwindKt *float64        `json:"headwind_kt,omitempty"` // Signed; negative = tailwind
	IsFavored  bool            `json:"is_favored"`
}

// Advise computes the headwind component for every runway with a resolvable
// heading and marks the one with the maximum headwind as favored. Ties go to
// the first runway in input order. With calm/variable wind or no resolvable
// headings, no runway is favored.
func Advise(windDirDeg, windSpeedKt *float64, rwys []airports.Runway) []Advisory {
	advisories := make([]Advisory, 0, len(rwys))

	favoredIdx := -1
	var bestHeadwind float64
	for i, rwy := range rwys {
		adv := Advisory{Runway: rwy}
		if heading := ResolveHeading(rwy); heading != nil {
			adv.HeadingDeg = heading
			if hw, ok := geo.HeadwindComponentKt(windDirDeg, windSpeedKt, heading); ok {
				adv.HeadwindKt = &hw
				if favoredIdx == -1 || hw > bestHeadwind {
					favoredIdx = i
					bestHeadwind = hw
				}
			}
		}
		advisories = append(advisories, adv)
	}

	if favoredIdx >= 0 {
		advisories[favoredIdx].IsFavored = true
	}
	return advisories
}

// ResolveHeading returns the runway's heading, deriving it from the leading
// numeric pair of the identifier ("09L" -> 90) when no explicit heading is
// recorded. Returns nil when neither source resolves.
func ResolveHeading(rwy airports.Runway) *float64 {
	if rwy.HeadingDeg != nil {
		h := geo.NormalizeHeading(*rwy.HeadingDeg)
		return &h
	}
	match := reRunwayIdent.FindStringSubmatch(rwy.Ident)
	if match == nil {
		return nil
	}
	pair, err := strconv.Atoi(match[1])
	if err != nil || pair < 1 || pair > 36 {
		return nil
	}
	h := geo.NormalizeHeading(float64(pair * 10))
	return &h
}
