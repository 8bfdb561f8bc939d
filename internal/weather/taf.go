package weather

import (
	"regexp"
	"strings"
)

var (
	reFMGroup   = regexp.MustCompile(`^FM\d{6}$`)
	reChangeKey = regexp.MustCompile(`^(TEMPO|BECMG|PROB\d{2})$`)
	reValidity  = regexp.MustCompile(`^\d{4}/\d{4}$`)
)

// periodAccumulator collects the tokens belonging to one forecast period
// while the token stream is folded
type periodAccumulator struct {
	label  string
	tokens []string
}

// DecodeTAF segments a raw TAF string into its ordered forecast periods and
// decodes each period's wind/visibility/cloud/weather fields. Tokens before
// the first change group form an implicit INITIAL period. An empty input
// yields no periods.
func DecodeTAF(raw string) []TAFPeriod {
	tokens := strings.Fields(strings.TrimSpace(raw))
	if len(tokens) == 0 {
		return nil
	}

	// Fold the token stream into closed period accumulators. The current
	// accumulator is always the last element; no external cursor state.
	accumulators := []periodAccumulator{{label: "INITIAL"}}
	for i := 0; i < len(tokens); i++ {
		token := tokens[i]

		switch {
		case reFMGroup.MatchString(token):
			accumulators = append(accumulators, periodAccumulator{
				label: "FM " + strings.TrimPrefix(token, "FM"),
			})
		case reChangeKey.MatchString(token):
			label := token
			// A validity range directly after the change keyword belongs
			// to the label, not to the period's weather fields
			if i+1 < len(tokens) && reValidity.MatchString(tokens[i+1]) {
				label += " " + tokens[i+1]
				i++
			}
			accumulators = append(accumulators, periodAccumulator{label: label})
		default:
			last := &accumulators[len(accumulators)-1]
			last.tokens = append(last.tokens, token)
		}
	}

	// An INITIAL period only exists if it accumulated tokens
	if accumulators[0].label == "INITIAL" && len(accumulators[0].tokens) == 0 {
		accumulators = accumulators[1:]
	}

	periods := make([]TAFPeriod, 0, len(accumulators))
	for _, acc := range accumulators {
		periods = append(periods, decodePeriod(acc))
	}
	return periods
}

// decodePeriod runs the METAR field extraction over one period's tokens.
// Temperature and pressure groups are not part of TAF output.
func decodePeriod(acc periodAccumulator) TAFPeriod {
	joined := strings.Join(acc.tokens, " ")
	period := TAFPeriod{Label: acc.label}
	period.WindDirectionDeg, period.WindSpeedKt, period.GustKt = extractWind(joined)
	period.Visibility = extractVisibility(acc.tokens)
	period.CloudLayers = extractClouds(joined)
	period.PresentWeather = extractPresentWeather(acc.tokens)
	return period
}
