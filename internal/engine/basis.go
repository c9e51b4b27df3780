package engine

import (
	"math"
	"strconv"

	"github.com/dom/worldcup-stats/internal/domain"
)

// Per90Policy configures how a call site rate-scales a raw value.
type Per90Policy struct {
	// Excluded keys are already rates or percentages and pass through unscaled
	Excluded map[domain.MetricKey]bool
	// ClampMinutes divides by max(minutes, 1). Without it a player with no
	// minutes keeps the raw value.
	ClampMinutes bool
}

// RadarPer90 is the radar comparison policy. Percentage-typed metrics never
// reach it because they bypass the basis entirely.
var RadarPer90 = Per90Policy{ClampMinutes: true}

// ScatterPer90 is the scatter axis policy
var ScatterPer90 = Per90Policy{
	Excluded: map[domain.MetricKey]bool{
		domain.KeyMinutes:                     true,
		domain.KeyRating:                      true,
		domain.KeySavePercentage:              true,
		domain.KeyAccuratePassesPercentage:    true,
		domain.KeyAccurateLongBallsPercentage: true,
		domain.KeyAerialDuelsWonPercentage:    true,
	},
}

// Per90 scales value to a 90-minute rate under the policy
func (p Per90Policy) Per90(key domain.MetricKey, value, minutes float64) float64 {
	if p.Excluded[key] {
		return value
	}
	if p.ClampMinutes {
		return value / math.Max(minutes, 1) * 90
	}
	if minutes <= 0 {
		return value
	}
	return value / minutes * 90
}

// Scaled is a basis-transformed value with the bound it is scored against
type Scaled struct {
	Value float64 `json:"value"`
	Bound float64 `json:"bound"`
}

// ApplyBasis transforms a resolved radar value under basis.
// team is the player's team record and is only read for the team-percent basis.
func ApplyBasis(resolved Resolved, metric domain.MetricDescriptor, basis domain.Basis, minutes float64, team domain.StatRecord) Scaled {
	if resolved.IsPercentage {
		return Scaled{Value: resolved.Value, Bound: metric.RadarMax}
	}

	switch basis {
	case domain.BasisTotal:
		return Scaled{Value: resolved.Value, Bound: metric.TotalBound()}
	case domain.BasisTeamPercent:
		teamValue := countValue(team, metric.Key)
		if teamValue == 0 {
			teamValue = 1
		}
		return Scaled{Value: resolved.Value / teamValue * 100, Bound: metric.TeamBound()}
	default:
		return Scaled{
			Value: RadarPer90.Per90(metric.Key, resolved.Value, minutes),
			Bound: metric.RadarMax,
		}
	}
}

// FormatValue renders a transformed value for display. Raw totals are shown
// as whole numbers, everything else with two decimals; percentage-typed and
// team-percent values carry a trailing %.
func FormatValue(value float64, basis domain.Basis, isPercentage bool) string {
	var s string
	if basis == domain.BasisTotal && !isPercentage {
		s = strconv.FormatFloat(math.Round(value), 'f', 0, 64)
	} else {
		s = strconv.FormatFloat(value, 'f', 2, 64)
	}
	if isPercentage || basis == domain.BasisTeamPercent {
		s += "%"
	}
	return s
}

// round2 rounds to two decimals, half away from zero
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
