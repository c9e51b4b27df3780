// Package engine turns raw player and team stats into bounded, comparable
// values for the radar comparison and the scatter correlation views.
//
// Everything in this package is a pure function of its inputs. Callers fetch
// records elsewhere and may recompute from scratch on every interaction.
package engine

import (
	"slices"

	"github.com/dom/worldcup-stats/internal/domain"
)

// metric builds a descriptor; bounds are radarMax, totalMax, teamMax (0 = unset)
func metric(key domain.MetricKey, label, tableLabel string, radarMax, totalMax, teamMax float64) domain.MetricDescriptor {
	return domain.MetricDescriptor{
		Key:        key,
		Label:      label,
		TableLabel: tableLabel,
		RadarMax:   radarMax,
		TotalMax:   totalMax,
		TeamMax:    teamMax,
	}
}

func inverted(m domain.MetricDescriptor) domain.MetricDescriptor {
	m.Inverted = true
	return m
}

// radarSchemas is the ordered radar axis list per position.
// List order is the axis order of the chart and the column order of the table.
var radarSchemas = map[domain.Position][]domain.MetricDescriptor{
	domain.PositionGoalkeeper: {
		metric(domain.KeySaves, "Saves", "", 5.0, 30, 0),
		metric(domain.KeySavePercentage, "Save%", "", 100, 100, 0),
		metric(domain.KeyAccuratePassesPercentage, "Pass%", "", 100, 100, 0),
		metric(domain.KeyAccurateLongBallsPercentage, "Long%", "", 70, 70, 0),
		metric(domain.KeyHighClaims, "Aerials", "", 2.0, 20, 0),
		metric(domain.KeyRunsOut, "Runs out", "RO", 2.0, 20, 0),
		inverted(metric(domain.KeyGoalsConceded, "Goals Conceded", "GC", 1.5, 10, 0)),
	},
	domain.PositionDefender: {
		metric(domain.KeyTacklesWon, "Tackles", "", 3.0, 20, 20),
		metric(domain.KeyInterceptions, "Interceptions", "Intercepts", 4.0, 25, 25),
		metric(domain.KeyClearances, "Clearances", "", 6.0, 45, 30),
		metric(domain.KeyAccuratePasses, "Passes", "", 70.0, 500, 20),
		metric(domain.KeyAccurateLongBallsPercentage, "Long%", "", 70, 70, 0),
		metric(domain.KeyAerialDuelsWon, "Aerial duels", "ADs", 2.0, 10, 50),
		metric(domain.KeyAerialDuelsWonPercentage, "Aerial duel%", "", 80, 80, 0),
	},
	domain.PositionMidfielder: {
		metric(domain.KeyKeyPasses, "Key passes", "KP", 4.0, 25, 50),
		metric(domain.KeyAccuratePassesPercentage, "Pass%", "", 100, 100, 0),
		metric(domain.KeyAssists, "Assists", "", 0.6, 5, 50),
		metric(domain.KeyShotsOnTarget, "Shots on target", "SoT", 2.5, 15, 50),
		metric(domain.KeySuccessfulDribbles, "Dribbles", "", 4.0, 20, 50),
		metric(domain.KeyDuelsWon, "Duels", "", 10.0, 70, 30),
		metric(domain.KeyTacklesWon, "Tackles", "", 4.0, 20, 30),
	},
	domain.PositionForward: {
		metric(domain.KeyGoals, "Goals", "", 1.2, 8, 60),
		metric(domain.KeyShotsOnTarget, "Shots on target", "SoT", 2.5, 15, 50),
		metric(domain.KeyAssists, "Assists", "", 0.5, 5, 50),
		metric(domain.KeyKeyPasses, "Key passes", "KP", 4.0, 25, 50),
		metric(domain.KeyAccuratePasses, "Passes", "", 70.0, 500, 20),
		metric(domain.KeyWasFouled, "Was fouled", "Fouled", 4.0, 30, 35),
		metric(domain.KeySuccessfulDribbles, "Dribbles", "", 5.0, 30, 60),
	},
	domain.PositionAll: {
		metric(domain.KeyGoalsAssists, "G+A", "", 1.5, 10, 60),
		metric(domain.KeyGoals, "Goals", "", 1.2, 8, 60),
		metric(domain.KeyShotsOnTarget, "Shots on target", "SoT", 2.5, 15, 50),
		metric(domain.KeyAssists, "Assists", "", 0.5, 5, 50),
		metric(domain.KeyKeyPasses, "Key passes", "KP", 4.0, 25, 50),
		metric(domain.KeyAccuratePasses, "Passes", "", 70.0, 500, 20),
		metric(domain.KeyWasFouled, "Was fouled", "", 4.0, 30, 35),
		metric(domain.KeySuccessfulDribbles, "Dribbles", "", 5.0, 35, 60),
		metric(domain.KeyDuelsWon, "Duels", "", 10.0, 70, 30),
		metric(domain.KeyTacklesWon, "Tackles", "", 3.0, 20, 20),
		metric(domain.KeyInterceptions, "Interceptions", "Intercepts", 4.0, 25, 25),
		metric(domain.KeyClearances, "Clearances", "", 6.0, 45, 30),
	},
}

// AxisOption is one selectable scatter axis
type AxisOption struct {
	Key   domain.MetricKey `json:"key"`
	Label string           `json:"label"`
}

var scatterAxes = map[domain.Position][]AxisOption{
	domain.PositionAll: {
		{domain.KeyGoals, "Goals"},
		{domain.KeyAssists, "Assists"},
		{domain.KeyShotsOnTarget, "Shots on target"},
		{domain.KeyKeyPasses, "Key passes"},
		{domain.KeyAccuratePasses, "Passes"},
		{domain.KeyWasFouled, "Was Fouled"},
		{domain.KeySuccessfulDribbles, "Dribbles"},
		{domain.KeyTotalDuelsWon, "Duels Won"},
		{domain.KeyTacklesWon, "Tackles won"},
		{domain.KeyInterceptions, "Interceptions"},
	},
	domain.PositionForward: {
		{domain.KeyGoals, "Goals"},
		{domain.KeyAssists, "Assists"},
		{domain.KeyShotsOnTarget, "Shots on target"},
		{domain.KeyKeyPasses, "Key passes"},
		{domain.KeyAccuratePasses, "Passes"},
		{domain.KeyWasFouled, "Was fouled"},
		{domain.KeySuccessfulDribbles, "Dribbles"},
	},
	domain.PositionMidfielder: {
		{domain.KeyAssists, "Assists"},
		{domain.KeyKeyPasses, "Key passes"},
		{domain.KeyAccuratePassesPercentage, "Pass%"},
		{domain.KeyShotsOnTarget, "Shots on target"},
		{domain.KeySuccessfulDribbles, "Dribbles"},
		{domain.KeyTotalDuelsWon, "Duels Won"},
		{domain.KeyTacklesWon, "Tackles won"},
	},
	domain.PositionDefender: {
		{domain.KeyTacklesWon, "Tackles won"},
		{domain.KeyInterceptions, "Interceptions"},
		{domain.KeyClearances, "Clearances"},
		{domain.KeyAccuratePasses, "Passes"},
		{domain.KeyAccurateLongBallsPercentage, "Long%"},
		{domain.KeyAerialDuelsWon, "Aerial duels"},
		{domain.KeyAerialDuelsWonPercentage, "Aerial duel%"},
	},
	domain.PositionGoalkeeper: {
		{domain.KeySaves, "Saves"},
		{domain.KeySavePercentage, "Save%"},
		{domain.KeyAccuratePassesPercentage, "Pass%"},
		{domain.KeyAccurateLongBallsPercentage, "Long%"},
		{domain.KeyHighClaims, "Aerials"},
		{domain.KeyRunsOut, "Runs out"},
		{domain.KeyGoalsConceded, "Goals Conceded"},
	},
}

// SchemaFor returns the radar metric list of a position.
// Unknown positions resolve to the ALL schema. The returned slice is a copy.
func SchemaFor(position domain.Position) []domain.MetricDescriptor {
	schema, ok := radarSchemas[position]
	if !ok {
		schema = radarSchemas[domain.PositionAll]
	}
	return slices.Clone(schema)
}

// AxisOptionsFor returns the scatter axis choices of a position.
// Unknown positions resolve to the ALL list.
func AxisOptionsFor(position domain.Position) []AxisOption {
	options, ok := scatterAxes[position]
	if !ok {
		options = scatterAxes[domain.PositionAll]
	}
	return slices.Clone(options)
}

// AvailableBases lists the bases offered for a position.
// Team percentages are meaningless for goalkeepers and are not offered.
func AvailableBases(position domain.Position) []domain.Basis {
	if position == domain.PositionGoalkeeper {
		return []domain.Basis{domain.BasisTotal, domain.BasisPer90}
	}
	return slices.Clone(domain.AllBases)
}

// NormalizeBasis maps a requested basis onto one that is valid for the position
func NormalizeBasis(position domain.Position, basis domain.Basis) domain.Basis {
	if !slices.Contains(AvailableBases(position), basis) {
		return domain.DefaultBasis
	}
	return basis
}

func axisLabel(position domain.Position, key domain.MetricKey) string {
	for _, opt := range AxisOptionsFor(position) {
		if opt.Key == key {
			return opt.Label
		}
	}
	return string(key)
}
