package engine_test

import (
	"testing"

	"github.com/dom/worldcup-stats/internal/domain"
	"github.com/dom/worldcup-stats/internal/engine"
	"github.com/stretchr/testify/assert"
)

var goalsMetric = domain.MetricDescriptor{Key: domain.KeyGoals, Label: "Goals", RadarMax: 1.2, TotalMax: 8, TeamMax: 60}

func TestApplyBasis(t *testing.T) {
	tests := []struct {
		name      string
		resolved  engine.Resolved
		metric    domain.MetricDescriptor
		basis     domain.Basis
		minutes   float64
		team      domain.StatRecord
		wantValue float64
		wantBound float64
	}{
		{
			name:      "total keeps raw value",
			resolved:  engine.Resolved{Value: 5},
			metric:    goalsMetric,
			basis:     domain.BasisTotal,
			wantValue: 5,
			wantBound: 8,
		},
		{
			name:      "total bound defaults to ten times radar max",
			resolved:  engine.Resolved{Value: 5},
			metric:    domain.MetricDescriptor{Key: domain.KeyGoals, RadarMax: 1.5},
			basis:     domain.BasisTotal,
			wantValue: 5,
			wantBound: 15,
		},
		{
			name:      "per90",
			resolved:  engine.Resolved{Value: 3},
			metric:    goalsMetric,
			basis:     domain.BasisPer90,
			minutes:   45,
			wantValue: 6,
			wantBound: 1.2,
		},
		{
			name:      "per90 with zero minutes divides by one",
			resolved:  engine.Resolved{Value: 2},
			metric:    goalsMetric,
			basis:     domain.BasisPer90,
			minutes:   0,
			wantValue: 180,
			wantBound: 1.2,
		},
		{
			name:      "team percent",
			resolved:  engine.Resolved{Value: 3},
			metric:    goalsMetric,
			basis:     domain.BasisTeamPercent,
			team:      domain.StatRecord{"goals": 12},
			wantValue: 25,
			wantBound: 60,
		},
		{
			name:      "team percent zero team total substitutes one",
			resolved:  engine.Resolved{Value: 5},
			metric:    domain.MetricDescriptor{Key: domain.KeyTacklesWon, RadarMax: 3, TeamMax: 20},
			basis:     domain.BasisTeamPercent,
			team:      domain.StatRecord{"tacklesWon": 0},
			wantValue: 500,
			wantBound: 20,
		},
		{
			name:      "team percent uses legacy team field",
			resolved:  engine.Resolved{Value: 5},
			metric:    domain.MetricDescriptor{Key: domain.KeyTacklesWon, RadarMax: 3},
			basis:     domain.BasisTeamPercent,
			team:      domain.StatRecord{"tackles": 50},
			wantValue: 10,
			wantBound: 100,
		},
		{
			name:      "team percent of derived goals assists",
			resolved:  engine.Resolved{Value: 3},
			metric:    domain.MetricDescriptor{Key: domain.KeyGoalsAssists, RadarMax: 1.5, TeamMax: 60},
			basis:     domain.BasisTeamPercent,
			team:      domain.StatRecord{"goals": 8, "assists": 4},
			wantValue: 25,
			wantBound: 60,
		},
		{
			name:      "percentage ignores basis",
			resolved:  engine.Resolved{Value: 64, IsPercentage: true},
			metric:    domain.MetricDescriptor{Key: domain.KeyAccurateLongBallsPercentage, RadarMax: 70, TotalMax: 70},
			basis:     domain.BasisTeamPercent,
			minutes:   300,
			wantValue: 64,
			wantBound: 70,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.ApplyBasis(tt.resolved, tt.metric, tt.basis, tt.minutes, tt.team)
			assert.InDelta(t, tt.wantValue, got.Value, 1e-9)
			assert.InDelta(t, tt.wantBound, got.Bound, 1e-9)
		})
	}
}

func TestPer90Policy(t *testing.T) {
	tests := []struct {
		name    string
		policy  engine.Per90Policy
		key     domain.MetricKey
		value   float64
		minutes float64
		want    float64
	}{
		{"radar scales", engine.RadarPer90, domain.KeyGoals, 2, 180, 1},
		{"radar clamps zero minutes", engine.RadarPer90, domain.KeyGoals, 2, 0, 180},
		{"scatter scales", engine.ScatterPer90, domain.KeyGoals, 2, 180, 1},
		{"scatter passes through with zero minutes", engine.ScatterPer90, domain.KeyGoals, 2, 0, 2},
		{"scatter excludes rating", engine.ScatterPer90, domain.KeyRating, 7.1, 180, 7.1},
		{"scatter excludes save percentage", engine.ScatterPer90, domain.KeySavePercentage, 75, 180, 75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.policy.Per90(tt.key, tt.value, tt.minutes), 1e-9)
		})
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		basis domain.Basis
		pct   bool
		want  string
	}{
		{"total rounds to integer", 12.6, domain.BasisTotal, false, "13"},
		{"total rounds half up", 2.5, domain.BasisTotal, false, "3"},
		{"per90 two decimals", 6, domain.BasisPer90, false, "6.00"},
		{"percentage under total keeps decimals", 80, domain.BasisTotal, true, "80.00%"},
		{"team percent gets suffix", 500, domain.BasisTeamPercent, false, "500.00%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, engine.FormatValue(tt.value, tt.basis, tt.pct))
		})
	}
}
