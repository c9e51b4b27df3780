package engine

import "github.com/dom/worldcup-stats/internal/domain"

// Resolved is a raw metric value before any basis is applied
type Resolved struct {
	Value        float64 `json:"value"`
	IsPercentage bool    `json:"isPercentage"`
}

// percentageKeys are fields that already hold a 0-100 percentage
var percentageKeys = map[domain.MetricKey]bool{
	domain.KeyAccurateLongBallsPercentage:  true,
	domain.KeyAccuratePassesPercentage:     true,
	domain.KeySuccessfulDribblesPercentage: true,
	domain.KeyAccurateCrossesPercentage:    true,
	domain.KeyAerialDuelsWonPercentage:     true,
	domain.KeyTacklesWonPercentage:         true,
	domain.KeyDuelsWonPercentage:           true,
}

// IsPercentageKey reports whether a metric resolves to a percentage
func IsPercentageKey(key domain.MetricKey) bool {
	return key == domain.KeySavePercentage || percentageKeys[key]
}

// ResolveRaw derives the raw value of a metric from a stat record.
// It never fails: missing fields are 0 and a zero denominator yields 0.
func ResolveRaw(rec domain.StatRecord, key domain.MetricKey) Resolved {
	switch {
	case key == domain.KeySavePercentage:
		return Resolved{Value: savePercentage(rec), IsPercentage: true}
	case percentageKeys[key]:
		return Resolved{Value: rec.Get(key), IsPercentage: true}
	default:
		return Resolved{Value: countValue(rec, key)}
	}
}

// countValue resolves a counting metric. Team totals go through the same
// rules so a player's share is always computed against the same quantity.
func countValue(rec domain.StatRecord, key domain.MetricKey) float64 {
	switch key {
	case domain.KeyGoalsAssists:
		return rec.Get(domain.KeyGoals) + rec.Get(domain.KeyAssists)
	case domain.KeyTacklesWon:
		return firstNonZero(rec, domain.KeyTacklesWon, domain.KeyTackles)
	case domain.KeyDuelsWon:
		return firstNonZero(rec, domain.KeyTotalDuelsWon, domain.KeyDuelsWon)
	default:
		return rec.Get(key)
	}
}

func savePercentage(rec domain.StatRecord) float64 {
	saves := rec.Get(domain.KeySaves)
	shots := saves + rec.Get(domain.KeyGoalsConceded)
	if shots <= 0 {
		return 0
	}
	return saves / shots * 100
}

// firstNonZero reads primary and falls back to legacy when primary is absent or zero
func firstNonZero(rec domain.StatRecord, primary, legacy domain.MetricKey) float64 {
	if v := rec.Get(primary); v != 0 {
		return v
	}
	return rec.Get(legacy)
}
