package domain

// MetricKey names a stat field or a derived metric.
type MetricKey string

// Counting and rate fields read from stat records
const (
	KeyMinutesPlayed MetricKey = "minutesPlayed"
	KeyMinutes       MetricKey = "minutes" // population rows
	KeyRating        MetricKey = "rating"

	KeyGoals              MetricKey = "goals"
	KeyAssists            MetricKey = "assists"
	KeyShotsOnTarget      MetricKey = "shotsOnTarget"
	KeyKeyPasses          MetricKey = "keyPasses"
	KeyAccuratePasses     MetricKey = "accuratePasses"
	KeyPasses             MetricKey = "passes" // population alias of accuratePasses
	KeySuccessfulDribbles MetricKey = "successfulDribbles"
	KeyWasFouled          MetricKey = "wasFouled"
	KeyTotalDuelsWon      MetricKey = "totalDuelsWon"
	KeyDuelsWon           MetricKey = "duelsWon"
	KeyTacklesWon         MetricKey = "tacklesWon"
	KeyTackles            MetricKey = "tackles" // legacy name of tacklesWon
	KeyInterceptions      MetricKey = "interceptions"
	KeyClearances         MetricKey = "clearances"
	KeyAerialDuelsWon     MetricKey = "aerialDuelsWon"

	KeySaves         MetricKey = "saves"
	KeyGoalsConceded MetricKey = "goalsConceded"
	KeyHighClaims    MetricKey = "highClaims"
	KeyRunsOut       MetricKey = "runsOut"

	KeyAccuratePassesPercentage     MetricKey = "accuratePassesPercentage"
	KeyAccurateLongBallsPercentage  MetricKey = "accurateLongBallsPercentage"
	KeySuccessfulDribblesPercentage MetricKey = "successfulDribblesPercentage"
	KeyAccurateCrossesPercentage    MetricKey = "accurateCrossesPercentage"
	KeyAerialDuelsWonPercentage     MetricKey = "aerialDuelsWonPercentage"
	KeyTacklesWonPercentage         MetricKey = "tacklesWonPercentage"
	KeyDuelsWonPercentage           MetricKey = "duelsWonPercentage"
)

// Derived metrics computed from several fields
const (
	KeySavePercentage MetricKey = "savePercentage"
	KeyGoalsAssists   MetricKey = "goalsAssists"
)

func (k MetricKey) String() string {
	return string(k)
}

// MetricDescriptor describes one radar axis of a position schema.
// Zero bounds mean "unset" and fall back to their defaults.
type MetricDescriptor struct {
	Key        MetricKey `json:"key"`
	Label      string    `json:"label"`
	TableLabel string    `json:"tableLabel,omitempty"`
	RadarMax   float64   `json:"radarMax"`
	TotalMax   float64   `json:"totalMax,omitempty"`
	TeamMax    float64   `json:"teamMax,omitempty"`
	Inverted   bool      `json:"inverted,omitempty"`
}

// ColumnLabel returns the short table label, or the display label when none is set
func (m MetricDescriptor) ColumnLabel() string {
	if m.TableLabel != "" {
		return m.TableLabel
	}
	return m.Label
}

// TotalBound is the normalisation ceiling for the total basis
func (m MetricDescriptor) TotalBound() float64 {
	if m.TotalMax > 0 {
		return m.TotalMax
	}
	return m.RadarMax * 10
}

// TeamBound is the normalisation ceiling for the team-percent basis
func (m MetricDescriptor) TeamBound() float64 {
	if m.TeamMax > 0 {
		return m.TeamMax
	}
	return 100
}
