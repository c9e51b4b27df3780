package domain

import (
	"fmt"

	"gorm.io/datatypes"
)

type Player struct {
	ID       string                         `json:"id" gorm:"primaryKey"` // "<year>_<team>_<filename>"
	Year     string                         `json:"year" gorm:"index:idx_players_year_team;not null"`
	Team     string                         `json:"team" gorm:"index:idx_players_year_team;not null"`
	Filename string                         `json:"filename" gorm:"not null"`
	Name     string                         `json:"name" gorm:"not null"`
	NormName string                         `json:"-" gorm:"index"`
	Position Position                       `json:"position" gorm:"not null"`
	Minutes  float64                        `json:"minutes"`
	Meta     datatypes.JSONMap              `json:"meta" gorm:"type:jsonb"`
	Stats    datatypes.JSONType[StatRecord] `json:"stats" gorm:"type:jsonb"`
}

// Record returns the player's raw stats
func (p *Player) Record() StatRecord {
	return p.Stats.Data()
}

type Team struct {
	ID       string                         `json:"id" gorm:"primaryKey"` // "<year>_<team>"
	Year     string                         `json:"year" gorm:"index;not null"`
	Name     string                         `json:"name" gorm:"not null"`
	NormName string                         `json:"-" gorm:"index"`
	Stats    datatypes.JSONType[StatRecord] `json:"stats" gorm:"type:jsonb"`
}

func (t *Team) Record() StatRecord {
	return t.Stats.Data()
}

func PlayerID(year, team, filename string) string {
	return fmt.Sprintf("%s_%s_%s", year, team, filename)
}

func TeamID(year, team string) string {
	return fmt.Sprintf("%s_%s", year, team)
}

// PlayerSummary is one row of a team's squad list
type PlayerSummary struct {
	Name     string   `json:"name"`
	Filename string   `json:"filename"`
	Position Position `json:"position"`
}

// SearchResult is one hit of a player or team search
type SearchResult struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Year     string   `json:"year"`
	Team     string   `json:"team"`
	Filename string   `json:"filename,omitempty"`
	Position Position `json:"position"`
}

// SearchKind selects players or teams in a search
type SearchKind string

const (
	SearchKindPlayer SearchKind = "player"
	SearchKindTeam   SearchKind = "team"
)

// PopulationRow is one player of a scatter population
type PopulationRow struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Team     string     `json:"team"`
	Position Position   `json:"position"`
	Year     string     `json:"year"`
	Filename string     `json:"filename"`
	Minutes  float64    `json:"minutes"`
	Stats    StatRecord `json:"stats"`
}

// populationFields is the subset of stats carried by population rows
var populationFields = []MetricKey{
	KeyGoals,
	KeyAssists,
	KeyShotsOnTarget,
	KeyKeyPasses,
	KeyAccuratePasses,
	KeySuccessfulDribbles,
	KeyTotalDuelsWon,
	KeyRating,
	KeyWasFouled,
	KeySaves,
	KeyGoalsConceded,
	KeyAccuratePassesPercentage,
	KeyAccurateLongBallsPercentage,
	KeyHighClaims,
	KeyRunsOut,
	KeyTacklesWon,
	KeyInterceptions,
	KeyClearances,
	KeyAerialDuelsWon,
	KeyAerialDuelsWonPercentage,
}

// PopulationRow projects a player onto the scatter population shape
func (p *Player) PopulationRow() PopulationRow {
	rec := p.Record()
	stats := make(StatRecord, len(populationFields)+2)
	for _, k := range populationFields {
		stats[k] = rec.Get(k)
	}
	stats[KeyMinutes] = rec.Get(KeyMinutesPlayed)
	stats[KeyPasses] = rec.Get(KeyAccuratePasses)

	team := p.Team
	if t, ok := p.Meta["team"].(string); ok && t != "" {
		team = t
	}

	return PopulationRow{
		ID:       p.ID,
		Name:     p.Name,
		Team:     team,
		Position: p.Position,
		Year:     p.Year,
		Filename: p.Filename,
		Minutes:  rec.Get(KeyMinutesPlayed),
		Stats:    stats,
	}
}

// SearchResult converts the player into a search hit
func (p *Player) SearchResult() SearchResult {
	return SearchResult{
		ID:       p.ID,
		Name:     p.Name,
		Year:     p.Year,
		Team:     p.Team,
		Filename: p.Filename,
		Position: p.Position,
	}
}

func (t *Team) SearchResult() SearchResult {
	return SearchResult{
		ID:       t.ID + "_TEAM",
		Name:     t.Name,
		Year:     t.Year,
		Team:     t.Name,
		Position: PositionTeam,
	}
}
