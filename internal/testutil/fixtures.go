package testutil

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/dom/worldcup-stats/internal/catalog"
	"github.com/dom/worldcup-stats/internal/domain"
	"github.com/dom/worldcup-stats/internal/repository"
	"gorm.io/datatypes"
)

// PlayerBuilder creates test players with a builder pattern
type PlayerBuilder struct {
	year     string
	team     string
	name     string
	filename string
	meta     map[string]any
	stats    domain.StatRecord
}

// NewPlayerBuilder creates a player whose filename is "<name>.json"
func NewPlayerBuilder(year, team, name string) *PlayerBuilder {
	return &PlayerBuilder{
		year:     year,
		team:     team,
		name:     name,
		filename: name + ".json",
		meta: map[string]any{
			"name":     name,
			"position": string(domain.PositionMidfielder),
		},
		stats: domain.StatRecord{},
	}
}

// WithFilename sets the document filename
func (b *PlayerBuilder) WithFilename(filename string) *PlayerBuilder {
	b.filename = filename
	return b
}

// WithPosition sets the meta position
func (b *PlayerBuilder) WithPosition(position domain.Position) *PlayerBuilder {
	b.meta["position"] = string(position)
	return b
}

// WithMeta sets an arbitrary meta field
func (b *PlayerBuilder) WithMeta(key string, value any) *PlayerBuilder {
	b.meta[key] = value
	return b
}

// WithStat sets one stat field
func (b *PlayerBuilder) WithStat(key domain.MetricKey, value float64) *PlayerBuilder {
	b.stats[key] = value
	return b
}

// WithStats merges several stat fields
func (b *PlayerBuilder) WithStats(stats domain.StatRecord) *PlayerBuilder {
	for k, v := range stats {
		b.stats[k] = v
	}
	return b
}

// Document returns the on-disk form of the player
func (b *PlayerBuilder) Document() *domain.PlayerDocument {
	meta := make(map[string]any, len(b.meta))
	for k, v := range b.meta {
		meta[k] = v
	}
	stats := make(domain.StatRecord, len(b.stats))
	for k, v := range b.stats {
		stats[k] = v
	}
	return &domain.PlayerDocument{Meta: meta, Stats: stats}
}

// Player returns the catalog form of the player
func (b *PlayerBuilder) Player() *domain.Player {
	return catalog.NewPlayer(b.year, b.team, b.filename, b.Document())
}

// Build stores the player in repo and returns it
func (b *PlayerBuilder) Build(t *testing.T, repo repository.PlayerRepository) *domain.Player {
	t.Helper()

	p := b.Player()
	if err := repo.UpsertMany(context.Background(), []*domain.Player{p}); err != nil {
		t.Fatalf("failed to create player: %v", err)
	}
	return p
}

// WriteTo writes the player document into a data tree rooted at root
func (b *PlayerBuilder) WriteTo(t *testing.T, root string) {
	t.Helper()
	writeJSON(t, filepath.Join(root, b.year, b.team, b.filename), b.Document())
}

// NewTeam creates a catalog team
func NewTeam(year, name string, stats domain.StatRecord) *domain.Team {
	if stats == nil {
		stats = domain.StatRecord{}
	}
	return &domain.Team{
		ID:       domain.TeamID(year, name),
		Year:     year,
		Name:     name,
		NormName: catalog.NormalizeName(name),
		Stats:    datatypes.NewJSONType(stats),
	}
}

// WriteTeam writes a team document under <root>/<year>/<team>/team/
func WriteTeam(t *testing.T, root, year, team string, stats domain.StatRecord) {
	t.Helper()
	writeJSON(t, filepath.Join(root, year, team, "team", year+"_"+team+".json"), domain.TeamDocument{Stats: stats})
}

func writeJSON(t *testing.T, path string, v any) {
	t.Helper()

	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal %s: %v", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// Fixture player files
const (
	MessiFile    = "messi.json"
	MartinezFile = "martinez.json"
	EnzoFile     = "enzo.json"
	MbappeFile   = "mbappe.json"
	VaraneFile   = "varane.json"
	BenchFile    = "bench.json"
	ModricFile   = "modric.json"
)

// WriteFixtureTree writes a small tournament data tree and returns its root.
// 2022 has Argentina and France, 2018 has Croatia. The bench player is below
// the default population minutes floor.
func WriteFixtureTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	WriteTeam(t, root, "2022", "Argentina", domain.StatRecord{
		"goals": 15, "assists": 10, "tacklesWon": 80, "shotsOnTarget": 40,
	})
	NewPlayerBuilder("2022", "Argentina", "Lionel Messi").WithFilename(MessiFile).
		WithPosition(domain.PositionForward).
		WithStats(domain.StatRecord{
			"minutesPlayed": 690, "goals": 7, "assists": 3, "shotsOnTarget": 21, "keyPasses": 20,
			"accuratePasses": 300, "successfulDribbles": 15, "wasFouled": 14, "totalDuelsWon": 40,
			"tacklesWon": 3, "rating": 8.4,
		}).WriteTo(t, root)
	NewPlayerBuilder("2022", "Argentina", "Emiliano Martínez").WithFilename(MartinezFile).
		WithPosition(domain.PositionGoalkeeper).
		WithStats(domain.StatRecord{
			"minutesPlayed": 720, "saves": 15, "goalsConceded": 8, "accuratePassesPercentage": 70,
			"accurateLongBallsPercentage": 40, "highClaims": 5, "runsOut": 3,
		}).WriteTo(t, root)
	NewPlayerBuilder("2022", "Argentina", "Enzo Fernández").WithFilename(EnzoFile).
		WithPosition(domain.PositionMidfielder).
		WithStats(domain.StatRecord{
			"minutesPlayed": 600, "goals": 1, "assists": 1, "keyPasses": 9, "accuratePassesPercentage": 88,
			"accuratePasses": 420, "totalDuelsWon": 35, "tacklesWon": 12,
		}).WriteTo(t, root)

	writeJSON(t, filepath.Join(root, "2022", "France", "2022_France.json"), domain.TeamDocument{
		Stats: domain.StatRecord{"goals": 16, "assists": 11},
	})
	NewPlayerBuilder("2022", "France", "Kylian Mbappé").WithFilename(MbappeFile).
		WithPosition(domain.PositionForward).
		WithStats(domain.StatRecord{
			"minutesPlayed": 598, "goals": 8, "assists": 2, "shotsOnTarget": 20, "keyPasses": 8,
			"accuratePasses": 180, "successfulDribbles": 20, "wasFouled": 10,
		}).WriteTo(t, root)
	NewPlayerBuilder("2022", "France", "Raphaël Varane").WithFilename(VaraneFile).
		WithPosition(domain.PositionDefender).
		WithStats(domain.StatRecord{
			"minutesPlayed": 450, "tacklesWon": 5, "interceptions": 7, "clearances": 20,
			"accuratePasses": 250, "aerialDuelsWon": 9, "aerialDuelsWonPercentage": 69,
		}).WriteTo(t, root)
	NewPlayerBuilder("2022", "France", "Bench Sub").WithFilename(BenchFile).
		WithPosition(domain.PositionForward).
		WithStats(domain.StatRecord{"minutesPlayed": 45}).
		WriteTo(t, root)

	NewPlayerBuilder("2018", "Croatia", "Luka Modrić").WithFilename(ModricFile).
		WithPosition(domain.PositionMidfielder).
		WithStats(domain.StatRecord{
			"minutesPlayed": 694, "goals": 2, "assists": 1, "keyPasses": 15, "accuratePassesPercentage": 85,
		}).WriteTo(t, root)

	return root
}
