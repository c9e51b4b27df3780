package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"github.com/dom/worldcup-stats/internal/domain"
)

type squadSlot struct {
	position domain.Position
	count    int
}

var squad = []squadSlot{
	{domain.PositionGoalkeeper, 2},
	{domain.PositionDefender, 6},
	{domain.PositionMidfielder, 6},
	{domain.PositionForward, 4},
}

var firstNames = []string{"Luis", "João", "Kevin", "Sergio", "Thomas", "Ángel", "Hakim", "Son", "Jude", "Pedri", "Achraf", "Virgil", "Raphaël", "Dušan", "Takefusa"}
var lastNames = []string{"Müller", "Silva", "Martínez", "Ødegaard", "Kane", "Modrić", "Núñez", "Gómez", "Dembélé", "Kovačić", "Doku", "Valverde", "Pulišić", "Tchouaméni", "Ramos"}

func generateName(rng *rand.Rand) string {
	return firstNames[rng.IntN(len(firstNames))] + " " + lastNames[rng.IntN(len(lastNames))]
}

func filenameFor(name string, index int) string {
	return fmt.Sprintf("%s_%d.json", strings.ToLower(strings.ReplaceAll(name, " ", "_")), index)
}

// playerStats rolls a plausible tournament line for one player
func playerStats(rng *rand.Rand, position domain.Position) domain.StatRecord {
	minutes := float64(rng.IntN(600) + 30)
	per90 := minutes / 90
	roll := func(rate float64) float64 {
		return float64(int(rng.Float64() * rate * per90))
	}
	pct := func(lo, hi float64) float64 {
		return lo + rng.Float64()*(hi-lo)
	}

	stats := domain.StatRecord{
		domain.KeyMinutesPlayed:            minutes,
		domain.KeyRating:                   6 + rng.Float64()*2,
		domain.KeyAccuratePasses:           roll(60),
		domain.KeyAccuratePassesPercentage: pct(65, 93),
		domain.KeyTotalDuelsWon:            roll(8),
		domain.KeyDuelsWonPercentage:       pct(35, 65),
	}

	switch position {
	case domain.PositionGoalkeeper:
		stats[domain.KeySaves] = roll(5)
		stats[domain.KeyGoalsConceded] = roll(2)
		stats[domain.KeyHighClaims] = roll(2)
		stats[domain.KeyRunsOut] = roll(1)
		stats[domain.KeyAccurateLongBallsPercentage] = pct(30, 60)
	case domain.PositionDefender:
		stats[domain.KeyTacklesWon] = roll(3)
		stats[domain.KeyInterceptions] = roll(3)
		stats[domain.KeyClearances] = roll(6)
		stats[domain.KeyAerialDuelsWon] = roll(4)
		stats[domain.KeyAerialDuelsWonPercentage] = pct(40, 75)
		stats[domain.KeyTacklesWonPercentage] = pct(40, 80)
		stats[domain.KeyAccurateLongBallsPercentage] = pct(40, 75)
	case domain.PositionMidfielder:
		stats[domain.KeyGoals] = roll(0.5)
		stats[domain.KeyAssists] = roll(0.6)
		stats[domain.KeyKeyPasses] = roll(3)
		stats[domain.KeySuccessfulDribbles] = roll(3)
		stats[domain.KeyTacklesWon] = roll(2.5)
		stats[domain.KeyInterceptions] = roll(2)
		stats[domain.KeyAccurateLongBallsPercentage] = pct(45, 85)
		stats[domain.KeySuccessfulDribblesPercentage] = pct(40, 75)
	case domain.PositionForward:
		stats[domain.KeyGoals] = roll(1.5)
		stats[domain.KeyAssists] = roll(0.8)
		stats[domain.KeyShotsOnTarget] = roll(3)
		stats[domain.KeyKeyPasses] = roll(2)
		stats[domain.KeySuccessfulDribbles] = roll(4)
		stats[domain.KeyWasFouled] = roll(3)
		stats[domain.KeySuccessfulDribblesPercentage] = pct(35, 70)
		stats[domain.KeyAccurateCrossesPercentage] = pct(15, 40)
	}
	return stats
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// writeTeam writes one squad and the team totals summed over it
func writeTeam(rng *rand.Rand, root, year, team string) (int, error) {
	dir := filepath.Join(root, year, team)
	totals := domain.StatRecord{}
	written := 0

	for _, slot := range squad {
		for i := 0; i < slot.count; i++ {
			name := generateName(rng)
			stats := playerStats(rng, slot.position)
			doc := domain.PlayerDocument{
				Meta: map[string]any{
					"name":     name,
					"position": string(slot.position),
					"team":     team,
				},
				Stats: stats,
			}
			if err := writeJSON(filepath.Join(dir, filenameFor(name, written)), doc); err != nil {
				return written, err
			}
			for k, v := range stats {
				if !strings.HasSuffix(string(k), "Percentage") && k != domain.KeyRating && k != domain.KeyMinutesPlayed {
					totals[k] += v
				}
			}
			written++
		}
	}

	teamDoc := domain.TeamDocument{Stats: totals}
	if err := writeJSON(filepath.Join(dir, "team", year+"_"+team+".json"), teamDoc); err != nil {
		return written, err
	}
	return written, nil
}

func main() {
	out := flag.String("out", "./data", "Directory to write the data tree into")
	years := flag.String("years", "2018,2022", "Comma-separated tournament years")
	teams := flag.String("teams", "Argentina,Brazil,Croatia,England,France,Morocco", "Comma-separated team names")
	seed := flag.Uint64("seed", 2022, "Random seed")
	flag.Parse()

	rng := rand.New(rand.NewPCG(*seed, *seed))

	fmt.Printf("Writing sample data to %s...\n\n", *out)

	total := 0
	for _, year := range strings.Split(*years, ",") {
		year = strings.TrimSpace(year)
		fmt.Printf("%s:\n", year)
		for _, team := range strings.Split(*teams, ",") {
			team = strings.TrimSpace(team)
			n, err := writeTeam(rng, *out, year, team)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to write %s %s: %v\n", year, team, err)
				os.Exit(1)
			}
			total += n
			fmt.Printf("  ✓ %s (%d players)\n", team, n)
		}
	}

	fmt.Println("\n" + "============================================================")
	fmt.Printf("SAMPLE DATA COMPLETE: %d players\n", total)
	fmt.Println("============================================================")
	fmt.Printf("\nStart the server with:\n  DATA_DIR=%s go run ./cmd/server\n", *out)
}
