// Package catalog reads the on-disk tournament data tree.
//
// The tree is laid out as <root>/<year>/<team>/. Each team directory holds
// one JSON document per player and a team document named <year>_<team>.json,
// either directly or under a team/ sub-directory.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dom/worldcup-stats/internal/domain"
	"gorm.io/datatypes"
)

// Snapshot is the full catalog read from disk
type Snapshot struct {
	Years   []string
	Teams   []*domain.Team
	Players []*domain.Player
}

// Load walks root and returns every year, team and player found.
// A missing root yields an empty snapshot. Player files that cannot be read
// or decoded are skipped.
func Load(root string) (*Snapshot, error) {
	snap := &Snapshot{}

	years, err := subdirs(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Printf("catalog: data directory %s does not exist, starting empty", root)
			return snap, nil
		}
		return nil, fmt.Errorf("failed to read data directory: %w", err)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(years)))
	snap.Years = years

	for _, year := range years {
		teams, err := subdirs(filepath.Join(root, year))
		if err != nil {
			return nil, fmt.Errorf("failed to read year %s: %w", year, err)
		}
		sort.Strings(teams)

		for _, team := range teams {
			teamDir := filepath.Join(root, year, team)

			t, err := loadTeam(teamDir, year, team)
			if err != nil {
				return nil, err
			}
			snap.Teams = append(snap.Teams, t)

			players, err := loadPlayers(teamDir, year, team)
			if err != nil {
				return nil, err
			}
			snap.Players = append(snap.Players, players...)
		}
	}

	return snap, nil
}

func subdirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

func loadTeam(teamDir, year, team string) (*domain.Team, error) {
	t := &domain.Team{
		ID:       domain.TeamID(year, team),
		Year:     year,
		Name:     team,
		NormName: NormalizeName(team),
		Stats:    datatypes.NewJSONType(domain.StatRecord{}),
	}

	filename := fmt.Sprintf("%s_%s.json", year, team)
	for _, path := range []string{
		filepath.Join(teamDir, "team", filename),
		filepath.Join(teamDir, filename),
	} {
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read team file %s: %w", path, err)
		}

		var doc domain.TeamDocument
		if err := json.Unmarshal(data, &doc); err != nil {
			log.Printf("ERROR [catalog.loadTeam] file=%s: %v", path, err)
			return t, nil
		}
		if doc.Stats != nil {
			t.Stats = datatypes.NewJSONType(doc.Stats)
		}
		return t, nil
	}

	return t, nil
}

func loadPlayers(teamDir, year, team string) ([]*domain.Player, error) {
	entries, err := os.ReadDir(teamDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read team %s/%s: %w", year, team, err)
	}

	var players []*domain.Player
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") || strings.HasPrefix(name, year) {
			continue
		}

		path := filepath.Join(teamDir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			log.Printf("ERROR [catalog.loadPlayers] file=%s: %v", path, err)
			continue
		}

		var doc domain.PlayerDocument
		if err := json.Unmarshal(data, &doc); err != nil {
			log.Printf("ERROR [catalog.loadPlayers] file=%s: %v", path, err)
			continue
		}

		players = append(players, NewPlayer(year, team, name, &doc))
	}

	sort.Slice(players, func(i, j int) bool {
		return players[i].Name < players[j].Name
	})
	return players, nil
}

// NewPlayer builds a catalog player from a decoded player document
func NewPlayer(year, team, filename string, doc *domain.PlayerDocument) *domain.Player {
	stats := doc.Stats
	if stats == nil {
		stats = domain.StatRecord{}
	}
	meta := datatypes.JSONMap{}
	for k, v := range doc.Meta {
		meta[k] = v
	}

	name := doc.MetaString("name", strings.TrimSuffix(filename, ".json"))
	return &domain.Player{
		ID:       domain.PlayerID(year, team, filename),
		Year:     year,
		Team:     team,
		Filename: filename,
		Name:     name,
		NormName: NormalizeName(name),
		Position: domain.Position(doc.MetaString("position", string(domain.PositionMidfielder))),
		Minutes:  stats.Get(domain.KeyMinutesPlayed),
		Meta:     meta,
		Stats:    datatypes.NewJSONType(stats),
	}
}
