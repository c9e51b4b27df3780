package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/dom/worldcup-stats/internal/domain"
	"github.com/dom/worldcup-stats/internal/repository"
)

type playerRepository struct {
	mu      sync.RWMutex
	players map[string]*domain.Player
}

func NewPlayerRepository() *playerRepository {
	return &playerRepository{players: make(map[string]*domain.Player)}
}

func (r *playerRepository) UpsertMany(ctx context.Context, players []*domain.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range players {
		r.players[p.ID] = p
	}
	return nil
}

func (r *playerRepository) Get(ctx context.Context, year, team, filename string) (*domain.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.players[domain.PlayerID(year, team, filename)]
	if !ok {
		return nil, domain.ErrPlayerNotFound
	}
	return p, nil
}

func (r *playerRepository) ListByTeam(ctx context.Context, year, team string) ([]*domain.Player, error) {
	return r.filter(func(p *domain.Player) bool {
		return p.Year == year && p.Team == team
	}, 0), nil
}

func (r *playerRepository) Search(ctx context.Context, normQuery string, position domain.Position, limit int) ([]*domain.Player, error) {
	anyPosition := position == "" || position == domain.PositionAll
	return r.filter(func(p *domain.Player) bool {
		if !anyPosition && p.Position != position {
			return false
		}
		return strings.Contains(p.NormName, normQuery)
	}, limit), nil
}

func (r *playerRepository) ListPopulation(ctx context.Context, year string, minMinutes float64) ([]*domain.Player, error) {
	return r.filter(func(p *domain.Player) bool {
		if year != repository.AllYears && p.Year != year {
			return false
		}
		return p.Minutes >= minMinutes
	}, 0), nil
}

// filter returns matching players, newest year first, then by team and name.
// A limit of 0 means no limit.
func (r *playerRepository) filter(match func(*domain.Player) bool, limit int) []*domain.Player {
	r.mu.RLock()
	out := make([]*domain.Player, 0)
	for _, p := range r.players {
		if match(p) {
			out = append(out, p)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Year != b.Year {
			return a.Year > b.Year
		}
		if a.Team != b.Team {
			return a.Team < b.Team
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
