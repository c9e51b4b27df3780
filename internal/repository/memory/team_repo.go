package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/dom/worldcup-stats/internal/domain"
)

type teamRepository struct {
	mu    sync.RWMutex
	teams map[string]*domain.Team
}

func NewTeamRepository() *teamRepository {
	return &teamRepository{teams: make(map[string]*domain.Team)}
}

func (r *teamRepository) UpsertMany(ctx context.Context, teams []*domain.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range teams {
		r.teams[t.ID] = t
	}
	return nil
}

func (r *teamRepository) Get(ctx context.Context, year, team string) (*domain.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.teams[domain.TeamID(year, team)]
	if !ok {
		return nil, domain.ErrTeamNotFound
	}
	return t, nil
}

func (r *teamRepository) ListByYear(ctx context.Context, year string) ([]*domain.Team, error) {
	return r.filter(func(t *domain.Team) bool { return t.Year == year }, 0), nil
}

func (r *teamRepository) ListYears(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	seen := make(map[string]bool)
	years := make([]string, 0)
	for _, t := range r.teams {
		if !seen[t.Year] {
			seen[t.Year] = true
			years = append(years, t.Year)
		}
	}
	r.mu.RUnlock()

	sort.Sort(sort.Reverse(sort.StringSlice(years)))
	return years, nil
}

func (r *teamRepository) Search(ctx context.Context, normQuery string, limit int) ([]*domain.Team, error) {
	return r.filter(func(t *domain.Team) bool {
		return strings.Contains(t.NormName, normQuery)
	}, limit), nil
}

func (r *teamRepository) filter(match func(*domain.Team) bool, limit int) []*domain.Team {
	r.mu.RLock()
	out := make([]*domain.Team, 0)
	for _, t := range r.teams {
		if match(t) {
			out = append(out, t)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year > out[j].Year
		}
		return out[i].Name < out[j].Name
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
