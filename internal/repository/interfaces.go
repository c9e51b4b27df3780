package repository

import (
	"context"

	"github.com/dom/worldcup-stats/internal/domain"
)

// AllYears selects every year in population queries
const AllYears = "ALL"

type PlayerRepository interface {
	UpsertMany(ctx context.Context, players []*domain.Player) error
	Get(ctx context.Context, year, team, filename string) (*domain.Player, error)
	ListByTeam(ctx context.Context, year, team string) ([]*domain.Player, error)
	// Search matches normQuery as a substring of the normalised name. An empty
	// or ALL position matches every player. Results are newest year first.
	Search(ctx context.Context, normQuery string, position domain.Position, limit int) ([]*domain.Player, error)
	ListPopulation(ctx context.Context, year string, minMinutes float64) ([]*domain.Player, error)
}

type TeamRepository interface {
	UpsertMany(ctx context.Context, teams []*domain.Team) error
	Get(ctx context.Context, year, team string) (*domain.Team, error)
	ListByYear(ctx context.Context, year string) ([]*domain.Team, error)
	ListYears(ctx context.Context) ([]string, error)
	Search(ctx context.Context, normQuery string, limit int) ([]*domain.Team, error)
}

type Repositories struct {
	Player PlayerRepository
	Team   TeamRepository
}
