package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/dom/worldcup-stats/internal/catalog"
	"github.com/dom/worldcup-stats/internal/config"
	"github.com/dom/worldcup-stats/internal/domain"
	"github.com/dom/worldcup-stats/internal/repository"
	"golang.org/x/sync/singleflight"
)

const minQueryLength = 2

// PopulationCache stores population rows per year
type PopulationCache interface {
	Get(ctx context.Context, year string) ([]domain.PopulationRow, bool, error)
	Set(ctx context.Context, year string, rows []domain.PopulationRow) error
	Invalidate(ctx context.Context) error
}

type CatalogService struct {
	playerRepo  repository.PlayerRepository
	teamRepo    repository.TeamRepository
	cache       PopulationCache
	group       singleflight.Group
	searchLimit int
	minMinutes  float64
}

// NewCatalogService creates the catalog service. cache may be nil.
func NewCatalogService(playerRepo repository.PlayerRepository, teamRepo repository.TeamRepository, cache PopulationCache, cfg *config.Config) *CatalogService {
	return &CatalogService{
		playerRepo:  playerRepo,
		teamRepo:    teamRepo,
		cache:       cache,
		searchLimit: cfg.SearchLimit,
		minMinutes:  cfg.PopulationMinutes,
	}
}

// Import writes a snapshot read from disk into the repositories
func (s *CatalogService) Import(ctx context.Context, snap *catalog.Snapshot) error {
	if err := s.teamRepo.UpsertMany(ctx, snap.Teams); err != nil {
		return fmt.Errorf("failed to upsert teams: %w", err)
	}
	if err := s.playerRepo.UpsertMany(ctx, snap.Players); err != nil {
		return fmt.Errorf("failed to upsert players: %w", err)
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			log.Printf("ERROR [catalog.Import] invalidate population cache: %v", err)
		}
	}
	return nil
}

func (s *CatalogService) Years(ctx context.Context) ([]string, error) {
	years, err := s.teamRepo.ListYears(ctx)
	if err != nil {
		return nil, err
	}
	if years == nil {
		years = []string{}
	}
	return years, nil
}

// Teams returns the team names of year, sorted. Unknown years have no teams.
func (s *CatalogService) Teams(ctx context.Context, year string) ([]string, error) {
	teams, err := s.teamRepo.ListByYear(ctx, year)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(teams))
	for i, t := range teams {
		names[i] = t.Name
	}
	return names, nil
}

func (s *CatalogService) Players(ctx context.Context, year, team string) ([]domain.PlayerSummary, error) {
	players, err := s.playerRepo.ListByTeam(ctx, year, team)
	if err != nil {
		return nil, err
	}
	out := make([]domain.PlayerSummary, len(players))
	for i, p := range players {
		out[i] = domain.PlayerSummary{Name: p.Name, Filename: p.Filename, Position: p.Position}
	}
	return out, nil
}

func (s *CatalogService) GetPlayer(ctx context.Context, year, team, filename string) (*domain.Player, error) {
	return s.playerRepo.Get(ctx, year, team, filename)
}

// PlayerStats returns the player document as it was read from disk
func (s *CatalogService) PlayerStats(ctx context.Context, year, team, filename string) (*domain.PlayerDocument, error) {
	p, err := s.playerRepo.Get(ctx, year, team, filename)
	if err != nil {
		return nil, err
	}
	return &domain.PlayerDocument{Meta: map[string]any(p.Meta), Stats: p.Record()}, nil
}

// TeamStats returns the team's aggregated stats. A team without a stats
// document has an empty record rather than an error.
func (s *CatalogService) TeamStats(ctx context.Context, year, team string) (*domain.TeamDocument, error) {
	t, err := s.teamRepo.Get(ctx, year, team)
	if errors.Is(err, domain.ErrTeamNotFound) {
		return &domain.TeamDocument{Stats: domain.StatRecord{}}, nil
	}
	if err != nil {
		return nil, err
	}
	stats := t.Record()
	if stats == nil {
		stats = domain.StatRecord{}
	}
	return &domain.TeamDocument{Stats: stats}, nil
}

// Search finds players or teams whose accent-folded name contains query.
// position narrows player searches; it is ignored for teams.
func (s *CatalogService) Search(ctx context.Context, query string, kind domain.SearchKind, position domain.Position) ([]domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < minQueryLength {
		return nil, domain.ErrQueryTooShort
	}
	norm := catalog.NormalizeName(query)

	if kind == domain.SearchKindTeam {
		teams, err := s.teamRepo.Search(ctx, norm, s.searchLimit)
		if err != nil {
			return nil, fmt.Errorf("failed to search teams: %w", err)
		}
		results := make([]domain.SearchResult, len(teams))
		for i, t := range teams {
			results[i] = t.SearchResult()
		}
		return results, nil
	}

	players, err := s.playerRepo.Search(ctx, norm, position, s.searchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to search players: %w", err)
	}
	results := make([]domain.SearchResult, len(players))
	for i, p := range players {
		results[i] = p.SearchResult()
	}
	return results, nil
}

// Population returns the scatter rows of year (or every year for ALL).
// Rows come from the cache when one is configured; concurrent misses for the
// same year share a single repository load.
func (s *CatalogService) Population(ctx context.Context, year string) ([]domain.PopulationRow, error) {
	if year == "" {
		year = repository.AllYears
	}

	if s.cache != nil {
		rows, ok, err := s.cache.Get(ctx, year)
		if err != nil {
			log.Printf("ERROR [catalog.Population] year=%s cache read: %v", year, err)
		} else if ok {
			return rows, nil
		}
	}

	// The shared load outlives any one caller; each caller can still give up
	// on it through its own ctx.
	loadCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(year, func() (any, error) {
		return s.loadPopulation(loadCtx, year)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]domain.PopulationRow), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *CatalogService) loadPopulation(ctx context.Context, year string) ([]domain.PopulationRow, error) {
	players, err := s.playerRepo.ListPopulation(ctx, year, s.minMinutes)
	if err != nil {
		return nil, fmt.Errorf("failed to list population: %w", err)
	}

	rows := make([]domain.PopulationRow, len(players))
	for i, p := range players {
		rows[i] = p.PopulationRow()
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, year, rows); err != nil {
			log.Printf("ERROR [catalog.Population] year=%s cache write: %v", year, err)
		}
	}
	return rows, nil
}
