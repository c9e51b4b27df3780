package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dom/worldcup-stats/internal/domain"
	"github.com/dom/worldcup-stats/internal/engine"
	"github.com/dom/worldcup-stats/internal/repository"
	"golang.org/x/sync/errgroup"
)

// SubjectRef identifies a player to compare
type SubjectRef struct {
	ID       string `json:"id,omitempty"`
	Year     string `json:"year"`
	Team     string `json:"team"`
	Filename string `json:"filename"`
}

type CompareRequest struct {
	Position domain.Position `json:"position"`
	Basis    domain.Basis    `json:"basis"`
	Subjects []SubjectRef    `json:"subjects"`
}

type RadarService struct {
	playerRepo repository.PlayerRepository
	teamRepo   repository.TeamRepository
}

func NewRadarService(playerRepo repository.PlayerRepository, teamRepo repository.TeamRepository) *RadarService {
	return &RadarService{
		playerRepo: playerRepo,
		teamRepo:   teamRepo,
	}
}

// LoadSubject fetches a player's stats and its team's stats together
func (s *RadarService) LoadSubject(ctx context.Context, ref SubjectRef) (engine.Subject, error) {
	if ref.Year == "" || ref.Team == "" || ref.Filename == "" {
		return engine.Subject{}, domain.ErrMissingSubject
	}

	var (
		player *domain.Player
		team   domain.StatRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.playerRepo.Get(gctx, ref.Year, ref.Team, ref.Filename)
		if err != nil {
			return err
		}
		player = p
		return nil
	})
	g.Go(func() error {
		t, err := s.teamRepo.Get(gctx, ref.Year, ref.Team)
		if errors.Is(err, domain.ErrTeamNotFound) {
			team = domain.StatRecord{}
			return nil
		}
		if err != nil {
			return err
		}
		team = t.Record()
		return nil
	})
	if err := g.Wait(); err != nil {
		return engine.Subject{}, fmt.Errorf("failed to load %s/%s/%s: %w", ref.Year, ref.Team, ref.Filename, err)
	}

	id := ref.ID
	if id == "" {
		id = player.ID
	}
	return engine.Subject{
		ID:        id,
		Name:      player.Name,
		Year:      player.Year,
		Team:      player.Team,
		Position:  player.Position,
		Stats:     player.Record(),
		TeamStats: team,
	}, nil
}

// Compare loads every subject concurrently and scores them in request order.
// Duplicates are dropped the same way an interactive session drops them.
func (s *RadarService) Compare(ctx context.Context, req CompareRequest) (*engine.RadarResult, error) {
	subjects := make([]engine.Subject, len(req.Subjects))

	g, gctx := errgroup.WithContext(ctx)
	for i, ref := range req.Subjects {
		g.Go(func() error {
			subject, err := s.LoadSubject(gctx, ref)
			if err != nil {
				return err
			}
			subjects[i] = subject
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	session := engine.NewComparisonSession(req.Position, req.Basis)
	for _, subject := range subjects {
		session.Add(subject)
	}

	result := session.Result()
	return &result, nil
}
