package service

import (
	"context"

	"github.com/dom/worldcup-stats/internal/engine"
	"github.com/dom/worldcup-stats/internal/repository"
)

type ScatterRequest struct {
	Year string `json:"year"`
	engine.ScatterQuery
}

type ScatterService struct {
	catalog *CatalogService
}

func NewScatterService(catalog *CatalogService) *ScatterService {
	return &ScatterService{catalog: catalog}
}

// Points loads the population of the requested year and builds the chart
func (s *ScatterService) Points(ctx context.Context, req ScatterRequest) (*engine.ScatterResult, error) {
	year := req.Year
	if year == "" {
		year = repository.AllYears
	}

	rows, err := s.catalog.Population(ctx, year)
	if err != nil {
		return nil, err
	}

	result := engine.BuildScatter(rows, req.ScatterQuery)
	return &result, nil
}
