package service

import (
	"github.com/dom/worldcup-stats/internal/config"
	"github.com/dom/worldcup-stats/internal/repository"
)

type Services struct {
	Catalog *CatalogService
	Radar   *RadarService
	Scatter *ScatterService
}

// NewServices wires the services. cache may be nil to disable population caching.
func NewServices(repos *repository.Repositories, cache PopulationCache, cfg *config.Config) *Services {
	catalog := NewCatalogService(repos.Player, repos.Team, cache, cfg)
	return &Services{
		Catalog: catalog,
		Radar:   NewRadarService(repos.Player, repos.Team),
		Scatter: NewScatterService(catalog),
	}
}
