// Package memory holds the catalog in process memory. It backs the server
// when no database is configured and the handler tests.
package memory

import "github.com/dom/worldcup-stats/internal/repository"

func NewRepositories() *repository.Repositories {
	return &repository.Repositories{
		Player: NewPlayerRepository(),
		Team:   NewTeamRepository(),
	}
}
