package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/dom/worldcup-stats/internal/domain"
	"github.com/dom/worldcup-stats/internal/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const upsertBatchSize = 500

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching q anywhere
func containsPattern(q string) string {
	return "%" + likeEscaper.Replace(q) + "%"
}

type playerRepository struct {
	db *gorm.DB
}

func NewPlayerRepository(db *gorm.DB) *playerRepository {
	return &playerRepository{db: db}
}

func (r *playerRepository) UpsertMany(ctx context.Context, players []*domain.Player) error {
	if len(players) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).CreateInBatches(players, upsertBatchSize).Error
}

func (r *playerRepository) Get(ctx context.Context, year, team, filename string) (*domain.Player, error) {
	var player domain.Player
	err := r.db.WithContext(ctx).First(&player, "id = ?", domain.PlayerID(year, team, filename)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrPlayerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &player, nil
}

func (r *playerRepository) ListByTeam(ctx context.Context, year, team string) ([]*domain.Player, error) {
	var players []*domain.Player
	err := r.db.WithContext(ctx).
		Where("year = ? AND team = ?", year, team).
		Order("name ASC").
		Find(&players).Error
	if err != nil {
		return nil, err
	}
	return players, nil
}

func (r *playerRepository) Search(ctx context.Context, normQuery string, position domain.Position, limit int) ([]*domain.Player, error) {
	query := r.db.WithContext(ctx).
		Where("norm_name LIKE ?", containsPattern(normQuery))
	if position != "" && position != domain.PositionAll {
		query = query.Where("position = ?", position)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var players []*domain.Player
	err := query.Order("year DESC, team ASC, name ASC, id ASC").Find(&players).Error
	if err != nil {
		return nil, err
	}
	return players, nil
}

func (r *playerRepository) ListPopulation(ctx context.Context, year string, minMinutes float64) ([]*domain.Player, error) {
	query := r.db.WithContext(ctx).Where("minutes >= ?", minMinutes)
	if year != repository.AllYears {
		query = query.Where("year = ?", year)
	}

	var players []*domain.Player
	err := query.Order("year DESC, team ASC, name ASC, id ASC").Find(&players).Error
	if err != nil {
		return nil, err
	}
	return players, nil
}
