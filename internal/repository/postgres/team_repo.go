package postgres

import (
	"context"
	"errors"

	"github.com/dom/worldcup-stats/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type teamRepository struct {
	db *gorm.DB
}

func NewTeamRepository(db *gorm.DB) *teamRepository {
	return &teamRepository{db: db}
}

func (r *teamRepository) UpsertMany(ctx context.Context, teams []*domain.Team) error {
	if len(teams) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).CreateInBatches(teams, upsertBatchSize).Error
}

func (r *teamRepository) Get(ctx context.Context, year, team string) (*domain.Team, error) {
	var t domain.Team
	err := r.db.WithContext(ctx).First(&t, "id = ?", domain.TeamID(year, team)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrTeamNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *teamRepository) ListByYear(ctx context.Context, year string) ([]*domain.Team, error) {
	var teams []*domain.Team
	err := r.db.WithContext(ctx).Where("year = ?", year).Order("name ASC").Find(&teams).Error
	if err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *teamRepository) ListYears(ctx context.Context) ([]string, error) {
	var years []string
	err := r.db.WithContext(ctx).
		Model(&domain.Team{}).
		Distinct("year").
		Order("year DESC").
		Pluck("year", &years).Error
	if err != nil {
		return nil, err
	}
	return years, nil
}

func (r *teamRepository) Search(ctx context.Context, normQuery string, limit int) ([]*domain.Team, error) {
	query := r.db.WithContext(ctx).Where("norm_name LIKE ?", containsPattern(normQuery))
	if limit > 0 {
		query = query.Limit(limit)
	}

	var teams []*domain.Team
	err := query.Order("year DESC, name ASC").Find(&teams).Error
	if err != nil {
		return nil, err
	}
	return teams, nil
}
