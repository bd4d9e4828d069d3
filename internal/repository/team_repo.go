package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/ByEilerDev/carsil-root/internal/apperr"
	"github.com/ByEilerDev/carsil-root/internal/model"

	"gorm.io/gorm"
)

// TeamRepository defines the data access contract for teams.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via fakes.
type TeamRepository interface {
	Create(ctx context.Context, t *model.Team) error
	FindByID(ctx context.Context, id uint) (*model.Team, error)
	FindAll(ctx context.Context) ([]model.Team, error)
	FindByNameContaining(ctx context.Context, name string) ([]model.Team, error)
	Save(ctx context.Context, t *model.Team) error
}

type teamRepo struct{ db *gorm.DB }

func NewTeamRepository(db *gorm.DB) TeamRepository { return &teamRepo{db: db} }

func (r *teamRepo) Create(ctx context.Context, t *model.Team) error {
	return r.db.WithContext(ctx).Create(t).Error
}

// FindByID preloads the owned products so TotalLoadDays can be computed
// without a second round trip.
func (r *teamRepo) FindByID(ctx context.Context, id uint) (*model.Team, error) {
	var t model.Team
	err := r.db.WithContext(ctx).Preload("Products").First(&t, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *teamRepo) FindAll(ctx context.Context) ([]model.Team, error) {
	var teams []model.Team
	err := r.db.WithContext(ctx).Preload("Products").Order("name ASC").Find(&teams).Error
	return teams, err
}

// FindByNameContaining matches case-insensitively. LOWER + LIKE instead of
// ILIKE so the query also runs on the sqlite database used in tests.
func (r *teamRepo) FindByNameContaining(ctx context.Context, name string) ([]model.Team, error) {
	var teams []model.Team
	err := r.db.WithContext(ctx).Preload("Products").
		Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name)+"%").
		Order("name ASC").Find(&teams).Error
	return teams, err
}

func (r *teamRepo) Save(ctx context.Context, t *model.Team) error {
	return r.db.WithContext(ctx).Omit("Products").Save(t).Error
}
