package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ByEilerDev/carsil-root/internal/apperr"
	"github.com/ByEilerDev/carsil-root/internal/model"

	"gorm.io/gorm"
)

// ProductRepository defines the data access contract for manufacturing orders.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id uint) (*model.Product, error)
	FindAll(ctx context.Context) ([]model.Product, error)
	Search(ctx context.Context, q string) ([]model.Product, error)
	FindByTeamID(ctx context.Context, teamID uint) ([]model.Product, error)
	FindByOp(ctx context.Context, op string) ([]model.Product, error)
	FindByPlantEntryDateBetween(ctx context.Context, start, end time.Time) ([]model.Product, error)
	ExistsByOpAndIDNot(ctx context.Context, op string, id uint) (bool, error)

	// Update writes the full record guarded by the version column and bumps
	// the version. A stale version returns apperr.ErrConcurrentUpdate.
	Update(ctx context.Context, p *model.Product) error
	Delete(ctx context.Context, p *model.Product) error
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) FindByID(ctx context.Context, id uint) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) FindAll(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Order("op ASC").Find(&products).Error
	return products, err
}

// Search matches op, reference and description, case-insensitively.
// LOWER + LIKE instead of ILIKE so the query also runs on sqlite in tests.
func (r *productRepo) Search(ctx context.Context, q string) ([]model.Product, error) {
	var products []model.Product
	pattern := "%" + strings.ToLower(strings.TrimSpace(q)) + "%"
	err := r.db.WithContext(ctx).
		Where("LOWER(op) LIKE ? OR LOWER(reference) LIKE ? OR LOWER(description) LIKE ?",
			pattern, pattern, pattern).
		Order("op ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByTeamID(ctx context.Context, teamID uint) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Where("team_id = ?", teamID).Order("op ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByOp(ctx context.Context, op string) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Where("op = ?", op).Find(&products).Error
	return products, err
}

func (r *productRepo) FindByPlantEntryDateBetween(ctx context.Context, start, end time.Time) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Where("plant_entry_date BETWEEN ? AND ?", start, end).
		Order("plant_entry_date ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) ExistsByOpAndIDNot(ctx context.Context, op string, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("op = ? AND id <> ?", op, id).Count(&count).Error
	return count > 0, err
}

func (r *productRepo) Update(ctx context.Context, p *model.Product) error {
	prev := p.Version
	p.Version = prev + 1
	res := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ? AND version = ?", p.ID, prev).
		Select("*").Omit("id", "created_at", "Team").
		Updates(p)
	if res.Error != nil {
		p.Version = prev
		return res.Error
	}
	if res.RowsAffected == 0 {
		p.Version = prev
		return apperr.ErrConcurrentUpdate
	}
	return nil
}

func (r *productRepo) Delete(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Delete(p).Error
}
