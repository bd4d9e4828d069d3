package service

import (
	"context"
	"strings"
	"time"

	"github.com/ByEilerDev/carsil-root/internal/apperr"
	"github.com/ByEilerDev/carsil-root/internal/model"
	"github.com/ByEilerDev/carsil-root/internal/repository"
)

// In-memory fakes so the derivation and patch paths can be exercised without
// a database. Entities are stored by value; FindByID hands out copies the way
// a real repository materializes fresh rows.

type fakeProductRepo struct {
	byID       map[uint]model.Product
	nextID     uint
	updates    int
	failUpdate error
}

var _ repository.ProductRepository = (*fakeProductRepo)(nil)

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{byID: make(map[uint]model.Product), nextID: 1}
}

func (f *fakeProductRepo) Create(_ context.Context, p *model.Product) error {
	p.ID = f.nextID
	f.nextID++
	f.byID[p.ID] = *p
	return nil
}

func (f *fakeProductRepo) FindByID(_ context.Context, id uint) (*model.Product, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	cp := p
	return &cp, nil
}

func (f *fakeProductRepo) FindAll(_ context.Context) ([]model.Product, error) {
	out := make([]model.Product, 0, len(f.byID))
	for _, p := range f.byID {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProductRepo) Search(_ context.Context, q string) ([]model.Product, error) {
	q = strings.ToLower(q)
	var out []model.Product
	for _, p := range f.byID {
		if strings.Contains(strings.ToLower(p.Op), q) ||
			(p.Reference != nil && strings.Contains(strings.ToLower(*p.Reference), q)) ||
			(p.Description != nil && strings.Contains(strings.ToLower(*p.Description), q)) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) FindByTeamID(_ context.Context, teamID uint) ([]model.Product, error) {
	var out []model.Product
	for _, p := range f.byID {
		if p.TeamID != nil && *p.TeamID == teamID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) FindByOp(_ context.Context, op string) ([]model.Product, error) {
	var out []model.Product
	for _, p := range f.byID {
		if p.Op == op {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) FindByPlantEntryDateBetween(_ context.Context, start, end time.Time) ([]model.Product, error) {
	var out []model.Product
	for _, p := range f.byID {
		if p.PlantEntryDate != nil && !p.PlantEntryDate.Before(start) && !p.PlantEntryDate.After(end) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) ExistsByOpAndIDNot(_ context.Context, op string, id uint) (bool, error) {
	for _, p := range f.byID {
		if p.Op == op && p.ID != id {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeProductRepo) Update(_ context.Context, p *model.Product) error {
	if f.failUpdate != nil {
		return f.failUpdate
	}
	if _, ok := f.byID[p.ID]; !ok {
		return apperr.ErrNotFound
	}
	p.Version++
	f.byID[p.ID] = *p
	f.updates++
	return nil
}

func (f *fakeProductRepo) Delete(_ context.Context, p *model.Product) error {
	delete(f.byID, p.ID)
	return nil
}

type fakeTeamRepo struct {
	byID     map[uint]model.Team
	nextID   uint
	saves    int
	products *fakeProductRepo
}

var _ repository.TeamRepository = (*fakeTeamRepo)(nil)

func newFakeTeamRepo(products *fakeProductRepo) *fakeTeamRepo {
	return &fakeTeamRepo{byID: make(map[uint]model.Team), nextID: 1, products: products}
}

func (f *fakeTeamRepo) Create(_ context.Context, t *model.Team) error {
	t.ID = f.nextID
	f.nextID++
	f.byID[t.ID] = *t
	return nil
}

// FindByID mimics the Preload("Products") of the real repository.
func (f *fakeTeamRepo) FindByID(ctx context.Context, id uint) (*model.Team, error) {
	t, ok := f.byID[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	cp := t
	if f.products != nil {
		owned, _ := f.products.FindByTeamID(ctx, id)
		cp.Products = owned
	}
	return &cp, nil
}

func (f *fakeTeamRepo) FindAll(ctx context.Context) ([]model.Team, error) {
	out := make([]model.Team, 0, len(f.byID))
	for id := range f.byID {
		t, _ := f.FindByID(ctx, id)
		out = append(out, *t)
	}
	return out, nil
}

func (f *fakeTeamRepo) FindByNameContaining(ctx context.Context, name string) ([]model.Team, error) {
	var out []model.Team
	for id, t := range f.byID {
		if strings.Contains(strings.ToLower(t.Name), strings.ToLower(name)) {
			full, _ := f.FindByID(ctx, id)
			out = append(out, *full)
		}
	}
	return out, nil
}

func (f *fakeTeamRepo) Save(_ context.Context, t *model.Team) error {
	if _, ok := f.byID[t.ID]; !ok {
		return apperr.ErrNotFound
	}
	stored := *t
	stored.Products = nil
	f.byID[t.ID] = stored
	f.saves++
	return nil
}
