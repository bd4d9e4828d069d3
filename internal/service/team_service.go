package service

import (
	"context"
	"fmt"

	"github.com/ByEilerDev/carsil-root/internal/apperr"
	"github.com/ByEilerDev/carsil-root/internal/dto"
	"github.com/ByEilerDev/carsil-root/internal/model"
	"github.com/ByEilerDev/carsil-root/internal/repository"

	"github.com/shopspring/decimal"
)

// TeamService defines business operations for production teams.
type TeamService interface {
	GetAll(ctx context.Context) ([]dto.TeamResponse, error)
	GetByID(ctx context.Context, id uint) (dto.TeamResponse, error)
	GetByName(ctx context.Context, name string) ([]dto.TeamResponse, error)
	Create(ctx context.Context, req dto.CreateTeamRequest) (dto.TeamResponse, error)
	Update(ctx context.Context, id uint, req dto.UpdateTeamRequest) (dto.TeamResponse, error)
	UpdatePeople(ctx context.Context, id uint, numPersons *int) (dto.TeamResponse, error)
	GetProducts(ctx context.Context, id uint) ([]dto.ProductResponse, error)
	AssignProduct(ctx context.Context, teamID, productID uint) (dto.TeamResponse, error)
}

type teamService struct {
	teams    repository.TeamRepository
	products repository.ProductRepository
}

func NewTeamService(teams repository.TeamRepository, products repository.ProductRepository) TeamService {
	return &teamService{teams: teams, products: products}
}

// mapTeam converts a model to a DTO response; totalLoadDays is computed here,
// never read from storage.
func mapTeam(t *model.Team) dto.TeamResponse {
	return dto.TeamResponse{
		ID:            t.ID,
		Name:          t.Name,
		Description:   t.Description,
		NumPersons:    t.NumPersons,
		LoadDays:      nullDecimalPtr(t.LoadDays),
		TotalLoadDays: t.TotalLoadDays(),
	}
}

func nullDecimalPtr(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}

func toNullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func (s *teamService) GetAll(ctx context.Context) ([]dto.TeamResponse, error) {
	teams, err := s.teams.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dto.TeamResponse, 0, len(teams))
	for i := range teams {
		result = append(result, mapTeam(&teams[i]))
	}
	return result, nil
}

func (s *teamService) GetByID(ctx context.Context, id uint) (dto.TeamResponse, error) {
	t, err := s.teams.FindByID(ctx, id)
	if err != nil {
		return dto.TeamResponse{}, err
	}
	return mapTeam(t), nil
}

func (s *teamService) GetByName(ctx context.Context, name string) ([]dto.TeamResponse, error) {
	teams, err := s.teams.FindByNameContaining(ctx, name)
	if err != nil {
		return nil, err
	}
	result := make([]dto.TeamResponse, 0, len(teams))
	for i := range teams {
		result = append(result, mapTeam(&teams[i]))
	}
	return result, nil
}

func (s *teamService) Create(ctx context.Context, req dto.CreateTeamRequest) (dto.TeamResponse, error) {
	numPersons := 0
	if req.NumPersons != nil {
		numPersons = *req.NumPersons
	}
	t := &model.Team{
		Name:        req.Name,
		Description: req.Description,
		NumPersons:  &numPersons,
		LoadDays:    toNullDecimal(req.LoadDays),
	}
	if err := s.teams.Create(ctx, t); err != nil {
		return dto.TeamResponse{}, err
	}
	return mapTeam(t), nil
}

// Update overwrites name, description and numPersons with whatever the
// request carries, including nils. Clearing through a full update is
// intentional; see UpdateTeamRequest.
func (s *teamService) Update(ctx context.Context, id uint, req dto.UpdateTeamRequest) (dto.TeamResponse, error) {
	t, err := s.teams.FindByID(ctx, id)
	if err != nil {
		return dto.TeamResponse{}, err
	}
	t.Name = req.Name
	t.Description = req.Description
	t.NumPersons = req.NumPersons
	if err := s.teams.Save(ctx, t); err != nil {
		return dto.TeamResponse{}, err
	}
	return mapTeam(t), nil
}

func (s *teamService) UpdatePeople(ctx context.Context, id uint, numPersons *int) (dto.TeamResponse, error) {
	if numPersons == nil || *numPersons < 0 {
		return dto.TeamResponse{}, fmt.Errorf("%w: numPersons must be a non-negative integer", apperr.ErrInvalidArgument)
	}
	t, err := s.teams.FindByID(ctx, id)
	if err != nil {
		return dto.TeamResponse{}, err
	}
	t.NumPersons = numPersons
	if err := s.teams.Save(ctx, t); err != nil {
		return dto.TeamResponse{}, err
	}
	return mapTeam(t), nil
}

func (s *teamService) GetProducts(ctx context.Context, id uint) ([]dto.ProductResponse, error) {
	if _, err := s.teams.FindByID(ctx, id); err != nil {
		return nil, err
	}
	products, err := s.products.FindByTeamID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		result = append(result, mapProduct(&products[i]))
	}
	return result, nil
}

// AssignProduct re-parents the product and persists the product only; the
// team record itself is not touched. The response reflects the team after
// the assignment, so totalLoadDays already includes the new product.
func (s *teamService) AssignProduct(ctx context.Context, teamID, productID uint) (dto.TeamResponse, error) {
	if _, err := s.teams.FindByID(ctx, teamID); err != nil {
		return dto.TeamResponse{}, err
	}
	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return dto.TeamResponse{}, err
	}
	p.TeamID = &teamID
	if err := s.products.Update(ctx, p); err != nil {
		return dto.TeamResponse{}, err
	}
	t, err := s.teams.FindByID(ctx, teamID)
	if err != nil {
		return dto.TeamResponse{}, err
	}
	return mapTeam(t), nil
}
