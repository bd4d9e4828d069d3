package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/ByEilerDev/carsil-root/internal/apperr"
	"github.com/ByEilerDev/carsil-root/internal/dto"
	"github.com/ByEilerDev/carsil-root/internal/model"
	"github.com/ByEilerDev/carsil-root/internal/repository"

	"github.com/shopspring/decimal"
)

// ProductService defines business operations for manufacturing orders.
// Every mutating path ends in deriveAndPersist: recompute the derived fields,
// write the product, then push load-days to the owning team.
type ProductService interface {
	GetAll(ctx context.Context) ([]dto.ProductResponse, error)
	GetByID(ctx context.Context, id uint) (dto.ProductResponse, error)
	Search(ctx context.Context, q string) ([]dto.ProductResponse, error)
	GetByTeam(ctx context.Context, teamID uint) ([]dto.ProductResponse, error)
	GetByOp(ctx context.Context, op string) ([]dto.ProductResponse, error)
	GetByDateRange(ctx context.Context, start, end time.Time) ([]dto.ProductResponse, error)
	Create(ctx context.Context, req dto.CreateProductRequest) (dto.ProductResponse, error)
	Update(ctx context.Context, id uint, req dto.UpdateProductRequest) (dto.ProductResponse, error)
	PartialUpdate(ctx context.Context, id uint, updates map[string]interface{}) (dto.ProductResponse, error)
	IncrementMade(ctx context.Context, id uint, delta int) (dto.ProductResponse, error)
	SetMade(ctx context.Context, id uint, value int) (dto.ProductResponse, error)
	Delete(ctx context.Context, id uint) error
}

type productService struct {
	products repository.ProductRepository
	teams    repository.TeamRepository
}

func NewProductService(products repository.ProductRepository, teams repository.TeamRepository) ProductService {
	return &productService{products: products, teams: teams}
}

func mapProduct(p *model.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:                 p.ID,
		Op:                 p.Op,
		Quantity:           p.Quantity,
		QuantityMade:       p.QuantityMade,
		Missing:            p.Missing,
		Sam:                nullDecimalPtr(p.Sam),
		SamTotal:           p.SamTotal,
		Price:              nullDecimalPtr(p.Price),
		LoadDays:           nullDecimalPtr(p.LoadDays),
		Status:             string(p.Status),
		Brand:              brandPtr(p.Brand),
		Reference:          p.Reference,
		Campaign:           p.Campaign,
		Type:               p.Type,
		Description:        p.Description,
		SizeQuantities:     p.SizeQuantities,
		StoppageReason:     p.StoppageReason,
		AssignedDate:       dto.FormatDate(p.AssignedDate),
		PlantEntryDate:     dto.FormatDate(p.PlantEntryDate),
		ActualDeliveryDate: dto.FormatDate(p.ActualDeliveryDate),
		TeamID:             p.TeamID,
		Version:            p.Version,
	}
}

func brandPtr(b *model.Brand) *string {
	if b == nil {
		return nil
	}
	s := string(*b)
	return &s
}

// deriveAndPersist is the single exit of every mutating path. Order matters
// twice: the team lookup runs before the product write, so an unknown team
// aborts with nothing persisted, and the team save runs after it, so a
// failed write (a concurrency conflict in particular) leaves the team
// untouched.
func (s *productService) deriveAndPersist(ctx context.Context, p *model.Product, create bool) error {
	p.RecalcDerived()
	team, err := s.resolveTeam(ctx, p)
	if err != nil {
		return err
	}
	if create {
		err = s.products.Create(ctx, p)
	} else {
		err = s.products.Update(ctx, p)
	}
	if err != nil {
		return err
	}
	return s.pushLoadDays(ctx, p, team)
}

// resolveTeam fetches the owning team, nil when no team is referenced.
func (s *productService) resolveTeam(ctx context.Context, p *model.Product) (*model.Team, error) {
	if p.TeamID == nil {
		return nil, nil
	}
	return s.teams.FindByID(ctx, *p.TeamID)
}

// pushLoadDays overwrites the owning team's loadDays with the product's
// value, last writer wins. Skipped entirely when no team is referenced.
func (s *productService) pushLoadDays(ctx context.Context, p *model.Product, team *model.Team) error {
	if team == nil {
		return nil
	}
	team.LoadDays = p.LoadDays
	return s.teams.Save(ctx, team)
}

// ─── Reads ───────────────────────────────────────────────────────────────────

func (s *productService) GetAll(ctx context.Context) ([]dto.ProductResponse, error) {
	products, err := s.products.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapProducts(products), nil
}

func (s *productService) GetByID(ctx context.Context, id uint) (dto.ProductResponse, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return dto.ProductResponse{}, err
	}
	return mapProduct(p), nil
}

func (s *productService) Search(ctx context.Context, q string) ([]dto.ProductResponse, error) {
	products, err := s.products.Search(ctx, strings.TrimSpace(q))
	if err != nil {
		return nil, err
	}
	return mapProducts(products), nil
}

func (s *productService) GetByTeam(ctx context.Context, teamID uint) ([]dto.ProductResponse, error) {
	products, err := s.products.FindByTeamID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	return mapProducts(products), nil
}

func (s *productService) GetByOp(ctx context.Context, op string) ([]dto.ProductResponse, error) {
	products, err := s.products.FindByOp(ctx, op)
	if err != nil {
		return nil, err
	}
	return mapProducts(products), nil
}

func (s *productService) GetByDateRange(ctx context.Context, start, end time.Time) ([]dto.ProductResponse, error) {
	products, err := s.products.FindByPlantEntryDateBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return mapProducts(products), nil
}

func mapProducts(products []model.Product) []dto.ProductResponse {
	result := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		result = append(result, mapProduct(&products[i]))
	}
	return result
}

// ─── Create ──────────────────────────────────────────────────────────────────

func (s *productService) Create(ctx context.Context, req dto.CreateProductRequest) (dto.ProductResponse, error) {
	if req.Quantity == nil {
		return dto.ProductResponse{}, fmt.Errorf("%w: quantity is required", apperr.ErrInvalidArgument)
	}
	op := strings.TrimSpace(req.Op)
	taken, err := s.products.ExistsByOpAndIDNot(ctx, op, 0)
	if err != nil {
		return dto.ProductResponse{}, err
	}
	if taken {
		return dto.ProductResponse{}, fmt.Errorf("%w: %s", apperr.ErrDuplicateOp, op)
	}

	made := 0
	if req.QuantityMade != nil {
		made = *req.QuantityMade
	}
	p := &model.Product{
		Op:             op,
		Quantity:       req.Quantity,
		QuantityMade:   &made,
		Sam:            toNullDecimal(req.Sam),
		Price:          toNullDecimal(req.Price),
		LoadDays:       toNullDecimal(req.LoadDays),
		Reference:      req.Reference,
		Campaign:       req.Campaign,
		Type:           req.Type,
		Description:    req.Description,
		SizeQuantities: req.SizeQuantities,
		StoppageReason: req.StoppageReason,
		TeamID:         req.TeamID,
	}
	if req.Status != nil {
		p.Status = model.ProductionStatus(*req.Status)
	}
	if req.Brand != nil {
		b, err := model.BrandFromLabel(*req.Brand)
		if err != nil {
			return dto.ProductResponse{}, fmt.Errorf("%w: %v", apperr.ErrInvalidArgument, err)
		}
		p.Brand = &b
	}
	if p.AssignedDate, err = dto.ParseDate(req.AssignedDate); err != nil {
		return dto.ProductResponse{}, fmt.Errorf("%w: assignedDate: %v", apperr.ErrInvalidArgument, err)
	}
	if p.PlantEntryDate, err = dto.ParseDate(req.PlantEntryDate); err != nil {
		return dto.ProductResponse{}, fmt.Errorf("%w: plantEntryDate: %v", apperr.ErrInvalidArgument, err)
	}
	if p.ActualDeliveryDate, err = dto.ParseDate(req.ActualDeliveryDate); err != nil {
		return dto.ProductResponse{}, fmt.Errorf("%w: actualDeliveryDate: %v", apperr.ErrInvalidArgument, err)
	}

	if err := s.deriveAndPersist(ctx, p, true); err != nil {
		return dto.ProductResponse{}, err
	}
	return mapProduct(p), nil
}

// ─── Full update ─────────────────────────────────────────────────────────────

// Update applies each present field individually; absent fields stay as they
// are, so a value can never be cleared through this path. quantityMade is
// converted to a delta so the counter moves the same way as IncrementMade.
func (s *productService) Update(ctx context.Context, id uint, req dto.UpdateProductRequest) (dto.ProductResponse, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return dto.ProductResponse{}, err
	}

	if req.Op != nil {
		op := strings.TrimSpace(*req.Op)
		taken, err := s.products.ExistsByOpAndIDNot(ctx, op, id)
		if err != nil {
			return dto.ProductResponse{}, err
		}
		if taken {
			return dto.ProductResponse{}, fmt.Errorf("%w: %s", apperr.ErrDuplicateOp, op)
		}
		p.Op = op
	}
	if req.Quantity != nil {
		p.Quantity = req.Quantity
	}
	if req.QuantityMade != nil {
		current := 0
		if p.QuantityMade != nil {
			current = *p.QuantityMade
		}
		p.AddMade(*req.QuantityMade - current)
	}
	if req.Sam != nil {
		p.Sam = toNullDecimal(req.Sam)
	}
	if req.Price != nil {
		p.Price = toNullDecimal(req.Price)
	}
	if req.LoadDays != nil {
		p.LoadDays = toNullDecimal(req.LoadDays)
	}
	if req.Status != nil {
		p.Status = model.ProductionStatus(*req.Status)
	}
	if req.Brand != nil {
		b, err := model.BrandFromLabel(*req.Brand)
		if err != nil {
			return dto.ProductResponse{}, fmt.Errorf("%w: %v", apperr.ErrInvalidArgument, err)
		}
		p.Brand = &b
	}
	if req.Reference != nil {
		p.Reference = req.Reference
	}
	if req.Campaign != nil {
		p.Campaign = req.Campaign
	}
	if req.Type != nil {
		p.Type = req.Type
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.SizeQuantities != nil {
		p.SizeQuantities = req.SizeQuantities
	}
	if req.StoppageReason != nil {
		p.StoppageReason = req.StoppageReason
	}
	if req.AssignedDate != nil {
		if p.AssignedDate, err = dto.ParseDate(req.AssignedDate); err != nil {
			return dto.ProductResponse{}, fmt.Errorf("%w: assignedDate: %v", apperr.ErrInvalidArgument, err)
		}
	}
	if req.PlantEntryDate != nil {
		if p.PlantEntryDate, err = dto.ParseDate(req.PlantEntryDate); err != nil {
			return dto.ProductResponse{}, fmt.Errorf("%w: plantEntryDate: %v", apperr.ErrInvalidArgument, err)
		}
	}
	if req.ActualDeliveryDate != nil {
		if p.ActualDeliveryDate, err = dto.ParseDate(req.ActualDeliveryDate); err != nil {
			return dto.ProductResponse{}, fmt.Errorf("%w: actualDeliveryDate: %v", apperr.ErrInvalidArgument, err)
		}
	}
	if req.TeamID != nil {
		p.TeamID = req.TeamID
	}

	if err := s.deriveAndPersist(ctx, p, false); err != nil {
		return dto.ProductResponse{}, err
	}
	return mapProduct(p), nil
}

// ─── Partial update (patch) ──────────────────────────────────────────────────

// PartialUpdate merges an arbitrary key set onto the product through a typed
// allow-list: unknown keys and wrong-typed values are rejected, "id" is
// silently stripped, and the derived fields cannot be written. A "teamId" key
// re-parents the product; an explicit null clears the team reference. An
// empty payload is a pure no-op: no derivation, no team push, no save.
func (s *productService) PartialUpdate(ctx context.Context, id uint, updates map[string]interface{}) (dto.ProductResponse, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return dto.ProductResponse{}, err
	}
	if len(updates) == 0 {
		return mapProduct(p), nil
	}
	delete(updates, "id")

	if raw, ok := updates["teamId"]; ok {
		if raw == nil {
			p.TeamID = nil
		} else {
			teamID, ok := uintFromAny(raw)
			if !ok {
				return dto.ProductResponse{}, fmt.Errorf("%w: teamId must be a numeric id", apperr.ErrInvalidArgument)
			}
			if _, err := s.teams.FindByID(ctx, teamID); err != nil {
				return dto.ProductResponse{}, err
			}
			p.TeamID = &teamID
		}
		delete(updates, "teamId")
	}

	for key, raw := range updates {
		if err := s.applyPatchField(p, key, raw); err != nil {
			return dto.ProductResponse{}, err
		}
	}

	if err := s.deriveAndPersist(ctx, p, false); err != nil {
		return dto.ProductResponse{}, err
	}
	return mapProduct(p), nil
}

// applyPatchField is the allow-list: one case per mergeable field, each with
// its typed setter. Everything else, including the derived missing/samTotal
// and the version stamp, is an invalid-argument error.
func (s *productService) applyPatchField(p *model.Product, key string, raw interface{}) error {
	wrongType := func() error {
		return fmt.Errorf("%w: field %q has the wrong type", apperr.ErrInvalidArgument, key)
	}
	switch key {
	case "op":
		v, ok := raw.(string)
		if !ok || strings.TrimSpace(v) == "" {
			return wrongType()
		}
		p.Op = strings.TrimSpace(v)
	case "quantity":
		if raw == nil {
			p.Quantity = nil
			return nil
		}
		v, ok := intFromAny(raw)
		if !ok {
			return wrongType()
		}
		p.Quantity = &v
	case "quantityMade":
		// Applied as a delta against the current counter, same as SetMade.
		if raw == nil {
			return wrongType()
		}
		v, ok := intFromAny(raw)
		if !ok {
			return wrongType()
		}
		current := 0
		if p.QuantityMade != nil {
			current = *p.QuantityMade
		}
		p.AddMade(v - current)
	case "sam":
		d, err := decimalFromAny(raw)
		if err != nil {
			return wrongType()
		}
		p.Sam = d
	case "price":
		d, err := decimalFromAny(raw)
		if err != nil {
			return wrongType()
		}
		p.Price = d
	case "loadDays":
		d, err := decimalFromAny(raw)
		if err != nil {
			return wrongType()
		}
		p.LoadDays = d
	case "status":
		v, ok := raw.(string)
		if !ok || !model.ProductionStatus(v).Valid() {
			return fmt.Errorf("%w: status must be one of PROCESO, ASIGNADO, CONFECCION", apperr.ErrInvalidArgument)
		}
		p.Status = model.ProductionStatus(v)
	case "brand":
		if raw == nil {
			p.Brand = nil
			return nil
		}
		v, ok := raw.(string)
		if !ok {
			return wrongType()
		}
		b, err := model.BrandFromLabel(v)
		if err != nil {
			return fmt.Errorf("%w: %v", apperr.ErrInvalidArgument, err)
		}
		p.Brand = &b
	case "reference":
		return setStringField(&p.Reference, key, raw)
	case "campaign":
		return setStringField(&p.Campaign, key, raw)
	case "type":
		return setStringField(&p.Type, key, raw)
	case "description":
		return setStringField(&p.Description, key, raw)
	case "sizeQuantities":
		return setStringField(&p.SizeQuantities, key, raw)
	case "stoppageReason":
		return setStringField(&p.StoppageReason, key, raw)
	case "assignedDate":
		return setDateField(&p.AssignedDate, key, raw)
	case "plantEntryDate":
		return setDateField(&p.PlantEntryDate, key, raw)
	case "actualDeliveryDate":
		return setDateField(&p.ActualDeliveryDate, key, raw)
	default:
		return fmt.Errorf("%w: unknown field %q", apperr.ErrInvalidArgument, key)
	}
	return nil
}

func setStringField(target **string, key string, raw interface{}) error {
	if raw == nil {
		*target = nil
		return nil
	}
	v, ok := raw.(string)
	if !ok {
		return fmt.Errorf("%w: field %q has the wrong type", apperr.ErrInvalidArgument, key)
	}
	*target = &v
	return nil
}

func setDateField(target **time.Time, key string, raw interface{}) error {
	if raw == nil {
		*target = nil
		return nil
	}
	v, ok := raw.(string)
	if !ok {
		return fmt.Errorf("%w: field %q has the wrong type", apperr.ErrInvalidArgument, key)
	}
	t, err := dto.ParseDate(&v)
	if err != nil {
		return fmt.Errorf("%w: field %q: %v", apperr.ErrInvalidArgument, key, err)
	}
	*target = t
	return nil
}

// intFromAny accepts the numeric shapes encoding/json produces. A fractional
// value is not an integer field.
func intFromAny(raw interface{}) (int, bool) {
	switch v := raw.(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}

func uintFromAny(raw interface{}) (uint, bool) {
	v, ok := intFromAny(raw)
	if !ok || v < 0 {
		return 0, false
	}
	return uint(v), true
}

// decimalFromAny accepts a JSON number, a numeric string, or null.
func decimalFromAny(raw interface{}) (decimal.NullDecimal, error) {
	switch v := raw.(type) {
	case nil:
		return decimal.NullDecimal{}, nil
	case float64:
		return decimal.NullDecimal{Decimal: decimal.NewFromFloat(v), Valid: true}, nil
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.NullDecimal{}, err
		}
		return decimal.NullDecimal{Decimal: d, Valid: true}, nil
	}
	return decimal.NullDecimal{}, fmt.Errorf("not a decimal value")
}

// ─── Made-quantity mutations ─────────────────────────────────────────────────

// IncrementMade applies a signed delta to the made counter. A zero delta is
// an intentional idempotent path: the product state does not change, but the
// derivation still runs and the team load-days push is still observable.
func (s *productService) IncrementMade(ctx context.Context, id uint, delta int) (dto.ProductResponse, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return dto.ProductResponse{}, err
	}
	if delta != 0 {
		p.AddMade(delta)
	}
	if err := s.deriveAndPersist(ctx, p, false); err != nil {
		return dto.ProductResponse{}, err
	}
	return mapProduct(p), nil
}

// SetMade moves the counter to an absolute value through the same delta
// mechanism as IncrementMade, treating a missing counter as zero.
func (s *productService) SetMade(ctx context.Context, id uint, value int) (dto.ProductResponse, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return dto.ProductResponse{}, err
	}
	current := 0
	if p.QuantityMade != nil {
		current = *p.QuantityMade
	}
	p.AddMade(value - current)
	if err := s.deriveAndPersist(ctx, p, false); err != nil {
		return dto.ProductResponse{}, err
	}
	return mapProduct(p), nil
}

func (s *productService) Delete(ctx context.Context, id uint) error {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return err
	}
	return s.products.Delete(ctx, p)
}
