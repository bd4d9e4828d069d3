package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Dates travel as plain "2006-01-02" strings on the wire; the service layer
// converts with ParseDate/FormatDate.
const DateLayout = "2006-01-02"

func ParseDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func FormatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DateLayout)
	return &s
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	Op                 string           `json:"op"                 validate:"required,min=1,max=50"`
	Quantity           *int             `json:"quantity"`
	QuantityMade       *int             `json:"quantityMade"       validate:"omitempty,min=0"`
	Sam                *decimal.Decimal `json:"sam"`
	Price              *decimal.Decimal `json:"price"`
	LoadDays           *decimal.Decimal `json:"loadDays"`
	Status             *string          `json:"status"             validate:"omitempty,oneof=PROCESO ASIGNADO CONFECCION"`
	Brand              *string          `json:"brand"`
	Reference          *string          `json:"reference"          validate:"omitempty,max=120"`
	Campaign           *string          `json:"campaign"           validate:"omitempty,max=120"`
	Type               *string          `json:"type"               validate:"omitempty,max=120"`
	Description        *string          `json:"description"        validate:"omitempty,max=255"`
	SizeQuantities     *string          `json:"sizeQuantities"     validate:"omitempty,max=255"`
	StoppageReason     *string          `json:"stoppageReason"     validate:"omitempty,max=255"`
	AssignedDate       *string          `json:"assignedDate"       validate:"omitempty,datetime=2006-01-02"`
	PlantEntryDate     *string          `json:"plantEntryDate"     validate:"omitempty,datetime=2006-01-02"`
	ActualDeliveryDate *string          `json:"actualDeliveryDate" validate:"omitempty,datetime=2006-01-02"`
	TeamID             *uint            `json:"teamId"`
}

// UpdateProductRequest applies only the fields that are present: absent keys
// leave the stored value untouched, so a field can never be cleared through
// this request. quantityMade is applied as a delta against the current
// counter, not a raw overwrite.
type UpdateProductRequest struct {
	Op                 *string          `json:"op"                 validate:"omitempty,min=1,max=50"`
	Quantity           *int             `json:"quantity"           validate:"omitempty,min=0"`
	QuantityMade       *int             `json:"quantityMade"       validate:"omitempty,min=0"`
	Sam                *decimal.Decimal `json:"sam"`
	Price              *decimal.Decimal `json:"price"`
	LoadDays           *decimal.Decimal `json:"loadDays"`
	Status             *string          `json:"status"             validate:"omitempty,oneof=PROCESO ASIGNADO CONFECCION"`
	Brand              *string          `json:"brand"`
	Reference          *string          `json:"reference"          validate:"omitempty,max=120"`
	Campaign           *string          `json:"campaign"           validate:"omitempty,max=120"`
	Type               *string          `json:"type"               validate:"omitempty,max=120"`
	Description        *string          `json:"description"        validate:"omitempty,max=255"`
	SizeQuantities     *string          `json:"sizeQuantities"     validate:"omitempty,max=255"`
	StoppageReason     *string          `json:"stoppageReason"     validate:"omitempty,max=255"`
	AssignedDate       *string          `json:"assignedDate"       validate:"omitempty,datetime=2006-01-02"`
	PlantEntryDate     *string          `json:"plantEntryDate"     validate:"omitempty,datetime=2006-01-02"`
	ActualDeliveryDate *string          `json:"actualDeliveryDate" validate:"omitempty,datetime=2006-01-02"`
	TeamID             *uint            `json:"teamId"`
}

type MadeDeltaRequest struct {
	Delta *int `json:"delta"`
}

type SetMadeRequest struct {
	QuantityMade *int `json:"quantityMade"`
}

// ─── Filters ─────────────────────────────────────────────────────────────────

type DateRangeFilter struct {
	Start string `form:"start" validate:"required,datetime=2006-01-02"`
	End   string `form:"end"   validate:"required,datetime=2006-01-02"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID                 uint             `json:"id"`
	Op                 string           `json:"op"`
	Quantity           *int             `json:"quantity"`
	QuantityMade       *int             `json:"quantityMade"`
	Missing            *int             `json:"missing"`
	Sam                *decimal.Decimal `json:"sam"`
	SamTotal           *int             `json:"samTotal"`
	Price              *decimal.Decimal `json:"price"`
	LoadDays           *decimal.Decimal `json:"loadDays"`
	Status             string           `json:"status"`
	Brand              *string          `json:"brand"`
	Reference          *string          `json:"reference"`
	Campaign           *string          `json:"campaign"`
	Type               *string          `json:"type"`
	Description        *string          `json:"description"`
	SizeQuantities     *string          `json:"sizeQuantities"`
	StoppageReason     *string          `json:"stoppageReason"`
	AssignedDate       *string          `json:"assignedDate"`
	PlantEntryDate     *string          `json:"plantEntryDate"`
	ActualDeliveryDate *string          `json:"actualDeliveryDate"`
	TeamID             *uint            `json:"teamId"`
	Version            int              `json:"version"`
}

// OpStatusResponse is returned by the public OP progress lookup (no auth).
type OpStatusResponse struct {
	Op           string  `json:"op"`
	Status       string  `json:"status"`
	Quantity     *int    `json:"quantity"`
	QuantityMade *int    `json:"quantityMade"`
	Missing      *int    `json:"missing"`
	Brand        *string `json:"brand"`
	Reference    *string `json:"reference"`
}
