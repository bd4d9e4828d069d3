package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateTeamRequest struct {
	Name        string           `json:"name"        validate:"required,min=2,max=100"`
	Description *string          `json:"description" validate:"omitempty,max=255"`
	NumPersons  *int             `json:"numPersons"  validate:"omitempty,min=0"`
	LoadDays    *decimal.Decimal `json:"loadDays"`
}

// UpdateTeamRequest overwrites name, description and numPersons unconditionally:
// an absent description or numPersons clears the stored value. This mirrors how
// the planners' spreadsheet import works and is intentional.
type UpdateTeamRequest struct {
	Name        string  `json:"name"        validate:"required,min=2,max=100"`
	Description *string `json:"description" validate:"omitempty,max=255"`
	NumPersons  *int    `json:"numPersons"`
}

type UpdatePeopleRequest struct {
	NumPersons *int `json:"numPersons"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type TeamResponse struct {
	ID            uint             `json:"id"`
	Name          string           `json:"name"`
	Description   *string          `json:"description"`
	NumPersons    *int             `json:"numPersons"`
	LoadDays      *decimal.Decimal `json:"loadDays"`
	TotalLoadDays decimal.Decimal  `json:"totalLoadDays"`
}
