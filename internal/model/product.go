package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a manufacturing order (an "OP"). Quantity targets and progress
// live here; Missing and SamTotal are derived and recomputed by
// RecalcDerived after every mutation, never set directly by callers.
// Version backs the optimistic-concurrency check on update.
type Product struct {
	ID           uint   `gorm:"primaryKey"`
	Op           string `gorm:"uniqueIndex;not null"`
	Quantity     *int   `gorm:"not null"`
	QuantityMade *int   `gorm:"not null;default:0"`
	Missing      *int
	Sam          decimal.NullDecimal `gorm:"type:decimal(8,2)"`
	SamTotal     *int
	Price        decimal.NullDecimal `gorm:"type:decimal(12,2)"`
	LoadDays     decimal.NullDecimal `gorm:"type:decimal(10,2)"`
	Status       ProductionStatus    `gorm:"type:varchar(20);not null;default:'PROCESO'"`
	Brand        *Brand              `gorm:"type:varchar(30)"`

	Reference      *string `gorm:"size:120;index"`
	Campaign       *string `gorm:"size:120"`
	Type           *string `gorm:"size:120"`
	Description    *string `gorm:"size:255"`
	SizeQuantities *string `gorm:"size:255"`
	StoppageReason *string `gorm:"size:255"`

	AssignedDate       *time.Time `gorm:"type:date"`
	PlantEntryDate     *time.Time `gorm:"type:date;index"`
	ActualDeliveryDate *time.Time `gorm:"type:date"`

	TeamID *uint `gorm:"index"`
	Team   *Team `gorm:"foreignKey:TeamID"`

	Version   int `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AddMade applies a delta to the made counter, treating a missing counter as
// zero. Progress changes always travel through here so that absolute updates
// and increments share one code path.
func (p *Product) AddMade(delta int) {
	made := 0
	if p.QuantityMade != nil {
		made = *p.QuantityMade
	}
	made += delta
	p.QuantityMade = &made
}

// RecalcDerived recomputes the derived fields from the current state:
//
//	missing  = max(0, quantity - quantityMade)   (only when quantity is set)
//	samTotal = round(missing * sam)              (only when sam and missing are set)
//
// and defaults the status to PROCESO when unset. Pure, no I/O, so the
// derivation rules are testable without a database. The load-days push to the
// owning team is the service's job, immediately after calling this.
func (p *Product) RecalcDerived() {
	if p.Quantity != nil {
		made := 0
		if p.QuantityMade != nil {
			made = *p.QuantityMade
		}
		missing := *p.Quantity - made
		if missing < 0 {
			missing = 0
		}
		p.Missing = &missing
	}
	if p.Sam.Valid && p.Missing != nil {
		total := int(p.Sam.Decimal.Mul(decimal.NewFromInt(int64(*p.Missing))).Round(0).IntPart())
		p.SamTotal = &total
	}
	if p.Status == "" {
		p.Status = StatusProceso
	}
}
