package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Team is a production cell: a group of people working through the orders
// assigned to it. LoadDays is overwritten by every save of an owned product
// (last writer wins); the aggregated figure clients care about is
// TotalLoadDays, which is always computed on read and never stored.
type Team struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:100;not null;index"`
	Description *string `gorm:"size:255"`
	NumPersons  *int
	LoadDays    decimal.NullDecimal `gorm:"type:decimal(10,2)"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Products []Product `gorm:"foreignKey:TeamID"`
}

// TotalLoadDays sums the load-days of every owned product (orders without a
// value are skipped), rounded half-up to two decimal places. Zero when the
// team has no products.
func (t *Team) TotalLoadDays() decimal.Decimal {
	if len(t.Products) == 0 {
		return decimal.Zero
	}
	total := decimal.Zero
	for _, p := range t.Products {
		if p.LoadDays.Valid {
			total = total.Add(p.LoadDays.Decimal)
		}
	}
	return total.Round(2)
}
