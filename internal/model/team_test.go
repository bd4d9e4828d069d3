package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func loadDays(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.RequireFromString(s), Valid: true}
}

func TestTotalLoadDaysSkipsNullsAndRoundsHalfUp(t *testing.T) {
	team := Team{Products: []Product{
		{LoadDays: loadDays("1.005")},
		{LoadDays: loadDays("2.00")},
		{LoadDays: decimal.NullDecimal{}},
	}}
	assert.True(t, team.TotalLoadDays().Equal(decimal.RequireFromString("3.01")),
		"got %s", team.TotalLoadDays())
}

func TestTotalLoadDaysZeroWithoutProducts(t *testing.T) {
	team := Team{}
	assert.True(t, team.TotalLoadDays().IsZero())
}

func TestBrandFromLabel(t *testing.T) {
	b, err := BrandFromLabel("  tennis sas ")
	assert.NoError(t, err)
	assert.Equal(t, BrandTennis, b)

	_, err = BrandFromLabel("ZARA")
	assert.Error(t, err)
}
