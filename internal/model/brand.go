package model

import (
	"fmt"
	"strings"
)

// Brand identifies the client label an order is produced for.
// Stored and serialized as the commercial label, not an internal code.
type Brand string

const (
	BrandTennis Brand = "TENNIS SAS"
	BrandElede  Brand = "LINEA DIRECTA"
	BrandBlank  Brand = ""
)

// Valid reports whether b is a known brand label.
func (b Brand) Valid() bool {
	switch b {
	case BrandTennis, BrandElede, BrandBlank:
		return true
	}
	return false
}

// BrandFromLabel resolves a label case-insensitively, trimming surrounding spaces.
func BrandFromLabel(label string) (Brand, error) {
	norm := strings.TrimSpace(label)
	for _, b := range []Brand{BrandTennis, BrandElede, BrandBlank} {
		if strings.EqualFold(norm, string(b)) {
			return b, nil
		}
	}
	return BrandBlank, fmt.Errorf("invalid brand: %q", label)
}
