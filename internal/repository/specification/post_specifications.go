package specification

import (
	"strings"

	"gorm.io/gorm"
)

// LocationMatches does a case-insensitive match over the location-ish
// columns of a listing. The assistant resolves free-text locations, so
// "Lekki, Lagos" should still hit rows whose city is "Lagos".
type LocationMatches struct {
	Location string
}

func (s LocationMatches) Apply(db *gorm.DB) *gorm.DB {
	pattern := "%" + strings.TrimSpace(s.Location) + "%"
	return db.Where("city ILIKE ? OR country ILIKE ? OR address ILIKE ?", pattern, pattern, pattern)
}

type PropertyTypeIs struct {
	PropertyType string
}

func (s PropertyTypeIs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("property_type = ?", s.PropertyType)
}

type ActionIs struct {
	Action string
}

func (s ActionIs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("action = ?", s.Action)
}

type MinBedrooms struct {
	Bedrooms int
}

func (s MinBedrooms) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("bedrooms >= ?", s.Bedrooms)
}

type PriceAtLeast struct {
	Price float64
}

func (s PriceAtLeast) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("price >= ?", s.Price)
}

type PriceAtMost struct {
	Price float64
}

func (s PriceAtMost) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("price <= ?", s.Price)
}
