package entity

import (
	"time"

	"github.com/google/uuid"
)

type PropertyType string
type PostAction string

const (
	PropertyApartment PropertyType = "apartment"
	PropertyHouse     PropertyType = "house"
	PropertyCondo     PropertyType = "condo"
	PropertyLand      PropertyType = "land"

	PostActionSale PostAction = "sale"
	PostActionRent PostAction = "rent"
)

// Post is a property listing.
type Post struct {
	Id           uuid.UUID
	UserId       uuid.UUID
	Title        string
	Description  string
	PropertyType PropertyType
	Action       PostAction
	Price        float64
	Currency     string
	City         string
	Country      string
	Address      string
	Bedrooms     int
	Bathrooms    int
	Area         *float64 // square meters
	Images       []string
	CreatedAt    time.Time
	UpdatedAt    *time.Time
	DeletedAt    *time.Time
	IsDeleted    bool
}
