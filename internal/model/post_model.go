package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Post struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId       uuid.UUID `gorm:"type:uuid;not null;index"`
	Title        string    `gorm:"type:text;not null"`
	Description  string    `gorm:"type:text"`
	PropertyType string    `gorm:"type:text;not null;index"`
	Action       string    `gorm:"type:text;not null;index"` // "sale" | "rent"
	Price        float64   `gorm:"not null"`
	Currency     string    `gorm:"type:text;not null;default:'NGN'"`
	City         string    `gorm:"type:text;index"`
	Country      string    `gorm:"type:text"`
	Address      string    `gorm:"type:text"`
	Bedrooms     int       `gorm:"default:0"`
	Bathrooms    int       `gorm:"default:0"`
	Area         *float64
	Images       datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt    time.Time      `gorm:"autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime"`
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (Post) TableName() string {
	return "posts"
}
