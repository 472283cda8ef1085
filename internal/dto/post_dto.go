package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreatePostRequest struct {
	Title        string   `json:"title" validate:"required,min=3"`
	Description  string   `json:"description"`
	PropertyType string   `json:"property_type" validate:"required,oneof=apartment house condo land"`
	Action       string   `json:"action" validate:"required,oneof=sale rent"`
	Price        float64  `json:"price" validate:"required,gt=0"`
	Currency     string   `json:"currency" validate:"omitempty,len=3"`
	City         string   `json:"city" validate:"required"`
	Country      string   `json:"country"`
	Address      string   `json:"address"`
	Bedrooms     int      `json:"bedrooms" validate:"gte=0"`
	Bathrooms    int      `json:"bathrooms" validate:"gte=0"`
	Area         *float64 `json:"area" validate:"omitempty,gt=0"`
	Images       []string `json:"images" validate:"max=12,dive,url"`
}

type CreatePostResponse struct {
	Id uuid.UUID `json:"id"`
}

type UpdatePostRequest struct {
	Id           uuid.UUID
	Title        string   `json:"title" validate:"required,min=3"`
	Description  string   `json:"description"`
	PropertyType string   `json:"property_type" validate:"required,oneof=apartment house condo land"`
	Action       string   `json:"action" validate:"required,oneof=sale rent"`
	Price        float64  `json:"price" validate:"required,gt=0"`
	Currency     string   `json:"currency" validate:"omitempty,len=3"`
	City         string   `json:"city" validate:"required"`
	Country      string   `json:"country"`
	Address      string   `json:"address"`
	Bedrooms     int      `json:"bedrooms" validate:"gte=0"`
	Bathrooms    int      `json:"bathrooms" validate:"gte=0"`
	Area         *float64 `json:"area" validate:"omitempty,gt=0"`
	Images       []string `json:"images" validate:"max=12,dive,url"`
}

type UpdatePostResponse struct {
	Id uuid.UUID `json:"id"`
}

type ListPostsRequest struct {
	City         string   `query:"city"`
	PropertyType string   `query:"property_type" validate:"omitempty,oneof=apartment house condo land"`
	Action       string   `query:"action" validate:"omitempty,oneof=sale rent"`
	MinPrice     *float64 `query:"min_price" validate:"omitempty,gte=0"`
	MaxPrice     *float64 `query:"max_price" validate:"omitempty,gte=0"`
	Bedrooms     *int     `query:"bedroom" validate:"omitempty,gte=0"`
	Page         int      `query:"page" validate:"omitempty,gte=1"`
	Limit        int      `query:"limit" validate:"omitempty,gte=1,lte=50"`
}

type PostResponse struct {
	Id           uuid.UUID  `json:"id"`
	UserId       uuid.UUID  `json:"user_id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	PropertyType string     `json:"property_type"`
	Action       string     `json:"action"`
	Price        float64    `json:"price"`
	Currency     string     `json:"currency"`
	City         string     `json:"city"`
	Country      string     `json:"country,omitempty"`
	Address      string     `json:"address,omitempty"`
	Bedrooms     int        `json:"bedrooms"`
	Bathrooms    int        `json:"bathrooms"`
	Area         *float64   `json:"area,omitempty"`
	Images       []string   `json:"images,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

// PostEventMessage travels over the in-process event bus whenever a listing
// changes.
type PostEventMessage struct {
	PostId uuid.UUID `json:"post_id"`
	Change string    `json:"change"` // "created" | "updated" | "deleted"
}

type ListPostsResponse struct {
	Posts []PostResponse `json:"posts"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
	Total int64          `json:"total"`
}
