package mapper

import (
	"encoding/json"
	"time"

	"real-estate-be/internal/entity"
	"real-estate-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PostMapper struct{}

func NewPostMapper() *PostMapper {
	return &PostMapper{}
}

func (m *PostMapper) ToEntity(p *model.Post) *entity.Post {
	if p == nil {
		return nil
	}

	var deletedAt *time.Time
	if p.DeletedAt.Valid {
		t := p.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		updatedAt = &t
	}

	var images []string
	if len(p.Images) > 0 {
		// Ignore malformed image payloads; a listing without images is
		// still a valid listing.
		_ = json.Unmarshal(p.Images, &images)
	}

	return &entity.Post{
		Id:           p.Id,
		UserId:       p.UserId,
		Title:        p.Title,
		Description:  p.Description,
		PropertyType: entity.PropertyType(p.PropertyType),
		Action:       entity.PostAction(p.Action),
		Price:        p.Price,
		Currency:     p.Currency,
		City:         p.City,
		Country:      p.Country,
		Address:      p.Address,
		Bedrooms:     p.Bedrooms,
		Bathrooms:    p.Bathrooms,
		Area:         p.Area,
		Images:       images,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    updatedAt,
		DeletedAt:    deletedAt,
		IsDeleted:    p.DeletedAt.Valid,
	}
}

func (m *PostMapper) ToModel(p *entity.Post) *model.Post {
	if p == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if p.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *p.DeletedAt, Valid: true}
	} else if p.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if p.UpdatedAt != nil {
		updatedAt = *p.UpdatedAt
	}

	var images datatypes.JSON
	if len(p.Images) > 0 {
		raw, err := json.Marshal(p.Images)
		if err == nil {
			images = raw
		}
	}

	return &model.Post{
		Id:           p.Id,
		UserId:       p.UserId,
		Title:        p.Title,
		Description:  p.Description,
		PropertyType: string(p.PropertyType),
		Action:       string(p.Action),
		Price:        p.Price,
		Currency:     p.Currency,
		City:         p.City,
		Country:      p.Country,
		Address:      p.Address,
		Bedrooms:     p.Bedrooms,
		Bathrooms:    p.Bathrooms,
		Area:         p.Area,
		Images:       images,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    updatedAt,
		DeletedAt:    deletedAt,
	}
}

func (m *PostMapper) ToEntities(models []*model.Post) []*entity.Post {
	entities := make([]*entity.Post, 0, len(models))
	for _, p := range models {
		entities = append(entities, m.ToEntity(p))
	}
	return entities
}
