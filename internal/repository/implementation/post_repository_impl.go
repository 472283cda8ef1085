package implementation

import (
	"context"
	"errors"

	"real-estate-be/internal/entity"
	"real-estate-be/internal/mapper"
	"real-estate-be/internal/model"
	"real-estate-be/internal/repository/contract"
	"real-estate-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PostMapper
}

func NewPostRepository(db *gorm.DB) contract.PostRepository {
	return &PostRepositoryImpl{
		db:     db,
		mapper: mapper.NewPostMapper(),
	}
}

func (r *PostRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *PostRepositoryImpl) Create(ctx context.Context, post *entity.Post) error {
	modelPost := r.mapper.ToModel(post)
	if err := r.db.WithContext(ctx).Create(modelPost).Error; err != nil {
		return err
	}
	*post = *r.mapper.ToEntity(modelPost)
	return nil
}

func (r *PostRepositoryImpl) Update(ctx context.Context, post *entity.Post) error {
	modelPost := r.mapper.ToModel(post)
	if err := r.db.WithContext(ctx).Save(modelPost).Error; err != nil {
		return err
	}
	*post = *r.mapper.ToEntity(modelPost)
	return nil
}

func (r *PostRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Post{}).Error
}

func (r *PostRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Post, error) {
	var modelPost model.Post
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.First(&modelPost).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.mapper.ToEntity(&modelPost), nil
}

func (r *PostRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Post, error) {
	var modelPosts []*model.Post
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.Find(&modelPosts).Error; err != nil {
		return nil, err
	}

	return r.mapper.ToEntities(modelPosts), nil
}

func (r *PostRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Post{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
