package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"real-estate-be/internal/dto"
	"real-estate-be/internal/entity"
	"real-estate-be/internal/repository/specification"
	"real-estate-be/internal/repository/unitofwork"
	"real-estate-be/pkg/events"
	pktNats "real-estate-be/pkg/nats"

	"github.com/google/uuid"
)

const defaultPageSize = 20

type IPostService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreatePostRequest) (*dto.CreatePostResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.PostResponse, error)
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdatePostRequest) (*dto.UpdatePostResponse, error)
	Delete(ctx context.Context, userId, id uuid.UUID) error
	List(ctx context.Context, req *dto.ListPostsRequest) (*dto.ListPostsResponse, error)
}

type postService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
}

func NewPostService(uowFactory unitofwork.RepositoryFactory, publisherService IPublisherService, eventPublisher *pktNats.Publisher) IPostService {
	return &postService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
	}
}

func (s *postService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreatePostRequest) (*dto.CreatePostResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	currency := req.Currency
	if currency == "" {
		currency = "NGN"
	}

	post := &entity.Post{
		Id:           uuid.New(),
		UserId:       userId,
		Title:        req.Title,
		Description:  req.Description,
		PropertyType: entity.PropertyType(req.PropertyType),
		Action:       entity.PostAction(req.Action),
		Price:        req.Price,
		Currency:     currency,
		City:         req.City,
		Country:      req.Country,
		Address:      req.Address,
		Bedrooms:     req.Bedrooms,
		Bathrooms:    req.Bathrooms,
		Area:         req.Area,
		Images:       req.Images,
		CreatedAt:    time.Now(),
	}

	if err := uow.PostRepository().Create(ctx, post); err != nil {
		return nil, err
	}

	s.notifyChange(ctx, post.Id, "created")

	return &dto.CreatePostResponse{Id: post.Id}, nil
}

func (s *postService) Show(ctx context.Context, id uuid.UUID) (*dto.PostResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	post, err := uow.PostRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, errors.New("post not found")
	}

	res := toPostResponse(post)
	return &res, nil
}

func (s *postService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdatePostRequest) (*dto.UpdatePostResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	post, err := uow.PostRepository().FindOne(ctx, specification.ByID{ID: req.Id})
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, errors.New("post not found")
	}
	if post.UserId != userId {
		return nil, errors.New("not the owner of this post")
	}

	post.Title = req.Title
	post.Description = req.Description
	post.PropertyType = entity.PropertyType(req.PropertyType)
	post.Action = entity.PostAction(req.Action)
	post.Price = req.Price
	if req.Currency != "" {
		post.Currency = req.Currency
	}
	post.City = req.City
	post.Country = req.Country
	post.Address = req.Address
	post.Bedrooms = req.Bedrooms
	post.Bathrooms = req.Bathrooms
	post.Area = req.Area
	post.Images = req.Images
	now := time.Now()
	post.UpdatedAt = &now

	if err := uow.PostRepository().Update(ctx, post); err != nil {
		return nil, err
	}

	s.notifyChange(ctx, post.Id, "updated")

	return &dto.UpdatePostResponse{Id: post.Id}, nil
}

func (s *postService) Delete(ctx context.Context, userId, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	post, err := uow.PostRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if post == nil {
		return errors.New("post not found")
	}
	if post.UserId != userId {
		return errors.New("not the owner of this post")
	}

	if err := uow.PostRepository().Delete(ctx, id); err != nil {
		return err
	}

	s.notifyChange(ctx, id, "deleted")
	return nil
}

func (s *postService) List(ctx context.Context, req *dto.ListPostsRequest) (*dto.ListPostsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := req.Limit
	if limit < 1 {
		limit = defaultPageSize
	}

	filterSpecs := buildPostFilters(req)

	total, err := uow.PostRepository().Count(ctx, filterSpecs...)
	if err != nil {
		return nil, err
	}

	querySpecs := append(filterSpecs,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: (page - 1) * limit},
	)
	posts, err := uow.PostRepository().FindAll(ctx, querySpecs...)
	if err != nil {
		return nil, err
	}

	res := &dto.ListPostsResponse{
		Posts: make([]dto.PostResponse, 0, len(posts)),
		Page:  page,
		Limit: limit,
		Total: total,
	}
	for _, p := range posts {
		res.Posts = append(res.Posts, toPostResponse(p))
	}
	return res, nil
}

func buildPostFilters(req *dto.ListPostsRequest) []specification.Specification {
	var specs []specification.Specification
	if req.City != "" {
		specs = append(specs, specification.LocationMatches{Location: req.City})
	}
	if req.PropertyType != "" {
		specs = append(specs, specification.PropertyTypeIs{PropertyType: req.PropertyType})
	}
	if req.Action != "" {
		specs = append(specs, specification.ActionIs{Action: req.Action})
	}
	if req.Bedrooms != nil {
		specs = append(specs, specification.MinBedrooms{Bedrooms: *req.Bedrooms})
	}
	if req.MinPrice != nil {
		specs = append(specs, specification.PriceAtLeast{Price: *req.MinPrice})
	}
	if req.MaxPrice != nil {
		specs = append(specs, specification.PriceAtMost{Price: *req.MaxPrice})
	}
	return specs
}

// notifyChange fans the listing change out to the in-process bus (cache
// invalidation) and the NATS mirror. Both are best effort.
func (s *postService) notifyChange(ctx context.Context, postId uuid.UUID, change string) {
	if s.publisherService != nil {
		payload, err := json.Marshal(dto.PostEventMessage{PostId: postId, Change: change})
		if err == nil {
			if err := s.publisherService.Publish(ctx, payload); err != nil {
				fmt.Printf("[WARN] Failed to publish post event: %v\n", err)
			}
		}
	}

	if s.eventPublisher != nil {
		eventType := events.PostCreated
		switch change {
		case "updated":
			eventType = events.PostUpdated
		case "deleted":
			eventType = events.PostDeleted
		}
		evt := events.New(eventType, map[string]interface{}{
			"post_id": postId,
		})
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("[WARN] Failed to publish %s event: %v\n", eventType, err)
		}
	}
}

func toPostResponse(p *entity.Post) dto.PostResponse {
	return dto.PostResponse{
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
		Images:       p.Images,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
