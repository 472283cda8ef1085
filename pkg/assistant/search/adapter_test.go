package search

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"real-estate-be/internal/entity"
	"real-estate-be/internal/repository/contract"
	"real-estate-be/internal/repository/specification"
	"real-estate-be/internal/repository/unitofwork"
	"real-estate-be/pkg/assistant/intent"

	"github.com/stretchr/testify/assert"
)

// stubPostRepo overrides only FindAll; the embedded interface covers the rest.
type stubPostRepo struct {
	contract.PostRepository
	findAll func(ctx context.Context, specs ...specification.Specification) ([]*entity.Post, error)
	calls   int
}

func (s *stubPostRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Post, error) {
	s.calls++
	return s.findAll(ctx, specs...)
}

type stubUnitOfWork struct {
	unitofwork.UnitOfWork
	posts contract.PostRepository
}

func (s *stubUnitOfWork) PostRepository() contract.PostRepository {
	return s.posts
}

type stubFactory struct {
	uow unitofwork.UnitOfWork
}

func (s *stubFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return s.uow
}

func newTestAdapter(repo *stubPostRepo) *Adapter {
	factory := &stubFactory{uow: &stubUnitOfWork{posts: repo}}
	return NewAdapter(factory, log.New(io.Discard, "", 0))
}

func samplePosts() []*entity.Post {
	return []*entity.Post{
		{
			Title:        "2 Bedroom Apartment in Lekki",
			PropertyType: entity.PropertyApartment,
			Action:       entity.PostActionRent,
			Price:        3_500_000,
			Currency:     "NGN",
			City:         "Lagos",
			Bedrooms:     2,
			Bathrooms:    2,
		},
		{
			Title:        "Studio in Yaba",
			PropertyType: entity.PropertyApartment,
			Action:       entity.PostActionRent,
			Price:        1_200_000,
			Currency:     "NGN",
			City:         "Lagos",
			Bedrooms:     1,
			Bathrooms:    1,
		},
	}
}

func TestFiltersFromIntentMapsBuyToSale(t *testing.T) {
	resolved := intent.NewResolvedIntent(intent.IntentSearch)
	resolved.Location = " Abuja "
	resolved.Action = "buy"

	f := FiltersFromIntent(resolved)

	assert.Equal(t, "Abuja", f.Location)
	assert.Equal(t, "sale", f.Action)
}

func TestSearchWithoutLocationIsEmpty(t *testing.T) {
	repo := &stubPostRepo{
		findAll: func(ctx context.Context, specs ...specification.Specification) ([]*entity.Post, error) {
			return samplePosts(), nil
		},
	}
	a := newTestAdapter(repo)

	result := a.Search(context.Background(), Filters{PropertyType: "apartment"})

	assert.Equal(t, 0, result.Count)
	assert.Empty(t, result.Posts)
	assert.Equal(t, 0, repo.calls, "storage should not be touched without a location")
}

func TestSearchMapsListings(t *testing.T) {
	repo := &stubPostRepo{
		findAll: func(ctx context.Context, specs ...specification.Specification) ([]*entity.Post, error) {
			return samplePosts(), nil
		},
	}
	a := newTestAdapter(repo)

	result := a.Search(context.Background(), Filters{Location: "Lagos", Action: "rent"})

	assert.Equal(t, 2, result.Count)
	assert.Equal(t, "2 Bedroom Apartment in Lekki", result.Posts[0].Title)
	assert.Equal(t, "apartment", result.Posts[0].PropertyType)
	assert.Equal(t, "rent", result.Posts[0].Action)
	assert.Equal(t, "Lagos", result.Posts[0].City)
	assert.Equal(t, 2, result.Posts[0].Bedrooms)
}

func TestSearchDegradesOnStorageError(t *testing.T) {
	repo := &stubPostRepo{
		findAll: func(ctx context.Context, specs ...specification.Specification) ([]*entity.Post, error) {
			return nil, errors.New("connection refused")
		},
	}
	a := newTestAdapter(repo)

	result := a.Search(context.Background(), Filters{Location: "Lagos"})

	assert.Equal(t, 0, result.Count)
	assert.Empty(t, result.Posts)
}

func TestSearchCachesIdenticalFilters(t *testing.T) {
	repo := &stubPostRepo{
		findAll: func(ctx context.Context, specs ...specification.Specification) ([]*entity.Post, error) {
			return samplePosts(), nil
		},
	}
	a := newTestAdapter(repo)

	filters := Filters{Location: "Lagos", PropertyType: "apartment"}
	first := a.Search(context.Background(), filters)
	second := a.Search(context.Background(), filters)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.calls)

	// Different filters miss the cache
	a.Search(context.Background(), Filters{Location: "Abuja"})
	assert.Equal(t, 2, repo.calls)
}

func TestFlushCacheForcesFreshLookup(t *testing.T) {
	repo := &stubPostRepo{
		findAll: func(ctx context.Context, specs ...specification.Specification) ([]*entity.Post, error) {
			return samplePosts(), nil
		},
	}
	a := newTestAdapter(repo)

	filters := Filters{Location: "Lagos"}
	a.Search(context.Background(), filters)
	a.FlushCache()
	a.Search(context.Background(), filters)

	assert.Equal(t, 2, repo.calls)
}

func TestSearchErrorsAreNotCached(t *testing.T) {
	failing := true
	repo := &stubPostRepo{}
	repo.findAll = func(ctx context.Context, specs ...specification.Specification) ([]*entity.Post, error) {
		if failing {
			return nil, errors.New("transient")
		}
		return samplePosts(), nil
	}
	a := newTestAdapter(repo)

	filters := Filters{Location: "Lagos"}
	result := a.Search(context.Background(), filters)
	assert.Equal(t, 0, result.Count)

	failing = false
	result = a.Search(context.Background(), filters)
	assert.Equal(t, 2, result.Count)
}
