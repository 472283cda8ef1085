package search

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"real-estate-be/internal/entity"
	"real-estate-be/internal/repository/specification"
	"real-estate-be/internal/repository/unitofwork"
	"real-estate-be/pkg/assistant/intent"

	gocache "github.com/patrickmn/go-cache"
)

const (
	// maxResults caps how many listings a single assistant turn can pull.
	maxResults = 10

	cacheTTL     = 2 * time.Minute
	cacheCleanup = 5 * time.Minute
)

// Filters are the listing filters derived from a resolved intent.
type Filters struct {
	Location     string
	PropertyType string
	Action       string
	MinPrice     *float64
	MaxPrice     *float64
	Bedrooms     *int
}

// Summary is the slice of a listing the response generator needs. Keeping it
// small keeps the generation prompt small.
type Summary struct {
	Title        string
	PropertyType string
	Action       string
	Price        float64
	Currency     string
	City         string
	Bedrooms     int
	Bathrooms    int
}

// Result is what the assistant pipeline sees after a search. Count reflects
// the listings actually returned, not the full matching population.
type Result struct {
	Count int
	Posts []Summary
}

// Adapter runs listing searches on behalf of the assistant. Search never
// returns an error: the conversational path treats a failed lookup the same
// as an empty one.
type Adapter struct {
	repoFactory unitofwork.RepositoryFactory
	cache       *gocache.Cache
	logger      *log.Logger
}

func NewAdapter(repoFactory unitofwork.RepositoryFactory, logger *log.Logger) *Adapter {
	return &Adapter{
		repoFactory: repoFactory,
		cache:       gocache.New(cacheTTL, cacheCleanup),
		logger:      logger,
	}
}

// FiltersFromIntent maps a resolved intent onto listing filters. The intent
// taxonomy says "buy" where listings say "sale".
func FiltersFromIntent(ri *intent.ResolvedIntent) Filters {
	f := Filters{
		Location:     strings.TrimSpace(ri.Location),
		PropertyType: ri.PropertyType,
		Action:       ri.Action,
		MinPrice:     ri.MinPrice,
		MaxPrice:     ri.MaxPrice,
		Bedrooms:     ri.Bedrooms,
	}
	if f.Action == "buy" {
		f.Action = string(entity.PostActionSale)
	}
	return f
}

// Search looks up listings matching the filters. Without a location there is
// nothing meaningful to search, so the result is empty by contract. Storage
// errors degrade to an empty result as well.
func (a *Adapter) Search(ctx context.Context, filters Filters) Result {
	if filters.Location == "" {
		return Result{}
	}

	key := cacheKey(filters)
	if cached, found := a.cache.Get(key); found {
		if result, ok := cached.(Result); ok {
			return result
		}
	}

	specs := []specification.Specification{
		specification.LocationMatches{Location: filters.Location},
	}
	if filters.PropertyType != "" && filters.PropertyType != intent.PropertyAny {
		specs = append(specs, specification.PropertyTypeIs{PropertyType: filters.PropertyType})
	}
	if filters.Action != "" && filters.Action != intent.ActionAny {
		specs = append(specs, specification.ActionIs{Action: filters.Action})
	}
	if filters.Bedrooms != nil {
		specs = append(specs, specification.MinBedrooms{Bedrooms: *filters.Bedrooms})
	}
	if filters.MinPrice != nil {
		specs = append(specs, specification.PriceAtLeast{Price: *filters.MinPrice})
	}
	if filters.MaxPrice != nil {
		specs = append(specs, specification.PriceAtMost{Price: *filters.MaxPrice})
	}
	specs = append(specs,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: maxResults},
	)

	uow := a.repoFactory.NewUnitOfWork(ctx)
	posts, err := uow.PostRepository().FindAll(ctx, specs...)
	if err != nil {
		if a.logger != nil {
			a.logger.Printf("WARN: listing search failed, returning empty result: %v", err)
		}
		return Result{}
	}

	result := Result{
		Count: len(posts),
		Posts: make([]Summary, 0, len(posts)),
	}
	for _, p := range posts {
		result.Posts = append(result.Posts, Summary{
			Title:        p.Title,
			PropertyType: string(p.PropertyType),
			Action:       string(p.Action),
			Price:        p.Price,
			Currency:     p.Currency,
			City:         p.City,
			Bedrooms:     p.Bedrooms,
			Bathrooms:    p.Bathrooms,
		})
	}

	a.cache.Set(key, result, cacheTTL)
	return result
}

// FlushCache drops all cached search results. Called when listings change.
func (a *Adapter) FlushCache() {
	a.cache.Flush()
}

func cacheKey(f Filters) string {
	parts := []string{
		"loc=" + strings.ToLower(f.Location),
		"type=" + f.PropertyType,
		"action=" + f.Action,
	}
	if f.Bedrooms != nil {
		parts = append(parts, fmt.Sprintf("bed=%d", *f.Bedrooms))
	}
	if f.MinPrice != nil {
		parts = append(parts, fmt.Sprintf("min=%.2f", *f.MinPrice))
	}
	if f.MaxPrice != nil {
		parts = append(parts, fmt.Sprintf("max=%.2f", *f.MaxPrice))
	}
	sort.Strings(parts)
	return strings.Join(parts, "&")
}
