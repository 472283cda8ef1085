package service

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"real-estate-be/internal/dto"
	"real-estate-be/internal/entity"
	"real-estate-be/internal/repository/contract"
	"real-estate-be/internal/repository/memory"
	"real-estate-be/internal/repository/specification"
	"real-estate-be/internal/repository/unitofwork"
	"real-estate-be/pkg/assistant/response"
	"real-estate-be/pkg/assistant/search"
	"real-estate-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedProvider plays fixed responses for the two pipeline stages: the
// resolver calls Generate, the response generator calls Chat.
type scriptedProvider struct {
	generateFunc func(ctx context.Context, prompt string) (string, error)
	chatFunc     func(ctx context.Context, history []llm.Message) (string, error)
}

func (s *scriptedProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return s.generateFunc(ctx, prompt)
}

func (s *scriptedProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return s.chatFunc(ctx, history)
}

type listingRepoStub struct {
	contract.PostRepository
	posts []*entity.Post
	err   error
}

func (s *listingRepoStub) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Post, error) {
	return s.posts, s.err
}

type uowStub struct {
	unitofwork.UnitOfWork
	posts contract.PostRepository
}

func (s *uowStub) PostRepository() contract.PostRepository { return s.posts }

type factoryStub struct{ uow unitofwork.UnitOfWork }

func (s *factoryStub) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork { return s.uow }

func newAssistantForTest(provider llm.LLMProvider, posts []*entity.Post) IAssistantService {
	sessions := memory.NewSessionStore(memory.Config{
		Capacity:    10,
		MaxHistory:  20,
		IdleTimeout: time.Hour,
	})
	factory := &factoryStub{uow: &uowStub{posts: &listingRepoStub{posts: posts}}}
	adapter := search.NewAdapter(factory, nil)
	return NewAssistantService(sessions, provider, adapter, 2, time.Millisecond)
}

func lagosListings() []*entity.Post {
	return []*entity.Post{
		{
			Title:        "2 Bedroom Apartment in Lekki",
			PropertyType: entity.PropertyApartment,
			Action:       entity.PostActionRent,
			Price:        3_500_000,
			Currency:     "NGN",
			City:         "Lagos",
			Bedrooms:     2,
		},
		{
			Title:        "2 Bedroom Flat in Surulere",
			PropertyType: entity.PropertyApartment,
			Action:       entity.PostActionRent,
			Price:        2_000_000,
			Currency:     "NGN",
			City:         "Lagos",
			Bedrooms:     2,
		},
	}
}

func TestChatRejectsEmptyMessage(t *testing.T) {
	provider := &scriptedProvider{}
	svc := newAssistantForTest(provider, nil)

	_, err := svc.Chat(context.Background(), &dto.AssistantChatRequest{Message: "   "})

	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestChatGreetingAssignsSession(t *testing.T) {
	provider := &scriptedProvider{
		generateFunc: func(ctx context.Context, prompt string) (string, error) {
			return `{"intent": "greeting"}`, nil
		},
		chatFunc: func(ctx context.Context, history []llm.Message) (string, error) {
			return `{"reply": "Hi! Looking to rent or buy?", "suggestions": ["Apartments in Lagos"]}`, nil
		},
	}
	svc := newAssistantForTest(provider, nil)

	res, err := svc.Chat(context.Background(), &dto.AssistantChatRequest{Message: "hello"})

	require.NoError(t, err)
	assert.Equal(t, "Hi! Looking to rent or buy?", res.Reply)
	assert.Nil(t, res.SearchURL)
	require.NotNil(t, res.SessionId)
	assert.NotEmpty(t, *res.SessionId)
}

func TestChatSearchBuildsURL(t *testing.T) {
	provider := &scriptedProvider{
		generateFunc: func(ctx context.Context, prompt string) (string, error) {
			return `{"intent": "search", "location": "Lagos", "property_type": "apartment", "bedrooms": 2, "action": "rent"}`, nil
		},
		chatFunc: func(ctx context.Context, history []llm.Message) (string, error) {
			return `{"reply": "I found 2 matching apartments.", "suggestions": ["Show cheaper ones"]}`, nil
		},
	}
	svc := newAssistantForTest(provider, lagosListings())

	res, err := svc.Chat(context.Background(), &dto.AssistantChatRequest{Message: "2 bedroom apartments for rent in Lagos"})

	require.NoError(t, err)
	assert.Equal(t, "I found 2 matching apartments.", res.Reply)
	require.NotNil(t, res.SearchURL)

	params, parseErr := url.ParseQuery(strings.TrimPrefix(*res.SearchURL, "/search?"))
	require.NoError(t, parseErr)
	assert.Equal(t, "Lagos", params.Get("city"))
	assert.Equal(t, "2", params.Get("bedroom"))
	assert.Equal(t, "apartment", params.Get("property_type"))
	assert.Equal(t, "rent", params.Get("action"))
}

func TestChatSearchWithoutMatchesOmitsURL(t *testing.T) {
	provider := &scriptedProvider{
		generateFunc: func(ctx context.Context, prompt string) (string, error) {
			return `{"intent": "search", "location": "Gwagwalada", "property_type": "condo"}`, nil
		},
		chatFunc: func(ctx context.Context, history []llm.Message) (string, error) {
			return `{"reply": "Nothing matched, maybe widen the search?"}`, nil
		},
	}
	svc := newAssistantForTest(provider, nil)

	res, err := svc.Chat(context.Background(), &dto.AssistantChatRequest{Message: "condos in Gwagwalada"})

	require.NoError(t, err)
	assert.Nil(t, res.SearchURL)
}

func TestChatSurvivesListingStoreFailure(t *testing.T) {
	provider := &scriptedProvider{
		generateFunc: func(ctx context.Context, prompt string) (string, error) {
			return `{"intent": "search", "location": "Lagos", "property_type": "apartment"}`, nil
		},
		chatFunc: func(ctx context.Context, history []llm.Message) (string, error) {
			return `{"reply": "Nothing matched, maybe widen the search?"}`, nil
		},
	}
	sessions := memory.NewSessionStore(memory.Config{Capacity: 10, MaxHistory: 20, IdleTimeout: time.Hour})
	factory := &factoryStub{uow: &uowStub{posts: &listingRepoStub{err: errors.New("connection refused")}}}
	svc := NewAssistantService(sessions, provider, search.NewAdapter(factory, nil), 2, time.Millisecond)

	res, err := svc.Chat(context.Background(), &dto.AssistantChatRequest{Message: "apartments in Lagos"})

	require.NoError(t, err)
	assert.NotEmpty(t, res.Reply)
	assert.Nil(t, res.SearchURL)
}

func TestChatDegradesWhenResolverExhausted(t *testing.T) {
	provider := &scriptedProvider{
		generateFunc: func(ctx context.Context, prompt string) (string, error) {
			return "", errors.New("model offline")
		},
	}
	svc := newAssistantForTest(provider, nil)

	res, err := svc.Chat(context.Background(), &dto.AssistantChatRequest{Message: "hello"})

	require.NoError(t, err, "downstream failure must not surface as an error")
	assert.Equal(t, response.FallbackOutput().Reply, res.Reply)
	assert.Nil(t, res.SearchURL)
	assert.NotEmpty(t, res.Suggestions)
	require.NotNil(t, res.SessionId)
}

func TestChatFollowUpInheritsLocation(t *testing.T) {
	turn := 0
	provider := &scriptedProvider{
		generateFunc: func(ctx context.Context, prompt string) (string, error) {
			turn++
			if turn == 1 {
				return `{"intent": "search", "location": "Lagos", "property_type": "apartment"}`, nil
			}
			// The follow-up names no location of its own
			return `{"intent": "follow_up", "property_type": "apartment", "bedrooms": 2}`, nil
		},
		chatFunc: func(ctx context.Context, history []llm.Message) (string, error) {
			return `{"reply": "Here you go."}`, nil
		},
	}
	svc := newAssistantForTest(provider, lagosListings())

	first, err := svc.Chat(context.Background(), &dto.AssistantChatRequest{Message: "apartments in Lagos"})
	require.NoError(t, err)
	require.NotNil(t, first.SessionId)

	second, err := svc.Chat(context.Background(), &dto.AssistantChatRequest{
		Message:   "what about 2 bedrooms?",
		SessionId: *first.SessionId,
	})
	require.NoError(t, err)
	require.NotNil(t, second.SearchURL)

	params, parseErr := url.ParseQuery(strings.TrimPrefix(*second.SearchURL, "/search?"))
	require.NoError(t, parseErr)
	assert.Equal(t, "Lagos", params.Get("city"), "follow-up should inherit the session location")
	assert.Equal(t, "2", params.Get("bedroom"))
}

func TestClearSessionResetsConversation(t *testing.T) {
	provider := &scriptedProvider{
		generateFunc: func(ctx context.Context, prompt string) (string, error) {
			return `{"intent": "greeting"}`, nil
		},
		chatFunc: func(ctx context.Context, history []llm.Message) (string, error) {
			return `{"reply": "Hi!"}`, nil
		},
	}
	svc := newAssistantForTest(provider, nil)

	res, err := svc.Chat(context.Background(), &dto.AssistantChatRequest{Message: "hello"})
	require.NoError(t, err)
	require.NotNil(t, res.SessionId)

	cleared := svc.ClearSession(context.Background(), &dto.ClearSessionRequest{SessionId: *res.SessionId})
	assert.Equal(t, ClearedReply, cleared.Reply)
	assert.Nil(t, cleared.SessionId)
	assert.Nil(t, cleared.SearchURL)

	_, err = svc.DescribeSession(context.Background(), *res.SessionId)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestDescribeSessionReportsState(t *testing.T) {
	provider := &scriptedProvider{
		generateFunc: func(ctx context.Context, prompt string) (string, error) {
			return `{"intent": "search", "location": "Lagos", "property_type": "apartment", "bedrooms": 2}`, nil
		},
		chatFunc: func(ctx context.Context, history []llm.Message) (string, error) {
			return `{"reply": "Found some."}`, nil
		},
	}
	svc := newAssistantForTest(provider, lagosListings())

	res, err := svc.Chat(context.Background(), &dto.AssistantChatRequest{Message: "2 bed apartments in Lagos"})
	require.NoError(t, err)
	require.NotNil(t, res.SessionId)

	info, err := svc.DescribeSession(context.Background(), *res.SessionId)
	require.NoError(t, err)
	assert.Equal(t, 2, info.MessageCount, "one user turn plus one assistant turn")
	assert.Equal(t, "apartment", info.Preferences.PropertyType)
	assert.Equal(t, []string{"Lagos"}, info.Preferences.Locations)
	assert.False(t, info.CreatedAt.IsZero())
}

func TestDescribeSessionUnknownId(t *testing.T) {
	provider := &scriptedProvider{}
	svc := newAssistantForTest(provider, nil)

	_, err := svc.DescribeSession(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
