package response

import (
	"context"
	"errors"
	"io"
	"log"
	"net/url"
	"strings"
	"testing"
	"time"

	"real-estate-be/pkg/assistant/intent"
	"real-estate-be/pkg/assistant/search"
	"real-estate-be/pkg/llm"
	"real-estate-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	chatFunc  func(ctx context.Context, history []llm.Message) (string, error)
	chatCalls int
}

func (s *stubProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	s.chatCalls++
	return s.chatFunc(ctx, history)
}

func (s *stubProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return "", errors.New("generate not scripted")
}

func newTestGenerator(provider llm.LLMProvider) *Generator {
	return NewGenerator(provider, 2, time.Millisecond, log.New(io.Discard, "", 0))
}

func searchIntent(location string) *intent.ResolvedIntent {
	resolved := intent.NewResolvedIntent(intent.IntentSearch)
	resolved.Location = location
	return resolved
}

func oneResult() search.Result {
	return search.Result{
		Count: 1,
		Posts: []search.Summary{{
			Title:        "2 Bedroom Apartment in Lekki",
			PropertyType: "apartment",
			Action:       "rent",
			Price:        3_500_000,
			Currency:     "NGN",
			City:         "Lagos",
			Bedrooms:     2,
			Bathrooms:    2,
		}},
	}
}

func TestGenerateParsesJSONPayload(t *testing.T) {
	provider := &stubProvider{
		chatFunc: func(ctx context.Context, history []llm.Message) (string, error) {
			return `{"reply": "I found a great apartment for you!", "suggestions": ["Show cheaper ones", "Houses instead"]}`, nil
		},
	}
	g := newTestGenerator(provider)

	out := g.Generate(context.Background(), "apartments in Lagos", nil, oneResult(), searchIntent("Lagos"))

	assert.Equal(t, "I found a great apartment for you!", out.Reply)
	assert.Equal(t, []string{"Show cheaper ones", "Houses instead"}, out.Suggestions)
	require.NotNil(t, out.SearchURL)
}

func TestGenerateAcceptsPlainTextReply(t *testing.T) {
	provider := &stubProvider{
		chatFunc: func(ctx context.Context, history []llm.Message) (string, error) {
			return "Hello! How can I help with your property search?", nil
		},
	}
	g := newTestGenerator(provider)

	out := g.Generate(context.Background(), "hello", nil, search.Result{}, intent.NewResolvedIntent(intent.IntentGreeting))

	assert.Equal(t, "Hello! How can I help with your property search?", out.Reply)
	assert.Nil(t, out.SearchURL)
}

func TestGenerateFallsBackWhenModelFails(t *testing.T) {
	provider := &stubProvider{
		chatFunc: func(ctx context.Context, history []llm.Message) (string, error) {
			return "", errors.New("model offline")
		},
	}
	g := newTestGenerator(provider)

	out := g.Generate(context.Background(), "hello", nil, search.Result{}, intent.NewResolvedIntent(intent.IntentGreeting))

	assert.Equal(t, FallbackOutput().Reply, out.Reply)
	assert.Nil(t, out.SearchURL)
	assert.Equal(t, 2, provider.chatCalls)
}

func TestGenerateFallbackCarriesNoURLDespiteResults(t *testing.T) {
	provider := &stubProvider{
		chatFunc: func(ctx context.Context, history []llm.Message) (string, error) {
			return "", errors.New("model offline")
		},
	}
	g := newTestGenerator(provider)

	out := g.Generate(context.Background(), "apartments in Lagos", nil, oneResult(), searchIntent("Lagos"))

	assert.Equal(t, FallbackOutput().Reply, out.Reply)
	assert.Nil(t, out.SearchURL, "degraded reply must not link a search it cannot describe")
}

func TestGenerateEmptyReplyFallsBackWithoutURL(t *testing.T) {
	provider := &stubProvider{
		chatFunc: func(ctx context.Context, history []llm.Message) (string, error) {
			return "   ", nil
		},
	}
	g := newTestGenerator(provider)

	out := g.Generate(context.Background(), "apartments in Lagos", nil, oneResult(), searchIntent("Lagos"))

	assert.Equal(t, FallbackOutput().Reply, out.Reply)
	assert.Nil(t, out.SearchURL)
}

func TestGenerateStripsModelProvidedURLForGreeting(t *testing.T) {
	provider := &stubProvider{
		chatFunc: func(ctx context.Context, history []llm.Message) (string, error) {
			return `{"reply": "Hi!", "search_url": "/search?city=Hallucinated"}`, nil
		},
	}
	g := newTestGenerator(provider)

	out := g.Generate(context.Background(), "hi", nil, search.Result{}, intent.NewResolvedIntent(intent.IntentGreeting))

	assert.Nil(t, out.SearchURL)
}

func TestGenerateRebuildsURLFromFilters(t *testing.T) {
	provider := &stubProvider{
		chatFunc: func(ctx context.Context, history []llm.Message) (string, error) {
			return `{"reply": "Here is what I found", "search_url": "/search?city=Hallucinated"}`, nil
		},
	}
	g := newTestGenerator(provider)

	resolved := searchIntent("Lagos")
	bedrooms := 2
	resolved.Bedrooms = &bedrooms
	resolved.Action = "buy"
	resolved.PropertyType = "apartment"

	out := g.Generate(context.Background(), "2 bed apartments to buy in Lagos", nil, oneResult(), resolved)

	require.NotNil(t, out.SearchURL)
	assert.True(t, strings.HasPrefix(*out.SearchURL, "/search?"))

	params, err := url.ParseQuery(strings.TrimPrefix(*out.SearchURL, "/search?"))
	require.NoError(t, err)
	assert.Equal(t, "Lagos", params.Get("city"))
	assert.Equal(t, "2", params.Get("bedroom"))
	assert.Equal(t, "apartment", params.Get("property_type"))
	assert.Equal(t, "sale", params.Get("action"), "intent says buy, listings say sale")
}

func TestGenerateNoURLWithoutResults(t *testing.T) {
	provider := &stubProvider{
		chatFunc: func(ctx context.Context, history []llm.Message) (string, error) {
			return `{"reply": "Nothing matched, try widening the search."}`, nil
		},
	}
	g := newTestGenerator(provider)

	out := g.Generate(context.Background(), "castles in Gwagwalada", nil, search.Result{}, searchIntent("Gwagwalada"))

	assert.Nil(t, out.SearchURL)
}

func TestGenerateReplaysRecentHistoryOnly(t *testing.T) {
	var captured []llm.Message
	provider := &stubProvider{
		chatFunc: func(ctx context.Context, history []llm.Message) (string, error) {
			captured = history
			return `{"reply": "ok"}`, nil
		},
	}
	g := newTestGenerator(provider)

	session := &store.Session{}
	for i := 0; i < 10; i++ {
		session.History = append(session.History, store.Turn{Role: store.RoleUser, Text: "old"})
	}

	g.Generate(context.Background(), "latest question", session, search.Result{}, intent.NewResolvedIntent(intent.IntentAdvice))

	// system prompt + capped history window + current message
	assert.Len(t, captured, 1+historyWindow+1)
	assert.Equal(t, "system", captured[0].Role)
	assert.Equal(t, "latest question", captured[len(captured)-1].Content)
}

func TestBuildSearchURLOmitsNeutralValues(t *testing.T) {
	resolved := intent.NewResolvedIntent(intent.IntentSearch)
	resolved.Location = "Lagos"

	u := BuildSearchURL(resolved)

	params, err := url.ParseQuery(strings.TrimPrefix(u, "/search?"))
	require.NoError(t, err)
	assert.Equal(t, "Lagos", params.Get("city"))
	assert.False(t, params.Has("property_type"))
	assert.False(t, params.Has("action"))
	assert.False(t, params.Has("bedroom"))
}

func TestSearchResultsAppearInPrompt(t *testing.T) {
	var captured []llm.Message
	provider := &stubProvider{
		chatFunc: func(ctx context.Context, history []llm.Message) (string, error) {
			captured = history
			return `{"reply": "ok"}`, nil
		},
	}
	g := newTestGenerator(provider)

	g.Generate(context.Background(), "apartments in Lagos", nil, oneResult(), searchIntent("Lagos"))

	require.NotEmpty(t, captured)
	assert.Contains(t, captured[0].Content, "FOUND: 1 listings")
	assert.Contains(t, captured[0].Content, "2 Bedroom Apartment in Lekki")
}
