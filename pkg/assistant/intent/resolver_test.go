package intent

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"real-estate-be/pkg/llm"
	"real-estate-be/pkg/store"

	"github.com/stretchr/testify/assert"
)

// stubProvider scripts the model behind the resolver.
type stubProvider struct {
	generateFunc func(ctx context.Context, prompt string) (string, error)
	chatFunc     func(ctx context.Context, history []llm.Message) (string, error)
	generateCall int
}

func (s *stubProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	s.generateCall++
	return s.generateFunc(ctx, prompt)
}

func (s *stubProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	if s.chatFunc == nil {
		return "", errors.New("chat not scripted")
	}
	return s.chatFunc(ctx, history)
}

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestResolveClassifiesMessage(t *testing.T) {
	provider := &stubProvider{
		generateFunc: func(ctx context.Context, prompt string) (string, error) {
			return `{"intent": "search", "location": "Lagos", "property_type": "apartment", "bedrooms": 2, "action": "rent"}`, nil
		},
	}
	r := NewResolver(provider, 3, time.Millisecond, discardLogger())

	resolved, err := r.Resolve(context.Background(), "2 bedroom apartments for rent in Lagos", nil)

	assert.NoError(t, err)
	assert.Equal(t, IntentSearch, resolved.Intent)
	assert.Equal(t, "Lagos", resolved.Location)
	assert.Equal(t, "apartment", resolved.PropertyType)
	assert.Equal(t, "rent", resolved.Action)
	assert.Equal(t, 1, provider.generateCall)
}

func TestResolveRetriesTransientFailures(t *testing.T) {
	provider := &stubProvider{}
	provider.generateFunc = func(ctx context.Context, prompt string) (string, error) {
		if provider.generateCall < 2 {
			return "", errors.New("upstream timeout")
		}
		return `{"intent": "greeting"}`, nil
	}
	r := NewResolver(provider, 3, time.Millisecond, discardLogger())

	resolved, err := r.Resolve(context.Background(), "hello", nil)

	assert.NoError(t, err)
	assert.Equal(t, IntentGreeting, resolved.Intent)
	assert.Equal(t, 2, provider.generateCall)
}

func TestResolveSurfacesExhaustedRetries(t *testing.T) {
	provider := &stubProvider{
		generateFunc: func(ctx context.Context, prompt string) (string, error) {
			return "", errors.New("model offline")
		},
	}
	r := NewResolver(provider, 3, time.Millisecond, discardLogger())

	resolved, err := r.Resolve(context.Background(), "hello", nil)

	assert.Error(t, err)
	assert.Nil(t, resolved)
	assert.Equal(t, 3, provider.generateCall)
}

func TestResolveUnparseableReplyStillSucceeds(t *testing.T) {
	provider := &stubProvider{
		generateFunc: func(ctx context.Context, prompt string) (string, error) {
			return "I refuse to answer in JSON", nil
		},
	}
	r := NewResolver(provider, 3, time.Millisecond, discardLogger())

	resolved, err := r.Resolve(context.Background(), "hmm", nil)

	assert.NoError(t, err)
	assert.Equal(t, IntentGreeting, resolved.Intent)
}

func TestResolvePromptCarriesSessionState(t *testing.T) {
	var captured string
	provider := &stubProvider{
		generateFunc: func(ctx context.Context, prompt string) (string, error) {
			captured = prompt
			return `{"intent": "follow_up"}`, nil
		},
	}
	r := NewResolver(provider, 1, time.Millisecond, discardLogger())

	session := &store.Session{LastLocation: "Abuja", LastIntent: IntentSearch}
	_, err := r.Resolve(context.Background(), "cheaper ones?", session)

	assert.NoError(t, err)
	assert.Contains(t, captured, `PREVIOUS_LOCATION: "Abuja"`)
	assert.Contains(t, captured, "PREVIOUS_INTENT: search")
	assert.Contains(t, captured, "cheaper ones?")
}
