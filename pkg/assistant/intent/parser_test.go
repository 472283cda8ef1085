package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name         string
		raw          string
		message      string
		wantIntent   string
		wantLocation string
		wantType     string
		wantAction   string
		wantBedrooms *int
	}{
		{
			name:         "valid JSON",
			raw:          `{"intent": "search", "location": "Lagos", "property_type": "apartment", "bedrooms": 2, "action": "rent"}`,
			message:      "2 bedroom apartments for rent in Lagos",
			wantIntent:   IntentSearch,
			wantLocation: "Lagos",
			wantType:     "apartment",
			wantAction:   "rent",
			wantBedrooms: intPtr(2),
		},
		{
			name:         "fenced JSON",
			raw:          "```json\n{\"intent\": \"advice\", \"location\": \"\", \"property_type\": \"any\", \"action\": \"buy\"}\n```",
			message:      "should I buy or rent?",
			wantIntent:   IntentAdvice,
			wantLocation: "",
			wantType:     PropertyAny,
			wantAction:   "buy",
		},
		{
			name:         "JSON with prose around it",
			raw:          "Sure, here is the classification: {\"intent\": \"follow_up\", \"location\": \"Abuja\"} hope that helps",
			message:      "what about there?",
			wantIntent:   IntentFollowUp,
			wantLocation: "Abuja",
			wantType:     PropertyAny,
			wantAction:   ActionAny,
		},
		{
			name:         "flat normalized to apartment",
			raw:          `{"intent": "search", "location": "Lagos", "property_type": "flat"}`,
			message:      "flats in Lagos",
			wantIntent:   IntentSearch,
			wantLocation: "Lagos",
			wantType:     "apartment",
			wantAction:   ActionAny,
		},
		{
			name:         "delimited pipe form",
			raw:          "search | Lagos",
			message:      "apartments in Lagos",
			wantIntent:   IntentSearch,
			wantLocation: "Lagos",
			wantType:     PropertyAny,
			wantAction:   ActionAny,
		},
		{
			name:         "delimited colon form with none location",
			raw:          "greeting: none",
			message:      "hi there",
			wantIntent:   IntentGreeting,
			wantLocation: "",
			wantType:     PropertyAny,
			wantAction:   ActionAny,
		},
		{
			name:         "keyword fallback on garbage reply",
			raw:          "I am sorry, I cannot classify that.",
			message:      "Looking for a 3 bedroom house for rent in Port Harcourt.",
			wantIntent:   IntentSearch,
			wantLocation: "Port Harcourt",
			wantType:     "house",
			wantAction:   "rent",
			wantBedrooms: intPtr(3),
		},
		{
			name:       "keyword fallback detects buy",
			raw:        "",
			message:    "I want to purchase some land",
			wantIntent: IntentSearch,
			wantType:   "land",
			wantAction: "buy",
		},
		{
			name:       "everything unusable defaults to greeting",
			raw:        "no structure here",
			message:    "tell me a joke",
			wantIntent: IntentGreeting,
			wantType:   PropertyAny,
			wantAction: ActionAny,
		},
		{
			name:       "invalid JSON intent falls through",
			raw:        `{"intent": "banana", "location": "Lagos"}`,
			message:    "hello",
			wantIntent: IntentGreeting,
			wantType:   PropertyAny,
			wantAction: ActionAny,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.raw, tt.message)

			assert.Equal(t, tt.wantIntent, got.Intent)
			assert.Equal(t, tt.wantLocation, got.Location)
			if tt.wantType != "" {
				assert.Equal(t, tt.wantType, got.PropertyType)
			}
			if tt.wantAction != "" {
				assert.Equal(t, tt.wantAction, got.Action)
			}
			if tt.wantBedrooms != nil {
				if assert.NotNil(t, got.Bedrooms) {
					assert.Equal(t, *tt.wantBedrooms, *got.Bedrooms)
				}
			}
		})
	}
}

func TestParseNeverReturnsNil(t *testing.T) {
	got := Parse("", "")
	assert.NotNil(t, got)
	assert.Equal(t, IntentGreeting, got.Intent)
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     string
	}{
		{
			name:     "bare object",
			response: `{"intent": "search"}`,
			want:     `{"intent": "search"}`,
		},
		{
			name:     "markdown fenced",
			response: "```json\n{\"intent\": \"search\"}\n```",
			want:     `{"intent": "search"}`,
		},
		{
			name:     "surrounded by prose",
			response: `Here you go: {"intent": "search"} done.`,
			want:     `{"intent": "search"}`,
		},
		{
			name:     "nested object",
			response: `{"a": {"b": 1}}`,
			want:     `{"a": {"b": 1}}`,
		},
		{
			name:     "braces inside strings",
			response: `{"reply": "use {curly} braces"}`,
			want:     `{"reply": "use {curly} braces"}`,
		},
		{
			name:     "no object",
			response: "plain text only",
			want:     "",
		},
		{
			name:     "unbalanced object",
			response: `{"intent": "search"`,
			want:     "",
		},
		{
			name:     "empty input",
			response: "",
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractJSON(tt.response))
		})
	}
}

func TestIsSearchLike(t *testing.T) {
	assert.True(t, NewResolvedIntent(IntentSearch).IsSearchLike())
	assert.True(t, NewResolvedIntent(IntentFollowUp).IsSearchLike())
	assert.False(t, NewResolvedIntent(IntentGreeting).IsSearchLike())
	assert.False(t, NewResolvedIntent(IntentAdvice).IsSearchLike())
	assert.False(t, NewResolvedIntent(IntentClarification).IsSearchLike())
}

func intPtr(n int) *int { return &n }
