package intent

// Intent categories the resolver can produce.
const (
	IntentSearch        = "search"
	IntentAdvice        = "advice"
	IntentGreeting      = "greeting"
	IntentFollowUp      = "follow_up"
	IntentClarification = "clarification"
)

// Neutral filter values.
const (
	PropertyAny = "any"
	ActionAny   = "any"
)

// ResolvedIntent is the structured reading of one user message. Every field
// carries a safe neutral value when nothing was extracted; no field is ever
// left undefined.
type ResolvedIntent struct {
	Intent       string   `json:"intent"`
	Location     string   `json:"location,omitempty"`
	PropertyType string   `json:"property_type"`
	MinPrice     *float64 `json:"min_price,omitempty"`
	MaxPrice     *float64 `json:"max_price,omitempty"`
	Bedrooms     *int     `json:"bedrooms,omitempty"`
	Action       string   `json:"action"`
}

// NewResolvedIntent returns an intent with all fields at their neutral
// defaults.
func NewResolvedIntent(category string) *ResolvedIntent {
	return &ResolvedIntent{
		Intent:       category,
		PropertyType: PropertyAny,
		Action:       ActionAny,
	}
}

// IsSearchLike reports whether the intent should trigger a listing search.
func (r *ResolvedIntent) IsSearchLike() bool {
	return r.Intent == IntentSearch || r.Intent == IntentFollowUp
}

func validIntent(category string) bool {
	switch category {
	case IntentSearch, IntentAdvice, IntentGreeting, IntentFollowUp, IntentClarification:
		return true
	}
	return false
}

func validPropertyType(t string) bool {
	switch t {
	case "apartment", "house", "condo", "land", PropertyAny:
		return true
	}
	return false
}

func validAction(a string) bool {
	switch a {
	case "buy", "rent", ActionAny:
		return true
	}
	return false
}
