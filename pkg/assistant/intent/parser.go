package intent

import (
	"encoding/json"
	"regexp"
	"strings"
)

// parserFunc is one strategy in the fallback chain. raw is the model reply,
// message the original user text. A strategy returns false when it cannot
// produce a match, handing over to the next one.
type parserFunc func(raw, message string) (*ResolvedIntent, bool)

// parserChain is applied in order; first success wins.
var parserChain = []parserFunc{
	parseJSON,
	parseDelimited,
	parseKeywords,
}

// Parse turns a model reply into a ResolvedIntent, falling back through the
// strategy chain and ultimately to a plain greeting. It never fails.
func Parse(raw, message string) *ResolvedIntent {
	for _, parse := range parserChain {
		if resolved, ok := parse(raw, message); ok {
			return resolved
		}
	}
	return NewResolvedIntent(IntentGreeting)
}

// intentPayload is the JSON schema the resolver asks the model for.
type intentPayload struct {
	Intent       string   `json:"intent"`
	Location     string   `json:"location"`
	PropertyType string   `json:"property_type"`
	MinPrice     *float64 `json:"min_price"`
	MaxPrice     *float64 `json:"max_price"`
	Bedrooms     *int     `json:"bedrooms"`
	Action       string   `json:"action"`
}

func parseJSON(raw, _ string) (*ResolvedIntent, bool) {
	jsonContent := ExtractJSON(raw)
	if jsonContent == "" {
		return nil, false
	}

	var payload intentPayload
	if err := json.Unmarshal([]byte(jsonContent), &payload); err != nil {
		return nil, false
	}

	category := strings.ToLower(strings.TrimSpace(payload.Intent))
	if !validIntent(category) {
		return nil, false
	}

	resolved := NewResolvedIntent(category)
	resolved.Location = strings.TrimSpace(payload.Location)
	if t := normalizePropertyType(payload.PropertyType); t != "" {
		resolved.PropertyType = t
	}
	if a := strings.ToLower(strings.TrimSpace(payload.Action)); validAction(a) {
		resolved.Action = a
	}
	resolved.MinPrice = payload.MinPrice
	resolved.MaxPrice = payload.MaxPrice
	if payload.Bedrooms != nil && *payload.Bedrooms > 0 {
		resolved.Bedrooms = payload.Bedrooms
	}
	return resolved, true
}

// parseDelimited accepts the loose "intent|location" and "intent: location"
// conventions smaller models fall back to when asked for JSON.
func parseDelimited(raw, _ string) (*ResolvedIntent, bool) {
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var head, tail string
		switch {
		case strings.Contains(line, "|"):
			parts := strings.SplitN(line, "|", 2)
			head, tail = parts[0], parts[1]
		case strings.Contains(line, ":"):
			parts := strings.SplitN(line, ":", 2)
			head, tail = parts[0], parts[1]
		default:
			continue
		}

		category := strings.ToLower(strings.TrimSpace(head))
		if !validIntent(category) {
			continue
		}

		resolved := NewResolvedIntent(category)
		location := strings.TrimSpace(tail)
		if !strings.EqualFold(location, "none") && !strings.EqualFold(location, "null") {
			resolved.Location = location
		}
		return resolved, true
	}
	return nil, false
}

var (
	bedroomPattern  = regexp.MustCompile(`(?i)\b(\d+)[\s-]*(?:bed(?:room)?s?)\b`)
	locationPattern = regexp.MustCompile(`(?i)\b(?:in|at|near)\s+([a-zA-Z][a-zA-Z\s]*?)(?:[.,!?]|$)`)
)

// parseKeywords scans the raw user message for real-estate terms when the
// model reply was unusable in both structured forms.
func parseKeywords(_, message string) (*ResolvedIntent, bool) {
	lower := strings.ToLower(message)

	resolved := NewResolvedIntent(IntentSearch)
	matched := false

	switch {
	case strings.Contains(lower, "rent"), strings.Contains(lower, "lease"):
		resolved.Action = "rent"
		matched = true
	case strings.Contains(lower, "buy"), strings.Contains(lower, "purchase"), strings.Contains(lower, "sale"):
		resolved.Action = "buy"
		matched = true
	}

	for keyword, propertyType := range map[string]string{
		"apartment": "apartment",
		"flat":      "apartment",
		"house":     "house",
		"duplex":    "house",
		"condo":     "condo",
		"land":      "land",
		"plot":      "land",
	} {
		if strings.Contains(lower, keyword) {
			resolved.PropertyType = propertyType
			matched = true
			break
		}
	}

	if m := bedroomPattern.FindStringSubmatch(message); m != nil {
		if n := atoiSafe(m[1]); n > 0 {
			resolved.Bedrooms = &n
			matched = true
		}
	}

	if !matched {
		return nil, false
	}

	if m := locationPattern.FindStringSubmatch(message); m != nil {
		resolved.Location = strings.TrimSpace(m[1])
	}
	return resolved, true
}

func normalizePropertyType(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	switch t {
	case "flat":
		t = "apartment"
	case "duplex":
		t = "house"
	}
	if validPropertyType(t) {
		return t
	}
	return ""
}

func atoiSafe(s string) int {
	n := 0
	for _, ch := range s {
		if ch < '0' || ch > '9' {
			return 0
		}
		n = n*10 + int(ch-'0')
	}
	return n
}

// ExtractJSON locates a JSON object inside a model reply that may carry
// markdown fences or surrounding prose. Returns "" when no balanced object
// is found.
func ExtractJSON(response string) string {
	response = strings.TrimSpace(response)
	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")

	start := strings.Index(response, "{")
	if start == -1 {
		return ""
	}

	depth := 0
	inString := false
	escape := false
	for i := start; i < len(response); i++ {
		ch := response[i]
		if escape {
			escape = false
			continue
		}
		switch ch {
		case '\\':
			escape = true
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return response[start : i+1]
				}
			}
		}
	}
	return ""
}
