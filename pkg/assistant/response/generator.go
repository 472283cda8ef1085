package response

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"strings"
	"time"

	"real-estate-be/pkg/assistant/intent"
	"real-estate-be/pkg/assistant/search"
	"real-estate-be/pkg/llm"
	"real-estate-be/pkg/retry"
	"real-estate-be/pkg/store"
)

// Output is what the generator hands back to the assistant pipeline.
type Output struct {
	Reply       string
	SearchURL   *string
	Suggestions []string
}

// historyWindow limits how many prior turns are replayed into the prompt.
const historyWindow = 6

// FallbackOutput is the fixed degraded answer used when generation fails.
// The conversational endpoint never surfaces an error to the end user.
func FallbackOutput() Output {
	return Output{
		Reply: "Sorry, I'm having trouble answering right now. Could you try rephrasing, or ask me to search listings in a specific city?",
		Suggestions: []string{
			"2 bedroom apartments in Lagos",
			"Houses for sale in Abuja",
			"What should I check before renting?",
		},
	}
}

// Generator turns a resolved intent plus search results into the final
// assistant reply. Model output is never trusted for the search URL; that is
// rebuilt deterministically from the resolved filters.
type Generator struct {
	llmProvider llm.LLMProvider
	maxAttempts int
	baseDelay   time.Duration
	logger      *log.Logger
}

func NewGenerator(llmProvider llm.LLMProvider, maxAttempts int, baseDelay time.Duration, logger *log.Logger) *Generator {
	if maxAttempts < 1 {
		maxAttempts = 3
	}
	if baseDelay <= 0 {
		baseDelay = 500 * time.Millisecond
	}
	return &Generator{
		llmProvider: llmProvider,
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
		logger:      logger,
	}
}

type generatorPayload struct {
	Reply       string   `json:"reply"`
	SearchURL   *string  `json:"search_url"`
	Suggestions []string `json:"suggestions"`
}

// Generate produces the user-facing answer. Upstream failures after retry,
// and unparseable replies, both degrade to the fixed fallback output.
func (g *Generator) Generate(ctx context.Context, message string, session *store.Session, result search.Result, resolved *intent.ResolvedIntent) Output {
	history := g.buildHistory(message, session, result, resolved)

	raw, err := retry.Do(ctx, g.maxAttempts, g.baseDelay, func(ctx context.Context) (string, error) {
		return g.llmProvider.Chat(ctx, history, llm.WithTemperature(0.7))
	})
	if err != nil {
		g.logger.Printf("[ERROR] Response generation failed after %d attempts: %v", g.maxAttempts, err)
		// The degraded reply never carries a search URL, even when the
		// search itself succeeded.
		return FallbackOutput()
	}

	output, ok := g.parse(raw)
	if !ok {
		g.logger.Printf("[WARN] Unparseable generation output, using fallback (len=%d)", len(raw))
		return FallbackOutput()
	}

	return g.postProcess(output, result, resolved)
}

// parse accepts either a JSON payload or, failing that, treats the whole
// response as the reply text.
func (g *Generator) parse(raw string) (Output, bool) {
	if jsonStr := intent.ExtractJSON(raw); jsonStr != "" {
		var payload generatorPayload
		if err := json.Unmarshal([]byte(jsonStr), &payload); err == nil && strings.TrimSpace(payload.Reply) != "" {
			return Output{
				Reply:       strings.TrimSpace(payload.Reply),
				SearchURL:   payload.SearchURL,
				Suggestions: payload.Suggestions,
			}, true
		}
	}

	text := strings.TrimSpace(raw)
	if text == "" {
		return Output{}, false
	}
	return Output{Reply: text}, true
}

// postProcess enforces the URL invariants no matter what the model said.
func (g *Generator) postProcess(output Output, result search.Result, resolved *intent.ResolvedIntent) Output {
	if resolved == nil {
		output.SearchURL = nil
		return output
	}

	switch {
	case resolved.Intent == intent.IntentGreeting || resolved.Intent == intent.IntentAdvice:
		output.SearchURL = nil
	case resolved.IsSearchLike() && resolved.Location != "" && result.Count > 0:
		u := BuildSearchURL(resolved)
		output.SearchURL = &u
	default:
		output.SearchURL = nil
	}
	return output
}

// BuildSearchURL encodes the resolved filters as the frontend listing query
// string. Neutral filter values are omitted.
func BuildSearchURL(resolved *intent.ResolvedIntent) string {
	params := url.Values{}
	params.Set("city", resolved.Location)
	if resolved.PropertyType != "" && resolved.PropertyType != intent.PropertyAny {
		params.Set("property_type", resolved.PropertyType)
	}
	if resolved.Bedrooms != nil {
		params.Set("bedroom", strconv.Itoa(*resolved.Bedrooms))
	}
	if resolved.MinPrice != nil {
		params.Set("min_price", strconv.FormatFloat(*resolved.MinPrice, 'f', -1, 64))
	}
	if resolved.MaxPrice != nil {
		params.Set("max_price", strconv.FormatFloat(*resolved.MaxPrice, 'f', -1, 64))
	}
	if resolved.Action != "" && resolved.Action != intent.ActionAny {
		action := resolved.Action
		if action == "buy" {
			action = "sale"
		}
		params.Set("action", action)
	}
	return "/search?" + params.Encode()
}

func (g *Generator) buildHistory(message string, session *store.Session, result search.Result, resolved *intent.ResolvedIntent) []llm.Message {
	var system strings.Builder

	system.WriteString("<persona>\n")
	system.WriteString("You are a friendly real-estate assistant. You help people find property listings and answer questions about buying and renting.\n")
	system.WriteString("Keep replies short and conversational. Never invent listings that are not in the provided results.\n")
	system.WriteString("</persona>\n\n")

	if resolved != nil {
		system.WriteString("<resolved_intent>\n")
		system.WriteString(fmt.Sprintf("intent: %s\n", resolved.Intent))
		if resolved.Location != "" {
			system.WriteString(fmt.Sprintf("location: %s\n", resolved.Location))
		}
		if resolved.PropertyType != intent.PropertyAny {
			system.WriteString(fmt.Sprintf("property_type: %s\n", resolved.PropertyType))
		}
		if resolved.Action != intent.ActionAny {
			system.WriteString(fmt.Sprintf("action: %s\n", resolved.Action))
		}
		if resolved.Bedrooms != nil {
			system.WriteString(fmt.Sprintf("bedrooms: %d\n", *resolved.Bedrooms))
		}
		system.WriteString("</resolved_intent>\n\n")
	}

	if resolved != nil && resolved.IsSearchLike() {
		system.WriteString("<search_results>\n")
		if result.Count == 0 {
			system.WriteString("NO_RESULTS: Tell the user nothing matched and suggest widening the search.\n")
		} else {
			system.WriteString(fmt.Sprintf("FOUND: %d listings\n", result.Count))
			for _, p := range result.Posts {
				system.WriteString(listingLine(p))
				system.WriteString("\n")
			}
		}
		system.WriteString("</search_results>\n\n")
	}

	system.WriteString("<output_format>\n")
	system.WriteString("Respond with ONLY valid JSON:\n")
	system.WriteString("{\"reply\": \"your answer\", \"suggestions\": [\"up to 3 short follow-up queries\"]}\n")
	system.WriteString("</output_format>")

	history := []llm.Message{{Role: "system", Content: system.String()}}

	if session != nil {
		turns := session.History
		if len(turns) > historyWindow {
			turns = turns[len(turns)-historyWindow:]
		}
		for _, t := range turns {
			history = append(history, llm.Message{Role: t.Role, Content: t.Text})
		}
	}

	history = append(history, llm.Message{Role: "user", Content: message})
	return history
}

// listingLine renders one listing as a single compact prompt line.
func listingLine(p search.Summary) string {
	return fmt.Sprintf("- %s | %s for %s | %s %s | %d bed / %d bath | %s",
		p.Title, p.PropertyType, p.Action,
		p.Currency, strconv.FormatFloat(p.Price, 'f', -1, 64),
		p.Bedrooms, p.Bathrooms, p.City)
}
