package intent

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"real-estate-be/pkg/llm"
	"real-estate-be/pkg/retry"
	"real-estate-be/pkg/store"
)

// Resolver classifies a free-text message into an intent plus structured
// filters. The model call is retried with backoff; if every attempt fails
// the error is surfaced so the caller can apply its own terminal fallback.
// Parse failures never error: the strategy chain always yields an intent.
type Resolver struct {
	llmProvider llm.LLMProvider
	maxAttempts int
	baseDelay   time.Duration
	logger      *log.Logger
}

func NewResolver(llmProvider llm.LLMProvider, maxAttempts int, baseDelay time.Duration, logger *log.Logger) *Resolver {
	if maxAttempts < 1 {
		maxAttempts = 3
	}
	if baseDelay <= 0 {
		baseDelay = 500 * time.Millisecond
	}
	return &Resolver{
		llmProvider: llmProvider,
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
		logger:      logger,
	}
}

// Resolve analyzes the user message in the context of the session. This is
// a pure classification call: no database access.
func (r *Resolver) Resolve(ctx context.Context, message string, session *store.Session) (*ResolvedIntent, error) {
	prompt := r.buildPrompt(message, session)

	// Temperature 0 for deterministic classification.
	response, err := retry.Do(ctx, r.maxAttempts, r.baseDelay, func(ctx context.Context) (string, error) {
		return r.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.0))
	})
	if err != nil {
		r.logger.Printf("[ERROR] Intent resolution failed after %d attempts: %v", r.maxAttempts, err)
		return nil, fmt.Errorf("intent resolution: %w", err)
	}

	resolved := Parse(response, message)
	r.logger.Printf("[INTENT] Resolved: %s (location=%q type=%s action=%s)",
		resolved.Intent, resolved.Location, resolved.PropertyType, resolved.Action)
	return resolved, nil
}

func (r *Resolver) buildPrompt(message string, session *store.Session) string {
	var prompt strings.Builder

	prompt.WriteString("<system>\n")
	prompt.WriteString("You are an intent analyzer for a real-estate assistant. Your ONLY job is to classify what the user wants.\n")
	prompt.WriteString("You do NOT answer questions. You only classify intent and extract search filters.\n")
	prompt.WriteString("</system>\n\n")

	prompt.WriteString("<session_state>\n")
	if session != nil && session.LastLocation != "" {
		prompt.WriteString(fmt.Sprintf("PREVIOUS_LOCATION: %q\n", session.LastLocation))
		prompt.WriteString("If the user refers to \"there\" or gives no place, assume this location.\n")
	} else {
		prompt.WriteString("INITIAL_STATE: No prior location known.\n")
	}
	if session != nil && session.LastIntent != "" {
		prompt.WriteString(fmt.Sprintf("PREVIOUS_INTENT: %s\n", session.LastIntent))
	}
	prompt.WriteString("</session_state>\n\n")

	prompt.WriteString("<user_message>\n")
	prompt.WriteString(message)
	prompt.WriteString("\n</user_message>\n\n")

	prompt.WriteString("<intent_definitions>\n")
	prompt.WriteString("Choose ONE intent:\n\n")
	prompt.WriteString("search: User wants property listings (a place, a type, a budget, bedrooms)\n")
	prompt.WriteString("advice: User asks for guidance about buying/renting without wanting listings\n")
	prompt.WriteString("greeting: Small talk, hello, thanks, anything unrelated to property\n")
	prompt.WriteString("follow_up: User refines or continues a previous search ('cheaper ones', 'what about 3 bedrooms')\n")
	prompt.WriteString("clarification: The request is about property but too vague to act on\n")
	prompt.WriteString("</intent_definitions>\n\n")

	prompt.WriteString("<output_format>\n")
	prompt.WriteString("Respond with ONLY valid JSON:\n")
	prompt.WriteString("{\n")
	prompt.WriteString("  \"intent\": \"search|advice|greeting|follow_up|clarification\",\n")
	prompt.WriteString("  \"location\": \"place name or empty string\",\n")
	prompt.WriteString("  \"property_type\": \"apartment|house|condo|land|any\",\n")
	prompt.WriteString("  \"min_price\": null,\n")
	prompt.WriteString("  \"max_price\": null,\n")
	prompt.WriteString("  \"bedrooms\": null,\n")
	prompt.WriteString("  \"action\": \"buy|rent|any\"\n")
	prompt.WriteString("}\n")
	prompt.WriteString("</output_format>")

	return prompt.String()
}
