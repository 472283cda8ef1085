package service

import (
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"real-estate-be/internal/dto"
	"real-estate-be/pkg/assistant/intent"
	"real-estate-be/pkg/assistant/response"
	"real-estate-be/pkg/assistant/search"
	"real-estate-be/pkg/llm"
	"real-estate-be/pkg/store"

	"github.com/google/uuid"
)

var ErrEmptyMessage = errors.New("message must not be empty")
var ErrSessionNotFound = errors.New("session not found")

// ClearedReply is the fixed greeting returned after a session is cleared.
const ClearedReply = "Alright, I've started a fresh conversation. What kind of property are you looking for?"

type IAssistantService interface {
	Chat(ctx context.Context, req *dto.AssistantChatRequest) (*dto.AssistantChatResponse, error)
	ClearSession(ctx context.Context, req *dto.ClearSessionRequest) *dto.AssistantChatResponse
	DescribeSession(ctx context.Context, sessionId string) (*dto.SessionInfoResponse, error)
}

// assistantService coordinates the two-stage pipeline: resolve the intent
// first, search listings if warranted, then generate the reply. Downstream
// failures degrade to the fixed fallback; the conversational path never
// errors out past input validation.
type assistantService struct {
	sessions  store.SessionStore
	resolver  *intent.Resolver
	adapter   *search.Adapter
	generator *response.Generator
	llmLogger *log.Logger
}

func NewAssistantService(
	sessions store.SessionStore,
	llmProvider llm.LLMProvider,
	adapter *search.Adapter,
	maxAttempts int,
	baseDelay time.Duration,
) IAssistantService {
	llmLogger := initLLMLogger()

	return &assistantService{
		sessions:  sessions,
		resolver:  intent.NewResolver(llmProvider, maxAttempts, baseDelay, llmLogger),
		adapter:   adapter,
		generator: response.NewGenerator(llmProvider, maxAttempts, baseDelay, llmLogger),
		llmLogger: llmLogger,
	}
}

func initLLMLogger() *log.Logger {
	logPath := filepath.Join(".", "logs", "llm_assistant.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		log.Printf("Failed to create logs directory: %v", err)
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return log.New(os.Stdout, "[LLM-ASSISTANT] ", log.LstdFlags)
	}
	return log.New(file, "", log.LstdFlags)
}

func (s *assistantService) Chat(ctx context.Context, req *dto.AssistantChatRequest) (*dto.AssistantChatResponse, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, ErrEmptyMessage
	}

	sessionId := req.SessionId
	if sessionId == "" {
		sessionId = uuid.New().String()
	}
	session := s.sessions.GetOrCreate(sessionId)

	resolved, err := s.resolver.Resolve(ctx, message, session)
	if err != nil {
		// Resolver exhausted its retries. Degrade, but still record the turn.
		out := response.FallbackOutput()
		s.recordTurn(sessionId, message, out.Reply, nil)
		return s.toResponse(out, sessionId), nil
	}

	// Follow-ups inherit the previous location when the message named none.
	if resolved.IsSearchLike() && resolved.Location == "" && session.LastLocation != "" {
		resolved.Location = session.LastLocation
	}

	var result search.Result
	if resolved.IsSearchLike() {
		result = s.adapter.Search(ctx, search.FiltersFromIntent(resolved))
	}

	out := s.generator.Generate(ctx, message, session, result, resolved)

	s.recordTurn(sessionId, message, out.Reply, resolved)
	return s.toResponse(out, sessionId), nil
}

func (s *assistantService) ClearSession(ctx context.Context, req *dto.ClearSessionRequest) *dto.AssistantChatResponse {
	if req.SessionId != "" {
		s.sessions.Clear(req.SessionId)
	}
	return &dto.AssistantChatResponse{
		Reply:     ClearedReply,
		SearchURL: nil,
		SessionId: nil,
	}
}

func (s *assistantService) DescribeSession(ctx context.Context, sessionId string) (*dto.SessionInfoResponse, error) {
	info, ok := s.sessions.Describe(sessionId)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return &dto.SessionInfoResponse{
		CreatedAt:    info.CreatedAt,
		LastActivity: info.LastActivity,
		MessageCount: info.MessageCount,
		Preferences: dto.SessionPreferences{
			PropertyType: info.Preferences.PropertyType,
			MinPrice:     info.Preferences.MinPrice,
			MaxPrice:     info.Preferences.MaxPrice,
			Bedrooms:     info.Preferences.Bedrooms,
			Locations:    info.Preferences.Locations,
		},
	}, nil
}

func (s *assistantService) recordTurn(sessionId, userMessage, reply string, resolved *intent.ResolvedIntent) {
	update := store.SessionUpdate{
		Turns: []store.Turn{
			{Role: store.RoleUser, Text: userMessage},
			{Role: store.RoleAssistant, Text: reply},
		},
	}
	if resolved != nil {
		update.Intent = resolved.Intent
		update.Location = resolved.Location

		prefs := store.Preferences{
			MinPrice: resolved.MinPrice,
			MaxPrice: resolved.MaxPrice,
			Bedrooms: resolved.Bedrooms,
		}
		if resolved.PropertyType != intent.PropertyAny {
			prefs.PropertyType = resolved.PropertyType
		}
		if resolved.Location != "" {
			prefs.Locations = []string{resolved.Location}
		}
		update.Preferences = &prefs
	}
	s.sessions.Update(sessionId, update)
}

func (s *assistantService) toResponse(out response.Output, sessionId string) *dto.AssistantChatResponse {
	id := sessionId
	return &dto.AssistantChatResponse{
		Reply:       out.Reply,
		SearchURL:   out.SearchURL,
		Suggestions: out.Suggestions,
		SessionId:   &id,
	}
}
