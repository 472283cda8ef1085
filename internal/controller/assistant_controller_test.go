package controller

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"real-estate-be/internal/dto"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type assistantServiceStub struct{}

func (s *assistantServiceStub) Chat(ctx context.Context, req *dto.AssistantChatRequest) (*dto.AssistantChatResponse, error) {
	id := "session-1"
	return &dto.AssistantChatResponse{Reply: "Hi!", SessionId: &id}, nil
}

func (s *assistantServiceStub) ClearSession(ctx context.Context, req *dto.ClearSessionRequest) *dto.AssistantChatResponse {
	return &dto.AssistantChatResponse{Reply: "cleared"}
}

func (s *assistantServiceStub) DescribeSession(ctx context.Context, sessionId string) (*dto.SessionInfoResponse, error) {
	return &dto.SessionInfoResponse{MessageCount: 2}, nil
}

func newAssistantApp() *fiber.App {
	app := fiber.New()
	NewAssistantController(&assistantServiceStub{}).RegisterRoutes(app.Group("/api"))
	return app
}

func signTestToken(t *testing.T, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "11111111-1111-1111-1111-111111111111",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestAssistantRoutesRequireToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test_secret")
	app := newAssistantApp()

	for _, tc := range []struct {
		method string
		path   string
		body   string
	}{
		{"POST", "/api/assistant/v1/chat", `{"message": "hello"}`},
		{"POST", "/api/assistant/v1/session/clear", `{"sessionId": "abc"}`},
		{"GET", "/api/assistant/v1/session/abc", ""},
	} {
		req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, "%s %s without a token", tc.method, tc.path)
	}
}

func TestAssistantRoutesRejectBadToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test_secret")
	app := newAssistantApp()

	req := httptest.NewRequest("POST", "/api/assistant/v1/chat", strings.NewReader(`{"message": "hello"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, "wrong_secret"))

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAssistantChatWithValidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test_secret")
	app := newAssistantApp()

	req := httptest.NewRequest("POST", "/api/assistant/v1/chat", strings.NewReader(`{"message": "hello"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, "test_secret"))

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
