package dto

import "time"

type AssistantChatRequest struct {
	Message   string `json:"message"`
	SessionId string `json:"sessionId"`
}

// AssistantChatResponse is returned bare, not wrapped in the standard
// success envelope, so the frontend widget can consume it directly.
type AssistantChatResponse struct {
	Reply       string   `json:"reply"`
	SearchURL   *string  `json:"searchUrl"`
	Suggestions []string `json:"suggestions,omitempty"`
	SessionId   *string  `json:"sessionId"`
}

type ClearSessionRequest struct {
	SessionId string `json:"sessionId"`
}

type SessionPreferences struct {
	PropertyType string   `json:"propertyType,omitempty"`
	MinPrice     *float64 `json:"minPrice,omitempty"`
	MaxPrice     *float64 `json:"maxPrice,omitempty"`
	Bedrooms     *int     `json:"bedrooms,omitempty"`
	Locations    []string `json:"locations,omitempty"`
}

type SessionInfoResponse struct {
	CreatedAt    time.Time          `json:"createdAt"`
	LastActivity time.Time          `json:"lastActivity"`
	MessageCount int                `json:"messageCount"`
	Preferences  SessionPreferences `json:"preferences"`
}
