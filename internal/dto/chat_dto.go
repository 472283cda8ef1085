package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateChatRequest struct {
	PostId uuid.UUID `json:"post_id" validate:"required"`
}

type CreateChatResponse struct {
	Id       uuid.UUID `json:"id"`
	Existing bool      `json:"existing"`
}

type ChatResponse struct {
	Id        uuid.UUID `json:"id"`
	PostId    uuid.UUID `json:"post_id"`
	OwnerId   uuid.UUID `json:"owner_id"`
	ClientId  uuid.UUID `json:"client_id"`
	CreatedAt time.Time `json:"created_at"`
}

type SendMessageRequest struct {
	ChatId uuid.UUID
	Text   string `json:"text" validate:"required,min=1,max=4000"`
}

type MessageResponse struct {
	Id        uuid.UUID `json:"id"`
	ChatId    uuid.UUID `json:"chat_id"`
	SenderId  uuid.UUID `json:"sender_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
