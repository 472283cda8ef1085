package entity

import (
	"time"

	"github.com/google/uuid"
)

// Chat is a conversation between a prospect and a listing owner about a post.
type Chat struct {
	Id        uuid.UUID
	PostId    uuid.UUID
	OwnerId   uuid.UUID // listing owner
	ClientId  uuid.UUID // user who opened the chat
	CreatedAt time.Time
	UpdatedAt *time.Time
}

type Message struct {
	Id        uuid.UUID
	ChatId    uuid.UUID
	SenderId  uuid.UUID
	Text      string
	CreatedAt time.Time
}
