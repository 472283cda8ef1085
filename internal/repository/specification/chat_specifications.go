package specification

import (
	"gorm.io/gorm"

	"github.com/google/uuid"
)

// ByParticipant matches chats where the user is either side of the
// conversation.
type ByParticipant struct {
	UserID uuid.UUID
}

func (s ByParticipant) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("owner_id = ? OR client_id = ?", s.UserID, s.UserID)
}

type ByChatID struct {
	ChatID uuid.UUID
}

func (s ByChatID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("chat_id = ?", s.ChatID)
}

type ByPostAndClient struct {
	PostID   uuid.UUID
	ClientID uuid.UUID
}

func (s ByPostAndClient) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("post_id = ? AND client_id = ?", s.PostID, s.ClientID)
}
