package unitofwork

import (
	"context"

	"real-estate-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	PostRepository() contract.PostRepository
	ChatRepository() contract.ChatRepository
	MessageRepository() contract.MessageRepository
}
