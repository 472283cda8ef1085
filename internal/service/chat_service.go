package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"real-estate-be/internal/dto"
	"real-estate-be/internal/entity"
	"real-estate-be/internal/repository/specification"
	"real-estate-be/internal/repository/unitofwork"
	"real-estate-be/pkg/events"
	pktNats "real-estate-be/pkg/nats"

	"github.com/google/uuid"
)

type IChatService interface {
	CreateChat(ctx context.Context, userId uuid.UUID, req *dto.CreateChatRequest) (*dto.CreateChatResponse, error)
	ListChats(ctx context.Context, userId uuid.UUID) ([]dto.ChatResponse, error)
	SendMessage(ctx context.Context, userId uuid.UUID, req *dto.SendMessageRequest) (*dto.MessageResponse, error)
	ListMessages(ctx context.Context, userId, chatId uuid.UUID) ([]dto.MessageResponse, error)
}

type chatService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher *pktNats.Publisher
}

func NewChatService(uowFactory unitofwork.RepositoryFactory, eventPublisher *pktNats.Publisher) IChatService {
	return &chatService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
	}
}

func (s *chatService) CreateChat(ctx context.Context, userId uuid.UUID, req *dto.CreateChatRequest) (*dto.CreateChatResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	post, err := uow.PostRepository().FindOne(ctx, specification.ByID{ID: req.PostId})
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, errors.New("post not found")
	}
	if post.UserId == userId {
		return nil, errors.New("cannot open a chat on your own post")
	}

	// One chat per (post, client): hand back the existing one
	existing, err := uow.ChatRepository().FindOne(ctx, specification.ByPostAndClient{PostID: req.PostId, ClientID: userId})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &dto.CreateChatResponse{Id: existing.Id, Existing: true}, nil
	}

	chat := &entity.Chat{
		Id:        uuid.New(),
		PostId:    req.PostId,
		OwnerId:   post.UserId,
		ClientId:  userId,
		CreatedAt: time.Now(),
	}
	if err := uow.ChatRepository().Create(ctx, chat); err != nil {
		return nil, err
	}

	return &dto.CreateChatResponse{Id: chat.Id}, nil
}

func (s *chatService) ListChats(ctx context.Context, userId uuid.UUID) ([]dto.ChatResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	chats, err := uow.ChatRepository().FindAll(ctx,
		specification.ByParticipant{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]dto.ChatResponse, 0, len(chats))
	for _, c := range chats {
		res = append(res, dto.ChatResponse{
			Id:        c.Id,
			PostId:    c.PostId,
			OwnerId:   c.OwnerId,
			ClientId:  c.ClientId,
			CreatedAt: c.CreatedAt,
		})
	}
	return res, nil
}

func (s *chatService) SendMessage(ctx context.Context, userId uuid.UUID, req *dto.SendMessageRequest) (*dto.MessageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	chat, err := s.participantChat(ctx, uow, userId, req.ChatId)
	if err != nil {
		return nil, err
	}

	msg := &entity.Message{
		Id:        uuid.New(),
		ChatId:    chat.Id,
		SenderId:  userId,
		Text:      req.Text,
		CreatedAt: time.Now(),
	}
	if err := uow.MessageRepository().Create(ctx, msg); err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		evt := events.New(events.MessageSent, map[string]interface{}{
			"chat_id":   chat.Id,
			"sender_id": userId,
		})
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("[WARN] Failed to publish MESSAGE_SENT event: %v\n", err)
		}
	}

	return &dto.MessageResponse{
		Id:        msg.Id,
		ChatId:    msg.ChatId,
		SenderId:  msg.SenderId,
		Text:      msg.Text,
		CreatedAt: msg.CreatedAt,
	}, nil
}

func (s *chatService) ListMessages(ctx context.Context, userId, chatId uuid.UUID) ([]dto.MessageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if _, err := s.participantChat(ctx, uow, userId, chatId); err != nil {
		return nil, err
	}

	messages, err := uow.MessageRepository().FindAll(ctx,
		specification.ByChatID{ChatID: chatId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	res := make([]dto.MessageResponse, 0, len(messages))
	for _, m := range messages {
		res = append(res, dto.MessageResponse{
			Id:        m.Id,
			ChatId:    m.ChatId,
			SenderId:  m.SenderId,
			Text:      m.Text,
			CreatedAt: m.CreatedAt,
		})
	}
	return res, nil
}

// participantChat loads the chat and verifies the user is one of its two
// sides.
func (s *chatService) participantChat(ctx context.Context, uow unitofwork.UnitOfWork, userId, chatId uuid.UUID) (*entity.Chat, error) {
	chat, err := uow.ChatRepository().FindOne(ctx, specification.ByID{ID: chatId})
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, errors.New("chat not found")
	}
	if chat.OwnerId != userId && chat.ClientId != userId {
		return nil, errors.New("not a participant of this chat")
	}
	return chat, nil
}
