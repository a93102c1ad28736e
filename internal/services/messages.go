package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/anonto42/proconnect/backend/internal/models"
	"github.com/anonto42/proconnect/backend/internal/repositories"
	"go.uber.org/zap"
)

// MessageService handles direct messages between any two accounts.
type MessageService struct {
	messages  repositories.MessageRepository
	directory *AccountDirectory
	notifier  *NotificationService
	effects   *SideEffects
	logger    *zap.Logger
}

func NewMessageService(messages repositories.MessageRepository, directory *AccountDirectory, notifier *NotificationService, effects *SideEffects, logger *zap.Logger) *MessageService {
	return &MessageService{messages: messages, directory: directory, notifier: notifier, effects: effects, logger: logger}
}

func (s *MessageService) SendMessage(ctx context.Context, sender models.AccountRef, req models.SendMessageRequest) (*models.Message, error) {
	receiver := models.AccountRef{ID: req.ReceiverID, Type: req.ReceiverType}
	if !receiver.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown receiver type", ErrValidation)
	}
	if receiver == sender {
		return nil, ErrSelfAction
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", ErrValidation)
	}
	if err := s.directory.Exists(ctx, receiver); err != nil {
		return nil, err
	}

	msg := &models.Message{
		Sender:      sender,
		Receiver:    receiver,
		Content:     content,
		Attachments: req.Attachments,
	}
	if err := s.messages.CreateMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}

	s.effects.Run(ctx, "notify message", func(ctx context.Context) error {
		_, err := s.notifier.Notify(ctx, receiver, sender, models.NotificationMessage,
			models.EntityRef{ID: msg.ID.Hex(), Type: models.EntityMessage})
		return err
	}, zap.String("message_id", msg.ID.Hex()))
	return msg, nil
}

// GetConversation pages through the messages between actor and other,
// newest first.
func (s *MessageService) GetConversation(ctx context.Context, actor, other models.AccountRef, page models.Page) ([]models.Message, models.Pagination, error) {
	key := models.ConversationKey(actor, other)
	messages, err := s.messages.ListConversation(ctx, key, page.Skip(), int64(page.Limit))
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("list conversation: %w", err)
	}
	total, err := s.messages.CountConversation(ctx, key)
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("count conversation: %w", err)
	}
	return messages, models.NewPagination(page, total), nil
}

// ListConversations is the inbox: one row per counterpart, latest first.
func (s *MessageService) ListConversations(ctx context.Context, actor models.AccountRef) ([]models.ConversationSummary, error) {
	summaries, err := s.messages.ListConversations(ctx, actor)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	for i := range summaries {
		last := summaries[i].LastMessage
		other := last.Sender
		if other == actor {
			other = last.Receiver
		}
		summaries[i].Counterpart = s.directory.SummaryOrStub(ctx, other)
	}
	return summaries, nil
}

func (s *MessageService) MarkConversationRead(ctx context.Context, actor, other models.AccountRef) (int64, error) {
	return s.messages.MarkConversationRead(ctx, models.ConversationKey(actor, other), actor)
}

func (s *MessageService) UnreadMessagesCount(ctx context.Context, actor models.AccountRef) (int64, error) {
	return s.messages.CountUnread(ctx, actor)
}
