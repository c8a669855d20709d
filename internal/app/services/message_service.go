package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/learncircle/internal/app/models"
	"github.com/yigit/learncircle/internal/app/models/dto"
	"github.com/yigit/learncircle/internal/app/repositories"
)

// MessagePublisher pushes a posted message to live subscribers of a circle
type MessagePublisher interface {
	Publish(circleID int64, payload interface{}) error
}

// MessageService defines circle chat operations
type MessageService interface {
	ListByCircle(ctx context.Context, circleID int64) ([]dto.AuthoredTextResponse, error)
	PostMessage(ctx context.Context, circleID int64, req *dto.CreateMessageRequest) (*dto.PostedResponse, error)
}

type messageServiceImpl struct {
	messageRepo repositories.IMessageRepository
	circleRepo  repositories.ICircleRepository
	publisher   MessagePublisher
	logger      zerolog.Logger
}

// NewMessageService creates a new MessageService. publisher may be nil.
func NewMessageService(
	messageRepo repositories.IMessageRepository,
	circleRepo repositories.ICircleRepository,
	publisher MessagePublisher,
	logger zerolog.Logger,
) MessageService {
	return &messageServiceImpl{
		messageRepo: messageRepo,
		circleRepo:  circleRepo,
		publisher:   publisher,
		logger:      logger,
	}
}

func (s *messageServiceImpl) ListByCircle(ctx context.Context, circleID int64) ([]dto.AuthoredTextResponse, error) {
	if _, err := s.circleRepo.GetByID(ctx, circleID); err != nil {
		return nil, err
	}
	messages, err := s.messageRepo.ListByCircle(ctx, circleID)
	if err != nil {
		return nil, err
	}
	return dto.ToMessageList(messages), nil
}

func (s *messageServiceImpl) PostMessage(ctx context.Context, circleID int64, req *dto.CreateMessageRequest) (*dto.PostedResponse, error) {
	if _, err := s.circleRepo.GetByID(ctx, circleID); err != nil {
		return nil, err
	}

	message := &models.Message{
		Text:     req.Text,
		UserID:   req.UserID,
		CircleID: circleID,
	}
	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, referenceError(err, fmt.Sprintf("user_id %d does not exist", req.UserID))
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(circleID, dto.NewCircleMessageEvent(message)); err != nil {
			s.logger.Warn().Err(err).Int64("circleID", circleID).Msg("Failed to broadcast message")
		}
	}

	resp := dto.ToMessagePosted(message)
	return &resp, nil
}
