package service

import (
	"context"
	"encoding/json"
	"time"

	"morning-pulse-be/internal/constant"
	"morning-pulse-be/internal/dto"
	"morning-pulse-be/internal/entity"
	"morning-pulse-be/internal/pkg/logger"
	"morning-pulse-be/internal/repository/specification"
	"morning-pulse-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

type IArchiveService interface {
	// Publish hands an answered question to the archive topic.
	Publish(payload dto.AskArchivedMessage) error
	Consume(ctx context.Context) error
	// SessionLog returns the archived exchanges of one session, oldest first.
	SessionLog(ctx context.Context, sessionId string) ([]*entity.AskLog, error)
}

type archiveService struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewArchiveService(
	publisher message.Publisher,
	subscriber message.Subscriber,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	logger logger.ILogger,
) IArchiveService {
	return &archiveService{
		publisher:  publisher,
		subscriber: subscriber,
		topicName:  topicName,
		uowFactory: uowFactory,
		logger:     logger,
	}
}

func (s *archiveService) Publish(payload dto.AskArchivedMessage) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return s.publisher.Publish(s.topicName, message.NewMessage(watermill.NewUUID(), body))
}

func (s *archiveService) SessionLog(ctx context.Context, sessionId string) ([]*entity.AskLog, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.AskLogRepository().FindAll(ctx, specification.AskLogsInSession{SessionID: sessionId})
}

func (s *archiveService) Consume(ctx context.Context) error {
	messages, err := s.subscriber.Subscribe(ctx, s.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (s *archiveService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.AskArchivedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		s.logger.Error(constant.ModuleArchive, "Failed to unmarshal archive message", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		// a broken payload never decodes on redelivery
		msg.Ack()
		return
	}

	answeredAt := payload.AnsweredAt
	if answeredAt.IsZero() {
		answeredAt = time.Now()
	}

	askLog := &entity.AskLog{
		Id:            uuid.New(),
		SessionId:     payload.SessionId,
		Question:      payload.Question,
		Answer:        payload.Answer,
		Sources:       payload.Sources,
		StoryIds:      payload.StoryIds,
		Streamed:      payload.Streamed,
		Truncated:     payload.Truncated,
		Failed:        payload.Failed,
		FailureReason: payload.FailureReason,
		DurationMs:    payload.DurationMs,
		CreatedAt:     answeredAt,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.AskLogRepository().Create(ctx, askLog); err != nil {
		s.logger.Error(constant.ModuleArchive, "Failed to persist ask log", map[string]interface{}{
			"session_id": payload.SessionId,
			"error":      err.Error(),
		})
		msg.Nack()
		return
	}

	s.logger.Debug(constant.ModuleArchive, "Ask log stored", map[string]interface{}{
		"id":         askLog.Id.String(),
		"session_id": payload.SessionId,
		"failed":     payload.Failed,
	})
	msg.Ack()
}
