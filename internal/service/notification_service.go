package service

import (
	"context"
	"fmt"

	"morning-pulse-be/internal/constant"
	"morning-pulse-be/internal/dto"
	"morning-pulse-be/internal/entity"
	"morning-pulse-be/internal/pkg/logger"
	"morning-pulse-be/pkg/events"
	"morning-pulse-be/pkg/store"

	"github.com/google/uuid"
)

// FeedDelivery pushes live updates to feed readers. Implemented by the websocket hub.
type FeedDelivery interface {
	Broadcast(ctx context.Context, msg dto.FeedMessage) error
}

// EditorMailer tells the editorial inbox about new submissions.
type EditorMailer interface {
	SendOpinionSubmitted(toEmail string, opinion *entity.Opinion) error
}

// NotificationService turns domain events into feed pushes and editor mail.
type NotificationService struct {
	subscriber  EventSubscriber
	delivery    FeedDelivery
	mailer      EditorMailer
	editorInbox string
	logger      logger.ILogger
}

func NewNotificationService(sub EventSubscriber, delivery FeedDelivery, mailer EditorMailer, editorInbox string, log logger.ILogger) *NotificationService {
	return &NotificationService{
		subscriber:  sub,
		delivery:    delivery,
		mailer:      mailer,
		editorInbox: editorInbox,
		logger:      log,
	}
}

// Start attaches the durable consumers.
func (s *NotificationService) Start(ctx context.Context) error {
	subs := []struct {
		eventType string
		durable   string
		handler   events.Handler
	}{
		{events.TypeStoryPublished, constant.FeedStoryConsumer, s.handleStoryPublished},
		{events.TypeOpinionPublished, constant.FeedOpinionConsumer, s.handleOpinionPublished},
		{events.TypeOpinionSubmitted, constant.EditorMailConsumer, s.handleOpinionSubmitted},
	}
	for _, sub := range subs {
		if err := s.subscriber.Subscribe(ctx, sub.eventType, sub.durable, sub.handler); err != nil {
			return fmt.Errorf("subscribe %s: %w", sub.eventType, err)
		}
	}
	s.logger.Info(constant.ModuleNotifier, "Notification service started", nil)
	return nil
}

func (s *NotificationService) handleStoryPublished(ctx context.Context, event events.Event) error {
	var story store.Story
	if err := events.Decode(event, &story); err != nil {
		s.logger.Warn(constant.ModuleNotifier, "Dropping malformed story event", map[string]interface{}{"error": err.Error()})
		return nil
	}
	return s.delivery.Broadcast(ctx, dto.FeedMessage{Kind: constant.FeedKindStory, Story: &story})
}

func (s *NotificationService) handleOpinionPublished(ctx context.Context, event events.Event) error {
	var opinion store.Opinion
	if err := events.Decode(event, &opinion); err != nil {
		s.logger.Warn(constant.ModuleNotifier, "Dropping malformed opinion event", map[string]interface{}{"error": err.Error()})
		return nil
	}
	return s.delivery.Broadcast(ctx, dto.FeedMessage{Kind: constant.FeedKindOpinion, Opinion: &opinion})
}

func (s *NotificationService) handleOpinionSubmitted(_ context.Context, event events.Event) error {
	if s.mailer == nil || s.editorInbox == "" {
		return nil
	}

	var opinion store.Opinion
	if err := events.Decode(event, &opinion); err != nil {
		s.logger.Warn(constant.ModuleNotifier, "Dropping malformed submission event", map[string]interface{}{"error": err.Error()})
		return nil
	}

	id, _ := uuid.Parse(opinion.ID)
	err := s.mailer.SendOpinionSubmitted(s.editorInbox, &entity.Opinion{
		Id:          id,
		Headline:    opinion.Headline,
		SubHeadline: opinion.SubHeadline,
		AuthorName:  opinion.AuthorName,
		AuthorTitle: opinion.AuthorTitle,
		Category:    opinion.Category,
	})
	if err != nil {
		s.logger.Error(constant.ModuleNotifier, "Failed to mail editors", map[string]interface{}{
			"opinion_id": opinion.ID,
			"error":      err.Error(),
		})
	}
	return err
}
