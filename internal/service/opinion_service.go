package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"morning-pulse-be/internal/constant"
	"morning-pulse-be/internal/dto"
	"morning-pulse-be/internal/entity"
	"morning-pulse-be/internal/mapper"
	"morning-pulse-be/internal/pkg/logger"
	"morning-pulse-be/internal/repository/memory"
	"morning-pulse-be/internal/repository/specification"
	"morning-pulse-be/internal/repository/unitofwork"
	"morning-pulse-be/pkg/events"
	"morning-pulse-be/pkg/store"

	"github.com/google/uuid"
)

var (
	ErrOpinionNotFound   = errors.New("opinion not found")
	ErrInvalidTransition = errors.New("opinion has already been reviewed")
)

type IOpinionService interface {
	Submit(ctx context.Context, req *dto.SubmitOpinionRequest) (*dto.OpinionReviewResponse, error)
	Published(ctx context.Context, limit int) ([]store.Opinion, error)
	Pending(ctx context.Context) ([]*dto.OpinionReviewResponse, error)
	Publish(ctx context.Context, editorId, id uuid.UUID) (*dto.OpinionReviewResponse, error)
	Reject(ctx context.Context, editorId, id uuid.UUID, reason string) (*dto.OpinionReviewResponse, error)
}

// OpinionNotifier tells authors about editorial decisions. mailer.IEmailService satisfies it.
type OpinionNotifier interface {
	SendOpinionDecision(opinion *entity.Opinion) error
}

type opinionService struct {
	uowFactory unitofwork.RepositoryFactory
	cache      *memory.CorpusCache
	publisher  EventPublisher
	notifier   OpinionNotifier
	mapper     *mapper.OpinionMapper
	logger     logger.ILogger
	now        func() time.Time
}

func NewOpinionService(
	uowFactory unitofwork.RepositoryFactory,
	cache *memory.CorpusCache,
	publisher EventPublisher,
	notifier OpinionNotifier,
	logger logger.ILogger,
) IOpinionService {
	return &opinionService{
		uowFactory: uowFactory,
		cache:      cache,
		publisher:  publisher,
		notifier:   notifier,
		mapper:     mapper.NewOpinionMapper(),
		logger:     logger,
		now:        time.Now,
	}
}

func (s *opinionService) Submit(ctx context.Context, req *dto.SubmitOpinionRequest) (*dto.OpinionReviewResponse, error) {
	now := s.now()
	opinion := &entity.Opinion{
		Id:          uuid.New(),
		Headline:    strings.TrimSpace(req.Headline),
		SubHeadline: strings.TrimSpace(req.SubHeadline),
		Body:        strings.TrimSpace(req.Body),
		AuthorName:  strings.TrimSpace(req.AuthorName),
		AuthorTitle: strings.TrimSpace(req.AuthorTitle),
		AuthorEmail: strings.TrimSpace(req.AuthorEmail),
		Category:    strings.TrimSpace(req.Category),
		Status:      entity.OpinionStatusPending,
		SubmittedAt: now,
		CreatedAt:   now,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.OpinionRepository().Create(ctx, opinion); err != nil {
		return nil, err
	}

	s.emit(ctx, events.NewOpinionSubmitted(s.mapper.ToDomain(opinion), now), opinion.Id)
	s.logger.Info(constant.ModuleOpinion, "Opinion submitted", map[string]interface{}{
		"opinion_id": opinion.Id.String(),
		"author":     opinion.AuthorName,
	})
	return toReviewResponse(opinion), nil
}

func (s *opinionService) Published(ctx context.Context, limit int) ([]store.Opinion, error) {
	if limit <= 0 {
		limit = constant.OpinionsDefaultLimit
	}
	if cached, ok := s.cache.Opinions(); ok {
		if len(cached) > limit {
			cached = cached[:limit]
		}
		return cached, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	opinions, err := uow.OpinionRepository().FindAll(ctx,
		specification.OpinionsWithStatus{Status: string(entity.OpinionStatusPublished)},
		specification.LatestPublishedOrder{},
		specification.Pagination{Limit: limit},
	)
	if err != nil {
		return nil, err
	}

	result := s.mapper.ToDomains(opinions)
	if len(result) < limit {
		// the full published set fits, so it can serve any smaller limit too
		s.cache.SetOpinions(result)
	}
	return result, nil
}

func (s *opinionService) Pending(ctx context.Context) ([]*dto.OpinionReviewResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	opinions, err := uow.OpinionRepository().FindAll(ctx,
		specification.OpinionsWithStatus{Status: string(entity.OpinionStatusPending)},
		specification.ReviewQueueOrder{},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.OpinionReviewResponse, 0, len(opinions))
	for _, o := range opinions {
		result = append(result, toReviewResponse(o))
	}
	return result, nil
}

func (s *opinionService) Publish(ctx context.Context, editorId, id uuid.UUID) (*dto.OpinionReviewResponse, error) {
	opinion, err := s.review(ctx, editorId, id, entity.OpinionStatusPublished, "")
	if err != nil {
		return nil, err
	}
	s.emit(ctx, events.NewOpinionPublished(s.mapper.ToDomain(opinion), *opinion.PublishedAt), opinion.Id)
	return toReviewResponse(opinion), nil
}

func (s *opinionService) Reject(ctx context.Context, editorId, id uuid.UUID, reason string) (*dto.OpinionReviewResponse, error) {
	opinion, err := s.review(ctx, editorId, id, entity.OpinionStatusRejected, strings.TrimSpace(reason))
	if err != nil {
		return nil, err
	}
	return toReviewResponse(opinion), nil
}

func (s *opinionService) review(ctx context.Context, editorId, id uuid.UUID, next entity.OpinionStatus, reason string) (*entity.Opinion, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	opinion, err := uow.OpinionRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if opinion == nil {
		return nil, ErrOpinionNotFound
	}
	if !opinion.CanTransitionTo(next) {
		return nil, ErrInvalidTransition
	}

	now := s.now()
	opinion.Status = next
	opinion.ReviewedBy = &editorId
	opinion.UpdatedAt = &now
	if next == entity.OpinionStatusPublished {
		opinion.PublishedAt = &now
	} else {
		opinion.RejectionReason = reason
	}

	if err := uow.OpinionRepository().Update(ctx, opinion); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}
	s.cache.Invalidate()

	if s.notifier != nil {
		if err := s.notifier.SendOpinionDecision(opinion); err != nil {
			s.logger.Warn(constant.ModuleOpinion, "Failed to notify author", map[string]interface{}{
				"opinion_id": opinion.Id.String(),
				"error":      err.Error(),
			})
		}
	}

	s.logger.Info(constant.ModuleOpinion, "Opinion reviewed", map[string]interface{}{
		"opinion_id": opinion.Id.String(),
		"status":     string(next),
		"editor_id":  editorId.String(),
	})
	return opinion, nil
}

func (s *opinionService) emit(ctx context.Context, event events.Event, id uuid.UUID) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn(constant.ModuleOpinion, "Failed to publish event", map[string]interface{}{
			"event":      event.EventType(),
			"opinion_id": id.String(),
			"error":      err.Error(),
		})
	}
}

func toReviewResponse(o *entity.Opinion) *dto.OpinionReviewResponse {
	res := &dto.OpinionReviewResponse{
		Id:          o.Id.String(),
		Headline:    o.Headline,
		SubHeadline: o.SubHeadline,
		Body:        o.Body,
		AuthorName:  o.AuthorName,
		AuthorTitle: o.AuthorTitle,
		AuthorEmail: o.AuthorEmail,
		Category:    o.Category,
		Status:      string(o.Status),
		SubmittedAt: o.SubmittedAt.Format(time.RFC3339),
	}
	if o.PublishedAt != nil {
		p := o.PublishedAt.Format(time.RFC3339)
		res.PublishedAt = &p
	}
	return res
}
