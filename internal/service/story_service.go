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

// corpusWindow bounds how far back the stored corpus reaches.
const corpusWindow = 30 * 24 * time.Hour

const corpusMaxStories = 500

type IStoryService interface {
	Publish(ctx context.Context, editorId uuid.UUID, req *dto.PublishStoryRequest) (*store.Story, error)
	// Retract soft-deletes a story so it leaves the feed and the corpus.
	Retract(ctx context.Context, id uuid.UUID) error
	Feed(ctx context.Context, query dto.FeedQuery) (*dto.FeedResponse, error)
	// Corpus returns the stored stories grouped by category, cached between writes.
	Corpus(ctx context.Context) (store.Corpus, error)
}

type storyService struct {
	uowFactory unitofwork.RepositoryFactory
	cache      *memory.CorpusCache
	publisher  EventPublisher
	mapper     *mapper.StoryMapper
	logger     logger.ILogger
	now        func() time.Time
}

func NewStoryService(
	uowFactory unitofwork.RepositoryFactory,
	cache *memory.CorpusCache,
	publisher EventPublisher,
	logger logger.ILogger,
) IStoryService {
	return &storyService{
		uowFactory: uowFactory,
		cache:      cache,
		publisher:  publisher,
		mapper:     mapper.NewStoryMapper(),
		logger:     logger,
		now:        time.Now,
	}
}

func (s *storyService) Publish(ctx context.Context, editorId uuid.UUID, req *dto.PublishStoryRequest) (*store.Story, error) {
	now := s.now()
	story := &entity.Story{
		Id:          uuid.New(),
		Headline:    strings.TrimSpace(req.Headline),
		Detail:      strings.TrimSpace(req.Detail),
		Category:    strings.TrimSpace(req.Category),
		Source:      strings.TrimSpace(req.Source),
		URL:         req.URL,
		Image:       req.Image,
		PublishedAt: now,
		CreatedBy:   &editorId,
		CreatedAt:   now,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.StoryRepository().Create(ctx, story); err != nil {
		return nil, err
	}
	s.cache.Invalidate()

	domain := s.mapper.ToDomain(story)
	if err := s.publisher.Publish(ctx, events.NewStoryPublished(domain, now)); err != nil {
		// the story is stored; live readers pick it up on the next feed fetch
		s.logger.Warn(constant.ModuleStory, "Failed to publish story event", map[string]interface{}{
			"story_id": story.Id.String(),
			"error":    err.Error(),
		})
	}

	s.logger.Info(constant.ModuleStory, "Story published", map[string]interface{}{
		"story_id": story.Id.String(),
		"category": story.Category,
	})
	return &domain, nil
}

var ErrStoryNotFound = errors.New("story not found")

func (s *storyService) Retract(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	story, err := uow.StoryRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if story == nil {
		return ErrStoryNotFound
	}
	if err := uow.StoryRepository().Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate()

	s.logger.Info(constant.ModuleStory, "Story retracted", map[string]interface{}{"story_id": id.String()})
	return nil
}

func (s *storyService) Feed(ctx context.Context, query dto.FeedQuery) (*dto.FeedResponse, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = constant.FeedDefaultLimit
	}

	specs := []specification.Specification{
		specification.LatestStories{},
		specification.Pagination{Limit: limit},
	}
	if query.Category != "" {
		specs = append(specs, specification.StoriesInCategory{Category: query.Category})
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	stories, err := uow.StoryRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	corpus := s.mapper.ToCorpus(stories)
	return &dto.FeedResponse{
		Stories:    corpus,
		Categories: corpus.Categories(),
		Total:      corpus.Size(),
	}, nil
}

func (s *storyService) Corpus(ctx context.Context) (store.Corpus, error) {
	if corpus, ok := s.cache.Corpus(); ok {
		return corpus, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	stories, err := uow.StoryRepository().FindAll(ctx,
		specification.PublishedSince{Since: s.now().Add(-corpusWindow)},
		specification.LatestStories{},
		specification.Pagination{Limit: corpusMaxStories},
	)
	if err != nil {
		return nil, err
	}

	corpus := s.mapper.ToCorpus(stories)
	s.cache.SetCorpus(corpus)
	return corpus, nil
}
