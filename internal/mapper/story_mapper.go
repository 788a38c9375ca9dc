package mapper

import (
	"time"

	"morning-pulse-be/internal/entity"
	"morning-pulse-be/internal/model"
	"morning-pulse-be/pkg/store"

	"gorm.io/gorm"
)

type StoryMapper struct{}

func NewStoryMapper() *StoryMapper {
	return &StoryMapper{}
}

func (m *StoryMapper) ToEntity(s *model.Story) *entity.Story {
	if s == nil {
		return nil
	}
	var deletedAt *time.Time
	if s.DeletedAt.Valid {
		t := s.DeletedAt.Time
		deletedAt = &t
	}
	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	return &entity.Story{
		Id:          s.Id,
		Headline:    s.Headline,
		Detail:      s.Detail,
		Category:    s.Category,
		Source:      s.Source,
		URL:         s.URL,
		Image:       s.Image,
		PublishedAt: s.PublishedAt,
		CreatedBy:   s.CreatedBy,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   updatedAt,
		DeletedAt:   deletedAt,
		IsDeleted:   s.DeletedAt.Valid,
	}
}

func (m *StoryMapper) ToModel(s *entity.Story) *model.Story {
	if s == nil {
		return nil
	}
	var deletedAt gorm.DeletedAt
	if s.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *s.DeletedAt, Valid: true}
	} else if s.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}
	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	return &model.Story{
		Id:          s.Id,
		Headline:    s.Headline,
		Detail:      s.Detail,
		Category:    s.Category,
		Source:      s.Source,
		URL:         s.URL,
		Image:       s.Image,
		PublishedAt: s.PublishedAt,
		CreatedBy:   s.CreatedBy,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   updatedAt,
		DeletedAt:   deletedAt,
	}
}

func (m *StoryMapper) ToEntities(stories []*model.Story) []*entity.Story {
	entities := make([]*entity.Story, len(stories))
	for i, s := range stories {
		entities[i] = m.ToEntity(s)
	}
	return entities
}

// ToDomain converts to the retrieval representation (epoch-millisecond timestamp).
func (m *StoryMapper) ToDomain(s *entity.Story) store.Story {
	ts := s.PublishedAt.UnixMilli()
	return store.Story{
		ID:        s.Id.String(),
		Headline:  s.Headline,
		Detail:    s.Detail,
		Category:  s.Category,
		Source:    s.Source,
		URL:       s.URL,
		Image:     s.Image,
		Date:      s.PublishedAt.Format("January 2, 2006"),
		Timestamp: &ts,
	}
}

// ToCorpus groups stories by category, keeping their order.
func (m *StoryMapper) ToCorpus(stories []*entity.Story) store.Corpus {
	corpus := store.Corpus{}
	for _, s := range stories {
		corpus[s.Category] = append(corpus[s.Category], m.ToDomain(s))
	}
	return corpus
}
