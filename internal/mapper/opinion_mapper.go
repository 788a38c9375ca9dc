package mapper

import (
	"time"

	"morning-pulse-be/internal/entity"
	"morning-pulse-be/internal/model"
	"morning-pulse-be/pkg/store"
)

type OpinionMapper struct{}

func NewOpinionMapper() *OpinionMapper {
	return &OpinionMapper{}
}

func (m *OpinionMapper) ToEntity(o *model.Opinion) *entity.Opinion {
	if o == nil {
		return nil
	}
	var updatedAt *time.Time
	if !o.UpdatedAt.IsZero() {
		t := o.UpdatedAt
		updatedAt = &t
	}
	return &entity.Opinion{
		Id:              o.Id,
		Headline:        o.Headline,
		SubHeadline:     o.SubHeadline,
		Body:            o.Body,
		AuthorName:      o.AuthorName,
		AuthorTitle:     o.AuthorTitle,
		AuthorEmail:     o.AuthorEmail,
		Category:        o.Category,
		Status:          entity.OpinionStatus(o.Status),
		RejectionReason: o.RejectionReason,
		ReviewedBy:      o.ReviewedBy,
		SubmittedAt:     o.SubmittedAt,
		PublishedAt:     o.PublishedAt,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       updatedAt,
	}
}

func (m *OpinionMapper) ToModel(o *entity.Opinion) *model.Opinion {
	if o == nil {
		return nil
	}
	var updatedAt time.Time
	if o.UpdatedAt != nil {
		updatedAt = *o.UpdatedAt
	}
	return &model.Opinion{
		Id:              o.Id,
		Headline:        o.Headline,
		SubHeadline:     o.SubHeadline,
		Body:            o.Body,
		AuthorName:      o.AuthorName,
		AuthorTitle:     o.AuthorTitle,
		AuthorEmail:     o.AuthorEmail,
		Category:        o.Category,
		Status:          string(o.Status),
		RejectionReason: o.RejectionReason,
		ReviewedBy:      o.ReviewedBy,
		SubmittedAt:     o.SubmittedAt,
		PublishedAt:     o.PublishedAt,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       updatedAt,
	}
}

func (m *OpinionMapper) ToEntities(opinions []*model.Opinion) []*entity.Opinion {
	entities := make([]*entity.Opinion, len(opinions))
	for i, o := range opinions {
		entities[i] = m.ToEntity(o)
	}
	return entities
}

func (m *OpinionMapper) ToDomain(o *entity.Opinion) store.Opinion {
	submitted := o.SubmittedAt
	return store.Opinion{
		ID:          o.Id.String(),
		Headline:    o.Headline,
		SubHeadline: o.SubHeadline,
		Body:        o.Body,
		AuthorName:  o.AuthorName,
		AuthorTitle: o.AuthorTitle,
		Category:    o.Category,
		PublishedAt: o.PublishedAt,
		SubmittedAt: &submitted,
		IsPublished: o.Status == entity.OpinionStatusPublished,
	}
}

func (m *OpinionMapper) ToDomains(opinions []*entity.Opinion) []store.Opinion {
	out := make([]store.Opinion, len(opinions))
	for i, o := range opinions {
		out[i] = m.ToDomain(o)
	}
	return out
}
