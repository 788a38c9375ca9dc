package mapper

import (
	"encoding/json"

	"morning-pulse-be/internal/entity"
	"morning-pulse-be/internal/model"
	"morning-pulse-be/pkg/store"

	"gorm.io/datatypes"
)

type AskLogMapper struct{}

func NewAskLogMapper() *AskLogMapper {
	return &AskLogMapper{}
}

func (m *AskLogMapper) ToModel(l *entity.AskLog) (*model.AskLog, error) {
	if l == nil {
		return nil, nil
	}
	sources := l.Sources
	if sources == nil {
		sources = []store.Source{}
	}
	raw, err := json.Marshal(sources)
	if err != nil {
		return nil, err
	}
	return &model.AskLog{
		Id:            l.Id,
		SessionId:     l.SessionId,
		Question:      l.Question,
		Answer:        l.Answer,
		Sources:       datatypes.JSON(raw),
		StoryIds:      datatypes.JSONSlice[string](l.StoryIds),
		Streamed:      l.Streamed,
		Truncated:     l.Truncated,
		Failed:        l.Failed,
		FailureReason: l.FailureReason,
		DurationMs:    l.DurationMs,
		CreatedAt:     l.CreatedAt,
	}, nil
}

func (m *AskLogMapper) ToEntity(l *model.AskLog) *entity.AskLog {
	if l == nil {
		return nil
	}
	var sources []store.Source
	if len(l.Sources) > 0 {
		_ = json.Unmarshal(l.Sources, &sources)
	}
	return &entity.AskLog{
		Id:            l.Id,
		SessionId:     l.SessionId,
		Question:      l.Question,
		Answer:        l.Answer,
		Sources:       sources,
		StoryIds:      []string(l.StoryIds),
		Streamed:      l.Streamed,
		Truncated:     l.Truncated,
		Failed:        l.Failed,
		FailureReason: l.FailureReason,
		DurationMs:    l.DurationMs,
		CreatedAt:     l.CreatedAt,
	}
}
