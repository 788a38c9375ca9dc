package events

import (
	"encoding/json"
	"fmt"
	"time"

	"morning-pulse-be/pkg/store"
)

const (
	TypeStoryPublished   = "story.published"
	TypeOpinionSubmitted = "opinion.submitted"
	TypeOpinionPublished = "opinion.published"
)

func NewStoryPublished(story store.Story, at time.Time) BaseEvent {
	return BaseEvent{Type: TypeStoryPublished, Data: toMap(story), OccurredAt: at}
}

func NewOpinionSubmitted(opinion store.Opinion, at time.Time) BaseEvent {
	return BaseEvent{Type: TypeOpinionSubmitted, Data: toMap(opinion), OccurredAt: at}
}

func NewOpinionPublished(opinion store.Opinion, at time.Time) BaseEvent {
	return BaseEvent{Type: TypeOpinionPublished, Data: toMap(opinion), OccurredAt: at}
}

// Decode converts an event payload back into v (a *store.Story or *store.Opinion).
func Decode(e Event, v any) error {
	raw, err := json.Marshal(e.Payload())
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", e.EventType(), err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %s payload: %w", e.EventType(), err)
	}
	return nil
}

func toMap(v any) map[string]interface{} {
	raw, err := json.Marshal(v)
	if err != nil {
		return map[string]interface{}{}
	}
	out := map[string]interface{}{}
	_ = json.Unmarshal(raw, &out)
	return out
}
