package dto

import "morning-pulse-be/pkg/store"

type FeedQuery struct {
	Category string `query:"category"`
	Limit    int    `query:"limit" validate:"omitempty,min=1,max=200"`
}

type FeedResponse struct {
	Stories    store.Corpus `json:"stories"`
	Categories []string     `json:"categories"`
	Total      int          `json:"total"`
}

// FeedMessage is one frame pushed to websocket feed clients.
type FeedMessage struct {
	Kind    string         `json:"kind"`
	Story   *store.Story   `json:"story,omitempty"`
	Opinion *store.Opinion `json:"opinion,omitempty"`
}
