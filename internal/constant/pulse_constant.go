package constant

import "time"

const (
	// ModuleAsk and friends tag log lines by component.
	ModuleAsk      = "ASK"
	ModuleFeed     = "FEED"
	ModuleOpinion  = "OPINION"
	ModuleStory    = "STORY"
	ModuleEditor   = "EDITOR"
	ModuleArchive  = "ARCHIVE"
	ModuleNotifier = "NOTIFIER"
)

const (
	// Durable consumer names on the event stream.
	FeedStoryConsumer    = "feed-story"
	FeedOpinionConsumer  = "feed-opinion"
	EditorMailConsumer   = "editor-mail"
	FeedRedisChannel     = "pulse:feed"
	EditorTokenTTL       = 12 * time.Hour
	CorpusCacheTTL       = 5 * time.Minute
	FeedDefaultLimit     = 50
	OpinionsDefaultLimit = 20
	SSEHeartbeatInterval = 15 * time.Second
)

// Feed message kinds pushed to websocket clients.
const (
	FeedKindStory   = "story"
	FeedKindOpinion = "opinion"
	FeedKindHello   = "hello"
)
